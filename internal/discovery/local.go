package discovery

import (
	"context"
	"fmt"

	"apiscout/internal/log"
	"apiscout/internal/sysinfo"
)

// servicePorts are well-known services that listen locally but are not
// project APIs: ssh, smtp, dns, http(s), mysql, postgres, redis, mongo.
var servicePorts = map[uint32]struct{}{
	22: {}, 25: {}, 53: {}, 80: {}, 443: {},
	3306: {}, 5432: {}, 6379: {}, 27017: {},
}

// SocketSource lists the host's listening sockets.
type SocketSource interface {
	ListeningSockets(ctx context.Context) ([]sysinfo.Socket, error)
}

// MetadataResolver resolves a pid to process metadata.
type MetadataResolver interface {
	Resolve(ctx context.Context, pid int32) (sysinfo.Metadata, error)
}

// LocalDetector flags listening sockets whose port looks like a
// development API and resolves their owning processes.
type LocalDetector struct {
	sockets  SocketSource
	resolver MetadataResolver
}

// NewLocalDetector builds a detector over the given sources.
func NewLocalDetector(sockets SocketSource, resolver MetadataResolver) *LocalDetector {
	return &LocalDetector{sockets: sockets, resolver: resolver}
}

// Detect runs the port heuristic over the current socket table. Sockets
// whose owner cannot be resolved are dropped: a vanished or unreadable
// process is routine churn, not a cycle failure.
func (d *LocalDetector) Detect(ctx context.Context) ([]Local, error) {
	sockets, err := d.sockets.ListeningSockets(ctx)
	if err != nil {
		return nil, fmt.Errorf("detecting local APIs: %w", err)
	}

	var found []Local
	for _, sock := range sockets {
		if !CandidatePort(sock.Port) {
			continue
		}

		meta, err := d.resolver.Resolve(ctx, sock.PID)
		if err != nil {
			log.Debug(log.CatDiscover, "dropping socket with unresolvable owner",
				"port", sock.Port, "pid", sock.PID, "error", err)
			continue
		}

		found = append(found, NewLocal(sock.Port, sock.PID, meta.Name, meta.Cmdline))
	}

	return found, nil
}

// CandidatePort reports whether a listening port plausibly belongs to a
// project API: above the system range and not a well-known service.
func CandidatePort(port uint32) bool {
	if port < 1024 {
		return false
	}
	_, excluded := servicePorts[port]
	return !excluded
}

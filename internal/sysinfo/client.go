package sysinfo

import (
	"context"
	"fmt"
	"time"

	gopsnet "github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"

	"apiscout/internal/log"
	"apiscout/internal/tracing"
)

// Client queries the OS socket and process tables via gopsutil.
type Client struct{}

// NewClient creates a system-table client.
func NewClient() *Client {
	return &Client{}
}

// ListeningSockets returns every inet socket currently in LISTEN state.
func (c *Client) ListeningSockets(ctx context.Context) ([]Socket, error) {
	start := time.Now()

	conns, err := gopsnet.ConnectionsWithContext(ctx, "inet")
	if err != nil {
		log.ErrorErr(log.CatProc, "listing connections failed", err)
		return nil, fmt.Errorf("listing connections: %w", err)
	}

	var sockets []Socket
	for _, conn := range conns {
		if conn.Status != "LISTEN" || conn.Laddr.Port == 0 {
			continue
		}
		sockets = append(sockets, Socket{
			IP:   conn.Laddr.IP,
			Port: conn.Laddr.Port,
			PID:  conn.Pid,
		})
	}

	log.Debug(log.CatProc, "listening sockets enumerated",
		"count", len(sockets),
		"duration_ms", time.Since(start).Milliseconds(),
		"cycle", tracing.CycleIDFromContext(ctx))

	return sockets, nil
}

// Connections returns the process's sockets that have a remote peer. The
// error satisfies ErrProcessUnavailable when the process vanished or denied
// access mid-query.
func (c *Client) Connections(ctx context.Context, pid int32) ([]Connection, error) {
	conns, err := gopsnet.ConnectionsPidWithContext(ctx, "inet", pid)
	if err != nil {
		return nil, unavailable(pid, err)
	}

	var out []Connection
	for _, conn := range conns {
		if conn.Raddr.IP == "" {
			continue
		}
		out = append(out, Connection{
			RemoteIP:   conn.Raddr.IP,
			RemotePort: conn.Raddr.Port,
		})
	}
	return out, nil
}

// Processes returns the current process table. Rows whose name cannot be
// read (the process exited mid-iteration, or access was denied) are
// silently dropped.
func (c *Client) Processes(ctx context.Context) ([]ProcessHandle, error) {
	start := time.Now()

	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		log.ErrorErr(log.CatProc, "listing processes failed", err)
		return nil, fmt.Errorf("listing processes: %w", err)
	}

	handles := make([]ProcessHandle, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		handles = append(handles, ProcessHandle{PID: p.Pid, Name: name})
	}

	log.Debug(log.CatProc, "process table enumerated",
		"count", len(handles),
		"duration_ms", time.Since(start).Milliseconds(),
		"cycle", tracing.CycleIDFromContext(ctx))

	return handles, nil
}

// Metadata resolves a pid to its process name and command line. The name is
// required; the command line is best-effort and empty when unreadable.
func (c *Client) Metadata(ctx context.Context, pid int32) (Metadata, error) {
	if pid <= 0 {
		return Metadata{}, fmt.Errorf("%w: no owning pid", ErrProcessUnavailable)
	}

	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return Metadata{}, unavailable(pid, err)
	}

	name, err := p.NameWithContext(ctx)
	if err != nil {
		return Metadata{}, unavailable(pid, err)
	}

	cmdline, err := p.CmdlineWithContext(ctx)
	if err != nil {
		cmdline = ""
	}

	return Metadata{Name: name, Cmdline: cmdline}, nil
}

// Terminate sends a graceful termination signal (SIGTERM) to the process.
func (c *Client) Terminate(ctx context.Context, pid int32) error {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return fmt.Errorf("unable to find PID %d: %w", pid, err)
	}

	if err := p.TerminateWithContext(ctx); err != nil {
		log.ErrorErr(log.CatTerm, "terminate signal failed", err, "pid", pid)
		return fmt.Errorf("terminate PID %d: %w", pid, err)
	}

	log.Info(log.CatTerm, "sent termination signal", "pid", pid)
	return nil
}

package discovery

import (
	"context"
	"fmt"
	"strings"

	"apiscout/internal/log"
	"apiscout/internal/sysinfo"
)

// browserNames are the substrings that mark a process as a browser.
var browserNames = []string{"chrome", "firefox", "edge", "safari"}

// apiPorts are remote ports a browser tab would hold open while talking
// to an API.
var apiPorts = map[uint32]struct{}{
	80: {}, 443: {}, 3000: {}, 5000: {}, 8000: {}, 8080: {}, 8443: {},
}

// ProcessSource lists processes and their remote connections.
type ProcessSource interface {
	Processes(ctx context.Context) ([]sysinfo.ProcessHandle, error)
	Connections(ctx context.Context, pid int32) ([]sysinfo.Connection, error)
}

// BrowserDetector flags browser connections to well-known API ports. This
// is a coarse proxy for "an API is reachable from an open tab", not
// request-level tracing: a matching remote port proves a live connection
// and nothing more. Duplicates are preserved since each connection is a
// distinct live link.
type BrowserDetector struct {
	procs ProcessSource
}

// NewBrowserDetector builds a detector over the given source.
func NewBrowserDetector(procs ProcessSource) *BrowserDetector {
	return &BrowserDetector{procs: procs}
}

// Detect walks browser processes and emits one entry per qualifying
// connection. Processes that vanish mid-walk or deny access are skipped.
func (d *BrowserDetector) Detect(ctx context.Context) ([]Browser, error) {
	procs, err := d.procs.Processes(ctx)
	if err != nil {
		return nil, fmt.Errorf("detecting browser APIs: %w", err)
	}

	var found []Browser
	for _, proc := range procs {
		if !isBrowser(proc.Name) {
			continue
		}

		conns, err := d.procs.Connections(ctx, proc.PID)
		if err != nil {
			log.Debug(log.CatDiscover, "skipping browser process",
				"pid", proc.PID, "name", proc.Name, "error", err)
			continue
		}

		for _, conn := range conns {
			if _, ok := apiPorts[conn.RemotePort]; !ok {
				continue
			}
			found = append(found, NewBrowser(EndpointURL(conn.RemoteIP, conn.RemotePort), proc.PID, proc.Name))
		}
	}

	return found, nil
}

// EndpointURL synthesizes the URL a tab would be talking to. Only 443 is
// treated as TLS.
func EndpointURL(ip string, port uint32) string {
	scheme := "http"
	if port == 443 {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, ip, port)
}

func isBrowser(name string) bool {
	lower := strings.ToLower(name)
	for _, b := range browserNames {
		if strings.Contains(lower, b) {
			return true
		}
	}
	return false
}

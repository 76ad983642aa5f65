package discovery

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"apiscout/internal/sysinfo"
)

// fakeSocketSource serves a fixed socket table.
type fakeSocketSource struct {
	sockets []sysinfo.Socket
	err     error
}

func (f *fakeSocketSource) ListeningSockets(ctx context.Context) ([]sysinfo.Socket, error) {
	return f.sockets, f.err
}

// fakeResolver maps pids to metadata; pids outside the map resolve to
// ErrProcessUnavailable.
type fakeResolver struct {
	metadata map[int32]sysinfo.Metadata
}

func (f *fakeResolver) Resolve(ctx context.Context, pid int32) (sysinfo.Metadata, error) {
	meta, ok := f.metadata[pid]
	if !ok {
		return sysinfo.Metadata{}, fmt.Errorf("%w: pid %d", sysinfo.ErrProcessUnavailable, pid)
	}
	return meta, nil
}

// fakeProcessSource serves a process table and per-pid connections.
type fakeProcessSource struct {
	procs    []sysinfo.ProcessHandle
	conns    map[int32][]sysinfo.Connection
	connErrs map[int32]error
	procsErr error
}

func (f *fakeProcessSource) Processes(ctx context.Context) ([]sysinfo.ProcessHandle, error) {
	return f.procs, f.procsErr
}

func (f *fakeProcessSource) Connections(ctx context.Context, pid int32) ([]sysinfo.Connection, error) {
	if err, ok := f.connErrs[pid]; ok {
		return nil, err
	}
	return f.conns[pid], nil
}

func testTracer() trace.Tracer {
	return noop.NewTracerProvider().Tracer("test")
}

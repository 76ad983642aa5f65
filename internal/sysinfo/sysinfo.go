// Package sysinfo wraps the OS socket and process tables behind small
// domain types. All queries are read-only; the one side effect lives in
// Terminate, which delivers a graceful termination signal.
package sysinfo

import (
	"errors"
	"fmt"
	"os"
	"runtime"
)

// ErrProcessUnavailable marks metadata or connection lookups that failed
// because the process exited, is a zombie, or denied access. Callers treat
// it as "skip this candidate", never as a fatal error.
var ErrProcessUnavailable = errors.New("process unavailable")

// Socket is an OS-level endpoint in LISTEN state.
type Socket struct {
	IP   string
	Port uint32
	// PID of the owning process; 0 when the kernel would not reveal it.
	PID int32
}

// Connection is a socket with a remote peer, seen from a single process.
type Connection struct {
	RemoteIP   string
	RemotePort uint32
}

// ProcessHandle is one row of the process table.
type ProcessHandle struct {
	PID  int32
	Name string
}

// Metadata is the resolved identity of a process.
type Metadata struct {
	Name    string
	Cmdline string
}

func unavailable(pid int32, err error) error {
	return fmt.Errorf("%w: pid %d: %v", ErrProcessUnavailable, pid, err)
}

// Restricted reports whether the process lacks the privileges that reveal
// other users' sockets and allow signalling arbitrary processes. Always
// false on Windows, where the elevation model is different.
func Restricted() bool {
	if runtime.GOOS == "windows" {
		return false
	}
	return os.Geteuid() != 0
}

// Package discovery detects candidate APIs from the host's socket and
// process tables and assembles them into a per-cycle registry.
package discovery

import (
	"fmt"
	"strconv"
)

// maxNameWidth bounds the process name column.
const maxNameWidth = 30

// Kind discriminates the two classes of detected API.
type Kind int

const (
	KindLocal Kind = iota
	KindBrowser
)

// String returns the display form used in tables and prompts.
func (k Kind) String() string {
	switch k {
	case KindLocal:
		return "LOCAL"
	case KindBrowser:
		return "BROWSER"
	default:
		return "UNKNOWN"
	}
}

// Entry is one detected API candidate. Entries are created by a detector,
// owned by the cycle's Registry, and never mutated afterwards. The only
// implementations are Local and Browser.
type Entry interface {
	Kind() Kind
	// PID reports the owning process, or 0 when none was resolved.
	PID() int32
	// Name is the owning process name, already truncated for display.
	Name() string
	// Cmdline is best-effort and empty when the OS denied access.
	Cmdline() string
	// Target is the table projection: the bare port for local entries, the
	// endpoint URL for browser ones.
	Target() string
	Status() string

	entry()
}

// Local is an API served by a process listening on a local port.
type Local struct {
	port    uint32
	pid     int32
	name    string
	cmdline string
}

// NewLocal builds a local entry. The name is defaulted and truncated here
// so every downstream consumer sees the same display form.
func NewLocal(port uint32, pid int32, name, cmdline string) Local {
	return Local{port: port, pid: pid, name: displayName(name), cmdline: cmdline}
}

func (l Local) Kind() Kind      { return KindLocal }
func (l Local) PID() int32      { return l.pid }
func (l Local) Name() string    { return l.name }
func (l Local) Cmdline() string { return l.cmdline }
func (l Local) Target() string  { return strconv.FormatUint(uint64(l.port), 10) }
func (l Local) Status() string  { return "Running" }
func (Local) entry()            {}

// Port returns the locally bound listening port.
func (l Local) Port() uint32 { return l.port }

// Browser is an API inferred from a browser process holding a connection
// to a well-known API port. The inference is a heuristic: a matching
// remote port proves a live connection, not what the tab is doing with it.
type Browser struct {
	endpoint string
	pid      int32
	name     string
}

// NewBrowser builds a browser entry for one live connection.
func NewBrowser(endpoint string, pid int32, name string) Browser {
	return Browser{endpoint: endpoint, pid: pid, name: displayName(name)}
}

func (b Browser) Kind() Kind      { return KindBrowser }
func (b Browser) PID() int32      { return b.pid }
func (b Browser) Name() string    { return b.name }
func (b Browser) Cmdline() string { return "" }
func (b Browser) Target() string  { return b.endpoint }
func (b Browser) Status() string  { return "Active in browser" }
func (Browser) entry()            {}

// Endpoint returns the synthesized URL of the remote peer.
func (b Browser) Endpoint() string { return b.endpoint }

// PIDLabel renders the pid column: the numeric pid, or "N/A" when the
// entry has none.
func PIDLabel(e Entry) string {
	if e.PID() <= 0 {
		return "N/A"
	}
	return strconv.FormatInt(int64(e.PID()), 10)
}

// PromptLabel renders an entry the way the terminate picker lists it.
func PromptLabel(index int, e Entry) string {
	target := e.Target()
	if e.Kind() == KindLocal {
		target = "Port " + target
	}
	return fmt.Sprintf("%d. %s - %s (PID: %s)", index, e.Kind(), target, PIDLabel(e))
}

func displayName(name string) string {
	if name == "" {
		return "Unknown"
	}
	runes := []rune(name)
	if len(runes) > maxNameWidth {
		return string(runes[:maxNameWidth])
	}
	return name
}

package tracing

// Span names for discovery tracing.
const (
	SpanCycle         = "discovery.cycle"
	SpanDetectLocal   = "discovery.detect.local"
	SpanDetectBrowser = "discovery.detect.browser"
	SpanTerminate     = "terminate.signal"
)

// Span attribute keys. Counts are recorded when a pass completes.
const (
	AttrCycleID      = "cycle.id"
	AttrLocalCount   = "entries.local"
	AttrBrowserCount = "entries.browser"
	AttrEntryCount   = "entries.total"
	AttrPID          = "process.pid"
	AttrPort         = "socket.port"
	AttrEntryKind    = "entry.kind"
)

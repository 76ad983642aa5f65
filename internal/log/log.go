// Package log provides structured logging for API Scout. Records are
// written to a log file as timestamped key=value lines, kept in an
// in-memory ring buffer for the in-app log overlay, and published through a
// pubsub broker so the overlay can live-tail new records.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"apiscout/internal/pubsub"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config string to a Level.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Category groups related log messages.
type Category string

const (
	CatDiscover Category = "discover" // Detector passes and cycle assembly
	CatProc     Category = "proc"     // Socket/process table queries and metadata resolution
	CatTerm     Category = "term"     // Termination signal delivery
	CatCache    Category = "cache"    // Metadata cache operations
	CatUI       Category = "ui"       // UI component updates
	CatConfig   Category = "config"   // Configuration loading/saving
	CatSys      Category = "sys"      // Privilege and environment checks
	CatTrace    Category = "trace"    // Tracing provider lifecycle
)

const defaultRingSize = 2000

// Logger provides structured logging.
type Logger struct {
	mu       sync.Mutex
	file     *os.File
	writer   io.Writer
	enabled  bool
	minLevel Level
	ring     []string
	ringMax  int
	broker   *pubsub.Broker[string]
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// Init initializes the global logger, appending to the file at path and
// retaining up to ringSize recent records in memory (a non-positive value
// selects the default of 2000). Returns a cleanup function that closes the
// log file.
func Init(path string, ringSize int) (func(), error) {
	var initErr error
	once.Do(func() {
		defaultLogger, initErr = newLogger(path, ringSize)
	})
	if initErr != nil {
		return nil, initErr
	}
	if defaultLogger == nil {
		return nil, fmt.Errorf("logger initialization failed or already attempted")
	}
	return func() {
		if defaultLogger != nil && defaultLogger.file != nil {
			_ = defaultLogger.file.Close()
		}
	}, nil
}

func newLogger(path string, ringSize int) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644) //nolint:gosec // G304: path is user-controlled log path
	if err != nil {
		return nil, err
	}

	if ringSize <= 0 {
		ringSize = defaultRingSize
	}

	return &Logger{
		file:     f,
		writer:   f,
		enabled:  true,
		minLevel: LevelDebug,
		ringMax:  ringSize,
		broker:   pubsub.NewBroker[string](),
	}, nil
}

// SetEnabled toggles logging on/off.
func SetEnabled(enabled bool) {
	if defaultLogger != nil {
		defaultLogger.mu.Lock()
		defaultLogger.enabled = enabled
		defaultLogger.mu.Unlock()
	}
}

// SetMinLevel sets the minimum log level.
func SetMinLevel(level Level) {
	if defaultLogger != nil {
		defaultLogger.mu.Lock()
		defaultLogger.minLevel = level
		defaultLogger.mu.Unlock()
	}
}

// Debug logs at debug level.
func Debug(cat Category, msg string, fields ...any) {
	write(LevelDebug, cat, msg, fields...)
}

// Info logs at info level.
func Info(cat Category, msg string, fields ...any) {
	write(LevelInfo, cat, msg, fields...)
}

// Warn logs at warning level.
func Warn(cat Category, msg string, fields ...any) {
	write(LevelWarn, cat, msg, fields...)
}

// Error logs at error level.
func Error(cat Category, msg string, fields ...any) {
	write(LevelError, cat, msg, fields...)
}

// ErrorErr logs an error with the error value appended as a field.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	if err != nil {
		fields = append(fields, "error", err.Error())
	} else {
		fields = append(fields, "error", "<nil>")
	}
	write(LevelError, cat, msg, fields...)
}

func write(level Level, cat Category, msg string, fields ...any) {
	if defaultLogger == nil || !defaultLogger.enabled {
		return
	}
	if level < defaultLogger.minLevel {
		return
	}

	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()

	// Format: 2026-08-12T10:45:00 [ERROR] [discover] message key=value
	timestamp := time.Now().Format("2006-01-02T15:04:05")
	entry := fmt.Sprintf("%s [%s] [%s] %s", timestamp, level, cat, msg)

	for i := 0; i+1 < len(fields); i += 2 {
		entry += fmt.Sprintf(" %v=%v", fields[i], fields[i+1])
	}
	// Odd trailing key gets an explicit placeholder value.
	if len(fields)%2 != 0 {
		entry += fmt.Sprintf(" %v=<missing>", fields[len(fields)-1])
	}

	if defaultLogger.writer != nil {
		_, _ = defaultLogger.writer.Write([]byte(entry + "\n"))
	}

	defaultLogger.ring = append(defaultLogger.ring, entry)
	if len(defaultLogger.ring) > defaultLogger.ringMax {
		defaultLogger.ring = defaultLogger.ring[len(defaultLogger.ring)-defaultLogger.ringMax:]
	}

	if defaultLogger.broker != nil {
		defaultLogger.broker.Publish(pubsub.AppendedEvent, entry)
	}
}

// GetRecentLogs returns up to n of the most recent records, oldest first.
func GetRecentLogs(n int) []string {
	if defaultLogger == nil {
		return nil
	}
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()

	if n <= 0 || len(defaultLogger.ring) == 0 {
		return nil
	}
	if n > len(defaultLogger.ring) {
		n = len(defaultLogger.ring)
	}
	out := make([]string, n)
	copy(out, defaultLogger.ring[len(defaultLogger.ring)-n:])
	return out
}

// ClearBuffer empties the ring buffer. The log file is untouched.
func ClearBuffer() {
	if defaultLogger == nil {
		return
	}
	defaultLogger.mu.Lock()
	defaultLogger.ring = nil
	broker := defaultLogger.broker
	defaultLogger.mu.Unlock()

	if broker != nil {
		broker.Publish(pubsub.ClearedEvent, "")
	}
}

// LogEvent is a pubsub event containing a formatted log record.
type LogEvent = pubsub.Event[string]

// LogListener wraps a continuous listener for log events.
type LogListener = pubsub.ContinuousListener[string]

// NewListener creates a new log event listener. It is cleaned up when ctx
// is cancelled, and returns nil when the logger was never initialized.
func NewListener(ctx context.Context) *LogListener {
	if defaultLogger == nil || defaultLogger.broker == nil {
		return nil
	}
	return pubsub.NewContinuousListener(ctx, defaultLogger.broker)
}

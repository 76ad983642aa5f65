package discovery

import (
	"errors"
	"fmt"
	"time"
)

// ErrIndexOutOfRange reports a selection index outside the registry's
// 1-based range.
var ErrIndexOutOfRange = errors.New("index out of range")

// Registry is the immutable result of one discovery cycle. Local entries
// come first, then browser entries, each detector's internal order
// preserved and no deduplication applied. Display indices are 1-based and
// stable until the next cycle replaces the registry wholesale.
type Registry struct {
	cycleID string
	takenAt time.Time
	entries []Entry
}

// NewRegistry assembles a registry from the two detector outputs.
func NewRegistry(cycleID string, locals []Local, browsers []Browser) *Registry {
	entries := make([]Entry, 0, len(locals)+len(browsers))
	for _, l := range locals {
		entries = append(entries, l)
	}
	for _, b := range browsers {
		entries = append(entries, b)
	}
	return &Registry{cycleID: cycleID, takenAt: time.Now(), entries: entries}
}

// CycleID identifies the discovery cycle that produced this registry.
func (r *Registry) CycleID() string { return r.cycleID }

// TakenAt is when the cycle's snapshot was assembled.
func (r *Registry) TakenAt() time.Time { return r.takenAt }

// Len reports the number of entries.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// Empty reports whether the cycle found nothing.
func (r *Registry) Empty() bool { return r.Len() == 0 }

// Entries returns a copy of the snapshot so callers cannot mutate it.
func (r *Registry) Entries() []Entry {
	if r == nil {
		return nil
	}
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// At returns the entry at the given 1-based display index.
func (r *Registry) At(index int) (Entry, error) {
	if index < 1 || index > r.Len() {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, r.Len())
	}
	return r.entries[index-1], nil
}

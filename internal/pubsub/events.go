// Package pubsub provides a generic publish/subscribe broker used to fan
// events out to interested UI components, most notably live log tailing.
package pubsub

import (
	"context"
	"time"
)

// EventType classifies a published event.
type EventType string

const (
	// AppendedEvent signals that a new item was appended to a stream,
	// e.g. a log record written to the ring buffer.
	AppendedEvent EventType = "appended"
	// ClearedEvent signals that a stream was reset, e.g. the log ring
	// buffer was emptied.
	ClearedEvent EventType = "cleared"
)

// Event carries a typed payload to subscribers.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}

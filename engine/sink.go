package engine

import "sync"

// EventSink is a consumer-supplied callback receiving the engine's ordered
// event stream. It is invoked from the engine's linearization goroutine
// (§5/§6): implementations must not block indefinitely and must not
// re-enter the engine (Submit/Cancel/EndOfDay), which would deadlock
// against the submission serialization.
//
// OrderEvent values passed to Publish are owned by the caller only for the
// duration of the call: a sink that needs to retain or process them
// asynchronously must copy them first. Mirrors the teacher's
// PublishLog contract (publish_log.go).
type EventSink interface {
	Publish(events ...OrderEvent)
}

// NoopSink discards every event. The default for callers that only care
// about Engine's synchronous []OrderEvent return value.
type NoopSink struct{}

// Publish implements EventSink.
func (NoopSink) Publish(events ...OrderEvent) {}

// LoggingSink logs one line per event at Info via the package logger.
type LoggingSink struct{}

// Publish implements EventSink.
func (LoggingSink) Publish(events ...OrderEvent) {
	for _, e := range events {
		logger.Info("order event",
			"kind", e.Kind.String(),
			"order_id", e.OrderID,
			"sequence", e.Sequence,
			"reason", string(e.Reason),
		)
	}
}

// MemorySink accumulates every event it receives, for test assertions.
// Grounded on the teacher's MemoryPublishLog.
type MemorySink struct {
	mu     sync.RWMutex
	events []OrderEvent
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Publish implements EventSink.
func (m *MemorySink) Publish(events ...OrderEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
}

// Events returns a copy of every event received so far, in publish order.
func (m *MemorySink) Events() []OrderEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]OrderEvent, len(m.events))
	copy(out, m.events)
	return out
}

// Count returns the number of events received so far.
func (m *MemorySink) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.events)
}

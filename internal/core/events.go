package core

import (
	"context"
	"sync"

	"dischargecore/pkg/domain"
)

// MemoryEventSink captures published events in memory. Intended for tests
// and embedded hosts that poll rather than subscribe.
type MemoryEventSink struct {
	mu     sync.Mutex
	events []domain.Event
}

// NewMemoryEventSink returns an empty capture sink.
func NewMemoryEventSink() *MemoryEventSink { return &MemoryEventSink{} }

// Publish appends the event to the capture buffer.
func (s *MemoryEventSink) Publish(_ context.Context, event domain.Event) error {
	s.mu.Lock()
	s.events = append(s.events, event)
	s.mu.Unlock()
	return nil
}

// Events returns a copy of all captured events in publication order.
func (s *MemoryEventSink) Events() []domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Event, len(s.events))
	copy(out, s.events)
	return out
}

// LoggingEventSink writes each event to a Logger at info level.
type LoggingEventSink struct {
	log Logger
}

// NewLoggingEventSink returns a sink logging through log.
func NewLoggingEventSink(log Logger) *LoggingEventSink {
	if log == nil {
		log = noopLogger{}
	}
	return &LoggingEventSink{log: log}
}

// Publish logs the event.
func (s *LoggingEventSink) Publish(_ context.Context, event domain.Event) error {
	s.log.Info("event", "type", string(event.Type), "plan_id", uint64(event.Plan), "at", uint64(event.At))
	return nil
}

var (
	_ domain.EventSink = (*MemoryEventSink)(nil)
	_ domain.EventSink = (*LoggingEventSink)(nil)
)

// Package audit records who did what to which submission. Events flow from
// the engine through a Publisher into a Sink; the worker decouples request
// latency from slow sinks.
package audit

import (
	"context"
	"sync"
	"time"
)

// Sink receives audit events. It is append-only.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Publisher captures structured audit events. It stamps missing timestamps so
// emitters do not need a clock.
type Publisher struct {
	sink Sink
}

func NewPublisher(sink Sink) *Publisher {
	return &Publisher{sink: sink}
}

func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	return p.sink.Append(ctx, event)
}

// MemorySink keeps events in memory for tests and single-process runs.
type MemorySink struct {
	mu     sync.RWMutex
	events []Event
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Events returns a copy of everything appended so far.
func (s *MemorySink) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event(nil), s.events...)
}

// ChannelSink enqueues events for a background Worker instead of writing
// inline. Append blocks until the worker drains or the context is cancelled.
type ChannelSink struct {
	inbox chan<- Event
}

func NewChannelSink(inbox chan<- Event) *ChannelSink {
	return &ChannelSink{inbox: inbox}
}

func (s *ChannelSink) Append(ctx context.Context, event Event) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case s.inbox <- event:
		return nil
	}
}

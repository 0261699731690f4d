// Package testbus provides test utilities for the event bus.
// It wraps a real EventBus with event recording and assertion helpers.
package testbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/studioops/reelflow/internal/core/eventbus"
)

// RecordedEvent holds a captured event name and payload.
type RecordedEvent struct {
	Event   eventbus.Event
	Payload any
}

// Bus wraps a real EventBus with event recording for tests.
type Bus struct {
	*eventbus.EventBus
	cancel context.CancelFunc

	mu     sync.Mutex
	events []RecordedEvent
}

// New creates a test bus, starts it in a background goroutine, and
// subscribes to all event types for recording. The bus is stopped when the
// test completes.
func New(t *testing.T) *Bus {
	t.Helper()

	bus := eventbus.New(64)
	ctx, cancel := context.WithCancel(context.Background())

	tb := &Bus{
		EventBus: bus,
		cancel:   cancel,
	}

	bus.SubscribeSnapshotApplied(func(p eventbus.SnapshotAppliedPayload) {
		tb.record(eventbus.EventSnapshotApplied, p)
	})
	bus.SubscribeTaskCreated(func(p eventbus.TaskCreatedPayload) {
		tb.record(eventbus.EventTaskCreated, p)
	})
	bus.SubscribeTaskTransitioned(func(p eventbus.TaskTransitionedPayload) {
		tb.record(eventbus.EventTaskTransitioned, p)
	})
	bus.SubscribeTaskAssigned(func(p eventbus.TaskAssignedPayload) {
		tb.record(eventbus.EventTaskAssigned, p)
	})
	bus.SubscribeTaskRouted(func(p eventbus.TaskRoutedPayload) {
		tb.record(eventbus.EventTaskRouted, p)
	})
	bus.SubscribeTaskRevision(func(p eventbus.TaskRevisionPayload) {
		tb.record(eventbus.EventTaskRevision, p)
	})

	go bus.Start(ctx)

	t.Cleanup(func() {
		cancel()
	})

	return tb
}

func (b *Bus) record(event eventbus.Event, payload any) {
	b.mu.Lock()
	b.events = append(b.events, RecordedEvent{Event: event, Payload: payload})
	b.mu.Unlock()
}

// Events returns a copy of all recorded events.
func (b *Bus) Events() []RecordedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]RecordedEvent, len(b.events))
	copy(out, b.events)
	return out
}

// AssertPublished waits up to one second for the named event to be recorded
// and fails the test if it never arrives.
func (b *Bus) AssertPublished(t *testing.T, event eventbus.Event) {
	t.Helper()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		for _, rec := range b.Events() {
			if rec.Event == event {
				return
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("event %q was not published", event)
}

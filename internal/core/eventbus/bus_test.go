package eventbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startBus(t *testing.T, buffer int) *EventBus {
	t.Helper()
	bus := New(buffer)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go bus.Start(ctx)
	return bus
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within 1s")
}

func TestEventBus_PublishSubscribe(t *testing.T) {
	bus := startBus(t, 8)

	var mu sync.Mutex
	var got []TaskTransitionedPayload
	bus.SubscribeTaskTransitioned(func(p TaskTransitionedPayload) {
		mu.Lock()
		got = append(got, p)
		mu.Unlock()
	})

	bus.PublishTaskTransitioned(TaskTransitionedPayload{TaskID: "t1", NewStatus: "in-progress"})
	bus.PublishTaskTransitioned(TaskTransitionedPayload{TaskID: "t2", NewStatus: "completed"})

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 2
	})

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "t1", got[0].TaskID)
	assert.Equal(t, "t2", got[1].TaskID)
}

func TestEventBus_TypedDispatchIsIsolated(t *testing.T) {
	bus := startBus(t, 8)

	var mu sync.Mutex
	var assigned, created int
	bus.SubscribeTaskAssigned(func(TaskAssignedPayload) {
		mu.Lock()
		assigned++
		mu.Unlock()
	})
	bus.SubscribeTaskCreated(func(TaskCreatedPayload) {
		mu.Lock()
		created++
		mu.Unlock()
	})

	bus.PublishTaskAssigned(TaskAssignedPayload{TaskID: "t1", Worker: "Dana"})

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return assigned == 1
	})

	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, created)
}

func TestEventBus_DropsWhenFull(t *testing.T) {
	// no Start: nothing drains the buffer
	bus := New(1)

	var mu sync.Mutex
	var dropped []Event
	bus.OnDrop(func(e Event, _ any) {
		mu.Lock()
		dropped = append(dropped, e)
		mu.Unlock()
	})

	bus.PublishSnapshotApplied(SnapshotAppliedPayload{TaskCount: 1})
	bus.PublishSnapshotApplied(SnapshotAppliedPayload{TaskCount: 2})

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, dropped, 1)
	assert.Equal(t, EventSnapshotApplied, dropped[0])
}

func TestEventBus_OnPublishHook(t *testing.T) {
	bus := startBus(t, 8)

	var mu sync.Mutex
	var events []Event
	bus.OnPublish(func(e Event, _ any) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	})

	bus.PublishTaskRevision(TaskRevisionPayload{TaskID: "t1", Message: "tighten the intro"})

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 1)
	assert.Equal(t, EventTaskRevision, events[0])
}

func TestEventBus_RecoversSubscriberPanic(t *testing.T) {
	bus := startBus(t, 8)

	var mu sync.Mutex
	var panics int
	var delivered int
	bus.OnPanic(func(Event, any, any) {
		mu.Lock()
		panics++
		mu.Unlock()
	})
	bus.SubscribeTaskRouted(func(TaskRoutedPayload) {
		panic("boom")
	})

	bus.PublishTaskRouted(TaskRoutedPayload{TaskID: "t1"})

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return panics == 1
	})

	// the dispatch loop survives the panic
	bus.SubscribeTaskAssigned(func(TaskAssignedPayload) {
		mu.Lock()
		delivered++
		mu.Unlock()
	})
	bus.PublishTaskAssigned(TaskAssignedPayload{TaskID: "t2"})

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return delivered == 1
	})
}

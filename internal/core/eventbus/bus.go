package eventbus

import (
	"context"
	"sync"
)

// envelope pairs an event name with its payload on the dispatch channel.
type envelope struct {
	event   Event
	payload any
}

// EventBus is a buffered, typed pub/sub bus. Publishing never blocks:
// events are dropped (and the OnDrop hooks fired) when the buffer is full.
// Subscribers run on the dispatch goroutine started by Start; a panicking
// subscriber is recovered and reported through OnPanic hooks.
type EventBus struct {
	ch    chan envelope
	hooks hooks

	mu                sync.RWMutex
	snapshotApplied   []func(SnapshotAppliedPayload)
	taskCreated       []func(TaskCreatedPayload)
	taskTransitioned  []func(TaskTransitionedPayload)
	taskAssigned      []func(TaskAssignedPayload)
	taskRouted        []func(TaskRoutedPayload)
	taskRevision      []func(TaskRevisionPayload)
}

// New creates a bus with the given buffer size.
func New(buffer int) *EventBus {
	return &EventBus{ch: make(chan envelope, buffer)}
}

// Start runs the dispatch loop until ctx is canceled. It must be called at
// most once.
func (bus *EventBus) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-bus.ch:
			bus.dispatch(env)
		}
	}
}

func (bus *EventBus) dispatch(env envelope) {
	defer func() {
		if r := recover(); r != nil {
			bus.runOnPanic(env.event, env.payload, r)
		}
	}()

	bus.mu.RLock()
	defer bus.mu.RUnlock()

	switch env.event {
	case EventSnapshotApplied:
		for _, fn := range bus.snapshotApplied {
			fn(env.payload.(SnapshotAppliedPayload))
		}
	case EventTaskCreated:
		for _, fn := range bus.taskCreated {
			fn(env.payload.(TaskCreatedPayload))
		}
	case EventTaskTransitioned:
		for _, fn := range bus.taskTransitioned {
			fn(env.payload.(TaskTransitionedPayload))
		}
	case EventTaskAssigned:
		for _, fn := range bus.taskAssigned {
			fn(env.payload.(TaskAssignedPayload))
		}
	case EventTaskRouted:
		for _, fn := range bus.taskRouted {
			fn(env.payload.(TaskRoutedPayload))
		}
	case EventTaskRevision:
		for _, fn := range bus.taskRevision {
			fn(env.payload.(TaskRevisionPayload))
		}
	}
}

// PublishSnapshotApplied publishes a snapshot.applied event.
func (bus *EventBus) PublishSnapshotApplied(p SnapshotAppliedPayload) {
	bus.send(EventSnapshotApplied, p)
}

// SubscribeSnapshotApplied registers a handler for snapshot.applied.
func (bus *EventBus) SubscribeSnapshotApplied(fn func(SnapshotAppliedPayload)) {
	bus.mu.Lock()
	bus.snapshotApplied = append(bus.snapshotApplied, fn)
	bus.mu.Unlock()
	bus.runOnSubscribe(EventSnapshotApplied)
}

// PublishTaskCreated publishes a task.created event.
func (bus *EventBus) PublishTaskCreated(p TaskCreatedPayload) {
	bus.send(EventTaskCreated, p)
}

// SubscribeTaskCreated registers a handler for task.created.
func (bus *EventBus) SubscribeTaskCreated(fn func(TaskCreatedPayload)) {
	bus.mu.Lock()
	bus.taskCreated = append(bus.taskCreated, fn)
	bus.mu.Unlock()
	bus.runOnSubscribe(EventTaskCreated)
}

// PublishTaskTransitioned publishes a task.transitioned event.
func (bus *EventBus) PublishTaskTransitioned(p TaskTransitionedPayload) {
	bus.send(EventTaskTransitioned, p)
}

// SubscribeTaskTransitioned registers a handler for task.transitioned.
func (bus *EventBus) SubscribeTaskTransitioned(fn func(TaskTransitionedPayload)) {
	bus.mu.Lock()
	bus.taskTransitioned = append(bus.taskTransitioned, fn)
	bus.mu.Unlock()
	bus.runOnSubscribe(EventTaskTransitioned)
}

// PublishTaskAssigned publishes a task.assigned event.
func (bus *EventBus) PublishTaskAssigned(p TaskAssignedPayload) {
	bus.send(EventTaskAssigned, p)
}

// SubscribeTaskAssigned registers a handler for task.assigned.
func (bus *EventBus) SubscribeTaskAssigned(fn func(TaskAssignedPayload)) {
	bus.mu.Lock()
	bus.taskAssigned = append(bus.taskAssigned, fn)
	bus.mu.Unlock()
	bus.runOnSubscribe(EventTaskAssigned)
}

// PublishTaskRouted publishes a task.routed-to-approval event.
func (bus *EventBus) PublishTaskRouted(p TaskRoutedPayload) {
	bus.send(EventTaskRouted, p)
}

// SubscribeTaskRouted registers a handler for task.routed-to-approval.
func (bus *EventBus) SubscribeTaskRouted(fn func(TaskRoutedPayload)) {
	bus.mu.Lock()
	bus.taskRouted = append(bus.taskRouted, fn)
	bus.mu.Unlock()
	bus.runOnSubscribe(EventTaskRouted)
}

// PublishTaskRevision publishes a task.revision-requested event.
func (bus *EventBus) PublishTaskRevision(p TaskRevisionPayload) {
	bus.send(EventTaskRevision, p)
}

// SubscribeTaskRevision registers a handler for task.revision-requested.
func (bus *EventBus) SubscribeTaskRevision(fn func(TaskRevisionPayload)) {
	bus.mu.Lock()
	bus.taskRevision = append(bus.taskRevision, fn)
	bus.mu.Unlock()
	bus.runOnSubscribe(EventTaskRevision)
}

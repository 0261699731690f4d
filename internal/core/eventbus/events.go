// Package eventbus provides a typed publish/subscribe event bus for
// cross-component communication within reelflow.
package eventbus

import "github.com/studioops/reelflow/internal/core/task"

// Event identifies an event type on the bus.
type Event string

// Event names. Keep list sorted A-Z.
const (
	EventSnapshotApplied  Event = "snapshot.applied"
	EventTaskAssigned     Event = "task.assigned"
	EventTaskCreated      Event = "task.created"
	EventTaskRevision     Event = "task.revision-requested"
	EventTaskRouted       Event = "task.routed-to-approval"
	EventTaskTransitioned Event = "task.transitioned"
)

// SnapshotAppliedPayload is emitted after a store snapshot is recomputed
// into the eligible task set.
type SnapshotAppliedPayload struct {
	TaskCount     int
	EligibleCount int
}

// TaskCreatedPayload is emitted when a new task is created.
type TaskCreatedPayload struct {
	Task *task.Task
}

// TaskTransitionedPayload is emitted when a task's status changes.
type TaskTransitionedPayload struct {
	TaskID    string
	OldStatus task.Status
	NewStatus task.Status
	Actor     string
}

// TaskAssignedPayload is emitted when a task is assigned to a worker.
type TaskAssignedPayload struct {
	TaskID string
	Worker string
}

// TaskRoutedPayload is emitted when a task is sent for client approval.
type TaskRoutedPayload struct {
	TaskID   string
	Employee string
}

// TaskRevisionPayload is emitted when a revision is requested on a task.
type TaskRevisionPayload struct {
	TaskID  string
	Message string
}

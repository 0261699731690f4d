package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/studioops/reelflow/internal/core/eventbus"
	"github.com/studioops/reelflow/internal/core/logging"
	"github.com/studioops/reelflow/internal/core/task"
	"github.com/studioops/reelflow/internal/core/validate"
	"github.com/studioops/reelflow/internal/core/workflow"
	"github.com/studioops/reelflow/pkg/randid"
)

// TaskService owns every status-changing operation. Each call issues one
// sparse patch to the store and publishes a typed event; the in-memory view
// is never updated optimistically, so a failed write leaves the model
// untouched and the same user action is safe to retry.
type TaskService struct {
	store task.Store
	rules workflow.Rules
	bus   *eventbus.EventBus
	log   zerolog.Logger
	now   func() time.Time
}

// NewTaskService creates a new TaskService.
func NewTaskService(store task.Store, rules workflow.Rules, bus *eventbus.EventBus) *TaskService {
	return &TaskService{
		store: store,
		rules: rules,
		bus:   bus,
		log:   logging.Component("task-service"),
		now:   time.Now,
	}
}

// Create validates and persists a new task. Missing department fields
// default to the workflow's department and the status defaults to pending.
func (s *TaskService) Create(ctx context.Context, draft task.Task) (task.Task, error) {
	if err := validate.NewTask(draft); err != nil {
		return task.Task{}, err
	}

	if draft.ID == "" {
		draft.ID = randid.Generate(8)
	}
	if draft.Status == "" {
		draft.Status = task.StatusPending
	}
	if draft.Department == "" {
		draft.Department = s.rules.Department
	}
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = s.now()
	}

	if err := s.store.Create(ctx, draft); err != nil {
		return task.Task{}, fmt.Errorf("create task: %w", err)
	}

	s.log.Info().Str("task", draft.ID).Msg("task created")
	s.bus.PublishTaskCreated(eventbus.TaskCreatedPayload{Task: &draft})

	return draft, nil
}

// Transition moves a task to a new status. Any recognized status is a valid
// target: the source system enforces no predecessor graph and tightening it
// here would reject flows it depends on, such as pending straight to posted.
// Timestamp side effects are status-specific: lastUpdated is always stamped,
// in-progress stamps startedAt (overwritten on every re-entry, not first
// entry only) and completed stamps completedAt.
func (s *TaskService) Transition(ctx context.Context, t task.Task, newStatus task.Status, actor string) (task.Task, error) {
	if err := validate.TaskStatusField("status", string(newStatus)); err != nil {
		return task.Task{}, err
	}

	now := s.now()
	patch := &task.Patch{}
	patch.SetStatus(newStatus)
	patch.SetTime(task.FieldLastUpdated, now)

	switch newStatus {
	case task.StatusInProgress:
		patch.SetTime(task.FieldStartedAt, now)
	case task.StatusCompleted:
		patch.SetTime(task.FieldCompletedAt, now)
	}

	if err := s.store.Update(ctx, t.ID, patch); err != nil {
		return task.Task{}, fmt.Errorf("update task status: %w", err)
	}

	s.log.Info().
		Str("task", t.ID).
		Str("from", string(t.Status)).
		Str("to", string(newStatus)).
		Str("actor", actor).
		Msg("status transition")
	s.bus.PublishTaskTransitioned(eventbus.TaskTransitionedPayload{
		TaskID:    t.ID,
		OldStatus: t.Status,
		NewStatus: newStatus,
		Actor:     actor,
	})

	return patch.Apply(t), nil
}

// AssignToWorker assigns a task to a named worker. The worker name is a
// required precondition; rejection leaves the task untouched. Department
// fields are defaulted when empty and revision bookkeeping carries over
// unchanged.
func (s *TaskService) AssignToWorker(ctx context.Context, t task.Task, worker string) (task.Task, error) {
	if err := validate.WorkerNameField("worker", worker); err != nil {
		return task.Task{}, err
	}

	patch := &task.Patch{}
	patch.Set(task.FieldAssignedTo, worker)
	patch.SetStatus(task.StatusAssigned)
	patch.SetTime(task.FieldAssignedToMemberAt, s.now())
	patch.SetTime(task.FieldLastUpdated, s.now())

	if t.Department == "" {
		patch.Set(task.FieldDepartment, string(s.rules.Department))
	}
	if t.OriginalDepartment == "" {
		patch.Set(task.FieldOriginalDepartment, string(s.rules.Department))
	}

	if err := s.store.Update(ctx, t.ID, patch); err != nil {
		return task.Task{}, fmt.Errorf("assign task: %w", err)
	}

	s.log.Info().Str("task", t.ID).Str("worker", worker).Msg("task assigned")
	s.bus.PublishTaskAssigned(eventbus.TaskAssignedPayload{TaskID: t.ID, Worker: worker})

	return patch.Apply(t), nil
}

// RouteToApproval sends a task to the approval department for client
// review. The visible department moves to the approval department while
// originalDepartment records where the task returns; any prior revision
// message is cleared so the approver sees a clean slate.
func (s *TaskService) RouteToApproval(ctx context.Context, t task.Task, targetEmployee string) (task.Task, error) {
	if err := validate.WorkerNameField("employee", targetEmployee); err != nil {
		return task.Task{}, err
	}

	original := t.OriginalDepartment
	if original == "" {
		original = t.Department
	}
	if original == "" {
		original = s.rules.Department
	}

	now := s.now()
	patch := &task.Patch{}
	patch.SetStatus(task.StatusPendingClientApproval)
	patch.SetTime(task.FieldSubmittedAt, now)
	patch.Set(task.FieldSubmittedBy, s.rules.HeadRole)
	patch.Set(task.FieldDepartment, string(s.rules.ApprovalDepartment))
	patch.Set(task.FieldOriginalDepartment, string(original))
	patch.Set(task.FieldSocialMediaAssignedTo, targetEmployee)
	patch.Set(task.FieldRevisionMessage, nil)
	patch.SetTime(task.FieldLastUpdated, now)

	if err := s.store.Update(ctx, t.ID, patch); err != nil {
		return task.Task{}, fmt.Errorf("route task to approval: %w", err)
	}

	s.log.Info().Str("task", t.ID).Str("employee", targetEmployee).Msg("task routed for approval")
	s.bus.PublishTaskRouted(eventbus.TaskRoutedPayload{TaskID: t.ID, Employee: targetEmployee})

	return patch.Apply(t), nil
}

// RequestRevision marks a task as needing another pass. The revision count
// is monotonic: every request increments it.
func (s *TaskService) RequestRevision(ctx context.Context, t task.Task, message string) (task.Task, error) {
	now := s.now()
	patch := &task.Patch{}
	patch.SetStatus(task.StatusRevisionRequired)
	patch.Set(task.FieldRevisionCount, t.RevisionCount+1)
	patch.SetTime(task.FieldLastRevisionAt, now)
	patch.Set(task.FieldRevisionMessage, message)
	patch.SetTime(task.FieldLastUpdated, now)

	if err := s.store.Update(ctx, t.ID, patch); err != nil {
		return task.Task{}, fmt.Errorf("request revision: %w", err)
	}

	s.log.Info().Str("task", t.ID).Int("revision", t.RevisionCount+1).Msg("revision requested")
	s.bus.PublishTaskRevision(eventbus.TaskRevisionPayload{TaskID: t.ID, Message: message})

	return patch.Apply(t), nil
}

// Get returns a task by id.
func (s *TaskService) Get(ctx context.Context, id string) (task.Task, error) {
	return s.store.Get(ctx, id)
}

package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/studioops/reelflow/internal/core/eventbus"
	"github.com/studioops/reelflow/internal/core/logging"
	"github.com/studioops/reelflow/internal/core/task"
	"github.com/studioops/reelflow/internal/core/workflow"
)

// SnapshotService holds the current store snapshot and the cached
// department-eligible task set. Eligibility and view filtering are
// recomputed from scratch on every snapshot; the computations are cheap
// pure functions over in-memory slices, so no incremental update is kept.
type SnapshotService struct {
	rules    workflow.Rules
	pipeline *workflow.Pipeline
	bus      *eventbus.EventBus
	log      zerolog.Logger

	tasks     task.Store
	clients   task.ClientStore
	employees task.EmployeeStore

	mu       sync.RWMutex
	snapshot task.Snapshot
	eligible []task.Task
}

// NewSnapshotService creates a snapshot service for an operator identity.
func NewSnapshotService(
	rules workflow.Rules,
	operator string,
	bus *eventbus.EventBus,
	tasks task.Store,
	clients task.ClientStore,
	employees task.EmployeeStore,
) *SnapshotService {
	return &SnapshotService{
		rules:     rules,
		pipeline:  workflow.NewPipeline(rules, operator),
		bus:       bus,
		log:       logging.Component("snapshot-service"),
		tasks:     tasks,
		clients:   clients,
		employees: employees,
	}
}

// Apply replaces the current snapshot and recomputes the eligible set.
func (s *SnapshotService) Apply(snap task.Snapshot) {
	eligible := s.rules.EligibleSet(snap)

	s.mu.Lock()
	s.snapshot = snap
	s.eligible = eligible
	s.mu.Unlock()

	s.log.Debug().
		Int("tasks", len(snap.Tasks)).
		Int("eligible", len(eligible)).
		Msg("snapshot applied")
	s.bus.PublishSnapshotApplied(eventbus.SnapshotAppliedPayload{
		TaskCount:     len(snap.Tasks),
		EligibleCount: len(eligible),
	})
}

// Reload loads a fresh snapshot from the stores and applies it.
func (s *SnapshotService) Reload(ctx context.Context) error {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	clients, err := s.clients.List(ctx)
	if err != nil {
		return fmt.Errorf("load clients: %w", err)
	}
	employees, err := s.employees.List(ctx)
	if err != nil {
		return fmt.Errorf("load employees: %w", err)
	}

	s.Apply(task.Snapshot{Tasks: tasks, Clients: clients, Employees: employees})
	return nil
}

// Import persists a keyed wire snapshot into the stores and applies it.
// Records replace existing rows wholesale: snapshots are last-write-wins
// per key.
func (s *SnapshotService) Import(ctx context.Context, ks task.KeyedSnapshot) error {
	snap := task.FromKeyed(ks)

	for _, c := range snap.Clients {
		if err := s.clients.Upsert(ctx, c); err != nil {
			return fmt.Errorf("import client %s: %w", c.ID, err)
		}
	}
	for _, e := range snap.Employees {
		if err := s.employees.Upsert(ctx, e); err != nil {
			return fmt.Errorf("import employee %s: %w", e.ID, err)
		}
	}
	for _, t := range snap.Tasks {
		if err := s.tasks.Upsert(ctx, t); err != nil {
			return fmt.Errorf("import task %s: %w", t.ID, err)
		}
	}

	return s.Reload(ctx)
}

// Eligible returns a copy of the cached department-eligible task set in
// snapshot order.
func (s *SnapshotService) Eligible() []task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]task.Task, len(s.eligible))
	copy(out, s.eligible)
	return out
}

// Visible runs the view pipeline over the cached eligible set.
func (s *SnapshotService) Visible(vc workflow.ViewContext) []task.Task {
	s.mu.RLock()
	eligible := s.eligible
	s.mu.RUnlock()
	return s.pipeline.Apply(eligible, vc)
}

// Counts returns dashboard card counts for the visible set of a context.
func (s *SnapshotService) Counts(vc workflow.ViewContext) workflow.CardCounts {
	return workflow.Counts(s.Visible(vc))
}

// Employees returns the snapshot's employee records.
func (s *SnapshotService) Employees() []task.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]task.Employee, len(s.snapshot.Employees))
	copy(out, s.snapshot.Employees)
	return out
}

// Clients returns the snapshot's client records.
func (s *SnapshotService) Clients() []task.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]task.Client, len(s.snapshot.Clients))
	copy(out, s.snapshot.Clients)
	return out
}

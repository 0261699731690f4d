package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studioops/reelflow/internal/core/eventbus"
	"github.com/studioops/reelflow/internal/core/eventbus/testbus"
	"github.com/studioops/reelflow/internal/core/task"
	"github.com/studioops/reelflow/internal/core/workflow"
)

// memStore is an in-memory task.Store for service tests. It records the last
// patch so tests can assert on exactly which fields an operation touched.
type memStore struct {
	tasks     map[string]task.Task
	lastPatch *task.Patch
}

var _ task.Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{tasks: make(map[string]task.Task)}
}

func (m *memStore) List(context.Context) ([]task.Task, error) {
	out := make([]task.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		out = append(out, t)
	}
	return out, nil
}

func (m *memStore) Get(_ context.Context, id string) (task.Task, error) {
	t, ok := m.tasks[id]
	if !ok {
		return task.Task{}, task.ErrNotFound
	}
	return t, nil
}

func (m *memStore) Create(_ context.Context, t task.Task) error {
	m.tasks[t.ID] = t
	return nil
}

func (m *memStore) Upsert(_ context.Context, t task.Task) error {
	m.tasks[t.ID] = t
	return nil
}

func (m *memStore) Update(_ context.Context, id string, patch *task.Patch) error {
	if patch == nil || patch.Len() == 0 {
		return task.ErrEmptyPatch
	}
	t, ok := m.tasks[id]
	if !ok {
		return task.ErrNotFound
	}
	m.lastPatch = patch
	m.tasks[id] = patch.Apply(t)
	return nil
}

func testService(t *testing.T, store *memStore, now time.Time) (*TaskService, *testbus.Bus) {
	t.Helper()
	bus := testbus.New(t)
	svc := NewTaskService(store, videoRules(), bus.EventBus)
	svc.now = func() time.Time { return now }
	return svc, bus
}

func videoRules() workflow.Rules {
	return workflow.Rules{
		Department:         task.DeptVideo,
		ApprovalDepartment: task.DeptSocialMedia,
		HeadRole:           "Video Head",
		CreatorPatterns:    []string{"Admin", "Video Head"},
		HeadRoles:          []string{"Video Head", "Graphics Head"},
	}
}

func TestTaskService_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	t.Run("defaults filled in", func(t *testing.T) {
		store := newMemStore()
		svc, bus := testService(t, store, now)

		got, err := svc.Create(ctx, task.Task{TaskName: "Promo cut", ClientName: "Acme"})
		require.NoError(t, err)
		assert.NotEmpty(t, got.ID)
		assert.Equal(t, task.StatusPending, got.Status)
		assert.Equal(t, task.DeptVideo, got.Department)
		assert.True(t, got.CreatedAt.Equal(now))

		stored, err := store.Get(ctx, got.ID)
		require.NoError(t, err)
		assert.Equal(t, got, stored)
		bus.AssertPublished(t, eventbus.EventTaskCreated)
	})

	t.Run("invalid draft never reaches the store", func(t *testing.T) {
		store := newMemStore()
		svc, _ := testService(t, store, now)

		_, err := svc.Create(ctx, task.Task{ClientID: "c1"})
		require.Error(t, err)
		assert.Empty(t, store.tasks)
	})
}

func TestTaskService_Transition(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	t.Run("completed stamps completedAt", func(t *testing.T) {
		store := newMemStore()
		store.tasks["t1"] = task.Task{ID: "t1", Status: task.StatusInProgress}
		svc, bus := testService(t, store, now)

		got, err := svc.Transition(ctx, store.tasks["t1"], task.StatusCompleted, "Dana")
		require.NoError(t, err)
		assert.Equal(t, task.StatusCompleted, got.Status)
		require.NotNil(t, got.CompletedAt)
		assert.True(t, got.CompletedAt.Equal(now))
		require.NotNil(t, got.LastUpdated)
		bus.AssertPublished(t, eventbus.EventTaskTransitioned)
	})

	t.Run("startedAt overwritten on every in-progress entry", func(t *testing.T) {
		store := newMemStore()
		earlier := now.Add(-48 * time.Hour)
		store.tasks["t1"] = task.Task{ID: "t1", Status: task.StatusRevisionRequired, StartedAt: &earlier}
		svc, _ := testService(t, store, now)

		got, err := svc.Transition(ctx, store.tasks["t1"], task.StatusInProgress, "Dana")
		require.NoError(t, err)
		require.NotNil(t, got.StartedAt)
		assert.True(t, got.StartedAt.Equal(now), "re-entry must restamp startedAt")
	})

	t.Run("any known status is a valid target", func(t *testing.T) {
		store := newMemStore()
		store.tasks["t1"] = task.Task{ID: "t1", Status: task.StatusPending}
		svc, _ := testService(t, store, now)

		got, err := svc.Transition(ctx, store.tasks["t1"], task.StatusPosted, "Dana")
		require.NoError(t, err)
		assert.Equal(t, task.StatusPosted, got.Status)
	})

	t.Run("unknown status rejected before the store", func(t *testing.T) {
		store := newMemStore()
		store.tasks["t1"] = task.Task{ID: "t1", Status: task.StatusPending}
		svc, _ := testService(t, store, now)

		_, err := svc.Transition(ctx, store.tasks["t1"], task.Status("archived"), "Dana")
		require.Error(t, err)
		assert.Nil(t, store.lastPatch)
	})

	t.Run("other transitions leave startedAt and completedAt alone", func(t *testing.T) {
		store := newMemStore()
		store.tasks["t1"] = task.Task{ID: "t1", Status: task.StatusPending}
		svc, _ := testService(t, store, now)

		_, err := svc.Transition(ctx, store.tasks["t1"], task.StatusAssigned, "Dana")
		require.NoError(t, err)

		fields := store.lastPatch.Fields()
		assert.NotContains(t, fields, task.FieldStartedAt)
		assert.NotContains(t, fields, task.FieldCompletedAt)
	})
}

func TestTaskService_AssignToWorker(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	t.Run("assigns and stamps", func(t *testing.T) {
		store := newMemStore()
		store.tasks["t1"] = task.Task{ID: "t1", Status: task.StatusPending}
		svc, bus := testService(t, store, now)

		got, err := svc.AssignToWorker(ctx, store.tasks["t1"], "Dana")
		require.NoError(t, err)
		assert.Equal(t, "Dana", got.AssignedTo)
		assert.Equal(t, task.StatusAssigned, got.Status)
		require.NotNil(t, got.AssignedToMemberAt)
		assert.True(t, got.AssignedToMemberAt.Equal(now))
		assert.Equal(t, task.DeptVideo, got.Department)
		assert.Equal(t, task.DeptVideo, got.OriginalDepartment)
		bus.AssertPublished(t, eventbus.EventTaskAssigned)
	})

	t.Run("empty worker rejected", func(t *testing.T) {
		store := newMemStore()
		store.tasks["t1"] = task.Task{ID: "t1", Status: task.StatusPending}
		svc, _ := testService(t, store, now)

		_, err := svc.AssignToWorker(ctx, store.tasks["t1"], "   ")
		require.Error(t, err)
		assert.Nil(t, store.lastPatch)
		assert.Equal(t, task.StatusPending, store.tasks["t1"].Status)
	})

	t.Run("existing departments preserved", func(t *testing.T) {
		store := newMemStore()
		store.tasks["t1"] = task.Task{ID: "t1", Department: task.DeptGraphics, OriginalDepartment: task.DeptGraphics}
		svc, _ := testService(t, store, now)

		got, err := svc.AssignToWorker(ctx, store.tasks["t1"], "Riley")
		require.NoError(t, err)
		assert.Equal(t, task.DeptGraphics, got.Department)
		assert.Equal(t, task.DeptGraphics, got.OriginalDepartment)
	})
}

func TestTaskService_RouteToApproval(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	t.Run("moves to approval department", func(t *testing.T) {
		store := newMemStore()
		store.tasks["t1"] = task.Task{
			ID:              "t1",
			Department:      task.DeptVideo,
			Status:          task.StatusCompleted,
			RevisionMessage: "old feedback",
		}
		svc, bus := testService(t, store, now)

		got, err := svc.RouteToApproval(ctx, store.tasks["t1"], "Sam")
		require.NoError(t, err)
		assert.Equal(t, task.StatusPendingClientApproval, got.Status)
		assert.Equal(t, task.DeptSocialMedia, got.Department)
		assert.Equal(t, task.DeptVideo, got.OriginalDepartment)
		assert.Equal(t, "Video Head", got.SubmittedBy)
		assert.Equal(t, "Sam", got.SocialMediaAssignedTo)
		require.NotNil(t, got.SubmittedAt)
		assert.True(t, got.SubmittedAt.Equal(now))
		assert.Empty(t, got.RevisionMessage, "routing clears stale feedback")
		bus.AssertPublished(t, eventbus.EventTaskRouted)
	})

	t.Run("original department sticks across re-routing", func(t *testing.T) {
		store := newMemStore()
		store.tasks["t1"] = task.Task{
			ID:                 "t1",
			Department:         task.DeptSocialMedia,
			OriginalDepartment: task.DeptVideo,
			Status:             task.StatusCompleted,
		}
		svc, _ := testService(t, store, now)

		got, err := svc.RouteToApproval(ctx, store.tasks["t1"], "Sam")
		require.NoError(t, err)
		assert.Equal(t, task.DeptVideo, got.OriginalDepartment)
	})

	t.Run("missing employee rejected", func(t *testing.T) {
		store := newMemStore()
		store.tasks["t1"] = task.Task{ID: "t1", Status: task.StatusCompleted}
		svc, _ := testService(t, store, now)

		_, err := svc.RouteToApproval(ctx, store.tasks["t1"], "")
		require.Error(t, err)
	})
}

func TestTaskService_RequestRevision(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	store := newMemStore()
	store.tasks["t1"] = task.Task{ID: "t1", Status: task.StatusPendingClientApproval, RevisionCount: 2}
	svc, bus := testService(t, store, now)

	got, err := svc.RequestRevision(ctx, store.tasks["t1"], "tighten the intro")
	require.NoError(t, err)
	assert.Equal(t, task.StatusRevisionRequired, got.Status)
	assert.Equal(t, 3, got.RevisionCount)
	assert.Equal(t, "tighten the intro", got.RevisionMessage)
	require.NotNil(t, got.LastRevisionAt)
	assert.True(t, got.LastRevisionAt.Equal(now))
	bus.AssertPublished(t, eventbus.EventTaskRevision)
}

package stores

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studioops/reelflow/internal/core/task"
	"github.com/studioops/reelflow/internal/data/db"
)

func openTestDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.Open(t.TempDir())
	require.NoError(t, err, "Open")
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestTaskStore(t *testing.T) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		store := NewTaskStore(openTestDB(t))

		started := time.Date(2026, 8, 18, 10, 0, 0, 0, time.UTC)
		tk := task.Task{
			ID:          "t1",
			ClientID:    "c1",
			ClientName:  "Acme",
			TaskName:    "Promo cut",
			ProjectName: "Fall launch",
			Department:  task.DeptVideo,
			AssignedBy:  "Admin",
			AssignedTo:  "Dana",
			Status:      task.StatusInProgress,
			Deadline:    "2026-08-25",
			PostDate:    "2026-08-26",
			CreatedAt:   time.Date(2026, 8, 15, 9, 0, 0, 0, time.UTC),
			StartedAt:   &started,
		}

		require.NoError(t, store.Create(ctx, tk), "Create")

		got, err := store.Get(ctx, "t1")
		require.NoError(t, err, "Get")
		assert.Equal(t, tk.TaskName, got.TaskName)
		assert.Equal(t, tk.Status, got.Status)
		assert.Equal(t, tk.Department, got.Department)
		assert.True(t, got.CreatedAt.Equal(tk.CreatedAt))
		require.NotNil(t, got.StartedAt)
		assert.True(t, got.StartedAt.Equal(started))
		assert.Nil(t, got.CompletedAt)
	})

	t.Run("get not found", func(t *testing.T) {
		store := NewTaskStore(openTestDB(t))

		_, err := store.Get(ctx, "nonexistent")
		assert.ErrorIs(t, err, task.ErrNotFound, "got %v, want ErrNotFound", err)
	})

	t.Run("list orders by creation", func(t *testing.T) {
		store := NewTaskStore(openTestDB(t))

		base := time.Date(2026, 8, 15, 9, 0, 0, 0, time.UTC)
		for i, id := range []string{"newest", "oldest", "middle"} {
			offset := map[string]int{"oldest": 0, "middle": 1, "newest": 2}[id]
			require.NoError(t, store.Create(ctx, task.Task{
				ID:        id,
				TaskName:  id,
				Status:    task.StatusPending,
				CreatedAt: base.Add(time.Duration(offset) * time.Hour),
			}), "Create %d", i)
		}

		tasks, err := store.List(ctx)
		require.NoError(t, err, "List")
		require.Len(t, tasks, 3)
		assert.Equal(t, "oldest", tasks[0].ID)
		assert.Equal(t, "middle", tasks[1].ID)
		assert.Equal(t, "newest", tasks[2].ID)
	})

	t.Run("sparse update touches only patched fields", func(t *testing.T) {
		store := NewTaskStore(openTestDB(t))

		require.NoError(t, store.Create(ctx, task.Task{
			ID:         "t1",
			TaskName:   "Promo cut",
			AssignedTo: "Dana",
			Status:     task.StatusAssigned,
		}), "Create")

		now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
		patch := &task.Patch{}
		patch.SetStatus(task.StatusInProgress)
		patch.SetTime(task.FieldStartedAt, now)
		patch.SetTime(task.FieldLastUpdated, now)

		require.NoError(t, store.Update(ctx, "t1", patch), "Update")

		got, err := store.Get(ctx, "t1")
		require.NoError(t, err, "Get")
		assert.Equal(t, task.StatusInProgress, got.Status)
		require.NotNil(t, got.StartedAt)
		assert.True(t, got.StartedAt.Equal(now))
		// untouched fields survive
		assert.Equal(t, "Promo cut", got.TaskName)
		assert.Equal(t, "Dana", got.AssignedTo)
	})

	t.Run("update clears a field with nil", func(t *testing.T) {
		store := NewTaskStore(openTestDB(t))

		require.NoError(t, store.Create(ctx, task.Task{
			ID:              "t1",
			TaskName:        "Promo cut",
			Status:          task.StatusRevisionRequired,
			RevisionMessage: "tighten the intro",
		}), "Create")

		patch := &task.Patch{}
		patch.Set(task.FieldRevisionMessage, nil)
		require.NoError(t, store.Update(ctx, "t1", patch), "Update")

		got, err := store.Get(ctx, "t1")
		require.NoError(t, err, "Get")
		assert.Empty(t, got.RevisionMessage)
	})

	t.Run("empty patch rejected", func(t *testing.T) {
		store := NewTaskStore(openTestDB(t))

		err := store.Update(ctx, "t1", &task.Patch{})
		assert.ErrorIs(t, err, task.ErrEmptyPatch, "got %v, want ErrEmptyPatch", err)

		err = store.Update(ctx, "t1", nil)
		assert.ErrorIs(t, err, task.ErrEmptyPatch, "got %v, want ErrEmptyPatch", err)
	})

	t.Run("update not found", func(t *testing.T) {
		store := NewTaskStore(openTestDB(t))

		patch := &task.Patch{}
		patch.SetStatus(task.StatusCompleted)
		err := store.Update(ctx, "nonexistent", patch)
		assert.ErrorIs(t, err, task.ErrNotFound, "got %v, want ErrNotFound", err)
	})

	t.Run("unpatchable field rejected", func(t *testing.T) {
		store := NewTaskStore(openTestDB(t))

		patch := &task.Patch{}
		patch.Set("taskName", "renamed")
		err := store.Update(ctx, "t1", patch)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unpatchable")
	})

	t.Run("upsert replaces existing", func(t *testing.T) {
		store := NewTaskStore(openTestDB(t))

		require.NoError(t, store.Upsert(ctx, task.Task{
			ID:       "t1",
			TaskName: "original",
			Status:   task.StatusPending,
		}), "Upsert")

		require.NoError(t, store.Upsert(ctx, task.Task{
			ID:       "t1",
			TaskName: "updated",
			Status:   task.StatusAssigned,
		}), "Upsert update")

		got, err := store.Get(ctx, "t1")
		require.NoError(t, err, "Get")
		assert.Equal(t, "updated", got.TaskName)
		assert.Equal(t, task.StatusAssigned, got.Status)

		tasks, err := store.List(ctx)
		require.NoError(t, err, "List")
		assert.Len(t, tasks, 1, "got %d tasks, want 1", len(tasks))
	})
}

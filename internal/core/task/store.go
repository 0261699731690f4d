package task

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a task does not exist.
	ErrNotFound = errors.New("task not found")
	// ErrEmptyPatch is returned when an update carries no fields.
	ErrEmptyPatch = errors.New("update patch has no fields")
)

// Store defines task persistence. List order is the canonical snapshot
// order: created_at ascending, id as tiebreak. Updates are sparse patches.
type Store interface {
	// List returns all tasks in canonical order.
	List(ctx context.Context) ([]Task, error)

	// Get returns a single task by ID.
	// Returns ErrNotFound if the task does not exist.
	Get(ctx context.Context, id string) (Task, error)

	// Create persists a new task. The caller populates ID and CreatedAt.
	Create(ctx context.Context, t Task) error

	// Upsert creates or replaces a full task record. Reserved for the
	// snapshot import path; live mutations go through Update patches.
	Upsert(ctx context.Context, t Task) error

	// Update applies a sparse patch to a task. Only the fields present in
	// the patch are written. Returns ErrNotFound if the task does not
	// exist and ErrEmptyPatch if the patch is empty.
	Update(ctx context.Context, id string, patch *Patch) error
}

// ClientStore defines client persistence for the snapshot import path.
type ClientStore interface {
	List(ctx context.Context) ([]Client, error)
	Upsert(ctx context.Context, c Client) error
}

// EmployeeStore defines employee persistence for the snapshot import path.
type EmployeeStore interface {
	List(ctx context.Context) ([]Employee, error)
	Upsert(ctx context.Context, e Employee) error
}

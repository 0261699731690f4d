package stores

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/studioops/reelflow/internal/core/task"
	"github.com/studioops/reelflow/internal/data/db"
)

// TaskStore implements task.Store using SQLite.
type TaskStore struct {
	db *db.DB
}

var _ task.Store = (*TaskStore)(nil)

// NewTaskStore creates a new SQLite-backed task store.
func NewTaskStore(db *db.DB) *TaskStore {
	return &TaskStore{db: db}
}

const taskColumns = `id, client_id, client_name, task_name, project_name,
	department, assigned_to_dept, original_department, assigned_by, assigned_to,
	status, deadline, post_date, created_at, assigned_to_member_at, started_at,
	completed_at, submitted_at, last_updated, submitted_by,
	social_media_assigned_to, revision_count, last_revision_at,
	revision_message, assigned_from_social_media`

// List returns all tasks in canonical snapshot order.
func (s *TaskStore) List(ctx context.Context) ([]task.Task, error) {
	query := fmt.Sprintf("SELECT %s FROM tasks ORDER BY created_at, id", taskColumns)
	rows, err := s.db.Conn().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return tasks, nil
}

// Get returns a single task by ID. Returns task.ErrNotFound if absent.
func (s *TaskStore) Get(ctx context.Context, id string) (task.Task, error) {
	query := fmt.Sprintf("SELECT %s FROM tasks WHERE id = ?", taskColumns)
	row := s.db.Conn().QueryRowContext(ctx, query, id)

	t, err := scanTask(row)
	if IsNotFoundError(err) {
		return task.Task{}, task.ErrNotFound
	}
	if err != nil {
		return task.Task{}, fmt.Errorf("get task: %w", err)
	}

	return t, nil
}

// Create persists a new task.
func (s *TaskStore) Create(ctx context.Context, t task.Task) error {
	query := fmt.Sprintf(`INSERT INTO tasks (%s) VALUES
		(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, taskColumns)

	createdAt := t.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.Conn().ExecContext(ctx, query,
		t.ID, t.ClientID, t.ClientName, t.TaskName, t.ProjectName,
		string(t.Department), string(t.AssignedToDept), string(t.OriginalDepartment),
		t.AssignedBy, t.AssignedTo, string(t.Status), t.Deadline, t.PostDate,
		createdAt.UnixNano(), toNullInt64(t.AssignedToMemberAt), toNullInt64(t.StartedAt),
		toNullInt64(t.CompletedAt), toNullInt64(t.SubmittedAt), toNullInt64(t.LastUpdated),
		t.SubmittedBy, t.SocialMediaAssignedTo, t.RevisionCount,
		toNullInt64(t.LastRevisionAt), t.RevisionMessage, boolToInt(t.AssignedFromSocialMedia),
	)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	return nil
}

// Upsert creates or replaces a full task record. Only the snapshot import
// path uses it; live mutations stay sparse.
func (s *TaskStore) Upsert(ctx context.Context, t task.Task) error {
	query := fmt.Sprintf(`INSERT INTO tasks (%s) VALUES
		(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			client_id = excluded.client_id,
			client_name = excluded.client_name,
			task_name = excluded.task_name,
			project_name = excluded.project_name,
			department = excluded.department,
			assigned_to_dept = excluded.assigned_to_dept,
			original_department = excluded.original_department,
			assigned_by = excluded.assigned_by,
			assigned_to = excluded.assigned_to,
			status = excluded.status,
			deadline = excluded.deadline,
			post_date = excluded.post_date,
			created_at = excluded.created_at,
			assigned_to_member_at = excluded.assigned_to_member_at,
			started_at = excluded.started_at,
			completed_at = excluded.completed_at,
			submitted_at = excluded.submitted_at,
			last_updated = excluded.last_updated,
			submitted_by = excluded.submitted_by,
			social_media_assigned_to = excluded.social_media_assigned_to,
			revision_count = excluded.revision_count,
			last_revision_at = excluded.last_revision_at,
			revision_message = excluded.revision_message,
			assigned_from_social_media = excluded.assigned_from_social_media`, taskColumns)

	createdAt := t.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.Conn().ExecContext(ctx, query,
		t.ID, t.ClientID, t.ClientName, t.TaskName, t.ProjectName,
		string(t.Department), string(t.AssignedToDept), string(t.OriginalDepartment),
		t.AssignedBy, t.AssignedTo, string(t.Status), t.Deadline, t.PostDate,
		createdAt.UnixNano(), toNullInt64(t.AssignedToMemberAt), toNullInt64(t.StartedAt),
		toNullInt64(t.CompletedAt), toNullInt64(t.SubmittedAt), toNullInt64(t.LastUpdated),
		t.SubmittedBy, t.SocialMediaAssignedTo, t.RevisionCount,
		toNullInt64(t.LastRevisionAt), t.RevisionMessage, boolToInt(t.AssignedFromSocialMedia),
	)
	if err != nil {
		return fmt.Errorf("upsert task: %w", err)
	}

	return nil
}

// patchColumns maps patch field names to table columns. Fields not listed
// here cannot be patched.
var patchColumns = map[string]string{
	task.FieldStatus:                "status",
	task.FieldAssignedTo:            "assigned_to",
	task.FieldDepartment:            "department",
	task.FieldOriginalDepartment:    "original_department",
	task.FieldAssignedToMemberAt:    "assigned_to_member_at",
	task.FieldStartedAt:             "started_at",
	task.FieldCompletedAt:           "completed_at",
	task.FieldSubmittedAt:           "submitted_at",
	task.FieldSubmittedBy:           "submitted_by",
	task.FieldSocialMediaAssignedTo: "social_media_assigned_to",
	task.FieldLastUpdated:           "last_updated",
	task.FieldRevisionCount:         "revision_count",
	task.FieldLastRevisionAt:        "last_revision_at",
	task.FieldRevisionMessage:       "revision_message",
}

// nullableColumns are the timestamp columns that store NULL for an unset
// value. Every other column is NOT NULL; a nil patch value writes its
// empty-string zero instead.
var nullableColumns = map[string]struct{}{
	"assigned_to_member_at": {},
	"started_at":            {},
	"completed_at":          {},
	"submitted_at":          {},
	"last_updated":          {},
	"last_revision_at":      {},
}

// Update applies a sparse patch: only the fields present in the patch are
// written. The statement never replaces the full row, so two concurrent
// patches on the same task only clobber their overlapping fields.
func (s *TaskStore) Update(ctx context.Context, id string, patch *task.Patch) error {
	if patch == nil || patch.Len() == 0 {
		return task.ErrEmptyPatch
	}

	set := make([]string, 0, patch.Len())
	args := make([]any, 0, patch.Len()+1)
	var badField error

	patch.Each(func(field string, value any) {
		col, ok := patchColumns[field]
		if !ok {
			badField = fmt.Errorf("unpatchable field %q", field)
			return
		}
		v := patchValue(value)
		if v == nil {
			if _, nullable := nullableColumns[col]; !nullable {
				v = ""
			}
		}
		set = append(set, col+" = ?")
		args = append(args, v)
	})
	if badField != nil {
		return badField
	}
	args = append(args, id)

	query := "UPDATE tasks SET " + strings.Join(set, ", ") + " WHERE id = ?"
	res, err := s.db.Conn().ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update task rows: %w", err)
	}
	if affected == 0 {
		return task.ErrNotFound
	}

	return nil
}

// patchValue converts a patch value into its column representation.
func patchValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case time.Time:
		return val.UnixNano()
	case task.Status:
		return string(val)
	case task.Department:
		return string(val)
	case bool:
		return boolToInt(val)
	default:
		return val
	}
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanTask.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (task.Task, error) {
	var (
		t                  task.Task
		dept, toDept, orig string
		status             string
		createdAt          int64
		memberAt, started  sql.NullInt64
		completed, submit  sql.NullInt64
		updated, revAt     sql.NullInt64
		fromSocial         int
	)

	err := row.Scan(
		&t.ID, &t.ClientID, &t.ClientName, &t.TaskName, &t.ProjectName,
		&dept, &toDept, &orig, &t.AssignedBy, &t.AssignedTo,
		&status, &t.Deadline, &t.PostDate, &createdAt, &memberAt, &started,
		&completed, &submit, &updated, &t.SubmittedBy,
		&t.SocialMediaAssignedTo, &t.RevisionCount, &revAt,
		&t.RevisionMessage, &fromSocial,
	)
	if err != nil {
		return task.Task{}, err
	}

	t.Department = task.Department(dept)
	t.AssignedToDept = task.Department(toDept)
	t.OriginalDepartment = task.Department(orig)
	t.Status = task.Status(status)
	t.CreatedAt = time.Unix(0, createdAt)
	t.AssignedToMemberAt = fromNullInt64(memberAt)
	t.StartedAt = fromNullInt64(started)
	t.CompletedAt = fromNullInt64(completed)
	t.SubmittedAt = fromNullInt64(submit)
	t.LastUpdated = fromNullInt64(updated)
	t.LastRevisionAt = fromNullInt64(revAt)
	t.AssignedFromSocialMedia = fromSocial != 0

	return t, nil
}

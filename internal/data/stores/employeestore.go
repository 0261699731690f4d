package stores

import (
	"context"
	"fmt"

	"github.com/studioops/reelflow/internal/core/task"
	"github.com/studioops/reelflow/internal/data/db"
)

// EmployeeStore implements task.EmployeeStore using SQLite.
type EmployeeStore struct {
	db *db.DB
}

var _ task.EmployeeStore = (*EmployeeStore)(nil)

// NewEmployeeStore creates a new SQLite-backed employee store.
func NewEmployeeStore(db *db.DB) *EmployeeStore {
	return &EmployeeStore{db: db}
}

// List returns all employees ordered by id.
func (s *EmployeeStore) List(ctx context.Context) ([]task.Employee, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		"SELECT id, name, employee_name, department, status, email, deleted FROM employees ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var employees []task.Employee
	for rows.Next() {
		var (
			e            task.Employee
			dept, status string
			deleted      int
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.EmployeeName, &dept, &status, &e.Email, &deleted); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		e.Department = task.Department(dept)
		e.Status = task.ClientStatus(status)
		e.Deleted = deleted != 0
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}

	return employees, nil
}

// Upsert creates or replaces an employee record.
func (s *EmployeeStore) Upsert(ctx context.Context, e task.Employee) error {
	_, err := s.db.Conn().ExecContext(ctx, `
		INSERT INTO employees (id, name, employee_name, department, status, email, deleted)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			employee_name = excluded.employee_name,
			department = excluded.department,
			status = excluded.status,
			email = excluded.email,
			deleted = excluded.deleted`,
		e.ID, e.Name, e.EmployeeName, string(e.Department), string(e.Status), e.Email, boolToInt(e.Deleted),
	)
	if err != nil {
		return fmt.Errorf("upsert employee: %w", err)
	}
	return nil
}

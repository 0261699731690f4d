// Package validate provides shared validation functions for operator-initiated
// actions. Failed preconditions surface as field errors, never panics; the
// data model is untouched on rejection.
package validate

import (
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/studioops/reelflow/internal/core/task"
)

// WorkerName validates a worker name is non-empty after trimming whitespace.
func WorkerName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("a worker must be selected")
	}
	return nil
}

// WorkerNameField returns a criterio validator for worker names.
func WorkerNameField(field, name string) error {
	return criterio.Run(field, name, WorkerName)
}

// TaskStatus validates a status string against the recognized enumeration.
func TaskStatus(s string) error {
	if !task.Status(s).Known() {
		return fmt.Errorf("unknown status %q", s)
	}
	return nil
}

// TaskStatusField returns a criterio validator for status values.
func TaskStatusField(field, s string) error {
	return criterio.Run(field, s, TaskStatus)
}

// NewTask validates the required fields of a task draft before creation.
// A client reference may arrive as an id or a name; one of the two must be
// present for a new task even though legacy records go without.
func NewTask(t task.Task) error {
	return criterio.ValidateStruct(
		criterio.Run("taskName", t.TaskName, func(v string) error {
			if strings.TrimSpace(v) == "" {
				return fmt.Errorf("is required")
			}
			return nil
		}),
		clientRef(t),
	)
}

func clientRef(t task.Task) error {
	if t.ClientID == "" && t.ClientName == "" {
		return criterio.NewFieldErrors("client", fmt.Errorf("a client id or name is required"))
	}
	return nil
}

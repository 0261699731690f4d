package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studioops/reelflow/internal/core/eventbus"
	"github.com/studioops/reelflow/internal/core/task"
	"github.com/studioops/reelflow/internal/core/workflow"
)

type memClientStore struct {
	clients map[string]task.Client
}

func (m *memClientStore) List(context.Context) ([]task.Client, error) {
	out := make([]task.Client, 0, len(m.clients))
	for _, c := range m.clients {
		out = append(out, c)
	}
	return out, nil
}

func (m *memClientStore) Upsert(_ context.Context, c task.Client) error {
	m.clients[c.ID] = c
	return nil
}

type memEmployeeStore struct {
	employees map[string]task.Employee
}

func (m *memEmployeeStore) List(context.Context) ([]task.Employee, error) {
	out := make([]task.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		out = append(out, e)
	}
	return out, nil
}

func (m *memEmployeeStore) Upsert(_ context.Context, e task.Employee) error {
	m.employees[e.ID] = e
	return nil
}

func testSnapshotService() (*SnapshotService, *memStore, *memClientStore, *memEmployeeStore) {
	tasks := newMemStore()
	clients := &memClientStore{clients: make(map[string]task.Client)}
	employees := &memEmployeeStore{employees: make(map[string]task.Employee)}
	svc := NewSnapshotService(videoRules(), "Dana", eventbus.New(64), tasks, clients, employees)
	return svc, tasks, clients, employees
}

func TestSnapshotService_Apply(t *testing.T) {
	svc, _, _, _ := testSnapshotService()

	snap := task.Snapshot{
		Clients: []task.Client{{ID: "c1", ClientName: "Acme"}},
		Tasks: []task.Task{
			{ID: "a", ClientID: "c1", AssignedBy: "Admin", Department: task.DeptVideo, Status: task.StatusAssigned, AssignedTo: "Dana"},
			{ID: "b", ClientID: "c1", AssignedBy: "Stranger", Department: task.DeptVideo, Status: task.StatusAssigned},
		},
		Employees: []task.Employee{{ID: "e1", EmployeeName: "Dana"}},
	}
	svc.Apply(snap)

	eligible := svc.Eligible()
	require.Len(t, eligible, 1)
	assert.Equal(t, "a", eligible[0].ID)

	assert.Len(t, svc.Clients(), 1)
	assert.Len(t, svc.Employees(), 1)
}

func TestSnapshotService_ApplyReplacesWholesale(t *testing.T) {
	svc, _, _, _ := testSnapshotService()

	first := task.Snapshot{
		Tasks: []task.Task{{ID: "a", AssignedBy: "Admin", Department: task.DeptVideo, Status: task.StatusAssigned}},
	}
	svc.Apply(first)
	require.Len(t, svc.Eligible(), 1)

	svc.Apply(task.Snapshot{})
	assert.Empty(t, svc.Eligible(), "a new snapshot fully replaces the previous one")
}

func TestSnapshotService_Visible(t *testing.T) {
	svc, _, _, _ := testSnapshotService()

	svc.Apply(task.Snapshot{
		Tasks: []task.Task{
			{ID: "a", AssignedBy: "Admin", AssignedTo: "Dana", Department: task.DeptVideo, Status: task.StatusInProgress},
			{ID: "b", AssignedBy: "Admin", AssignedTo: "Riley", Department: task.DeptVideo, Status: task.StatusAssigned},
		},
	})

	mine := svc.Visible(workflow.ViewContext{Mode: workflow.ModeMine})
	require.Len(t, mine, 1)
	assert.Equal(t, "a", mine[0].ID)

	counts := svc.Counts(workflow.ViewContext{})
	assert.Equal(t, 2, counts.Total)
	assert.Equal(t, 2, counts.InProgress)
}

func TestSnapshotService_Import(t *testing.T) {
	ctx := context.Background()
	svc, tasks, clients, employees := testSnapshotService()

	err := svc.Import(ctx, task.KeyedSnapshot{
		Tasks: map[string]task.Task{
			"a": {AssignedBy: "Admin", Department: task.DeptVideo, Status: task.StatusAssigned},
		},
		Clients: map[string]task.Client{
			"c1": {ClientName: "Acme"},
		},
		Employees: map[string]task.Employee{
			"e1": {EmployeeName: "Dana"},
		},
	})
	require.NoError(t, err)

	// records persisted with their map keys as ids
	assert.Contains(t, tasks.tasks, "a")
	assert.Contains(t, clients.clients, "c1")
	assert.Contains(t, employees.employees, "e1")

	// the snapshot was reloaded from the stores
	eligible := svc.Eligible()
	require.Len(t, eligible, 1)
	assert.Equal(t, "a", eligible[0].ID)
}

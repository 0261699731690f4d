package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studioops/reelflow/internal/core/task"
)

func TestGroupBy_ByClient(t *testing.T) {
	tasks := []task.Task{
		{ID: "t1", ClientName: "Acme", Status: task.StatusCompleted},
		{ID: "t2", ClientName: "Globex", Status: task.StatusPosted},
		{ID: "t3", ClientName: "Acme", Status: task.StatusInProgress},
	}

	buckets := GroupBy(tasks, ByClient)
	require.Len(t, buckets, 2)

	// first-appearance order
	acme, globex := buckets[0], buckets[1]
	assert.Equal(t, "Acme", acme.Key)
	assert.Equal(t, 2, acme.Total)
	assert.Equal(t, 1, acme.Completed)
	assert.Equal(t, 1, acme.InProgress)
	assert.Equal(t, 50, acme.CompletionRate())

	assert.Equal(t, "Globex", globex.Key)
	assert.Equal(t, 1, globex.Total)
	assert.Equal(t, 1, globex.Completed)
	assert.Equal(t, 100, globex.CompletionRate())
}

func TestGroupBy_CountingRules(t *testing.T) {
	tasks := []task.Task{
		{ClientName: "Acme", Status: task.StatusCompleted},
		{ClientName: "Acme", Status: task.StatusPosted},
		{ClientName: "Acme", Status: task.StatusApproved},
		{ClientName: "Acme", Status: task.StatusPendingClientApproval},
		{ClientName: "Acme", Status: task.StatusInProgress},
		{ClientName: "Acme", Status: task.StatusAssigned},
		// neither completed, pending, nor in-progress
		{ClientName: "Acme", Status: task.StatusPending},
		{ClientName: "Acme", Status: task.StatusRevisionRequired},
	}

	buckets := GroupBy(tasks, ByClient)
	require.Len(t, buckets, 1)
	b := buckets[0]
	assert.Equal(t, 8, b.Total)
	assert.Equal(t, 3, b.Completed)
	assert.Equal(t, 1, b.Pending)
	assert.Equal(t, 2, b.InProgress)
	assert.Len(t, b.Items, 8)
}

func TestGroupBy_SentinelKeys(t *testing.T) {
	tasks := []task.Task{
		{ID: "t1", Status: task.StatusAssigned},                           // no client
		{ID: "t2", ClientID: "c7", Status: task.StatusAssigned},           // id only
		{ID: "t3", Status: task.StatusAssigned},                           // no assignee
		{ID: "t4", AssignedTo: "Dana", Status: task.StatusAssigned},       // assignee
		{ID: "t5", Status: task.StatusAssigned},                           // no post date
		{ID: "t6", PostDate: "2026-08-20", Status: task.StatusAssigned},   // scheduled
	}

	byClient := GroupBy(tasks, ByClient)
	assert.Equal(t, KeyUnknownClient, byClient[0].Key)
	assert.Equal(t, "c7", byClient[1].Key)

	byEmployee := GroupBy(tasks, ByEmployee)
	assert.Equal(t, KeyUnassigned, byEmployee[0].Key)

	byDay := GroupBy(tasks, ByDay)
	assert.Equal(t, KeyUnscheduled, byDay[0].Key)
	assert.Equal(t, "2026-08-20", byDay[1].Key)
}

// Bucket totals must conserve: the sum over every bucket equals the input
// size for each dimension.
func TestGroupBy_Conservation(t *testing.T) {
	tasks := []task.Task{
		{ID: "t1", ClientName: "Acme", AssignedTo: "Dana", PostDate: "2026-08-18", Status: task.StatusCompleted},
		{ID: "t2", Status: task.StatusPending},
		{ID: "t3", ClientID: "c2", AssignedTo: "Riley", Status: task.StatusInProgress},
		{ID: "t4", ClientName: "Globex", PostDate: "2026-08-19", Status: task.StatusPosted},
	}

	for _, dim := range []Dimension{ByClient, ByEmployee, ByDay} {
		total := 0
		for _, b := range GroupBy(tasks, dim) {
			total += b.Total
			assert.Len(t, b.Items, b.Total)
		}
		assert.Equal(t, len(tasks), total, "dimension %s", dim)
	}
}

func TestCompletionRate_Bounds(t *testing.T) {
	assert.Equal(t, 0, Bucket{}.CompletionRate())
	assert.Equal(t, 0, Bucket{Total: 3}.CompletionRate())
	assert.Equal(t, 100, Bucket{Total: 3, Completed: 3}.CompletionRate())
	assert.Equal(t, 33, Bucket{Total: 3, Completed: 1}.CompletionRate())
	assert.Equal(t, 67, Bucket{Total: 3, Completed: 2}.CompletionRate())
}

func TestSummary(t *testing.T) {
	buckets := []Bucket{
		{Total: 2, Completed: 1, InProgress: 1},
		{Total: 1, Completed: 1},
	}
	sum := Summary(buckets)
	assert.Equal(t, 3, sum.Tasks)
	assert.Equal(t, 2, sum.Completed)
	assert.Equal(t, 1, sum.InProgress)
	assert.Equal(t, 67, sum.CompletionRate)

	assert.Zero(t, Summary(nil).CompletionRate)
}

func TestParseDimension(t *testing.T) {
	dim, err := ParseDimension("client")
	require.NoError(t, err)
	assert.Equal(t, ByClient, dim)

	_, err = ParseDimension("galaxy")
	require.Error(t, err)
}

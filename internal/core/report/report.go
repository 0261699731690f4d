// Package report groups filtered task sets into ordered buckets and
// time-series for dashboards and exports. Everything here is a pure
// function over an in-memory slice.
package report

import (
	"fmt"
	"math"

	"github.com/studioops/reelflow/internal/core/task"
)

// Dimension selects the grouping key for GroupBy.
type Dimension string

const (
	ByClient   Dimension = "client"
	ByEmployee Dimension = "employee"
	ByDay      Dimension = "day"
)

// Sentinel bucket keys for records missing the grouping field. Every task
// lands in exactly one bucket per dimension, so totals always conserve.
const (
	KeyUnassigned    = "Unassigned"
	KeyUnscheduled   = "Unscheduled"
	KeyUnknownClient = "Unknown Client"
)

// Bucket is one group of an aggregation: membership counts plus the member
// tasks themselves, so exporters never re-derive a business rule.
type Bucket struct {
	Key        string      `json:"groupKey"`
	Total      int         `json:"total"`
	Completed  int         `json:"completed"`
	Pending    int         `json:"pending"`
	InProgress int         `json:"inProgress"`
	Items      []task.Task `json:"items"`
}

// CompletionRate returns round(100 * completed / total), and 0 for an empty
// bucket. The result is always within [0, 100].
func (b Bucket) CompletionRate() int {
	if b.Total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(b.Completed) / float64(b.Total)))
}

// ParseDimension validates a dimension string.
func ParseDimension(s string) (Dimension, error) {
	switch Dimension(s) {
	case ByClient, ByEmployee, ByDay:
		return Dimension(s), nil
	default:
		return "", fmt.Errorf("unknown aggregation dimension %q", s)
	}
}

// GroupBy partitions tasks into ordered buckets along the given dimension.
// Bucket order is first-appearance order of each key in the input, so the
// output is deterministic for a deterministic input. Counting rules:
// completed = completed/posted/approved, pending = pending-client-approval
// only, in-progress = in-progress/assigned.
func GroupBy(tasks []task.Task, dim Dimension) []Bucket {
	index := make(map[string]int)
	buckets := make([]Bucket, 0)

	for _, t := range tasks {
		key := groupKey(t, dim)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, Bucket{Key: key})
		}

		b := &buckets[i]
		b.Total++
		b.Items = append(b.Items, t)
		switch {
		case task.CompletedSet.Has(t.Status):
			b.Completed++
		case t.Status == task.StatusPendingClientApproval:
			b.Pending++
		case task.ProgressSet.Has(t.Status):
			b.InProgress++
		}
	}

	return buckets
}

func groupKey(t task.Task, dim Dimension) string {
	switch dim {
	case ByEmployee:
		if t.AssignedTo == "" {
			return KeyUnassigned
		}
		return t.AssignedTo
	case ByDay:
		if t.PostDate == "" {
			return KeyUnscheduled
		}
		return t.PostDate
	default:
		if t.ClientName != "" {
			return t.ClientName
		}
		if t.ClientID != "" {
			return t.ClientID
		}
		return KeyUnknownClient
	}
}

// Totals is the grand summary across an aggregation.
type Totals struct {
	Tasks          int `json:"tasks"`
	Completed      int `json:"completed"`
	Pending        int `json:"pending"`
	InProgress     int `json:"inProgress"`
	CompletionRate int `json:"completionRate"`
}

// Summary folds buckets into grand totals with an overall completion rate.
func Summary(buckets []Bucket) Totals {
	var sum Totals
	for _, b := range buckets {
		sum.Tasks += b.Total
		sum.Completed += b.Completed
		sum.Pending += b.Pending
		sum.InProgress += b.InProgress
	}
	if sum.Tasks > 0 {
		sum.CompletionRate = int(math.Round(100 * float64(sum.Completed) / float64(sum.Tasks)))
	}
	return sum
}

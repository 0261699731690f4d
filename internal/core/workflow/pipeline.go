package workflow

import (
	"strings"

	"github.com/studioops/reelflow/internal/core/task"
)

// Predicate is one named view filter. Predicates compose by logical AND in
// the order the pipeline lists them; the ordering is the documented
// precedence rule (card filter before dropdown is encoded inside the status
// predicate rather than by position).
type Predicate struct {
	Name  string
	Match func(t task.Task, vc ViewContext) bool
}

// Pipeline applies a fixed ordered predicate list over the
// department-eligible set. Pure: identical inputs yield the identical
// order-preserving subset.
type Pipeline struct {
	rules      Rules
	operator   string
	predicates []Predicate
}

// NewPipeline builds the view pipeline for an operator identity.
func NewPipeline(rules Rules, operator string) *Pipeline {
	p := &Pipeline{rules: rules, operator: operator}
	p.predicates = []Predicate{
		{Name: "month", Match: p.matchMonth},
		{Name: "view-mode", Match: p.matchMode},
		{Name: "status", Match: p.matchStatus},
		{Name: "search", Match: p.matchSearch},
		{Name: "member-scope", Match: p.matchMemberScope},
		{Name: "department", Match: p.matchDepartment},
	}
	return p
}

// Predicates returns the ordered predicate list, mainly for tests that
// exercise one predicate in isolation.
func (p *Pipeline) Predicates() []Predicate { return p.predicates }

// Apply returns the subset of tasks visible under the view context,
// preserving input order.
func (p *Pipeline) Apply(tasks []task.Task, vc ViewContext) []task.Task {
	vc = vc.Normalized()
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if p.Matches(t, vc) {
			out = append(out, t)
		}
	}
	return out
}

// Matches reports whether a single task passes every predicate.
func (p *Pipeline) Matches(t task.Task, vc ViewContext) bool {
	vc = vc.Normalized()
	for _, pred := range p.predicates {
		if !pred.Match(t, vc) {
			return false
		}
	}
	return true
}

// matchMonth keeps tasks whose deadline falls in the scoped month. The
// deadline is an ISO date string, so the YYYY-MM prefix is the month test.
func (p *Pipeline) matchMonth(t task.Task, vc ViewContext) bool {
	if vc.MonthKey == "" {
		return true
	}
	return strings.HasPrefix(t.Deadline, vc.MonthKey)
}

// assignedToOperator matches the operator identity or the head sentinel,
// which stands in for "the department supervisor".
func (p *Pipeline) assignedToOperator(t task.Task) bool {
	return t.AssignedTo == p.operator || t.AssignedTo == p.rules.HeadRole
}

func (p *Pipeline) matchMode(t task.Task, vc ViewContext) bool {
	switch vc.Mode {
	case ModeMine:
		return p.assignedToOperator(t)
	case ModeOthers:
		return !t.Unassigned() && !p.assignedToOperator(t)
	case ModeAll:
		switch vc.AssignmentFilter {
		case AssignmentSelf:
			return p.assignedToOperator(t)
		case AssignmentOthers:
			return !t.Unassigned() && !p.assignedToOperator(t)
		default:
			return p.assignedToOperator(t) || !t.Unassigned()
		}
	case ModeExtra:
		return p.rules.HeadCreated(t) || t.AssignedFromSocialMedia
	default:
		return true
	}
}

// matchStatus applies the card filter when one is active and only falls
// back to the dropdown filter under the "all" card. A selected card fully
// determines the status match; changing the dropdown must not change the
// result.
func (p *Pipeline) matchStatus(t task.Task, vc ViewContext) bool {
	if vc.CardFilter != CardAll {
		return task.MatchesCard(vc.CardFilter, t.Status)
	}
	if vc.StatusFilter == "" || vc.StatusFilter == CardAll {
		return true
	}
	return string(t.Status) == vc.StatusFilter
}

// matchSearch is a case-insensitive substring match over the task name,
// client name, project name, and assignee. Empty search matches everything.
func (p *Pipeline) matchSearch(t task.Task, vc ViewContext) bool {
	if vc.Search == "" {
		return true
	}
	needle := strings.ToLower(vc.Search)
	for _, hay := range []string{t.TaskName, t.ClientName, t.ProjectName, t.AssignedTo} {
		if strings.Contains(strings.ToLower(hay), needle) {
			return true
		}
	}
	return false
}

func (p *Pipeline) matchMemberScope(t task.Task, vc ViewContext) bool {
	if vc.MemberScope == "" {
		return true
	}
	return t.AssignedTo == vc.MemberScope
}

// matchDepartment keeps tasks belonging to the workflow department. Skipped
// for the extra view, whose tasks may legitimately originate elsewhere.
func (p *Pipeline) matchDepartment(t task.Task, vc ViewContext) bool {
	if vc.Mode == ModeExtra {
		return true
	}
	return t.Department == p.rules.Department || t.AssignedToDept == p.rules.Department
}

// CardCounts summarizes a task set for the dashboard card row.
type CardCounts struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
	Approval   int `json:"pendingApproval"`
	Approved   int `json:"approved"`
	Revision   int `json:"revision"`
}

// Counts tallies card-bucket membership over a task set. Buckets here use
// the card definitions, so a task may count under exactly one card.
func Counts(tasks []task.Task) CardCounts {
	var c CardCounts
	c.Total = len(tasks)
	for _, t := range tasks {
		switch {
		case task.CardApprovedBucket.Has(t.Status):
			c.Approved++
		case task.CardInProgressBucket.Has(t.Status):
			c.InProgress++
		case t.Status == task.StatusPendingClientApproval:
			c.Approval++
		case t.Status == task.StatusCompleted:
			c.Completed++
		case t.Status == task.StatusRevisionRequired:
			c.Revision++
		case t.Status == task.StatusPending:
			c.Pending++
		}
	}
	return c
}

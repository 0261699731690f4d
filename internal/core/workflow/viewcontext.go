package workflow

import "fmt"

// ViewMode selects which slice of the department's tasks a view shows.
// Modes are mutually exclusive by construction; the zero value is
// ModeDefault.
type ViewMode string

const (
	// ModeDefault shows the department's tasks with no assignee narrowing.
	ModeDefault ViewMode = "default"
	// ModeMine shows tasks assigned to the operator or the head sentinel.
	ModeMine ViewMode = "mine"
	// ModeOthers shows tasks assigned to someone other than the operator.
	ModeOthers ViewMode = "others"
	// ModeAll shows mine and others together, optionally narrowed by
	// AssignmentFilter.
	ModeAll ViewMode = "all"
	// ModeExtra shows head-created or cross-department tasks regardless of
	// originating department.
	ModeExtra ViewMode = "extra"
)

// ParseViewMode validates a mode string, mapping empty to ModeDefault.
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case "", ModeDefault:
		return ModeDefault, nil
	case ModeMine, ModeOthers, ModeAll, ModeExtra:
		return ViewMode(s), nil
	default:
		return ModeDefault, fmt.Errorf("unknown view mode %q", s)
	}
}

// AssignmentFilter narrows ModeAll to the operator's own tasks or to tasks
// assigned to others. It has no effect under any other mode.
type AssignmentFilter string

const (
	AssignmentAll    AssignmentFilter = "all"
	AssignmentSelf   AssignmentFilter = "self"
	AssignmentOthers AssignmentFilter = "others"
)

// CardAll is the card filter value that defers to the dropdown filter.
const CardAll = "all"

// ViewContext is the full filter state of one view: mode, month scope, card
// and dropdown status filters, search term, and operator scoping. It is
// plain serializable data so the pipeline can be queried headlessly.
type ViewContext struct {
	Mode     ViewMode `json:"mode"`
	MonthKey string   `json:"monthKey,omitempty"` // YYYY-MM; empty matches every month
	// CardFilter is a status bucket name or "all". A non-"all" card fully
	// determines status matching; the dropdown filter is ignored.
	CardFilter string `json:"cardFilter,omitempty"`
	// StatusFilter is the dropdown's raw status value, applied only when
	// CardFilter is "all". Empty matches all statuses.
	StatusFilter string `json:"statusFilter,omitempty"`
	Search       string `json:"search,omitempty"`
	// MemberScope restricts the view to a single named employee, used in
	// supervisory contexts. Empty disables the restriction.
	MemberScope string `json:"memberScope,omitempty"`
	// AssignmentFilter narrows ModeAll; empty means AssignmentAll.
	AssignmentFilter AssignmentFilter `json:"assignmentFilter,omitempty"`
}

// Normalized returns a copy with defaults filled in for zero values.
func (vc ViewContext) Normalized() ViewContext {
	if vc.Mode == "" {
		vc.Mode = ModeDefault
	}
	if vc.CardFilter == "" {
		vc.CardFilter = CardAll
	}
	if vc.AssignmentFilter == "" {
		vc.AssignmentFilter = AssignmentAll
	}
	return vc
}

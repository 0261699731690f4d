package task

// Status is the lifecycle state of a task. The enumeration is flat: any
// status may move to any other status via a direct update, and only the
// timestamp side effects are status-specific.
type Status string

const (
	StatusPending               Status = "pending"
	StatusAssignedToDept        Status = "assigned-to-department"
	StatusAssigned              Status = "assigned"
	StatusInProgress            Status = "in-progress"
	StatusCompleted             Status = "completed"
	StatusPendingClientApproval Status = "pending-client-approval"
	StatusApproved              Status = "approved"
	StatusPosted                Status = "posted"
	StatusRevisionRequired      Status = "revision-required"
)

// AllStatuses lists every recognized status.
var AllStatuses = []Status{
	StatusPending,
	StatusAssignedToDept,
	StatusAssigned,
	StatusInProgress,
	StatusCompleted,
	StatusPendingClientApproval,
	StatusApproved,
	StatusPosted,
	StatusRevisionRequired,
}

// Known reports whether s is a recognized status value.
func (s Status) Known() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// StatusSet is a membership set over statuses.
type StatusSet map[Status]struct{}

// NewStatusSet builds a set from the given statuses.
func NewStatusSet(statuses ...Status) StatusSet {
	set := make(StatusSet, len(statuses))
	for _, s := range statuses {
		set[s] = struct{}{}
	}
	return set
}

// Has reports set membership.
func (ss StatusSet) Has(s Status) bool {
	_, ok := ss[s]
	return ok
}

// AssignedStatuses is the whitelist of statuses that mark a task as
// officially part of a department workflow.
var AssignedStatuses = NewStatusSet(
	StatusAssignedToDept,
	StatusAssigned,
	StatusInProgress,
	StatusCompleted,
	StatusPendingClientApproval,
	StatusApproved,
	StatusPosted,
	StatusRevisionRequired,
	StatusPending,
)

// CompletedSet holds the statuses counted as completed work in aggregation.
var CompletedSet = NewStatusSet(StatusCompleted, StatusPosted, StatusApproved)

// ProgressSet holds the statuses counted as in-progress work in aggregation.
var ProgressSet = NewStatusSet(StatusInProgress, StatusAssigned)

// Card filter buckets. The approved card absorbs posted tasks and the
// in-progress card absorbs both assignment statuses, so card matching is a
// bucket test, not a raw enum comparison.
var (
	CardApprovedBucket   = NewStatusSet(StatusApproved, StatusPosted)
	CardInProgressBucket = NewStatusSet(StatusInProgress, StatusAssigned, StatusAssignedToDept)
)

// MatchesCard reports whether status s belongs to the named card bucket.
// Cards without a widened bucket match their raw status value.
func MatchesCard(card string, s Status) bool {
	switch card {
	case string(StatusApproved):
		return CardApprovedBucket.Has(s)
	case string(StatusInProgress):
		return CardInProgressBucket.Has(s)
	default:
		return string(s) == card
	}
}

// Package workflow decides which tasks belong to a department's pipeline and
// which subset is visible under a given view context.
package workflow

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/studioops/reelflow/internal/core/task"
)

// socialMediaMarker grants creator authorization by substring match against
// free-text role names. The match is case-sensitive on purpose: it mirrors
// how legacy records were written.
const socialMediaMarker = "Social Media"

// Rules carries the per-department policy used for eligibility and view
// filtering. Values are immutable after construction.
type Rules struct {
	// Department is the workflow's own department.
	Department task.Department
	// ApprovalDepartment is where tasks are routed for client approval.
	ApprovalDepartment task.Department
	// HeadRole is the head sentinel for this department, e.g. "Video Head".
	HeadRole string
	// CreatorPatterns are doublestar glob patterns matched against
	// Task.AssignedBy to recognize authorized creators.
	CreatorPatterns []string
	// HeadRoles lists every department head role, used by the extra view
	// to surface cross-department head-created tasks.
	HeadRoles []string
}

// ClientIndex is the active-client lookup derived from a snapshot.
type ClientIndex struct {
	ids   map[string]struct{}
	names map[string]struct{}
}

// ActiveClients builds a ClientIndex from a client slice, keeping only
// active clients. Both id fields and both name fields are indexed since the
// store denormalizes them inconsistently.
func ActiveClients(clients []task.Client) ClientIndex {
	idx := ClientIndex{
		ids:   make(map[string]struct{}),
		names: make(map[string]struct{}),
	}
	for _, c := range clients {
		if !c.Active() {
			continue
		}
		if c.ID != "" {
			idx.ids[c.ID] = struct{}{}
		}
		if c.ClientID != "" {
			idx.ids[c.ClientID] = struct{}{}
		}
		if c.ClientName != "" {
			idx.names[c.ClientName] = struct{}{}
		}
		if c.Name != "" {
			idx.names[c.Name] = struct{}{}
		}
	}
	return idx
}

// HasID reports whether an active client has the given id.
func (ci ClientIndex) HasID(id string) bool {
	_, ok := ci.ids[id]
	return ok
}

// HasName reports whether an active client has the given name.
func (ci ClientIndex) HasName(name string) bool {
	_, ok := ci.names[name]
	return ok
}

// Eligible reports whether a raw task record belongs to this department's
// workflow. It is a pure predicate: no mutation, no errors. Missing fields
// degrade per rule rather than failing the whole check.
func (r Rules) Eligible(t task.Task, clients ClientIndex) bool {
	if !r.clientActive(t, clients) {
		return false
	}
	if !r.CreatorAuthorized(t) {
		return false
	}
	if t.Department != r.Department && t.AssignedToDept != r.Department {
		return false
	}
	return task.AssignedStatuses.Has(t.Status)
}

// clientActive checks the task's client against the active index. A task
// with neither a client id nor a client name skips the check entirely; the
// permissive fallback keeps legacy and manually entered records visible.
func (r Rules) clientActive(t task.Task, clients ClientIndex) bool {
	if t.ClientID == "" && t.ClientName == "" {
		return true
	}
	return clients.HasID(t.ClientID) || clients.HasName(t.ClientName)
}

// CreatorAuthorized reports whether the task's creator may feed this
// workflow. Authorization is an allow-list pattern match, the cross-team
// flag, or the legacy free-text social media marker.
func (r Rules) CreatorAuthorized(t task.Task) bool {
	if t.AssignedFromSocialMedia {
		return true
	}
	if strings.Contains(t.AssignedBy, socialMediaMarker) {
		return true
	}
	for _, pattern := range r.CreatorPatterns {
		ok, err := doublestar.Match(pattern, t.AssignedBy)
		if err == nil && ok {
			return true
		}
	}
	return false
}

// HeadCreated reports whether the task was created by any department head.
func (r Rules) HeadCreated(t task.Task) bool {
	for _, role := range r.HeadRoles {
		if t.AssignedBy == role {
			return true
		}
	}
	return false
}

// EligibleSet filters a snapshot's tasks down to this department's workflow,
// preserving snapshot order.
func (r Rules) EligibleSet(snap task.Snapshot) []task.Task {
	clients := ActiveClients(snap.Clients)
	out := make([]task.Task, 0, len(snap.Tasks))
	for _, t := range snap.Tasks {
		if r.Eligible(t, clients) {
			out = append(out, t)
		}
	}
	return out
}

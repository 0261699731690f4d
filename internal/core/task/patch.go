package task

import "time"

// Field names accepted in a Patch. These match the snapshot wire keys.
const (
	FieldStatus                = "status"
	FieldAssignedTo            = "assignedTo"
	FieldDepartment            = "department"
	FieldOriginalDepartment    = "originalDepartment"
	FieldAssignedToMemberAt    = "assignedToMemberAt"
	FieldStartedAt             = "startedAt"
	FieldCompletedAt           = "completedAt"
	FieldSubmittedAt           = "submittedAt"
	FieldSubmittedBy           = "submittedBy"
	FieldSocialMediaAssignedTo = "socialMediaAssignedTo"
	FieldLastUpdated           = "lastUpdated"
	FieldRevisionCount         = "revisionCount"
	FieldLastRevisionAt        = "lastRevisionAt"
	FieldRevisionMessage       = "revisionMessage"
)

type patchEntry struct {
	field string
	value any
}

// Patch is a sparse task update: only fields explicitly set are written by
// the store, never a full record replace. Setting the same field twice keeps
// the last value. The zero value is an empty patch.
type Patch struct {
	entries []patchEntry
}

// Set records a field update, replacing any earlier value for the field.
func (p *Patch) Set(field string, value any) *Patch {
	for i := range p.entries {
		if p.entries[i].field == field {
			p.entries[i].value = value
			return p
		}
	}
	p.entries = append(p.entries, patchEntry{field: field, value: value})
	return p
}

// SetStatus records a status change.
func (p *Patch) SetStatus(s Status) *Patch { return p.Set(FieldStatus, string(s)) }

// SetTime records a timestamp field.
func (p *Patch) SetTime(field string, t time.Time) *Patch { return p.Set(field, t) }

// Len returns the number of fields in the patch.
func (p *Patch) Len() int { return len(p.entries) }

// Each calls fn for every field in insertion order.
func (p *Patch) Each(fn func(field string, value any)) {
	for _, e := range p.entries {
		fn(e.field, e.value)
	}
}

// Fields returns the patch as a map, matching the status-update request
// shape sent to the external store.
func (p *Patch) Fields() map[string]any {
	m := make(map[string]any, len(p.entries))
	for _, e := range p.entries {
		m[e.field] = e.value
	}
	return m
}

// Apply copies the patch onto a task value and returns the result. Used to
// refresh cached views after a successful store write; the store remains the
// source of truth.
func (p *Patch) Apply(t Task) Task {
	for _, e := range p.entries {
		switch e.field {
		case FieldStatus:
			t.Status = Status(e.value.(string))
		case FieldAssignedTo:
			t.AssignedTo = e.value.(string)
		case FieldDepartment:
			t.Department = Department(e.value.(string))
		case FieldOriginalDepartment:
			t.OriginalDepartment = Department(e.value.(string))
		case FieldAssignedToMemberAt:
			t.AssignedToMemberAt = timePtr(e.value)
		case FieldStartedAt:
			t.StartedAt = timePtr(e.value)
		case FieldCompletedAt:
			t.CompletedAt = timePtr(e.value)
		case FieldSubmittedAt:
			t.SubmittedAt = timePtr(e.value)
		case FieldSubmittedBy:
			t.SubmittedBy = e.value.(string)
		case FieldSocialMediaAssignedTo:
			t.SocialMediaAssignedTo = e.value.(string)
		case FieldLastUpdated:
			t.LastUpdated = timePtr(e.value)
		case FieldRevisionCount:
			t.RevisionCount = e.value.(int)
		case FieldLastRevisionAt:
			t.LastRevisionAt = timePtr(e.value)
		case FieldRevisionMessage:
			if e.value == nil {
				t.RevisionMessage = ""
			} else {
				t.RevisionMessage = e.value.(string)
			}
		}
	}
	return t
}

func timePtr(v any) *time.Time {
	if v == nil {
		return nil
	}
	t := v.(time.Time)
	return &t
}

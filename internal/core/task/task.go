// Package task defines the production task domain model shared by the
// eligibility, view, transition, and aggregation layers.
package task

import "time"

// Department identifies a production department.
type Department string

const (
	DeptVideo       Department = "video"
	DeptGraphics    Department = "graphics"
	DeptSocialMedia Department = "social-media"
)

// Task is a production work item moving through the approval pipeline.
// The external store owns the record; the engine holds read references and
// issues sparse update patches. Optional fields absent from a snapshot
// unmarshal to zero values and are treated as null/false/empty.
type Task struct {
	ID          string `json:"id"`
	ClientID    string `json:"clientId,omitempty"`
	ClientName  string `json:"clientName,omitempty"`
	TaskName    string `json:"taskName"`
	ProjectName string `json:"projectName,omitempty"`

	Department     Department `json:"department,omitempty"`
	AssignedToDept Department `json:"assignedToDept,omitempty"`
	// OriginalDepartment records where a task routed to another department
	// (e.g. social media for client approval) should return.
	OriginalDepartment Department `json:"originalDepartment,omitempty"`

	// AssignedBy is the free-text role or person that created the task.
	AssignedBy string `json:"assignedBy,omitempty"`
	// AssignedTo is a worker name, a head-role sentinel such as "Video Head",
	// or empty for unassigned.
	AssignedTo string `json:"assignedTo,omitempty"`

	Status Status `json:"status"`

	// Deadline and PostDate carry ISO-8601 date strings (YYYY-MM-DD).
	// These are date boundaries, not timestamps.
	Deadline string `json:"deadline,omitempty"`
	PostDate string `json:"postDate,omitempty"`

	CreatedAt          time.Time  `json:"createdAt,omitempty"`
	AssignedToMemberAt *time.Time `json:"assignedToMemberAt,omitempty"`
	StartedAt          *time.Time `json:"startedAt,omitempty"`
	CompletedAt        *time.Time `json:"completedAt,omitempty"`
	SubmittedAt        *time.Time `json:"submittedAt,omitempty"`
	LastUpdated        *time.Time `json:"lastUpdated,omitempty"`

	SubmittedBy           string `json:"submittedBy,omitempty"`
	SocialMediaAssignedTo string `json:"socialMediaAssignedTo,omitempty"`

	RevisionCount   int        `json:"revisionCount,omitempty"`
	LastRevisionAt  *time.Time `json:"lastRevisionAt,omitempty"`
	RevisionMessage string     `json:"revisionMessage,omitempty"`

	// AssignedFromSocialMedia marks tasks pushed across departments by the
	// social media team; it grants eligibility regardless of creator.
	AssignedFromSocialMedia bool `json:"assignedFromSocialMedia,omitempty"`
}

// Unassigned returns true when the task has no worker.
func (t Task) Unassigned() bool {
	return t.AssignedTo == ""
}

// ClientStatus is the lifecycle state of a client or employee record.
type ClientStatus string

const (
	ClientActive   ClientStatus = "active"
	ClientInactive ClientStatus = "inactive"
	ClientDisabled ClientStatus = "disabled"
)

// Client is a denormalized client record from the external store.
type Client struct {
	ID         string       `json:"id"`
	Name       string       `json:"name,omitempty"`
	ClientName string       `json:"clientName,omitempty"`
	ClientID   string       `json:"clientId,omitempty"`
	Status     ClientStatus `json:"status,omitempty"`
	Deleted    bool         `json:"deleted,omitempty"`
}

// DisplayName returns the client's name, preferring ClientName.
func (c Client) DisplayName() string {
	if c.ClientName != "" {
		return c.ClientName
	}
	return c.Name
}

// Active reports whether the client participates in eligibility checks.
// A client is active iff its status is neither inactive nor disabled and it
// is not deleted.
func (c Client) Active() bool {
	return c.Status != ClientInactive && c.Status != ClientDisabled && !c.Deleted
}

// Employee is a worker record from the external store.
type Employee struct {
	ID           string       `json:"id"`
	Name         string       `json:"name,omitempty"`
	EmployeeName string       `json:"employeeName,omitempty"`
	Department   Department   `json:"department,omitempty"`
	Status       ClientStatus `json:"status,omitempty"`
	Email        string       `json:"email,omitempty"`
	Deleted      bool         `json:"deleted,omitempty"`
}

// DisplayName returns the employee's name, preferring EmployeeName.
func (e Employee) DisplayName() string {
	if e.EmployeeName != "" {
		return e.EmployeeName
	}
	return e.Name
}

// Active reports whether the employee is a current worker.
func (e Employee) Active() bool {
	return e.Status != ClientInactive && e.Status != ClientDisabled && !e.Deleted
}

// Package store defines the contract of the external task/contact data
// service the voice pipeline mutates through tool calls. The backing service
// is an opaque CRUD collaborator keyed by string identifiers; this package
// only fixes the shapes of the calls the pipeline makes into it.
package store

import (
	"context"
	"time"
)

// DateLayout is the wire format of task dates and contact birthdays.
const DateLayout = "2006-01-02"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid reports whether p is a recognised priority.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusMissed     Status = "missed"
)

// IsValid reports whether s is a recognised task status.
func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone, StatusMissed:
		return true
	}
	return false
}

type Relationship string

const (
	RelationshipFamily    Relationship = "family"
	RelationshipFriend    Relationship = "friend"
	RelationshipColleague Relationship = "colleague"
	RelationshipOther     Relationship = "other"
)

// IsValid reports whether r is a recognised relationship type.
func (r Relationship) IsValid() bool {
	switch r {
	case RelationshipFamily, RelationshipFriend, RelationshipColleague, RelationshipOther:
		return true
	}
	return false
}

type Task struct {
	ID        string   `json:"id,omitempty"`
	UserID    string   `json:"user_id,omitempty"`
	Title     string   `json:"title"`
	Date      string   `json:"date"`
	StartTime string   `json:"start_time,omitempty"`
	EndTime   string   `json:"end_time,omitempty"`
	Priority  Priority `json:"priority,omitempty"`
	Status    Status   `json:"status,omitempty"`
}

// IsToday reports whether the task is dated today in local time.
func (t Task) IsToday() bool {
	return t.Date == time.Now().Format(DateLayout)
}

type Contact struct {
	ID                 string       `json:"id,omitempty"`
	UserID             string       `json:"user_id,omitempty"`
	FirstName          string       `json:"first_name"`
	LastName           string       `json:"last_name,omitempty"`
	Nickname           string       `json:"nickname,omitempty"`
	RelationshipType   Relationship `json:"relationship_type"`
	RelationshipDetail string       `json:"relationship_detail,omitempty"`
	Phone              string       `json:"phone,omitempty"`
	Email              string       `json:"email,omitempty"`
	Birthday           string       `json:"birthday,omitempty"`
	Notes              string       `json:"notes,omitempty"`
}

// DisplayName returns the name a spoken confirmation should use.
func (c Contact) DisplayName() string {
	if c.Nickname != "" {
		return c.Nickname
	}
	if c.LastName != "" {
		return c.FirstName + " " + c.LastName
	}
	return c.FirstName
}

// TaskQuery filters task listings. Zero values mean "no filter"; Date and the
// range fields are mutually exclusive, Date wins when both are set.
type TaskQuery struct {
	Date      string
	StartDate string
	EndDate   string
}

// TaskPatch carries the mutable task fields of an update. Nil fields are left
// untouched by the backend.
type TaskPatch struct {
	Title     *string   `json:"title,omitempty"`
	Date      *string   `json:"date,omitempty"`
	StartTime *string   `json:"start_time,omitempty"`
	Status    *Status   `json:"status,omitempty"`
	Priority  *Priority `json:"priority,omitempty"`
}

// TaskStore provides the task CRUD calls the tool bridge issues.
// Implementations must be safe for concurrent use.
type TaskStore interface {
	// ListTasks returns the signed-in user's tasks matching the query, in the
	// backend's list order.
	ListTasks(ctx context.Context, query TaskQuery) ([]Task, error)

	// CreateTask inserts a task and returns it with backend-assigned fields
	// populated.
	CreateTask(ctx context.Context, task Task) (*Task, error)

	// UpdateTask applies the patch to the task with the given id.
	UpdateTask(ctx context.Context, id string, patch TaskPatch) (*Task, error)

	// DeleteTask removes a task by id.
	DeleteTask(ctx context.Context, id string) error
}

// ContactQuery filters contact listings.
type ContactQuery struct {
	RelationshipType Relationship
}

// ContactStore provides the contact calls the tool bridge issues.
// Implementations must be safe for concurrent use.
type ContactStore interface {
	// ListContacts returns the signed-in user's contacts matching the query.
	ListContacts(ctx context.Context, query ContactQuery) ([]Contact, error)

	// CreateContact inserts a contact and returns it with backend-assigned
	// fields populated.
	CreateContact(ctx context.Context, contact Contact) (*Contact, error)
}

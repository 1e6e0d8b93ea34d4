package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventIssueCreated    EventType = "issue_created"
	EventIssueClosed     EventType = "issue_closed"
	EventComment         EventType = "comment"
	EventCollaboratorAdd EventType = "collaborator_add"
	EventAssigned        EventType = "assigned"
	EventDeadline        EventType = "deadline"
	EventReminder        EventType = "reminder"
	EventTaskAssigned    EventType = "task_assigned"
	EventMerge           EventType = "merge"
	EventCheckin         EventType = "checkin"
)

func (t EventType) IsValid() bool {
	switch t {
	case EventIssueCreated, EventIssueClosed, EventComment, EventCollaboratorAdd, EventAssigned,
		EventDeadline, EventReminder, EventTaskAssigned, EventMerge, EventCheckin:
		return true
	}
	return false
}

// Category returns the preference category the event type is filed under.
// The second return value is false for types without a category; those are
// always delivered.
func (t EventType) Category() (Category, bool) {
	switch t {
	case EventIssueCreated:
		return CategoryIssueCreated, true
	case EventIssueClosed:
		return CategoryIssueClosed, true
	case EventComment:
		return CategoryComment, true
	case EventCollaboratorAdd:
		return CategoryCollaboratorAdd, true
	case EventAssigned, EventTaskAssigned:
		return CategoryAssigned, true
	case EventDeadline, EventReminder:
		return CategoryDeadline, true
	}
	return "", false
}

type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// PriorityFromDomain maps an issue or task priority onto a notification priority.
func PriorityFromDomain(p string) Priority {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case "urgent", "high":
		return PriorityHigh
	default:
		return PriorityNormal
	}
}

// NotificationEvent is built by a producer for a single dispatch and is never
// stored as-is.
type NotificationEvent struct {
	Type       EventType  `json:"type" validate:"required"`
	Title      string     `json:"title" validate:"required,max=200"`
	Message    string     `json:"message" validate:"max=2000"`
	Link       string     `json:"link" validate:"max=500"`
	Priority   Priority   `json:"priority" validate:"omitempty,oneof=normal high"`
	SubjectRef *uuid.UUID `json:"subject_ref,omitempty"`
	// SubjectTitle names the issue or task; mail templates fall back to Title.
	SubjectTitle string `json:"subject_title,omitempty" validate:"max=200"`
	Actor        string `json:"actor,omitempty" validate:"max=200"`
}

// Subject returns the name of the entity the event is about.
func (e NotificationEvent) Subject() string {
	if e.SubjectTitle != "" {
		return e.SubjectTitle
	}
	return e.Title
}

type Recipient struct {
	UserID      uuid.UUID
	DisplayName string
	Email       string
	ChatHandle  string
}

type Notification struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	Type      EventType  `json:"type" db:"type"`
	Title     string     `json:"title" db:"title"`
	Message   string     `json:"message" db:"message"`
	Link      string     `json:"link" db:"link"`
	Priority  Priority   `json:"priority" db:"priority"`
	IsRead    bool       `json:"is_read" db:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty" db:"read_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

type Channel string

const (
	ChannelInApp Channel = "in_app"
	ChannelChat  Channel = "chat"
	ChannelMail  Channel = "mail"
)

// DeliveryAttempt is the outcome of one channel step of a dispatch. It is
// only logged and counted, never stored.
type DeliveryAttempt struct {
	Channel      Channel
	RecipientIDs []uuid.UUID
	Succeeded    bool
	Err          error
}

type DispatchSummary struct {
	Created       []Notification `json:"created"`
	ChatAttempted bool           `json:"chat_attempted"`
	ChatSucceeded bool           `json:"chat_succeeded"`
	MailAttempted bool           `json:"mail_attempted"`
	MailSucceeded bool           `json:"mail_succeeded"`
}

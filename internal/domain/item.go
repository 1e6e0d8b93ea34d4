package domain

import (
	"fmt"

	"github.com/google/uuid"
)

type ItemKind string

const (
	ItemIssue ItemKind = "issue"
	ItemTask  ItemKind = "task"
)

// DeadlineLayout is the date-only format deadlines are stored and compared in.
const DeadlineLayout = "2006-01-02"

// TrackedItem is an issue or task carrying a deadline.
type TrackedItem struct {
	ID          uuid.UUID   `db:"id"`
	Kind        ItemKind    `db:"kind"`
	Title       string      `db:"title"`
	Priority    string      `db:"priority"`
	Deadline    string      `db:"deadline"`
	AssigneeIDs []uuid.UUID `db:"-"`
}

func (i TrackedItem) Link() string {
	return fmt.Sprintf("/%ss/%s", i.Kind, i.ID)
}

type Issue struct {
	ID              uuid.UUID   `db:"id"`
	Title           string      `db:"title"`
	Priority        string      `db:"priority"`
	CreatedBy       uuid.UUID   `db:"created_by"`
	AssigneeIDs     []uuid.UUID `db:"-"`
	CollaboratorIDs []uuid.UUID `db:"-"`
}

func (i *Issue) Link() string {
	return fmt.Sprintf("/issues/%s", i.ID)
}

type IssueAction struct {
	IssueID       uuid.UUID   `json:"issue_id" validate:"required"`
	Action        EventType   `json:"action" validate:"required,oneof=issue_created issue_closed comment collaborator_add assigned task_assigned"`
	TargetUserIDs []uuid.UUID `json:"target_user_ids"`
	Comment       string      `json:"comment" validate:"max=2000"`
}

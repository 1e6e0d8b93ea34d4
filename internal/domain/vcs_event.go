package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type VCSEventType string

const (
	VCSEventMerge   VCSEventType = "merge"
	VCSEventCheckin VCSEventType = "checkin"
)

// VCSEvent is the normalized audit record of an inbound version-control webhook.
type VCSEvent struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	EventType        VCSEventType    `json:"event_type" db:"event_type"`
	RepoName         string          `json:"repo_name" db:"repo_name"`
	BranchName       string          `json:"branch_name" db:"branch_name"`
	Author           string          `json:"author" db:"author"`
	Comment          string          `json:"comment" db:"comment"`
	ChangesetNumber  *string         `json:"changeset_number" db:"changeset_number"`
	MergeSource      *string         `json:"merge_source,omitempty" db:"merge_source"`
	MergeDestination *string         `json:"merge_destination,omitempty" db:"merge_destination"`
	HasConflicts     *bool           `json:"has_conflicts,omitempty" db:"has_conflicts"`
	RawPayload       json.RawMessage `json:"-" db:"raw_payload"`
	ReceivedAt       time.Time       `json:"received_at" db:"received_at"`
}

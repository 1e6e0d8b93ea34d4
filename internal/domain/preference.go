package domain

import (
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryIssueCreated    Category = "issue_created"
	CategoryIssueClosed     Category = "issue_closed"
	CategoryComment         Category = "comment"
	CategoryCollaboratorAdd Category = "collaborator_add"
	CategoryAssigned        Category = "assigned"
	CategoryDeadline        Category = "deadline"
)

var Categories = []Category{
	CategoryIssueCreated,
	CategoryIssueClosed,
	CategoryComment,
	CategoryCollaboratorAdd,
	CategoryAssigned,
	CategoryDeadline,
}

func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// CategoryFlags holds one opt-in flag per category. A missing key means enabled.
type CategoryFlags map[Category]bool

func DefaultCategoryFlags() CategoryFlags {
	flags := make(CategoryFlags, len(Categories))
	for _, c := range Categories {
		flags[c] = true
	}
	return flags
}

func (f CategoryFlags) Enabled(c Category) bool {
	enabled, ok := f[c]
	if !ok {
		return true
	}
	return enabled
}

// WithDefaults returns a copy holding every known category, filled with true
// where the stored flags say nothing.
func (f CategoryFlags) WithDefaults() CategoryFlags {
	out := DefaultCategoryFlags()
	for c, enabled := range f {
		if c.IsValid() {
			out[c] = enabled
		}
	}
	return out
}

// PreferenceChannel is the subset of channels a user can opt out of.
type PreferenceChannel string

const (
	PreferenceMail PreferenceChannel = "mail"
	PreferenceChat PreferenceChannel = "chat"
)

func (c PreferenceChannel) IsValid() bool {
	return c == PreferenceMail || c == PreferenceChat
}

type NotificationPreferences struct {
	UserID    uuid.UUID     `json:"user_id"`
	Mail      CategoryFlags `json:"mail,omitempty"`
	Chat      CategoryFlags `json:"chat,omitempty"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func (p *NotificationPreferences) Flags(channel PreferenceChannel) CategoryFlags {
	if p == nil {
		return nil
	}
	switch channel {
	case PreferenceMail:
		return p.Mail
	case PreferenceChat:
		return p.Chat
	}
	return nil
}

type UpdatePreferencesInput struct {
	Prefs map[string]bool `json:"prefs" validate:"required"`
}

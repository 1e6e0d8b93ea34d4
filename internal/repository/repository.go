package repository

import (
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	User         UserRepository
	Notification NotificationRepository
	Preference   PreferenceRepository
	Item         ItemRepository
	VCSEvent     VCSEventRepository
}

// NewRepositories builds the repositories that run with ordinary privileges.
// PrivilegedUserRepository is deliberately not part of this set.
func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Notification: NewNotificationRepository(db),
		Preference:   NewPreferenceRepository(db),
		Item:         NewItemRepository(db),
		VCSEvent:     NewVCSEventRepository(db),
	}
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	FullName     string     `json:"full_name" db:"full_name"`
	ChatHandle   *string    `json:"chat_handle,omitempty" db:"chat_handle"`
	Role         string     `json:"role" db:"role"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt    *time.Time `json:"-" db:"deleted_at"`
}

// Recipient converts the profile into the contact card used for delivery.
func (u *User) Recipient() Recipient {
	r := Recipient{
		UserID:      u.ID,
		DisplayName: u.FullName,
		Email:       u.Email,
	}
	if u.ChatHandle != nil {
		r.ChatHandle = *u.ChatHandle
	}
	return r
}

type CreateUserInput struct {
	Email      string  `json:"email" validate:"required,email"`
	Password   string  `json:"password" validate:"required,min=8"`
	FullName   string  `json:"full_name" validate:"required,min=2"`
	ChatHandle *string `json:"chat_handle,omitempty" validate:"omitempty,max=200"`
	Role       string  `json:"role" validate:"omitempty,oneof=member manager admin"`
}

type UserRole string

const (
	RoleMember  UserRole = "member"
	RoleManager UserRole = "manager"
	RoleAdmin   UserRole = "admin"
)

func (r UserRole) IsValid() bool {
	switch r {
	case RoleMember, RoleManager, RoleAdmin:
		return true
	default:
		return false
	}
}

func (u *User) HasRole(requiredRole string) bool {
	switch requiredRole {
	case "admin":
		return u.Role == "admin"
	case "manager":
		return u.Role == "manager" || u.Role == "admin"
	case "member":
		return u.Role == "member" || u.Role == "manager" || u.Role == "admin"
	default:
		return false
	}
}

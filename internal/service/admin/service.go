// Package admin holds the operations that need the privileged user
// repository.
package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"issuehub/internal/domain"
	"issuehub/internal/repository"
)

type Service interface {
	CreateUser(ctx context.Context, input domain.CreateUserInput) (*domain.User, error)
}

type service struct {
	users repository.PrivilegedUserRepository
}

func NewService(users repository.PrivilegedUserRepository) Service {
	return &service{users: users}
}

func (s *service) CreateUser(ctx context.Context, input domain.CreateUserInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: email %s is already registered", domain.ErrConflict, email)
	}

	role := domain.UserRole(input.Role)
	if role == "" {
		role = domain.RoleMember
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, input.Role)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		FullName:     strings.TrimSpace(input.FullName),
		ChatHandle:   input.ChatHandle,
		Role:         string(role),
		IsActive:     true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id": user.ID,
		"role":    user.Role,
	}).Info("user account created")
	return user, nil
}

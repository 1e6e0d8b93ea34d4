package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"issuehub/internal/domain"
)

// UserRepository is the read-only profile store. It runs under the caller's
// own privileges and never writes.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error)
}

// PrivilegedUserRepository carries the elevated capability to create
// accounts. Only the admin service receives it.
type PrivilegedUserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	query := `SELECT * FROM users WHERE id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "unable to get user")
	}
	return &user, nil
}

// GetByIDs returns the active users among ids. Missing ids are simply absent
// from the result.
func (r *userRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error) {
	if len(ids) == 0 {
		return []domain.User{}, nil
	}

	var users []domain.User
	query := `SELECT * FROM users WHERE id = ANY($1::uuid[]) AND deleted_at IS NULL AND is_active = true`
	if err := r.db.SelectContext(ctx, &users, query, pq.Array(uuidStrings(ids))); err != nil {
		return nil, errors.Wrap(err, "unable to resolve users")
	}
	return users, nil
}

type privilegedUserRepository struct {
	db *sqlx.DB
}

// NewPrivilegedUserRepository expects a connection opened with a role that
// bypasses row-level access control.
func NewPrivilegedUserRepository(db *sqlx.DB) PrivilegedUserRepository {
	return &privilegedUserRepository{db: db}
}

func (r *privilegedUserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, full_name, chat_handle, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FullName, user.ChatHandle, user.Role, user.IsActive,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	return errors.Wrap(err, "unable to create user")
}

func (r *privilegedUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND deleted_at IS NULL)`
	err := r.db.GetContext(ctx, &exists, query, email)
	return exists, errors.Wrap(err, "unable to check email")
}

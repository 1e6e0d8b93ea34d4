package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"issuehub/internal/domain"
)

type NotificationRepository interface {
	Create(ctx context.Context, notif *domain.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
	ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) ([]domain.Notification, int64, error)
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// Create assigns an ID when the caller has not and fills CreatedAt from the database.
func (r *notificationRepository) Create(ctx context.Context, notif *domain.Notification) error {
	if notif.ID == uuid.Nil {
		notif.ID = uuid.New()
	}
	if notif.Priority == "" {
		notif.Priority = domain.PriorityNormal
	}

	query := `
		INSERT INTO notifications (id, user_id, type, title, message, link, priority)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := r.db.QueryRowxContext(ctx, query,
		notif.ID, notif.UserID, notif.Type, notif.Title, notif.Message, notif.Link, notif.Priority,
	).Scan(&notif.CreatedAt)
	return errors.Wrap(err, "unable to create notification")
}

func (r *notificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	var notif domain.Notification
	query := `SELECT * FROM notifications WHERE id = $1`

	err := r.db.GetContext(ctx, &notif, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "unable to get notification")
	}
	return &notif, nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) ([]domain.Notification, int64, error) {
	params.Validate()

	filter := "user_id = $1"
	if unreadOnly {
		filter += " AND is_read = false"
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM notifications WHERE `+filter, userID); err != nil {
		return nil, 0, errors.Wrap(err, "unable to count notifications")
	}

	query := `
		SELECT * FROM notifications
		WHERE ` + filter + `
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var notifications []domain.Notification
	if err := r.db.SelectContext(ctx, &notifications, query, userID, params.PageSize, params.Offset()); err != nil {
		return nil, 0, errors.Wrap(err, "unable to list notifications")
	}
	return notifications, total, nil
}

// MarkAsRead only touches the row when it belongs to userID; marking someone
// else's notification reports ErrNotFound.
func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	query := `UPDATE notifications SET is_read = true, read_at = COALESCE(read_at, NOW()) WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return errors.Wrap(err, "unable to mark notification as read")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "unable to mark notification as read")
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE notifications SET is_read = true, read_at = NOW() WHERE user_id = $1 AND is_read = false`
	_, err := r.db.ExecContext(ctx, query, userID)
	return errors.Wrap(err, "unable to mark notifications as read")
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = false`
	err := r.db.GetContext(ctx, &count, query, userID)
	return count, errors.Wrap(err, "unable to count unread notifications")
}

package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"issuehub/internal/domain"
)

type PreferenceRepository interface {
	// Get returns nil without error when the user never saved preferences.
	Get(ctx context.Context, userID uuid.UUID) (*domain.NotificationPreferences, error)
	Upsert(ctx context.Context, userID uuid.UUID, channel domain.PreferenceChannel, flags domain.CategoryFlags) error
}

type preferenceRepository struct {
	db *sqlx.DB
}

func NewPreferenceRepository(db *sqlx.DB) PreferenceRepository {
	return &preferenceRepository{db: db}
}

type preferenceRow struct {
	Channel   domain.PreferenceChannel `db:"channel"`
	Prefs     []byte                   `db:"prefs"`
	UpdatedAt time.Time                `db:"updated_at"`
}

func (r *preferenceRepository) Get(ctx context.Context, userID uuid.UUID) (*domain.NotificationPreferences, error) {
	wrapMsg := "unable to load notification preferences"

	var rows []preferenceRow
	query := `SELECT channel, prefs, updated_at FROM notification_preferences WHERE user_id = $1`
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	prefs := &domain.NotificationPreferences{UserID: userID}
	for _, row := range rows {
		var flags domain.CategoryFlags
		if err := json.Unmarshal(row.Prefs, &flags); err != nil {
			return nil, errors.Wrapf(err, "%s: malformed %s flags", wrapMsg, row.Channel)
		}

		switch row.Channel {
		case domain.PreferenceMail:
			prefs.Mail = flags
		case domain.PreferenceChat:
			prefs.Chat = flags
		default:
			continue
		}
		if row.UpdatedAt.After(prefs.UpdatedAt) {
			prefs.UpdatedAt = row.UpdatedAt
		}
	}

	return prefs, nil
}

func (r *preferenceRepository) Upsert(ctx context.Context, userID uuid.UUID, channel domain.PreferenceChannel, flags domain.CategoryFlags) error {
	wrapMsg := "unable to save notification preferences"

	encoded, err := json.Marshal(flags)
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	query := `
		INSERT INTO notification_preferences (user_id, channel, prefs, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, channel)
		DO UPDATE SET prefs = EXCLUDED.prefs, updated_at = NOW()`

	_, err = r.db.ExecContext(ctx, query, userID, channel, encoded)
	return errors.Wrap(err, wrapMsg)
}

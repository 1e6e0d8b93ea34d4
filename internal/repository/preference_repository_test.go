package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"issuehub/internal/domain"
)

func TestPreferenceRepository_GetMissing(t *testing.T) {
	assert := assert.New(t)
	db, mock := newMockDB(t)
	repo := NewPreferenceRepository(db)

	userID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT channel, prefs, updated_at FROM notification_preferences WHERE user_id = $1")).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"channel", "prefs", "updated_at"}))

	prefs, err := repo.Get(context.Background(), userID)

	assert.NoError(err)
	assert.Nil(prefs)
	assert.NoError(mock.ExpectationsWereMet())
}

func TestPreferenceRepository_GetBothChannels(t *testing.T) {
	assert := assert.New(t)
	db, mock := newMockDB(t)
	repo := NewPreferenceRepository(db)

	userID := uuid.New()
	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)
	mock.ExpectQuery("SELECT channel, prefs, updated_at FROM notification_preferences").
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"channel", "prefs", "updated_at"}).
			AddRow("mail", []byte(`{"comment":false}`), older).
			AddRow("chat", []byte(`{"deadline":false,"assigned":true}`), newer))

	prefs, err := repo.Get(context.Background(), userID)

	assert.NoError(err)
	if assert.NotNil(prefs) {
		assert.False(prefs.Mail.Enabled(domain.CategoryComment))
		assert.True(prefs.Mail.Enabled(domain.CategoryDeadline))
		assert.False(prefs.Chat.Enabled(domain.CategoryDeadline))
		assert.Equal(newer, prefs.UpdatedAt)
	}
	assert.NoError(mock.ExpectationsWereMet())
}

func TestPreferenceRepository_GetMalformed(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPreferenceRepository(db)

	userID := uuid.New()
	mock.ExpectQuery("SELECT channel, prefs, updated_at FROM notification_preferences").
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"channel", "prefs", "updated_at"}).
			AddRow("mail", []byte(`not-json`), time.Now()))

	prefs, err := repo.Get(context.Background(), userID)

	assert.Nil(t, prefs)
	assert.ErrorContains(t, err, "malformed mail flags")
}

func TestPreferenceRepository_Upsert(t *testing.T) {
	assert := assert.New(t)
	db, mock := newMockDB(t)
	repo := NewPreferenceRepository(db)

	userID := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (user_id, channel)")).
		WithArgs(userID, "chat", []byte(`{"comment":false}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), userID, domain.PreferenceChat, domain.CategoryFlags{domain.CategoryComment: false})

	assert.NoError(err)
	assert.NoError(mock.ExpectationsWereMet())
}

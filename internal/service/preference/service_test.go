package preference_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"issuehub/internal/domain"
	"issuehub/internal/mocks"
	"issuehub/internal/service/preference"
)

func TestPreferenceService_IsEnabled(t *testing.T) {
	ctx := context.Background()

	t.Run("No stored preferences enables everything", func(t *testing.T) {
		prefRepo := new(mocks.PreferenceRepository)
		svc := preference.NewService(prefRepo)
		userID := uuid.New()
		prefRepo.On("Get", ctx, userID).Return(nil, nil)

		for _, c := range domain.Categories {
			for _, ch := range []domain.Channel{domain.ChannelInApp, domain.ChannelChat, domain.ChannelMail} {
				assert.True(t, svc.IsEnabled(ctx, userID, c, ch), "%s/%s", c, ch)
			}
		}
	})

	t.Run("Lookup failure enables", func(t *testing.T) {
		prefRepo := new(mocks.PreferenceRepository)
		svc := preference.NewService(prefRepo)
		userID := uuid.New()
		prefRepo.On("Get", ctx, userID).Return(nil, errors.New("timeout")).Once()

		assert.True(t, svc.IsEnabled(ctx, userID, domain.CategoryComment, domain.ChannelMail))
		prefRepo.AssertExpectations(t)
	})

	t.Run("Stored flags are honored per channel", func(t *testing.T) {
		prefRepo := new(mocks.PreferenceRepository)
		svc := preference.NewService(prefRepo)
		userID := uuid.New()
		prefRepo.On("Get", ctx, userID).Return(&domain.NotificationPreferences{
			UserID: userID,
			Mail:   domain.CategoryFlags{domain.CategoryComment: false},
		}, nil)

		assert.False(t, svc.IsEnabled(ctx, userID, domain.CategoryComment, domain.ChannelMail))
		assert.True(t, svc.IsEnabled(ctx, userID, domain.CategoryComment, domain.ChannelChat))
		assert.True(t, svc.IsEnabled(ctx, userID, domain.CategoryDeadline, domain.ChannelMail))
		assert.True(t, svc.IsEnabled(ctx, userID, domain.Category("wiki_edit"), domain.ChannelMail))
	})

	t.Run("In-app is always enabled", func(t *testing.T) {
		prefRepo := new(mocks.PreferenceRepository)
		svc := preference.NewService(prefRepo)

		assert.True(t, svc.IsEnabled(ctx, uuid.New(), domain.CategoryComment, domain.ChannelInApp))
		prefRepo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})
}

func TestSnapshot_Allows(t *testing.T) {
	ctx := context.Background()
	prefRepo := new(mocks.PreferenceRepository)
	svc := preference.NewService(prefRepo)
	userID := uuid.New()
	prefRepo.On("Get", ctx, userID).Return(&domain.NotificationPreferences{
		Chat: domain.CategoryFlags{domain.CategoryDeadline: false, domain.CategoryAssigned: false},
	}, nil).Once()

	snapshot := svc.Snapshot(ctx, userID)

	assert.False(t, snapshot.Allows(domain.EventReminder, domain.ChannelChat))
	assert.False(t, snapshot.Allows(domain.EventTaskAssigned, domain.ChannelChat))
	assert.True(t, snapshot.Allows(domain.EventReminder, domain.ChannelMail))
	assert.True(t, snapshot.Allows(domain.EventCheckin, domain.ChannelChat))
	prefRepo.AssertExpectations(t)
}

func TestPreferenceService_Get(t *testing.T) {
	ctx := context.Background()
	prefRepo := new(mocks.PreferenceRepository)
	svc := preference.NewService(prefRepo)
	userID := uuid.New()

	t.Run("Defaults fill missing categories", func(t *testing.T) {
		prefRepo.On("Get", ctx, userID).Return(&domain.NotificationPreferences{
			Mail: domain.CategoryFlags{domain.CategoryIssueClosed: false},
		}, nil).Once()

		flags, err := svc.Get(ctx, userID, domain.PreferenceMail)

		require.NoError(t, err)
		assert.Len(t, flags, len(domain.Categories))
		assert.False(t, flags[domain.CategoryIssueClosed])
		assert.True(t, flags[domain.CategoryComment])
	})

	t.Run("Unknown channel", func(t *testing.T) {
		_, err := svc.Get(ctx, userID, domain.PreferenceChannel("sms"))
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestPreferenceService_Update(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		prefRepo := new(mocks.PreferenceRepository)
		svc := preference.NewService(prefRepo)
		prefRepo.On("Upsert", ctx, userID, domain.PreferenceChat,
			domain.CategoryFlags{domain.CategoryComment: false}).Return(nil).Once()

		flags, err := svc.Update(ctx, userID, domain.PreferenceChat, map[string]bool{"comment": false})

		require.NoError(t, err)
		assert.False(t, flags[domain.CategoryComment])
		assert.True(t, flags[domain.CategoryDeadline])
		prefRepo.AssertExpectations(t)
	})

	t.Run("Unknown category", func(t *testing.T) {
		prefRepo := new(mocks.PreferenceRepository)
		svc := preference.NewService(prefRepo)

		_, err := svc.Update(ctx, userID, domain.PreferenceChat, map[string]bool{"wiki_edit": false})

		assert.ErrorIs(t, err, domain.ErrValidation)
		prefRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

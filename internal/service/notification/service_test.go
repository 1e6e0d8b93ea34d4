package notification_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"issuehub/internal/domain"
	"issuehub/internal/mocks"
	"issuehub/internal/service/notification"
)

func TestNotificationService_List(t *testing.T) {
	ctx := context.Background()
	notifRepo := new(mocks.NotificationRepository)
	svc := notification.NewService(notifRepo, new(mocks.Dispatcher), nil)
	userID := uuid.New()

	notifRepo.On("ListByUser", ctx, userID, true, domain.PaginationParams{Page: 1, PageSize: 20}).
		Return([]domain.Notification{{ID: uuid.New(), UserID: userID}}, int64(21), nil).Once()

	resp, err := svc.List(ctx, userID, true, domain.PaginationParams{})

	assert.NoError(t, err)
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, 2, resp.TotalPages)
	assert.True(t, resp.HasNext)
	notifRepo.AssertExpectations(t)
}

func TestNotificationService_MarkAsRead(t *testing.T) {
	ctx := context.Background()
	notifRepo := new(mocks.NotificationRepository)
	svc := notification.NewService(notifRepo, new(mocks.Dispatcher), nil)
	id, owner, other := uuid.New(), uuid.New(), uuid.New()

	t.Run("Owner", func(t *testing.T) {
		notifRepo.On("MarkAsRead", ctx, id, owner).Return(nil).Once()
		assert.NoError(t, svc.MarkAsRead(ctx, id, owner))
	})

	t.Run("Someone else's notification", func(t *testing.T) {
		notifRepo.On("MarkAsRead", ctx, id, other).Return(domain.ErrNotFound).Once()
		assert.ErrorIs(t, svc.MarkAsRead(ctx, id, other), domain.ErrNotFound)
	})

	notifRepo.AssertExpectations(t)
}

func TestNotificationService_GetUnreadCount(t *testing.T) {
	ctx := context.Background()
	notifRepo := new(mocks.NotificationRepository)
	svc := notification.NewService(notifRepo, new(mocks.Dispatcher), nil)
	userID := uuid.New()

	notifRepo.On("CountUnread", ctx, userID).Return(int64(3), nil).Once()

	count, err := svc.GetUnreadCount(ctx, userID)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
	notifRepo.AssertExpectations(t)
}

func TestNotificationService_SendTest(t *testing.T) {
	ctx := context.Background()
	dispatcher := new(mocks.Dispatcher)
	svc := notification.NewService(new(mocks.NotificationRepository), dispatcher, nil)
	userID := uuid.New()
	event := domain.NotificationEvent{Type: domain.EventComment, Title: "Test notification"}

	dispatcher.On("FanOut", ctx, event, []uuid.UUID{userID}).
		Return(domain.DispatchSummary{Created: []domain.Notification{{UserID: userID}}}).Once()

	summary := svc.SendTest(ctx, userID, event)

	assert.Len(t, summary.Created, 1)
	dispatcher.AssertExpectations(t)
}

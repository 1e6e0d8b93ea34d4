package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"issuehub/internal/domain"
	"issuehub/internal/repository"
)

type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	// SendTest fans a synthetic event out to userID alone.
	SendTest(ctx context.Context, userID uuid.UUID, event domain.NotificationEvent) domain.DispatchSummary
}

type service struct {
	notifRepo  repository.NotificationRepository
	dispatcher Dispatcher
	unread     *unreadCache
}

func NewService(notifRepo repository.NotificationRepository, dispatcher Dispatcher, cache *redis.Client) Service {
	return &service{
		notifRepo:  notifRepo,
		dispatcher: dispatcher,
		unread:     newUnreadCache(cache),
	}
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	return s.notifRepo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	params.Validate()
	notifications, total, err := s.notifRepo.ListByUser(ctx, userID, unreadOnly, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}

	return domain.NewPaginatedResponse(notifications, params, total), nil
}

func (s *service) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.notifRepo.MarkAsRead(ctx, id, userID); err != nil {
		return err
	}
	s.unread.invalidate(ctx, userID)
	return nil
}

func (s *service) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	if err := s.notifRepo.MarkAllAsRead(ctx, userID); err != nil {
		return err
	}
	s.unread.invalidate(ctx, userID)
	return nil
}

func (s *service) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, gen, ok := s.unread.get(ctx, userID)
	if ok {
		return count, nil
	}

	count, err := s.notifRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.unread.set(ctx, userID, gen, count)
	return count, nil
}

func (s *service) SendTest(ctx context.Context, userID uuid.UUID, event domain.NotificationEvent) domain.DispatchSummary {
	return s.dispatcher.FanOut(ctx, event, []uuid.UUID{userID})
}

package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"issuehub/internal/domain"
)

type ItemRepository struct {
	mock.Mock
}

func (m *ItemRepository) ListDueOn(ctx context.Context, date string) ([]domain.TrackedItem, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrackedItem), args.Error(1)
}

func (m *ItemRepository) GetIssue(ctx context.Context, id uuid.UUID) (*domain.Issue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Issue), args.Error(1)
}

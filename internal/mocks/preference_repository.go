package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"issuehub/internal/domain"
)

type PreferenceRepository struct {
	mock.Mock
}

func (m *PreferenceRepository) Get(ctx context.Context, userID uuid.UUID) (*domain.NotificationPreferences, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NotificationPreferences), args.Error(1)
}

func (m *PreferenceRepository) Upsert(ctx context.Context, userID uuid.UUID, channel domain.PreferenceChannel, flags domain.CategoryFlags) error {
	args := m.Called(ctx, userID, channel, flags)
	return args.Error(0)
}

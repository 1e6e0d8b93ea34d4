package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"issuehub/internal/domain"
)

type VCSEventRepository struct {
	mock.Mock
}

func (m *VCSEventRepository) Create(ctx context.Context, event *domain.VCSEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *VCSEventRepository) ListRecent(ctx context.Context, limit int) ([]domain.VCSEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VCSEvent), args.Error(1)
}

package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"issuehub/internal/domain"
)

type Dispatcher struct {
	mock.Mock
}

func (m *Dispatcher) FanOut(ctx context.Context, event domain.NotificationEvent, recipientIDs []uuid.UUID) domain.DispatchSummary {
	args := m.Called(ctx, event, recipientIDs)
	return args.Get(0).(domain.DispatchSummary)
}

package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type PayloadArchive struct {
	mock.Mock
}

func (m *PayloadArchive) Put(ctx context.Context, id uuid.UUID, day string, body []byte) error {
	args := m.Called(ctx, id, day, body)
	return args.Error(0)
}

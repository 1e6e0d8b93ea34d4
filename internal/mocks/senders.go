package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"issuehub/internal/service/channel"
)

type ChatSender struct {
	mock.Mock
}

func (m *ChatSender) Send(ctx context.Context, req channel.ChatRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

type MailSender struct {
	mock.Mock
}

func (m *MailSender) Send(ctx context.Context, req channel.MailRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

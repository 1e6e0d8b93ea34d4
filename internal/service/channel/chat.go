package channel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

// WebhookChatSender posts one JSON message per batch to a chat platform's
// incoming webhook. The platform fans the message out to the listed handles.
type WebhookChatSender struct {
	webhookURL string
	baseURL    string
	timeout    time.Duration
}

func NewWebhookChatSender(webhookURL, baseURL string, timeout time.Duration) *WebhookChatSender {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookChatSender{
		webhookURL: webhookURL,
		baseURL:    baseURL,
		timeout:    timeout,
	}
}

func (s *WebhookChatSender) Send(ctx context.Context, req ChatRequest) error {
	if len(req.Recipients) == 0 {
		return errors.New("chat request has no recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	req.Link = absoluteLink(s.baseURL, req.Link)

	agent := fiber.Post(s.webhookURL)
	agent.Timeout(s.timeout)
	agent.JSON(req)

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("chat webhook: %w", errors.Join(errs...))
	}
	if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
		return fmt.Errorf("chat webhook returned %d: %s", status, truncate(body, 200))
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"issuehub/internal/domain"
	"issuehub/internal/pkg/metrics"
	"issuehub/internal/service/webhook"
)

type WebhookHandler struct {
	receiver webhook.Receiver
}

func NewWebhookHandler(receiver webhook.Receiver) *WebhookHandler {
	return &WebhookHandler{receiver: receiver}
}

func (h *WebhookHandler) Alive(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).SendString("webhook receiver is alive")
}

// Receive answers in plain text; the sender only looks at the status code.
func (h *WebhookHandler) Receive(c *fiber.Ctx) error {
	if err := h.receiver.Authorize(c.Query("token")); err != nil {
		metrics.RecordWebhook("unauthorized")
		return c.Status(fiber.StatusUnauthorized).SendString("unauthorized")
	}

	body := append([]byte(nil), c.Body()...)

	if _, err := h.receiver.Ingest(c.Context(), body); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			metrics.RecordWebhook("invalid")
			return c.Status(fiber.StatusBadRequest).SendString("invalid payload")
		}
		metrics.RecordWebhook("failed")
		return err
	}

	metrics.RecordWebhook("accepted")
	return c.Status(fiber.StatusOK).SendString("ok")
}

package handler

import (
	"github.com/gofiber/fiber/v2"

	"issuehub/internal/domain"
	"issuehub/internal/middleware"
	"issuehub/internal/service/issueevent"
)

type EventHandler struct {
	producer issueevent.Producer
}

func NewEventHandler(producer issueevent.Producer) *EventHandler {
	return &EventHandler{producer: producer}
}

// PublishIssue is called by the tracker after an issue changes; the caller
// is the actor and never receives its own notification.
func (h *EventHandler) PublishIssue(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var input domain.IssueAction
	if err := bind(c, &input); err != nil {
		return err
	}

	summary, err := h.producer.Publish(c.Context(), userID, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(summary)
}

package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"issuehub/internal/domain"
	"issuehub/internal/middleware"
	"issuehub/internal/service/notification"
)

type NotificationHandler struct {
	notifService notification.Service
}

func NewNotificationHandler(notifService notification.Service) *NotificationHandler {
	return &NotificationHandler{notifService: notifService}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	unreadOnly := c.Query("unread_only") == "true"

	result, err := h.notifService.List(c.Context(), userID, unreadOnly, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *NotificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	count, err := h.notifService.GetUnreadCount(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"count": count,
	})
}

func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	notifID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid notification ID")
	}

	if err := h.notifService.MarkAsRead(c.Context(), notifID, userID); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}

func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	if err := h.notifService.MarkAllAsRead(c.Context(), userID); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}

type sendTestInput struct {
	Type    domain.EventType `json:"type"`
	Title   string           `json:"title" validate:"max=200"`
	Message string           `json:"message" validate:"max=2000"`
	Link    string           `json:"link" validate:"max=500"`
}

// SendTest dispatches a synthetic event to the caller over every channel
// they can be reached on.
func (h *NotificationHandler) SendTest(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	input := sendTestInput{Type: domain.EventIssueCreated}
	if len(c.Body()) > 0 {
		if err := bind(c, &input); err != nil {
			return err
		}
	}
	if !input.Type.IsValid() {
		return middleware.BadRequest("Unknown notification type")
	}
	if input.Title == "" {
		input.Title = "Test notification"
	}
	if input.Message == "" {
		input.Message = "This is a test notification."
	}

	var actor string
	if user := middleware.GetCurrentUser(c); user != nil {
		actor = user.FullName
	}

	summary := h.notifService.SendTest(c.Context(), userID, domain.NotificationEvent{
		Type:     input.Type,
		Title:    input.Title,
		Message:  input.Message,
		Link:     input.Link,
		Priority: domain.PriorityNormal,
		Actor:    actor,
	})

	return c.Status(fiber.StatusOK).JSON(summary)
}

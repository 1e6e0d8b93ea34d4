package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"issuehub/internal/domain"
	"issuehub/internal/middleware"
	"issuehub/internal/service"
)

var validate = validator.New()

type Handlers struct {
	Notification *NotificationHandler
	Preference   *PreferenceHandler
	Event        *EventHandler
	Webhook      *WebhookHandler
	Admin        *AdminHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Notification: NewNotificationHandler(services.Notification),
		Preference:   NewPreferenceHandler(services.Preference),
		Event:        NewEventHandler(services.IssueEvent),
		Webhook:      NewWebhookHandler(services.Webhook),
		Admin:        NewAdminHandler(services.Admin, services.Webhook),
	}
}

// bind parses the JSON body into dst and runs its validate tags.
func bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		return middleware.BadRequest(err.Error())
	}
	return nil
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.PaginationParams{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 20),
	}
	params.Validate()
	return params
}

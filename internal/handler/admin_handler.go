package handler

import (
	"github.com/gofiber/fiber/v2"

	"issuehub/internal/domain"
	"issuehub/internal/service/admin"
	"issuehub/internal/service/webhook"
)

type AdminHandler struct {
	adminService admin.Service
	receiver     webhook.Receiver
}

func NewAdminHandler(adminService admin.Service, receiver webhook.Receiver) *AdminHandler {
	return &AdminHandler{adminService: adminService, receiver: receiver}
}

func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var input domain.CreateUserInput
	if err := bind(c, &input); err != nil {
		return err
	}

	user, err := h.adminService.CreateUser(c.Context(), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *AdminHandler) ListVCSEvents(c *fiber.Ctx) error {
	events, err := h.receiver.Recent(c.Context(), c.QueryInt("limit", 20))
	if err != nil {
		return err
	}
	if events == nil {
		events = []domain.VCSEvent{}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": events})
}

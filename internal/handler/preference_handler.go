package handler

import (
	"github.com/gofiber/fiber/v2"

	"issuehub/internal/domain"
	"issuehub/internal/middleware"
	"issuehub/internal/service/preference"
)

type PreferenceHandler struct {
	prefService preference.Service
}

func NewPreferenceHandler(prefService preference.Service) *PreferenceHandler {
	return &PreferenceHandler{prefService: prefService}
}

type preferenceResponse struct {
	Channel domain.PreferenceChannel `json:"channel"`
	Prefs   domain.CategoryFlags     `json:"prefs"`
}

func (h *PreferenceHandler) Get(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	channel := domain.PreferenceChannel(c.Params("channel"))
	flags, err := h.prefService.Get(c.Context(), userID, channel)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(preferenceResponse{Channel: channel, Prefs: flags})
}

func (h *PreferenceHandler) Update(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var input domain.UpdatePreferencesInput
	if err := bind(c, &input); err != nil {
		return err
	}

	channel := domain.PreferenceChannel(c.Params("channel"))
	flags, err := h.prefService.Update(c.Context(), userID, channel, input.Prefs)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(preferenceResponse{Channel: channel, Prefs: flags})
}

package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"issuehub/internal/domain"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	errorCode := "INTERNAL_ERROR"

	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		code = fe.Code
		message = fe.Message
	case errors.Is(err, domain.ErrValidation):
		code = fiber.StatusBadRequest
		message = err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		code = fiber.StatusUnauthorized
		message = "Unauthorized"
	case errors.Is(err, domain.ErrNotFound):
		code = fiber.StatusNotFound
		message = "Resource not found"
	case errors.Is(err, domain.ErrConflict):
		code = fiber.StatusConflict
		message = err.Error()
	}

	switch code {
	case fiber.StatusBadRequest:
		errorCode = "BAD_REQUEST"
	case fiber.StatusUnauthorized:
		errorCode = "UNAUTHORIZED"
	case fiber.StatusForbidden:
		errorCode = "FORBIDDEN"
	case fiber.StatusNotFound:
		errorCode = "NOT_FOUND"
	case fiber.StatusConflict:
		errorCode = "CONFLICT"
	case fiber.StatusUnprocessableEntity:
		errorCode = "VALIDATION_ERROR"
	}

	traceID := uuid.New().String()[:8]

	if code >= fiber.StatusInternalServerError {
		log.WithFields(log.Fields{
			"trace_id": traceID,
			"method":   c.Method(),
			"path":     c.Path(),
			"error":    err,
		}).Errorf("request failed: %+v", err)
	}

	return c.Status(code).JSON(ErrorResponse{
		Code:    errorCode,
		Message: message,
		TraceID: traceID,
	})
}

func BadRequest(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusBadRequest, message)
}

func Unauthorized(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusUnauthorized, message)
}

func Forbidden(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusForbidden, message)
}

func NotFound(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusNotFound, message)
}

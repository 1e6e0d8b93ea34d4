package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"issuehub/internal/domain"
	"issuehub/internal/middleware"
)

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
}

// asUser stands in for AuthRequired.
func asUser(user *domain.User) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(middleware.UserContextKey, user)
		c.Locals(middleware.UserIDContextKey, user.ID)
		return c.Next()
	}
}

func testUser(role domain.UserRole) *domain.User {
	return &domain.User{ID: uuid.New(), Email: "ana@example.com", FullName: "Ana", Role: string(role), IsActive: true}
}

func do(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func newRequest(method, target, authorization string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	return req
}

func decode(t *testing.T, raw []byte, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, dst))
}

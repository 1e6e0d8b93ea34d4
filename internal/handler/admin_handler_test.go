package handler_test

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"issuehub/internal/domain"
	"issuehub/internal/handler"
	"issuehub/internal/middleware"
	"issuehub/internal/mocks"
	"issuehub/internal/service/admin"
	"issuehub/internal/service/webhook"
)

func TestAdminHandler(t *testing.T) {
	newApp := func(caller *domain.User, users *mocks.PrivilegedUserRepository, events *mocks.VCSEventRepository) *fiber.App {
		app := newTestApp()
		h := handler.NewAdminHandler(admin.NewService(users), webhook.NewReceiver("s3cret", events, nil))
		group := app.Group("/api/v1/admin", asUser(caller))
		group.Post("/users", middleware.RequireRole(domain.RoleAdmin), h.CreateUser)
		group.Get("/vcs-events", middleware.RequireRole(domain.RoleManager), h.ListVCSEvents)
		return app
	}
	body := `{"email":"ben@example.com","password":"long-enough","full_name":"Ben"}`

	t.Run("Admin creates user", func(t *testing.T) {
		users := new(mocks.PrivilegedUserRepository)
		users.On("ExistsByEmail", mock.Anything, "ben@example.com").Return(false, nil).Once()
		users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil).Once()

		resp, raw := do(t, newApp(testUser(domain.RoleAdmin), users, nil), fiber.MethodPost, "/api/v1/admin/users", body)

		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
		assert.NotContains(t, string(raw), "password")
		users.AssertExpectations(t)
	})

	t.Run("Member is forbidden", func(t *testing.T) {
		users := new(mocks.PrivilegedUserRepository)

		resp, _ := do(t, newApp(testUser(domain.RoleMember), users, nil), fiber.MethodPost, "/api/v1/admin/users", body)

		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		users := new(mocks.PrivilegedUserRepository)
		users.On("ExistsByEmail", mock.Anything, "ben@example.com").Return(true, nil).Once()

		resp, _ := do(t, newApp(testUser(domain.RoleAdmin), users, nil), fiber.MethodPost, "/api/v1/admin/users", body)

		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	})

	t.Run("Invalid body", func(t *testing.T) {
		resp, _ := do(t, newApp(testUser(domain.RoleAdmin), new(mocks.PrivilegedUserRepository), nil), fiber.MethodPost, "/api/v1/admin/users", `{"email":"nope"}`)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Manager lists version control events", func(t *testing.T) {
		events := new(mocks.VCSEventRepository)
		events.On("ListRecent", mock.Anything, 5).Return([]domain.VCSEvent{
			{ID: uuid.New(), EventType: domain.VCSEventCheckin, ReceivedAt: time.Now()},
		}, nil).Once()

		resp, raw := do(t, newApp(testUser(domain.RoleManager), nil, events), fiber.MethodGet, "/api/v1/admin/vcs-events?limit=5", "")

		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		var out struct {
			Data []domain.VCSEvent `json:"data"`
		}
		decode(t, raw, &out)
		assert.Len(t, out.Data, 1)
	})
}

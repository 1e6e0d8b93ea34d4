package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"issuehub/internal/config"
	"issuehub/internal/domain"
	"issuehub/internal/handler"
	"issuehub/internal/middleware"
	applog "issuehub/internal/pkg/logger"
	"issuehub/internal/repository"
	"issuehub/internal/service"
	"issuehub/internal/service/auth"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	entry := applog.Init("issuehub-api", cfg.Environment, cfg.LogLevel)
	if envErr != nil {
		entry.Info("No .env file found, using environment variables")
	}

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		entry.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	adminDB, err := config.NewAdminPostgresDB(cfg)
	if err != nil {
		entry.Fatalf("Failed to connect to admin database: %v", err)
	}
	defer adminDB.Close()

	redis, err := config.NewRedisClient(cfg)
	if err != nil {
		entry.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	minioClient, err := config.NewMinIOClient(cfg)
	if err != nil {
		entry.Warnf("Failed to connect to MinIO: %v (webhook payloads will not be archived)", err)
		minioClient = nil
	}

	repos := repository.NewRepositories(db)
	services, err := service.NewServices(repos, repository.NewPrivilegedUserRepository(adminDB), redis, minioClient, cfg)
	if err != nil {
		entry.Fatalf("Failed to initialize services: %v", err)
	}
	handlers := handler.NewHandlers(services)

	entry.WithFields(log.Fields{
		"chat_enabled":     cfg.ChatWebhookURL != "",
		"mail_enabled":     cfg.ResendAPIKey != "",
		"archive_enabled":  minioClient != nil,
		"webhook_degraded": services.Webhook.Degraded(),
	}).Info("notification channels configured")

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health" || c.Path() == "/metrics"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers, services.Auth)

	entry.Infof("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		entry.Fatalf("Failed to start server: %v", err)
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, authService auth.Service) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := app.Group("/api/v1")

	v1.Get("/webhook", h.Webhook.Alive)
	v1.Post("/webhook", h.Webhook.Receive)

	protected := v1.Group("", middleware.AuthRequired(authService))

	preferences := protected.Group("/preferences")
	preferences.Get("/:channel", h.Preference.Get)
	preferences.Post("/:channel", h.Preference.Update)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.GetUnreadCount)
	notifications.Patch("/:id/read", h.Notification.MarkAsRead)
	notifications.Post("/mark-all-read", h.Notification.MarkAllAsRead)
	notifications.Post("/test", h.Notification.SendTest)

	events := protected.Group("/events")
	events.Post("/issues", h.Event.PublishIssue)

	admin := protected.Group("/admin")
	admin.Post("/users", middleware.RequireRole(domain.RoleAdmin), h.Admin.CreateUser)
	admin.Get("/vcs-events", middleware.RequireRole(domain.RoleManager), h.Admin.ListVCSEvents)
}

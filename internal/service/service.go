package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"

	"issuehub/internal/config"
	"issuehub/internal/repository"
	"issuehub/internal/service/admin"
	"issuehub/internal/service/auth"
	"issuehub/internal/service/channel"
	"issuehub/internal/service/deadline"
	"issuehub/internal/service/issueevent"
	"issuehub/internal/service/notification"
	"issuehub/internal/service/preference"
	"issuehub/internal/service/webhook"
)

type Services struct {
	Auth         auth.Service
	Admin        admin.Service
	Preference   preference.Service
	Dispatcher   notification.Dispatcher
	Notification notification.Service
	Deadline     deadline.Scanner
	IssueEvent   issueevent.Producer
	Webhook      webhook.Receiver
}

// NewServices wires every service. privileged is handed to the admin
// service and nowhere else; minioClient may be nil.
func NewServices(repos *repository.Repositories, privileged repository.PrivilegedUserRepository, redis *redis.Client, minioClient *minio.Client, cfg *config.Config) (*Services, error) {
	mail, err := NewMailSender(cfg)
	if err != nil {
		return nil, err
	}

	preferenceService := preference.NewService(repos.Preference)
	dispatcher := notification.NewDispatcher(
		repos.Notification,
		repos.User,
		preferenceService,
		NewChatSender(cfg),
		mail,
		redis,
	)

	var archive webhook.PayloadArchive
	if minioClient != nil {
		archive = webhook.NewMinIOArchive(minioClient, cfg.ArchiveBucket)
	}

	return &Services{
		Auth:         auth.NewService(repos.User, cfg),
		Admin:        admin.NewService(privileged),
		Preference:   preferenceService,
		Dispatcher:   dispatcher,
		Notification: notification.NewService(repos.Notification, dispatcher, redis),
		Deadline:     deadline.NewScanner(repos.Item, dispatcher),
		IssueEvent:   issueevent.NewProducer(repos.Item, repos.User, dispatcher),
		Webhook:      webhook.NewReceiver(cfg.WebhookSecret, repos.VCSEvent, archive),
	}, nil
}

// NewChatSender returns nil when no chat webhook is configured.
func NewChatSender(cfg *config.Config) channel.ChatSender {
	if cfg.ChatWebhookURL == "" {
		return nil
	}
	return channel.NewWebhookChatSender(cfg.ChatWebhookURL, cfg.PublicBaseURL, cfg.ChatTimeout)
}

// NewMailSender returns nil when no mail provider key is configured.
func NewMailSender(cfg *config.Config) (channel.MailSender, error) {
	if cfg.ResendAPIKey == "" {
		return nil, nil
	}
	sender, err := channel.NewResendMailSender(cfg.ResendAPIKey, cfg.FromEmail, cfg.PublicBaseURL)
	if err != nil {
		return nil, err
	}
	return sender, nil
}

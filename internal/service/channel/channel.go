// Package channel holds the outbound delivery adapters used by the
// notification dispatcher. Senders are stateless and report failure through
// their returned error only.
package channel

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/mcnijman/go-emailaddress"

	"issuehub/internal/domain"
)

type ChatRecipient struct {
	Handle      string `json:"handle"`
	DisplayName string `json:"display_name"`
}

type ChatRequest struct {
	NotificationID uuid.UUID        `json:"notification_id"`
	Type           domain.EventType `json:"type"`
	Title          string           `json:"title"`
	Message        string           `json:"message"`
	Link           string           `json:"link"`
	Priority       domain.Priority  `json:"priority"`
	Recipients     []ChatRecipient  `json:"recipients"`
}

type ChatSender interface {
	Send(ctx context.Context, req ChatRequest) error
}

type MailRecipient struct {
	ID    uuid.UUID
	Email string
	Name  string
}

type MailRequest struct {
	Type       domain.EventType
	Subject    string
	Actor      string
	Message    string
	Link       string
	Recipients []MailRecipient
}

type MailSender interface {
	Send(ctx context.Context, req MailRequest) error
}

// ValidEmail reports whether addr is syntactically deliverable.
func ValidEmail(addr string) bool {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return false
	}
	_, err := emailaddress.Parse(addr)
	return err == nil
}

func absoluteLink(baseURL, link string) string {
	if link == "" || strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return link
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(link, "/")
}

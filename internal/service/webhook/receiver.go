// Package webhook ingests version control events into the audit log. It
// never notifies anyone.
package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"issuehub/internal/domain"
	"issuehub/internal/repository"
)

type Receiver interface {
	// Authorize checks the shared secret. With no secret configured every
	// token passes and a warning is logged.
	Authorize(token string) error
	Ingest(ctx context.Context, body []byte) (*domain.VCSEvent, error)
	Recent(ctx context.Context, limit int) ([]domain.VCSEvent, error)
	Degraded() bool
}

type receiver struct {
	secret  string
	repo    repository.VCSEventRepository
	archive PayloadArchive
}

// NewReceiver accepts a nil archive.
func NewReceiver(secret string, repo repository.VCSEventRepository, archive PayloadArchive) Receiver {
	r := &receiver{secret: secret, repo: repo, archive: archive}
	if r.Degraded() {
		log.Warn("WEBHOOK_SECRET is not set: the webhook endpoint accepts unauthenticated requests")
	}
	return r
}

func (r *receiver) Degraded() bool {
	return r.secret == ""
}

func (r *receiver) Authorize(token string) error {
	if r.Degraded() {
		log.Warn("webhook request accepted without token check (WEBHOOK_SECRET unset)")
		return nil
	}
	if token != r.secret {
		return fmt.Errorf("%w: webhook token mismatch", domain.ErrUnauthorized)
	}
	return nil
}

func (r *receiver) Ingest(ctx context.Context, body []byte) (*domain.VCSEvent, error) {
	payload, err := parsePayload(body)
	if err != nil {
		return nil, err
	}

	event := Normalize(payload)
	event.RawPayload = json.RawMessage(body)

	if err := r.repo.Create(ctx, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDependency, err)
	}

	entry := log.WithFields(log.Fields{
		"vcs_event_id": event.ID,
		"event_type":   event.EventType,
		"repo":         event.RepoName,
		"branch":       event.BranchName,
	})

	if r.archive != nil {
		received := event.ReceivedAt
		if received.IsZero() {
			received = time.Now()
		}
		day := received.UTC().Format(domain.DeadlineLayout)
		if err := r.archive.Put(ctx, event.ID, day, body); err != nil {
			entry.WithField("error", err).Error("webhook payload archive failed")
		}
	}

	entry.Info("version control event recorded")
	return &event, nil
}

func (r *receiver) Recent(ctx context.Context, limit int) ([]domain.VCSEvent, error) {
	return r.repo.ListRecent(ctx, limit)
}

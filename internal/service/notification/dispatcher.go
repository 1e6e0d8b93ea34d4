package notification

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"issuehub/internal/domain"
	"issuehub/internal/pkg/metrics"
	"issuehub/internal/repository"
	"issuehub/internal/service/channel"
	"issuehub/internal/service/preference"
)

// Dispatcher delivers one event to a set of users over every channel.
type Dispatcher interface {
	// FanOut never fails as a whole. Per-channel outcomes are reported in
	// the summary and logged; nothing is retried.
	FanOut(ctx context.Context, event domain.NotificationEvent, recipientIDs []uuid.UUID) domain.DispatchSummary
}

type dispatcher struct {
	notifRepo repository.NotificationRepository
	userRepo  repository.UserRepository
	prefs     preference.Service
	chat      channel.ChatSender
	mail      channel.MailSender
	unread    *unreadCache
}

// NewDispatcher wires the channels. chat and mail may be nil when the
// corresponding provider is not configured; those steps are then skipped.
// cache may be nil.
func NewDispatcher(
	notifRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	prefs preference.Service,
	chat channel.ChatSender,
	mail channel.MailSender,
	cache *redis.Client,
) Dispatcher {
	return &dispatcher{
		notifRepo: notifRepo,
		userRepo:  userRepo,
		prefs:     prefs,
		chat:      chat,
		mail:      mail,
		unread:    newUnreadCache(cache),
	}
}

func (d *dispatcher) FanOut(ctx context.Context, event domain.NotificationEvent, recipientIDs []uuid.UUID) domain.DispatchSummary {
	summary := domain.DispatchSummary{Created: []domain.Notification{}}

	ids := uniqueIDs(recipientIDs)
	if len(ids) == 0 {
		return summary
	}
	if event.Priority == "" {
		event.Priority = domain.PriorityNormal
	}

	entry := log.WithFields(log.Fields{
		"event_type": event.Type,
		"title":      event.Title,
	})
	if event.SubjectRef != nil {
		entry = entry.WithField("subject_ref", *event.SubjectRef)
	}
	metrics.RecordDispatch(event.Type)

	recipients := d.resolve(ctx, entry, ids)
	if len(recipients) == 0 {
		return summary
	}

	summary.Created = d.deliverInApp(ctx, entry, event, recipients)

	chatBatch, mailBatch := d.eligible(ctx, event.Type, recipients)

	var (
		wg             sync.WaitGroup
		chatOK, mailOK bool
	)

	// Chat messages reference a created record, so they need at least one.
	if len(chatBatch) > 0 && len(summary.Created) > 0 {
		summary.ChatAttempted = true
		req := channel.ChatRequest{
			NotificationID: summary.Created[0].ID,
			Type:           event.Type,
			Title:          event.Title,
			Message:        event.Message,
			Link:           event.Link,
			Priority:       event.Priority,
		}
		batchIDs := make([]uuid.UUID, len(chatBatch))
		for i, r := range chatBatch {
			req.Recipients = append(req.Recipients, channel.ChatRecipient{Handle: r.ChatHandle, DisplayName: r.DisplayName})
			batchIDs[i] = r.UserID
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			chatOK = d.attempt(entry, domain.ChannelChat, batchIDs, func() error {
				return d.chat.Send(ctx, req)
			})
		}()
	}

	if len(mailBatch) > 0 {
		summary.MailAttempted = true
		req := channel.MailRequest{
			Type:    event.Type,
			Subject: event.Subject(),
			Actor:   event.Actor,
			Message: event.Message,
			Link:    event.Link,
		}
		batchIDs := make([]uuid.UUID, len(mailBatch))
		for i, r := range mailBatch {
			req.Recipients = append(req.Recipients, channel.MailRecipient{ID: r.UserID, Email: r.Email, Name: r.DisplayName})
			batchIDs[i] = r.UserID
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			mailOK = d.attempt(entry, domain.ChannelMail, batchIDs, func() error {
				return d.mail.Send(ctx, req)
			})
		}()
	}

	wg.Wait()
	summary.ChatSucceeded = chatOK
	summary.MailSucceeded = mailOK

	entry.WithFields(log.Fields{
		"recipients":     len(recipients),
		"created":        len(summary.Created),
		"chat_attempted": summary.ChatAttempted,
		"chat_succeeded": summary.ChatSucceeded,
		"mail_attempted": summary.MailAttempted,
		"mail_succeeded": summary.MailSucceeded,
	}).Info("notification dispatched")

	return summary
}

// resolve fetches contact details fresh for every dispatch. Unknown users
// are skipped.
func (d *dispatcher) resolve(ctx context.Context, entry *log.Entry, ids []uuid.UUID) []domain.Recipient {
	users, err := d.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		entry.WithFields(log.Fields{
			"recipient_ids": ids,
			"error":         err,
		}).Error("unable to resolve recipients, nothing delivered")
		return nil
	}

	byID := make(map[uuid.UUID]domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	recipients := make([]domain.Recipient, 0, len(ids))
	for _, id := range ids {
		u, ok := byID[id]
		if !ok {
			entry.WithField("user_id", id).Warn("recipient has no profile, skipping")
			continue
		}
		recipients = append(recipients, u.Recipient())
	}
	return recipients
}

// deliverInApp creates one record per recipient. A failed insert only
// affects that recipient.
func (d *dispatcher) deliverInApp(ctx context.Context, entry *log.Entry, event domain.NotificationEvent, recipients []domain.Recipient) []domain.Notification {
	created := make([]domain.Notification, 0, len(recipients))
	for _, r := range recipients {
		notif := domain.Notification{
			ID:       uuid.New(),
			UserID:   r.UserID,
			Type:     event.Type,
			Title:    event.Title,
			Message:  event.Message,
			Link:     event.Link,
			Priority: event.Priority,
		}

		ok := d.attempt(entry, domain.ChannelInApp, []uuid.UUID{r.UserID}, func() error {
			return d.notifRepo.Create(ctx, &notif)
		})
		if !ok {
			continue
		}

		d.unread.invalidate(ctx, r.UserID)
		created = append(created, notif)
	}
	return created
}

// eligible splits recipients into chat and mail batches. Preferences are
// read once per recipient, and only for recipients reachable on a
// configured channel. Types without a mail template never go to mail.
func (d *dispatcher) eligible(ctx context.Context, eventType domain.EventType, recipients []domain.Recipient) (chat, mail []domain.Recipient) {
	mailable := d.mail != nil && channel.HasMailTemplate(eventType)
	for _, r := range recipients {
		wantsChat := d.chat != nil && r.ChatHandle != ""
		wantsMail := mailable && channel.ValidEmail(r.Email)
		if !wantsChat && !wantsMail {
			continue
		}

		snapshot := d.prefs.Snapshot(ctx, r.UserID)
		if wantsChat && snapshot.Allows(eventType, domain.ChannelChat) {
			chat = append(chat, r)
		}
		if wantsMail && snapshot.Allows(eventType, domain.ChannelMail) {
			mail = append(mail, r)
		}
	}
	return chat, mail
}

// attempt runs one channel step, converting a panic into a failure, and
// records the outcome.
func (d *dispatcher) attempt(entry *log.Entry, ch domain.Channel, recipientIDs []uuid.UUID, fn func() error) bool {
	err := safeCall(fn)
	a := domain.DeliveryAttempt{
		Channel:      ch,
		RecipientIDs: recipientIDs,
		Succeeded:    err == nil,
		Err:          err,
	}
	metrics.RecordAttempt(a)

	if err != nil {
		entry.WithFields(log.Fields{
			"channel":       a.Channel,
			"recipient_ids": a.RecipientIDs,
			"error":         err,
		}).Error("notification delivery failed")
	}
	return a.Succeeded
}

func safeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Package deadline produces reminders for issues and tasks due the next day.
package deadline

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"issuehub/internal/domain"
	"issuehub/internal/repository"
	"issuehub/internal/service/notification"
)

type Scanner interface {
	// ScanDueTomorrow dispatches one notification per item due tomorrow.
	// Running it twice on the same day sends everything twice; see RunGuard.
	ScanDueTomorrow(ctx context.Context) error
}

type scanner struct {
	itemRepo   repository.ItemRepository
	dispatcher notification.Dispatcher
	now        func() time.Time
}

func NewScanner(itemRepo repository.ItemRepository, dispatcher notification.Dispatcher) Scanner {
	return newScanner(itemRepo, dispatcher, time.Now)
}

func newScanner(itemRepo repository.ItemRepository, dispatcher notification.Dispatcher, now func() time.Time) *scanner {
	return &scanner{itemRepo: itemRepo, dispatcher: dispatcher, now: now}
}

// Tomorrow is the local calendar date following now, in deadline format.
func Tomorrow(now time.Time) string {
	return now.AddDate(0, 0, 1).Format(domain.DeadlineLayout)
}

func (s *scanner) ScanDueTomorrow(ctx context.Context) error {
	date := Tomorrow(s.now())
	entry := log.WithField("deadline", date)

	items, err := s.itemRepo.ListDueOn(ctx, date)
	if err != nil {
		return err
	}

	dispatched := 0
	for _, item := range items {
		if item.Deadline != date {
			continue
		}
		if len(item.AssigneeIDs) == 0 {
			entry.WithField("item_id", item.ID).Debug("no assignees, skipping")
			continue
		}

		s.dispatcher.FanOut(ctx, eventFor(item), item.AssigneeIDs)
		dispatched++
	}

	entry.WithFields(log.Fields{
		"due":        len(items),
		"dispatched": dispatched,
	}).Info("deadline scan finished")
	return nil
}

func eventFor(item domain.TrackedItem) domain.NotificationEvent {
	eventType := domain.EventDeadline
	if item.Kind == domain.ItemTask {
		eventType = domain.EventReminder
	}

	id := item.ID
	return domain.NotificationEvent{
		Type:         eventType,
		Title:        fmt.Sprintf("Due tomorrow: %s", item.Title),
		Message:      fmt.Sprintf("The %s %q is due on %s.", item.Kind, item.Title, item.Deadline),
		Link:         item.Link(),
		Priority:     domain.PriorityFromDomain(item.Priority),
		SubjectRef:   &id,
		SubjectTitle: item.Title,
	}
}

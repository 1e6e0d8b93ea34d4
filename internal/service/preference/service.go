package preference

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"issuehub/internal/domain"
	"issuehub/internal/repository"
)

type Service interface {
	// IsEnabled never fails: a missing row, a lookup error or an unknown
	// category all resolve to enabled.
	IsEnabled(ctx context.Context, userID uuid.UUID, category domain.Category, channel domain.Channel) bool
	// Snapshot loads a user's preferences once so a dispatch can check
	// several channels without repeated lookups.
	Snapshot(ctx context.Context, userID uuid.UUID) Snapshot
	Get(ctx context.Context, userID uuid.UUID, channel domain.PreferenceChannel) (domain.CategoryFlags, error)
	Update(ctx context.Context, userID uuid.UUID, channel domain.PreferenceChannel, prefs map[string]bool) (domain.CategoryFlags, error)
}

type service struct {
	prefRepo repository.PreferenceRepository
}

func NewService(prefRepo repository.PreferenceRepository) Service {
	return &service{prefRepo: prefRepo}
}

// Snapshot is the preference state of one user at dispatch time.
type Snapshot struct {
	prefs *domain.NotificationPreferences
}

func (s Snapshot) Allows(eventType domain.EventType, channel domain.Channel) bool {
	category, ok := eventType.Category()
	if !ok {
		return true
	}
	return allows(s.prefs, category, channel)
}

func allows(prefs *domain.NotificationPreferences, category domain.Category, channel domain.Channel) bool {
	if prefs == nil || !category.IsValid() {
		return true
	}
	switch channel {
	case domain.ChannelMail:
		return prefs.Mail.Enabled(category)
	case domain.ChannelChat:
		return prefs.Chat.Enabled(category)
	default:
		return true
	}
}

func (s *service) IsEnabled(ctx context.Context, userID uuid.UUID, category domain.Category, channel domain.Channel) bool {
	if channel == domain.ChannelInApp {
		return true
	}
	return allows(s.load(ctx, userID), category, channel)
}

func (s *service) Snapshot(ctx context.Context, userID uuid.UUID) Snapshot {
	return Snapshot{prefs: s.load(ctx, userID)}
}

func (s *service) load(ctx context.Context, userID uuid.UUID) *domain.NotificationPreferences {
	prefs, err := s.prefRepo.Get(ctx, userID)
	if err != nil {
		log.WithFields(log.Fields{
			"user_id": userID,
			"error":   err,
		}).Warn("preference lookup failed, falling back to defaults")
		return nil
	}
	return prefs
}

func (s *service) Get(ctx context.Context, userID uuid.UUID, channel domain.PreferenceChannel) (domain.CategoryFlags, error) {
	if !channel.IsValid() {
		return nil, fmt.Errorf("%w: unknown preference channel %q", domain.ErrValidation, channel)
	}

	prefs, err := s.prefRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return prefs.Flags(channel).WithDefaults(), nil
}

func (s *service) Update(ctx context.Context, userID uuid.UUID, channel domain.PreferenceChannel, prefs map[string]bool) (domain.CategoryFlags, error) {
	if !channel.IsValid() {
		return nil, fmt.Errorf("%w: unknown preference channel %q", domain.ErrValidation, channel)
	}

	flags := make(domain.CategoryFlags, len(prefs))
	for key, enabled := range prefs {
		category := domain.Category(key)
		if !category.IsValid() {
			return nil, fmt.Errorf("%w: unknown category %q", domain.ErrValidation, key)
		}
		flags[category] = enabled
	}

	if err := s.prefRepo.Upsert(ctx, userID, channel, flags); err != nil {
		return nil, err
	}
	return flags.WithDefaults(), nil
}

package webhook_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"issuehub/internal/domain"
	"issuehub/internal/mocks"
	"issuehub/internal/service/webhook"
)

func TestReceiver_Authorize(t *testing.T) {
	t.Run("Configured secret", func(t *testing.T) {
		r := webhook.NewReceiver("s3cret", new(mocks.VCSEventRepository), nil)

		assert.False(t, r.Degraded())
		assert.NoError(t, r.Authorize("s3cret"))
		assert.ErrorIs(t, r.Authorize("wrong"), domain.ErrUnauthorized)
		assert.ErrorIs(t, r.Authorize(""), domain.ErrUnauthorized)
	})

	t.Run("Degraded mode accepts anything", func(t *testing.T) {
		r := webhook.NewReceiver("", new(mocks.VCSEventRepository), nil)

		assert.True(t, r.Degraded())
		assert.NoError(t, r.Authorize(""))
		assert.NoError(t, r.Authorize("whatever"))
	})
}

func TestReceiver_Ingest(t *testing.T) {
	ctx := context.Background()
	body := []byte(`{"PLASTIC_MERGE_SOURCE":"/main/feature","PLASTIC_CHANGESET":"cs:77"}`)

	t.Run("Persists and archives", func(t *testing.T) {
		repo := new(mocks.VCSEventRepository)
		archive := new(mocks.PayloadArchive)
		r := webhook.NewReceiver("s3cret", repo, archive)

		repo.On("Create", ctx, mock.MatchedBy(func(e *domain.VCSEvent) bool {
			return e.EventType == domain.VCSEventMerge && string(e.RawPayload) == string(body)
		})).Run(func(args mock.Arguments) {
			e := args.Get(1).(*domain.VCSEvent)
			e.ReceivedAt = time.Date(2026, time.April, 1, 12, 0, 0, 0, time.UTC)
		}).Return(nil).Once()
		archive.On("Put", ctx, mock.Anything, "2026-04-01", body).Return(nil).Once()

		event, err := r.Ingest(ctx, body)

		require.NoError(t, err)
		require.NotNil(t, event.ChangesetNumber)
		assert.Equal(t, "77", *event.ChangesetNumber)
		repo.AssertExpectations(t)
		archive.AssertExpectations(t)
	})

	t.Run("Archive failure is not fatal", func(t *testing.T) {
		repo := new(mocks.VCSEventRepository)
		archive := new(mocks.PayloadArchive)
		r := webhook.NewReceiver("s3cret", repo, archive)

		repo.On("Create", ctx, mock.AnythingOfType("*domain.VCSEvent")).Return(nil).Once()
		archive.On("Put", ctx, mock.Anything, mock.Anything, body).Return(errors.New("bucket gone")).Once()

		_, err := r.Ingest(ctx, body)

		assert.NoError(t, err)
	})

	t.Run("Malformed body", func(t *testing.T) {
		repo := new(mocks.VCSEventRepository)
		r := webhook.NewReceiver("s3cret", repo, nil)

		for _, b := range []string{"not json", "[1,2]", "null", ""} {
			_, err := r.Ingest(ctx, []byte(b))
			assert.ErrorIs(t, err, domain.ErrValidation, b)
		}
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Persistence failure", func(t *testing.T) {
		repo := new(mocks.VCSEventRepository)
		r := webhook.NewReceiver("s3cret", repo, nil)

		repo.On("Create", ctx, mock.AnythingOfType("*domain.VCSEvent")).Return(errors.New("db down")).Once()

		_, err := r.Ingest(ctx, body)

		assert.ErrorIs(t, err, domain.ErrDependency)
	})
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"issuehub/internal/domain"
)

type VCSEventRepository interface {
	Create(ctx context.Context, event *domain.VCSEvent) error
	ListRecent(ctx context.Context, limit int) ([]domain.VCSEvent, error)
}

type vcsEventRepository struct {
	db *sqlx.DB
}

func NewVCSEventRepository(db *sqlx.DB) VCSEventRepository {
	return &vcsEventRepository{db: db}
}

// Create stores the audit record, scanning the server-side receive time into event.
func (r *vcsEventRepository) Create(ctx context.Context, event *domain.VCSEvent) error {
	wrapMsg := "unable to save version control event"

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}

	statement, args, err := psql.
		Insert("vcs_events").
		Columns(
			"id",
			"event_type",
			"repo_name",
			"branch_name",
			"author",
			"comment",
			"changeset_number",
			"merge_source",
			"merge_destination",
			"has_conflicts",
			"raw_payload").
		Values(
			event.ID.String(),
			event.EventType,
			event.RepoName,
			event.BranchName,
			event.Author,
			event.Comment,
			event.ChangesetNumber,
			event.MergeSource,
			event.MergeDestination,
			event.HasConflicts,
			[]byte(event.RawPayload)).
		Suffix("RETURNING received_at").
		ToSql()
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	if err := r.db.QueryRowxContext(ctx, statement, args...).Scan(&event.ReceivedAt); err != nil {
		return errors.Wrap(err, wrapMsg)
	}
	return nil
}

func (r *vcsEventRepository) ListRecent(ctx context.Context, limit int) ([]domain.VCSEvent, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}

	statement, args, err := psql.
		Select("*").
		From("vcs_events").
		OrderBy("received_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "unable to list version control events")
	}

	var events []domain.VCSEvent
	if err := r.db.SelectContext(ctx, &events, statement, args...); err != nil {
		return nil, errors.Wrap(err, "unable to list version control events")
	}
	return events, nil
}

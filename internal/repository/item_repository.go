package repository

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"issuehub/internal/domain"
)

// ItemRepository reads issues and tasks on behalf of the notification producers.
type ItemRepository interface {
	// ListDueOn returns every issue and task whose deadline, rendered as
	// YYYY-MM-DD, equals date, with assignees attached.
	ListDueOn(ctx context.Context, date string) ([]domain.TrackedItem, error)
	GetIssue(ctx context.Context, id uuid.UUID) (*domain.Issue, error)
}

type itemRepository struct {
	db *sqlx.DB
}

func NewItemRepository(db *sqlx.DB) ItemRepository {
	return &itemRepository{db: db}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type itemTables struct {
	kind      domain.ItemKind
	table     string
	assignees string
	fk        string
}

var trackedTables = []itemTables{
	{kind: domain.ItemIssue, table: "issues", assignees: "issue_assignees", fk: "issue_id"},
	{kind: domain.ItemTask, table: "tasks", assignees: "task_assignees", fk: "task_id"},
}

func (r *itemRepository) ListDueOn(ctx context.Context, date string) ([]domain.TrackedItem, error) {
	wrapMsg := fmt.Sprintf("unable to list items due on %s", date)

	var items []domain.TrackedItem
	for _, t := range trackedTables {
		statement, args, err := psql.
			Select("id", fmt.Sprintf("'%s' AS kind", t.kind), "title", "priority", "to_char(deadline, 'YYYY-MM-DD') AS deadline").
			From(t.table).
			Where(sq.Expr("deadline = ?::date", date)).
			OrderBy("id").
			ToSql()
		if err != nil {
			return nil, errors.Wrap(err, wrapMsg)
		}

		var due []domain.TrackedItem
		if err := r.db.SelectContext(ctx, &due, statement, args...); err != nil {
			return nil, errors.Wrap(err, wrapMsg)
		}
		if len(due) == 0 {
			continue
		}

		ids := make([]uuid.UUID, len(due))
		for i, item := range due {
			ids[i] = item.ID
		}
		assignees, err := r.memberships(ctx, t.assignees, t.fk, ids)
		if err != nil {
			return nil, errors.Wrap(err, wrapMsg)
		}
		for i := range due {
			due[i].AssigneeIDs = assignees[due[i].ID]
		}

		items = append(items, due...)
	}

	return items, nil
}

func (r *itemRepository) GetIssue(ctx context.Context, id uuid.UUID) (*domain.Issue, error) {
	wrapMsg := fmt.Sprintf("unable to get issue %s", id)

	statement, args, err := psql.
		Select("id", "title", "priority", "created_by").
		From("issues").
		Where(sq.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	var issue domain.Issue
	err = r.db.GetContext(ctx, &issue, statement, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	assignees, err := r.memberships(ctx, "issue_assignees", "issue_id", []uuid.UUID{id})
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	collaborators, err := r.memberships(ctx, "issue_collaborators", "issue_id", []uuid.UUID{id})
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	issue.AssigneeIDs = assignees[id]
	issue.CollaboratorIDs = collaborators[id]
	return &issue, nil
}

type membership struct {
	ParentID uuid.UUID `db:"parent_id"`
	UserID   uuid.UUID `db:"user_id"`
}

// memberships loads user ids from a join table, grouped by parent id.
func (r *itemRepository) memberships(ctx context.Context, table, fk string, parents []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	statement, args, err := psql.
		Select(fk+" AS parent_id", "user_id").
		From(table).
		Where(sq.Eq{fk: uuidStrings(parents)}).
		OrderBy(fk, "user_id").
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []membership
	if err := r.db.SelectContext(ctx, &rows, statement, args...); err != nil {
		return nil, err
	}

	grouped := make(map[uuid.UUID][]uuid.UUID, len(parents))
	for _, row := range rows {
		grouped[row.ParentID] = append(grouped[row.ParentID], row.UserID)
	}
	return grouped, nil
}

// uuidStrings keeps squirrel from expanding uuid.UUID, a byte array, into a list.
func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

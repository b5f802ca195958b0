package actions

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/capraCoder/mamadoc/pkg/pagination"
	"github.com/capraCoder/mamadoc/pkg/query"
	"github.com/capraCoder/mamadoc/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an action item repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "actions"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Action], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Description", "Notes")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count action items: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanAction)
	if err != nil {
		return nil, fmt.Errorf("query action items: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Action, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	action, err := repository.QueryOne(ctx, r.db, q, args, scanAction)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &action, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Action, error) {
	if strings.TrimSpace(cmd.Description) == "" {
		return nil, ErrEmptyDescription
	}

	if cmd.DocumentID != nil {
		var exists bool
		err := r.db.QueryRowContext(
			ctx,
			"SELECT EXISTS (SELECT 1 FROM documents WHERE id = $1)",
			*cmd.DocumentID,
		).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("check document: %w", err)
		}
		if !exists {
			return nil, ErrDocumentNotFound
		}
	}

	id := uuid.New()
	q := `
		INSERT INTO action_items (id, document_id, description, deadline, done, source, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, q,
		id, cmd.DocumentID, strings.TrimSpace(cmd.Description),
		cmd.Deadline, false, SourceManual, cmd.Notes, time.Now().UTC(),
	)
	if err != nil {
		return nil, repository.MapError(fmt.Errorf("insert action item: %w", err), ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("action item created", "id", id, "document_id", cmd.DocumentID)
	return r.Find(ctx, id)
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Action, error) {
	current, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	description := current.Description
	if cmd.Description != nil {
		if strings.TrimSpace(*cmd.Description) == "" {
			return nil, ErrEmptyDescription
		}
		description = strings.TrimSpace(*cmd.Description)
	}

	deadline := current.Deadline
	if cmd.Deadline != nil {
		deadline = cmd.Deadline
	}

	notes := current.Notes
	if cmd.Notes != nil {
		notes = *cmd.Notes
	}

	err = repository.ExecExpectOne(
		ctx, r.db,
		"UPDATE action_items SET description = $1, deadline = $2, notes = $3 WHERE id = $4",
		description, deadline, notes, id,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return r.Find(ctx, id)
}

func (r *repo) SetDone(ctx context.Context, id uuid.UUID, done bool) (*Action, error) {
	var doneAt *time.Time
	if done {
		now := time.Now().UTC()
		doneAt = &now
	}

	err := repository.ExecExpectOne(
		ctx, r.db,
		"UPDATE action_items SET done = $1, done_at = $2 WHERE id = $3",
		done, doneAt, id,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("action item toggled", "id", id, "done", done)
	return r.Find(ctx, id)
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	err := repository.ExecExpectOne(
		ctx, r.db,
		"DELETE FROM action_items WHERE id = $1",
		id,
	)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("action item deleted", "id", id)
	return nil
}

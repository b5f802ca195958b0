package tasks

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

// New creates a task repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "tasks"),
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
) (*pagination.PageResult[Task], error) {
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
		return nil, fmt.Errorf("count tasks: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanTask)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Task, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	task, err := repository.QueryOne(ctx, r.db, q, args, scanTask)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &task, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Task, error) {
	if strings.TrimSpace(cmd.Description) == "" {
		return nil, ErrEmptyDescription
	}

	id := uuid.New()
	q := `
		INSERT INTO tasks (id, description, deadline, done, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, q,
		id, strings.TrimSpace(cmd.Description), cmd.Deadline,
		false, cmd.Notes, time.Now().UTC(),
	)
	if err != nil {
		return nil, repository.MapError(fmt.Errorf("insert task: %w", err), ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("task created", "id", id)
	return r.Find(ctx, id)
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Task, error) {
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
		"UPDATE tasks SET description = $1, deadline = $2, notes = $3 WHERE id = $4",
		description, deadline, notes, id,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return r.Find(ctx, id)
}

func (r *repo) SetDone(ctx context.Context, id uuid.UUID, done bool) (*Task, error) {
	var doneAt *time.Time
	if done {
		now := time.Now().UTC()
		doneAt = &now
	}

	err := repository.ExecExpectOne(
		ctx, r.db,
		"UPDATE tasks SET done = $1, done_at = $2 WHERE id = $3",
		done, doneAt, id,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("task toggled", "id", id, "done", done)
	return r.Find(ctx, id)
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	err := repository.ExecExpectOne(
		ctx, r.db,
		"DELETE FROM tasks WHERE id = $1",
		id,
	)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("task deleted", "id", id)
	return nil
}

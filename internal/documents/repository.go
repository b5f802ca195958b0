package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/capraCoder/mamadoc/internal/extraction"
	"github.com/capraCoder/mamadoc/pkg/pagination"
	"github.com/capraCoder/mamadoc/pkg/query"
	"github.com/capraCoder/mamadoc/pkg/repository"
	"github.com/capraCoder/mamadoc/pkg/storage"
)

type repo struct {
	db         *sql.DB
	store      storage.System
	reconciler IssueReconciler
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a document repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	reconciler IssueReconciler,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		store:      store,
		reconciler: reconciler,
		logger:     logger.With("system", "documents"),
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
) (*pagination.PageResult[Document], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Filename", "Sender", "Subject", "Summary")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Detail, error) {
	doc, err := r.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	q := `
		SELECT id, description, deadline, done, source
		FROM action_items
		WHERE document_id = $1
		ORDER BY created_at ASC`

	actions, err := repository.QueryMany(ctx, r.db, q, []any{id}, scanActionView)
	if err != nil {
		return nil, fmt.Errorf("query document actions: %w", err)
	}

	return &Detail{Document: *doc, ActionItems: actions}, nil
}

func (r *repo) FindByFilename(ctx context.Context, filename string) (*Document, error) {
	q, args := query.NewBuilder(projection).BuildSingle("Filename", filename)

	doc, err := repository.QueryOne(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &doc, nil
}

func (r *repo) Upsert(ctx context.Context, cmd UpsertCommand) (*Document, bool, error) {
	if cmd.Record == nil {
		return nil, false, ErrNilRecord
	}

	rec := cmd.Record
	now := time.Now().UTC()

	type upsertResult struct {
		id      uuid.UUID
		created bool
	}

	res, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (upsertResult, error) {
		var id uuid.UUID
		created := false

		err := tx.QueryRowContext(
			ctx,
			"SELECT id FROM documents WHERE filename = $1",
			cmd.Filename,
		).Scan(&id)

		switch {
		case errors.Is(err, sql.ErrNoRows):
			id = uuid.New()
			created = true

			insert := `
				INSERT INTO documents (
					id, filename, content_hash, processed_at, doc_type, doc_date, sender,
					subject, amount, deadline, urgency, letter_type, reference_numbers,
					summary, recommendation, artifact_key, page_count, status
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

			if _, err := tx.ExecContext(ctx, insert,
				id, cmd.Filename, cmd.ContentHash, now,
				rec.DocType, rec.DocDate, rec.Sender, rec.Subject,
				rec.AmountValue(), rec.Deadline, rec.Urgency, rec.LetterType,
				encodeRefs(rec.ReferenceNumbers), rec.Summary, rec.Recommendation,
				cmd.ArtifactKey, cmd.PageCount, StatusNew,
			); err != nil {
				return upsertResult{}, fmt.Errorf("insert document: %w", err)
			}

		case err != nil:
			return upsertResult{}, fmt.Errorf("lookup document by filename: %w", err)

		default:
			// Reprocessing replaces extraction fields only. Status and
			// the issue link survive.
			update := `
				UPDATE documents SET
					content_hash = $2, processed_at = $3, doc_type = $4, doc_date = $5,
					sender = $6, subject = $7, amount = $8, deadline = $9, urgency = $10,
					letter_type = $11, reference_numbers = $12, summary = $13,
					recommendation = $14, artifact_key = $15, page_count = $16
				WHERE id = $1`

			if err := repository.ExecExpectOne(ctx, tx, update,
				id, cmd.ContentHash, now,
				rec.DocType, rec.DocDate, rec.Sender, rec.Subject,
				rec.AmountValue(), rec.Deadline, rec.Urgency, rec.LetterType,
				encodeRefs(rec.ReferenceNumbers), rec.Summary, rec.Recommendation,
				cmd.ArtifactKey, cmd.PageCount,
			); err != nil {
				return upsertResult{}, fmt.Errorf("update document: %w", err)
			}
		}

		if err := replaceExtractedActions(ctx, tx, id, rec, now); err != nil {
			return upsertResult{}, err
		}

		return upsertResult{id: id, created: created}, nil
	})
	if err != nil {
		return nil, false, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	doc, err := r.findByID(ctx, res.id)
	if err != nil {
		return nil, false, err
	}

	r.logger.Info("document upserted",
		"id", doc.ID, "filename", doc.Filename,
		"created", res.created, "pages", doc.PageCount)
	return doc, res.created, nil
}

func (r *repo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Document, error) {
	valid := []string{StatusNew, StatusOpen, StatusInProgress, StatusDone}
	if !slices.Contains(valid, status) {
		return nil, ErrInvalidStatus
	}

	err := repository.ExecExpectOne(
		ctx, r.db,
		"UPDATE documents SET status = $1 WHERE id = $2",
		status, id,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document status updated", "id", id, "status", status)
	return r.findByID(ctx, id)
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := r.findByID(ctx, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		// Manual action items outlive the document they were filed
		// under. Extracted ones cascade with the document row.
		if _, err := tx.ExecContext(
			ctx,
			"UPDATE action_items SET document_id = NULL WHERE document_id = $1 AND source = 'manual'",
			id,
		); err != nil {
			return struct{}{}, fmt.Errorf("detach manual actions: %w", err)
		}

		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM documents WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, fmt.Errorf("delete document: %w", err)
		}
		return struct{}{}, nil
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if doc.IssueID != nil {
		if err := r.reconciler.RecomputeDerived(ctx, *doc.IssueID); err != nil {
			r.logger.Warn("issue reconcile after delete failed",
				"issue_id", *doc.IssueID, "error", err)
		}
	}

	r.deleteArtifacts(ctx, doc)

	r.logger.Info("document deleted", "id", id, "filename", doc.Filename)
	return nil
}

// deleteArtifacts removes every blob stored under the document's
// artifact prefix, including leftovers from earlier runs with a
// different page count. Best effort: the database row is already gone.
func (r *repo) deleteArtifacts(ctx context.Context, doc *Document) {
	if doc.ArtifactKey == "" {
		return
	}

	keys, err := r.store.List(ctx, doc.ArtifactKey)
	if err != nil {
		r.logger.Warn("artifact listing failed", "key", doc.ArtifactKey, "error", err)
		return
	}

	for _, key := range keys {
		if err := r.store.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrNotFound) {
			r.logger.Warn("artifact delete failed", "key", key, "error", err)
		}
	}
}

func (r *repo) findByID(ctx context.Context, id uuid.UUID) (*Document, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	doc, err := repository.QueryOne(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &doc, nil
}

func replaceExtractedActions(
	ctx context.Context,
	tx *sql.Tx,
	documentID uuid.UUID,
	rec *extraction.Record,
	now time.Time,
) error {
	if _, err := tx.ExecContext(
		ctx,
		"DELETE FROM action_items WHERE document_id = $1 AND source = 'extracted'",
		documentID,
	); err != nil {
		return fmt.Errorf("clear extracted actions: %w", err)
	}

	insert := `
		INSERT INTO action_items (id, document_id, description, deadline, done, source, created_at)
		VALUES ($1, $2, $3, $4, $5, 'extracted', $6)`

	for _, item := range rec.ActionItems {
		if item.Action == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, insert,
			uuid.New(), documentID, item.Action, item.Deadline, false, now,
		); err != nil {
			return fmt.Errorf("insert extracted action: %w", err)
		}
	}
	return nil
}

func scanActionView(s repository.Scanner) (ActionView, error) {
	var a ActionView
	err := s.Scan(&a.ID, &a.Description, &a.Deadline, &a.Done, &a.Source)
	return a, err
}

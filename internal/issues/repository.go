package issues

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/capraCoder/mamadoc/internal/extraction"
	"github.com/capraCoder/mamadoc/pkg/pagination"
	"github.com/capraCoder/mamadoc/pkg/query"
	"github.com/capraCoder/mamadoc/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an issue repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "issues"),
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
) (*pagination.PageResult[Issue], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title", "Sender")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count issues: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanIssue)
	if err != nil {
		return nil, fmt.Errorf("query issues: %w", err)
	}

	if err := r.fillDocumentCounts(ctx, items); err != nil {
		return nil, err
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) fillDocumentCounts(ctx context.Context, items []Issue) error {
	if len(items) == 0 {
		return nil
	}

	placeholders := make([]string, len(items))
	args := make([]any, len(items))
	for i, issue := range items {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = issue.ID
	}

	q := fmt.Sprintf(
		"SELECT issue_id, COUNT(*) FROM documents WHERE issue_id IN (%s) GROUP BY issue_id",
		strings.Join(placeholders, ", "),
	)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("count issue documents: %w", err)
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int, len(items))
	for rows.Next() {
		var id uuid.UUID
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return fmt.Errorf("scan issue document count: %w", err)
		}
		counts[id] = count
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("count issue documents: %w", err)
	}

	for i := range items {
		items[i].DocumentCount = counts[items[i].ID]
	}
	return nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Issue, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	issue, err := repository.QueryOne(ctx, r.db, q, args, scanIssue)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	var count int
	if err := r.db.QueryRowContext(
		ctx,
		"SELECT COUNT(*) FROM documents WHERE issue_id = $1",
		id,
	).Scan(&count); err != nil {
		return nil, fmt.Errorf("count issue documents: %w", err)
	}
	issue.DocumentCount = count

	return &issue, nil
}

func (r *repo) Timeline(ctx context.Context, id uuid.UUID) ([]TimelineEntry, error) {
	if _, err := r.Find(ctx, id); err != nil {
		return nil, err
	}

	q := `
		SELECT d.id, d.filename, d.doc_type, d.doc_date, d.letter_type, d.subject, d.urgency, d.amount, d.deadline
		FROM documents d
		WHERE d.issue_id = $1
		ORDER BY d.doc_date ASC NULLS LAST, d.processed_at ASC`

	entries, err := repository.QueryMany(ctx, r.db, q, []any{id}, scanTimelineEntry)
	if err != nil {
		return nil, fmt.Errorf("query issue timeline: %w", err)
	}
	return entries, nil
}

func scanTimelineEntry(s repository.Scanner) (TimelineEntry, error) {
	var e TimelineEntry
	err := s.Scan(
		&e.DocumentID,
		&e.Filename,
		&e.DocType,
		&e.DocDate,
		&e.LetterType,
		&e.Subject,
		&e.Urgency,
		&e.Amount,
		&e.Deadline,
	)
	return e, err
}

func (r *repo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Issue, error) {
	if !slices.Contains([]string{StatusOpen, StatusResolved, StatusReopened}, status) {
		return nil, ErrInvalidStatus
	}

	err := repository.ExecExpectOne(
		ctx, r.db,
		"UPDATE issues SET status = $1, updated_at = $2 WHERE id = $3",
		status, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("issue status updated", "id", id, "status", status)
	return r.Find(ctx, id)
}

func (r *repo) Candidates(ctx context.Context) ([]Candidate, error) {
	windowStart := time.Now().UTC().AddDate(0, 0, -TemporalWindowDays)

	q := `
		SELECT i.id, i.title, i.sender, i.sender_norm, i.ref_numbers, i.category, i.status,
		       i.first_seen, i.latest_date, i.updated_at, COUNT(d.id)
		FROM issues i
		LEFT JOIN documents d ON d.issue_id = i.id
		WHERE i.status != $1 OR i.updated_at >= $2
		GROUP BY i.id, i.title, i.sender, i.sender_norm, i.ref_numbers, i.category, i.status,
		         i.first_seen, i.latest_date, i.updated_at
		ORDER BY i.updated_at DESC`

	candidates, err := repository.QueryMany(
		ctx, r.db, q,
		[]any{StatusResolved, windowStart},
		scanCandidate,
	)
	if err != nil {
		return nil, fmt.Errorf("query issue candidates: %w", err)
	}
	return candidates, nil
}

func scanCandidate(s repository.Scanner) (Candidate, error) {
	var (
		c        Candidate
		refsJSON string
	)
	err := s.Scan(
		&c.ID,
		&c.Title,
		&c.Sender,
		&c.SenderNorm,
		&refsJSON,
		&c.Category,
		&c.Status,
		&c.FirstSeen,
		&c.LatestDate,
		&c.UpdatedAt,
		&c.DocCount,
	)
	if err != nil {
		return c, err
	}
	if err := json.Unmarshal([]byte(refsJSON), &c.RefNumbers); err != nil {
		c.RefNumbers = nil
	}
	return c, nil
}

func (r *repo) Attach(ctx context.Context, documentID, issueID uuid.UUID, rec *extraction.Record) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, r.linkTx(ctx, tx, documentID, issueID, rec.LetterType)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document attached to issue", "document_id", documentID, "issue_id", issueID)
	return nil
}

func (r *repo) CreateForDocument(ctx context.Context, documentID uuid.UUID, rec *extraction.Record) (*Issue, error) {
	id := uuid.New()
	now := time.Now().UTC()

	subject := rec.Subject
	if subject == "" {
		subject = "Document"
	}

	insertArgs := []any{
		id,
		fmt.Sprintf("%s - %s", rec.Sender, subject),
		rec.Sender,
		NormalizeSender(rec.Sender),
		encodeRefs(NormalizeRefs(rec.ReferenceNumbers)),
		rec.DocType,
		StatusOpen,
		rec.Urgency,
		rec.DocDate,
		rec.DocDate,
		rec.Deadline,
		now,
		now,
	}

	q := `
		INSERT INTO issues (id, title, sender, sender_norm, ref_numbers, category, status, urgency,
		                    first_seen, latest_date, latest_deadline, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if _, err := tx.ExecContext(ctx, q, insertArgs...); err != nil {
			return struct{}{}, fmt.Errorf("insert issue: %w", err)
		}
		return struct{}{}, r.linkTx(ctx, tx, documentID, id, rec.LetterType)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("issue created", "id", id, "document_id", documentID, "sender", rec.Sender)
	return r.Find(ctx, id)
}

func (r *repo) RecomputeDerived(ctx context.Context, issueID uuid.UUID) error {
	err := recompute(ctx, r.db, issueID)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

// linkTx points the document at the issue, refreshes the issue's derived
// fields, and lets the new document drive status when it is the issue's
// most recent.
func (r *repo) linkTx(ctx context.Context, tx *sql.Tx, documentID, issueID uuid.UUID, letterType string) error {
	if err := repository.ExecExpectOne(
		ctx, tx,
		"UPDATE documents SET issue_id = $1 WHERE id = $2",
		issueID, documentID,
	); err != nil {
		return fmt.Errorf("link document: %w", err)
	}

	if err := recompute(ctx, tx, issueID); err != nil {
		return err
	}

	var status string
	var latest uuid.NullUUID
	if err := tx.QueryRowContext(
		ctx,
		"SELECT status, latest_document_id FROM issues WHERE id = $1",
		issueID,
	).Scan(&status, &latest); err != nil {
		return fmt.Errorf("read issue status: %w", err)
	}

	if latest.Valid && latest.UUID == documentID {
		if next := NextStatus(status, letterType); next != status {
			if _, err := tx.ExecContext(
				ctx,
				"UPDATE issues SET status = $1 WHERE id = $2",
				next, issueID,
			); err != nil {
				return fmt.Errorf("update issue status: %w", err)
			}
			r.logger.Info("issue status reconciled", "issue_id", issueID, "status", next)
		}
	}

	return nil
}

type execQuerier interface {
	repository.Querier
	repository.Executor
}

func recompute(ctx context.Context, e execQuerier, issueID uuid.UUID) error {
	q := `
		UPDATE issues SET
			first_seen = (SELECT MIN(doc_date) FROM documents WHERE issue_id = $1 AND doc_date IS NOT NULL),
			latest_date = (SELECT MAX(doc_date) FROM documents WHERE issue_id = $1 AND doc_date IS NOT NULL),
			latest_deadline = (SELECT MAX(deadline) FROM documents WHERE issue_id = $1 AND deadline IS NOT NULL),
			urgency = COALESCE((
				SELECT urgency FROM documents WHERE issue_id = $1
				ORDER BY CASE urgency
					WHEN 'critical' THEN 0 WHEN 'high' THEN 1
					WHEN 'normal' THEN 2 WHEN 'low' THEN 3
					ELSE 9 END
				LIMIT 1
			), 'normal'),
			latest_document_id = (
				SELECT id FROM documents WHERE issue_id = $1
				ORDER BY doc_date DESC NULLS LAST, processed_at DESC
				LIMIT 1
			),
			updated_at = $2
		WHERE id = $1`

	if err := repository.ExecExpectOne(ctx, e, q, issueID, time.Now().UTC()); err != nil {
		return fmt.Errorf("recompute issue %s: %w", issueID, err)
	}
	return nil
}

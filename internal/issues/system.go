package issues

import (
	"context"

	"github.com/google/uuid"

	"github.com/capraCoder/mamadoc/internal/extraction"
	"github.com/capraCoder/mamadoc/pkg/pagination"
)

// System defines the public contract for issue domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Issue], error)

	Find(ctx context.Context, id uuid.UUID) (*Issue, error)
	Timeline(ctx context.Context, id uuid.UUID) ([]TimelineEntry, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Issue, error)

	// Candidates returns the compact issue pool the matcher scores
	// against: every non-resolved issue plus resolved issues touched
	// within the candidate window.
	Candidates(ctx context.Context) ([]Candidate, error)

	// Attach links a document to an existing issue and reconciles the
	// issue's derived fields and status from its attached documents.
	Attach(ctx context.Context, documentID, issueID uuid.UUID, rec *extraction.Record) error

	// CreateForDocument creates a new issue seeded from the record and
	// links the document to it.
	CreateForDocument(ctx context.Context, documentID uuid.UUID, rec *extraction.Record) (*Issue, error)

	// RecomputeDerived refreshes first_seen, latest_date,
	// latest_deadline, urgency, and the latest-document pointer from
	// the issue's currently attached documents.
	RecomputeDerived(ctx context.Context, issueID uuid.UUID) error
}

package documents

import (
	"context"

	"github.com/google/uuid"

	"github.com/capraCoder/mamadoc/internal/extraction"
	"github.com/capraCoder/mamadoc/pkg/pagination"
)

// UpsertCommand carries everything needed to persist one processed PDF.
type UpsertCommand struct {
	Filename    string
	ContentHash string
	ArtifactKey string
	PageCount   int
	Record      *extraction.Record
}

// IssueReconciler refreshes an issue's derived fields after its attached
// documents change. Satisfied by the issue system.
type IssueReconciler interface {
	RecomputeDerived(ctx context.Context, issueID uuid.UUID) error
}

// System defines the public contract for document domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Document], error)

	Find(ctx context.Context, id uuid.UUID) (*Detail, error)
	FindByFilename(ctx context.Context, filename string) (*Document, error)

	// Upsert persists the extraction result keyed by filename. On update
	// the document's status and issue link are preserved and its
	// extracted action items are replaced. The returned flag reports
	// whether the document was created.
	Upsert(ctx context.Context, cmd UpsertCommand) (*Document, bool, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Document, error)

	// Delete removes the document, its extracted action items, and its
	// stored artifacts. Manual action items are detached, not deleted,
	// and the document's former issue is reconciled.
	Delete(ctx context.Context, id uuid.UUID) error
}

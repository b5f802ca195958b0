package actions

import (
	"context"

	"github.com/google/uuid"

	"github.com/capraCoder/mamadoc/pkg/pagination"
)

// System defines the public contract for action item operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Action], error)

	Find(ctx context.Context, id uuid.UUID) (*Action, error)

	// Create files a manual action item, optionally tied to a document.
	Create(ctx context.Context, cmd CreateCommand) (*Action, error)

	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Action, error)

	// SetDone toggles completion. Marking done stamps done_at, marking
	// undone clears it.
	SetDone(ctx context.Context, id uuid.UUID, done bool) (*Action, error)

	Delete(ctx context.Context, id uuid.UUID) error
}

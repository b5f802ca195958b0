package tasks

import (
	"context"

	"github.com/google/uuid"

	"github.com/capraCoder/mamadoc/pkg/pagination"
)

// System defines the public contract for personal task operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Task], error)

	Find(ctx context.Context, id uuid.UUID) (*Task, error)
	Create(ctx context.Context, cmd CreateCommand) (*Task, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Task, error)
	SetDone(ctx context.Context, id uuid.UUID, done bool) (*Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

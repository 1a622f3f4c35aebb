package reason

import (
	"context"

	domain "boetepot/internal/domain/reason"
)

// Store persists Reason state.
type Store interface {
	// List returns every reason ordered by description.
	List(ctx context.Context) ([]domain.Reason, error)
	GetByID(ctx context.Context, id int64) (domain.Reason, error)
	// InsertBatch inserts all reasons or none.
	InsertBatch(ctx context.Context, reasons []domain.Reason) ([]domain.Reason, error)
	Update(ctx context.Context, r domain.Reason) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

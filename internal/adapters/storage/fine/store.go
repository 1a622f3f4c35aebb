package fine

import (
	"context"

	domain "boetepot/internal/domain/fine"
	"boetepot/internal/domain/money"
)

// Store persists Fine state and answers the joined read queries.
type Store interface {
	GetByID(ctx context.Context, id int64) (domain.Fine, error)
	// ListViews returns fines joined with player name and reason description,
	// newest date first, ties broken by id descending.
	ListViews(ctx context.Context, filter ListFilter) ([]domain.View, error)
	CountViews(ctx context.Context, filter ListFilter) (int, error)
	// Total is the sum of every fine amount; 0 when there are none.
	Total(ctx context.Context, filter ListFilter) (money.Cents, error)
	// InsertBatch inserts all fines or none.
	InsertBatch(ctx context.Context, fines []domain.Fine) ([]domain.Fine, error)
	Update(ctx context.Context, f domain.Fine) error
	Delete(ctx context.Context, id int64) error
	// DeleteAll removes every fine and returns how many rows went.
	DeleteAll(ctx context.Context) (int64, error)
}

// ListFilter narrows fine queries. Zero values mean no restriction.
type ListFilter struct {
	PlayerID int64
	Limit    int
	Offset   int
}

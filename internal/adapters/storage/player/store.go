package player

import (
	"context"

	domain "boetepot/internal/domain/player"
)

// Store persists Player state.
type Store interface {
	// List returns every player ordered by name.
	List(ctx context.Context) ([]domain.Player, error)
	GetByID(ctx context.Context, id int64) (domain.Player, error)
	// InsertBatch inserts all players or none.
	// POST: returned players carry their assigned ids, in input order
	InsertBatch(ctx context.Context, players []domain.Player) ([]domain.Player, error)
	Update(ctx context.Context, p domain.Player) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

package projections

import (
	"context"
	"fmt"

	domainPlayer "boetepot/internal/domain/player"
	domainReason "boetepot/internal/domain/reason"
)

// QueryGetPlayers lists every player by name.
func QueryGetPlayers(ctx context.Context, store PlayerStore) ([]domainPlayer.Player, error) {
	players, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("players: %w", err)
	}
	return players, nil
}

// QueryGetReasons lists every reason by description.
func QueryGetReasons(ctx context.Context, store ReasonStore) ([]domainReason.Reason, error) {
	reasons, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("reasons: %w", err)
	}
	return reasons, nil
}

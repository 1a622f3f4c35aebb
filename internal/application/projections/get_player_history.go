package projections

import (
	"context"
	"fmt"

	finestore "boetepot/internal/adapters/storage/fine"
	domainFine "boetepot/internal/domain/fine"
	"boetepot/internal/domain/money"
	domainPlayer "boetepot/internal/domain/player"

	"golang.org/x/sync/errgroup"
)

// PlayerHistory is one player's complete fine record.
type PlayerHistory struct {
	Player domainPlayer.Player
	Total  money.Cents
	Fines  []domainFine.View
}

// GetPlayerHistoryDeps holds dependencies for GetPlayerHistory.
type GetPlayerHistoryDeps struct {
	PlayerStore PlayerStore
	FineStore   FineStore
}

// QueryGetPlayerHistory loads a player with every fine they received, newest first.
// PRE: playerID > 0
// POST: returns a not-found error when the player does not exist
// INVARIANT: Total equals the sum of the returned fines
func QueryGetPlayerHistory(ctx context.Context, playerID int64, deps GetPlayerHistoryDeps) (PlayerHistory, error) {
	var (
		p     domainPlayer.Player
		fines []domainFine.View
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		p, err = deps.PlayerStore.GetByID(gctx, playerID)
		return err
	})
	g.Go(func() error {
		var err error
		fines, err = deps.FineStore.ListViews(gctx, finestore.ListFilter{PlayerID: playerID})
		return err
	})
	if err := g.Wait(); err != nil {
		return PlayerHistory{}, fmt.Errorf("player %d history: %w", playerID, err)
	}
	return PlayerHistory{Player: p, Total: domainFine.Total(fines), Fines: fines}, nil
}

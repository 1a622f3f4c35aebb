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

// GetHomeQuery carries query parameters for the landing page.
type GetHomeQuery struct {
	// PlayerID selects a player whose history is shown inline; 0 shows none.
	PlayerID int64
}

// GetHomeResult carries the landing page data.
type GetHomeResult struct {
	Total    money.Cents
	Recent   []domainFine.View
	Players  []domainPlayer.Player
	Selected *PlayerHistory
}

// GetHomeDeps holds dependencies for GetHome.
type GetHomeDeps struct {
	PlayerStore PlayerStore
	FineStore   FineStore
}

// QueryGetHome loads the pot total, the most recent fines and the player picker concurrently.
// PRE: none
// POST: Recent holds at most fine.RecentLimit entries; Selected is set when a player was asked for
// INVARIANT: the first failing fetch cancels the others and fails the whole page
func QueryGetHome(ctx context.Context, query GetHomeQuery, deps GetHomeDeps) (GetHomeResult, error) {
	var res GetHomeResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		res.Total, err = deps.FineStore.Total(gctx, finestore.ListFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		res.Recent, err = deps.FineStore.ListViews(gctx, finestore.ListFilter{Limit: domainFine.RecentLimit})
		return err
	})
	g.Go(func() error {
		var err error
		res.Players, err = deps.PlayerStore.List(gctx)
		return err
	})
	if query.PlayerID > 0 {
		g.Go(func() error {
			h, err := QueryGetPlayerHistory(gctx, query.PlayerID, GetPlayerHistoryDeps{
				PlayerStore: deps.PlayerStore,
				FineStore:   deps.FineStore,
			})
			if err != nil {
				return err
			}
			res.Selected = &h
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return GetHomeResult{}, fmt.Errorf("home page: %w", err)
	}
	return res, nil
}

// Summary is the JSON shape of the pot for the landing page script.
type Summary struct {
	TotalCents int64         `json:"total_cents"`
	Total      string        `json:"total"`
	Recent     []FineSummary `json:"recent"`
}

// FineSummary is the JSON shape of one fine.
type FineSummary struct {
	ID          int64  `json:"id"`
	PlayerID    int64  `json:"player_id"`
	PlayerName  string `json:"player_name"`
	Reason      string `json:"reason"`
	AmountCents int64  `json:"amount_cents"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	AdminNotes  string `json:"admin_notes,omitempty"`
}

// NewFineSummaries converts fine views to their JSON shape. Never returns nil.
func NewFineSummaries(views []domainFine.View) []FineSummary {
	out := make([]FineSummary, 0, len(views))
	for _, v := range views {
		out = append(out, FineSummary{
			ID:          v.ID,
			PlayerID:    v.PlayerID,
			PlayerName:  v.PlayerName,
			Reason:      v.ReasonDescription,
			AmountCents: int64(v.Amount),
			Amount:      v.Amount.Format(),
			Date:        v.Date.Format(domainFine.DateLayout),
			AdminNotes:  v.AdminNotes,
		})
	}
	return out
}

// NewSummary builds the JSON summary from a landing page result.
func NewSummary(res GetHomeResult) Summary {
	return Summary{
		TotalCents: int64(res.Total),
		Total:      res.Total.Format(),
		Recent:     NewFineSummaries(res.Recent),
	}
}

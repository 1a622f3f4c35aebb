package projections

import (
	"context"
	"fmt"

	finestore "boetepot/internal/adapters/storage/fine"
	"boetepot/internal/domain/money"

	"golang.org/x/sync/errgroup"
)

// GetDashboardResult carries the admin dashboard counts.
type GetDashboardResult struct {
	PlayerCount int
	ReasonCount int
	FineCount   int
	Total       money.Cents
}

// GetDashboardDeps holds dependencies for GetDashboard.
type GetDashboardDeps struct {
	PlayerStore PlayerStore
	ReasonStore ReasonStore
	FineStore   FineStore
}

// QueryGetDashboard counts players, reasons and fines and sums the pot.
// PRE: none
// POST: all counts are from the same request; any failing count fails the dashboard
func QueryGetDashboard(ctx context.Context, deps GetDashboardDeps) (GetDashboardResult, error) {
	var res GetDashboardResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		res.PlayerCount, err = deps.PlayerStore.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		res.ReasonCount, err = deps.ReasonStore.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		res.FineCount, err = deps.FineStore.CountViews(gctx, finestore.ListFilter{})
		return err
	})
	g.Go(func() (err error) {
		res.Total, err = deps.FineStore.Total(gctx, finestore.ListFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return GetDashboardResult{}, fmt.Errorf("dashboard: %w", err)
	}
	return res, nil
}

package projections

import (
	"context"
	"fmt"

	finestore "boetepot/internal/adapters/storage/fine"
	"boetepot/internal/application/listutil"
	domainFine "boetepot/internal/domain/fine"
	"boetepot/internal/domain/money"
	domainPlayer "boetepot/internal/domain/player"
	domainReason "boetepot/internal/domain/reason"

	"golang.org/x/sync/errgroup"
)

// GetFineListQuery carries the admin fine list parameters.
type GetFineListQuery struct {
	Params listutil.Params
}

// GetFineListResult carries one page of fines with the lookups the create form needs.
type GetFineListResult struct {
	Fines   []domainFine.View
	Page    listutil.PageInfo
	Total   money.Cents // total of all fines matching the filter, not just this page
	Players []domainPlayer.Player
	Reasons []domainReason.Reason
}

// GetFineListDeps holds dependencies for GetFineList.
type GetFineListDeps struct {
	PlayerStore PlayerStore
	ReasonStore ReasonStore
	FineStore   FineStore
}

// QueryGetFineList loads a page of fines, optionally for one player, plus player and reason lookups.
// PRE: Params came from listutil.ParseParams
// POST: Fines are newest first; Page reflects the filtered count and is clamped to it
func QueryGetFineList(ctx context.Context, query GetFineListQuery, deps GetFineListDeps) (GetFineListResult, error) {
	p := query.Params
	filter := finestore.ListFilter{PlayerID: p.PlayerID}

	var (
		res   GetFineListResult
		count int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		count, err = deps.FineStore.CountViews(gctx, filter)
		return err
	})
	g.Go(func() (err error) {
		res.Total, err = deps.FineStore.Total(gctx, filter)
		return err
	})
	g.Go(func() (err error) {
		res.Players, err = deps.PlayerStore.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		res.Reasons, err = deps.ReasonStore.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return GetFineListResult{}, fmt.Errorf("fine list: %w", err)
	}

	// The page is clamped to the filtered count before it is fetched.
	res.Page = listutil.NewPageInfo(p.Page, p.PerPage, count)
	page := filter
	page.Limit = res.Page.PerPage
	page.Offset = res.Page.Offset()
	fines, err := deps.FineStore.ListViews(ctx, page)
	if err != nil {
		return GetFineListResult{}, fmt.Errorf("fine list page %d: %w", res.Page.Page, err)
	}
	res.Fines = fines
	return res, nil
}

// GetFineEditResult carries a fine with the lookups its edit form needs.
type GetFineEditResult struct {
	Fine    domainFine.Fine
	Players []domainPlayer.Player
	Reasons []domainReason.Reason
}

// QueryGetFineEdit loads a fine for editing.
// PRE: id > 0
// POST: returns a not-found error when the fine does not exist
func QueryGetFineEdit(ctx context.Context, id int64, deps GetFineListDeps) (GetFineEditResult, error) {
	var res GetFineEditResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		res.Fine, err = deps.FineStore.GetByID(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		res.Players, err = deps.PlayerStore.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		res.Reasons, err = deps.ReasonStore.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return GetFineEditResult{}, fmt.Errorf("fine %d edit: %w", id, err)
	}
	return res, nil
}

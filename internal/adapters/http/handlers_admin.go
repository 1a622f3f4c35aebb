package web

import (
	"net/http"
	"time"

	"boetepot/internal/adapters/http/perf"
	"boetepot/internal/application/projections"
)

// perfWindow is how far back the perf page looks.
const perfWindow = 15 * time.Minute

// handleDashboard shows counts and the pot total.
func (a *app) handleDashboard(w http.ResponseWriter, r *http.Request) {
	res, err := projections.QueryGetDashboard(r.Context(), projections.GetDashboardDeps{
		PlayerStore: a.stores.PlayerStore,
		ReasonStore: a.stores.ReasonStore,
		FineStore:   a.stores.FineStore,
	})
	if err != nil {
		logUnexpected(r, err)
		a.render(w, r, http.StatusInternalServerError, "dashboard.html", page{
			Title: "Beheer",
			Error: msgGeneric,
			Data:  projections.GetDashboardResult{},
		})
		return
	}
	a.render(w, r, http.StatusOK, "dashboard.html", page{Title: "Beheer", Data: res})
}

type perfView struct {
	Enabled  bool
	Window   time.Duration
	Snapshot perf.Snapshot
}

// handlePerf renders request and query latency over the last perfWindow.
func (a *app) handlePerf(w http.ResponseWriter, r *http.Request) {
	v := perfView{Window: perfWindow}
	if a.collector != nil {
		v.Enabled = true
		v.Snapshot = a.collector.Snapshot(a.now().Add(-perfWindow), 10)
	}
	a.render(w, r, http.StatusOK, "perf.html", page{Title: "Prestaties", Data: v})
}

package web

import (
	"net/http"

	"boetepot/internal/application/projections"
)

// handleAuditLog renders the admin audit trail (GET /admin/audit)
// PRE: admin session
// POST: Renders at most projections.AuditLogLimit events, newest first, with optional filters
func (a *app) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := projections.QueryGetAuditLog(r.Context(), projections.GetAuditLogQuery{
		Category: q.Get("category"),
		Action:   q.Get("action"),
	}, a.stores.AuditStore)
	if err != nil {
		logUnexpected(r, err)
		a.render(w, r, http.StatusInternalServerError, "audit.html", page{
			Title: "Logboek",
			Error: msgGeneric,
			Data:  projections.GetAuditLogResult{},
		})
		return
	}
	a.render(w, r, http.StatusOK, "audit.html", page{Title: "Logboek", Data: res})
}

package web

import (
	"net/http"

	"boetepot/internal/adapters/http/middleware"
)

func (a *app) registerRoutes(mux *http.ServeMux) {
	admin := func(h http.HandlerFunc) http.Handler { return middleware.RequireAdmin(h) }

	// Public
	mux.HandleFunc("GET /{$}", a.handleHome)
	mux.HandleFunc("GET /players/{id}", a.handlePlayerHistory)
	mux.HandleFunc("GET /api/summary", a.handleAPISummary)
	mux.HandleFunc("GET /api/players/{id}/fines", a.handleAPIPlayerFines)
	mux.HandleFunc("GET /healthz", a.handleHealthz)
	mux.Handle("GET /static/", staticHandler())

	// Session
	mux.HandleFunc("GET /admin/login", a.handleLoginPage)
	mux.HandleFunc("POST /admin/login", a.handleLogin)
	mux.HandleFunc("POST /admin/logout", a.handleLogout)

	// Admin
	mux.Handle("GET /admin", admin(a.handleDashboard))
	mux.Handle("GET /admin/perf", admin(a.handlePerf))
	mux.Handle("GET /admin/audit", admin(a.handleAuditLog))

	mux.Handle("GET /admin/fines", admin(a.handleFineList))
	mux.Handle("POST /admin/fines", admin(a.handleFineCreate))
	mux.Handle("GET /admin/fines/{id}/edit", admin(a.handleFineEditPage))
	mux.Handle("POST /admin/fines/{id}/edit", admin(a.handleFineUpdate))
	mux.Handle("POST /admin/fines/{id}/delete", admin(a.handleFineDelete))
	mux.Handle("POST /admin/fines/delete-all", admin(a.handleFineDeleteAll))

	mux.Handle("GET /admin/players", admin(a.handlePlayerList))
	mux.Handle("POST /admin/players", admin(a.handlePlayerCreate))
	mux.Handle("GET /admin/players/{id}/edit", admin(a.handlePlayerEditPage))
	mux.Handle("POST /admin/players/{id}/edit", admin(a.handlePlayerUpdate))
	mux.Handle("POST /admin/players/{id}/delete", admin(a.handlePlayerDelete))

	mux.Handle("GET /admin/reasons", admin(a.handleReasonList))
	mux.Handle("POST /admin/reasons", admin(a.handleReasonCreate))
	mux.Handle("GET /admin/reasons/{id}/edit", admin(a.handleReasonEditPage))
	mux.Handle("POST /admin/reasons/{id}/edit", admin(a.handleReasonUpdate))
	mux.Handle("POST /admin/reasons/{id}/delete", admin(a.handleReasonDelete))
}

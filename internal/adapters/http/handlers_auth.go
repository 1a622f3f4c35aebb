package web

import (
	"errors"
	"log/slog"
	"net/http"

	"boetepot/internal/adapters/http/middleware"
	"boetepot/internal/application/orchestrators"
)

func (a *app) loginDeps() orchestrators.LoginDeps {
	return orchestrators.LoginDeps{
		AccountStore: a.stores.AccountStore,
		SessionStore: a.stores.SessionStore,
		AuditStore:   a.stores.AuditStore,
		Metrics:      a.metrics,
		SessionTTL:   a.sessionTTL,
		Now:          a.now,
	}
}

// handleLoginPage shows the password form, or sends a logged-in admin to the dashboard.
func (a *app) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
		redirect(w, r, "/admin")
		return
	}
	a.render(w, r, http.StatusOK, "login.html", page{Title: "Inloggen"})
}

// handleLogin checks the admin password and starts a server-side session.
func (a *app) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !a.loginLimiter.Allow(middleware.ClientIP(r)) {
		slog.Warn("auth_event", "event", "login_rate_limited", "ip", middleware.ClientIP(r))
		a.render(w, r, http.StatusTooManyRequests, "login.html", page{
			Title: "Inloggen",
			Error: "Te veel pogingen, wacht een minuut.",
		})
		return
	}

	sess, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Username: a.adminUsername,
		Password: r.PostFormValue("password"),
		Actor:    actor(r),
	}, a.loginDeps())
	if err != nil {
		status := http.StatusUnauthorized
		switch {
		case errors.Is(err, orchestrators.ErrAccountLocked):
			status = http.StatusTooManyRequests
		case !errors.Is(err, orchestrators.ErrInvalidCredential):
			logUnexpected(r, err)
			status = http.StatusInternalServerError
		}
		a.render(w, r, status, "login.html", page{Title: "Inloggen", Error: userMessage(err)})
		return
	}

	token, err := a.tokens.Issue(sess)
	if err != nil {
		internalError(w, r, err)
		return
	}
	middleware.SetSessionCookie(w, token, a.sessionTTL, a.secure)
	redirect(w, r, "/admin")
}

// handleLogout revokes the session row and clears the cookie.
func (a *app) handleLogout(w http.ResponseWriter, r *http.Request) {
	var id string
	if s, ok := middleware.GetSessionFromContext(r.Context()); ok {
		id = s.ID
	}
	if err := orchestrators.ExecuteLogout(r.Context(), orchestrators.LogoutInput{
		SessionID: id,
		Actor:     actor(r),
	}, a.loginDeps()); err != nil {
		// The cookie is cleared regardless; the sweeper removes the row once it expires.
		slog.Error("internal_error", "error", err.Error(), "path", r.URL.Path)
	}
	middleware.ClearSessionCookie(w, a.secure)
	redirect(w, r, "/admin/login?ok=logged_out")
}

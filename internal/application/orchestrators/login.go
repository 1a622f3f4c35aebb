package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"boetepot/internal/domain/account"
	"boetepot/internal/domain/audit"
	"boetepot/internal/domain/session"
)

// AccountStoreForLogin defines the store interface needed by Login.
type AccountStoreForLogin interface {
	GetByUsername(ctx context.Context, username string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// SessionStoreForLogin defines the store interface needed to issue and end sessions.
type SessionStoreForLogin interface {
	Create(ctx context.Context, s session.Session) error
	Revoke(ctx context.Context, id string, at time.Time) error
}

// LoginMetrics counts login outcomes. A nil LoginMetrics is allowed.
type LoginMetrics interface {
	LoginAttempt(result string)
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Username string
	Password string
	Actor    Actor
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	AccountStore AccountStoreForLogin
	SessionStore SessionStoreForLogin
	AuditStore   AuditStoreForOrchestrator
	Metrics      LoginMetrics
	SessionTTL   time.Duration
	Now          func() time.Time
}

var (
	ErrInvalidCredential = errors.New("invalid credential")
	ErrAccountLocked     = errors.New("account is locked due to too many failed attempts")
)

// ExecuteLogin validates credentials and issues a session.
// PRE: username and password provided
// POST: returns a persisted session on success, records the failed attempt otherwise
// INVARIANT: a locked account never gets a session, even with the right password
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (session.Session, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		loginFailed(ctx, deps, input.Actor, username, "missing_fields")
		return session.Session{}, ErrInvalidCredential
	}

	now := deps.Now()
	acct, err := deps.AccountStore.GetByUsername(ctx, username)
	if err != nil {
		loginFailed(ctx, deps, input.Actor, username, "not_found")
		return session.Session{}, ErrInvalidCredential
	}

	if acct.IsLocked(now) {
		loginFailed(ctx, deps, input.Actor, username, "locked")
		return session.Session{}, ErrAccountLocked
	}

	if err := acct.CheckPassword(input.Password); err != nil {
		acct.RecordFailedLogin(now)
		if err := deps.AccountStore.Save(ctx, acct); err != nil {
			slog.Error("auth_event", "event", "failed_login_not_saved", "username", username, "error", err)
		}
		loginFailed(ctx, deps, input.Actor, username, "wrong_password")
		return session.Session{}, ErrInvalidCredential
	}

	if acct.FailedLogins > 0 || !acct.LockedUntil.IsZero() {
		acct.ResetFailedLogins()
		if err := deps.AccountStore.Save(ctx, acct); err != nil {
			return session.Session{}, fmt.Errorf("reset failed logins: %w", err)
		}
	}

	ttl := deps.SessionTTL
	if ttl <= 0 {
		ttl = session.DefaultTTL
	}
	sess, err := session.New(acct.ID, acct.Username, ttl, now)
	if err != nil {
		return session.Session{}, err
	}
	sess.IPAddress = input.Actor.IPAddress
	sess.UserAgent = input.Actor.UserAgent
	if err := deps.SessionStore.Create(ctx, sess); err != nil {
		return session.Session{}, fmt.Errorf("create session: %w", err)
	}

	if deps.Metrics != nil {
		deps.Metrics.LoginAttempt("success")
	}
	recordAudit(ctx, deps.AuditStore, input.Actor,
		audit.NewEvent(acct.Username, audit.CategoryAuth, audit.ActionLogin, now).
			WithResource("account", strconv.FormatInt(acct.ID, 10)))
	slog.Info("auth_event", "event", "login_success", "username", acct.Username)
	return sess, nil
}

func loginFailed(ctx context.Context, deps LoginDeps, actor Actor, username, reason string) {
	if deps.Metrics != nil {
		deps.Metrics.LoginAttempt(reason)
	}
	recordAudit(ctx, deps.AuditStore, actor,
		audit.NewEvent(username, audit.CategoryAuth, audit.ActionLoginFailed, deps.Now()).
			WithSeverity(audit.SeverityWarning).
			WithDescription(reason))
	slog.Info("auth_event", "event", "login_failed", "username", username, "reason", reason)
}

// LogoutInput identifies the session to end.
type LogoutInput struct {
	SessionID string
	Actor     Actor
}

// ExecuteLogout revokes the session. An unknown or already-ended session is not an error.
// POST: the session can no longer authenticate requests
func ExecuteLogout(ctx context.Context, input LogoutInput, deps LoginDeps) error {
	if input.SessionID == "" {
		return nil
	}
	now := deps.Now()
	if err := deps.SessionStore.Revoke(ctx, input.SessionID, now); err != nil && !isNotFound(err) {
		return fmt.Errorf("revoke session: %w", err)
	}
	recordAudit(ctx, deps.AuditStore, input.Actor,
		audit.NewEvent(input.Actor.Username, audit.CategoryAuth, audit.ActionLogout, now))
	slog.Info("auth_event", "event", "logout", "username", input.Actor.Username)
	return nil
}

// Package session models a server-issued admin session.
package session

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a session stays valid without re-login.
const DefaultTTL = 12 * time.Hour

// State is the gate state derived from a request's session.
type State string

const (
	StateAnonymous     State = "anonymous"
	StateAuthenticated State = "authenticated"
)

// Domain errors
var (
	ErrMissingAccount = errors.New("session requires an account")
	ErrInvalidTTL     = errors.New("session ttl must be positive")
	ErrExpired        = errors.New("session expired")
	ErrRevoked        = errors.New("session revoked")
)

// Session is one admin login. ID doubles as the token's jti.
type Session struct {
	ID        string
	AccountID int64
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
	IPAddress string
	UserAgent string
}

// New issues a session for an account.
// PRE: accountID > 0, ttl > 0
// POST: Returns a session with a fresh UUID expiring at now+ttl
func New(accountID int64, username string, ttl time.Duration, now time.Time) (Session, error) {
	if accountID <= 0 || username == "" {
		return Session{}, ErrMissingAccount
	}
	if ttl <= 0 {
		return Session{}, ErrInvalidTTL
	}
	now = now.UTC()
	return Session{
		ID:        uuid.NewString(),
		AccountID: accountID,
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// Check returns nil when the session is usable at now.
// INVARIANT: Session fields are not mutated
func (s Session) Check(now time.Time) error {
	if s.RevokedAt != nil {
		return ErrRevoked
	}
	if !now.Before(s.ExpiresAt) {
		return ErrExpired
	}
	return nil
}

// Active reports whether the session is usable at now.
func (s Session) Active(now time.Time) bool {
	return s.Check(now) == nil
}

// State returns the gate state the session grants at now.
func (s Session) State(now time.Time) State {
	if s.Active(now) {
		return StateAuthenticated
	}
	return StateAnonymous
}

// Revoke marks the session as ended. Revoking twice keeps the first timestamp.
// POST: RevokedAt is set
func (s *Session) Revoke(now time.Time) {
	if s.RevokedAt != nil {
		return
	}
	t := now.UTC()
	s.RevokedAt = &t
}

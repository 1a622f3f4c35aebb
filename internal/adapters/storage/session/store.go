package session

import (
	"context"
	"time"

	domain "boetepot/internal/domain/session"
)

// Store persists admin sessions so they survive restarts.
type Store interface {
	Create(ctx context.Context, s domain.Session) error
	GetByID(ctx context.Context, id string) (domain.Session, error)
	// Revoke marks a session as ended. Revoking an unknown id is a not-found error.
	Revoke(ctx context.Context, id string, at time.Time) error
	// DeleteExpired removes sessions that expired or were revoked before cutoff.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// SessionStoreForSweep defines the store interface needed by the session sweeper.
type SessionStoreForSweep interface {
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// SweepSessionsDeps holds dependencies for SweepSessions.
type SweepSessionsDeps struct {
	SessionStore SessionStoreForSweep
	// Retention keeps ended sessions around this long after they expire or are revoked.
	Retention time.Duration
	Now       func() time.Time
}

// ExecuteSweepSessions deletes sessions that ended before now minus Retention.
// POST: returns the number of rows removed
func ExecuteSweepSessions(ctx context.Context, deps SweepSessionsDeps) (int64, error) {
	cutoff := deps.Now().Add(-deps.Retention)
	n, err := deps.SessionStore.DeleteExpired(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("sweep sessions: %w", err)
	}
	if n > 0 {
		slog.Info("session_sweep", "removed", n, "cutoff", cutoff)
	}
	return n, nil
}

// StartSessionSweeper starts a background goroutine that periodically removes ended sessions.
// PRE: stopCh is provided to signal shutdown
// POST: Worker runs until stopCh is closed
func StartSessionSweeper(deps SweepSessionsDeps, interval time.Duration, stopCh <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				if _, err := ExecuteSweepSessions(ctx, deps); err != nil {
					slog.Error("session_sweep_failed", "error", err.Error())
				}
				cancel()
			case <-stopCh:
				slog.Info("session_sweeper_stopped")
				return
			}
		}
	}()
}

package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"boetepot/internal/domain/audit"
)

// ErrNotConfirmed is returned when a delete arrives without explicit confirmation.
var ErrNotConfirmed = errors.New("deletion was not confirmed")

// Actor identifies who performed an admin action.
type Actor struct {
	Username  string
	IPAddress string
	UserAgent string
}

// AuditStoreForOrchestrator defines the store interface needed to record audit events.
type AuditStoreForOrchestrator interface {
	Save(ctx context.Context, event audit.Event) error
}

// recordAudit persists e with the actor's request details. Audit failures are
// logged and never fail the action that produced them.
func recordAudit(ctx context.Context, store AuditStoreForOrchestrator, actor Actor, e audit.Event) {
	if store == nil {
		return
	}
	e = e.WithRequest(actor.IPAddress, actor.UserAgent)
	if err := store.Save(ctx, e); err != nil {
		slog.Error("audit_save_failed", "error", err, "category", string(e.Category), "action", string(e.Action))
	}
}

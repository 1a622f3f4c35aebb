package projections

import (
	"context"

	auditstore "boetepot/internal/adapters/storage/audit"
	finestore "boetepot/internal/adapters/storage/fine"
	domainAudit "boetepot/internal/domain/audit"
	domainFine "boetepot/internal/domain/fine"
	"boetepot/internal/domain/money"
	domainPlayer "boetepot/internal/domain/player"
	domainReason "boetepot/internal/domain/reason"
)

// PlayerStore interface for player queries.
type PlayerStore interface {
	List(ctx context.Context) ([]domainPlayer.Player, error)
	GetByID(ctx context.Context, id int64) (domainPlayer.Player, error)
	Count(ctx context.Context) (int, error)
}

// ReasonStore interface for reason queries.
type ReasonStore interface {
	List(ctx context.Context) ([]domainReason.Reason, error)
	GetByID(ctx context.Context, id int64) (domainReason.Reason, error)
	Count(ctx context.Context) (int, error)
}

// FineStore interface for fine queries.
type FineStore interface {
	GetByID(ctx context.Context, id int64) (domainFine.Fine, error)
	ListViews(ctx context.Context, filter finestore.ListFilter) ([]domainFine.View, error)
	CountViews(ctx context.Context, filter finestore.ListFilter) (int, error)
	Total(ctx context.Context, filter finestore.ListFilter) (money.Cents, error)
}

// AuditStore interface for audit trail queries.
type AuditStore interface {
	List(ctx context.Context, filter auditstore.Filter, limit int) ([]domainAudit.Event, error)
}

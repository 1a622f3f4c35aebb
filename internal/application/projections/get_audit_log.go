package projections

import (
	"context"
	"fmt"

	auditstore "boetepot/internal/adapters/storage/audit"
	domainAudit "boetepot/internal/domain/audit"
)

// AuditLogLimit caps how many events the audit page shows.
const AuditLogLimit = 200

// GetAuditLogQuery carries the audit page filters. Unknown values are ignored.
type GetAuditLogQuery struct {
	Category string
	Action   string
}

// GetAuditLogResult carries the audit page data.
type GetAuditLogResult struct {
	Events     []domainAudit.Event
	Category   string
	Action     string
	Categories []domainAudit.Category
	Actions    []domainAudit.Action
}

// QueryGetAuditLog lists admin actions, newest first.
// PRE: none
// POST: at most AuditLogLimit events; filters echo only recognised values
func QueryGetAuditLog(ctx context.Context, query GetAuditLogQuery, store AuditStore) (GetAuditLogResult, error) {
	res := GetAuditLogResult{Categories: domainAudit.Categories, Actions: domainAudit.Actions}
	var filter auditstore.Filter
	if c := domainAudit.Category(query.Category); c.Valid() {
		filter.Category = &c
		res.Category = query.Category
	}
	if a := domainAudit.Action(query.Action); a.Valid() {
		filter.Action = &a
		res.Action = query.Action
	}
	events, err := store.List(ctx, filter, AuditLogLimit)
	if err != nil {
		return GetAuditLogResult{}, fmt.Errorf("audit log: %w", err)
	}
	res.Events = events
	return res, nil
}

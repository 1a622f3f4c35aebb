package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"boetepot/internal/application/listutil"
	"boetepot/internal/domain/audit"
	"boetepot/internal/domain/money"
	"boetepot/internal/domain/reason"
)

// ReasonStoreForOrchestrator defines the store interface needed by reason orchestrators.
type ReasonStoreForOrchestrator interface {
	GetByID(ctx context.Context, id int64) (reason.Reason, error)
	InsertBatch(ctx context.Context, reasons []reason.Reason) ([]reason.Reason, error)
	Update(ctx context.Context, r reason.Reason) error
	Delete(ctx context.Context, id int64) error
}

// ReasonDeps holds dependencies for the reason orchestrators.
type ReasonDeps struct {
	ReasonStore ReasonStoreForOrchestrator
	AuditStore  AuditStoreForOrchestrator
	Now         func() time.Time
}

// parseOptionalAmount parses a form amount; blank means zero.
func parseOptionalAmount(s string) (money.Cents, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	return money.Parse(s)
}

// --- Create Reasons ---

// CreateReasonsInput carries one description per line and a shared default amount.
type CreateReasonsInput struct {
	Descriptions string
	Amount       string
	Actor        Actor
}

// ExecuteCreateReasons inserts every non-blank line as a reason with the shared amount.
// PRE: at least one non-blank line; Amount blank or a non-negative amount
// POST: all reasons are created, or none
func ExecuteCreateReasons(ctx context.Context, input CreateReasonsInput, deps ReasonDeps) ([]reason.Reason, error) {
	descriptions := listutil.SplitLines(input.Descriptions)
	if len(descriptions) == 0 {
		return nil, reason.ErrNoDescriptions
	}
	amount, err := parseOptionalAmount(input.Amount)
	if err != nil {
		return nil, err
	}

	now := deps.Now()
	batch := make([]reason.Reason, 0, len(descriptions))
	for _, d := range descriptions {
		r, err := reason.New(d, amount, now)
		if err != nil {
			return nil, err
		}
		batch = append(batch, r)
	}

	created, err := deps.ReasonStore.InsertBatch(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("create reasons: %w", err)
	}

	for _, r := range created {
		recordAudit(ctx, deps.AuditStore, input.Actor,
			audit.NewEvent(input.Actor.Username, audit.CategoryReason, audit.ActionCreate, now).
				WithResource("reason", strconv.FormatInt(r.ID, 10)).
				WithDescription(r.Description))
	}
	slog.Info("reason_event", "event", "reasons_created", "count", len(created), "actor", input.Actor.Username)
	return created, nil
}

// --- Update Reason ---

// UpdateReasonInput carries the replacement description and amount.
type UpdateReasonInput struct {
	ID          int64
	Description string
	Amount      string
	Actor       Actor
}

// ExecuteUpdateReason replaces a reason's description and default amount.
// Existing fines keep their own amounts.
// PRE: ID identifies an existing reason
// POST: reason updated, or a validation / not-found / unique-violation error
func ExecuteUpdateReason(ctx context.Context, input UpdateReasonInput, deps ReasonDeps) (reason.Reason, error) {
	r, err := deps.ReasonStore.GetByID(ctx, input.ID)
	if err != nil {
		return reason.Reason{}, fmt.Errorf("load reason %d: %w", input.ID, err)
	}
	amount, err := parseOptionalAmount(input.Amount)
	if err != nil {
		return reason.Reason{}, err
	}
	r.Description = strings.TrimSpace(input.Description)
	r.Amount = amount
	if err := r.Validate(); err != nil {
		return reason.Reason{}, err
	}
	if err := deps.ReasonStore.Update(ctx, r); err != nil {
		return reason.Reason{}, fmt.Errorf("update reason %d: %w", input.ID, err)
	}

	recordAudit(ctx, deps.AuditStore, input.Actor,
		audit.NewEvent(input.Actor.Username, audit.CategoryReason, audit.ActionUpdate, deps.Now()).
			WithResource("reason", strconv.FormatInt(r.ID, 10)).
			WithDescription(r.Description+" "+r.Amount.String()))
	slog.Info("reason_event", "event", "reason_updated", "reason_id", r.ID, "actor", input.Actor.Username)
	return r, nil
}

// --- Delete Reason ---

// DeleteReasonInput identifies the reason to delete.
type DeleteReasonInput struct {
	ID        int64
	Confirmed bool
	Actor     Actor
}

// ExecuteDeleteReason removes a reason no fine uses.
// PRE: Confirmed is true
// POST: reason removed, or a not-found / referential-violation error and the reason remains
func ExecuteDeleteReason(ctx context.Context, input DeleteReasonInput, deps ReasonDeps) error {
	if !input.Confirmed {
		return ErrNotConfirmed
	}
	if err := deps.ReasonStore.Delete(ctx, input.ID); err != nil {
		return fmt.Errorf("delete reason %d: %w", input.ID, err)
	}

	recordAudit(ctx, deps.AuditStore, input.Actor,
		audit.NewEvent(input.Actor.Username, audit.CategoryReason, audit.ActionDelete, deps.Now()).
			WithResource("reason", strconv.FormatInt(input.ID, 10)))
	slog.Info("reason_event", "event", "reason_deleted", "reason_id", input.ID, "actor", input.Actor.Username)
	return nil
}

package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"boetepot/internal/adapters/email"
	finestore "boetepot/internal/adapters/storage/fine"
	"boetepot/internal/domain/audit"
	"boetepot/internal/domain/dberr"
	"boetepot/internal/domain/fine"
	"boetepot/internal/domain/money"
	"boetepot/internal/domain/player"
	"boetepot/internal/domain/reason"
)

// FineStoreForOrchestrator defines the store interface needed by fine orchestrators.
type FineStoreForOrchestrator interface {
	GetByID(ctx context.Context, id int64) (fine.Fine, error)
	Total(ctx context.Context, filter finestore.ListFilter) (money.Cents, error)
	InsertBatch(ctx context.Context, fines []fine.Fine) ([]fine.Fine, error)
	Update(ctx context.Context, f fine.Fine) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
}

// PlayerLookupForFines resolves player names for treasurer notifications.
type PlayerLookupForFines interface {
	GetByID(ctx context.Context, id int64) (player.Player, error)
}

// ReasonLookupForFines resolves the reason a fine refers to.
type ReasonLookupForFines interface {
	GetByID(ctx context.Context, id int64) (reason.Reason, error)
}

// FineMetrics counts fine activity. A nil FineMetrics is allowed.
type FineMetrics interface {
	FinesRecorded(n int)
	FinesDeleted(n int64)
}

// TreasurerNotifier mails the treasurer about pot changes. A nil notifier disables mail.
type TreasurerNotifier interface {
	NotifyFinesRecorded(ctx context.Context, n email.FinesRecorded) error
	NotifyPotEmptied(ctx context.Context, n email.PotEmptied) error
}

// FineDeps holds dependencies for the fine orchestrators.
type FineDeps struct {
	FineStore   FineStoreForOrchestrator
	PlayerStore PlayerLookupForFines
	ReasonStore ReasonLookupForFines
	AuditStore  AuditStoreForOrchestrator
	Metrics     FineMetrics
	Treasurer   TreasurerNotifier
	Now         func() time.Time
}

// --- Create Fines ---

// CreateFinesInput is the raw fine form submission.
// Amount and Date may be blank: the reason's default amount and today are used.
type CreateFinesInput struct {
	PlayerIDs  []int64
	ReasonID   int64
	Amount     string
	Date       string
	AdminNotes string
	Actor      Actor
}

// ExecuteCreateFines records one fine per selected player, all sharing reason, amount, date and notes.
// PRE: at least one player and an existing reason
// POST: all fines are created, or none
func ExecuteCreateFines(ctx context.Context, input CreateFinesInput, deps FineDeps) ([]fine.Fine, error) {
	if len(input.PlayerIDs) == 0 {
		return nil, fine.ErrNoPlayersSelected
	}
	if input.ReasonID <= 0 {
		return nil, fine.ErrReasonRequired
	}

	r, err := deps.ReasonStore.GetByID(ctx, input.ReasonID)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, fine.ErrReasonRequired
		}
		return nil, fmt.Errorf("load reason %d: %w", input.ReasonID, err)
	}

	amount := r.Amount
	if strings.TrimSpace(input.Amount) != "" {
		if amount, err = money.Parse(input.Amount); err != nil {
			return nil, err
		}
	}

	now := deps.Now()
	date := fine.DateOnly(now)
	if strings.TrimSpace(input.Date) != "" {
		if date, err = fine.ParseDate(input.Date); err != nil {
			return nil, err
		}
	}

	batch, err := fine.NewBatch(fine.BatchInput{
		PlayerIDs:  input.PlayerIDs,
		ReasonID:   r.ID,
		Amount:     amount,
		Date:       date,
		AdminNotes: input.AdminNotes,
	}, now)
	if err != nil {
		return nil, err
	}

	created, err := deps.FineStore.InsertBatch(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("create fines: %w", unknownReference(err))
	}

	if deps.Metrics != nil {
		deps.Metrics.FinesRecorded(len(created))
	}

	names := make([]string, 0, len(created))
	for _, f := range created {
		name := strconv.FormatInt(f.PlayerID, 10)
		if p, err := deps.PlayerStore.GetByID(ctx, f.PlayerID); err == nil {
			name = p.Name
		}
		names = append(names, name)
		recordAudit(ctx, deps.AuditStore, input.Actor,
			audit.NewEvent(input.Actor.Username, audit.CategoryFine, audit.ActionCreate, now).
				WithResource("fine", strconv.FormatInt(f.ID, 10)).
				WithDescription(fmt.Sprintf("%s: %s %s", name, r.Description, f.Amount.String())))
	}

	slog.Info("fine_event", "event", "fines_created", "count", len(created), "reason_id", r.ID,
		"amount", amount.String(), "actor", input.Actor.Username)

	if deps.Treasurer != nil {
		err := deps.Treasurer.NotifyFinesRecorded(ctx, email.FinesRecorded{
			Players: names,
			Reason:  r.Description,
			Amount:  amount,
			Date:    date,
			Notes:   strings.TrimSpace(input.AdminNotes),
			Actor:   input.Actor.Username,
		})
		if err != nil {
			slog.Warn("treasurer_notify_failed", "event", "fines_created", "error", err)
		}
	}
	return created, nil
}

// --- Update Fine ---

// UpdateFineInput carries the full replacement for an existing fine.
type UpdateFineInput struct {
	ID         int64
	PlayerID   int64
	ReasonID   int64
	Amount     string
	Date       string
	AdminNotes string
	Actor      Actor
}

// ExecuteUpdateFine replaces player, reason, amount, date and notes of a fine.
// PRE: ID identifies an existing fine
// POST: fine updated; CreatedAt is unchanged
func ExecuteUpdateFine(ctx context.Context, input UpdateFineInput, deps FineDeps) (fine.Fine, error) {
	f, err := deps.FineStore.GetByID(ctx, input.ID)
	if err != nil {
		return fine.Fine{}, fmt.Errorf("load fine %d: %w", input.ID, err)
	}

	amount, err := money.Parse(input.Amount)
	if err != nil {
		return fine.Fine{}, err
	}
	date, err := fine.ParseDate(input.Date)
	if err != nil {
		return fine.Fine{}, err
	}

	f.PlayerID = input.PlayerID
	f.ReasonID = input.ReasonID
	f.Amount = amount
	f.Date = date
	f.AdminNotes = strings.TrimSpace(input.AdminNotes)
	if err := f.Validate(); err != nil {
		return fine.Fine{}, err
	}
	if _, err := deps.ReasonStore.GetByID(ctx, f.ReasonID); err != nil {
		if dberr.IsNotFound(err) {
			return fine.Fine{}, fine.ErrReasonRequired
		}
		return fine.Fine{}, fmt.Errorf("load reason %d: %w", f.ReasonID, err)
	}
	if err := deps.FineStore.Update(ctx, f); err != nil {
		return fine.Fine{}, fmt.Errorf("update fine %d: %w", input.ID, unknownReference(err))
	}

	recordAudit(ctx, deps.AuditStore, input.Actor,
		audit.NewEvent(input.Actor.Username, audit.CategoryFine, audit.ActionUpdate, deps.Now()).
			WithResource("fine", strconv.FormatInt(f.ID, 10)).
			WithDescription(f.Amount.String()+" op "+f.Date.Format(fine.DateLayout)))
	slog.Info("fine_event", "event", "fine_updated", "fine_id", f.ID, "actor", input.Actor.Username)
	return f, nil
}

// unknownReference marks a foreign key failure on insert or update as a missing
// player or reason. The store error stays in the chain.
func unknownReference(err error) error {
	if dberr.IsReferentialViolation(err) {
		return fmt.Errorf("%w: %w", fine.ErrUnknownReference, err)
	}
	return err
}

// --- Delete Fine ---

// DeleteFineInput identifies the fine to delete.
type DeleteFineInput struct {
	ID        int64
	Confirmed bool
	Actor     Actor
}

// ExecuteDeleteFine removes a single fine.
// PRE: Confirmed is true
// POST: fine removed, or a not-found error
func ExecuteDeleteFine(ctx context.Context, input DeleteFineInput, deps FineDeps) error {
	if !input.Confirmed {
		return ErrNotConfirmed
	}
	if err := deps.FineStore.Delete(ctx, input.ID); err != nil {
		return fmt.Errorf("delete fine %d: %w", input.ID, err)
	}
	if deps.Metrics != nil {
		deps.Metrics.FinesDeleted(1)
	}

	recordAudit(ctx, deps.AuditStore, input.Actor,
		audit.NewEvent(input.Actor.Username, audit.CategoryFine, audit.ActionDelete, deps.Now()).
			WithResource("fine", strconv.FormatInt(input.ID, 10)))
	slog.Info("fine_event", "event", "fine_deleted", "fine_id", input.ID, "actor", input.Actor.Username)
	return nil
}

// --- Delete All Fines ---

// DeleteAllFinesInput carries the typed confirmation phrase.
type DeleteAllFinesInput struct {
	Phrase string
	Actor  Actor
}

// ExecuteDeleteAllFines empties the pot. Players and reasons are kept.
// PRE: Phrase matches fine.DeleteAllPhrase
// POST: no fines remain; returns how many were removed
func ExecuteDeleteAllFines(ctx context.Context, input DeleteAllFinesInput, deps FineDeps) (int64, error) {
	if err := fine.ConfirmDeleteAll(input.Phrase); err != nil {
		return 0, err
	}

	total, err := deps.FineStore.Total(ctx, finestore.ListFilter{})
	if err != nil {
		return 0, fmt.Errorf("total before delete all: %w", err)
	}
	removed, err := deps.FineStore.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete all fines: %w", err)
	}
	if deps.Metrics != nil {
		deps.Metrics.FinesDeleted(removed)
	}

	now := deps.Now()
	recordAudit(ctx, deps.AuditStore, input.Actor,
		audit.NewEvent(input.Actor.Username, audit.CategoryFine, audit.ActionDeleteAll, now).
			WithSeverity(audit.SeverityCritical).
			WithDescription(fmt.Sprintf("%d boetes verwijderd, totaal %s", removed, total.String())))
	slog.Warn("fine_event", "event", "fines_deleted_all", "count", removed, "total", total.String(), "actor", input.Actor.Username)

	if deps.Treasurer != nil {
		err := deps.Treasurer.NotifyPotEmptied(ctx, email.PotEmptied{
			Removed: removed,
			Total:   total,
			Actor:   input.Actor.Username,
			At:      now,
		})
		if err != nil {
			slog.Warn("treasurer_notify_failed", "event", "fines_deleted_all", "error", err)
		}
	}
	return removed, nil
}

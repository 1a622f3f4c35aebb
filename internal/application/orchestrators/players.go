package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"boetepot/internal/application/listutil"
	"boetepot/internal/domain/audit"
	"boetepot/internal/domain/player"
)

// PlayerStoreForOrchestrator defines the store interface needed by player orchestrators.
type PlayerStoreForOrchestrator interface {
	GetByID(ctx context.Context, id int64) (player.Player, error)
	InsertBatch(ctx context.Context, players []player.Player) ([]player.Player, error)
	Update(ctx context.Context, p player.Player) error
	Delete(ctx context.Context, id int64) error
}

// PlayerDeps holds dependencies for the player orchestrators.
type PlayerDeps struct {
	PlayerStore PlayerStoreForOrchestrator
	AuditStore  AuditStoreForOrchestrator
	Now         func() time.Time
}

// --- Create Players ---

// CreatePlayersInput carries one name per line.
type CreatePlayersInput struct {
	Names string
	Actor Actor
}

// ExecuteCreatePlayers inserts every non-blank line of input.Names as a player.
// PRE: at least one non-blank line
// POST: all players are created, or none (a duplicate name rejects the whole batch)
func ExecuteCreatePlayers(ctx context.Context, input CreatePlayersInput, deps PlayerDeps) ([]player.Player, error) {
	names := listutil.SplitLines(input.Names)
	if len(names) == 0 {
		return nil, player.ErrNoNames
	}

	now := deps.Now()
	batch := make([]player.Player, 0, len(names))
	for _, name := range names {
		p, err := player.New(name, now)
		if err != nil {
			return nil, err
		}
		batch = append(batch, p)
	}

	created, err := deps.PlayerStore.InsertBatch(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("create players: %w", err)
	}

	for _, p := range created {
		recordAudit(ctx, deps.AuditStore, input.Actor,
			audit.NewEvent(input.Actor.Username, audit.CategoryPlayer, audit.ActionCreate, now).
				WithResource("player", strconv.FormatInt(p.ID, 10)).
				WithDescription(p.Name))
	}
	slog.Info("player_event", "event", "players_created", "count", len(created), "actor", input.Actor.Username)
	return created, nil
}

// --- Update Player ---

// UpdatePlayerInput carries the new name for an existing player.
type UpdatePlayerInput struct {
	ID    int64
	Name  string
	Actor Actor
}

// ExecuteUpdatePlayer renames a player.
// PRE: ID identifies an existing player
// POST: player renamed, or a validation / not-found / unique-violation error
func ExecuteUpdatePlayer(ctx context.Context, input UpdatePlayerInput, deps PlayerDeps) (player.Player, error) {
	p, err := deps.PlayerStore.GetByID(ctx, input.ID)
	if err != nil {
		return player.Player{}, fmt.Errorf("load player %d: %w", input.ID, err)
	}
	oldName := p.Name
	if err := p.Rename(input.Name); err != nil {
		return player.Player{}, err
	}
	if err := deps.PlayerStore.Update(ctx, p); err != nil {
		return player.Player{}, fmt.Errorf("update player %d: %w", input.ID, err)
	}

	recordAudit(ctx, deps.AuditStore, input.Actor,
		audit.NewEvent(input.Actor.Username, audit.CategoryPlayer, audit.ActionUpdate, deps.Now()).
			WithResource("player", strconv.FormatInt(p.ID, 10)).
			WithDescription(oldName+" → "+p.Name))
	slog.Info("player_event", "event", "player_updated", "player_id", p.ID, "actor", input.Actor.Username)
	return p, nil
}

// --- Delete Player ---

// DeletePlayerInput identifies the player to delete.
type DeletePlayerInput struct {
	ID        int64
	Confirmed bool
	Actor     Actor
}

// ExecuteDeletePlayer removes a player that has no fines.
// PRE: Confirmed is true
// POST: player removed, or a not-found / referential-violation error and the player remains
func ExecuteDeletePlayer(ctx context.Context, input DeletePlayerInput, deps PlayerDeps) error {
	if !input.Confirmed {
		return ErrNotConfirmed
	}
	if err := deps.PlayerStore.Delete(ctx, input.ID); err != nil {
		return fmt.Errorf("delete player %d: %w", input.ID, err)
	}

	recordAudit(ctx, deps.AuditStore, input.Actor,
		audit.NewEvent(input.Actor.Username, audit.CategoryPlayer, audit.ActionDelete, deps.Now()).
			WithResource("player", strconv.FormatInt(input.ID, 10)))
	slog.Info("player_event", "event", "player_deleted", "player_id", input.ID, "actor", input.Actor.Username)
	return nil
}

package orchestrators

import (
	"context"
	"errors"
	"testing"

	"boetepot/internal/domain/audit"
	"boetepot/internal/domain/dberr"
	"boetepot/internal/domain/player"
)

func newPlayerDeps(store *mockPlayerStore, auditStore *mockAuditStore) PlayerDeps {
	return PlayerDeps{PlayerStore: store, AuditStore: auditStore, Now: fixedNow}
}

func TestExecuteCreatePlayers_SplitsLines(t *testing.T) {
	store := newMockPlayerStore()
	auditStore := &mockAuditStore{}
	created, err := ExecuteCreatePlayers(context.Background(), CreatePlayersInput{
		Names: "Jan Jansen\n\n  Piet Pietersen  \r\nKees\n",
		Actor: testActor,
	}, newPlayerDeps(store, auditStore))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("expected 3 players, got %d", len(created))
	}
	if created[1].Name != "Piet Pietersen" {
		t.Errorf("expected trimmed name, got %q", created[1].Name)
	}
	if len(auditStore.events) != 3 {
		t.Errorf("expected 3 audit events, got %d", len(auditStore.events))
	}
	if auditStore.events[0].Category != audit.CategoryPlayer || auditStore.events[0].IPAddress != "127.0.0.1" {
		t.Errorf("unexpected audit event: %+v", auditStore.events[0])
	}
}

func TestExecuteCreatePlayers_BlankInput(t *testing.T) {
	store := newMockPlayerStore()
	_, err := ExecuteCreatePlayers(context.Background(), CreatePlayersInput{Names: " \n\t\n"}, newPlayerDeps(store, nil))
	if !errors.Is(err, player.ErrNoNames) {
		t.Fatalf("expected ErrNoNames, got %v", err)
	}
}

func TestExecuteCreatePlayers_DuplicateRejectsBatch(t *testing.T) {
	store := newMockPlayerStore("Jan Jansen")
	_, err := ExecuteCreatePlayers(context.Background(), CreatePlayersInput{
		Names: "Nieuw\nJan Jansen",
	}, newPlayerDeps(store, nil))
	if !dberr.IsUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}
	if len(store.players) != 1 {
		t.Errorf("expected no new players, have %d", len(store.players))
	}
}

func TestExecuteCreatePlayers_TooLongName(t *testing.T) {
	long := make([]byte, player.MaxNameLength+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err := ExecuteCreatePlayers(context.Background(), CreatePlayersInput{
		Names: "Ok\n" + string(long),
	}, newPlayerDeps(newMockPlayerStore(), nil))
	if !errors.Is(err, player.ErrNameTooLong) {
		t.Fatalf("expected ErrNameTooLong, got %v", err)
	}
}

func TestExecuteUpdatePlayer(t *testing.T) {
	store := newMockPlayerStore("Jan")
	auditStore := &mockAuditStore{}
	p, err := ExecuteUpdatePlayer(context.Background(), UpdatePlayerInput{
		ID: 1, Name: " Jan Jansen ", Actor: testActor,
	}, newPlayerDeps(store, auditStore))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "Jan Jansen" || store.players[1].Name != "Jan Jansen" {
		t.Errorf("expected rename to persist, got %q", store.players[1].Name)
	}
	if got := auditStore.actions(); len(got) != 1 || got[0] != audit.ActionUpdate {
		t.Errorf("expected one update event, got %v", got)
	}
}

func TestExecuteUpdatePlayer_Errors(t *testing.T) {
	store := newMockPlayerStore("Jan")
	_, err := ExecuteUpdatePlayer(context.Background(), UpdatePlayerInput{ID: 99, Name: "X"}, newPlayerDeps(store, nil))
	if !dberr.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
	_, err = ExecuteUpdatePlayer(context.Background(), UpdatePlayerInput{ID: 1, Name: "  "}, newPlayerDeps(store, nil))
	if !errors.Is(err, player.ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
	if store.players[1].Name != "Jan" {
		t.Errorf("failed rename must not persist, got %q", store.players[1].Name)
	}
}

func TestExecuteDeletePlayer(t *testing.T) {
	store := newMockPlayerStore("Jan", "Piet")
	store.referenced[2] = true
	deps := newPlayerDeps(store, &mockAuditStore{})

	if err := ExecuteDeletePlayer(context.Background(), DeletePlayerInput{ID: 1}, deps); !errors.Is(err, ErrNotConfirmed) {
		t.Errorf("expected ErrNotConfirmed, got %v", err)
	}
	if err := ExecuteDeletePlayer(context.Background(), DeletePlayerInput{ID: 2, Confirmed: true}, deps); !dberr.IsReferentialViolation(err) {
		t.Errorf("expected referential violation, got %v", err)
	}
	if err := ExecuteDeletePlayer(context.Background(), DeletePlayerInput{ID: 1, Confirmed: true}, deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := store.players[1]; ok {
		t.Error("expected player 1 to be deleted")
	}
	if _, ok := store.players[2]; !ok {
		t.Error("expected referenced player 2 to remain")
	}
}

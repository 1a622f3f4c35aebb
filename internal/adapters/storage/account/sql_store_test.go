package account_test

import (
	"context"
	"testing"
	"time"

	"boetepot/internal/adapters/storage/account"
	"boetepot/internal/adapters/storage/storagetest"
	domain "boetepot/internal/domain/account"
	"boetepot/internal/domain/dberr"
)

var now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// TestSQLStore_CreateGetSave round-trips lockout state.
func TestSQLStore_CreateGetSave(t *testing.T) {
	store := account.NewSQLStore(storagetest.Open(t))
	ctx := context.Background()

	created, err := store.Create(ctx, domain.Account{Username: "admin", PasswordHash: "hash", CreatedAt: now})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("Create returned no id")
	}

	got, err := store.GetByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if !got.LockedUntil.IsZero() || got.FailedLogins != 0 || !got.CreatedAt.Equal(now) {
		t.Errorf("fresh account = %+v", got)
	}

	for i := 0; i < domain.MaxFailedLogins; i++ {
		got.RecordFailedLogin(now)
	}
	if err := store.Save(ctx, got); err != nil {
		t.Fatalf("Save: %v", err)
	}
	locked, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !locked.IsLocked(now) || locked.FailedLogins != domain.MaxFailedLogins {
		t.Errorf("lockout not persisted: %+v", locked)
	}

	if n, _ := store.Count(ctx); n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
}

func TestSQLStore_Errors(t *testing.T) {
	store := account.NewSQLStore(storagetest.Open(t))
	ctx := context.Background()

	if _, err := store.GetByUsername(ctx, "ghost"); !dberr.IsNotFound(err) {
		t.Errorf("GetByUsername missing: %v, want not found", err)
	}
	if _, err := store.Create(ctx, domain.Account{Username: "admin", PasswordHash: "h", CreatedAt: now}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := store.Create(ctx, domain.Account{Username: "admin", PasswordHash: "h", CreatedAt: now}); !dberr.IsUniqueViolation(err) {
		t.Errorf("duplicate Create: %v, want unique violation", err)
	}
	if err := store.Save(ctx, domain.Account{ID: 42}); !dberr.IsNotFound(err) {
		t.Errorf("Save missing: %v, want not found", err)
	}
}

package orchestrators

import (
	"context"
	"errors"
	"testing"

	"boetepot/internal/domain/account"
)

func TestExecuteSeedAdmin_CreatesAccount(t *testing.T) {
	store := newMockAccountStore()
	acct, err := ExecuteSeedAdmin(context.Background(), SeedAdminInput{
		Username: "penningmeester", Password: testPassword,
	}, SeedAdminDeps{AccountStore: store, Now: fixedNow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if acct.ID == 0 || acct.PasswordHash == "" {
		t.Errorf("expected stored account with hash, got %+v", acct)
	}
	if err := acct.CheckPassword(testPassword); err != nil {
		t.Errorf("expected password to verify: %v", err)
	}
}

func TestExecuteSeedAdmin_ExistingAccountKept(t *testing.T) {
	store := seededAccounts(t)
	before := store.accounts["admin"].PasswordHash
	if _, err := ExecuteSeedAdmin(context.Background(), SeedAdminInput{
		Username: "admin", Password: "another long password",
	}, SeedAdminDeps{AccountStore: store, Now: fixedNow}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.accounts["admin"].PasswordHash != before {
		t.Error("existing password must not change without Reset")
	}
	if store.saves != 0 {
		t.Errorf("expected no saves, got %d", store.saves)
	}
}

func TestExecuteSeedAdmin_Reset(t *testing.T) {
	store := seededAccounts(t)
	acct, err := ExecuteSeedAdmin(context.Background(), SeedAdminInput{
		Username: "admin", Password: "another long password", Reset: true,
	}, SeedAdminDeps{AccountStore: store, Now: fixedNow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := acct.CheckPassword("another long password"); err != nil {
		t.Errorf("expected new password to verify: %v", err)
	}
}

func TestExecuteSeedAdmin_Errors(t *testing.T) {
	deps := SeedAdminDeps{AccountStore: newMockAccountStore(), Now: fixedNow}
	if _, err := ExecuteSeedAdmin(context.Background(), SeedAdminInput{Username: "admin"}, deps); !errors.Is(err, ErrAdminPasswordRequired) {
		t.Errorf("expected ErrAdminPasswordRequired, got %v", err)
	}
	if _, err := ExecuteSeedAdmin(context.Background(), SeedAdminInput{Username: "admin", Password: "short"}, deps); !errors.Is(err, account.ErrPasswordTooShort) {
		t.Errorf("expected ErrPasswordTooShort, got %v", err)
	}
}

package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"boetepot/internal/domain/account"
	"boetepot/internal/domain/dberr"
)

// AccountStoreForSeed defines the store interface needed by SeedAdmin.
type AccountStoreForSeed interface {
	GetByUsername(ctx context.Context, username string) (account.Account, error)
	Create(ctx context.Context, a account.Account) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// SeedAdminInput carries the configured admin credential.
type SeedAdminInput struct {
	Username string
	Password string
	// Reset overwrites the stored password with Password when the account exists.
	Reset bool
}

// SeedAdminDeps holds dependencies for SeedAdmin.
type SeedAdminDeps struct {
	AccountStore AccountStoreForSeed
	Now          func() time.Time
}

// ErrAdminPasswordRequired is returned when no admin exists and no password is configured.
var ErrAdminPasswordRequired = errors.New("no admin account exists: configure an admin password")

// ExecuteSeedAdmin makes sure the configured admin account exists.
// PRE: Username is non-empty
// POST: an account named Username exists; an existing password is only replaced when Reset is set
func ExecuteSeedAdmin(ctx context.Context, input SeedAdminInput, deps SeedAdminDeps) (account.Account, error) {
	username := strings.TrimSpace(input.Username)
	existing, err := deps.AccountStore.GetByUsername(ctx, username)
	switch {
	case err == nil:
		if !input.Reset || input.Password == "" {
			return existing, nil
		}
		if err := existing.SetPassword(input.Password); err != nil {
			return account.Account{}, err
		}
		existing.ResetFailedLogins()
		if err := deps.AccountStore.Save(ctx, existing); err != nil {
			return account.Account{}, fmt.Errorf("reset admin password: %w", err)
		}
		slog.Warn("auth_event", "event", "admin_password_reset", "username", username)
		return existing, nil
	case !dberr.IsNotFound(err):
		return account.Account{}, fmt.Errorf("load admin account: %w", err)
	}

	if input.Password == "" {
		return account.Account{}, ErrAdminPasswordRequired
	}
	acct := account.Account{Username: username, CreatedAt: deps.Now().UTC()}
	if err := acct.Validate(); err != nil {
		return account.Account{}, err
	}
	if err := acct.SetPassword(input.Password); err != nil {
		return account.Account{}, err
	}
	created, err := deps.AccountStore.Create(ctx, acct)
	if err != nil {
		return account.Account{}, fmt.Errorf("create admin account: %w", err)
	}
	slog.Info("auth_event", "event", "admin_seeded", "username", username)
	return created, nil
}

func isNotFound(err error) bool {
	return dberr.IsNotFound(err)
}

package account

import (
	"context"

	domain "boetepot/internal/domain/account"
)

// Store persists the admin Account.
type Store interface {
	GetByID(ctx context.Context, id int64) (domain.Account, error)
	GetByUsername(ctx context.Context, username string) (domain.Account, error)
	// Create inserts a new account and returns it with its id.
	Create(ctx context.Context, a domain.Account) (domain.Account, error)
	// Save updates password hash and lockout state of an existing account.
	Save(ctx context.Context, a domain.Account) error
	Count(ctx context.Context) (int, error)
}

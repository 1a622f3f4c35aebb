package account

import (
	"context"
	"database/sql"
	"time"

	"boetepot/internal/adapters/storage"
	domain "boetepot/internal/domain/account"
)

// SQLStore implements Store on the shared SQL handle.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new account store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

const selectAccount = "SELECT id, username, password_hash, created_at, failed_logins, locked_until FROM admin_account"

// GetByID retrieves an Account by its ID.
// PRE: id > 0
// POST: Returns the entity or a not-found error
func (s *SQLStore) GetByID(ctx context.Context, id int64) (domain.Account, error) {
	a, err := scanAccount(s.db.QueryRowContext(ctx, selectAccount+" WHERE id = ?", id).Scan)
	if err != nil {
		return domain.Account{}, storage.Classify("account.GetByID", err)
	}
	return a, nil
}

// GetByUsername retrieves an Account by username.
// PRE: username is non-empty
// POST: Returns the entity or a not-found error
func (s *SQLStore) GetByUsername(ctx context.Context, username string) (domain.Account, error) {
	a, err := scanAccount(s.db.QueryRowContext(ctx, selectAccount+" WHERE username = ?", username).Scan)
	if err != nil {
		return domain.Account{}, storage.Classify("account.GetByUsername", err)
	}
	return a, nil
}

// Create inserts a new account.
// PRE: a has been validated and has a password hash
// POST: Returns a with its assigned id, or a unique-violation error
func (s *SQLStore) Create(ctx context.Context, a domain.Account) (domain.Account, error) {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO admin_account (username, password_hash, created_at, failed_logins, locked_until)
		 VALUES (?, ?, ?, ?, ?) RETURNING id`,
		a.Username, a.PasswordHash, a.CreatedAt.UTC().Format(storage.TimestampLayout), a.FailedLogins, lockedUntil(a),
	).Scan(&a.ID)
	if err != nil {
		return domain.Account{}, storage.Classify("account.Create", err)
	}
	return a, nil
}

// Save persists mutable account state.
// PRE: a.ID identifies an existing account
// POST: password hash and lockout fields updated
func (s *SQLStore) Save(ctx context.Context, a domain.Account) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE admin_account SET password_hash = ?, failed_logins = ?, locked_until = ? WHERE id = ?",
		a.PasswordHash, a.FailedLogins, lockedUntil(a), a.ID)
	if err != nil {
		return storage.Classify("account.Save", err)
	}
	return storage.RequireOneRow("account.Save", res)
}

// Count returns the total number of accounts.
func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM admin_account").Scan(&count); err != nil {
		return 0, storage.Classify("account.Count", err)
	}
	return count, nil
}

func lockedUntil(a domain.Account) any {
	if a.LockedUntil.IsZero() {
		return nil
	}
	return a.LockedUntil.UTC().Format(storage.TimestampLayout)
}

// scanAccount extracts an Account from a row scanner function.
func scanAccount(scan func(dest ...any) error) (domain.Account, error) {
	var entity domain.Account
	var createdAt string
	var locked sql.NullString
	if err := scan(&entity.ID, &entity.Username, &entity.PasswordHash, &createdAt, &entity.FailedLogins, &locked); err != nil {
		return domain.Account{}, err
	}
	entity.CreatedAt, _ = time.Parse(storage.TimestampLayout, createdAt)
	if locked.Valid && locked.String != "" {
		entity.LockedUntil, _ = time.Parse(storage.TimestampLayout, locked.String)
	}
	return entity, nil
}

var _ Store = (*SQLStore)(nil)

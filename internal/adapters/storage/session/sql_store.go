package session

import (
	"context"
	"database/sql"
	"time"

	"boetepot/internal/adapters/storage"
	domain "boetepot/internal/domain/session"
)

// SQLStore implements Store on the shared SQL handle.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new session store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(storage.TimestampLayout)
}

// Create persists a new session.
// PRE: s was built by domain.New
// POST: Session row exists
func (s *SQLStore) Create(ctx context.Context, sess domain.Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO admin_session (id, account_id, username, created_at, expires_at, ip_address, user_agent)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.AccountID, sess.Username, formatTime(sess.CreatedAt), formatTime(sess.ExpiresAt), sess.IPAddress, sess.UserAgent)
	return storage.Classify("session.Create", err)
}

// GetByID loads a session, including revoked and expired ones.
// POST: Returns the session or a not-found error
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, account_id, username, created_at, expires_at, revoked_at, ip_address, user_agent
		 FROM admin_session WHERE id = ?`, id)
	var sess domain.Session
	var createdAt, expiresAt string
	var revokedAt sql.NullString
	if err := row.Scan(&sess.ID, &sess.AccountID, &sess.Username, &createdAt, &expiresAt, &revokedAt, &sess.IPAddress, &sess.UserAgent); err != nil {
		return domain.Session{}, storage.Classify("session.GetByID", err)
	}
	sess.CreatedAt, _ = time.Parse(storage.TimestampLayout, createdAt)
	sess.ExpiresAt, _ = time.Parse(storage.TimestampLayout, expiresAt)
	if revokedAt.Valid {
		t, err := time.Parse(storage.TimestampLayout, revokedAt.String)
		if err == nil {
			sess.RevokedAt = &t
		}
	}
	return sess, nil
}

// Revoke stamps revoked_at once; later calls keep the first timestamp.
func (s *SQLStore) Revoke(ctx context.Context, id string, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE admin_session SET revoked_at = COALESCE(revoked_at, ?) WHERE id = ?", formatTime(at), id)
	if err != nil {
		return storage.Classify("session.Revoke", err)
	}
	return storage.RequireOneRow("session.Revoke", res)
}

// DeleteExpired removes sessions that can no longer authenticate.
// POST: returns the number of removed rows
func (s *SQLStore) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	c := formatTime(cutoff)
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM admin_session WHERE expires_at < ? OR (revoked_at IS NOT NULL AND revoked_at < ?)", c, c)
	if err != nil {
		return 0, storage.Classify("session.DeleteExpired", err)
	}
	n, err := res.RowsAffected()
	return n, storage.Classify("session.DeleteExpired", err)
}

var _ Store = (*SQLStore)(nil)

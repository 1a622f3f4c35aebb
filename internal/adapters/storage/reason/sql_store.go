package reason

import (
	"context"
	"time"

	"boetepot/internal/adapters/storage"
	"boetepot/internal/domain/money"
	domain "boetepot/internal/domain/reason"
)

// SQLStore implements Store on the shared SQL handle.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new reason store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

const selectReason = "SELECT id, description, amount, created_at FROM reasons"

// List returns all reasons ordered by description.
func (s *SQLStore) List(ctx context.Context) ([]domain.Reason, error) {
	rows, err := s.db.QueryContext(ctx, selectReason+" ORDER BY description, id")
	if err != nil {
		return nil, storage.Classify("reason.List", err)
	}
	defer rows.Close()

	reasons := []domain.Reason{}
	for rows.Next() {
		r, err := scanReason(rows.Scan)
		if err != nil {
			return nil, storage.Classify("reason.List", err)
		}
		reasons = append(reasons, r)
	}
	return reasons, storage.Classify("reason.List", rows.Err())
}

// GetByID retrieves a Reason by its ID.
// PRE: id > 0
// POST: Returns the reason or a not-found error
func (s *SQLStore) GetByID(ctx context.Context, id int64) (domain.Reason, error) {
	r, err := scanReason(s.db.QueryRowContext(ctx, selectReason+" WHERE id = ?", id).Scan)
	if err != nil {
		return domain.Reason{}, storage.Classify("reason.GetByID", err)
	}
	return r, nil
}

// InsertBatch inserts every reason in one transaction.
// PRE: every reason has been validated
// POST: all rows are committed, or none are and the classified error is returned
func (s *SQLStore) InsertBatch(ctx context.Context, reasons []domain.Reason) ([]domain.Reason, error) {
	const op = "reason.InsertBatch"
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storage.Classify(op, err)
	}
	defer tx.Rollback()

	query := storage.Rebind(s.db, "INSERT INTO reasons (description, amount, created_at) VALUES (?, ?, ?) RETURNING id")
	out := make([]domain.Reason, len(reasons))
	for i, r := range reasons {
		err := tx.QueryRowContext(ctx, query, r.Description, int64(r.Amount), r.CreatedAt.UTC().Format(storage.TimestampLayout)).Scan(&r.ID)
		if err != nil {
			return nil, storage.Classify(op, err)
		}
		out[i] = r
	}
	if err := tx.Commit(); err != nil {
		return nil, storage.Classify(op, err)
	}
	return out, nil
}

// Update replaces a reason's description and default amount.
// PRE: r has been validated
// POST: Row updated, or a not-found / unique-violation error
func (s *SQLStore) Update(ctx context.Context, r domain.Reason) error {
	res, err := s.db.ExecContext(ctx, "UPDATE reasons SET description = ?, amount = ? WHERE id = ?", r.Description, int64(r.Amount), r.ID)
	if err != nil {
		return storage.Classify("reason.Update", err)
	}
	return storage.RequireOneRow("reason.Update", res)
}

// Delete removes a reason that no fine references.
// POST: Row removed, or a not-found / referential-violation error and the row remains
func (s *SQLStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM reasons WHERE id = ?", id)
	if err != nil {
		return storage.Classify("reason.Delete", err)
	}
	return storage.RequireOneRow("reason.Delete", res)
}

// Count returns the number of reasons.
func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reasons").Scan(&n); err != nil {
		return 0, storage.Classify("reason.Count", err)
	}
	return n, nil
}

func scanReason(scan func(dest ...any) error) (domain.Reason, error) {
	var r domain.Reason
	var amount int64
	var createdAt string
	if err := scan(&r.ID, &r.Description, &amount, &createdAt); err != nil {
		return domain.Reason{}, err
	}
	r.Amount = money.Cents(amount)
	r.CreatedAt, _ = time.Parse(storage.TimestampLayout, createdAt)
	return r, nil
}

var _ Store = (*SQLStore)(nil)

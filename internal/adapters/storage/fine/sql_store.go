package fine

import (
	"context"
	"strings"
	"time"

	"boetepot/internal/adapters/storage"
	domain "boetepot/internal/domain/fine"
	"boetepot/internal/domain/money"
)

// SQLStore implements Store on the shared SQL handle.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new fine store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

const selectView = `SELECT f.id, f.player_id, p.name, f.reason_id, r.description, f.amount, f.date, f.admin_notes
	FROM fines f
	JOIN players p ON p.id = f.player_id
	JOIN reasons r ON r.id = f.reason_id`

// where builds the WHERE clause for a filter.
func (f ListFilter) where() (string, []any) {
	var conds []string
	var args []any
	if f.PlayerID > 0 {
		conds = append(conds, "f.player_id = ?")
		args = append(args, f.PlayerID)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// GetByID retrieves a Fine by its ID.
// PRE: id > 0
// POST: Returns the fine or a not-found error
func (s *SQLStore) GetByID(ctx context.Context, id int64) (domain.Fine, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, player_id, reason_id, amount, date, admin_notes, created_at FROM fines WHERE id = ?", id)
	var f domain.Fine
	var amount int64
	var date, createdAt string
	if err := row.Scan(&f.ID, &f.PlayerID, &f.ReasonID, &amount, &date, &f.AdminNotes, &createdAt); err != nil {
		return domain.Fine{}, storage.Classify("fine.GetByID", err)
	}
	f.Amount = money.Cents(amount)
	f.Date, _ = time.Parse(domain.DateLayout, date)
	f.CreatedAt, _ = time.Parse(storage.TimestampLayout, createdAt)
	return f, nil
}

// ListViews returns joined fine rows matching filter.
// POST: ordered by date desc, id desc; Limit 0 returns every row
func (s *SQLStore) ListViews(ctx context.Context, filter ListFilter) ([]domain.View, error) {
	where, args := filter.where()
	query := selectView + where + " ORDER BY f.date DESC, f.id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storage.Classify("fine.ListViews", err)
	}
	defer rows.Close()

	views := []domain.View{}
	for rows.Next() {
		var v domain.View
		var amount int64
		var date string
		if err := rows.Scan(&v.ID, &v.PlayerID, &v.PlayerName, &v.ReasonID, &v.ReasonDescription, &amount, &date, &v.AdminNotes); err != nil {
			return nil, storage.Classify("fine.ListViews", err)
		}
		v.Amount = money.Cents(amount)
		v.Date, _ = time.Parse(domain.DateLayout, date)
		views = append(views, v)
	}
	return views, storage.Classify("fine.ListViews", rows.Err())
}

// CountViews returns the number of fines matching filter, ignoring Limit and Offset.
func (s *SQLStore) CountViews(ctx context.Context, filter ListFilter) (int, error) {
	where, args := filter.where()
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM fines f"+where, args...).Scan(&n); err != nil {
		return 0, storage.Classify("fine.CountViews", err)
	}
	return n, nil
}

// Total sums fine amounts matching filter, ignoring Limit and Offset.
// POST: 0 when no rows match
func (s *SQLStore) Total(ctx context.Context, filter ListFilter) (money.Cents, error) {
	where, args := filter.where()
	var total int64
	if err := s.db.QueryRowContext(ctx, "SELECT COALESCE(SUM(f.amount), 0) FROM fines f"+where, args...).Scan(&total); err != nil {
		return 0, storage.Classify("fine.Total", err)
	}
	return money.Cents(total), nil
}

// InsertBatch inserts every fine in one transaction.
// PRE: every fine has been validated
// POST: all rows are committed, or none are and the classified error is returned
func (s *SQLStore) InsertBatch(ctx context.Context, fines []domain.Fine) ([]domain.Fine, error) {
	const op = "fine.InsertBatch"
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storage.Classify(op, err)
	}
	defer tx.Rollback()

	query := storage.Rebind(s.db, `INSERT INTO fines (player_id, reason_id, amount, date, admin_notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`)
	out := make([]domain.Fine, len(fines))
	for i, f := range fines {
		err := tx.QueryRowContext(ctx, query,
			f.PlayerID, f.ReasonID, int64(f.Amount), f.Date.Format(domain.DateLayout), f.AdminNotes,
			f.CreatedAt.UTC().Format(storage.TimestampLayout),
		).Scan(&f.ID)
		if err != nil {
			return nil, storage.Classify(op, err)
		}
		out[i] = f
	}
	if err := tx.Commit(); err != nil {
		return nil, storage.Classify(op, err)
	}
	return out, nil
}

// Update replaces every editable field of a fine.
// PRE: f has been validated
// POST: Row updated, or a not-found / referential-violation error
func (s *SQLStore) Update(ctx context.Context, f domain.Fine) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE fines SET player_id = ?, reason_id = ?, amount = ?, date = ?, admin_notes = ? WHERE id = ?",
		f.PlayerID, f.ReasonID, int64(f.Amount), f.Date.Format(domain.DateLayout), f.AdminNotes, f.ID)
	if err != nil {
		return storage.Classify("fine.Update", err)
	}
	return storage.RequireOneRow("fine.Update", res)
}

// Delete removes one fine.
// POST: Row removed, or a not-found error
func (s *SQLStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM fines WHERE id = ?", id)
	if err != nil {
		return storage.Classify("fine.Delete", err)
	}
	return storage.RequireOneRow("fine.Delete", res)
}

// DeleteAll removes every fine.
// POST: fines table is empty; returns the number of removed rows
func (s *SQLStore) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM fines")
	if err != nil {
		return 0, storage.Classify("fine.DeleteAll", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storage.Classify("fine.DeleteAll", err)
	}
	return n, nil
}

var _ Store = (*SQLStore)(nil)

package player

import (
	"context"
	"time"

	"boetepot/internal/adapters/storage"
	domain "boetepot/internal/domain/player"
)

// SQLStore implements Store on the shared SQL handle.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new player store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// List returns all players ordered by name.
// POST: Returns a possibly empty slice
func (s *SQLStore) List(ctx context.Context) ([]domain.Player, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, created_at FROM players ORDER BY name, id")
	if err != nil {
		return nil, storage.Classify("player.List", err)
	}
	defer rows.Close()

	players := []domain.Player{}
	for rows.Next() {
		p, err := scanPlayer(rows.Scan)
		if err != nil {
			return nil, storage.Classify("player.List", err)
		}
		players = append(players, p)
	}
	return players, storage.Classify("player.List", rows.Err())
}

// GetByID retrieves a Player by its ID.
// PRE: id > 0
// POST: Returns the player or a not-found error
func (s *SQLStore) GetByID(ctx context.Context, id int64) (domain.Player, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, name, created_at FROM players WHERE id = ?", id)
	p, err := scanPlayer(row.Scan)
	if err != nil {
		return domain.Player{}, storage.Classify("player.GetByID", err)
	}
	return p, nil
}

// InsertBatch inserts every player in one transaction.
// PRE: every player has been validated
// POST: all rows are committed, or none are and the classified error is returned
func (s *SQLStore) InsertBatch(ctx context.Context, players []domain.Player) ([]domain.Player, error) {
	const op = "player.InsertBatch"
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storage.Classify(op, err)
	}
	defer tx.Rollback()

	query := storage.Rebind(s.db, "INSERT INTO players (name, created_at) VALUES (?, ?) RETURNING id")
	out := make([]domain.Player, len(players))
	for i, p := range players {
		if err := tx.QueryRowContext(ctx, query, p.Name, p.CreatedAt.UTC().Format(storage.TimestampLayout)).Scan(&p.ID); err != nil {
			return nil, storage.Classify(op, err)
		}
		out[i] = p
	}
	if err := tx.Commit(); err != nil {
		return nil, storage.Classify(op, err)
	}
	return out, nil
}

// Update replaces a player's name.
// PRE: p has been validated
// POST: Name updated, or a not-found / unique-violation error
func (s *SQLStore) Update(ctx context.Context, p domain.Player) error {
	res, err := s.db.ExecContext(ctx, "UPDATE players SET name = ? WHERE id = ?", p.Name, p.ID)
	if err != nil {
		return storage.Classify("player.Update", err)
	}
	return storage.RequireOneRow("player.Update", res)
}

// Delete removes a player that no fine references.
// POST: Row removed, or a not-found / referential-violation error and the row remains
func (s *SQLStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM players WHERE id = ?", id)
	if err != nil {
		return storage.Classify("player.Delete", err)
	}
	return storage.RequireOneRow("player.Delete", res)
}

// Count returns the number of players.
func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM players").Scan(&n); err != nil {
		return 0, storage.Classify("player.Count", err)
	}
	return n, nil
}

func scanPlayer(scan func(dest ...any) error) (domain.Player, error) {
	var p domain.Player
	var createdAt string
	if err := scan(&p.ID, &p.Name, &createdAt); err != nil {
		return domain.Player{}, err
	}
	p.CreatedAt, _ = time.Parse(storage.TimestampLayout, createdAt)
	return p, nil
}

var _ Store = (*SQLStore)(nil)

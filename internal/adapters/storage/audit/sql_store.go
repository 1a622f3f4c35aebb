package audit

import (
	"context"
	"time"

	"boetepot/internal/adapters/storage"
	domain "boetepot/internal/domain/audit"
)

// SQLStore implements the audit Store interface.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new audit event store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

const selectEvent = `SELECT id, timestamp, category, action, severity, actor, resource_type, resource_id, description, ip_address, user_agent FROM audit_event`

// Save persists an audit event.
// PRE: event is valid
// POST: Event is persisted
func (s *SQLStore) Save(ctx context.Context, event domain.Event) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_event (id, timestamp, category, action, severity, actor, resource_type, resource_id, description, ip_address, user_agent)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.Timestamp.UTC().Format(storage.TimestampLayout), string(event.Category), string(event.Action),
		string(event.Severity), event.Actor, event.ResourceType, event.ResourceID, event.Description,
		event.IPAddress, event.UserAgent)
	return storage.Classify("audit.Save", err)
}

// List returns audit events with optional filtering.
// PRE: limit > 0
// POST: Returns events ordered by timestamp desc
func (s *SQLStore) List(ctx context.Context, filter Filter, limit int) ([]domain.Event, error) {
	query := selectEvent + " WHERE 1=1"
	args := []any{}

	if filter.Category != nil {
		query += " AND category = ?"
		args = append(args, string(*filter.Category))
	}
	if filter.Action != nil {
		query += " AND action = ?"
		args = append(args, string(*filter.Action))
	}
	if filter.Actor != nil {
		query += " AND actor = ?"
		args = append(args, *filter.Actor)
	}

	query += " ORDER BY timestamp DESC, id LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storage.Classify("audit.List", err)
	}
	defer rows.Close()

	events := []domain.Event{}
	for rows.Next() {
		e, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, storage.Classify("audit.List", err)
		}
		events = append(events, e)
	}
	return events, storage.Classify("audit.List", rows.Err())
}

// GetByID retrieves a specific audit event.
// PRE: id is non-empty
// POST: Returns the event or a not-found error
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Event, error) {
	e, err := scanEvent(s.db.QueryRowContext(ctx, selectEvent+" WHERE id = ?", id).Scan)
	if err != nil {
		return domain.Event{}, storage.Classify("audit.GetByID", err)
	}
	return e, nil
}

// scanEvent scans a single row into an Event.
func scanEvent(scan func(dest ...any) error) (domain.Event, error) {
	var e domain.Event
	var timestamp string
	err := scan(&e.ID, &timestamp, &e.Category, &e.Action, &e.Severity, &e.Actor, &e.ResourceType, &e.ResourceID, &e.Description, &e.IPAddress, &e.UserAgent)
	if err != nil {
		return domain.Event{}, err
	}
	e.Timestamp, _ = time.Parse(storage.TimestampLayout, timestamp)
	return e, nil
}

// Ensure SQLStore implements Store interface.
var _ Store = (*SQLStore)(nil)

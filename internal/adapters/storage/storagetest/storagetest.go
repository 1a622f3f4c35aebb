// Package storagetest opens migrated in-memory databases for store tests.
package storagetest

import (
	"context"
	"testing"

	"boetepot/internal/adapters/http/perf"
	"boetepot/internal/adapters/storage"
)

// Open returns a migrated, isolated in-memory SQLite database wrapped in a TimedDB.
// The database is closed when the test ends.
func Open(t testing.TB) *storage.TimedDB {
	t.Helper()
	ctx := context.Background()
	db, err := storage.Open(ctx, storage.DialectSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := storage.MigrateDB(ctx, db, storage.DialectSQLite); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return storage.NewTimedDB(db, storage.DialectSQLite, storage.TimedDBOptions{Collector: perf.NewCollector(100)})
}

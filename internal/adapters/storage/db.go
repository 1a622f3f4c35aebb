package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// DefaultSQLiteDSN enables WAL, foreign keys and a busy timeout on every connection.
const DefaultSQLiteDSN = "boetepot.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"

// Open connects to the database and verifies it is reachable.
// PRE: dsn is a driver-specific connection string
// POST: Returns a pooled, pinged *sql.DB
func Open(ctx context.Context, d Dialect, dsn string) (*sql.DB, error) {
	if d == DialectSQLite {
		dsn = withSQLitePragmas(dsn)
	}
	db, err := sql.Open(d.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d, err)
	}

	switch d {
	case DialectSQLite:
		if strings.Contains(dsn, ":memory:") {
			// each connection would get its own empty database
			db.SetMaxOpenConns(1)
		} else {
			db.SetMaxOpenConns(10)
			db.SetMaxIdleConns(10)
		}
	case DialectPostgres:
		db.SetMaxOpenConns(20)
		db.SetMaxIdleConns(10)
		db.SetConnMaxIdleTime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", d, err)
	}
	return db, nil
}

// withSQLitePragmas ensures foreign key enforcement is requested in the DSN.
func withSQLitePragmas(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)"
}

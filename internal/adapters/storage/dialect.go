package storage

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownDialect is returned for a database driver name that is not supported.
var ErrUnknownDialect = errors.New("unsupported database dialect")

// Dialect names a supported SQL backend.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// ParseDialect maps a configuration value to a Dialect.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "postgres", "postgresql", "pg":
		return DialectPostgres, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownDialect, s)
	}
}

// DriverName returns the database/sql driver registered for d.
func (d Dialect) DriverName() string {
	if d == DialectPostgres {
		return "postgres"
	}
	return "sqlite"
}

// Rebind rewrites ? placeholders to $1..$n for postgres.
// Question marks inside single-quoted literals are left alone.
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres || !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

type dialecter interface {
	Dialect() Dialect
}

// Rebind rewrites query for db's dialect. Stores use it for statements
// executed on a *sql.Tx, which bypasses TimedDB's own rebinding.
func Rebind(db SQLDB, query string) string {
	if d, ok := db.(dialecter); ok {
		return d.Dialect().Rebind(query)
	}
	return query
}

// TimestampLayout is how timestamp columns are stored. Values are written in
// UTC with fixed-width fractions so text comparison matches time order.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

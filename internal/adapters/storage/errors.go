package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"boetepot/internal/domain/dberr"
)

// Classify wraps a driver error in a *dberr.Error carrying its Kind.
// PRE: op names the store operation, e.g. "player.Delete"
// POST: nil stays nil; already-classified errors pass through unchanged
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var classified *dberr.Error
	if errors.As(err, &classified) {
		return err
	}
	return dberr.New(kindOf(err), op, err)
}

func kindOf(err error) dberr.Kind {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return dberr.KindNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, driver.ErrBadConn), errors.Is(err, sql.ErrConnDone):
		return dberr.KindTransient
	}

	var se *sqlite.Error
	if errors.As(err, &se) {
		return sqliteKind(se.Code())
	}
	var pe *pq.Error
	if errors.As(err, &pe) {
		return postgresKind(pe.Code)
	}
	return dberr.KindUnknown
}

func sqliteKind(code int) dberr.Kind {
	switch code {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return dberr.KindUniqueViolation
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return dberr.KindReferentialViolation
	}
	// extended codes carry the primary code in the low byte
	switch code & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return dberr.KindTransient
	}
	return dberr.KindUnknown
}

func postgresKind(code pq.ErrorCode) dberr.Kind {
	switch code {
	case "23505":
		return dberr.KindUniqueViolation
	case "23503":
		return dberr.KindReferentialViolation
	case "40001", "40P01", "55P03", "57P01":
		return dberr.KindTransient
	}
	if code.Class() == "08" {
		return dberr.KindTransient
	}
	return dberr.KindUnknown
}

// RequireOneRow turns a zero-row UPDATE or DELETE into a not-found error.
func RequireOneRow(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return Classify(op, err)
	}
	if n == 0 {
		return dberr.NotFound(op)
	}
	return nil
}

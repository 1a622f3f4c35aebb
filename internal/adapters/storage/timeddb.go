package storage

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"boetepot/internal/adapters/http/perf"
)

// SQLDB is the database interface used by all stores.
// Both *sql.DB and *TimedDB satisfy this interface.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Compile-time check that *sql.DB satisfies SQLDB.
var _ SQLDB = (*sql.DB)(nil)

// DefaultSlowQueryMs is the default threshold for slow query warnings.
const DefaultSlowQueryMs = 50

// TimedDB wraps a *sql.DB to rebind placeholders for its dialect, log slow
// queries, and record each statement to the perf collector, Prometheus and
// the active trace.
type TimedDB struct {
	db        *sql.DB
	dialect   Dialect
	collector *perf.Collector
	metrics   *perf.Metrics
	tracer    trace.Tracer
	threshold float64
}

// Compile-time check that *TimedDB satisfies SQLDB.
var _ SQLDB = (*TimedDB)(nil)

// TimedDBOptions configures NewTimedDB. Zero values disable the matching sink.
type TimedDBOptions struct {
	Collector   *perf.Collector
	Metrics     *perf.Metrics
	SlowQueryMs int
}

// NewTimedDB wraps a *sql.DB with timing instrumentation.
// PRE: db is a valid database connection for dialect d
// POST: Returns a TimedDB ready to hand to store constructors
func NewTimedDB(db *sql.DB, d Dialect, opts TimedDBOptions) *TimedDB {
	threshold := opts.SlowQueryMs
	if threshold <= 0 {
		threshold = DefaultSlowQueryMs
	}
	return &TimedDB{
		db:        db,
		dialect:   d,
		collector: opts.Collector,
		metrics:   opts.Metrics,
		tracer:    otel.Tracer("boetepot/storage"),
		threshold: float64(threshold),
	}
}

// RawDB returns the underlying *sql.DB (needed for migrations).
func (t *TimedDB) RawDB() *sql.DB {
	return t.db
}

// Dialect returns the backend this handle talks to.
func (t *TimedDB) Dialect() Dialect {
	return t.dialect
}

func (t *TimedDB) startSpan(ctx context.Context, label string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "db "+label,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", string(t.dialect)),
			attribute.String("db.operation", label),
		))
}

// observe logs and records one statement timing.
func (t *TimedDB) observe(span trace.Span, label string, start time.Time, err error) {
	elapsed := time.Since(start)
	durationMs := float64(elapsed.Microseconds()) / 1000.0
	failed := err != nil && !errors.Is(err, sql.ErrNoRows)

	if failed {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()

	if durationMs >= t.threshold {
		slog.Warn("slow_query", "statement", label, "duration_ms", durationMs)
	} else {
		slog.Debug("query", "statement", label, "duration_ms", durationMs)
	}

	t.metrics.ObserveQuery(label, failed, elapsed.Seconds())
	if t.collector != nil {
		t.collector.Record(perf.Entry{
			Kind:       perf.KindQuery,
			Path:       label,
			Failed:     failed,
			DurationMs: durationMs,
			Timestamp:  start,
		})
	}
}

// ExecContext wraps sql.DB.ExecContext with rebinding and timing.
func (t *TimedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	label := perf.QueryLabel(query)
	ctx, span := t.startSpan(ctx, label)
	start := time.Now()
	result, err := t.db.ExecContext(ctx, t.dialect.Rebind(query), args...)
	t.observe(span, label, start, err)
	return result, err
}

// QueryContext wraps sql.DB.QueryContext with rebinding and timing.
func (t *TimedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	label := perf.QueryLabel(query)
	ctx, span := t.startSpan(ctx, label)
	start := time.Now()
	rows, err := t.db.QueryContext(ctx, t.dialect.Rebind(query), args...)
	t.observe(span, label, start, err)
	return rows, err
}

// QueryRowContext wraps sql.DB.QueryRowContext with rebinding and timing.
// Errors surface on Scan, so the recorded outcome is always ok.
func (t *TimedDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	label := perf.QueryLabel(query)
	ctx, span := t.startSpan(ctx, label)
	start := time.Now()
	row := t.db.QueryRowContext(ctx, t.dialect.Rebind(query), args...)
	t.observe(span, label, start, row.Err())
	return row
}

// BeginTx wraps sql.DB.BeginTx with timing.
func (t *TimedDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	ctx, span := t.startSpan(ctx, "BEGIN")
	start := time.Now()
	tx, err := t.db.BeginTx(ctx, opts)
	t.observe(span, "BEGIN", start, err)
	return tx, err
}

// PingContext verifies the database connection.
func (t *TimedDB) PingContext(ctx context.Context) error {
	return t.db.PingContext(ctx)
}

// Close closes the underlying database connection.
func (t *TimedDB) Close() error {
	return t.db.Close()
}

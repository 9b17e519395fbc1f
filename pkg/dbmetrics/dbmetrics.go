package dbmetrics

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/velokitchen/VK-BookingService/pkg/metrics"
)

// DBExecutor is the query surface shared by *sql.DB, *sql.Tx and the
// metrics-wrapped DB. Repositories depend on this interface only.
type DBExecutor interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// TxExecutor is a DBExecutor bound to an open transaction.
type TxExecutor interface {
	DBExecutor
	Commit() error
	Rollback() error
}

type ctxKey struct{}

// WithExecutor returns a context carrying an active transaction executor.
// Repositories pick it up through GetExecutor, so the same repository code
// runs inside and outside a transaction.
func WithExecutor(ctx context.Context, exec DBExecutor) context.Context {
	return context.WithValue(ctx, ctxKey{}, exec)
}

// GetExecutor returns the transaction executor from the context, or the
// fallback when no transaction is active.
func GetExecutor(ctx context.Context, fallback DBExecutor) DBExecutor {
	if exec, ok := ctx.Value(ctxKey{}).(DBExecutor); ok {
		return exec
	}
	return fallback
}

// IsInTransaction reports whether the context carries a transaction executor.
func IsInTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(ctxKey{}).(DBExecutor)
	return ok
}

// DB wraps *sql.DB and records query durations and connection pool stats.
type DB struct {
	db      *sql.DB
	metrics *metrics.Metrics
	service string
}

// Wrap wraps db with metrics collection.
func Wrap(db *sql.DB, m *metrics.Metrics, service string) *DB {
	return &DB{db: db, metrics: m, service: service}
}

// WrapWithDefault wraps db and starts a background collector for connection
// pool stats. The collector stops when stopCh is closed.
func WrapWithDefault(db *sql.DB, m *metrics.Metrics, service string, stopCh <-chan struct{}) *DB {
	wrapped := Wrap(db, m, service)
	go wrapped.collectPoolStats(10*time.Second, stopCh)
	return wrapped
}

func (d *DB) collectPoolStats(interval time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			d.metrics.SetDBPoolStats(d.service, d.db.Stats())
		}
	}
}

// queryOp extracts the leading SQL verb for the metric label.
func queryOp(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToLower(fields[0])
}

func (d *DB) observe(query string, start time.Time) {
	d.metrics.ObserveDBQuery(d.service, queryOp(query), time.Since(start))
}

// QueryRowContext runs a single-row query with timing.
func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := d.db.QueryRowContext(ctx, query, args...)
	d.observe(query, start)
	return row
}

// QueryContext runs a multi-row query with timing.
func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.db.QueryContext(ctx, query, args...)
	d.observe(query, start)
	return rows, err
}

// ExecContext runs a statement with timing.
func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := d.db.ExecContext(ctx, query, args...)
	d.observe(query, start)
	return res, err
}

// BeginTx opens a transaction on the underlying database.
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error) {
	return d.db.BeginTx(ctx, opts)
}

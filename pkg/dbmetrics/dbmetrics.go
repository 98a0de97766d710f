package dbmetrics

import (
	"context"
	"database/sql"
	"time"

	"github.com/vmezhova/SLN-BookingEngine/pkg/metrics"
)

// DBExecutor минимальный интерфейс выполнения запросов
// Реализуется *sql.DB, *sql.Tx, *DB и *Tx
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// TxExecutor исполнитель запросов внутри транзакции
type TxExecutor interface {
	DBExecutor
	Commit() error
	Rollback() error
}

type ctxKey int

const (
	txKey ctxKey = iota
)

// WithTx кладет активную транзакцию в контекст
// Репозитории достают её через GetExecutor
func WithTx(ctx context.Context, tx TxExecutor) context.Context {
	return context.WithValue(ctx, txKey, tx)
}

// GetExecutor возвращает транзакцию из контекста, если она есть, иначе fallback
func GetExecutor(ctx context.Context, fallback DBExecutor) DBExecutor {
	if tx, ok := ctx.Value(txKey).(TxExecutor); ok {
		return tx
	}
	return fallback
}

// IsInTransaction возвращает true, если в контексте есть активная транзакция
func IsInTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(txKey).(TxExecutor)
	return ok
}

// DB обертка над *sql.DB, собирающая метрики выполнения запросов
type DB struct {
	db      *sql.DB
	metrics *metrics.Metrics
}

// Wrap оборачивает *sql.DB сбором метрик запросов
func Wrap(db *sql.DB, m *metrics.Metrics) *DB {
	return &DB{db: db, metrics: m}
}

// WrapWithDefault оборачивает *sql.DB и запускает периодический сбор метрик connection pool
// Сбор останавливается при закрытии stopCh
func WrapWithDefault(db *sql.DB, m *metrics.Metrics, serviceName string, stopCh <-chan struct{}) *DB {
	wrapped := Wrap(db, m)
	go wrapped.collectPoolStats(stopCh)
	return wrapped
}

func (d *DB) collectPoolStats(stopCh <-chan struct{}) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			stats := d.db.Stats()
			d.metrics.DBConnectionsOpen.Set(float64(stats.OpenConnections))
			d.metrics.DBConnectionsIdle.Set(float64(stats.Idle))
			d.metrics.DBConnectionsInUse.Set(float64(stats.InUse))
		}
	}
}

func (d *DB) observe(operation string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	d.metrics.DBQueriesTotal.WithLabelValues(operation, status).Inc()
	d.metrics.DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// ExecContext выполняет запрос без результата, замеряя длительность
func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := d.db.ExecContext(ctx, query, args...)
	d.observe("exec", start, err)
	return res, err
}

// QueryContext выполняет запрос с множеством строк, замеряя длительность
func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.db.QueryContext(ctx, query, args...)
	d.observe("query", start, err)
	return rows, err
}

// QueryRowContext выполняет запрос с одной строкой, замеряя длительность
func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := d.db.QueryRowContext(ctx, query, args...)
	d.observe("query_row", start, nil)
	return row
}

// BeginTx начинает транзакцию; запросы внутри неё также попадают в метрики
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error) {
	start := time.Now()
	tx, err := d.db.BeginTx(ctx, opts)
	d.observe("begin_tx", start, err)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx, metrics: d.metrics}, nil
}

// Tx транзакция с метриками
type Tx struct {
	tx      *sql.Tx
	metrics *metrics.Metrics
}

func (t *Tx) observe(operation string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	t.metrics.DBQueriesTotal.WithLabelValues(operation, status).Inc()
	t.metrics.DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// ExecContext выполняет запрос в транзакции
func (t *Tx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := t.tx.ExecContext(ctx, query, args...)
	t.observe("tx_exec", start, err)
	return res, err
}

// QueryContext выполняет запрос в транзакции
func (t *Tx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.tx.QueryContext(ctx, query, args...)
	t.observe("tx_query", start, err)
	return rows, err
}

// QueryRowContext выполняет запрос в транзакции
func (t *Tx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := t.tx.QueryRowContext(ctx, query, args...)
	t.observe("tx_query_row", start, nil)
	return row
}

// Commit фиксирует транзакцию
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback откатывает транзакцию
func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

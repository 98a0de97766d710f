package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/vmezhova/SLN-BookingEngine/pkg/dbmetrics"
)

// pgSerializationFailure код ошибки PostgreSQL при конфликте сериализуемых транзакций
const pgSerializationFailure = "40001"

// maxRetries максимальное число повторов сериализуемой транзакции
const maxRetries = 3

// ErrTxFailed возвращается, когда транзакция не смогла завершиться
var ErrTxFailed = errors.New("txmanager: transaction failed")

// TransactionManager менеджер сериализуемых транзакций поверх *dbmetrics.DB
type TransactionManager struct {
	db *dbmetrics.DB
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db *dbmetrics.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// DoSerializable выполняет fn внутри транзакции с уровнем изоляции SERIALIZABLE
// Транзакция кладется в контекст, репозитории достают её через dbmetrics.GetExecutor
// При конфликте сериализации (40001) транзакция повторяется до maxRetries раз
// Бизнес-ошибки из fn не повторяются и возвращаются как есть
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		err := m.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if !IsSerializationFailure(err) {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("%w: retries exhausted: %v", ErrTxFailed, lastErr)
}

func (m *TransactionManager) runOnce(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrTxFailed, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		// Конфликт сериализации чаще всего всплывает именно на COMMIT;
		// причина оборачивается через %w, чтобы цикл повторов её увидел
		return fmt.Errorf("%w: commit: %w", ErrTxFailed, err)
	}

	return nil
}

// IsSerializationFailure возвращает true для ошибки конфликта сериализации PostgreSQL
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgSerializationFailure
	}
	return false
}

package simpletxmanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vmezhova/SLN-BookingEngine/pkg/dbmetrics"
	"github.com/vmezhova/SLN-BookingEngine/pkg/txmanager"
)

// maxRetries максимальное число повторов сериализуемой транзакции
const maxRetries = 3

// TransactionManager менеджер сериализуемых транзакций поверх *sql.DB (без метрик)
type TransactionManager struct {
	db *sql.DB
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db *sql.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// DoSerializable выполняет fn внутри транзакции SERIALIZABLE с повтором при конфликтах сериализации
// Семантика идентична txmanager.TransactionManager
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		err := m.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if !txmanager.IsSerializationFailure(err) {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("%w: retries exhausted: %v", txmanager.ErrTxFailed, lastErr)
}

func (m *TransactionManager) runOnce(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("%w: begin: %v", txmanager.ErrTxFailed, err)
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
		return fmt.Errorf("%w: commit: %w", txmanager.ErrTxFailed, err)
	}

	return nil
}

package txmanager

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsSerializationFailure(t *testing.T) {
	conflict := &pq.Error{Code: "40001"}

	assert.True(t, IsSerializationFailure(conflict))

	assert.False(t, IsSerializationFailure(nil))
	assert.False(t, IsSerializationFailure(errors.New("plain error")))
	assert.False(t, IsSerializationFailure(&pq.Error{Code: "23505"}))
}

// Конфликт сериализации должен распознаваться сквозь все обёртки,
// которые ошибка проходит по пути от драйвера до менеджера транзакций
func TestIsSerializationFailure_ThroughWrapping(t *testing.T) {
	conflict := &pq.Error{Code: "40001"}

	errExecQuery := errors.New("repo: exec query")
	errInternal := errors.New("usecase: internal error")

	repoErr := fmt.Errorf("%w: GetOccupying - execute query: %w", errExecQuery, conflict)
	usecaseErr := fmt.Errorf("%w: failed to get occupying appointments: %w", errInternal, repoErr)
	commitErr := fmt.Errorf("%w: commit: %w", ErrTxFailed, conflict)

	assert.True(t, IsSerializationFailure(repoErr))
	assert.True(t, IsSerializationFailure(usecaseErr))
	assert.True(t, IsSerializationFailure(commitErr))
}

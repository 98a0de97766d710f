package simpletxmanager

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmezhova/SLN-BookingEngine/pkg/txmanager"
)

// Фальшивый драйвер: первые failCommits фиксаций падают с конфликтом
// сериализации, дальше фиксация проходит

type flakyDriver struct {
	failCommits int
	commits     int
}

func (d *flakyDriver) Open(string) (driver.Conn, error) { return &flakyConn{d: d}, nil }

type flakyConnector struct{ d *flakyDriver }

func (c flakyConnector) Connect(context.Context) (driver.Conn, error) {
	return &flakyConn{d: c.d}, nil
}

func (c flakyConnector) Driver() driver.Driver { return c.d }

type flakyConn struct{ d *flakyDriver }

func (c *flakyConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("not supported")
}

func (c *flakyConn) Close() error { return nil }

func (c *flakyConn) Begin() (driver.Tx, error) { return &flakyTx{d: c.d}, nil }

func (c *flakyConn) BeginTx(context.Context, driver.TxOptions) (driver.Tx, error) {
	return &flakyTx{d: c.d}, nil
}

type flakyTx struct{ d *flakyDriver }

func (tx *flakyTx) Commit() error {
	tx.d.commits++
	if tx.d.commits <= tx.d.failCommits {
		return &pq.Error{Code: "40001"}
	}
	return nil
}

func (tx *flakyTx) Rollback() error { return nil }

func newFlakyManager(failCommits int) (*TransactionManager, *flakyDriver, *sql.DB) {
	d := &flakyDriver{failCommits: failCommits}
	db := sql.OpenDB(flakyConnector{d: d})
	return NewTransactionManager(db), d, db
}

func TestDoSerializable_RetriesCommitConflict(t *testing.T) {
	m, d, db := newFlakyManager(2)
	defer db.Close()

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls, "две неудачные попытки и одна успешная")
	assert.Equal(t, 3, d.commits)
}

func TestDoSerializable_GivesUpAfterMaxRetries(t *testing.T) {
	m, d, db := newFlakyManager(100)
	defer db.Close()

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, txmanager.ErrTxFailed)
	assert.Equal(t, maxRetries, d.commits)
}

func TestDoSerializable_BusinessErrorNotRetried(t *testing.T) {
	m, d, db := newFlakyManager(0)
	defer db.Close()

	errBusiness := errors.New("slot taken")

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return errBusiness
	})

	assert.ErrorIs(t, err, errBusiness)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, d.commits)
}

package gorm

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	gormio "gorm.io/gorm"

	"github.com/zappay/zappay-backend/pkg/config"
	"github.com/zappay/zappay-backend/pkg/db"
)

func newMockHandle(t *testing.T) (*db.Manager, *db.Handle, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	mock.ExpectPing()
	m := db.NewManager(db.WithDialector(func(config.ConnectionConfig) gormio.Dialector {
		return postgres.New(postgres.Config{
			Conn:                 mockDB,
			PreferSimpleProtocol: true,
		})
	}))
	h, err := m.Open(context.Background(), config.Resolve(config.MapEnv(nil)))
	require.NoError(t, err)
	return m, h, mock
}

func TestHealthStore_CheckConnectivity(t *testing.T) {
	_, h, mock := newMockHandle(t)
	mock.ExpectExec(`SELECT 1`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewHealthStore(h).CheckConnectivity(context.Background())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthStore_CheckConnectivity_QueryFails(t *testing.T) {
	_, h, mock := newMockHandle(t)
	mock.ExpectExec(`SELECT 1`).WillReturnError(errors.New("connection reset by peer"))

	err := NewHealthStore(h).CheckConnectivity(context.Background())
	assert.EqualError(t, err, "connection reset by peer")
}

func TestHealthStore_CheckConnectivity_ClosedHandle(t *testing.T) {
	m, h, mock := newMockHandle(t)
	mock.ExpectClose()
	require.NoError(t, m.Close(h))

	err := NewHealthStore(h).CheckConnectivity(context.Background())
	assert.ErrorIs(t, err, db.ErrHandleClosed)
}

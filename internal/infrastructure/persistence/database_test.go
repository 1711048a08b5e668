package persistence

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func mockedDatabase(t *testing.T) (*Database, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	// GORM pings once while opening.
	mock.ExpectPing()

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return &Database{DB: gormDB}, mock, mockDB
}

func TestDatabasePing(t *testing.T) {
	t.Run("reports a live connection", func(t *testing.T) {
		db, mock, mockDB := mockedDatabase(t)
		defer mockDB.Close()

		mock.ExpectPing()

		assert.NoError(t, db.Ping())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDatabaseClose(t *testing.T) {
	t.Run("releases the pool", func(t *testing.T) {
		db, mock, _ := mockedDatabase(t)

		mock.ExpectClose()

		assert.NoError(t, db.Close())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDatabaseStats(t *testing.T) {
	t.Run("reflects the configured pool size", func(t *testing.T) {
		db, _, mockDB := mockedDatabase(t)
		defer mockDB.Close()

		mockDB.SetMaxOpenConns(12)

		stats, err := db.Stats()
		require.NoError(t, err)
		assert.Equal(t, 12, stats.MaxOpenConnections)
	})

	t.Run("open connections split into in-use and idle", func(t *testing.T) {
		db, _, mockDB := mockedDatabase(t)
		defer mockDB.Close()

		stats, err := db.Stats()
		require.NoError(t, err)
		assert.Equal(t, stats.OpenConnections, stats.InUse+stats.Idle)
		assert.GreaterOrEqual(t, stats.WaitCount, int64(0))
		assert.GreaterOrEqual(t, stats.WaitDuration, time.Duration(0))
	})
}

package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/books-api/internal/entities"
)

// setupTestDB creates a fresh test database
func setupTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := Open(Options{
		Driver:   DriverSQLite,
		DSN:      filepath.Join(t.TempDir(), "test.db"),
		LogLevel: logger.Silent,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen_MigratesTables(t *testing.T) {
	db := setupTestDB(t)

	assert.Equal(t, DriverSQLite, db.Driver)
	assert.True(t, db.DB.Migrator().HasTable(&entities.Book{}))
	assert.True(t, db.DB.Migrator().HasTable(&entities.AuditEvent{}))
	assert.NoError(t, db.Ping())
}

func TestOpen_DefaultsToSQLite(t *testing.T) {
	db, err := Open(Options{DSN: filepath.Join(t.TempDir(), "default.db"), LogLevel: logger.Silent})
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, DriverSQLite, db.Driver)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(Options{Driver: "oracle", DSN: "whatever"})
	assert.Error(t, err)
}

func TestNewDatabase(t *testing.T) {
	db, err := NewDatabase(filepath.Join(t.TempDir(), "legacy.db"))
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, db.Ping())
}

func TestMigrate_IsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	assert.NoError(t, db.Migrate())
	assert.NoError(t, db.Migrate())
}

func TestPing_AfterClose(t *testing.T) {
	db, err := Open(Options{DSN: filepath.Join(t.TempDir(), "closed.db"), LogLevel: logger.Silent})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	assert.Error(t, db.Ping())
}

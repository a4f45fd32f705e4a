// Package dbtest opens migrated in-memory SQLite backends for tests.
package dbtest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"school-admin/database"
)

// New returns a fresh backend. The pool is limited to one connection so
// every query sees the same in-memory database.
func New(t testing.TB) *database.Backend {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db, "", ""))

	backend, err := database.NewBackend(db, "sqlite3")
	require.NoError(t, err)
	return backend
}

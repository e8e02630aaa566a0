// Package dbtest opens throwaway SQLite databases with the biztime schema applied.
package dbtest

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/biztime/internal/migration"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns an in-memory database with foreign keys enforced.
// The pool is pinned to one connection so every query sees the same database.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, conn.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, migration.AutoMigrate(conn))

	return conn
}

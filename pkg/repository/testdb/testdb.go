// Package testdb opens a migrated, file-backed SQLite store for package tests.
package testdb

import (
	"path/filepath"
	"testing"

	"github.com/example/retailshop/pkg/repository"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Open(t *testing.T) *repository.Store {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "shop.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// sqlite has a single writer
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, repository.Migrate(db))
	return repository.NewStore(db)
}

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"MatirBank/Config"
)

// withSettings swaps the process globals for the length of a test
func withSettings(t *testing.T, dsn string) {
	t.Helper()
	prevCfg, prevLogger, prevClose := cfg, logger, closeDatabase
	t.Cleanup(func() { cfg, logger, closeDatabase = prevCfg, prevLogger, prevClose })

	cfg = Config.Default()
	cfg.Database.DSN = dsn
	logger = zaptest.NewLogger(t)
}

func trackClose(t *testing.T) *[]*gorm.DB {
	t.Helper()
	var closed []*gorm.DB
	inner := closeDatabase
	closeDatabase = func(db *gorm.DB) error {
		closed = append(closed, db)
		return inner(db)
	}
	return &closed
}

func TestOpenDatabase(t *testing.T) {
	withSettings(t, filepath.Join(t.TempDir(), "matirbank.db"))
	closed := trackClose(t)

	db, err := openDatabase()
	require.NoError(t, err)
	assert.Empty(t, *closed)

	var tiers int64
	require.NoError(t, db.Table("credit_tiers").Count(&tiers).Error)
	assert.NotZero(t, tiers)
	require.NoError(t, closeDatabase(db))
}

func TestOpenDatabase_ClosesOnMigrateFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "readonly.db")
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	withSettings(t, "file:"+path+"?mode=ro")
	closed := trackClose(t)

	db, err := openDatabase()
	require.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "failed to migrate")

	require.Len(t, *closed, 1)
	sqlDB, err := (*closed)[0].DB()
	require.NoError(t, err)
	assert.Error(t, sqlDB.Ping(), "pool must be closed")
}

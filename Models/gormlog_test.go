package Models

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"MatirBank/Config"
)

func statement() (string, int64) { return "SELECT 1", 1 }

func TestGormLogger_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewGormLogger(zap.New(core), logger.Warn)
	ctx := context.Background()

	l.Trace(ctx, time.Now(), statement, nil)
	l.Trace(ctx, time.Now(), statement, gorm.ErrRecordNotFound)
	assert.Zero(t, logs.Len(), "fast queries and missing rows stay quiet at warn")

	l.Trace(ctx, time.Now(), statement, errors.New("disk I/O error"))
	l.Trace(ctx, time.Now().Add(-time.Second), statement, nil)
	l.Info(ctx, "hidden %d", 1)

	entries := logs.TakeAll()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "query failed", entries[0].Message)
	assert.Equal(t, "gorm", entries[0].LoggerName)
	assert.Equal(t, "SELECT 1", entries[0].ContextMap()["sql"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "slow query", entries[1].Message)

	verbose := l.LogMode(logger.Info)
	verbose.Trace(ctx, time.Now(), statement, nil)
	verbose.Info(ctx, "migrating %s", "users")
	entries = logs.TakeAll()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "migrating users", entries[1].Message)

	l.LogMode(logger.Silent).Trace(ctx, time.Now(), statement, errors.New("boom"))
	assert.Zero(t, logs.Len())
}

func TestConnect_LogsThroughZap(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	db, err := Connect(Config.Database{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "log.db"), LogSQL: true}, zap.New(core))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Exec("SELECT 1").Error)
	assert.NotZero(t, logs.FilterMessage("query").FilterField(zap.String("sql", "SELECT 1")).Len())

	assert.Error(t, db.Exec("SELECT * FROM missing_table").Error)
	assert.Equal(t, 1, logs.FilterMessage("query failed").Len())
}

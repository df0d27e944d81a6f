package Models

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"MatirBank/Config"
)

func TestConnectMigrateSeed(t *testing.T) {
	db, err := Connect(Config.Database{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "models.db")}, zaptest.NewLogger(t))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, Migrate(db))
	// Migrating twice is a no-op
	require.NoError(t, Migrate(db))

	require.NoError(t, SeedCreditTiers(db))
	require.NoError(t, SeedCreditTiers(db))

	var tiers []CreditTier
	require.NoError(t, db.Order("tier_level").Find(&tiers).Error)
	require.Len(t, tiers, len(DefaultCreditTiers()))
	assert.True(t, tiers[1].MinScore.Equal(decimal.NewFromInt(300)))
}

func TestConnect_UnknownDriver(t *testing.T) {
	_, err := Connect(Config.Database{Driver: "oracle", DSN: "x"}, nil)
	assert.Error(t, err)
}

func TestMoneyIsSerialisedAsNumber(t *testing.T) {
	b, err := json.Marshal(Product{ProdID: 5, PricePerUnit: decimal.RequireFromString("100.50")})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"PricePerUnit":100.5`)
}

func TestUserHashNeverSerialised(t *testing.T) {
	b, err := json.Marshal(User{UserID: 1, Username: "rahim", PasswordHash: "$2a$10$secret"})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret")
	assert.NotContains(t, string(b), "PasswordHash")
}

func TestMySQLDSN(t *testing.T) {
	dsn, err := MySQLDSN("bank:pw@tcp(db:3306)/matirbank?charset=utf8mb4")
	require.NoError(t, err)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
	assert.Contains(t, dsn, "tcp(db:3306)/matirbank")

	_, err = MySQLDSN("not a dsn")
	assert.Error(t, err)
}

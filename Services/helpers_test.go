package Services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"MatirBank/Config"
	"MatirBank/Models"
)

// newTestDB opens a migrated SQLite file store. Write transactions take the
// database lock on BEGIN so concurrent workflows serialise.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "matirbank.db") + "?_busy_timeout=5000&_txlock=immediate"
	db, err := Models.Connect(Config.Database{Driver: "sqlite", DSN: dsn}, zaptest.NewLogger(t))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, Models.Migrate(db))
	require.NoError(t, Models.SeedCreditTiers(db))
	return db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedAccount(t *testing.T, db *gorm.DB, userID uint, balance string) *Models.Account {
	t.Helper()
	account := &Models.Account{
		UserID:         userID,
		AccountType:    Models.AccountSavings,
		CurrentBalance: dec(balance),
		DateOpened:     datatypes.Date(time.Now()),
	}
	require.NoError(t, db.Create(account).Error)
	return account
}

func seedGoal(t *testing.T, db *gorm.DB, accountID uint, saved, status string) *Models.SavingsGoal {
	t.Helper()
	goal := &Models.SavingsGoal{
		AccountID:    accountID,
		TargetAmount: dec("10000"),
		SavedAmount:  dec(saved),
		Status:       status,
	}
	require.NoError(t, db.Create(goal).Error)
	return goal
}

func seedProduct(t *testing.T, db *gorm.DB, price string, stock int) *Models.Product {
	t.Helper()
	product := &Models.Product{
		SellerID:     1,
		Category:     "Rice",
		PricePerUnit: dec(price),
		StockQty:     stock,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func reload[T any](t *testing.T, db *gorm.DB, pkColumn string, id uint) T {
	t.Helper()
	var v T
	require.NoError(t, db.First(&v, pkColumn+" = ?", id).Error)
	return v
}

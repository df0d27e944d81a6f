package Models

import (
	"fmt"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"MatirBank/Config"
)

func init() {
	// Money goes over the wire as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

// Connect opens the store configured in cfg. GORM output goes to log, and
// driver constraint errors come back as gorm.ErrDuplicatedKey and friends.
func Connect(cfg Config.Database, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dsn, err := MySQLDSN(cfg.DSN)
		if err != nil {
			return nil, err
		}
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}

	level := logger.Warn
	if cfg.LogSQL {
		level = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         NewGormLogger(log, level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Driver, err)
	}
	return db, nil
}

// MySQLDSN turns on time parsing, which DATETIME columns need to scan into
// time.Time
func MySQLDSN(raw string) (string, error) {
	dsn, err := mysqldriver.ParseDSN(raw)
	if err != nil {
		return "", fmt.Errorf("parsing mysql dsn: %w", err)
	}
	dsn.ParseTime = true
	return dsn.FormatDSN(), nil
}

// Migrate creates or updates every table
func Migrate(db *gorm.DB) error {
	// 1. Tables without dependencies
	if err := db.AutoMigrate(
		&User{},
		&Product{},
		&Supplier{},
		&SamityGroup{},
		&CreditTier{},
		&UserReputation{},
	); err != nil {
		return fmt.Errorf("migrating base tables: %w", err)
	}

	// 2. Tables that reference the ones above
	if err := db.AutoMigrate(
		&Account{},
		&Order{},
		&BulkMasterOrder{},
		&GroupMember{},
		&GroupPolicy{},
	); err != nil {
		return fmt.Errorf("migrating dependent tables: %w", err)
	}

	// 3. Ledger and line items
	if err := db.AutoMigrate(
		&Transaction{},
		&SavingsGoal{},
		&OrderItem{},
		&IndividualRequest{},
	); err != nil {
		return fmt.Errorf("migrating ledger tables: %w", err)
	}
	return nil
}

// DefaultCreditTiers is the tier table installed on an empty store
func DefaultCreditTiers() []CreditTier {
	return []CreditTier{
		{TierLevel: 1, MinScore: decimal.NewFromInt(0), MaxLoanLimit: decimal.NewFromInt(5000)},
		{TierLevel: 2, MinScore: decimal.NewFromInt(300), MaxLoanLimit: decimal.NewFromInt(20000)},
		{TierLevel: 3, MinScore: decimal.NewFromInt(600), MaxLoanLimit: decimal.NewFromInt(50000)},
		{TierLevel: 4, MinScore: decimal.NewFromInt(800), MaxLoanLimit: decimal.NewFromInt(100000)},
	}
}

// SeedCreditTiers installs DefaultCreditTiers when the tier table is empty
func SeedCreditTiers(db *gorm.DB) error {
	var count int64
	if err := db.Model(&CreditTier{}).Count(&count).Error; err != nil {
		return fmt.Errorf("counting credit tiers: %w", err)
	}
	if count > 0 {
		return nil
	}
	tiers := DefaultCreditTiers()
	if err := db.Create(&tiers).Error; err != nil {
		return fmt.Errorf("seeding credit tiers: %w", err)
	}
	return nil
}

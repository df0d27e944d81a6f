package Services

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"MatirBank/Models"
)

// Ledger owns every write that moves money on an account. A transaction's
// amount is posted to the account balance and to each of the account's
// active savings goals when it is created, and reversed the same way when
// it is deleted.
type Ledger struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewLedger(db *gorm.DB, log *zap.Logger) *Ledger {
	return &Ledger{db: db, log: log}
}

// NewTransaction is a validated request to record a ledger entry
type NewTransaction struct {
	AccountID   uint
	Amount      decimal.Decimal
	Type        string
	ReferenceID *string
}

// Post applies amount to the account balance and its active goals.
// It must run inside tx.
func Post(tx *gorm.DB, accountID uint, amount decimal.Decimal) error {
	if err := tx.Model(&Models.Account{}).
		Where("account_id = ?", accountID).
		Update("current_balance", gorm.Expr("current_balance + ?", amount)).Error; err != nil {
		return Persistence("Failed to update balance", err)
	}

	// There is no link from a transaction to a specific goal, so every
	// active goal on the account moves with it.
	if err := tx.Model(&Models.SavingsGoal{}).
		Where("account_id = ? AND status = ?", accountID, Models.GoalActive).
		Update("saved_amount", gorm.Expr("saved_amount + ?", amount)).Error; err != nil {
		return Persistence("Failed to update goal progress", err)
	}
	return nil
}

// Reverse undoes Post
func Reverse(tx *gorm.DB, accountID uint, amount decimal.Decimal) error {
	return Post(tx, accountID, amount.Neg())
}

// CreateTransaction records a ledger entry and posts it. It returns the
// entry and the account balance after posting.
func (l *Ledger) CreateTransaction(ctx context.Context, in NewTransaction) (*Models.Transaction, decimal.Decimal, error) {
	if !in.Amount.IsPositive() {
		return nil, decimal.Zero, Validation("Amount must be greater than 0")
	}
	if in.Type == "" {
		in.Type = Models.TransactionDeposit
	}

	entry := &Models.Transaction{
		AccountID:   in.AccountID,
		Amount:      in.Amount,
		Type:        in.Type,
		ReferenceID: in.ReferenceID,
	}
	var balance decimal.Decimal

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var account Models.Account
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&account, "account_id = ?", in.AccountID).Error; err != nil {
			return Lookup(err, "Account not found", "Failed to load account")
		}

		if err := tx.Create(entry).Error; err != nil {
			return Persistence("Failed to create transaction", err)
		}
		if err := Post(tx, in.AccountID, in.Amount); err != nil {
			return err
		}

		if err := tx.First(&account, "account_id = ?", in.AccountID).Error; err != nil {
			return Persistence("Failed to read balance", err)
		}
		balance = account.CurrentBalance
		return nil
	})
	if err != nil {
		return nil, decimal.Zero, err
	}

	l.log.Info("transaction posted",
		zap.Uint("trans_id", entry.TransID),
		zap.Uint("account_id", entry.AccountID),
		zap.String("amount", entry.Amount.String()),
		zap.String("type", entry.Type))
	return entry, balance, nil
}

// DeleteTransaction removes a ledger entry and reverses its posting.
// Deleting an id that no longer exists is NotFound and changes nothing.
func (l *Ledger) DeleteTransaction(ctx context.Context, transID uint) (*Models.Transaction, error) {
	var entry Models.Transaction

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&entry, "trans_id = ?", transID).Error; err != nil {
			return Lookup(err, "Transaction not found", "Failed to load transaction")
		}

		result := tx.Delete(&Models.Transaction{}, "trans_id = ?", transID)
		if result.Error != nil {
			return Persistence("Failed to delete transaction", result.Error)
		}
		if result.RowsAffected == 0 {
			return NotFound("Transaction not found")
		}
		return Reverse(tx, entry.AccountID, entry.Amount)
	})
	if err != nil {
		return nil, err
	}

	l.log.Info("transaction reversed",
		zap.Uint("trans_id", entry.TransID),
		zap.Uint("account_id", entry.AccountID),
		zap.String("amount", entry.Amount.String()))
	return &entry, nil
}

// DeleteAccount removes an account together with its goals and ledger
// entries
func (l *Ledger) DeleteAccount(ctx context.Context, accountID uint) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var account Models.Account
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&account, "account_id = ?", accountID).Error; err != nil {
			return Lookup(err, "Account not found", "Failed to load account")
		}
		if err := tx.Where("account_id = ?", accountID).Delete(&Models.SavingsGoal{}).Error; err != nil {
			return Persistence("Failed to delete account goals", err)
		}
		if err := tx.Where("account_id = ?", accountID).Delete(&Models.Transaction{}).Error; err != nil {
			return Persistence("Failed to delete account transactions", err)
		}
		if err := tx.Delete(&Models.Account{}, "account_id = ?", accountID).Error; err != nil {
			return Persistence("Failed to delete account", err)
		}
		return nil
	})
}

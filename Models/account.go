package Models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	AccountSavings = "Savings"
	AccountCurrent = "Current"

	TransactionDeposit     = "Deposit"
	TransactionLoanDefault = "LoanDefault"

	GoalActive = "Active"
)

type Account struct {
	AccountID      uint            `json:"AccountID" gorm:"primaryKey"`
	UserID         uint            `json:"UserID" gorm:"not null;index"`
	AccountType    string          `json:"AccountType" gorm:"size:20;not null"`
	CurrentBalance decimal.Decimal `json:"CurrentBalance" gorm:"type:decimal(12,2);not null;default:0"`
	DateOpened     datatypes.Date  `json:"DateOpened" gorm:"not null"`
}

func (Account) TableName() string {
	return "accounts"
}

// Transaction is a ledger entry. Its amount has already been posted to the
// account balance and to the account's active goals.
type Transaction struct {
	TransID     uint            `json:"TransID" gorm:"primaryKey"`
	AccountID   uint            `json:"AccountID" gorm:"not null;index"`
	Amount      decimal.Decimal `json:"Amount" gorm:"type:decimal(12,2);not null"`
	Type        string          `json:"Type" gorm:"size:32;not null;default:Deposit;index"`
	ReferenceID *string         `json:"ReferenceID" gorm:"size:64"`
	Timestamp   time.Time       `json:"Timestamp" gorm:"autoCreateTime;index"`
}

func (Transaction) TableName() string {
	return "transactions"
}

type SavingsGoal struct {
	GoalID       uint            `json:"GoalID" gorm:"primaryKey"`
	AccountID    uint            `json:"AccountID" gorm:"not null;index"`
	TargetAmount decimal.Decimal `json:"TargetAmount" gorm:"type:decimal(12,2);not null"`
	SavedAmount  decimal.Decimal `json:"SavedAmount" gorm:"type:decimal(12,2);not null;default:0"`
	Deadline     *datatypes.Date `json:"Deadline"`
	Status       string          `json:"Status" gorm:"size:20;not null;default:Active"`
}

func (SavingsGoal) TableName() string {
	return "savings_goals"
}

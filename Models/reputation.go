package Models

import "github.com/shopspring/decimal"

type UserReputation struct {
	UserID      uint            `json:"UserID" gorm:"primaryKey;autoIncrement:false"`
	CreditScore decimal.Decimal `json:"CreditScore" gorm:"type:decimal(8,2);not null;default:0"`
}

func (UserReputation) TableName() string {
	return "user_reputation"
}

// CreditTier: a score of at least MinScore unlocks loans up to MaxLoanLimit
type CreditTier struct {
	TierLevel    int             `json:"TierLevel" gorm:"primaryKey;autoIncrement:false"`
	MinScore     decimal.Decimal `json:"MinScore" gorm:"type:decimal(8,2);not null"`
	MaxLoanLimit decimal.Decimal `json:"MaxLoanLimit" gorm:"type:decimal(12,2);not null"`
}

func (CreditTier) TableName() string {
	return "credit_tiers"
}

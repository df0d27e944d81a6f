package Models

import (
	"time"

	"github.com/shopspring/decimal"
)

type SamityGroup struct {
	GroupID      uint      `json:"GroupID" gorm:"primaryKey"`
	GroupName    string    `json:"GroupName" gorm:"size:255;not null"`
	LeaderID     uint      `json:"LeaderID" gorm:"not null;index"`
	CreationDate time.Time `json:"CreationDate" gorm:"autoCreateTime"`
}

func (SamityGroup) TableName() string {
	return "samity_groups"
}

type GroupMember struct {
	MembershipID uint      `json:"MembershipID" gorm:"primaryKey"`
	GroupID      uint      `json:"GroupID" gorm:"not null;index"`
	UserID       uint      `json:"UserID" gorm:"not null;index"`
	Role         string    `json:"Role" gorm:"size:20;not null;default:Member"`
	JoinDate     time.Time `json:"JoinDate" gorm:"autoCreateTime"`
}

func (GroupMember) TableName() string {
	return "group_members"
}

// GroupPolicy caps what a member of the group may borrow. One per group.
type GroupPolicy struct {
	GroupID       uint            `json:"GroupID" gorm:"primaryKey;autoIncrement:false"`
	MaxLoanAmount decimal.Decimal `json:"MaxLoanAmount" gorm:"type:decimal(12,2);not null"`
	InterestRate  decimal.Decimal `json:"InterestRate" gorm:"type:decimal(5,2);not null"`
}

func (GroupPolicy) TableName() string {
	return "group_policies"
}

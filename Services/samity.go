package Services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"MatirBank/Models"
)

type LoanRequest struct {
	UserID          uint
	RequestedAmount decimal.Decimal
	RequestedRate   decimal.Decimal
}

// Eligibility is the loan decision for one request. Blocked means some
// member of the borrower's group has defaulted, regardless of amounts.
type Eligibility struct {
	Eligible bool
	Blocked  bool
	Message  string
	Policy   *Models.GroupPolicy
}

type SamityService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewSamityService(db *gorm.DB, log *zap.Logger) *SamityService {
	return &SamityService{db: db, log: log}
}

// CheckEligibility decides a loan request against the policy of the
// borrower's first group
func (s *SamityService) CheckEligibility(ctx context.Context, req LoanRequest) (*Eligibility, error) {
	db := s.db.WithContext(ctx)

	var membership Models.GroupMember
	if err := db.Where("user_id = ?", req.UserID).
		Order("membership_id").
		Take(&membership).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &Eligibility{Message: "User not in any Samity"}, nil
		}
		return nil, Persistence("Failed to load membership", err)
	}

	var policy Models.GroupPolicy
	if err := db.Take(&policy, "group_id = ?", membership.GroupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &Eligibility{Message: "Group policy not set"}, nil
		}
		return nil, Persistence("Failed to load group policy", err)
	}

	var defaults int64
	if err := db.Table("transactions AS t").
		Joins("JOIN accounts a ON a.account_id = t.account_id").
		Joins("JOIN group_members gm ON gm.user_id = a.user_id").
		Where("gm.group_id = ? AND t.type = ?", membership.GroupID, Models.TransactionLoanDefault).
		Count(&defaults).Error; err != nil {
		return nil, Persistence("Failed to check group defaults", err)
	}
	if defaults > 0 {
		s.log.Debug("loan blocked by group default",
			zap.Uint("user_id", req.UserID),
			zap.Uint("group_id", membership.GroupID))
		return &Eligibility{Blocked: true, Message: "Group member has a defaulted loan"}, nil
	}

	eligible := req.RequestedAmount.LessThanOrEqual(policy.MaxLoanAmount) &&
		req.RequestedRate.LessThanOrEqual(policy.InterestRate)
	return &Eligibility{Eligible: eligible, Policy: &policy}, nil
}

// SetPolicy creates or replaces the policy of a group
func (s *SamityService) SetPolicy(ctx context.Context, policy Models.GroupPolicy) error {
	if policy.GroupID == 0 {
		return Validation("GroupID, MaxLoanAmount, InterestRate are required")
	}
	if policy.MaxLoanAmount.IsNegative() || policy.InterestRate.IsNegative() ||
		policy.InterestRate.GreaterThan(decimal.NewFromInt(100)) {
		return Validation("Invalid policy values")
	}

	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "group_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"max_loan_amount", "interest_rate"}),
	}).Create(&policy).Error; err != nil {
		return Persistence("Failed to set policy", err)
	}
	return nil
}

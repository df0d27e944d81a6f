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

// Standing is a user's score and the tier it unlocks. Tier is nil when the
// score is below every tier.
type Standing struct {
	Reputation Models.UserReputation `json:"reputation"`
	Tier       *Models.CreditTier    `json:"tier"`
}

// RatedUser is one row of the reputation listing
type RatedUser struct {
	Models.UserReputation
	Tier *Models.CreditTier `json:"tier"`
}

type ReputationService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewReputationService(db *gorm.DB, log *zap.Logger) *ReputationService {
	return &ReputationService{db: db, log: log}
}

// TierFor returns the highest tier whose MinScore does not exceed score
func (s *ReputationService) TierFor(ctx context.Context, score decimal.Decimal) (*Models.CreditTier, error) {
	var tier Models.CreditTier
	err := s.db.WithContext(ctx).
		Where("min_score <= ?", score).
		Order("tier_level DESC").
		Take(&tier).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, Persistence("Failed to load credit tier", err)
	}
	return &tier, nil
}

// Standing looks up one user. A user without a reputation row has score 0.
func (s *ReputationService) Standing(ctx context.Context, userID uint) (*Standing, error) {
	rep := Models.UserReputation{UserID: userID, CreditScore: decimal.Zero}
	err := s.db.WithContext(ctx).Take(&rep, "user_id = ?", userID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, Persistence("Failed to load reputation", err)
	}

	tier, err := s.TierFor(ctx, rep.CreditScore)
	if err != nil {
		return nil, err
	}
	return &Standing{Reputation: rep, Tier: tier}, nil
}

func (s *ReputationService) List(ctx context.Context) ([]RatedUser, error) {
	var reps []Models.UserReputation
	if err := s.db.WithContext(ctx).Order("user_id").Find(&reps).Error; err != nil {
		return nil, Persistence("Failed to fetch reputation", err)
	}

	var tiers []Models.CreditTier
	if err := s.db.WithContext(ctx).Order("tier_level DESC").Find(&tiers).Error; err != nil {
		return nil, Persistence("Failed to fetch credit tiers", err)
	}

	out := make([]RatedUser, 0, len(reps))
	for _, rep := range reps {
		row := RatedUser{UserReputation: rep}
		for i := range tiers {
			if tiers[i].MinScore.LessThanOrEqual(rep.CreditScore) {
				tier := tiers[i]
				row.Tier = &tier
				break
			}
		}
		out = append(out, row)
	}
	return out, nil
}

// SetScore creates or replaces a user's credit score
func (s *ReputationService) SetScore(ctx context.Context, userID uint, score decimal.Decimal) (*Standing, error) {
	if userID == 0 {
		return nil, Validation("UserID and CreditScore are required")
	}
	if score.IsNegative() {
		return nil, Validation("CreditScore must not be negative")
	}

	rep := Models.UserReputation{UserID: userID, CreditScore: score}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"credit_score"}),
	}).Create(&rep).Error; err != nil {
		return nil, Persistence("Failed to set credit score", err)
	}
	s.log.Info("credit score set", zap.Uint("user_id", userID), zap.String("score", score.String()))
	return s.Standing(ctx, userID)
}

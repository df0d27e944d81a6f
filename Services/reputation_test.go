package Services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestTierFor(t *testing.T) {
	db := newTestDB(t)
	s := NewReputationService(db, zaptest.NewLogger(t))
	ctx := context.Background()

	tests := []struct {
		score string
		level int
	}{
		{"0", 1},
		{"299.99", 1},
		{"300", 2},
		{"650", 3},
		{"800", 4},
		{"1000", 4},
	}
	for _, tt := range tests {
		tier, err := s.TierFor(ctx, dec(tt.score))
		require.NoError(t, err)
		require.NotNil(t, tier, tt.score)
		assert.Equal(t, tt.level, tier.TierLevel, tt.score)
	}

	tier, err := s.TierFor(ctx, dec("-1"))
	require.NoError(t, err)
	assert.Nil(t, tier)
}

func TestStanding_UnknownUserScoresZero(t *testing.T) {
	db := newTestDB(t)
	s := NewReputationService(db, zaptest.NewLogger(t))

	standing, err := s.Standing(context.Background(), 77)
	require.NoError(t, err)
	assert.EqualValues(t, 77, standing.Reputation.UserID)
	assert.True(t, standing.Reputation.CreditScore.IsZero())
	require.NotNil(t, standing.Tier)
	assert.Equal(t, 1, standing.Tier.TierLevel)
}

func TestSetScoreAndList(t *testing.T) {
	db := newTestDB(t)
	s := NewReputationService(db, zaptest.NewLogger(t))
	ctx := context.Background()

	standing, err := s.SetScore(ctx, 1, dec("320"))
	require.NoError(t, err)
	assert.Equal(t, 2, standing.Tier.TierLevel)

	standing, err = s.SetScore(ctx, 1, dec("810"))
	require.NoError(t, err)
	assert.Equal(t, 4, standing.Tier.TierLevel)

	_, err = s.SetScore(ctx, 2, dec("50"))
	require.NoError(t, err)

	rows, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.EqualValues(t, 1, rows[0].UserID)
	assert.Equal(t, 4, rows[0].Tier.TierLevel)
	assert.Equal(t, 1, rows[1].Tier.TierLevel)

	_, err = s.SetScore(ctx, 0, dec("1"))
	assert.Equal(t, KindValidation, KindOf(err))
	_, err = s.SetScore(ctx, 3, dec("-1"))
	assert.Equal(t, KindValidation, KindOf(err))
}

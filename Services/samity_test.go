package Services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"MatirBank/Models"
)

func seedGroup(t *testing.T, db *gorm.DB, members ...uint) *Models.SamityGroup {
	t.Helper()
	group := &Models.SamityGroup{GroupName: "Char Kukri", LeaderID: members[0]}
	require.NoError(t, db.Create(group).Error)
	for _, userID := range members {
		require.NoError(t, db.Create(&Models.GroupMember{GroupID: group.GroupID, UserID: userID, Role: "Member"}).Error)
	}
	return group
}

func TestCheckEligibility(t *testing.T) {
	db := newTestDB(t)
	s := NewSamityService(db, zaptest.NewLogger(t))
	ctx := context.Background()

	group := seedGroup(t, db, 1, 2)
	require.NoError(t, s.SetPolicy(ctx, Models.GroupPolicy{
		GroupID:       group.GroupID,
		MaxLoanAmount: dec("5000"),
		InterestRate:  dec("12.5"),
	}))

	within, err := s.CheckEligibility(ctx, LoanRequest{UserID: 1, RequestedAmount: dec("5000"), RequestedRate: dec("10")})
	require.NoError(t, err)
	assert.True(t, within.Eligible)
	assert.False(t, within.Blocked)
	require.NotNil(t, within.Policy)
	assert.True(t, within.Policy.MaxLoanAmount.Equal(dec("5000")))

	tooMuch, err := s.CheckEligibility(ctx, LoanRequest{UserID: 1, RequestedAmount: dec("5000.01"), RequestedRate: dec("10")})
	require.NoError(t, err)
	assert.False(t, tooMuch.Eligible)
	assert.False(t, tooMuch.Blocked)

	tooDear, err := s.CheckEligibility(ctx, LoanRequest{UserID: 1, RequestedAmount: dec("100"), RequestedRate: dec("13")})
	require.NoError(t, err)
	assert.False(t, tooDear.Eligible)
}

func TestCheckEligibility_NoGroupOrPolicy(t *testing.T) {
	db := newTestDB(t)
	s := NewSamityService(db, zaptest.NewLogger(t))
	ctx := context.Background()

	outsider, err := s.CheckEligibility(ctx, LoanRequest{UserID: 42, RequestedAmount: dec("1"), RequestedRate: dec("1")})
	require.NoError(t, err)
	assert.False(t, outsider.Eligible)
	assert.Equal(t, "User not in any Samity", outsider.Message)

	seedGroup(t, db, 3)
	unset, err := s.CheckEligibility(ctx, LoanRequest{UserID: 3, RequestedAmount: dec("1"), RequestedRate: dec("1")})
	require.NoError(t, err)
	assert.False(t, unset.Eligible)
	assert.Equal(t, "Group policy not set", unset.Message)
}

func TestCheckEligibility_BlockedByMemberDefault(t *testing.T) {
	db := newTestDB(t)
	s := NewSamityService(db, zaptest.NewLogger(t))
	ledger := NewLedger(db, zaptest.NewLogger(t))
	ctx := context.Background()

	group := seedGroup(t, db, 1, 2)
	require.NoError(t, s.SetPolicy(ctx, Models.GroupPolicy{GroupID: group.GroupID, MaxLoanAmount: dec("5000"), InterestRate: dec("10")}))

	// The defaulter is another member of the borrower's group
	account := seedAccount(t, db, 2, "0")
	_, _, err := ledger.CreateTransaction(ctx, NewTransaction{
		AccountID: account.AccountID,
		Amount:    dec("300"),
		Type:      Models.TransactionLoanDefault,
	})
	require.NoError(t, err)

	decision, err := s.CheckEligibility(ctx, LoanRequest{UserID: 1, RequestedAmount: dec("10"), RequestedRate: dec("1")})
	require.NoError(t, err)
	assert.False(t, decision.Eligible)
	assert.True(t, decision.Blocked)
}

func TestSetPolicy_UpsertAndValidation(t *testing.T) {
	db := newTestDB(t)
	s := NewSamityService(db, zaptest.NewLogger(t))
	ctx := context.Background()
	group := seedGroup(t, db, 1)

	require.NoError(t, s.SetPolicy(ctx, Models.GroupPolicy{GroupID: group.GroupID, MaxLoanAmount: dec("100"), InterestRate: dec("5")}))
	require.NoError(t, s.SetPolicy(ctx, Models.GroupPolicy{GroupID: group.GroupID, MaxLoanAmount: dec("200"), InterestRate: dec("7")}))

	var policies []Models.GroupPolicy
	require.NoError(t, db.Find(&policies).Error)
	require.Len(t, policies, 1)
	assert.True(t, policies[0].MaxLoanAmount.Equal(dec("200")))
	assert.True(t, policies[0].InterestRate.Equal(dec("7")))

	for _, bad := range []Models.GroupPolicy{
		{GroupID: group.GroupID, MaxLoanAmount: dec("-1"), InterestRate: dec("5")},
		{GroupID: group.GroupID, MaxLoanAmount: dec("1"), InterestRate: dec("-1")},
		{GroupID: group.GroupID, MaxLoanAmount: dec("1"), InterestRate: dec("100.01")},
	} {
		err := s.SetPolicy(ctx, bad)
		assert.Equal(t, KindValidation, KindOf(err))
		assert.Equal(t, "Invalid policy values", err.Error())
	}
}

package referrals

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRegister_CreatesReferralAndUpdatesStats(t *testing.T) {
	svc := newTestService(t)

	ref, stats, err := svc.Register("user_001", "user_100", "Alice", "alice@example.com", nil)
	require.NoError(t, err)

	assert.Equal(t, "active", ref.Status)
	assert.Equal(t, "user_001", ref.ReferrerID)
	assert.Equal(t, 1, stats.TotalReferrals)
	assert.Equal(t, 1, stats.ActiveReferrals)
	assert.Equal(t, "Bronze", stats.Tier)
	assert.InDelta(t, 5.0, stats.CommissionRate, 1e-9)
}

func TestRegister_DuplicatePair(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.Register("user_001", "user_100", "Alice", "alice@example.com", nil)
	require.NoError(t, err)

	_, _, err = svc.Register("user_001", "user_100", "Alice", "alice@example.com", nil)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestRegister_TierPromotion(t *testing.T) {
	svc := newTestService(t)

	var stats Stats
	for i := 0; i < 10; i++ {
		var err error
		_, stats, err = svc.Register("user_001", fmt.Sprintf("user_%d", i), "Ref", "ref@example.com", nil)
		require.NoError(t, err)
	}
	assert.Equal(t, "Silver", stats.Tier)
	assert.InDelta(t, 7.0, stats.CommissionRate, 1e-9)

	for i := 10; i < 20; i++ {
		_, stats, _ = svc.Register("user_001", fmt.Sprintf("user_%d", i), "Ref", "ref@example.com", nil)
	}
	assert.Equal(t, "Gold", stats.Tier)
	assert.InDelta(t, 10.0, stats.CommissionRate, 1e-9)

	for i := 20; i < 50; i++ {
		_, stats, _ = svc.Register("user_001", fmt.Sprintf("user_%d", i), "Ref", "ref@example.com", nil)
	}
	assert.Equal(t, "Diamond", stats.Tier)
	assert.InDelta(t, 15.0, stats.CommissionRate, 1e-9)
}

func TestAddCommission(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.Register("user_001", "user_100", "Alice", "alice@example.com", nil)
	require.NoError(t, err)

	com, stats, err := svc.AddCommission("user_001", "user_100", 25.50, "deposit", "dep_1")
	require.NoError(t, err)

	assert.InDelta(t, 25.50, com.Amount, 1e-9)
	assert.InDelta(t, 25.50, stats.TotalCommissions, 1e-9)
	assert.InDelta(t, 25.50, stats.PendingCommissions, 1e-9)

	_, refs, _ := svc.UserData("user_001")
	require.Len(t, refs, 1)
	assert.InDelta(t, 25.50, refs[0].TotalCommission, 1e-9)
}

func TestAddCommission_NotFound(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.AddCommission("user_001", "", 10, "", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserData_DefaultsAndLink(t *testing.T) {
	svc := newTestService(t)

	stats, refs, link := svc.UserData("user_042")
	assert.Equal(t, "Bronze", stats.Tier)
	assert.InDelta(t, 5.0, stats.CommissionRate, 1e-9)
	assert.Equal(t, "2024-01-15", stats.NextPayoutDate)
	assert.Empty(t, refs)
	assert.Equal(t, "https://elonbroker.com/ref/user_042", link)
}

func TestLeaderboard_TopTenSorted(t *testing.T) {
	svc := newTestService(t)

	for referrer := 0; referrer < 12; referrer++ {
		for i := 0; i <= referrer; i++ {
			_, _, err := svc.Register(
				fmt.Sprintf("referrer_%02d", referrer),
				fmt.Sprintf("user_%02d_%02d", referrer, i),
				"Ref", "ref@example.com", nil)
			require.NoError(t, err)
		}
	}

	board := svc.Leaderboard()
	require.Len(t, board, 10)
	assert.Equal(t, "referrer_11", board[0].UserID)
	assert.Equal(t, 12, board[0].TotalReferrals)
	for i := 1; i < len(board); i++ {
		assert.GreaterOrEqual(t, board[i-1].TotalReferrals, board[i].TotalReferrals)
	}
}

func TestStatistics(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.Register("user_001", "user_100", "Alice", "alice@example.com", nil)
	require.NoError(t, err)
	_, _, err = svc.Register("user_002", "user_200", "Bob", "bob@example.com", nil)
	require.NoError(t, err)

	_, _, err = svc.AddCommission("user_001", "user_100", 40, "deposit", "dep_1")
	require.NoError(t, err)

	stats := svc.Statistics()
	assert.Equal(t, 2, stats.TotalReferrals)
	assert.Equal(t, 2, stats.ActiveReferrals)
	assert.InDelta(t, 40.0, stats.TotalCommissions, 1e-9)
	assert.Equal(t, 2, stats.TierDistribution["Bronze"])
	assert.InDelta(t, 20.0, stats.AverageCommissionPerUser, 1e-9)
}

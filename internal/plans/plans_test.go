package plans

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestPlans_Catalog(t *testing.T) {
	svc := newTestService(t)

	catalog := svc.Plans()
	require.Len(t, catalog, 4)
	assert.Equal(t, "starter", catalog[0].ID)
	assert.True(t, catalog[1].Popular)
	assert.InDelta(t, 50.0, catalog[3].ProfitPercentage, 1e-9)
}

func TestPurchase(t *testing.T) {
	svc := newTestService(t)

	p, err := svc.Purchase(PurchaseRequest{
		UserID:        "user_001",
		UserName:      "Alice",
		PlanID:        "professional",
		Amount:        2000,
		PaymentMethod: "crypto",
	})
	require.NoError(t, err)

	assert.Equal(t, "active", p.Status)
	assert.Equal(t, "Professional Plan", p.PlanName)
	assert.InDelta(t, 500.0, p.ExpectedProfit, 1e-9)
	assert.Equal(t, "14 days", p.Duration)
	assert.Equal(t, p.StartDate.Add(14*24*time.Hour), p.EndDate)
}

func TestPurchase_UnknownPlan(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Purchase(PurchaseRequest{UserID: "user_001", PlanID: "platinum", Amount: 100})
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestPurchase_AmountOutOfRange(t *testing.T) {
	svc := newTestService(t)

	for _, amount := range []float64{99, 1000} {
		_, err := svc.Purchase(PurchaseRequest{UserID: "user_001", PlanID: "starter", Amount: amount})

		var rangeErr *AmountRangeError
		require.ErrorAs(t, err, &rangeErr)
		assert.InDelta(t, 100.0, rangeErr.Min, 1e-9)
		assert.InDelta(t, 999.0, rangeErr.Max, 1e-9)
	}
}

func TestUserPlans(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Purchase(PurchaseRequest{UserID: "user_001", PlanID: "starter", Amount: 500})
	require.NoError(t, err)
	_, err = svc.Purchase(PurchaseRequest{UserID: "user_001", PlanID: "professional", Amount: 1500})
	require.NoError(t, err)
	_, err = svc.Purchase(PurchaseRequest{UserID: "user_002", PlanID: "vip", Amount: 25000})
	require.NoError(t, err)

	up := svc.UserPlans("user_001")
	assert.Len(t, up.Plans, 2)
	assert.InDelta(t, 2000.0, up.TotalInvestment, 1e-9)
}

func TestStatistics(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Purchase(PurchaseRequest{UserID: "user_001", PlanID: "starter", Amount: 500})
	require.NoError(t, err)
	_, err = svc.Purchase(PurchaseRequest{UserID: "user_002", PlanID: "starter", Amount: 200})
	require.NoError(t, err)
	_, err = svc.Purchase(PurchaseRequest{UserID: "user_003", PlanID: "vip", Amount: 20000})
	require.NoError(t, err)

	stats := svc.Statistics()
	assert.Equal(t, 3, stats.TotalPlans)
	assert.InDelta(t, 20700.0, stats.TotalInvestment, 1e-9)
	assert.InDelta(t, 500*0.15+200*0.15+20000*0.5, stats.TotalExpectedProfit, 1e-9)
	assert.Equal(t, 3, stats.ActivePlans)
	assert.Equal(t, 0, stats.CompletedPlans)

	require.Len(t, stats.PlanDistribution, 4)
	assert.Equal(t, 2, stats.PlanDistribution[0].Purchases)
	assert.InDelta(t, 700.0, stats.PlanDistribution[0].TotalAmount, 1e-9)
	assert.Equal(t, 1, stats.PlanDistribution[3].Purchases)
}

package copytrading

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elon_broker/internal/models"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	sim := NewSimulator(7, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewService(sim, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCopyTrader(t *testing.T) {
	svc := newTestService(t)

	copyRel, err := svc.CopyTrader("user_001", "etr_001", 5000, "medium")
	require.NoError(t, err)

	assert.NotEmpty(t, copyRel.ID)
	assert.Equal(t, "CryptoKing_Pro", copyRel.TraderName)
	assert.Equal(t, "etoro", copyRel.Platform)
	assert.Equal(t, "active", copyRel.Status)
	assert.InDelta(t, 5000.0, copyRel.Amount, 1e-9)
}

func TestCopyTrader_UnknownTrader(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CopyTrader("user_001", "etr_999", 5000, "medium")
	assert.ErrorIs(t, err, ErrTraderNotFound)
}

func TestCopyTrader_AmountOutOfPlatformLimits(t *testing.T) {
	svc := newTestService(t)

	// eToro принимает копии от $200
	_, err := svc.CopyTrader("user_001", "etr_001", 100, "low")

	var amountErr *CopyAmountError
	require.ErrorAs(t, err, &amountErr)
	assert.Equal(t, "eToro", amountErr.Platform)
	assert.InDelta(t, 200.0, amountErr.Min, 1e-9)
}

func TestMyCopies_Summary(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CopyTrader("user_001", "etr_001", 5000, "medium")
	require.NoError(t, err)
	_, err = svc.CopyTrader("user_001", "zulu_002", 2000, "low")
	require.NoError(t, err)
	_, err = svc.CopyTrader("user_002", "bin_005", 1000, "high")
	require.NoError(t, err)

	copies, summary := svc.MyCopies("user_001")
	require.Len(t, copies, 2)
	assert.Equal(t, 2, summary.TotalCopies)
	assert.InDelta(t, 7000.0, summary.TotalInvested, 1e-9)

	for _, c := range copies {
		assert.True(t, c.IsLive)
		require.NotNil(t, c.Trader)
		assert.Equal(t, c.TraderID, c.Trader.ID)
	}
}

func TestMyCopies_Empty(t *testing.T) {
	svc := newTestService(t)

	copies, summary := svc.MyCopies("user_404")
	assert.Empty(t, copies)
	assert.Equal(t, 0, summary.TotalCopies)
}

func closedTrade(size, pnl float64) models.LiveTrade {
	closeTime := time.Now()
	return models.LiveTrade{
		ID:        "trade_1",
		Symbol:    "BTC/USDT",
		Direction: "long",
		Size:      size,
		PnL:       pnl,
		Status:    "closed",
		CloseTime: &closeTime,
	}
}

func TestMyCopies_AccruesClosedTradePnL(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CopyTrader("user_001", "etr_001", 5000, "medium")
	require.NoError(t, err)

	svc.accrueClosedTrade("etr_001", closedTrade(50000, 1200))

	copies, summary := svc.MyCopies("user_001")
	require.Len(t, copies, 1)

	// Доля копии: 1200 * 5000 / 50000 = 120
	assert.InDelta(t, 120.0, copies[0].TotalProfit, 1e-9)
	assert.InDelta(t, 5120.0, copies[0].CurrentValue, 1e-9)
	assert.InDelta(t, 2.4, copies[0].ProfitPercentage, 1e-9)
	assert.Equal(t, 1, copies[0].ClosedTrades)
	assert.InDelta(t, 120.0, summary.TotalProfit, 1e-9)
	assert.InDelta(t, 2.4, summary.AverageReturn, 1e-9)

	// Убыточная сделка копится в totalLoss
	svc.accrueClosedTrade("etr_001", closedTrade(50000, -600))

	copies, _ = svc.MyCopies("user_001")
	require.Len(t, copies, 1)
	assert.InDelta(t, 60.0, copies[0].TotalLoss, 1e-9)
	assert.InDelta(t, 5060.0, copies[0].CurrentValue, 1e-9)
	assert.Equal(t, 2, copies[0].ClosedTrades)
}

func TestAccrueClosedTrade_SkipsInactiveAndForeignCopies(t *testing.T) {
	svc := newTestService(t)

	stopped, err := svc.CopyTrader("user_001", "etr_001", 5000, "medium")
	require.NoError(t, err)
	_, err = svc.StopCopy(stopped.ID, false)
	require.NoError(t, err)

	_, err = svc.CopyTrader("user_001", "zulu_002", 2000, "low")
	require.NoError(t, err)

	svc.accrueClosedTrade("etr_001", closedTrade(50000, 1200))
	// Сделка нулевого размера не меняет ничего
	svc.accrueClosedTrade("zulu_002", closedTrade(0, 1200))

	copies, _ := svc.MyCopies("user_001")
	require.Len(t, copies, 2)
	for _, c := range copies {
		assert.Zero(t, c.TotalProfit)
		assert.Zero(t, c.ClosedTrades)
		assert.InDelta(t, c.Amount, c.CurrentValue, 1e-9)
	}
}

func TestStopCopy(t *testing.T) {
	svc := newTestService(t)

	copyRel, err := svc.CopyTrader("user_001", "etr_001", 5000, "medium")
	require.NoError(t, err)

	res, err := svc.StopCopy(copyRel.ID, true)
	require.NoError(t, err)
	assert.Equal(t, copyRel.ID, res.CopyID)
	assert.True(t, res.ClosePositions)

	copies, _ := svc.MyCopies("user_001")
	require.Len(t, copies, 1)
	assert.Equal(t, "stopped", copies[0].Status)
}

func TestStopCopy_NotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.StopCopy("copy_unknown", false)
	assert.ErrorIs(t, err, ErrCopyNotFound)
}

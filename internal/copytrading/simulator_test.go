package copytrading

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elon_broker/internal/models"
)

func newTestSimulator(t *testing.T) *Simulator {
	t.Helper()
	return NewSimulator(42, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSimulator_SeededState(t *testing.T) {
	sim := newTestSimulator(t)

	traders := sim.TopTraders(TraderFilter{})
	require.Len(t, traders, 5)

	// По умолчанию сортировка по ROI убыванию
	for i := 1; i < len(traders); i++ {
		assert.GreaterOrEqual(t, traders[i-1].ROI, traders[i].ROI)
	}
	assert.Equal(t, "bin_005", traders[0].ID)

	details, ok := sim.Trader("etr_001")
	require.True(t, ok)
	assert.Equal(t, "CryptoKing_Pro", details.Name)
	assert.Len(t, details.CurrentTrades, 3)
	assert.NotNil(t, details.PlatformInfo)
	assert.Equal(t, "eToro", details.PlatformInfo.Name)
	assert.InDelta(t, 87.3/(100-87.3), details.DetailedStats.ProfitFactor, 1e-9)
}

func TestSimulator_TopTradersFilters(t *testing.T) {
	sim := newTestSimulator(t)

	byPlatform := sim.TopTraders(TraderFilter{Platform: "etoro"})
	require.Len(t, byPlatform, 1)
	assert.Equal(t, "etr_001", byPlatform[0].ID)

	minROI := 300.0
	highROI := sim.TopTraders(TraderFilter{MinROI: &minROI})
	for _, tr := range highROI {
		assert.GreaterOrEqual(t, tr.ROI, minROI)
	}
	assert.Len(t, highROI, 3)

	maxRisk := 5.0
	lowRisk := sim.TopTraders(TraderFilter{MaxRisk: &maxRisk})
	for _, tr := range lowRisk {
		assert.LessOrEqual(t, tr.RiskScore, maxRisk)
	}
	assert.Len(t, lowRisk, 2)

	byFollowers := sim.TopTraders(TraderFilter{SortBy: "followers"})
	assert.Equal(t, "bin_005", byFollowers[0].ID)
}

func TestSimulator_TickMovesPnL(t *testing.T) {
	sim := newTestSimulator(t)

	before, ok := sim.Trader("etr_001")
	require.True(t, ok)
	beforePnL := before.CurrentTrades[0].PnL

	for i := 0; i < 10; i++ {
		sim.tick()
	}

	after, ok := sim.Trader("etr_001")
	require.True(t, ok)

	if len(after.CurrentTrades) > 0 {
		// PnL хоть раз сдвинулся относительно исходного значения
		moved := false
		for _, trade := range after.CurrentTrades {
			if trade.PnL != beforePnL {
				moved = true
				break
			}
		}
		assert.True(t, moved)
	}

	// dailyReturn пересчитан из суммарного PnL открытых позиций
	var totalPnL float64
	for _, trade := range after.CurrentTrades {
		totalPnL += trade.PnL
	}
	assert.InDelta(t, totalPnL/after.TotalAssets*100, after.DailyReturn, 1e-9)
}

func TestSimulator_ActivityRingCapped(t *testing.T) {
	sim := newTestSimulator(t)

	for i := 0; i < 500; i++ {
		sim.tick()
	}

	for _, id := range []string{"etr_001", "zulu_002", "mfx_003", "tv_004", "bin_005"} {
		feed, ok := sim.Activity(id, 0)
		require.True(t, ok)
		assert.LessOrEqual(t, len(feed.RecentActivity), activityLimit)

		// Лента отсортирована от новых к старым
		for i := 1; i < len(feed.RecentActivity); i++ {
			assert.False(t, feed.RecentActivity[i].Timestamp.After(feed.RecentActivity[i-1].Timestamp))
		}
	}
}

func TestSimulator_ActivityLimit(t *testing.T) {
	sim := newTestSimulator(t)

	for i := 0; i < 500; i++ {
		sim.tick()
	}

	feed, ok := sim.Activity("mfx_003", 3)
	require.True(t, ok)
	assert.LessOrEqual(t, len(feed.RecentActivity), 3)

	_, ok = sim.Activity("unknown", 10)
	assert.False(t, ok)
}

func TestSimulator_ClosedTradesLeaveCurrent(t *testing.T) {
	sim := newTestSimulator(t)

	for i := 0; i < 200; i++ {
		sim.tick()
	}

	traders := sim.TopTraders(TraderFilter{})
	for _, tr := range traders {
		for _, trade := range tr.CurrentTrades {
			assert.Equal(t, "open", trade.Status)
		}
	}
}

func TestSimulator_TradeCloseNotifiesListener(t *testing.T) {
	sim := newTestSimulator(t)

	var closed []models.LiveTrade
	sim.OnTradeClosed(func(traderID string, trade models.LiveTrade) {
		// Чтение состояния из обработчика не должно блокироваться тиком
		_, ok := sim.Trader(traderID)
		require.True(t, ok)
		closed = append(closed, trade)
	})

	for i := 0; i < 500 && len(closed) == 0; i++ {
		sim.tick()
	}

	require.NotEmpty(t, closed)
	for _, trade := range closed {
		assert.Equal(t, "closed", trade.Status)
		assert.Greater(t, trade.PnL, closeProfitThreshold)
		require.NotNil(t, trade.CloseTime)
		assert.Positive(t, trade.Size)
	}
}

func TestSimulator_Platforms(t *testing.T) {
	sim := newTestSimulator(t)

	ps := sim.Platforms()
	require.Len(t, ps, 5)
	for _, p := range ps {
		assert.Equal(t, 1, p.TraderCount)
	}
}

func TestSimulator_LiveUpdates(t *testing.T) {
	sim := newTestSimulator(t)
	sim.tick()

	updates := sim.LiveUpdates()
	require.Len(t, updates, 5)
	for _, u := range updates {
		assert.NotEmpty(t, u.ID)
		assert.Contains(t, []string{"online", "away"}, u.Status)
	}
}

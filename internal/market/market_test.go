package market

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(42, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestPrices_KnownAndUnknownSymbols(t *testing.T) {
	svc := newTestService(t)

	prices, _ := svc.Prices([]string{"BINANCE:BTCUSDT", "FX:EURUSD", "NASDAQ:FAKE"})
	require.Len(t, prices, 2)
	assert.InDelta(t, 45000.0, prices["BINANCE:BTCUSDT"].Price, 1e-9)
	assert.InDelta(t, 1.0850, prices["FX:EURUSD"].Price, 1e-9)
}

func TestAllPrices_CategoryFilter(t *testing.T) {
	svc := newTestService(t)

	crypto, _ := svc.AllPrices("crypto")
	require.NotEmpty(t, crypto)
	for symbol := range crypto {
		assert.Contains(t, symbol, "BINANCE:")
	}

	stocks, _ := svc.AllPrices("stocks")
	require.NotEmpty(t, stocks)
	for symbol := range stocks {
		assert.True(t,
			strings.HasPrefix(symbol, "NASDAQ:") || strings.HasPrefix(symbol, "NYSE:"),
			"unexpected symbol %s", symbol)
	}

	all, _ := svc.AllPrices("")
	assert.Len(t, all, 24)
}

func TestPrice_NotFound(t *testing.T) {
	svc := newTestService(t)

	_, _, ok := svc.Price("BINANCE:NOPEUSDT")
	assert.False(t, ok)

	q, _, ok := svc.Price("NYSE:JPM")
	require.True(t, ok)
	assert.InDelta(t, 158.75, q.Price, 1e-9)
}

func TestReprice_BoundedStep(t *testing.T) {
	svc := newTestService(t)

	before, _ := svc.AllPrices("")
	svc.reprice()
	after, _ := svc.AllPrices("")

	for symbol, b := range before {
		a := after[symbol]
		// Шаг цены в пределах ±2% плюс запас на округление
		assert.LessOrEqual(t, a.Price, b.Price*1.021, symbol)
		assert.GreaterOrEqual(t, a.Price, b.Price*0.979, symbol)
		assert.LessOrEqual(t, a.Change, 2.01, symbol)
		assert.GreaterOrEqual(t, a.Change, -2.01, symbol)
	}
}

func TestTicker(t *testing.T) {
	svc := newTestService(t)

	entries, _ := svc.Ticker()
	require.Len(t, entries, 5)

	names := map[string]string{}
	for _, e := range entries {
		names[e.Symbol] = e.DisplayName
	}
	assert.Equal(t, "BTC/USDT", names["BINANCE:BTCUSDT"])
	assert.Equal(t, "EUR/USD", names["FX:EURUSD"])
	assert.Equal(t, "AAPL", names["NASDAQ:AAPL"])
}

func TestChart(t *testing.T) {
	svc := newTestService(t)

	candles, ok := svc.Chart("BINANCE:ETHUSDT", "1h", 50)
	require.True(t, ok)
	assert.Len(t, candles, 51)

	for i, c := range candles {
		assert.GreaterOrEqual(t, c.High, c.Low)
		if i > 0 {
			assert.Greater(t, c.Timestamp, candles[i-1].Timestamp)
		}
	}

	_, ok = svc.Chart("UNKNOWN", "1h", 10)
	assert.False(t, ok)
}

func TestStats(t *testing.T) {
	svc := newTestService(t)

	stats := svc.Stats()
	assert.Equal(t, 24, stats.Overview.TotalSymbols)
	assert.Equal(t, stats.Overview.TotalSymbols,
		stats.Overview.Gainers+stats.Overview.Losers+stats.Overview.Unchanged)

	assert.LessOrEqual(t, len(stats.TopGainers), 5)
	assert.LessOrEqual(t, len(stats.TopLosers), 5)

	for i := 1; i < len(stats.TopGainers); i++ {
		assert.GreaterOrEqual(t, stats.TopGainers[i-1].Change, stats.TopGainers[i].Change)
	}
	for i := 1; i < len(stats.TopLosers); i++ {
		assert.LessOrEqual(t, stats.TopLosers[i-1].Change, stats.TopLosers[i].Change)
	}
}

func TestHealth(t *testing.T) {
	svc := newTestService(t)

	h := svc.Health()
	assert.Equal(t, 24, h.TotalSymbols)
	assert.GreaterOrEqual(t, h.Uptime, 0.0)
}

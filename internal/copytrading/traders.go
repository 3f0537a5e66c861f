package copytrading

import (
	"time"

	"elon_broker/internal/models"
)

// platforms - подключенные торговые площадки
var platforms = []models.Platform{
	{
		ID:            "etoro",
		Name:          "eToro",
		APIURL:        "https://api.etoro.com/sapi/v2",
		WebsocketURL:  "wss://api.etoro.com/ws",
		Features:      []string{"stocks", "crypto", "forex", "commodities"},
		MinCopyAmount: 200,
		MaxCopyAmount: 2000000,
	},
	{
		ID:            "zulutrade",
		Name:          "ZuluTrade",
		APIURL:        "https://zulutrade.com/api",
		WebsocketURL:  "wss://stream.zulutrade.com",
		Features:      []string{"forex", "crypto", "indices"},
		MinCopyAmount: 100,
		MaxCopyAmount: 1000000,
	},
	{
		ID:            "myfxbook",
		Name:          "MyFXBook",
		APIURL:        "https://www.myfxbook.com/api",
		Features:      []string{"forex", "crypto"},
		MinCopyAmount: 50,
		MaxCopyAmount: 500000,
	},
	{
		ID:            "tradingview",
		Name:          "TradingView",
		APIURL:        "https://scanner.tradingview.com",
		WebsocketURL:  "wss://data.tradingview.com/socket.io/websocket",
		Features:      []string{"stocks", "crypto", "forex", "commodities", "indices"},
		MinCopyAmount: 100,
		MaxCopyAmount: 1000000,
	},
	{
		ID:            "binance",
		Name:          "Binance",
		APIURL:        "https://api.binance.com/api/v3",
		WebsocketURL:  "wss://stream.binance.com:9443/ws",
		Features:      []string{"crypto", "futures"},
		MinCopyAmount: 10,
		MaxCopyAmount: 100000,
	},
}

// platformSymbols - инструменты, которые торгует каждая площадка
var platformSymbols = map[string][]string{
	"etoro":       {"BTCUSD", "ETHUSD", "AAPL", "TSLA", "EURUSD", "GOLD"},
	"zulutrade":   {"EURUSD", "GBPUSD", "USDJPY", "USDCHF", "AUDUSD"},
	"myfxbook":    {"EURUSD", "GBPUSD", "USDJPY", "BTCUSD", "ETHUSD"},
	"tradingview": {"AAPL", "GOOGL", "MSFT", "TSLA", "NVDA", "SPY"},
	"binance":     {"BTCUSDT", "ETHUSDT", "BNBUSDT", "ADAUSDT", "SOLUSDT"},
}

func symbolsForPlatform(platform string) []string {
	if symbols, ok := platformSymbols[platform]; ok {
		return symbols
	}
	return []string{"BTCUSD", "ETHUSD", "EURUSD"}
}

func findPlatform(id string) (models.Platform, bool) {
	for _, p := range platforms {
		if p.ID == id {
			return p, true
		}
	}
	return models.Platform{}, false
}

// seedTrade - открытая позиция при старте симуляции
type seedTrade struct {
	symbol    string
	direction string
	size      float64
	pnl       float64
}

type seedTrader struct {
	trader models.Trader
	trades []seedTrade
}

// seedTraders - профили трейдеров, с которых стартует симуляция
func seedTraders(now time.Time) []seedTrader {
	return []seedTrader{
		{
			trader: models.Trader{
				ID: "etr_001", Platform: "etoro", Name: "CryptoKing_Pro", RealName: "Alexander Chen",
				Avatar: "https://avatars.etoro.com/550x550/395871697.jpg", Verified: true,
				Country: "Singapore", JoinDate: "2019-03-15",
				ROI: 347.8, MonthlyReturn: 28.5, WeeklyReturn: 6.2, DailyReturn: 1.8,
				Followers: 15647, Copiers: 1847, WinRate: 87.3,
				TotalTrades: 2856, ProfitableTrades: 2495,
				RiskScore: 6.8, MaxDrawdown: 12.4, SharpeRatio: 2.31,
				TotalProfit: 1247850, ActivePositions: 23, TotalAssets: 3580000,
				Description:     "Professional crypto trader with 8+ years experience. Focus on DeFi and altcoins.",
				Specializations: []string{"crypto", "defi", "altcoins"},
				TradingStyle:    "Swing Trading", AvgHoldingPeriod: "3-7 days",
				LastTradeTime: now.Add(-30 * time.Minute), Status: "online",
			},
			trades: []seedTrade{
				{"BTCUSD", "long", 50000, 2847},
				{"ETHUSD", "long", 30000, 1256},
				{"ADAUSD", "short", 15000, -345},
			},
		},
		{
			trader: models.Trader{
				ID: "zulu_002", Platform: "zulutrade", Name: "ForexMaster_EU", RealName: "Maria Rodriguez",
				Avatar: "https://images.zulutrade.com/traders/photo_150x150_2187394.jpg", Verified: true,
				Country: "Spain", JoinDate: "2018-07-22",
				ROI: 234.6, MonthlyReturn: 18.7, WeeklyReturn: 4.3, DailyReturn: 0.9,
				Followers: 8934, Copiers: 967, WinRate: 79.4,
				TotalTrades: 1847, ProfitableTrades: 1467,
				RiskScore: 4.2, MaxDrawdown: 8.7, SharpeRatio: 1.89,
				TotalProfit: 687450, ActivePositions: 8, TotalAssets: 1250000,
				Description:     "Conservative forex trader specializing in EUR/USD and major pairs.",
				Specializations: []string{"forex", "majors", "conservative"},
				TradingStyle:    "Position Trading", AvgHoldingPeriod: "1-2 weeks",
				LastTradeTime: now.Add(-time.Hour), Status: "online",
			},
			trades: []seedTrade{
				{"EURUSD", "long", 100000, 1245},
				{"GBPUSD", "short", 50000, 678},
			},
		},
		{
			trader: models.Trader{
				ID: "mfx_003", Platform: "myfxbook", Name: "ScalpingNinja", RealName: "Takeshi Yamamoto",
				Avatar: "https://www.myfxbook.com/photos/185274/150x150.jpg", Verified: true,
				Country: "Japan", JoinDate: "2020-01-10",
				ROI: 456.2, MonthlyReturn: 35.8, WeeklyReturn: 8.7, DailyReturn: 2.1,
				Followers: 12456, Copiers: 2134, WinRate: 92.1,
				TotalTrades: 5847, ProfitableTrades: 5385,
				RiskScore: 7.9, MaxDrawdown: 15.6, SharpeRatio: 2.67,
				TotalProfit: 1456780, ActivePositions: 45, TotalAssets: 2890000,
				Description:     "High-frequency scalping specialist. Expert in automated trading systems.",
				Specializations: []string{"scalping", "automation", "high-frequency"},
				TradingStyle:    "Scalping", AvgHoldingPeriod: "5-30 minutes",
				LastTradeTime: now.Add(-5 * time.Minute), Status: "online",
			},
			trades: []seedTrade{
				{"USDJPY", "long", 200000, 3456},
				{"EURJPY", "short", 150000, 1789},
				{"BTCJPY", "long", 75000, 2134},
			},
		},
		{
			trader: models.Trader{
				ID: "tv_004", Platform: "tradingview", Name: "StockWizard_US", RealName: "Jennifer Thompson",
				Avatar: "https://s3-symbol-logo.tradingview.com/country/US--big.svg", Verified: true,
				Country: "United States", JoinDate: "2017-11-08",
				ROI: 189.7, MonthlyReturn: 14.2, WeeklyReturn: 3.1, DailyReturn: 0.7,
				Followers: 6785, Copiers: 543, WinRate: 74.8,
				TotalTrades: 967, ProfitableTrades: 724,
				RiskScore: 3.8, MaxDrawdown: 6.9, SharpeRatio: 1.45,
				TotalProfit: 456780, ActivePositions: 12, TotalAssets: 1680000,
				Description:     "Long-term stock investor focusing on tech and growth stocks.",
				Specializations: []string{"stocks", "tech", "growth"},
				TradingStyle:    "Buy & Hold", AvgHoldingPeriod: "3-6 months",
				LastTradeTime: now.Add(-2 * time.Hour), Status: "online",
			},
			trades: []seedTrade{
				{"AAPL", "long", 500, 2345},
				{"TSLA", "long", 300, 1678},
				{"NVDA", "long", 200, 3456},
			},
		},
		{
			trader: models.Trader{
				ID: "bin_005", Platform: "binance", Name: "DeFi_Pioneer", RealName: "Ahmed Al-Hassan",
				Avatar: "https://public.binance.com/static/images/common/logo.png", Verified: true,
				Country: "UAE", JoinDate: "2020-08-14",
				ROI: 678.9, MonthlyReturn: 42.3, WeeklyReturn: 9.8, DailyReturn: 2.8,
				Followers: 23456, Copiers: 3467, WinRate: 85.6,
				TotalTrades: 4567, ProfitableTrades: 3909,
				RiskScore: 8.4, MaxDrawdown: 22.8, SharpeRatio: 2.89,
				TotalProfit: 2345670, ActivePositions: 67, TotalAssets: 5670000,
				Description:     "DeFi yield farming expert and futures trading specialist.",
				Specializations: []string{"defi", "yield-farming", "futures"},
				TradingStyle:    "Yield Farming", AvgHoldingPeriod: "1-4 weeks",
				LastTradeTime: now.Add(-15 * time.Minute), Status: "online",
			},
			trades: []seedTrade{
				{"ETHUSDT", "long", 100000, 4567},
				{"BNBUSDT", "long", 50000, 2234},
				{"ADAUSDT", "short", 75000, 1678},
			},
		},
	}
}

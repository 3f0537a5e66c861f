package market

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"
)

const repriceInterval = 5 * time.Second

// Quote - котировка инструмента
type Quote struct {
	Price  float64 `json:"price"`
	Change float64 `json:"change"`
	Volume float64 `json:"volume"`
}

// Candle - одна свеча графика
type Candle struct {
	Timestamp int64     `json:"timestamp"`
	Time      time.Time `json:"time"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// TickerEntry - строка тикера для фронтенда
type TickerEntry struct {
	Symbol        string  `json:"symbol"`
	DisplayName   string  `json:"displayName"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Volume        float64 `json:"volume"`
}

// SymbolQuote - котировка с символом, для списков gainers/losers
type SymbolQuote struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
	Change float64 `json:"change"`
	Volume float64 `json:"volume"`
}

// Overview - сводные рыночные показатели
type Overview struct {
	TotalSymbols int     `json:"totalSymbols"`
	Gainers      int     `json:"gainers"`
	Losers       int     `json:"losers"`
	Unchanged    int     `json:"unchanged"`
	AvgChange    float64 `json:"avgChange"`
	TotalVolume  float64 `json:"totalVolume"`
}

// Stats - рыночная статистика
type Stats struct {
	Overview    Overview      `json:"overview"`
	TopGainers  []SymbolQuote `json:"topGainers"`
	TopLosers   []SymbolQuote `json:"topLosers"`
	LastUpdated time.Time     `json:"lastUpdated"`
}

// Стартовые котировки. В продакшене сюда подключается внешний фид.
var seedPrices = map[string]Quote{
	"BINANCE:BTCUSDT":  {Price: 45000, Change: 2.5, Volume: 1250000},
	"BINANCE:ETHUSDT":  {Price: 2800, Change: -1.2, Volume: 850000},
	"BINANCE:BNBUSDT":  {Price: 320, Change: 0.8, Volume: 420000},
	"BINANCE:SOLUSDT":  {Price: 98.5, Change: 3.2, Volume: 680000},
	"BINANCE:XRPUSDT":  {Price: 0.52, Change: -0.8, Volume: 920000},
	"BINANCE:DOGEUSDT": {Price: 0.08, Change: 1.5, Volume: 1100000},
	"BINANCE:ADAUSDT":  {Price: 0.45, Change: -0.3, Volume: 520000},
	"FX:EURUSD":        {Price: 1.0850, Change: 0.15},
	"FX:GBPUSD":        {Price: 1.2750, Change: -0.25},
	"FX:USDJPY":        {Price: 147.50, Change: 0.35},
	"FX:USDCHF":        {Price: 0.8920, Change: -0.12},
	"FX:AUDUSD":        {Price: 0.6580, Change: 0.22},
	"FX:USDCAD":        {Price: 1.3650, Change: 0.08},
	"FX:NZDUSD":        {Price: 0.6120, Change: -0.18},
	"NASDAQ:AAPL":      {Price: 175.50, Change: 1.25, Volume: 45000000},
	"NASDAQ:MSFT":      {Price: 385.20, Change: 0.95, Volume: 28000000},
	"NASDAQ:GOOGL":     {Price: 138.25, Change: 0.85, Volume: 22000000},
	"NASDAQ:AMZN":      {Price: 155.80, Change: -0.45, Volume: 35000000},
	"NASDAQ:TSLA":      {Price: 245.80, Change: -2.15, Volume: 68000000},
	"NYSE:BRK.A":       {Price: 545000, Change: 0.12, Volume: 850},
	"NYSE:JPM":         {Price: 158.75, Change: 0.58, Volume: 12000000},
	"NYSE:V":           {Price: 265.40, Change: 0.32, Volume: 8500000},
	"NYSE:UNH":         {Price: 520.30, Change: 1.15, Volume: 3200000},
	"NYSE:HD":          {Price: 345.60, Change: -0.28, Volume: 4500000},
}

var tickerSymbols = []string{
	"BINANCE:BTCUSDT",
	"BINANCE:ETHUSDT",
	"FX:EURUSD",
	"NASDAQ:AAPL",
	"NASDAQ:TSLA",
}

var fxPairRe = regexp.MustCompile(`^([A-Z]{3})([A-Z]{3})$`)

// Service раздает мок-котировки и перерисовывает их случайным блужданием
type Service struct {
	mu          sync.RWMutex
	prices      map[string]Quote
	lastUpdated time.Time
	startedAt   time.Time
	rnd         *rand.Rand
	logger      *slog.Logger
}

// NewService создает сервис с начальными котировками
func NewService(seed int64, logger *slog.Logger) *Service {
	prices := make(map[string]Quote, len(seedPrices))
	for symbol, q := range seedPrices {
		prices[symbol] = q
	}

	return &Service{
		prices:      prices,
		lastUpdated: time.Now(),
		startedAt:   time.Now(),
		rnd:         rand.New(rand.NewSource(seed)),
		logger:      logger,
	}
}

// Run перерисовывает котировки до отмены контекста
func (s *Service) Run(ctx context.Context) {
	ticker := time.NewTicker(repriceInterval)
	defer ticker.Stop()

	s.logger.Info("📈 Market price simulation started", slog.Int("symbols", len(s.prices)))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("🛑 Market price simulation stopped")
			return
		case <-ticker.C:
			s.reprice()
		}
	}
}

// reprice сдвигает каждую котировку в пределах ±2%
func (s *Service) reprice() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for symbol, q := range s.prices {
		fluctuation := (s.rnd.Float64() - 0.5) * 0.04
		newPrice := q.Price * (1 + fluctuation)
		change := (newPrice - q.Price) / q.Price * 100

		q.Price = round2(newPrice)
		q.Change = round2(change)
		s.prices[symbol] = q
	}

	s.lastUpdated = time.Now()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Prices возвращает котировки запрошенных символов
func (s *Service) Prices(symbols []string) (map[string]Quote, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]Quote)
	for _, symbol := range symbols {
		if q, ok := s.prices[symbol]; ok {
			out[symbol] = q
		}
	}

	return out, s.lastUpdated
}

// AllPrices возвращает все котировки, опционально по категории
// (crypto, forex, stocks)
func (s *Service) AllPrices(category string) (map[string]Quote, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var prefixes []string
	switch strings.ToLower(category) {
	case "crypto":
		prefixes = []string{"BINANCE:"}
	case "forex":
		prefixes = []string{"FX:"}
	case "stocks":
		prefixes = []string{"NASDAQ:", "NYSE:"}
	}

	out := make(map[string]Quote)
	for symbol, q := range s.prices {
		if len(prefixes) == 0 {
			out[symbol] = q
			continue
		}
		for _, prefix := range prefixes {
			if strings.HasPrefix(symbol, prefix) {
				out[symbol] = q
				break
			}
		}
	}

	return out, s.lastUpdated
}

// Price возвращает котировку одного символа
func (s *Service) Price(symbol string) (Quote, time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.prices[symbol]
	return q, s.lastUpdated, ok
}

// Ticker возвращает строки тикера по ключевым символам
func (s *Service) Ticker() ([]TickerEntry, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]TickerEntry, 0, len(tickerSymbols))
	for _, symbol := range tickerSymbols {
		q, ok := s.prices[symbol]
		if !ok {
			continue
		}

		out = append(out, TickerEntry{
			Symbol:        symbol,
			DisplayName:   displayName(symbol),
			Name:          displayName(symbol),
			Price:         q.Price,
			Change:        q.Change,
			ChangePercent: q.Change,
			Volume:        q.Volume,
		})
	}

	return out, s.lastUpdated
}

// displayName превращает биржевой символ в человекочитаемое имя
func displayName(symbol string) string {
	switch {
	case strings.HasPrefix(symbol, "BINANCE:"):
		return strings.Replace(strings.TrimPrefix(symbol, "BINANCE:"), "USDT", "/USDT", 1)
	case strings.HasPrefix(symbol, "FX:"):
		return fxPairRe.ReplaceAllString(strings.TrimPrefix(symbol, "FX:"), "$1/$2")
	case strings.Contains(symbol, ":"):
		return strings.SplitN(symbol, ":", 2)[1]
	}
	return symbol
}

// Chart генерирует мок-историю свечей вокруг текущей цены
func (s *Service) Chart(symbol, interval string, limit int) ([]Candle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.prices[symbol]
	if !ok {
		return nil, false
	}

	if limit <= 0 {
		limit = 100
	}

	step := intervalDuration(interval)
	now := time.Now()

	candles := make([]Candle, 0, limit+1)
	for i := limit; i >= 0; i-- {
		ts := now.Add(-time.Duration(i) * step)
		variation := (s.rnd.Float64() - 0.5) * 0.1
		price := q.Price * (1 + variation)

		candles = append(candles, Candle{
			Timestamp: ts.UnixMilli(),
			Time:      ts,
			Open:      round2(price * 0.998),
			High:      round2(price * 1.005),
			Low:       round2(price * 0.995),
			Close:     round2(price),
			Volume:    int64(s.rnd.Intn(1000000) + 100000),
		})
	}

	return candles, true
}

func intervalDuration(interval string) time.Duration {
	switch interval {
	case "1m":
		return time.Minute
	case "5m":
		return 5 * time.Minute
	case "15m":
		return 15 * time.Minute
	case "1h":
		return time.Hour
	case "4h":
		return 4 * time.Hour
	case "1d":
		return 24 * time.Hour
	default:
		return time.Hour
	}
}

// Stats считает сводку по рынку с топами роста и падения
func (s *Service) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	overview := Overview{TotalSymbols: len(s.prices)}
	var all []SymbolQuote
	for symbol, q := range s.prices {
		all = append(all, SymbolQuote{Symbol: symbol, Price: q.Price, Change: q.Change, Volume: q.Volume})

		switch {
		case q.Change > 0:
			overview.Gainers++
		case q.Change < 0:
			overview.Losers++
		default:
			overview.Unchanged++
		}
		overview.AvgChange += q.Change
		overview.TotalVolume += q.Volume
	}
	if len(all) > 0 {
		overview.AvgChange = round2(overview.AvgChange / float64(len(all)))
	}
	overview.TotalVolume = math.Round(overview.TotalVolume)

	var gainers, losers []SymbolQuote
	for _, sq := range all {
		if sq.Change > 0 {
			gainers = append(gainers, sq)
		} else if sq.Change < 0 {
			losers = append(losers, sq)
		}
	}
	sort.Slice(gainers, func(i, j int) bool { return gainers[i].Change > gainers[j].Change })
	sort.Slice(losers, func(i, j int) bool { return losers[i].Change < losers[j].Change })
	if len(gainers) > 5 {
		gainers = gainers[:5]
	}
	if len(losers) > 5 {
		losers = losers[:5]
	}

	return Stats{
		Overview:    overview,
		TopGainers:  gainers,
		TopLosers:   losers,
		LastUpdated: s.lastUpdated,
	}
}

// Health - состояние сервиса котировок
type Health struct {
	TotalSymbols    int       `json:"totalSymbols"`
	LastPriceUpdate time.Time `json:"lastPriceUpdate"`
	Uptime          float64   `json:"uptime"`
	Timestamp       time.Time `json:"timestamp"`
}

// Health возвращает состояние сервиса
func (s *Service) Health() Health {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Health{
		TotalSymbols:    len(s.prices),
		LastPriceUpdate: s.lastUpdated,
		Uptime:          time.Since(s.startedAt).Seconds(),
		Timestamp:       time.Now(),
	}
}

package copytrading

import (
	"context"
	"log/slog"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"elon_broker/internal/models"
)

const (
	tickInterval = 5 * time.Second

	// Вероятности событий на один тик симуляции
	openTradeProbability  = 0.05
	closeTradeProbability = 0.10
	closeProfitThreshold  = 500.0

	activityLimit = 20
)

// liveState - изменяемое состояние одного трейдера
type liveState struct {
	trader         models.Trader
	currentTrades  []*models.LiveTrade
	recentActivity []models.TraderActivity
	isTrading      bool
	lastUpdate     time.Time
}

// Simulator гоняет симуляцию торговой активности трейдеров.
// Каждый тик открывает новые сделки, двигает PnL случайным блужданием
// и закрывает часть прибыльных позиций.
type Simulator struct {
	mu     sync.RWMutex
	state  map[string]*liveState
	order  []string
	rnd    *rand.Rand
	logger *slog.Logger
	now    func() time.Time

	onTradeClosed func(traderID string, trade models.LiveTrade)
}

// NewSimulator создает симулятор с детерминированным при заданном seed поведением
func NewSimulator(seed int64, logger *slog.Logger) *Simulator {
	s := &Simulator{
		state:  make(map[string]*liveState),
		rnd:    rand.New(rand.NewSource(seed)),
		logger: logger,
		now:    time.Now,
	}

	for _, st := range seedTraders(s.now()) {
		ls := &liveState{
			trader:     st.trader,
			isTrading:  s.rnd.Float64() > 0.3,
			lastUpdate: s.now(),
		}
		for _, tr := range st.trades {
			ls.currentTrades = append(ls.currentTrades, &models.LiveTrade{
				Symbol:    tr.symbol,
				Direction: tr.direction,
				Size:      tr.size,
				PnL:       tr.pnl,
				Status:    "open",
			})
		}
		s.state[st.trader.ID] = ls
		s.order = append(s.order, st.trader.ID)
	}

	return s
}

// OnTradeClosed регистрирует обработчик закрытия сделки.
// Обработчик вызывается после каждого тика вне блокировки симулятора,
// поэтому из него можно безопасно читать состояние трейдеров.
func (s *Simulator) OnTradeClosed(fn func(traderID string, trade models.LiveTrade)) {
	s.mu.Lock()
	s.onTradeClosed = fn
	s.mu.Unlock()
}

// Run крутит симуляцию до отмены контекста
func (s *Simulator) Run(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	s.logger.Info("🚀 Copy trading simulation started", slog.Int("traders", len(s.order)))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("🛑 Copy trading simulation stopped")
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

// closedTradeEvent - закрытая на тике сделка для обработчиков
type closedTradeEvent struct {
	traderID string
	trade    models.LiveTrade
}

// tick выполняет один шаг симуляции по всем трейдерам
func (s *Simulator) tick() {
	s.mu.Lock()

	now := s.now()

	var closedTrades []closedTradeEvent

	for _, id := range s.order {
		ls := s.state[id]

		// Новая сделка с небольшой вероятностью, только если трейдер активен
		if s.rnd.Float64() < openTradeProbability && ls.isTrading {
			symbols := symbolsForPlatform(ls.trader.Platform)
			direction := "short"
			if s.rnd.Float64() > 0.5 {
				direction = "long"
			}

			openTime := now
			trade := &models.LiveTrade{
				ID:        uuid.NewString(),
				Symbol:    symbols[s.rnd.Intn(len(symbols))],
				Direction: direction,
				Size:      float64(s.rnd.Intn(100000) + 10000),
				PnL:       0,
				Status:    "open",
				OpenTime:  &openTime,
			}

			ls.currentTrades = append(ls.currentTrades, trade)
			s.pushActivity(ls, models.TraderActivity{Type: "trade_open", Timestamp: now, Trade: *trade})
		}

		// PnL открытых позиций двигается случайным блужданием
		open := ls.currentTrades[:0]
		for _, trade := range ls.currentTrades {
			trade.PnL += (s.rnd.Float64() - 0.5) * 1000

			if s.rnd.Float64() < closeTradeProbability && trade.PnL > closeProfitThreshold {
				trade.Status = "closed"
				closed := *trade
				closeTime := now
				closed.CloseTime = &closeTime
				s.pushActivity(ls, models.TraderActivity{Type: "trade_close", Timestamp: now, Trade: closed})
				closedTrades = append(closedTrades, closedTradeEvent{traderID: id, trade: closed})
				continue
			}

			open = append(open, trade)
		}
		ls.currentTrades = open

		var totalPnL float64
		for _, trade := range ls.currentTrades {
			totalPnL += trade.PnL
		}
		ls.trader.DailyReturn = totalPnL / ls.trader.TotalAssets * 100
		ls.lastUpdate = now

		ls.isTrading = s.rnd.Float64() > 0.2
		if ls.isTrading {
			ls.trader.Status = "online"
		} else {
			ls.trader.Status = "away"
		}
	}

	fn := s.onTradeClosed
	s.mu.Unlock()

	if fn == nil {
		return
	}
	for _, ev := range closedTrades {
		fn(ev.traderID, ev.trade)
	}
}

// pushActivity добавляет запись в начало ленты, обрезая ее до activityLimit
func (s *Simulator) pushActivity(ls *liveState, activity models.TraderActivity) {
	ls.recentActivity = append([]models.TraderActivity{activity}, ls.recentActivity...)
	if len(ls.recentActivity) > activityLimit {
		ls.recentActivity = ls.recentActivity[:activityLimit]
	}
}

// TraderFilter - фильтры списка трейдеров
type TraderFilter struct {
	Platform string
	MinROI   *float64
	MaxRisk  *float64
	SortBy   string
}

// TraderView - трейдер вместе с live данными
type TraderView struct {
	models.Trader
	IsTrading      bool                    `json:"isTrading"`
	CurrentTrades  []models.LiveTrade      `json:"currentTrades"`
	RecentActivity []models.TraderActivity `json:"recentActivity"`
	LastUpdate     time.Time               `json:"lastUpdate"`
	LastActivity   time.Time               `json:"lastActivity"`
	IsLive         bool                    `json:"isLive"`
	PlatformInfo   *models.Platform        `json:"platformInfo,omitempty"`
}

// вызывается под s.mu
func (s *Simulator) view(ls *liveState) TraderView {
	trades := make([]models.LiveTrade, len(ls.currentTrades))
	for i, tr := range ls.currentTrades {
		trades[i] = *tr
	}

	activity := make([]models.TraderActivity, len(ls.recentActivity))
	copy(activity, ls.recentActivity)

	lastActivity := ls.trader.LastTradeTime
	if len(ls.recentActivity) > 0 {
		lastActivity = ls.recentActivity[0].Timestamp
	}

	v := TraderView{
		Trader:         ls.trader,
		IsTrading:      ls.isTrading,
		CurrentTrades:  trades,
		RecentActivity: activity,
		LastUpdate:     ls.lastUpdate,
		LastActivity:   lastActivity,
		IsLive:         true,
	}

	if p, ok := findPlatform(ls.trader.Platform); ok {
		v.PlatformInfo = &p
	}

	return v
}

// TopTraders возвращает отфильтрованный и отсортированный список трейдеров
func (s *Simulator) TopTraders(filter TraderFilter) []TraderView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []TraderView
	for _, id := range s.order {
		ls := s.state[id]

		if filter.Platform != "" && filter.Platform != "all" && ls.trader.Platform != filter.Platform {
			continue
		}
		if filter.MinROI != nil && ls.trader.ROI < *filter.MinROI {
			continue
		}
		if filter.MaxRisk != nil && ls.trader.RiskScore > *filter.MaxRisk {
			continue
		}

		out = append(out, s.view(ls))
	}

	sort.SliceStable(out, func(i, j int) bool {
		switch filter.SortBy {
		case "followers":
			return out[i].Followers > out[j].Followers
		case "winRate":
			return out[i].WinRate > out[j].WinRate
		case "profit":
			return out[i].TotalProfit > out[j].TotalProfit
		default:
			return out[i].ROI > out[j].ROI
		}
	})

	return out
}

// PlatformIDs возвращает идентификаторы подключенных площадок
func (s *Simulator) PlatformIDs() []string {
	ids := make([]string, len(platforms))
	for i, p := range platforms {
		ids[i] = p.ID
	}
	return ids
}

// DetailedStats - производная статистика трейдера
type DetailedStats struct {
	TotalTrades      int     `json:"totalTrades"`
	ProfitableTrades int     `json:"profitableTrades"`
	AvgWin           float64 `json:"avgWin"`
	AvgLoss          float64 `json:"avgLoss"`
	LargestWin       float64 `json:"largestWin"`
	LargestLoss      float64 `json:"largestLoss"`
	ProfitFactor     float64 `json:"profitFactor"`
}

// TraderDetails - карточка трейдера с live данными и статистикой
type TraderDetails struct {
	TraderView
	DetailedStats DetailedStats `json:"detailedStats"`
}

// Trader возвращает карточку трейдера по id
func (s *Simulator) Trader(id string) (*TraderDetails, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ls, ok := s.state[id]
	if !ok {
		return nil, false
	}

	t := ls.trader
	return &TraderDetails{
		TraderView: s.view(ls),
		DetailedStats: DetailedStats{
			TotalTrades:      t.TotalTrades,
			ProfitableTrades: t.ProfitableTrades,
			AvgWin:           t.TotalProfit / float64(t.ProfitableTrades),
			AvgLoss:          t.TotalProfit * (1 - t.WinRate/100) / float64(t.TotalTrades-t.ProfitableTrades),
			LargestWin:       t.TotalProfit * 0.15,
			LargestLoss:      t.TotalProfit * -0.08,
			ProfitFactor:     t.WinRate / (100 - t.WinRate),
		},
	}, true
}

// TraderActivityFeed - текущие позиции и недавняя активность трейдера
type TraderActivityFeed struct {
	CurrentTrades  []models.LiveTrade      `json:"currentTrades"`
	RecentActivity []models.TraderActivity `json:"recentActivity"`
	IsTrading      bool                    `json:"isTrading"`
	LastUpdate     time.Time               `json:"lastUpdate"`
}

// Activity возвращает ленту активности трейдера
func (s *Simulator) Activity(id string, limit int) (*TraderActivityFeed, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ls, ok := s.state[id]
	if !ok {
		return nil, false
	}

	v := s.view(ls)
	activity := v.RecentActivity
	if limit > 0 && limit < len(activity) {
		activity = activity[:limit]
	}

	return &TraderActivityFeed{
		CurrentTrades:  v.CurrentTrades,
		RecentActivity: activity,
		IsTrading:      v.IsTrading,
		LastUpdate:     v.LastUpdate,
	}, true
}

// Platforms возвращает площадки с числом трейдеров на каждой
func (s *Simulator) Platforms() []models.Platform {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Platform, len(platforms))
	for i, p := range platforms {
		count := 0
		for _, id := range s.order {
			if s.state[id].trader.Platform == p.ID {
				count++
			}
		}
		p.TraderCount = count
		out[i] = p
	}

	return out
}

// LiveUpdates возвращает кадр состояния всех трейдеров для live потока
func (s *Simulator) LiveUpdates() []models.TraderUpdate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.TraderUpdate, 0, len(s.order))
	for _, id := range s.order {
		ls := s.state[id]

		lastActivity := ls.trader.LastTradeTime
		if len(ls.recentActivity) > 0 {
			lastActivity = ls.recentActivity[0].Timestamp
		}

		out = append(out, models.TraderUpdate{
			ID:            ls.trader.ID,
			Name:          ls.trader.Name,
			Status:        ls.trader.Status,
			IsTrading:     ls.isTrading,
			CurrentTrades: len(ls.currentTrades),
			DailyReturn:   ls.trader.DailyReturn,
			LastActivity:  lastActivity,
		})
	}

	return out
}

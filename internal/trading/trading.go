package trading

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	ErrTradeNotFound = errors.New("trade not found")

	ErrAmountTooSmall      = errors.New("minimum trade amount is $10")
	ErrAmountTooLarge      = errors.New("maximum trade amount is $10000")
	ErrInsufficientBalance = errors.New("insufficient account balance")
)

const (
	minTradeAmount = 10
	maxTradeAmount = 10000

	// Демо-баланс торгового счета
	accountBalance = 12547.83
)

// Trade - ордер со всеми атрибутами, которые шлет фронтенд
type Trade struct {
	ID              string  `json:"id"`
	Symbol          string  `json:"symbol"`
	Type            string  `json:"type"`
	Multiplier      float64 `json:"multiplier"`
	MultiplierLabel string  `json:"multiplierLabel"`
	Amount          float64 `json:"amount"`
	EntryPrice      float64 `json:"entryPrice"`

	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`

	AssetName     string `json:"assetName"`
	AssetType     string `json:"assetType"`
	AssetCategory string `json:"assetCategory"`

	PotentialProfit float64 `json:"potentialProfit"`
	PotentialLoss   float64 `json:"potentialLoss"`
	RiskRewardRatio float64 `json:"riskRewardRatio"`

	MarketPrice    float64 `json:"marketPrice"`
	Leverage       float64 `json:"leverage"`
	MarginRequired float64 `json:"marginRequired"`

	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	CurrentPrice  float64    `json:"currentPrice"`
	UnrealizedPnL float64    `json:"unrealizedPnl"`
	RealizedPnL   *float64   `json:"realizedPnl"`
	ExitPrice     *float64   `json:"exitPrice,omitempty"`
	ClosedAt      *time.Time `json:"closedAt,omitempty"`
	ClosingReason string     `json:"closingReason,omitempty"`
	HoldingPeriod int64      `json:"holdingPeriod,omitempty"`
}

// OrderRequest - входные данные нового ордера
type OrderRequest struct {
	Symbol          string  `json:"symbol"`
	Type            string  `json:"type"`
	Multiplier      float64 `json:"multiplier"`
	MultiplierLabel string  `json:"multiplierLabel"`
	Amount          float64 `json:"amount"`
	EntryPrice      float64 `json:"entryPrice"`
	UserID          string  `json:"userId"`
	UserName        string  `json:"userName"`
	UserEmail       string  `json:"userEmail"`
	AssetName       string  `json:"assetName"`
	AssetType       string  `json:"assetType"`
	AssetCategory   string  `json:"assetCategory"`
	PotentialProfit float64 `json:"potentialProfit"`
	PotentialLoss   float64 `json:"potentialLoss"`
	RiskRewardRatio float64 `json:"riskRewardRatio"`
	MarketPrice     float64 `json:"marketPrice"`
	Leverage        float64 `json:"leverage"`
	MarginRequired  float64 `json:"marginRequired"`
}

// CloseResult - результат закрытия позиции
type CloseResult struct {
	TradeID    string    `json:"tradeId"`
	Symbol     string    `json:"symbol"`
	EntryPrice float64   `json:"entryPrice"`
	ExitPrice  float64   `json:"exitPrice"`
	PnL        float64   `json:"pnl"`
	Status     string    `json:"status"`
	ClosedAt   time.Time `json:"closedAt"`
	Message    string    `json:"message"`
}

// HistoryMeta - сводка по истории сделок
type HistoryMeta struct {
	Total        int     `json:"total"`
	ActiveTrades int     `json:"activeTrades"`
	ClosedTrades int     `json:"closedTrades"`
	TotalPnL     float64 `json:"totalPnl"`
	WinRate      float64 `json:"winRate"`
	Limit        int     `json:"limit"`
	Offset       int     `json:"offset"`
}

// PositionsMeta - сводка по открытым позициям
type PositionsMeta struct {
	TotalPositions     int     `json:"totalPositions"`
	TotalExposure      float64 `json:"totalExposure"`
	TotalMargin        float64 `json:"totalMargin"`
	TotalUnrealizedPnL float64 `json:"totalUnrealizedPnl"`
}

// Overview - торговая статистика пользователя
type Overview struct {
	Overview struct {
		TotalTrades   int     `json:"totalTrades"`
		ActiveTrades  int     `json:"activeTrades"`
		ClosedTrades  int     `json:"closedTrades"`
		TotalPnL      float64 `json:"totalPnl"`
		WinRate       float64 `json:"winRate"`
		WinningTrades int     `json:"winningTrades"`
		LosingTrades  int     `json:"losingTrades"`
	} `json:"overview"`
	Today struct {
		Trades int     `json:"trades"`
		PnL    float64 `json:"pnl"`
	} `json:"today"`
	AssetDistribution map[string]int `json:"assetDistribution"`
	RecentTrades      []*Trade       `json:"recentTrades"`
}

// AccountVerification - результат проверки счета перед сделкой
type AccountVerification struct {
	UserID           string  `json:"userId"`
	AccountBalance   float64 `json:"accountBalance"`
	AvailableBalance float64 `json:"availableBalance"`
	TradeAmount      float64 `json:"tradeAmount"`
	Verified         bool    `json:"verified"`
}

// Health - состояние торгового сервиса
type Health struct {
	TotalTrades     int       `json:"totalTrades"`
	ActivePositions int       `json:"activePositions"`
	Uptime          float64   `json:"uptime"`
	Timestamp       time.Time `json:"timestamp"`
}

// Service хранит сделки и открытые позиции в памяти
type Service struct {
	mu        sync.RWMutex
	trades    map[string]*Trade
	order     []string
	startedAt time.Time
	logger    *slog.Logger
	now       func() time.Time
}

// NewService создает торговый сервис
func NewService(logger *slog.Logger) *Service {
	return &Service{
		trades:    make(map[string]*Trade),
		startedAt: time.Now(),
		logger:    logger,
		now:       time.Now,
	}
}

// SubmitOrder регистрирует новый ордер
func (s *Service) SubmitOrder(req OrderRequest) (*Trade, error) {
	if req.Symbol == "" || req.Type == "" || req.Amount == 0 || req.EntryPrice == 0 || req.UserID == "" {
		return nil, fmt.Errorf("missing required trade parameters")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	t := &Trade{
		ID:              fmt.Sprintf("trade_%d_%s", now.UnixNano(), req.UserID),
		Symbol:          req.Symbol,
		Type:            strings.ToUpper(req.Type),
		Multiplier:      req.Multiplier,
		MultiplierLabel: req.MultiplierLabel,
		Amount:          req.Amount,
		EntryPrice:      req.EntryPrice,
		UserID:          req.UserID,
		UserName:        req.UserName,
		UserEmail:       req.UserEmail,
		AssetName:       req.AssetName,
		AssetType:       req.AssetType,
		AssetCategory:   req.AssetCategory,
		PotentialProfit: req.PotentialProfit,
		PotentialLoss:   req.PotentialLoss,
		RiskRewardRatio: req.RiskRewardRatio,
		MarketPrice:     req.MarketPrice,
		Leverage:        req.Leverage,
		MarginRequired:  req.MarginRequired,
		Status:          "ACTIVE",
		CreatedAt:       now,
		UpdatedAt:       now,
		CurrentPrice:    req.EntryPrice,
	}

	if t.UserName == "" {
		t.UserName = "Unknown User"
	}
	if t.AssetName == "" {
		t.AssetName = t.Symbol
	}
	if t.AssetType == "" {
		t.AssetType = "unknown"
	}
	if t.AssetCategory == "" {
		t.AssetCategory = "Trading"
	}
	if t.RiskRewardRatio == 0 {
		t.RiskRewardRatio = 1
	}
	if t.MarketPrice == 0 {
		t.MarketPrice = t.EntryPrice
	}
	if t.Leverage == 0 {
		t.Leverage = 1
	}
	if t.MarginRequired == 0 {
		t.MarginRequired = t.Amount
	}
	if t.Multiplier == 0 {
		t.Multiplier = 1
	}

	s.trades[t.ID] = t
	s.order = append(s.order, t.ID)

	s.logger.Info("📊 Trade submitted",
		slog.String("trade_id", t.ID),
		slog.String("user_id", t.UserID),
		slog.String("symbol", t.Symbol),
		slog.String("type", t.Type),
		slog.Float64("amount", t.Amount))

	cp := *t
	return &cp, nil
}

// ClosePosition закрывает позицию и фиксирует PnL
func (s *Service) ClosePosition(tradeID string, closePrice float64) (*CloseResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.trades[tradeID]
	if !ok || t.Status != "ACTIVE" {
		return nil, ErrTradeNotFound
	}

	priceDiff := closePrice - t.EntryPrice
	if t.Type != "BUY" {
		priceDiff = t.EntryPrice - closePrice
	}
	pnl := round2(priceDiff / t.EntryPrice * t.Amount * t.Multiplier)

	now := s.now()
	t.ExitPrice = &closePrice
	t.RealizedPnL = &pnl
	t.Status = "CLOSED"
	t.ClosedAt = &now
	t.UpdatedAt = now
	t.ClosingReason = "manual"
	t.HoldingPeriod = now.Sub(t.CreatedAt).Milliseconds()

	outcome := "profit"
	if pnl < 0 {
		outcome = "loss"
	}

	s.logger.Info("📉 Trade closed",
		slog.String("trade_id", tradeID),
		slog.String("symbol", t.Symbol),
		slog.Float64("pnl", pnl))

	return &CloseResult{
		TradeID:    tradeID,
		Symbol:     t.Symbol,
		EntryPrice: t.EntryPrice,
		ExitPrice:  closePrice,
		PnL:        pnl,
		Status:     "CLOSED",
		ClosedAt:   now,
		Message:    fmt.Sprintf("Trade closed with %s of $%.2f", outcome, math.Abs(pnl)),
	}, nil
}

// History возвращает сделки пользователя со сводкой
func (s *Service) History(userID, status string, limit, offset int) ([]*Trade, HistoryMeta) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var all []*Trade
	for _, id := range s.order {
		t := s.trades[id]
		if t.UserID == userID {
			cp := *t
			all = append(all, &cp)
		}
	}

	meta := HistoryMeta{Total: len(all), Limit: limit, Offset: offset}
	winning := 0
	for _, t := range all {
		if t.Status == "ACTIVE" {
			meta.ActiveTrades++
			continue
		}
		meta.ClosedTrades++
		if t.RealizedPnL != nil {
			meta.TotalPnL += *t.RealizedPnL
			if *t.RealizedPnL > 0 {
				winning++
			}
		}
	}
	meta.TotalPnL = round2(meta.TotalPnL)
	if meta.ClosedTrades > 0 {
		meta.WinRate = round2(float64(winning) / float64(meta.ClosedTrades) * 100)
	}

	if status != "" {
		filtered := all[:0]
		for _, t := range all {
			if t.Status == strings.ToUpper(status) {
				filtered = append(filtered, t)
			}
		}
		all = filtered
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if offset >= len(all) {
		return []*Trade{}, meta
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}

	return all[offset:end], meta
}

// Positions возвращает открытые позиции пользователя
func (s *Service) Positions(userID string) ([]*Trade, PositionsMeta) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var positions []*Trade
	meta := PositionsMeta{}
	for _, id := range s.order {
		t := s.trades[id]
		if t.UserID != userID || t.Status != "ACTIVE" {
			continue
		}

		cp := *t
		positions = append(positions, &cp)
		meta.TotalExposure += t.Amount
		meta.TotalMargin += t.MarginRequired
		meta.TotalUnrealizedPnL += t.UnrealizedPnL
	}

	sort.SliceStable(positions, func(i, j int) bool { return positions[i].CreatedAt.After(positions[j].CreatedAt) })

	meta.TotalPositions = len(positions)
	meta.TotalExposure = round2(meta.TotalExposure)
	meta.TotalMargin = round2(meta.TotalMargin)
	meta.TotalUnrealizedPnL = round2(meta.TotalUnrealizedPnL)

	return positions, meta
}

// VerifyAccount проверяет сумму сделки против лимитов и демо-баланса
func (s *Service) VerifyAccount(userID string, tradeAmount float64) (*AccountVerification, error) {
	if tradeAmount < minTradeAmount {
		return nil, ErrAmountTooSmall
	}
	if tradeAmount > maxTradeAmount {
		return nil, ErrAmountTooLarge
	}
	if tradeAmount > accountBalance {
		return nil, ErrInsufficientBalance
	}

	return &AccountVerification{
		UserID:           userID,
		AccountBalance:   accountBalance,
		AvailableBalance: accountBalance,
		TradeAmount:      tradeAmount,
		Verified:         true,
	}, nil
}

// Overview собирает торговую статистику пользователя
func (s *Service) Overview(userID string) *Overview {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []*Trade
	for _, id := range s.order {
		t := s.trades[id]
		if t.UserID == userID {
			cp := *t
			all = append(all, &cp)
		}
	}

	ov := &Overview{AssetDistribution: map[string]int{}, RecentTrades: []*Trade{}}
	today := s.now().Format("2006-01-02")

	for _, t := range all {
		ov.Overview.TotalTrades++
		ov.AssetDistribution[t.AssetType]++

		if t.Status == "ACTIVE" {
			ov.Overview.ActiveTrades++
			continue
		}

		ov.Overview.ClosedTrades++
		if t.RealizedPnL == nil {
			continue
		}
		ov.Overview.TotalPnL += *t.RealizedPnL
		if *t.RealizedPnL > 0 {
			ov.Overview.WinningTrades++
		} else if *t.RealizedPnL < 0 {
			ov.Overview.LosingTrades++
		}

		if t.ClosedAt != nil && t.ClosedAt.Format("2006-01-02") == today {
			ov.Today.Trades++
			ov.Today.PnL += *t.RealizedPnL
		}
	}

	ov.Overview.TotalPnL = round2(ov.Overview.TotalPnL)
	ov.Today.PnL = round2(ov.Today.PnL)
	if ov.Overview.ClosedTrades > 0 {
		ov.Overview.WinRate = round2(float64(ov.Overview.WinningTrades) / float64(ov.Overview.ClosedTrades) * 100)
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if len(all) > 5 {
		all = all[:5]
	}
	ov.RecentTrades = all

	return ov
}

// AllTrades возвращает сделки всех пользователей для админки
func (s *Service) AllTrades(status, userID string, limit, offset int) ([]*Trade, HistoryMeta) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	var filtered []*Trade
	meta := HistoryMeta{Limit: limit, Offset: offset}
	var totalVolume float64
	for _, id := range s.order {
		t := s.trades[id]
		if status != "" && t.Status != strings.ToUpper(status) {
			continue
		}
		if userID != "" && t.UserID != userID {
			continue
		}

		cp := *t
		filtered = append(filtered, &cp)
		totalVolume += t.Amount
		if t.Status == "CLOSED" && t.RealizedPnL != nil {
			meta.TotalPnL += *t.RealizedPnL
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].CreatedAt.After(filtered[j].CreatedAt) })

	meta.Total = len(filtered)
	meta.TotalPnL = round2(meta.TotalPnL)

	if offset >= len(filtered) {
		return []*Trade{}, meta
	}
	end := offset + limit
	if end > len(filtered) {
		end = len(filtered)
	}

	return filtered[offset:end], meta
}

// Health возвращает состояние сервиса
func (s *Service) Health() Health {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := 0
	for _, t := range s.trades {
		if t.Status == "ACTIVE" {
			active++
		}
	}

	return Health{
		TotalTrades:     len(s.trades),
		ActivePositions: active,
		Uptime:          time.Since(s.startedAt).Seconds(),
		Timestamp:       time.Now(),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package copytrading

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"elon_broker/internal/models"
)

var (
	ErrTraderNotFound = errors.New("trader not found")
	ErrCopyNotFound   = errors.New("copy relationship not found")
)

// CopyAmountError - сумма копирования вне лимитов площадки
type CopyAmountError struct {
	Platform string
	Min      float64
	Max      float64
}

func (e *CopyAmountError) Error() string {
	return fmt.Sprintf("Copy amount must be between $%g and $%g for %s", e.Min, e.Max, e.Platform)
}

// CopyView - связь копирования вместе с live данными трейдера
type CopyView struct {
	models.CopyRelationship
	Trader *TraderView `json:"trader,omitempty"`
	IsLive bool        `json:"isLive"`
}

// CopySummary - агрегаты по копиям пользователя
type CopySummary struct {
	TotalCopies   int     `json:"totalCopies"`
	TotalInvested float64 `json:"totalInvested"`
	TotalProfit   float64 `json:"totalProfit"`
	AverageReturn float64 `json:"averageReturn"`
}

// StopCopyResult - подтверждение остановки копирования
type StopCopyResult struct {
	CopyID         string    `json:"copyId"`
	StopDate       time.Time `json:"stopDate"`
	ClosePositions bool      `json:"closePositions"`
}

// Service управляет связями копирования поверх симулятора
type Service struct {
	mu     sync.RWMutex
	copies map[string]*models.CopyRelationship
	order  []string
	sim    *Simulator
	logger *slog.Logger
}

// NewService создает сервис копирования и подписывается на закрытия
// сделок симулятора, чтобы копии накапливали прибыль и убыток
func NewService(sim *Simulator, logger *slog.Logger) *Service {
	s := &Service{
		copies: make(map[string]*models.CopyRelationship),
		sim:    sim,
		logger: logger,
	}
	sim.OnTradeClosed(s.accrueClosedTrade)

	return s
}

// accrueClosedTrade распределяет PnL закрытой сделки трейдера по его
// активным копиям пропорционально доле копируемой суммы в размере сделки
func (s *Service) accrueClosedTrade(traderID string, trade models.LiveTrade) {
	if trade.Size <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.order {
		c := s.copies[id]
		if c.TraderID != traderID || c.Status != "active" {
			continue
		}

		share := trade.PnL * c.Amount / trade.Size
		if share >= 0 {
			c.TotalProfit += share
		} else {
			c.TotalLoss -= share
		}

		c.ClosedTrades++
		if trade.CloseTime != nil {
			c.LastActivity = *trade.CloseTime
		} else {
			c.LastActivity = time.Now()
		}
	}
}

// CopyTrader создает связь копирования после проверки лимитов площадки
func (s *Service) CopyTrader(userID, traderID string, amount float64, riskLevel string) (*models.CopyRelationship, error) {
	details, ok := s.sim.Trader(traderID)
	if !ok {
		return nil, ErrTraderNotFound
	}

	platform, ok := findPlatform(details.Platform)
	if !ok {
		return nil, ErrTraderNotFound
	}

	if amount < platform.MinCopyAmount || amount > platform.MaxCopyAmount {
		return nil, &CopyAmountError{
			Platform: platform.Name,
			Min:      platform.MinCopyAmount,
			Max:      platform.MaxCopyAmount,
		}
	}

	now := time.Now()
	copyRel := &models.CopyRelationship{
		ID:           uuid.NewString(),
		UserID:       userID,
		TraderID:     traderID,
		TraderName:   details.Name,
		TraderAvatar: details.Avatar,
		Platform:     details.Platform,
		Amount:       amount,
		RiskLevel:    riskLevel,
		StartDate:    now,
		Status:       "active",
		LastActivity: now,
	}

	s.mu.Lock()
	s.copies[copyRel.ID] = copyRel
	s.order = append(s.order, copyRel.ID)
	s.mu.Unlock()

	s.logger.Info("📋 Copy relationship created",
		slog.String("copy_id", copyRel.ID),
		slog.String("user_id", userID),
		slog.String("trader", details.Name),
		slog.Float64("amount", amount))

	cp := *copyRel
	return &cp, nil
}

// MyCopies возвращает копии пользователя с live данными и сводкой
func (s *Service) MyCopies(userID string) ([]CopyView, CopySummary) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	views := []CopyView{}
	summary := CopySummary{}

	for _, id := range s.order {
		c := s.copies[id]
		if c.UserID != userID {
			continue
		}

		view := CopyView{CopyRelationship: *c, IsLive: true}
		view.CurrentValue = c.Amount + c.TotalProfit - c.TotalLoss
		if c.Amount > 0 {
			view.ProfitPercentage = (c.TotalProfit - c.TotalLoss) / c.Amount * 100
		}

		if details, ok := s.sim.Trader(c.TraderID); ok {
			tv := details.TraderView
			view.Trader = &tv
		}

		views = append(views, view)
		summary.TotalInvested += c.Amount
		summary.TotalProfit += c.TotalProfit
		summary.AverageReturn += view.ProfitPercentage
	}

	summary.TotalCopies = len(views)
	if len(views) > 0 {
		summary.AverageReturn /= float64(len(views))
	}

	return views, summary
}

// StopCopy останавливает копирование трейдера
func (s *Service) StopCopy(copyID string, closePositions bool) (*StopCopyResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.copies[copyID]
	if !ok {
		return nil, ErrCopyNotFound
	}

	c.Status = "stopped"
	c.LastActivity = time.Now()

	s.logger.Info("🛑 Copy stopped",
		slog.String("copy_id", copyID),
		slog.Bool("close_positions", closePositions))

	return &StopCopyResult{
		CopyID:         copyID,
		StopDate:       c.LastActivity,
		ClosePositions: closePositions,
	}, nil
}

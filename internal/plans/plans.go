package plans

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	ErrPlanNotFound = errors.New("investment plan not found")
)

// AmountRangeError - сумма вне лимитов плана
type AmountRangeError struct {
	Min float64
	Max float64
}

func (e *AmountRangeError) Error() string {
	return fmt.Sprintf("Amount must be between $%g and $%g", e.Min, e.Max)
}

// Plan - инвестиционный план
type Plan struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	MinimumDeposit   float64  `json:"minimumDeposit"`
	MaximumDeposit   float64  `json:"maximumDeposit"`
	ProfitPercentage float64  `json:"profitPercentage"`
	Duration         string   `json:"duration"`
	Features         []string `json:"features"`
	Popular          bool     `json:"popular"`
}

var availablePlans = []Plan{
	{
		ID: "starter", Name: "Starter Plan",
		MinimumDeposit: 100, MaximumDeposit: 999, ProfitPercentage: 15,
		Duration: "7 days",
		Features: []string{"Basic trading signals", "Email support", "Market analysis"},
	},
	{
		ID: "professional", Name: "Professional Plan",
		MinimumDeposit: 1000, MaximumDeposit: 4999, ProfitPercentage: 25,
		Duration: "14 days",
		Features: []string{"Advanced trading signals", "Priority support", "Daily market updates", "Risk management tools"},
		Popular:  true,
	},
	{
		ID: "premium", Name: "Premium Plan",
		MinimumDeposit: 5000, MaximumDeposit: 19999, ProfitPercentage: 35,
		Duration: "21 days",
		Features: []string{"Premium signals", "24/7 support", "Personal account manager", "Exclusive webinars"},
	},
	{
		ID: "vip", Name: "VIP Plan",
		MinimumDeposit: 20000, MaximumDeposit: 100000, ProfitPercentage: 50,
		Duration: "30 days",
		Features: []string{"VIP signals", "Dedicated support", "Custom strategies", "Direct broker contact"},
	},
}

// Purchase - купленный пользователем план
type Purchase struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	UserName         string    `json:"userName"`
	UserEmail        string    `json:"userEmail"`
	PlanID           string    `json:"planId"`
	PlanName         string    `json:"planName"`
	Amount           float64   `json:"amount"`
	PaymentMethod    string    `json:"paymentMethod"`
	ExpectedProfit   float64   `json:"expectedProfit"`
	ActualProfit     float64   `json:"actualProfit"`
	Status           string    `json:"status"`
	Duration         string    `json:"duration"`
	ProfitPercentage float64   `json:"profitPercentage"`
	StartDate        time.Time `json:"startDate"`
	EndDate          time.Time `json:"endDate"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// PurchaseRequest - входные данные покупки плана
type PurchaseRequest struct {
	UserID        string  `json:"userId"`
	UserName      string  `json:"userName"`
	UserEmail     string  `json:"userEmail"`
	PlanID        string  `json:"planId"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"paymentMethod"`
}

// UserPlans - планы пользователя с общей суммой вложений
type UserPlans struct {
	Plans           []*Purchase `json:"plans"`
	TotalInvestment float64     `json:"totalInvestment"`
}

// PlanStats - распределение покупок по плану
type PlanStats struct {
	PlanName    string  `json:"planName"`
	Purchases   int     `json:"purchases"`
	TotalAmount float64 `json:"totalAmount"`
}

// Statistics - сводка по инвестиционным планам
type Statistics struct {
	TotalPlans          int         `json:"totalPlans"`
	TotalInvestment     float64     `json:"totalInvestment"`
	TotalExpectedProfit float64     `json:"totalExpectedProfit"`
	ActivePlans         int         `json:"activePlans"`
	CompletedPlans      int         `json:"completedPlans"`
	PlanDistribution    []PlanStats `json:"planDistribution"`
}

// Service хранит покупки планов в памяти
type Service struct {
	mu        sync.RWMutex
	purchases []*Purchase
	logger    *slog.Logger
	now       func() time.Time
}

// NewService создает сервис инвестиционных планов
func NewService(logger *slog.Logger) *Service {
	return &Service{
		logger: logger,
		now:    time.Now,
	}
}

// Plans возвращает каталог планов
func (s *Service) Plans() []Plan {
	return availablePlans
}

func findPlan(id string) (Plan, bool) {
	for _, p := range availablePlans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

// durationDays извлекает число дней из строки вида "14 days"
func durationDays(duration string) int {
	fields := strings.Fields(duration)
	if len(fields) == 0 {
		return 0
	}
	days, _ := strconv.Atoi(fields[0])
	return days
}

// Purchase оформляет покупку плана с проверкой лимитов депозита
func (s *Service) Purchase(req PurchaseRequest) (*Purchase, error) {
	plan, ok := findPlan(req.PlanID)
	if !ok {
		return nil, ErrPlanNotFound
	}

	if req.Amount < plan.MinimumDeposit || req.Amount > plan.MaximumDeposit {
		return nil, &AmountRangeError{Min: plan.MinimumDeposit, Max: plan.MaximumDeposit}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	purchase := &Purchase{
		ID:               fmt.Sprintf("plan_%d", now.UnixNano()),
		UserID:           req.UserID,
		UserName:         req.UserName,
		UserEmail:        req.UserEmail,
		PlanID:           plan.ID,
		PlanName:         plan.Name,
		Amount:           req.Amount,
		PaymentMethod:    req.PaymentMethod,
		ExpectedProfit:   req.Amount * plan.ProfitPercentage / 100,
		Status:           "active",
		Duration:         plan.Duration,
		ProfitPercentage: plan.ProfitPercentage,
		StartDate:        now,
		EndDate:          now.Add(time.Duration(durationDays(plan.Duration)) * 24 * time.Hour),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	s.purchases = append(s.purchases, purchase)

	s.logger.Info("📊 Plan purchased",
		slog.String("user", req.UserName),
		slog.String("plan", plan.Name),
		slog.Float64("amount", req.Amount))

	cp := *purchase
	return &cp, nil
}

// UserPlans возвращает планы пользователя
func (s *Service) UserPlans(userID string) *UserPlans {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := &UserPlans{Plans: []*Purchase{}}
	for _, p := range s.purchases {
		if p.UserID != userID {
			continue
		}
		cp := *p
		out.Plans = append(out.Plans, &cp)
		out.TotalInvestment += p.Amount
	}

	return out
}

// Statistics считает сводку по всем покупкам
func (s *Service) Statistics() Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Statistics{}
	byPlan := make(map[string]*PlanStats, len(availablePlans))
	for _, p := range availablePlans {
		byPlan[p.ID] = &PlanStats{PlanName: p.Name}
	}

	for _, p := range s.purchases {
		stats.TotalPlans++
		stats.TotalInvestment += p.Amount
		stats.TotalExpectedProfit += p.ExpectedProfit
		switch p.Status {
		case "active":
			stats.ActivePlans++
		case "completed":
			stats.CompletedPlans++
		}

		if ps, ok := byPlan[p.PlanID]; ok {
			ps.Purchases++
			ps.TotalAmount += p.Amount
		}
	}

	for _, p := range availablePlans {
		stats.PlanDistribution = append(stats.PlanDistribution, *byPlan[p.ID])
	}

	return stats
}

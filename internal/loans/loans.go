package loans

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"
)

var (
	ErrProductNotFound     = errors.New("loan product not found")
	ErrApplicationNotFound = errors.New("loan application not found")
	ErrInvalidDecision     = errors.New("status must be either \"approved\" or \"rejected\"")
)

// AmountRangeError - сумма вне лимитов продукта
type AmountRangeError struct {
	Min float64
	Max float64
}

func (e *AmountRangeError) Error() string {
	return fmt.Sprintf("Loan amount must be between $%g and $%g", e.Min, e.Max)
}

// Product - кредитный продукт
type Product struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	MinAmount      float64  `json:"minAmount"`
	MaxAmount      float64  `json:"maxAmount"`
	InterestRate   float64  `json:"interestRate"`
	Term           string   `json:"term"`
	ProcessingTime string   `json:"processingTime"`
	Requirements   []string `json:"requirements"`
	Description    string   `json:"description"`
}

var products = []Product{
	{
		ID: "quick_loan", Name: "Quick Cash Loan",
		MinAmount: 100, MaxAmount: 5000, InterestRate: 5,
		Term: "30 days", ProcessingTime: "24 hours",
		Requirements: []string{"Verified account", "Minimum $500 trading volume"},
		Description:  "Fast approval for urgent financial needs",
	},
	{
		ID: "trading_loan", Name: "Trading Capital Loan",
		MinAmount: 1000, MaxAmount: 25000, InterestRate: 7,
		Term: "90 days", ProcessingTime: "48 hours",
		Requirements: []string{"KYC verified", "Minimum 3 months trading history"},
		Description:  "Boost your trading capital with flexible terms",
	},
	{
		ID: "investment_loan", Name: "Investment Expansion Loan",
		MinAmount: 5000, MaxAmount: 100000, InterestRate: 10,
		Term: "180 days", ProcessingTime: "5-7 business days",
		Requirements: []string{"Premium account", "Minimum $10,000 portfolio value"},
		Description:  "Large capital for serious investors",
	},
}

// Application - кредитная заявка
type Application struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"userId"`
	UserName           string     `json:"userName"`
	UserEmail          string     `json:"userEmail"`
	LoanProductID      string     `json:"loanProductId"`
	LoanProductName    string     `json:"loanProductName"`
	Amount             float64    `json:"amount"`
	InterestRate       float64    `json:"interestRate"`
	InterestAmount     float64    `json:"interestAmount"`
	TotalRepayment     float64    `json:"totalRepayment"`
	Term               string     `json:"term"`
	Purpose            string     `json:"purpose"`
	Income             float64    `json:"income,omitempty"`
	EmploymentStatus   string     `json:"employmentStatus,omitempty"`
	RepaymentMethod    string     `json:"repaymentMethod,omitempty"`
	CollateralType     string     `json:"collateralType,omitempty"`
	CollateralValue    float64    `json:"collateralValue,omitempty"`
	AdditionalInfo     string     `json:"additionalInfo,omitempty"`
	Status             string     `json:"status"`
	SubmittedAt        time.Time  `json:"submittedAt"`
	ReviewedAt         *time.Time `json:"reviewedAt"`
	ReviewedBy         string     `json:"reviewedBy,omitempty"`
	ApprovedAt         *time.Time `json:"approvedAt"`
	DisbursedAt        *time.Time `json:"disbursedAt"`
	DisbursementMethod string     `json:"disbursementMethod,omitempty"`
	AdminNotes         string     `json:"adminNotes"`
	CreditScore        int        `json:"creditScore"`
	RiskLevel          string     `json:"riskLevel"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// ApplyRequest - входные данные кредитной заявки
type ApplyRequest struct {
	UserID           string  `json:"userId"`
	UserName         string  `json:"userName"`
	UserEmail        string  `json:"userEmail"`
	LoanProductID    string  `json:"loanProductId"`
	Amount           float64 `json:"amount"`
	Purpose          string  `json:"purpose"`
	Income           float64 `json:"income"`
	EmploymentStatus string  `json:"employmentStatus"`
	RepaymentMethod  string  `json:"repaymentMethod"`
	CollateralType   string  `json:"collateralType"`
	CollateralValue  float64 `json:"collateralValue"`
	AdditionalInfo   string  `json:"additionalInfo"`
}

// UserLoans - заявки пользователя со счетчиками
type UserLoans struct {
	Loans               []*Application `json:"loans"`
	TotalApplications   int            `json:"totalApplications"`
	ActiveLoans         int            `json:"activeLoans"`
	PendingApplications int            `json:"pendingApplications"`
}

// ProductStats - распределение заявок по продукту
type ProductStats struct {
	ProductName  string  `json:"productName"`
	Applications int     `json:"applications"`
	TotalAmount  float64 `json:"totalAmount"`
}

// Statistics - сводка по кредитному портфелю
type Statistics struct {
	TotalApplications    int            `json:"totalApplications"`
	PendingApplications  int            `json:"pendingApplications"`
	ApprovedLoans        int            `json:"approvedLoans"`
	RejectedApplications int            `json:"rejectedApplications"`
	TotalLoanAmount      float64        `json:"totalLoanAmount"`
	AverageLoanAmount    float64        `json:"averageLoanAmount"`
	ProductDistribution  []ProductStats `json:"productDistribution"`
}

// Service хранит кредитные заявки в памяти
type Service struct {
	mu           sync.RWMutex
	applications map[string]*Application
	order        []string
	rnd          *rand.Rand
	logger       *slog.Logger
	now          func() time.Time
}

// NewService создает кредитный сервис
func NewService(seed int64, logger *slog.Logger) *Service {
	return &Service{
		applications: make(map[string]*Application),
		rnd:          rand.New(rand.NewSource(seed)),
		logger:       logger,
		now:          time.Now,
	}
}

// Products возвращает каталог кредитных продуктов
func (s *Service) Products() []Product {
	return products
}

func findProduct(id string) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// riskLevel определяется размером займа
func riskLevel(amount float64) string {
	switch {
	case amount > 10000:
		return "high"
	case amount > 5000:
		return "medium"
	default:
		return "low"
	}
}

// Apply создает кредитную заявку с расчетом процентов
func (s *Service) Apply(req ApplyRequest) (*Application, Product, error) {
	product, ok := findProduct(req.LoanProductID)
	if !ok {
		return nil, Product{}, ErrProductNotFound
	}

	if req.Amount < product.MinAmount || req.Amount > product.MaxAmount {
		return nil, Product{}, &AmountRangeError{Min: product.MinAmount, Max: product.MaxAmount}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	interest := req.Amount * product.InterestRate / 100
	now := s.now()

	app := &Application{
		ID:               fmt.Sprintf("loan_%d", now.UnixNano()),
		UserID:           req.UserID,
		UserName:         req.UserName,
		UserEmail:        req.UserEmail,
		LoanProductID:    product.ID,
		LoanProductName:  product.Name,
		Amount:           req.Amount,
		InterestRate:     product.InterestRate,
		InterestAmount:   interest,
		TotalRepayment:   req.Amount + interest,
		Term:             product.Term,
		Purpose:          req.Purpose,
		Income:           req.Income,
		EmploymentStatus: req.EmploymentStatus,
		RepaymentMethod:  req.RepaymentMethod,
		CollateralType:   req.CollateralType,
		CollateralValue:  req.CollateralValue,
		AdditionalInfo:   req.AdditionalInfo,
		Status:           "pending",
		SubmittedAt:      now,
		CreditScore:      s.rnd.Intn(300) + 500,
		RiskLevel:        riskLevel(req.Amount),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	s.applications[app.ID] = app
	s.order = append(s.order, app.ID)

	s.logger.Info("💰 Loan application submitted",
		slog.String("id", app.ID),
		slog.String("user_id", app.UserID),
		slog.Float64("amount", app.Amount),
		slog.String("product", product.ID))

	cp := *app
	return &cp, product, nil
}

// UserLoans возвращает заявки пользователя
func (s *Service) UserLoans(userID string) *UserLoans {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := &UserLoans{Loans: []*Application{}}
	for _, id := range s.order {
		app := s.applications[id]
		if app.UserID != userID {
			continue
		}

		cp := *app
		out.Loans = append(out.Loans, &cp)
		switch app.Status {
		case "approved":
			out.ActiveLoans++
		case "pending":
			out.PendingApplications++
		}
	}

	out.TotalApplications = len(out.Loans)
	return out
}

// Pending возвращает заявки, ожидающие решения
func (s *Service) Pending() []*Application {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*Application{}
	for _, id := range s.order {
		app := s.applications[id]
		if app.Status == "pending" {
			cp := *app
			out = append(out, &cp)
		}
	}

	return out
}

// Review выносит решение по кредитной заявке
func (s *Service) Review(applicationID, decision, adminNotes, reviewedBy, disbursementMethod string) (*Application, error) {
	if decision != "approved" && decision != "rejected" {
		return nil, ErrInvalidDecision
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.applications[applicationID]
	if !ok {
		return nil, ErrApplicationNotFound
	}

	now := s.now()
	app.Status = decision
	app.AdminNotes = adminNotes
	app.ReviewedAt = &now
	app.ReviewedBy = reviewedBy
	app.UpdatedAt = now

	if decision == "approved" {
		app.ApprovedAt = &now
		app.DisbursementMethod = disbursementMethod
	}

	s.logger.Info("✅ Loan reviewed",
		slog.String("application_id", applicationID),
		slog.String("decision", decision),
		slog.Float64("amount", app.Amount))

	cp := *app
	return &cp, nil
}

// Statistics считает сводку по портфелю
func (s *Service) Statistics() Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Statistics{}
	var totalAmount float64

	byProduct := make(map[string]*ProductStats, len(products))
	for _, p := range products {
		byProduct[p.ID] = &ProductStats{ProductName: p.Name}
	}

	for _, id := range s.order {
		app := s.applications[id]

		stats.TotalApplications++
		totalAmount += app.Amount
		switch app.Status {
		case "pending":
			stats.PendingApplications++
		case "approved":
			stats.ApprovedLoans++
			stats.TotalLoanAmount += app.Amount
		case "rejected":
			stats.RejectedApplications++
		}

		if ps, ok := byProduct[app.LoanProductID]; ok {
			ps.Applications++
			if app.Status == "approved" {
				ps.TotalAmount += app.Amount
			}
		}
	}

	if stats.TotalApplications > 0 {
		stats.AverageLoanAmount = totalAmount / float64(stats.TotalApplications)
	}

	for _, p := range products {
		stats.ProductDistribution = append(stats.ProductDistribution, *byProduct[p.ID])
	}

	return stats
}

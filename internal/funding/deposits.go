package funding

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"elon_broker/internal/models"
)

// Задержка имитации обработки карточного платежа
const defaultCardDelay = 2 * time.Second

// DepositRequest - входные данные заявки на пополнение
type DepositRequest struct {
	UserID          string  `json:"userId"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	Method          string  `json:"method"`
	PaymentMethodID string  `json:"paymentMethodId"`
	TransactionID   string  `json:"transactionId"`
	UserNotes       string  `json:"userNotes"`
}

// DepositResult - результат операции над заявкой
type DepositResult struct {
	Deposit             *models.Deposit       `json:"deposit"`
	PaymentInstructions map[string]any        `json:"paymentInstructions,omitempty"`
	BalanceUpdate       *models.BalanceUpdate `json:"balanceUpdate,omitempty"`
	Message             string                `json:"message"`
}

// DepositHistory - сводка по пополнениям пользователя
type DepositHistory struct {
	Deposits          []*models.Deposit `json:"deposits"`
	TotalDeposits     int               `json:"totalDeposits"`
	TotalAmount       float64           `json:"totalAmount"`
	CompletedDeposits int               `json:"completedDeposits"`
}

// DepositService управляет заявками на пополнение.
// Карточные платежи стартуют в processing и завершаются таймером;
// таймеры отслеживаются, чтобы Stop мог их погасить при shutdown.
type DepositService struct {
	mu        sync.RWMutex
	deposits  map[string]*models.Deposit
	order     []string
	timers    map[string]*time.Timer
	ledger    *Ledger
	logger    *slog.Logger
	cardDelay time.Duration
	now       func() time.Time
}

// NewDepositService создает сервис поверх общего ledger
func NewDepositService(ledger *Ledger, logger *slog.Logger) *DepositService {
	return &DepositService{
		deposits:  make(map[string]*models.Deposit),
		timers:    make(map[string]*time.Timer),
		ledger:    ledger,
		logger:    logger,
		cardDelay: defaultCardDelay,
		now:       time.Now,
	}
}

// Submit создает заявку на пополнение
func (s *DepositService) Submit(req DepositRequest) (*DepositResult, error) {
	if req.Amount < 1 {
		return nil, ErrBelowMinimum
	}

	method, ok := findPaymentMethod(req.PaymentMethodID)
	if !ok {
		return nil, ErrInvalidMethod
	}

	if req.Amount < method.MinAmount || req.Amount > method.MaxAmount {
		return nil, &AmountRangeError{Min: method.MinAmount, Max: method.MaxAmount}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fees := calcFees(req.Amount, method.Fees)
	now := s.now()

	status := models.StatusPending
	if method.ID == "credit_card" {
		status = models.StatusProcessing
	}

	d := &models.Deposit{
		ID:              fmt.Sprintf("dep_%d", now.UnixNano()),
		UserID:          req.UserID,
		Amount:          req.Amount,
		Currency:        strings.ToUpper(req.Currency),
		Method:          method.Name,
		PaymentMethodID: method.ID,
		Status:          status,
		TransactionID:   req.TransactionID,
		Fees:            fees,
		UserNotes:       req.UserNotes,
		CreatedAt:       now,
		ExpiresAt:       now.Add(24 * time.Hour),
	}

	s.deposits[d.ID] = d
	s.order = append(s.order, d.ID)

	if method.ID == "credit_card" {
		id := d.ID
		s.timers[id] = time.AfterFunc(s.cardDelay, func() { s.completeCardDeposit(id) })
	}

	s.logger.Info("💰 Deposit submitted",
		slog.String("id", d.ID),
		slog.String("user_id", d.UserID),
		slog.Float64("amount", d.Amount),
		slog.String("method", d.PaymentMethodID))

	message := "Deposit request created successfully."
	if instructions, ok := method.Details["instructions"].(string); ok {
		message += " " + instructions
	}

	cp := *d
	return &DepositResult{
		Deposit:             &cp,
		PaymentInstructions: method.Details,
		Message:             message,
	}, nil
}

// completeCardDeposit имитирует мгновенную обработку карточного платежа
func (s *DepositService) completeCardDeposit(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.timers, id)

	d, ok := s.deposits[id]
	if !ok || d.Status != models.StatusProcessing {
		return
	}

	now := s.now()
	d.Status = models.StatusCompleted
	d.CompletedAt = &now
	d.AdminNotes = "Card payment processed successfully"

	s.ledger.Credit(d.UserID, d.Amount)

	s.logger.Info("💳 Card deposit completed", slog.String("id", id), slog.Float64("amount", d.Amount))
}

// UploadProof привязывает подтверждение оплаты и переводит заявку в processing
func (s *DepositService) UploadProof(id string) (*models.Deposit, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.deposits[id]
	if !ok {
		return nil, "", ErrNotFound
	}

	filename := fmt.Sprintf("proof_%s_%d.jpg", id, s.now().UnixMilli())
	d.PaymentProof = filename
	d.Status = models.StatusProcessing
	d.AdminNotes = "Payment proof uploaded, awaiting verification"

	cp := *d
	return &cp, filename, nil
}

// Get возвращает заявку по id
func (s *DepositService) Get(id string) (*models.Deposit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.deposits[id]
	if !ok {
		return nil, ErrNotFound
	}

	cp := *d
	return &cp, nil
}

// StatusHistory строит историю статусов заявки
func (s *DepositService) StatusHistory(id string) ([]models.StatusHistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.deposits[id]
	if !ok {
		return nil, ErrNotFound
	}

	history := []models.StatusHistoryEntry{
		{Status: models.StatusPending, Timestamp: d.CreatedAt, Note: "Deposit request created"},
	}

	if d.Status != models.StatusPending {
		ts := s.now()
		if d.CompletedAt != nil {
			ts = *d.CompletedAt
		}
		note := d.AdminNotes
		if note == "" {
			note = "Current status"
		}
		history = append(history, models.StatusHistoryEntry{Status: d.Status, Timestamp: ts, Note: note})
	}

	return history, nil
}

// AdminApprove завершает заявку и зачисляет сумму на баланс
func (s *DepositService) AdminApprove(id, adminNotes string) (*DepositResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.deposits[id]
	if !ok {
		return nil, ErrNotFound
	}

	if d.Status.Terminal() {
		return nil, ErrAlreadyProcessed
	}

	if adminNotes == "" {
		adminNotes = "Deposit approved by admin"
	}

	// Гасим таймер карточного платежа, если он еще не сработал
	if timer, ok := s.timers[id]; ok {
		timer.Stop()
		delete(s.timers, id)
	}

	now := s.now()
	d.Status = models.StatusCompleted
	d.CompletedAt = &now
	d.AdminNotes = adminNotes

	newBalance := s.ledger.Credit(d.UserID, d.Amount)

	s.logger.Info("✅ Deposit approved", slog.String("id", d.ID), slog.Float64("amount", d.Amount))

	cp := *d
	return &DepositResult{
		Deposit: &cp,
		Message: "Deposit approved successfully",
		BalanceUpdate: &models.BalanceUpdate{
			Amount:     d.Amount,
			Currency:   d.Currency,
			NewBalance: newBalance,
		},
	}, nil
}

// AdminReject отклоняет заявку
func (s *DepositService) AdminReject(id, adminNotes string) (*DepositResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.deposits[id]
	if !ok {
		return nil, ErrNotFound
	}

	if d.Status.Terminal() {
		return nil, ErrAlreadyProcessed
	}

	if adminNotes == "" {
		adminNotes = "Deposit rejected by admin"
	}

	if timer, ok := s.timers[id]; ok {
		timer.Stop()
		delete(s.timers, id)
	}

	d.Status = models.StatusRejected
	d.AdminNotes = adminNotes

	s.logger.Info("❌ Deposit rejected", slog.String("id", d.ID))

	cp := *d
	return &DepositResult{
		Deposit: &cp,
		Message: "Deposit rejected",
	}, nil
}

// History возвращает сводку по пополнениям пользователя
func (s *DepositService) History(userID string) *DepositHistory {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h := &DepositHistory{Deposits: []*models.Deposit{}}
	for _, id := range s.order {
		d := s.deposits[id]
		if d.UserID != userID {
			continue
		}

		cp := *d
		h.Deposits = append(h.Deposits, &cp)
		h.TotalAmount += d.Amount
		if d.Status == models.StatusCompleted {
			h.CompletedDeposits++
		}
	}

	h.TotalDeposits = len(h.Deposits)
	return h
}

// AdminList возвращает страницу заявок с фильтром по статусу и статистикой
func (s *DepositService) AdminList(status models.TxStatus, page, limit int) ([]*models.Deposit, models.Pagination, models.TxStatistics) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var filtered []*models.Deposit
	stats := models.TxStatistics{}
	for _, id := range s.order {
		d := s.deposits[id]

		stats.Total++
		switch d.Status {
		case models.StatusPending:
			stats.Pending++
		case models.StatusProcessing:
			stats.Processing++
		case models.StatusCompleted:
			stats.Completed++
			stats.TotalAmount += d.Amount
		case models.StatusRejected:
			stats.Rejected++
		}

		if status != "" && d.Status != status {
			continue
		}

		cp := *d
		filtered = append(filtered, &cp)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	total := len(filtered)
	pagination := models.Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
	}

	start := (page - 1) * limit
	if start >= total {
		return []*models.Deposit{}, pagination, stats
	}
	end := start + limit
	if end > total {
		end = total
	}

	return filtered[start:end], pagination, stats
}

// Stop гасит все отложенные таймеры карточных платежей
func (s *DepositService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}

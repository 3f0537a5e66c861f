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

// WithdrawalRequest - входные данные заявки на вывод
type WithdrawalRequest struct {
	UserID             string         `json:"userId"`
	Amount             float64        `json:"amount"`
	Currency           string         `json:"currency"`
	Method             string         `json:"method"`
	WithdrawalMethodID string         `json:"withdrawalMethodId"`
	BankAccount        map[string]any `json:"bankAccount"`
	CryptoWallet       map[string]any `json:"cryptoWallet"`
	PaypalAccount      map[string]any `json:"paypalAccount"`
	UserNotes          string         `json:"userNotes"`
}

// WithdrawalResult - результат операции с обновлением баланса
type WithdrawalResult struct {
	Withdrawal    *models.Withdrawal    `json:"withdrawal"`
	BalanceUpdate *models.BalanceUpdate `json:"balanceUpdate,omitempty"`
	Message       string                `json:"message"`
}

// WithdrawalHistory - сводка по выводам пользователя
type WithdrawalHistory struct {
	Withdrawals          []*models.Withdrawal `json:"withdrawals"`
	TotalWithdrawals     int                  `json:"totalWithdrawals"`
	TotalAmount          float64              `json:"totalAmount"`
	CompletedWithdrawals int                  `json:"completedWithdrawals"`
	PendingAmount        float64              `json:"pendingAmount"`
}

// WithdrawalService управляет заявками на вывод средств.
// Статус заявки меняется только под мьютексом, поэтому два одновременных
// approve не могут завершить одну заявку дважды.
type WithdrawalService struct {
	mu          sync.RWMutex
	withdrawals map[string]*models.Withdrawal
	order       []string // ids в порядке создания
	ledger      *Ledger
	logger      *slog.Logger
	now         func() time.Time
}

// NewWithdrawalService создает сервис поверх общего ledger
func NewWithdrawalService(ledger *Ledger, logger *slog.Logger) *WithdrawalService {
	return &WithdrawalService{
		withdrawals: make(map[string]*models.Withdrawal),
		ledger:      ledger,
		logger:      logger,
		now:         time.Now,
	}
}

// Submit создает заявку на вывод и сразу списывает сумму с баланса
func (s *WithdrawalService) Submit(req WithdrawalRequest) (*WithdrawalResult, error) {
	if req.Amount < 1 {
		return nil, ErrBelowMinimum
	}

	method, ok := findWithdrawalMethod(req.WithdrawalMethodID)
	if !ok {
		return nil, ErrInvalidMethod
	}

	if req.Amount < method.MinAmount || req.Amount > method.MaxAmount {
		return nil, &AmountRangeError{Min: method.MinAmount, Max: method.MaxAmount}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous, current, err := s.ledger.Debit(req.UserID, req.Amount)
	if err != nil {
		return nil, err
	}

	fees := calcFees(req.Amount, method.Fees)
	now := s.now()

	w := &models.Withdrawal{
		ID:                  fmt.Sprintf("with_%d", now.UnixNano()),
		UserID:              req.UserID,
		Amount:              req.Amount,
		Currency:            strings.ToUpper(req.Currency),
		Method:              method.Name,
		WithdrawalMethodID:  method.ID,
		Status:              models.StatusPending,
		Fees:                fees,
		NetAmount:           req.Amount - fees.Total,
		BankAccount:         req.BankAccount,
		CryptoWallet:        req.CryptoWallet,
		PaypalAccount:       req.PaypalAccount,
		UserNotes:           req.UserNotes,
		CreatedAt:           now,
		EstimatedCompletion: now.Add(method.ProcessingDuration),
	}

	s.withdrawals[w.ID] = w
	s.order = append(s.order, w.ID)

	s.logger.Info("💸 Withdrawal submitted",
		slog.String("id", w.ID),
		slog.String("user_id", w.UserID),
		slog.Float64("amount", w.Amount),
		slog.String("method", w.WithdrawalMethodID))

	return &WithdrawalResult{
		Withdrawal: w,
		BalanceUpdate: &models.BalanceUpdate{
			PreviousBalance:  previous,
			WithdrawalAmount: req.Amount,
			NewBalance:       current,
			Message:          fmt.Sprintf("$%g has been deducted from your account", req.Amount),
		},
		Message: fmt.Sprintf("Withdrawal request submitted successfully. Estimated completion: %s", method.ProcessingTime),
	}, nil
}

// Get возвращает заявку по id
func (s *WithdrawalService) Get(id string) (*models.Withdrawal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.withdrawals[id]
	if !ok {
		return nil, ErrNotFound
	}

	cp := *w
	return &cp, nil
}

// StatusHistory строит историю статусов заявки
func (s *WithdrawalService) StatusHistory(id string) ([]models.StatusHistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.withdrawals[id]
	if !ok {
		return nil, ErrNotFound
	}

	history := []models.StatusHistoryEntry{
		{Status: models.StatusPending, Timestamp: w.CreatedAt, Note: "Withdrawal request submitted"},
	}

	if w.Status != models.StatusPending {
		ts := s.now()
		if w.ProcessedAt != nil {
			ts = *w.ProcessedAt
		}
		note := w.AdminNotes
		if note == "" {
			note = "Current status"
		}
		history = append(history, models.StatusHistoryEntry{Status: w.Status, Timestamp: ts, Note: note})
	}

	return history, nil
}

// Cancel отменяет pending заявку и возвращает сумму на баланс
func (s *WithdrawalService) Cancel(id, reason string) (*WithdrawalResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.withdrawals[id]
	if !ok {
		return nil, ErrNotFound
	}

	if w.Status != models.StatusPending {
		return nil, ErrNotPending
	}

	if reason == "" {
		reason = "Cancelled by user"
	}

	now := s.now()
	w.Status = models.StatusCancelled
	w.AdminNotes = reason
	w.ProcessedAt = &now

	newBalance := s.ledger.Credit(w.UserID, w.Amount)

	s.logger.Info("↩️  Withdrawal cancelled", slog.String("id", w.ID), slog.Float64("refund", w.Amount))

	cp := *w
	return &WithdrawalResult{
		Withdrawal: &cp,
		BalanceUpdate: &models.BalanceUpdate{
			RefundAmount: w.Amount,
			NewBalance:   newBalance,
			Message:      fmt.Sprintf("$%g has been refunded to your account", w.Amount),
		},
		Message: "Withdrawal cancelled successfully",
	}, nil
}

// AdminApprove завершает заявку
func (s *WithdrawalService) AdminApprove(id, adminNotes string) (*WithdrawalResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.withdrawals[id]
	if !ok {
		return nil, ErrNotFound
	}

	if w.Status.Terminal() {
		return nil, ErrAlreadyProcessed
	}

	if adminNotes == "" {
		adminNotes = "Withdrawal approved and processed by admin"
	}

	now := s.now()
	w.Status = models.StatusCompleted
	w.ProcessedAt = &now
	w.AdminNotes = adminNotes

	s.logger.Info("✅ Withdrawal approved", slog.String("id", w.ID), slog.Float64("amount", w.Amount))

	cp := *w
	return &WithdrawalResult{
		Withdrawal: &cp,
		Message:    "Withdrawal approved and processed successfully",
	}, nil
}

// AdminReject отклоняет заявку и возвращает сумму на баланс
func (s *WithdrawalService) AdminReject(id, adminNotes string) (*WithdrawalResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.withdrawals[id]
	if !ok {
		return nil, ErrNotFound
	}

	if w.Status.Terminal() {
		return nil, ErrAlreadyProcessed
	}

	if adminNotes == "" {
		adminNotes = "Withdrawal rejected by admin"
	}

	now := s.now()
	w.Status = models.StatusRejected
	w.ProcessedAt = &now
	w.AdminNotes = adminNotes

	newBalance := s.ledger.Credit(w.UserID, w.Amount)

	s.logger.Info("❌ Withdrawal rejected", slog.String("id", w.ID), slog.Float64("refund", w.Amount))

	cp := *w
	return &WithdrawalResult{
		Withdrawal: &cp,
		BalanceUpdate: &models.BalanceUpdate{
			RefundAmount: w.Amount,
			NewBalance:   newBalance,
			Message:      fmt.Sprintf("$%g has been refunded due to rejection", w.Amount),
		},
		Message: "Withdrawal rejected and amount refunded",
	}, nil
}

// History возвращает сводку по выводам пользователя
func (s *WithdrawalService) History(userID string) *WithdrawalHistory {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h := &WithdrawalHistory{Withdrawals: []*models.Withdrawal{}}
	for _, id := range s.order {
		w := s.withdrawals[id]
		if w.UserID != userID {
			continue
		}

		cp := *w
		h.Withdrawals = append(h.Withdrawals, &cp)
		h.TotalAmount += w.Amount
		if w.Status == models.StatusCompleted {
			h.CompletedWithdrawals++
		}
		if w.Status == models.StatusPending || w.Status == models.StatusProcessing {
			h.PendingAmount += w.Amount
		}
	}

	h.TotalWithdrawals = len(h.Withdrawals)
	return h
}

// AdminList возвращает страницу заявок с фильтром по статусу и статистикой
func (s *WithdrawalService) AdminList(status models.TxStatus, page, limit int) ([]*models.Withdrawal, models.Pagination, models.TxStatistics) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var filtered []*models.Withdrawal
	stats := models.TxStatistics{}
	for _, id := range s.order {
		w := s.withdrawals[id]

		stats.Total++
		switch w.Status {
		case models.StatusPending:
			stats.Pending++
			stats.PendingAmount += w.Amount
		case models.StatusProcessing:
			stats.Processing++
			stats.PendingAmount += w.Amount
		case models.StatusCompleted:
			stats.Completed++
			stats.TotalAmount += w.Amount
		case models.StatusRejected:
			stats.Rejected++
		case models.StatusCancelled:
			stats.Cancelled++
		}

		if status != "" && w.Status != status {
			continue
		}

		cp := *w
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
		return []*models.Withdrawal{}, pagination, stats
	}
	end := start + limit
	if end > total {
		end = total
	}

	return filtered[start:end], pagination, stats
}

package models

import "time"

// User представляет пользователя платформы (хранится в PostgreSQL)
type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"isActive"`
	Balance      float64   `json:"balance"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AdminUser представляет администратора (in-memory, как остальные mock данные)
type AdminUser struct {
	ID            string     `json:"id"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	FullName      string     `json:"fullName"`
	Role          string     `json:"role"`
	Permissions   []string   `json:"permissions"`
	CreatedAt     time.Time  `json:"createdAt"`
	LastLogin     *time.Time `json:"lastLogin"`
	IsActive      bool       `json:"isActive"`
	LoginAttempts int        `json:"loginAttempts"`
	LockedUntil   *time.Time `json:"lockedUntil"`
}

// TxStatus - статус депозита или вывода средств
type TxStatus string

const (
	StatusPending    TxStatus = "pending"
	StatusProcessing TxStatus = "processing"
	StatusCompleted  TxStatus = "completed"
	StatusRejected   TxStatus = "rejected"
	StatusCancelled  TxStatus = "cancelled"
)

// Terminal сообщает, является ли статус конечным
func (s TxStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusRejected || s == StatusCancelled
}

// Fees - разбивка комиссии: процентная часть + фиксированная.
// Total вычисляется один раз при создании заявки и больше не пересчитывается.
type Fees struct {
	Percentage float64 `json:"percentage"`
	Fixed      float64 `json:"fixed"`
	Total      float64 `json:"total"`
}

// MethodFees - конфигурация комиссии метода (без вычисленного Total)
type MethodFees struct {
	Percentage float64 `json:"percentage"`
	Fixed      float64 `json:"fixed"`
}

// WithdrawalMethod - способ вывода средств
type WithdrawalMethod struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Type           string        `json:"type"`
	ProcessingTime string        `json:"processingTime"`
	MinAmount      float64       `json:"minAmount"`
	MaxAmount      float64       `json:"maxAmount"`
	Fees           MethodFees    `json:"fees"`
	Requirements   []string      `json:"requirements"`
	Fields         []MethodField `json:"fields"`

	// Длительность обработки для расчета estimatedCompletion
	ProcessingDuration time.Duration `json:"-"`
}

// MethodField - описание поля формы для фронтенда
type MethodField struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
}

// PaymentMethod - способ пополнения счета
type PaymentMethod struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Type           string         `json:"type"`
	ProcessingTime string         `json:"processingTime"`
	MinAmount      float64        `json:"minAmount"`
	MaxAmount      float64        `json:"maxAmount"`
	Fees           MethodFees     `json:"fees"`
	Details        map[string]any `json:"details"`
}

// Withdrawal - заявка на вывод средств
type Withdrawal struct {
	ID                  string         `json:"id"`
	UserID              string         `json:"userId"`
	Amount              float64        `json:"amount"`
	Currency            string         `json:"currency"`
	Method              string         `json:"method"`
	WithdrawalMethodID  string         `json:"withdrawalMethodId"`
	Status              TxStatus       `json:"status"`
	Fees                Fees           `json:"fees"`
	NetAmount           float64        `json:"netAmount"`
	BankAccount         map[string]any `json:"bankAccount,omitempty"`
	CryptoWallet        map[string]any `json:"cryptoWallet,omitempty"`
	PaypalAccount       map[string]any `json:"paypalAccount,omitempty"`
	UserNotes           string         `json:"userNotes,omitempty"`
	AdminNotes          string         `json:"adminNotes,omitempty"`
	CreatedAt           time.Time      `json:"createdAt"`
	ProcessedAt         *time.Time     `json:"processedAt"`
	EstimatedCompletion time.Time      `json:"estimatedCompletion"`
}

// Deposit - заявка на пополнение счета
type Deposit struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	Amount          float64    `json:"amount"`
	Currency        string     `json:"currency"`
	Method          string     `json:"method"`
	PaymentMethodID string     `json:"paymentMethodId"`
	Status          TxStatus   `json:"status"`
	TransactionID   string     `json:"transactionId,omitempty"`
	PaymentProof    string     `json:"paymentProof,omitempty"`
	Fees            Fees       `json:"fees"`
	UserNotes       string     `json:"userNotes,omitempty"`
	AdminNotes      string     `json:"adminNotes,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	CompletedAt     *time.Time `json:"completedAt"`
	ExpiresAt       time.Time  `json:"expiresAt"`
}

// BalanceUpdate - блок об изменении баланса в ответе API
type BalanceUpdate struct {
	PreviousBalance  float64 `json:"previousBalance,omitempty"`
	WithdrawalAmount float64 `json:"withdrawalAmount,omitempty"`
	RefundAmount     float64 `json:"refundAmount,omitempty"`
	Amount           float64 `json:"amount,omitempty"`
	Currency         string  `json:"currency,omitempty"`
	NewBalance       float64 `json:"newBalance"`
	Message          string  `json:"message,omitempty"`
}

// StatusHistoryEntry - запись истории статусов заявки
type StatusHistoryEntry struct {
	Status    TxStatus  `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note"`
}

// Pagination - стандартный блок пагинации
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// TxStatistics - сводка по заявкам для админки
type TxStatistics struct {
	Total         int     `json:"total"`
	Pending       int     `json:"pending"`
	Processing    int     `json:"processing"`
	Completed     int     `json:"completed"`
	Rejected      int     `json:"rejected"`
	Cancelled     int     `json:"cancelled,omitempty"`
	TotalAmount   float64 `json:"totalAmount"`
	PendingAmount float64 `json:"pendingAmount,omitempty"`
}

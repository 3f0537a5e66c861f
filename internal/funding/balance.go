package funding

import (
	"errors"
	"fmt"
	"sync"
)

// DefaultBalance - стартовый баланс демо-аккаунта
const DefaultBalance = 15420.50

var (
	ErrNotFound            = errors.New("not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidMethod       = errors.New("invalid method")
	ErrInvalidState        = errors.New("invalid state")

	// Конкретные случаи ErrInvalidState, чтобы API слой мог
	// показать клиенту понятный текст вместо внутренней обертки
	ErrBelowMinimum     = fmt.Errorf("%w: amount below minimum", ErrInvalidState)
	ErrNotPending       = fmt.Errorf("%w: request is not pending", ErrInvalidState)
	ErrAlreadyProcessed = fmt.Errorf("%w: request already processed", ErrInvalidState)
)

// AmountRangeError - сумма вне лимитов выбранного метода
type AmountRangeError struct {
	Min float64
	Max float64
}

func (e *AmountRangeError) Error() string {
	return fmt.Sprintf("Amount must be between $%g and $%g", e.Min, e.Max)
}

// Ledger - баланс пользователей в памяти.
// Каждый пользователь при первом обращении получает DefaultBalance.
type Ledger struct {
	mu       sync.Mutex
	balances map[string]float64
}

// NewLedger создает пустой ledger
func NewLedger() *Ledger {
	return &Ledger{balances: make(map[string]float64)}
}

// вызывается под l.mu
func (l *Ledger) get(userID string) float64 {
	if _, ok := l.balances[userID]; !ok {
		l.balances[userID] = DefaultBalance
	}
	return l.balances[userID]
}

// Balance возвращает текущий баланс пользователя
func (l *Ledger) Balance(userID string) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.get(userID)
}

// Debit списывает сумму, возвращая баланс до и после списания
func (l *Ledger) Debit(userID string, amount float64) (previous, current float64, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	previous = l.get(userID)
	if amount > previous {
		return previous, previous, ErrInsufficientBalance
	}

	l.balances[userID] = previous - amount
	return previous, l.balances[userID], nil
}

// Credit зачисляет сумму и возвращает новый баланс
func (l *Ledger) Credit(userID string, amount float64) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.balances[userID] = l.get(userID) + amount
	return l.balances[userID]
}

package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"elon_broker/internal/auth"
	"elon_broker/internal/copytrading"
	"elon_broker/internal/dashboard"
	"elon_broker/internal/funding"
	"elon_broker/internal/keepalive"
	"elon_broker/internal/kyc"
	"elon_broker/internal/loans"
	"elon_broker/internal/market"
	"elon_broker/internal/models"
	"elon_broker/internal/plans"
	"elon_broker/internal/referrals"
	"elon_broker/internal/trading"
)

// UserStore - хранилище пользователей, нужное API слою
type UserStore interface {
	CreateUser(ctx context.Context, name, email, passwordHash string, balance float64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int) (*models.User, error)
	UpdateUserName(ctx context.Context, id int, name string) (*models.User, error)
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
}

// Deps - сервисы, которые обслуживает API
type Deps struct {
	Auth        *auth.Service
	Admins      *auth.AdminStore
	Users       UserStore
	Ledger      *funding.Ledger
	Withdrawals *funding.WithdrawalService
	Deposits    *funding.DepositService
	Simulator   *copytrading.Simulator
	CopyTrading *copytrading.Service
	Market      *market.Service
	Trading     *trading.Service
	Plans       *plans.Service
	KYC         *kyc.Service
	Loans       *loans.Service
	Referrals   *referrals.Service
	Dashboard   *dashboard.Service
	KeepAlive   *keepalive.Tracker

	FrontendURL string
	Environment string

	// Пустой секрет отключает endpoint сброса админского пароля
	TempAdminResetSecret string
}

// Handler обрабатывает API запросы
type Handler struct {
	deps   Deps
	logger *slog.Logger
}

func New(deps Deps, logger *slog.Logger) *Handler {
	return &Handler{
		deps:   deps,
		logger: logger,
	}
}

// Helper функции для JSON ответов

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func (h *Handler) respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) respondError(w http.ResponseWriter, statusCode int, message string) {
	h.respondJSON(w, statusCode, ErrorResponse{Error: message})
}

func (h *Handler) respondSuccess(w http.ResponseWriter, message string, data any) {
	h.respondJSON(w, http.StatusOK, SuccessResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func (h *Handler) respondCreated(w http.ResponseWriter, message string, data any) {
	h.respondJSON(w, http.StatusCreated, SuccessResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// requireUsers отвечает 503, если база пользователей недоступна.
// Сервер стартует и без базы, чтобы health чеки продолжали работать.
func (h *Handler) requireUsers(w http.ResponseWriter) bool {
	if h.deps.Users == nil {
		h.respondError(w, http.StatusServiceUnavailable, "Database is unavailable")
		return false
	}

	return true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}

	return true
}

// decodeOptional читает тело запроса, если оно есть. Пустое тело не ошибка.
func decodeOptional(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}

	return json.NewDecoder(r.Body).Decode(dst)
}

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"elon_broker/internal/funding"
	"elon_broker/internal/models"
)

// HandleWithdrawalMethods возвращает каталог способов вывода
func (h *Handler) HandleWithdrawalMethods(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: map[string]any{
		"methods": funding.WithdrawalMethods(),
	}})
}

// HandleWithdrawalSubmit создает заявку на вывод средств
func (h *Handler) HandleWithdrawalSubmit(w http.ResponseWriter, r *http.Request) {
	var req funding.WithdrawalRequest
	if !h.decode(w, r, &req) {
		return
	}

	if req.UserID == "" {
		h.respondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	result, err := h.deps.Withdrawals.Submit(req)
	if err != nil {
		if errors.Is(err, funding.ErrBelowMinimum) {
			h.respondError(w, http.StatusBadRequest, "Minimum withdrawal amount is $1")
			return
		}

		h.respondFundingError(w, err)

		return
	}

	h.respondCreated(w, result.Message, result)
}

// HandleWithdrawalHistory возвращает историю выводов пользователя
func (h *Handler) HandleWithdrawalHistory(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: h.deps.Withdrawals.History(userID)})
}

// HandleWithdrawalStatus возвращает заявку с историей статусов
func (h *Handler) HandleWithdrawalStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	withdrawal, err := h.deps.Withdrawals.Get(id)
	if err != nil {
		h.respondFundingError(w, err)
		return
	}

	history, err := h.deps.Withdrawals.StatusHistory(id)
	if err != nil {
		h.respondFundingError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: map[string]any{
		"withdrawal":    withdrawal,
		"statusHistory": history,
	}})
}

type CancelWithdrawalRequest struct {
	Reason string `json:"reason"`
}

// HandleWithdrawalCancel отменяет pending заявку
func (h *Handler) HandleWithdrawalCancel(w http.ResponseWriter, r *http.Request) {
	var req CancelWithdrawalRequest
	_ = decodeOptional(r, &req)

	result, err := h.deps.Withdrawals.Cancel(mux.Vars(r)["id"], req.Reason)
	if err != nil {
		h.respondFundingError(w, err)
		return
	}

	h.respondSuccess(w, result.Message, result)
}

type AdminNotesRequest struct {
	AdminNotes string `json:"adminNotes"`
}

// HandleWithdrawalApprove завершает заявку
func (h *Handler) HandleWithdrawalApprove(w http.ResponseWriter, r *http.Request) {
	var req AdminNotesRequest
	_ = decodeOptional(r, &req)

	result, err := h.deps.Withdrawals.AdminApprove(mux.Vars(r)["id"], req.AdminNotes)
	if err != nil {
		h.respondFundingError(w, err)
		return
	}

	h.respondSuccess(w, result.Message, result)
}

// HandleWithdrawalReject отклоняет заявку с возвратом средств
func (h *Handler) HandleWithdrawalReject(w http.ResponseWriter, r *http.Request) {
	var req AdminNotesRequest
	_ = decodeOptional(r, &req)

	result, err := h.deps.Withdrawals.AdminReject(mux.Vars(r)["id"], req.AdminNotes)
	if err != nil {
		h.respondFundingError(w, err)
		return
	}

	h.respondSuccess(w, result.Message, result)
}

// HandleWithdrawalAdminList возвращает страницу заявок для админки
func (h *Handler) HandleWithdrawalAdminList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	status := models.TxStatus(q.Get("status"))

	withdrawals, pagination, stats := h.deps.Withdrawals.AdminList(status, page, limit)

	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: map[string]any{
		"withdrawals": withdrawals,
		"pagination":  pagination,
		"statistics":  stats,
	}})
}

// respondFundingError переводит ошибки funding сервисов в HTTP статусы.
// Клиент всегда получает готовый текст без внутренних оберток ошибок.
func (h *Handler) respondFundingError(w http.ResponseWriter, err error) {
	var rangeErr *funding.AmountRangeError
	switch {
	case errors.Is(err, funding.ErrNotFound):
		h.respondError(w, http.StatusNotFound, "Request not found")
	case errors.Is(err, funding.ErrInvalidMethod):
		h.respondError(w, http.StatusBadRequest, "Invalid method selected")
	case errors.Is(err, funding.ErrInsufficientBalance):
		h.respondError(w, http.StatusBadRequest, "Insufficient balance")
	case errors.As(err, &rangeErr):
		h.respondError(w, http.StatusBadRequest, rangeErr.Error())
	case errors.Is(err, funding.ErrNotPending):
		h.respondError(w, http.StatusBadRequest, "Can only cancel pending withdrawals")
	case errors.Is(err, funding.ErrAlreadyProcessed):
		h.respondError(w, http.StatusBadRequest, "Request has already been processed")
	case errors.Is(err, funding.ErrInvalidState):
		h.respondError(w, http.StatusBadRequest, "Invalid request state")
	default:
		h.logger.Error("Funding operation failed", "error", err)
		h.respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

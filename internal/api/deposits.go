package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"elon_broker/internal/funding"
	"elon_broker/internal/models"
)

// HandleDepositMethods возвращает каталог способов пополнения
func (h *Handler) HandleDepositMethods(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: map[string]any{
		"paymentMethods": funding.PaymentMethods(),
	}})
}

// HandleDepositSubmit создает заявку на пополнение
func (h *Handler) HandleDepositSubmit(w http.ResponseWriter, r *http.Request) {
	var req funding.DepositRequest
	if !h.decode(w, r, &req) {
		return
	}

	if req.UserID == "" {
		h.respondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	result, err := h.deps.Deposits.Submit(req)
	if err != nil {
		if errors.Is(err, funding.ErrBelowMinimum) {
			h.respondError(w, http.StatusBadRequest, "Minimum deposit amount is $1")
			return
		}

		h.respondFundingError(w, err)

		return
	}

	h.respondCreated(w, result.Message, result)
}

type UploadProofRequest struct {
	DepositID string `json:"depositId"`
}

// HandleDepositUploadProof привязывает подтверждение оплаты к заявке
func (h *Handler) HandleDepositUploadProof(w http.ResponseWriter, r *http.Request) {
	var req UploadProofRequest
	if !h.decode(w, r, &req) {
		return
	}

	if req.DepositID == "" {
		h.respondError(w, http.StatusBadRequest, "depositId is required")
		return
	}

	deposit, filename, err := h.deps.Deposits.UploadProof(req.DepositID)
	if err != nil {
		h.respondFundingError(w, err)
		return
	}

	h.respondSuccess(w, "Payment proof uploaded successfully", map[string]any{
		"deposit":  deposit,
		"filename": filename,
	})
}

// HandleDepositHistory возвращает историю пополнений пользователя
func (h *Handler) HandleDepositHistory(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: h.deps.Deposits.History(userID)})
}

// HandleDepositStatus возвращает заявку с историей статусов
func (h *Handler) HandleDepositStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	deposit, err := h.deps.Deposits.Get(id)
	if err != nil {
		h.respondFundingError(w, err)
		return
	}

	history, err := h.deps.Deposits.StatusHistory(id)
	if err != nil {
		h.respondFundingError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: map[string]any{
		"deposit":       deposit,
		"statusHistory": history,
	}})
}

// HandleDepositApprove завершает заявку и зачисляет средства
func (h *Handler) HandleDepositApprove(w http.ResponseWriter, r *http.Request) {
	var req AdminNotesRequest
	_ = decodeOptional(r, &req)

	result, err := h.deps.Deposits.AdminApprove(mux.Vars(r)["id"], req.AdminNotes)
	if err != nil {
		h.respondFundingError(w, err)
		return
	}

	h.respondSuccess(w, result.Message, result)
}

// HandleDepositReject отклоняет заявку
func (h *Handler) HandleDepositReject(w http.ResponseWriter, r *http.Request) {
	var req AdminNotesRequest
	_ = decodeOptional(r, &req)

	result, err := h.deps.Deposits.AdminReject(mux.Vars(r)["id"], req.AdminNotes)
	if err != nil {
		h.respondFundingError(w, err)
		return
	}

	h.respondSuccess(w, result.Message, result)
}

// HandleDepositAdminList возвращает страницу заявок для админки
func (h *Handler) HandleDepositAdminList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	status := models.TxStatus(q.Get("status"))

	deposits, pagination, stats := h.deps.Deposits.AdminList(status, page, limit)

	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: map[string]any{
		"deposits":   deposits,
		"pagination": pagination,
		"statistics": stats,
	}})
}

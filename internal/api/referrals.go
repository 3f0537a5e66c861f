package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"elon_broker/internal/referrals"
)

type ReferralRegisterRequest struct {
	ReferrerID        string     `json:"referrerId"`
	ReferredUserID    string     `json:"referredUserId"`
	ReferredUserName  string     `json:"referredUserName"`
	ReferredUserEmail string     `json:"referredUserEmail"`
	RegistrationDate  *time.Time `json:"registrationDate"`
}

// HandleReferralRegister регистрирует приглашенного пользователя
func (h *Handler) HandleReferralRegister(w http.ResponseWriter, r *http.Request) {
	var req ReferralRegisterRequest
	if !h.decode(w, r, &req) {
		return
	}

	if req.ReferrerID == "" || req.ReferredUserID == "" {
		h.respondError(w, http.StatusBadRequest, "Missing required fields: referrerId, referredUserId")
		return
	}

	referral, stats, err := h.deps.Referrals.Register(req.ReferrerID, req.ReferredUserID, req.ReferredUserName, req.ReferredUserEmail, req.RegistrationDate)
	if err != nil {
		if errors.Is(err, referrals.ErrAlreadyExists) {
			h.respondError(w, http.StatusBadRequest, "Referral already exists")
			return
		}

		h.logger.Error("Referral registration failed", "error", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to register referral")

		return
	}

	h.respondCreated(w, "Referral registered successfully!", map[string]any{
		"referral":     referral,
		"updatedStats": stats,
	})
}

type ReferralCommissionRequest struct {
	ReferrerID       string  `json:"referrerId"`
	ReferredUserID   string  `json:"referredUserId"`
	CommissionAmount float64 `json:"commissionAmount"`
	TransactionType  string  `json:"transactionType"`
	TransactionID    string  `json:"transactionId"`
}

// HandleReferralCommission начисляет комиссию рефереру
func (h *Handler) HandleReferralCommission(w http.ResponseWriter, r *http.Request) {
	var req ReferralCommissionRequest
	if !h.decode(w, r, &req) {
		return
	}

	if req.ReferrerID == "" || req.CommissionAmount <= 0 {
		h.respondError(w, http.StatusBadRequest, "Missing required fields: referrerId, commissionAmount")
		return
	}

	commission, stats, err := h.deps.Referrals.AddCommission(req.ReferrerID, req.ReferredUserID, req.CommissionAmount, req.TransactionType, req.TransactionID)
	if err != nil {
		if errors.Is(err, referrals.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "Referral not found")
			return
		}

		h.logger.Error("Commission addition failed", "error", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to add commission")

		return
	}

	h.respondSuccess(w, "Commission added successfully", map[string]any{
		"commission":   commission,
		"updatedStats": stats,
	})
}

// HandleReferralUserData возвращает статистику и список рефералов пользователя
func (h *Handler) HandleReferralUserData(w http.ResponseWriter, r *http.Request) {
	stats, userReferrals, link := h.deps.Referrals.UserData(mux.Vars(r)["userId"])

	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: map[string]any{
		"stats":        stats,
		"referrals":    userReferrals,
		"referralLink": link,
	}})
}

// HandleReferralLeaderboard возвращает топ рефереров
func (h *Handler) HandleReferralLeaderboard(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: map[string]any{
		"leaderboard": h.deps.Referrals.Leaderboard(),
	}})
}

// HandleReferralStatistics возвращает сводную реферальную статистику
func (h *Handler) HandleReferralStatistics(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: h.deps.Referrals.Statistics()})
}

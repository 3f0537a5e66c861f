package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"elon_broker/internal/plans"
)

// HandlePlans возвращает каталог инвестиционных планов
func (h *Handler) HandlePlans(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: map[string]any{
		"plans": h.deps.Plans.Plans(),
	}})
}

// HandleUserPlans возвращает активные планы пользователя
func (h *Handler) HandleUserPlans(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, SuccessResponse{
		Success: true,
		Data:    h.deps.Plans.UserPlans(mux.Vars(r)["userId"]),
	})
}

// HandlePlanPurchase оформляет покупку плана
func (h *Handler) HandlePlanPurchase(w http.ResponseWriter, r *http.Request) {
	var req plans.PurchaseRequest
	if !h.decode(w, r, &req) {
		return
	}

	if req.UserID == "" || req.PlanID == "" || req.Amount <= 0 {
		h.respondError(w, http.StatusBadRequest, "Missing required fields: userId, planId, amount")
		return
	}

	purchase, err := h.deps.Plans.Purchase(req)
	if err != nil {
		var rangeErr *plans.AmountRangeError
		switch {
		case errors.Is(err, plans.ErrPlanNotFound):
			h.respondError(w, http.StatusNotFound, "Investment plan not found")
		case errors.As(err, &rangeErr):
			h.respondError(w, http.StatusBadRequest, rangeErr.Error())
		default:
			h.logger.Error("Plan purchase failed", "error", err)
			h.respondError(w, http.StatusInternalServerError, "Failed to purchase investment plan")
		}

		return
	}

	h.respondCreated(w, "Investment plan purchased successfully!", map[string]any{
		"planPurchase": purchase,
	})
}

// HandlePlanStatistics возвращает статистику по планам для админки
func (h *Handler) HandlePlanStatistics(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: h.deps.Plans.Statistics()})
}

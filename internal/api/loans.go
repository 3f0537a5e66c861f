package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"elon_broker/internal/loans"
)

// HandleLoanProducts возвращает каталог кредитных продуктов
func (h *Handler) HandleLoanProducts(w http.ResponseWriter, r *http.Request) {
	products := h.deps.Loans.Products()

	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: map[string]any{
		"products": products,
		"count":    len(products),
	}})
}

// HandleUserLoans возвращает заявки пользователя со сводкой
func (h *Handler) HandleUserLoans(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, SuccessResponse{
		Success: true,
		Data:    h.deps.Loans.UserLoans(mux.Vars(r)["userId"]),
	})
}

// HandleLoanApply принимает кредитную заявку
func (h *Handler) HandleLoanApply(w http.ResponseWriter, r *http.Request) {
	var req loans.ApplyRequest
	if !h.decode(w, r, &req) {
		return
	}

	if req.UserID == "" || req.LoanProductID == "" || req.Amount <= 0 || req.Purpose == "" {
		h.respondError(w, http.StatusBadRequest, "Missing required fields: userId, loanProductId, amount, purpose")
		return
	}

	app, product, err := h.deps.Loans.Apply(req)
	if err != nil {
		var rangeErr *loans.AmountRangeError
		switch {
		case errors.Is(err, loans.ErrProductNotFound):
			h.respondError(w, http.StatusNotFound, "Loan product not found")
		case errors.As(err, &rangeErr):
			h.respondError(w, http.StatusBadRequest, rangeErr.Error())
		default:
			h.logger.Error("Loan application failed", "error", err)
			h.respondError(w, http.StatusInternalServerError, "Failed to submit loan application")
		}

		return
	}

	h.respondCreated(w, "Loan application submitted successfully! You will receive updates via email.", map[string]any{
		"application": map[string]any{
			"id":             app.ID,
			"amount":         app.Amount,
			"totalRepayment": app.TotalRepayment,
			"status":         app.Status,
			"submittedAt":    app.SubmittedAt,
			"processingTime": product.ProcessingTime,
		},
	})
}

// HandleLoansPending возвращает заявки, ожидающие решения
func (h *Handler) HandleLoansPending(w http.ResponseWriter, r *http.Request) {
	pending := h.deps.Loans.Pending()

	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: map[string]any{
		"applications": pending,
		"count":        len(pending),
	}})
}

type LoanReviewRequest struct {
	Status             string `json:"status"`
	AdminNotes         string `json:"adminNotes"`
	ReviewedBy         string `json:"reviewedBy"`
	DisbursementMethod string `json:"disbursementMethod"`
}

// HandleLoanReview выносит решение админа по кредитной заявке
func (h *Handler) HandleLoanReview(w http.ResponseWriter, r *http.Request) {
	var req LoanReviewRequest
	if !h.decode(w, r, &req) {
		return
	}

	app, err := h.deps.Loans.Review(mux.Vars(r)["applicationId"], req.Status, req.AdminNotes, req.ReviewedBy, req.DisbursementMethod)
	if err != nil {
		switch {
		case errors.Is(err, loans.ErrInvalidDecision):
			h.respondError(w, http.StatusBadRequest, `Status must be either "approved" or "rejected"`)
		case errors.Is(err, loans.ErrApplicationNotFound):
			h.respondError(w, http.StatusNotFound, "Loan application not found")
		default:
			h.logger.Error("Loan review failed", "error", err)
			h.respondError(w, http.StatusInternalServerError, "Failed to review loan application")
		}

		return
	}

	h.respondSuccess(w, fmt.Sprintf("Loan application %s successfully", req.Status), map[string]any{
		"application": map[string]any{
			"id":         app.ID,
			"userId":     app.UserID,
			"status":     app.Status,
			"reviewedAt": app.ReviewedAt,
			"amount":     app.Amount,
		},
	})
}

// HandleLoanStatistics возвращает статистику по кредитам для админки
func (h *Handler) HandleLoanStatistics(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: h.deps.Loans.Statistics()})
}

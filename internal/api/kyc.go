package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"elon_broker/internal/kyc"
)

// HandleKYCStatus возвращает статус верификации пользователя
func (h *Handler) HandleKYCStatus(w http.ResponseWriter, r *http.Request) {
	status := h.deps.KYC.Status(mux.Vars(r)["userId"])
	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: status})
}

type KYCSubmitRequest struct {
	UserID            string            `json:"userId"`
	UserName          string            `json:"userName"`
	UserEmail         string            `json:"userEmail"`
	PersonalInfo      *kyc.PersonalInfo `json:"personalInfo"`
	Documents         []kyc.Document    `json:"documents"`
	VerificationLevel string            `json:"verificationLevel"`
}

// HandleKYCSubmit принимает заявку на верификацию
func (h *Handler) HandleKYCSubmit(w http.ResponseWriter, r *http.Request) {
	var req KYCSubmitRequest
	if !h.decode(w, r, &req) {
		return
	}

	if req.UserID == "" || req.PersonalInfo == nil {
		h.respondError(w, http.StatusBadRequest, "Missing required fields: userId, personalInfo")
		return
	}

	app, err := h.deps.KYC.Submit(req.UserID, req.UserName, req.UserEmail, *req.PersonalInfo, req.Documents, req.VerificationLevel)
	if err != nil {
		if errors.Is(err, kyc.ErrAlreadyVerified) {
			h.respondError(w, http.StatusBadRequest, "User is already verified")
			return
		}

		h.logger.Error("KYC submission failed", "error", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to submit KYC application")

		return
	}

	h.respondCreated(w, "KYC application submitted successfully! Review will be completed within 24-48 hours.", map[string]any{
		"application": map[string]any{
			"id":          app.ID,
			"status":      app.Status,
			"submittedAt": app.SubmittedAt,
		},
	})
}

type KYCUploadDocumentRequest struct {
	UserID       string `json:"userId"`
	DocumentType string `json:"documentType"`
	Filename     string `json:"filename"`
	FileData     string `json:"fileData"`
}

// HandleKYCUploadDocument добавляет документ к заявке пользователя
func (h *Handler) HandleKYCUploadDocument(w http.ResponseWriter, r *http.Request) {
	var req KYCUploadDocumentRequest
	if !h.decode(w, r, &req) {
		return
	}

	doc, err := h.deps.KYC.UploadDocument(req.UserID, req.DocumentType, req.Filename, len(req.FileData))
	if err != nil {
		h.respondError(w, http.StatusNotFound, "No KYC application found for user")
		return
	}

	h.respondSuccess(w, "Document uploaded successfully", map[string]any{"document": doc})
}

// HandleKYCPending возвращает заявки, ожидающие проверки
func (h *Handler) HandleKYCPending(w http.ResponseWriter, r *http.Request) {
	pending := h.deps.KYC.Pending()

	h.respondJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: map[string]any{
		"applications": pending,
		"count":        len(pending),
	}})
}

type KYCReviewRequest struct {
	Status     string `json:"status"`
	AdminNotes string `json:"adminNotes"`
	ReviewedBy string `json:"reviewedBy"`
}

// HandleKYCReview выносит решение админа по заявке
func (h *Handler) HandleKYCReview(w http.ResponseWriter, r *http.Request) {
	var req KYCReviewRequest
	if !h.decode(w, r, &req) {
		return
	}

	app, err := h.deps.KYC.Review(mux.Vars(r)["applicationId"], req.Status, req.AdminNotes, req.ReviewedBy)
	if err != nil {
		switch {
		case errors.Is(err, kyc.ErrInvalidDecision):
			h.respondError(w, http.StatusBadRequest, `Status must be either "approved" or "rejected"`)
		case errors.Is(err, kyc.ErrNotFound):
			h.respondError(w, http.StatusNotFound, "KYC application not found")
		default:
			h.logger.Error("KYC review failed", "error", err)
			h.respondError(w, http.StatusInternalServerError, "Failed to review KYC application")
		}

		return
	}

	h.respondSuccess(w, fmt.Sprintf("KYC application %s successfully", req.Status), map[string]any{
		"application": map[string]any{
			"id":         app.ID,
			"userId":     app.UserID,
			"status":     app.Status,
			"reviewedAt": app.ReviewedAt,
		},
	})
}

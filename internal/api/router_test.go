package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elon_broker/internal/auth"
	"elon_broker/internal/keepalive"
	"elon_broker/internal/kyc"
	"elon_broker/internal/plans"
)

func newFullHandler(t *testing.T) *Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return New(Deps{
		Auth:        auth.NewService("test-secret", "test-admin-secret", time.Hour),
		Users:       newFakeUserStore(),
		Plans:       plans.NewService(logger),
		KYC:         kyc.NewService(logger),
		KeepAlive:   keepalive.NewTracker(),
		FrontendURL: "http://localhost:3000",
		Environment: "test",
	}, logger)
}

func TestHealthEndpoint(t *testing.T) {
	router := newFullHandler(t).SetupRouter()

	rec := doJSON(t, router, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "OK", resp.Status)
	assert.Equal(t, "Crypto Forex Trading API - Keep Alive Active", resp.Message)
}

func TestPingEndpoint(t *testing.T) {
	router := newFullHandler(t).SetupRouter()

	rec := doJSON(t, router, http.MethodGet, "/ping", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Pong  bool `json:"pong"`
		Count int  `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Pong)
	assert.Equal(t, 1, resp.Count)
}

func TestCORSHeaders(t *testing.T) {
	router := newFullHandler(t).SetupRouter()

	rec := doJSON(t, router, http.MethodGet, "/ping", nil, "")
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestKYCFlow(t *testing.T) {
	router := newFullHandler(t).SetupRouter()

	// До подачи заявки статус not_submitted
	rec := doJSON(t, router, http.MethodGet, "/api/kyc/status/user_001", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var statusResp struct {
		Data struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &statusResp))
	assert.Equal(t, "not_submitted", statusResp.Data.Status)

	rec = doJSON(t, router, http.MethodPost, "/api/kyc/submit", map[string]any{
		"userId":    "user_001",
		"userName":  "John Doe",
		"userEmail": "john@example.com",
		"personalInfo": map[string]any{
			"fullName":    "John Doe",
			"dateOfBirth": "1990-05-12",
			"nationality": "US",
		},
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var submitResp struct {
		Success bool `json:"success"`
		Data    struct {
			Application struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"application"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submitResp))
	assert.True(t, submitResp.Success)
	assert.Equal(t, "pending", submitResp.Data.Application.Status)

	rec = doJSON(t, router, http.MethodPost, "/api/kyc/review/"+submitResp.Data.Application.ID, map[string]any{
		"status":     "approved",
		"reviewedBy": "admin",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/kyc/status/user_001", nil, "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &statusResp))
	assert.Equal(t, "verified", statusResp.Data.Status)
}

func TestKYCSubmit_MissingFields(t *testing.T) {
	router := newFullHandler(t).SetupRouter()

	rec := doJSON(t, router, http.MethodPost, "/api/kyc/submit", map[string]any{
		"userId": "user_001",
	}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Missing required fields: userId, personalInfo", resp.Error)
}

func TestPlanPurchaseErrors(t *testing.T) {
	router := newFullHandler(t).SetupRouter()

	rec := doJSON(t, router, http.MethodPost, "/api/plans/purchase", map[string]any{
		"userId": "user_001",
		"planId": "nonexistent",
		"amount": 500,
	}, "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Investment plan not found", resp.Error)

	rec = doJSON(t, router, http.MethodPost, "/api/plans/purchase", map[string]any{
		"userId": "user_001",
		"planId": "starter",
		"amount": 50,
	}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Amount must be between $100 and $999", resp.Error)
}

func TestPlanPurchase(t *testing.T) {
	router := newFullHandler(t).SetupRouter()

	rec := doJSON(t, router, http.MethodPost, "/api/plans/purchase", map[string]any{
		"userId":   "user_001",
		"userName": "John Doe",
		"planId":   "professional",
		"amount":   2000,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Data    struct {
			PlanPurchase struct {
				ExpectedProfit float64 `json:"expectedProfit"`
				Status         string  `json:"status"`
			} `json:"planPurchase"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.Equal(t, "Investment plan purchased successfully!", resp.Message)
	assert.InDelta(t, 500.0, resp.Data.PlanPurchase.ExpectedProfit, 1e-9)
	assert.Equal(t, "active", resp.Data.PlanPurchase.Status)
}

func TestUnknownRoute(t *testing.T) {
	router := newFullHandler(t).SetupRouter()

	rec := doJSON(t, router, http.MethodGet, "/api/unknown", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

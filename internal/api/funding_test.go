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
	"elon_broker/internal/funding"
)

func newFundingRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ledger := funding.NewLedger()

	h := New(Deps{
		Auth:        auth.NewService("test-secret", "test-admin-secret", time.Hour),
		Users:       newFakeUserStore(),
		Ledger:      ledger,
		Withdrawals: funding.NewWithdrawalService(ledger, logger),
		Deposits:    funding.NewDepositService(ledger, logger),
		FrontendURL: "http://localhost:3000",
		Environment: "test",
	}, logger)

	return h.SetupRouter()
}

func submitWithdrawal(t *testing.T, router http.Handler) string {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/api/withdrawals/submit", map[string]any{
		"userId":             "user_001",
		"amount":             500,
		"withdrawalMethodId": "bank_transfer",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Data struct {
			Withdrawal struct {
				ID string `json:"id"`
			} `json:"withdrawal"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Withdrawal.ID)

	return resp.Data.Withdrawal.ID
}

func TestWithdrawalSubmit_BelowMinimum(t *testing.T) {
	router := newFundingRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/withdrawals/submit", map[string]any{
		"userId":             "user_001",
		"amount":             0.5,
		"withdrawalMethodId": "bank_transfer",
	}, "")

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Minimum withdrawal amount is $1", resp.Error)
}

func TestWithdrawalCancel_AfterApproval(t *testing.T) {
	router := newFundingRouter(t)
	id := submitWithdrawal(t, router)

	rec := doJSON(t, router, http.MethodPut, "/api/withdrawals/admin/approve/"+id, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/api/withdrawals/cancel/"+id, nil, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Can only cancel pending withdrawals", resp.Error)
	assert.NotContains(t, resp.Error, "invalid state")
}

func TestWithdrawalApprove_Twice(t *testing.T) {
	router := newFundingRouter(t)
	id := submitWithdrawal(t, router)

	rec := doJSON(t, router, http.MethodPut, "/api/withdrawals/admin/approve/"+id, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/api/withdrawals/admin/approve/"+id, nil, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Request has already been processed", resp.Error)
	assert.NotContains(t, resp.Error, "invalid state")
}

func TestDepositSubmit_BelowMinimum(t *testing.T) {
	router := newFundingRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/deposits/submit", map[string]any{
		"userId":          "user_001",
		"amount":          0.5,
		"paymentMethodId": "bank_transfer",
	}, "")

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Minimum deposit amount is $1", resp.Error)
}

package funding

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elon_broker/internal/models"
)

func newTestWithdrawals(t *testing.T) (*WithdrawalService, *Ledger) {
	t.Helper()
	ledger := NewLedger()
	return NewWithdrawalService(ledger, slog.New(slog.NewTextHandler(io.Discard, nil))), ledger
}

func TestWithdrawalSubmit_CryptoFees(t *testing.T) {
	svc, ledger := newTestWithdrawals(t)

	res, err := svc.Submit(WithdrawalRequest{
		UserID:             "user_001",
		Amount:             500,
		Currency:           "usd",
		Method:             "Cryptocurrency",
		WithdrawalMethodID: "crypto",
		CryptoWallet:       map[string]any{"address": "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", "coin": "BTC"},
	})
	require.NoError(t, err)

	w := res.Withdrawal
	assert.Equal(t, models.StatusPending, w.Status)
	assert.Equal(t, "USD", w.Currency)
	assert.InDelta(t, 5.0, w.Fees.Total, 1e-9)
	assert.InDelta(t, 495.0, w.NetAmount, 1e-9)

	// Сумма списывается сразу при создании заявки
	assert.InDelta(t, DefaultBalance-500, ledger.Balance("user_001"), 1e-9)
	require.NotNil(t, res.BalanceUpdate)
	assert.InDelta(t, DefaultBalance, res.BalanceUpdate.PreviousBalance, 1e-9)
}

func TestWithdrawalSubmit_FixedFees(t *testing.T) {
	svc, _ := newTestWithdrawals(t)

	res, err := svc.Submit(WithdrawalRequest{
		UserID:             "user_001",
		Amount:             2000,
		Currency:           "USD",
		WithdrawalMethodID: "bank_transfer",
	})
	require.NoError(t, err)

	assert.InDelta(t, 25.0, res.Withdrawal.Fees.Total, 1e-9)
	assert.InDelta(t, 1975.0, res.Withdrawal.NetAmount, 1e-9)
}

func TestWithdrawalSubmit_AmountOutOfRange(t *testing.T) {
	svc, ledger := newTestWithdrawals(t)

	tests := []struct {
		name     string
		methodID string
		amount   float64
	}{
		{"below bank minimum", "bank_transfer", 50},
		{"above paypal maximum", "paypal", 20000},
		{"below crypto minimum", "crypto", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(WithdrawalRequest{
				UserID:             "user_001",
				Amount:             tt.amount,
				Currency:           "USD",
				WithdrawalMethodID: tt.methodID,
			})

			var rangeErr *AmountRangeError
			require.ErrorAs(t, err, &rangeErr)
		})
	}

	// Заявки не создались и баланс не тронут
	assert.Empty(t, svc.History("user_001").Withdrawals)
	assert.InDelta(t, DefaultBalance, ledger.Balance("user_001"), 1e-9)
}

func TestWithdrawalSubmit_UnknownMethod(t *testing.T) {
	svc, _ := newTestWithdrawals(t)

	_, err := svc.Submit(WithdrawalRequest{
		UserID:             "user_001",
		Amount:             500,
		Currency:           "USD",
		WithdrawalMethodID: "venmo",
	})
	assert.ErrorIs(t, err, ErrInvalidMethod)
}

func TestWithdrawalSubmit_InsufficientBalance(t *testing.T) {
	svc, _ := newTestWithdrawals(t)

	_, err := svc.Submit(WithdrawalRequest{
		UserID:             "user_001",
		Amount:             99000,
		Currency:           "USD",
		WithdrawalMethodID: "crypto",
	})
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestWithdrawalCancel_RefundsBalance(t *testing.T) {
	svc, ledger := newTestWithdrawals(t)

	res, err := svc.Submit(WithdrawalRequest{
		UserID:             "user_001",
		Amount:             500,
		Currency:           "USD",
		WithdrawalMethodID: "crypto",
	})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(res.Withdrawal.ID, "")
	require.NoError(t, err)

	assert.Equal(t, models.StatusCancelled, cancelled.Withdrawal.Status)
	assert.Equal(t, "Cancelled by user", cancelled.Withdrawal.AdminNotes)
	assert.NotNil(t, cancelled.Withdrawal.ProcessedAt)
	assert.InDelta(t, DefaultBalance, ledger.Balance("user_001"), 1e-9)
}

func TestWithdrawalCancel_OnlyPending(t *testing.T) {
	svc, ledger := newTestWithdrawals(t)

	res, err := svc.Submit(WithdrawalRequest{
		UserID:             "user_001",
		Amount:             500,
		Currency:           "USD",
		WithdrawalMethodID: "crypto",
	})
	require.NoError(t, err)

	_, err = svc.AdminApprove(res.Withdrawal.ID, "")
	require.NoError(t, err)

	_, err = svc.Cancel(res.Withdrawal.ID, "changed my mind")
	assert.ErrorIs(t, err, ErrInvalidState)

	// Заявка осталась завершенной, повторного возврата нет
	w, err := svc.Get(res.Withdrawal.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, w.Status)
	assert.InDelta(t, DefaultBalance-500, ledger.Balance("user_001"), 1e-9)
}

func TestWithdrawalAdminApprove_NotFound(t *testing.T) {
	svc, _ := newTestWithdrawals(t)

	_, err := svc.AdminApprove("with_unknown", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWithdrawalAdminApprove_Twice(t *testing.T) {
	svc, _ := newTestWithdrawals(t)

	res, err := svc.Submit(WithdrawalRequest{
		UserID:             "user_001",
		Amount:             500,
		Currency:           "USD",
		WithdrawalMethodID: "crypto",
	})
	require.NoError(t, err)

	_, err = svc.AdminApprove(res.Withdrawal.ID, "")
	require.NoError(t, err)

	_, err = svc.AdminApprove(res.Withdrawal.ID, "")
	assert.True(t, errors.Is(err, ErrInvalidState))
}

func TestWithdrawalAdminReject_RefundsBalance(t *testing.T) {
	svc, ledger := newTestWithdrawals(t)

	res, err := svc.Submit(WithdrawalRequest{
		UserID:             "user_001",
		Amount:             1500,
		Currency:           "USD",
		WithdrawalMethodID: "wire_transfer",
	})
	require.NoError(t, err)

	rejected, err := svc.AdminReject(res.Withdrawal.ID, "Suspicious activity")
	require.NoError(t, err)

	assert.Equal(t, models.StatusRejected, rejected.Withdrawal.Status)
	assert.Equal(t, "Suspicious activity", rejected.Withdrawal.AdminNotes)
	assert.InDelta(t, DefaultBalance, ledger.Balance("user_001"), 1e-9)
}

func TestWithdrawalHistory_Summary(t *testing.T) {
	svc, _ := newTestWithdrawals(t)

	first, err := svc.Submit(WithdrawalRequest{
		UserID: "user_001", Amount: 500, Currency: "USD", WithdrawalMethodID: "crypto",
	})
	require.NoError(t, err)

	_, err = svc.Submit(WithdrawalRequest{
		UserID: "user_001", Amount: 200, Currency: "USD", WithdrawalMethodID: "bank_transfer",
	})
	require.NoError(t, err)

	_, err = svc.Submit(WithdrawalRequest{
		UserID: "user_002", Amount: 300, Currency: "USD", WithdrawalMethodID: "crypto",
	})
	require.NoError(t, err)

	_, err = svc.AdminApprove(first.Withdrawal.ID, "")
	require.NoError(t, err)

	h := svc.History("user_001")
	assert.Equal(t, 2, h.TotalWithdrawals)
	assert.InDelta(t, 700.0, h.TotalAmount, 1e-9)
	assert.Equal(t, 1, h.CompletedWithdrawals)
	assert.InDelta(t, 200.0, h.PendingAmount, 1e-9)
}

func TestWithdrawalAdminList_FilterAndStats(t *testing.T) {
	svc, _ := newTestWithdrawals(t)

	for i := 0; i < 3; i++ {
		_, err := svc.Submit(WithdrawalRequest{
			UserID: "user_001", Amount: 100 + float64(i), Currency: "USD", WithdrawalMethodID: "crypto",
		})
		require.NoError(t, err)
	}

	pending, pagination, stats := svc.AdminList(models.StatusPending, 1, 2)
	assert.Len(t, pending, 2)
	assert.Equal(t, 3, pagination.Total)
	assert.Equal(t, 2, pagination.TotalPages)
	assert.Equal(t, 3, stats.Pending)
	assert.Equal(t, 0, stats.Completed)

	completed, _, _ := svc.AdminList(models.StatusCompleted, 1, 10)
	assert.Empty(t, completed)
}

func TestWithdrawalStatusHistory(t *testing.T) {
	svc, _ := newTestWithdrawals(t)

	res, err := svc.Submit(WithdrawalRequest{
		UserID: "user_001", Amount: 500, Currency: "USD", WithdrawalMethodID: "crypto",
	})
	require.NoError(t, err)

	history, err := svc.StatusHistory(res.Withdrawal.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.StatusPending, history[0].Status)

	_, err = svc.AdminApprove(res.Withdrawal.ID, "done")
	require.NoError(t, err)

	history, err = svc.StatusHistory(res.Withdrawal.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.StatusCompleted, history[1].Status)
	assert.Equal(t, "done", history[1].Note)
}

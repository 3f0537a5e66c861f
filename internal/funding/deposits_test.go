package funding

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elon_broker/internal/models"
)

func newTestDeposits(t *testing.T) (*DepositService, *Ledger) {
	t.Helper()
	ledger := NewLedger()
	svc := NewDepositService(ledger, slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.cardDelay = 10 * time.Millisecond
	t.Cleanup(svc.Stop)
	return svc, ledger
}

func TestDepositSubmit_BankTransferPending(t *testing.T) {
	svc, _ := newTestDeposits(t)

	res, err := svc.Submit(DepositRequest{
		UserID:          "user_001",
		Amount:          1000,
		Currency:        "usd",
		PaymentMethodID: "bank_transfer",
	})
	require.NoError(t, err)

	d := res.Deposit
	assert.Equal(t, models.StatusPending, d.Status)
	assert.Equal(t, "USD", d.Currency)
	assert.InDelta(t, 0.0, d.Fees.Total, 1e-9)
	assert.Equal(t, "Elon Investment Bank", res.PaymentInstructions["bankName"])
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), d.ExpiresAt, time.Minute)
}

func TestDepositSubmit_CreditCardAutoCompletes(t *testing.T) {
	svc, ledger := newTestDeposits(t)

	res, err := svc.Submit(DepositRequest{
		UserID:          "user_001",
		Amount:          50,
		Currency:        "USD",
		PaymentMethodID: "credit_card",
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusProcessing, res.Deposit.Status)
	assert.InDelta(t, 50*3.5/100, res.Deposit.Fees.Total, 1e-9)

	require.Eventually(t, func() bool {
		d, err := svc.Get(res.Deposit.ID)
		return err == nil && d.Status == models.StatusCompleted
	}, time.Second, 5*time.Millisecond)

	d, err := svc.Get(res.Deposit.ID)
	require.NoError(t, err)
	require.NotNil(t, d.CompletedAt)
	assert.Equal(t, "Card payment processed successfully", d.AdminNotes)
	assert.InDelta(t, DefaultBalance+50, ledger.Balance("user_001"), 1e-9)
}

func TestDepositSubmit_AmountOutOfRange(t *testing.T) {
	svc, _ := newTestDeposits(t)

	_, err := svc.Submit(DepositRequest{
		UserID:          "user_001",
		Amount:          20,
		Currency:        "USD",
		PaymentMethodID: "credit_card",
	})

	var rangeErr *AmountRangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.InDelta(t, 50.0, rangeErr.Min, 1e-9)
	assert.InDelta(t, 10000.0, rangeErr.Max, 1e-9)
	assert.Empty(t, svc.History("user_001").Deposits)
}

func TestDepositSubmit_UnknownMethod(t *testing.T) {
	svc, _ := newTestDeposits(t)

	_, err := svc.Submit(DepositRequest{
		UserID:          "user_001",
		Amount:          100,
		Currency:        "USD",
		PaymentMethodID: "cash",
	})
	assert.ErrorIs(t, err, ErrInvalidMethod)
}

func TestDepositAdminApprove_CreditsBalance(t *testing.T) {
	svc, ledger := newTestDeposits(t)

	res, err := svc.Submit(DepositRequest{
		UserID:          "user_001",
		Amount:          2500,
		Currency:        "USD",
		PaymentMethodID: "crypto",
	})
	require.NoError(t, err)

	approved, err := svc.AdminApprove(res.Deposit.ID, "")
	require.NoError(t, err)

	assert.Equal(t, models.StatusCompleted, approved.Deposit.Status)
	assert.NotNil(t, approved.Deposit.CompletedAt)
	require.NotNil(t, approved.BalanceUpdate)
	assert.InDelta(t, DefaultBalance+2500, approved.BalanceUpdate.NewBalance, 1e-9)
	assert.InDelta(t, DefaultBalance+2500, ledger.Balance("user_001"), 1e-9)
}

func TestDepositAdminApprove_Twice(t *testing.T) {
	svc, ledger := newTestDeposits(t)

	res, err := svc.Submit(DepositRequest{
		UserID:          "user_001",
		Amount:          100,
		Currency:        "USD",
		PaymentMethodID: "bank_transfer",
	})
	require.NoError(t, err)

	_, err = svc.AdminApprove(res.Deposit.ID, "")
	require.NoError(t, err)

	// Повторное подтверждение не зачисляет сумму второй раз
	_, err = svc.AdminApprove(res.Deposit.ID, "")
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.InDelta(t, DefaultBalance+100, ledger.Balance("user_001"), 1e-9)
}

func TestDepositAdminReject(t *testing.T) {
	svc, ledger := newTestDeposits(t)

	res, err := svc.Submit(DepositRequest{
		UserID:          "user_001",
		Amount:          100,
		Currency:        "USD",
		PaymentMethodID: "bank_transfer",
	})
	require.NoError(t, err)

	rejected, err := svc.AdminReject(res.Deposit.ID, "No payment received")
	require.NoError(t, err)

	assert.Equal(t, models.StatusRejected, rejected.Deposit.Status)
	assert.InDelta(t, DefaultBalance, ledger.Balance("user_001"), 1e-9)
}

func TestDepositAdminReject_NotFound(t *testing.T) {
	svc, _ := newTestDeposits(t)

	_, err := svc.AdminReject("dep_unknown", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDepositUploadProof(t *testing.T) {
	svc, _ := newTestDeposits(t)

	res, err := svc.Submit(DepositRequest{
		UserID:          "user_001",
		Amount:          1000,
		Currency:        "USD",
		PaymentMethodID: "crypto",
	})
	require.NoError(t, err)

	d, filename, err := svc.UploadProof(res.Deposit.ID)
	require.NoError(t, err)

	assert.Equal(t, models.StatusProcessing, d.Status)
	assert.Equal(t, filename, d.PaymentProof)
	assert.Contains(t, filename, res.Deposit.ID)
}

func TestDepositHistory_Summary(t *testing.T) {
	svc, _ := newTestDeposits(t)

	first, err := svc.Submit(DepositRequest{
		UserID: "user_001", Amount: 1000, Currency: "USD", PaymentMethodID: "bank_transfer",
	})
	require.NoError(t, err)

	_, err = svc.Submit(DepositRequest{
		UserID: "user_001", Amount: 500, Currency: "USD", PaymentMethodID: "crypto",
	})
	require.NoError(t, err)

	_, err = svc.AdminApprove(first.Deposit.ID, "")
	require.NoError(t, err)

	h := svc.History("user_001")
	assert.Equal(t, 2, h.TotalDeposits)
	assert.InDelta(t, 1500.0, h.TotalAmount, 1e-9)
	assert.Equal(t, 1, h.CompletedDeposits)
}

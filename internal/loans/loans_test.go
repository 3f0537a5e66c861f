package loans

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(1, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestProducts(t *testing.T) {
	svc := newTestService(t)

	products := svc.Products()
	require.Len(t, products, 3)
	assert.Equal(t, "quick_loan", products[0].ID)
	assert.Equal(t, "trading_loan", products[1].ID)
	assert.Equal(t, "investment_loan", products[2].ID)
}

func TestApply(t *testing.T) {
	svc := newTestService(t)

	app, product, err := svc.Apply(ApplyRequest{
		UserID:        "user_001",
		UserName:      "John Doe",
		LoanProductID: "trading_loan",
		Amount:        10000,
		Purpose:       "expand trading capital",
	})
	require.NoError(t, err)

	assert.Equal(t, "Trading Capital Loan", app.LoanProductName)
	assert.Equal(t, "48 hours", product.ProcessingTime)
	assert.InDelta(t, 700.0, app.InterestAmount, 1e-9)
	assert.InDelta(t, 10700.0, app.TotalRepayment, 1e-9)
	assert.Equal(t, "pending", app.Status)
	assert.Equal(t, "medium", app.RiskLevel)
	assert.GreaterOrEqual(t, app.CreditScore, 500)
	assert.Less(t, app.CreditScore, 800)
}

func TestApply_UnknownProduct(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.Apply(ApplyRequest{LoanProductID: "payday_loan", Amount: 500})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestApply_AmountOutOfRange(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name   string
		amount float64
	}{
		{"below minimum", 50},
		{"above maximum", 6000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Apply(ApplyRequest{LoanProductID: "quick_loan", Amount: tt.amount})

			var rangeErr *AmountRangeError
			require.True(t, errors.As(err, &rangeErr))
			assert.Equal(t, "Loan amount must be between $100 and $5000", rangeErr.Error())
		})
	}
}

func TestRiskLevel(t *testing.T) {
	svc := newTestService(t)

	app, _, err := svc.Apply(ApplyRequest{LoanProductID: "investment_loan", Amount: 50000, Purpose: "portfolio"})
	require.NoError(t, err)
	assert.Equal(t, "high", app.RiskLevel)

	app, _, err = svc.Apply(ApplyRequest{LoanProductID: "quick_loan", Amount: 500, Purpose: "urgent"})
	require.NoError(t, err)
	assert.Equal(t, "low", app.RiskLevel)
}

func TestReview(t *testing.T) {
	svc := newTestService(t)

	app, _, err := svc.Apply(ApplyRequest{
		UserID:        "user_001",
		LoanProductID: "quick_loan",
		Amount:        1000,
		Purpose:       "test",
	})
	require.NoError(t, err)

	reviewed, err := svc.Review(app.ID, "approved", "looks good", "admin", "bank_transfer")
	require.NoError(t, err)

	assert.Equal(t, "approved", reviewed.Status)
	assert.Equal(t, "looks good", reviewed.AdminNotes)
	assert.Equal(t, "admin", reviewed.ReviewedBy)
	assert.Equal(t, "bank_transfer", reviewed.DisbursementMethod)
	require.NotNil(t, reviewed.ApprovedAt)
	require.NotNil(t, reviewed.ReviewedAt)

	// Заявка больше не pending
	assert.Empty(t, svc.Pending())
}

func TestReview_InvalidDecision(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Review("loan_1", "maybe", "", "admin", "")
	assert.ErrorIs(t, err, ErrInvalidDecision)
}

func TestReview_NotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Review("loan_missing", "approved", "", "admin", "")
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}

func TestUserLoans(t *testing.T) {
	svc := newTestService(t)

	first, _, err := svc.Apply(ApplyRequest{UserID: "user_001", LoanProductID: "quick_loan", Amount: 1000, Purpose: "a"})
	require.NoError(t, err)
	_, _, err = svc.Apply(ApplyRequest{UserID: "user_001", LoanProductID: "trading_loan", Amount: 2000, Purpose: "b"})
	require.NoError(t, err)
	_, _, err = svc.Apply(ApplyRequest{UserID: "user_002", LoanProductID: "quick_loan", Amount: 300, Purpose: "c"})
	require.NoError(t, err)

	_, err = svc.Review(first.ID, "approved", "", "admin", "balance")
	require.NoError(t, err)

	loans := svc.UserLoans("user_001")
	assert.Equal(t, 2, loans.TotalApplications)
	assert.Equal(t, 1, loans.ActiveLoans)
	assert.Equal(t, 1, loans.PendingApplications)
}

func TestStatistics(t *testing.T) {
	svc := newTestService(t)

	first, _, err := svc.Apply(ApplyRequest{UserID: "u1", LoanProductID: "quick_loan", Amount: 1000, Purpose: "a"})
	require.NoError(t, err)
	second, _, err := svc.Apply(ApplyRequest{UserID: "u2", LoanProductID: "trading_loan", Amount: 3000, Purpose: "b"})
	require.NoError(t, err)
	_, _, err = svc.Apply(ApplyRequest{UserID: "u3", LoanProductID: "quick_loan", Amount: 2000, Purpose: "c"})
	require.NoError(t, err)

	_, err = svc.Review(first.ID, "approved", "", "admin", "balance")
	require.NoError(t, err)
	_, err = svc.Review(second.ID, "rejected", "", "admin", "")
	require.NoError(t, err)

	stats := svc.Statistics()
	assert.Equal(t, 3, stats.TotalApplications)
	assert.Equal(t, 1, stats.PendingApplications)
	assert.Equal(t, 1, stats.ApprovedLoans)
	assert.Equal(t, 1, stats.RejectedApplications)
	assert.InDelta(t, 1000.0, stats.TotalLoanAmount, 1e-9)
	assert.InDelta(t, 2000.0, stats.AverageLoanAmount, 1e-9)

	require.Len(t, stats.ProductDistribution, 3)
	assert.Equal(t, 2, stats.ProductDistribution[0].Applications)
	assert.InDelta(t, 1000.0, stats.ProductDistribution[0].TotalAmount, 1e-9)
	assert.Equal(t, 1, stats.ProductDistribution[1].Applications)
	assert.InDelta(t, 0.0, stats.ProductDistribution[1].TotalAmount, 1e-9)
}

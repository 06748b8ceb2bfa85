package service

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/domain"
)

// testRegistry has a single tier covering the whole score domain with a 50%
// LTV cap and a 10% annual rate, which keeps the arithmetic easy to verify.
func testRegistry(t *testing.T) *domain.Registry {
	t.Helper()
	r, err := domain.NewRegistry([]domain.RiskTier{
		{
			Name:     "Test",
			MinScore: 0.0,
			MaxScore: 1.0,
			BaseRate: decimal.NewFromFloat(0.1),
			MaxLTV:   decimal.NewFromFloat(0.5),
		},
	})
	require.NoError(t, err)
	return r
}

func btcPortfolio() []domain.CollateralPosition {
	return []domain.CollateralPosition{
		{Symbol: "BTC", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(50000)},
	}
}

func TestEvaluate_ApprovedAtExactLimit(t *testing.T) {
	svc := NewLoanService(testRegistry(t))

	b, err := svc.Evaluate(domain.LoanRequest{
		Portfolio:          btcPortfolio(),
		RequestedPrincipal: decimal.NewFromInt(25000),
		TermMonths:         12,
		Tier:               "Test",
	})
	require.NoError(t, err)

	assert.True(t, b.TotalCollateralValue.Equal(decimal.NewFromInt(50000)))
	assert.True(t, b.MaxBorrowable.Equal(decimal.NewFromInt(25000)))
	assert.True(t, b.Approved, "a request exactly at the limit is approved")
	assert.True(t, b.AppliedRate.Equal(decimal.NewFromFloat(0.1)))
	assert.True(t, b.TotalInterest.Equal(decimal.NewFromInt(2500)), "got %s", b.TotalInterest)
	require.NotNil(t, b.TotalRepayment)
	assert.True(t, b.TotalRepayment.Equal(decimal.NewFromInt(27500)), "got %s", b.TotalRepayment)
	assert.Empty(t, b.RejectionReason)
}

func TestEvaluate_RejectedAboveLimit(t *testing.T) {
	svc := NewLoanService(testRegistry(t))

	b, err := svc.Evaluate(domain.LoanRequest{
		Portfolio:          btcPortfolio(),
		RequestedPrincipal: decimal.NewFromInt(30000),
		TermMonths:         12,
		Tier:               "Test",
	})
	require.NoError(t, err)

	assert.False(t, b.Approved)
	assert.Nil(t, b.TotalRepayment, "repayment is absent when not approved")
	assert.Equal(t, domain.RejectionExceedsMaxBorrowable, b.RejectionReason)
}

func TestEvaluate_FractionalTermInterest(t *testing.T) {
	svc := NewLoanService(testRegistry(t))

	b, err := svc.Evaluate(domain.LoanRequest{
		Portfolio:          btcPortfolio(),
		RequestedPrincipal: decimal.NewFromInt(10000),
		TermMonths:         6,
		Tier:               "Test",
	})
	require.NoError(t, err)

	// 10000 * 0.1 * 6/12 = 500
	assert.True(t, b.TotalInterest.Equal(decimal.NewFromInt(500)), "got %s", b.TotalInterest)
}

func TestEvaluate_ResolvesTierFromScore(t *testing.T) {
	svc := NewLoanService(domain.DefaultRegistry())
	score := 0.1

	b, err := svc.Evaluate(domain.LoanRequest{
		Portfolio:          btcPortfolio(),
		RequestedPrincipal: decimal.NewFromInt(1000),
		TermMonths:         12,
		RiskScore:          &score,
	})
	require.NoError(t, err)
	assert.Equal(t, "Tier 1", b.TierName)
}

func TestEvaluate_PropagatesScoreError(t *testing.T) {
	svc := NewLoanService(domain.DefaultRegistry())
	score := 1.5

	_, err := svc.Evaluate(domain.LoanRequest{
		Portfolio:          btcPortfolio(),
		RequestedPrincipal: decimal.NewFromInt(1000),
		TermMonths:         12,
		RiskScore:          &score,
	})
	require.Error(t, err)

	var scoreErr *domain.InvalidScoreError
	assert.True(t, errors.As(err, &scoreErr))
}

func TestEvaluate_UnknownTier(t *testing.T) {
	svc := NewLoanService(testRegistry(t))

	_, err := svc.Evaluate(domain.LoanRequest{
		Portfolio:          btcPortfolio(),
		RequestedPrincipal: decimal.NewFromInt(1000),
		TermMonths:         12,
		Tier:               "Tier 42",
	})
	require.Error(t, err)

	var unknownErr *domain.UnknownTierError
	assert.True(t, errors.As(err, &unknownErr))
}

func TestEvaluate_ZeroCollateralIsWellDefined(t *testing.T) {
	svc := NewLoanService(testRegistry(t))

	b, err := svc.Evaluate(domain.LoanRequest{
		Portfolio: []domain.CollateralPosition{
			{Symbol: "RUG", Quantity: decimal.NewFromInt(100), UnitPrice: decimal.Zero},
		},
		RequestedPrincipal: decimal.NewFromInt(1000),
		TermMonths:         12,
		Tier:               "Test",
	})
	require.NoError(t, err, "all-zero prices are degenerate, not an error")

	assert.True(t, b.TotalCollateralValue.IsZero())
	assert.True(t, b.MaxBorrowable.IsZero())
	assert.False(t, b.Approved)
}

func TestEvaluate_ValidationNamesOffendingField(t *testing.T) {
	svc := NewLoanService(testRegistry(t))

	base := func() domain.LoanRequest {
		return domain.LoanRequest{
			Portfolio: []domain.CollateralPosition{
				{Symbol: "BTC", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(50000)},
				{Symbol: "ETH", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(3000)},
			},
			RequestedPrincipal: decimal.NewFromInt(1000),
			TermMonths:         12,
			Tier:               "Test",
		}
	}

	tests := []struct {
		name      string
		mutate    func(*domain.LoanRequest)
		wantField string
	}{
		{"empty portfolio", func(r *domain.LoanRequest) {
			r.Portfolio = nil
		}, "portfolio"},
		{"zero quantity", func(r *domain.LoanRequest) {
			r.Portfolio[1].Quantity = decimal.Zero
		}, "portfolio[1].quantity"},
		{"negative price", func(r *domain.LoanRequest) {
			r.Portfolio[0].UnitPrice = decimal.NewFromInt(-5)
		}, "portfolio[0].unit_price"},
		{"empty symbol", func(r *domain.LoanRequest) {
			r.Portfolio[0].Symbol = ""
		}, "portfolio[0].symbol"},
		{"zero principal", func(r *domain.LoanRequest) {
			r.RequestedPrincipal = decimal.Zero
		}, "requested_principal"},
		{"zero term", func(r *domain.LoanRequest) {
			r.TermMonths = 0
		}, "term_months"},
		{"term above maximum", func(r *domain.LoanRequest) {
			r.TermMonths = MaxTermMonths + 1
		}, "term_months"},
		{"no tier and no score", func(r *domain.LoanRequest) {
			r.Tier = ""
			r.RiskScore = nil
		}, "tier"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base()
			tt.mutate(&req)

			_, err := svc.Evaluate(req)
			require.Error(t, err)

			var reqErr *domain.InvalidLoanRequestError
			require.True(t, errors.As(err, &reqErr), "expected InvalidLoanRequestError, got %T", err)
			assert.Equal(t, tt.wantField, reqErr.Field)
		})
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	svc := NewLoanService(testRegistry(t))
	req := domain.LoanRequest{
		Portfolio: []domain.CollateralPosition{
			{Symbol: "BTC", Quantity: decimal.NewFromFloat(0.7), UnitPrice: decimal.NewFromFloat(49123.45)},
			{Symbol: "ETH", Quantity: decimal.NewFromFloat(12.3), UnitPrice: decimal.NewFromFloat(3141.59)},
		},
		RequestedPrincipal: decimal.NewFromInt(20000),
		TermMonths:         18,
		Tier:               "Test",
	}

	first, err := svc.Evaluate(req)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := svc.Evaluate(req)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestEvaluate_MaxBorrowableMonotoneInCollateral(t *testing.T) {
	svc := NewLoanService(testRegistry(t))

	prev := decimal.NewFromInt(-1)
	for qty := 1; qty <= 10; qty++ {
		b, err := svc.Evaluate(domain.LoanRequest{
			Portfolio: []domain.CollateralPosition{
				{Symbol: "BTC", Quantity: decimal.NewFromInt(int64(qty)), UnitPrice: decimal.NewFromInt(10000)},
			},
			RequestedPrincipal: decimal.NewFromInt(100),
			TermMonths:         12,
			Tier:               "Test",
		})
		require.NoError(t, err)
		assert.True(t, b.MaxBorrowable.GreaterThanOrEqual(prev),
			"max borrowable decreased when collateral grew")
		prev = b.MaxBorrowable
	}
}

func TestEvaluate_DoesNotMutateRequest(t *testing.T) {
	svc := NewLoanService(testRegistry(t))

	portfolio := btcPortfolio()
	req := domain.LoanRequest{
		Portfolio:          portfolio,
		RequestedPrincipal: decimal.NewFromInt(25000),
		TermMonths:         12,
		Tier:               "Test",
	}

	_, err := svc.Evaluate(req)
	require.NoError(t, err)

	assert.True(t, portfolio[0].Quantity.Equal(decimal.NewFromInt(1)))
	assert.True(t, portfolio[0].UnitPrice.Equal(decimal.NewFromInt(50000)))
	assert.Equal(t, "Test", req.Tier)
}

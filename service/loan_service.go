package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/domain"
)

var monthsPerYear = decimal.NewFromInt(MonthsPerYear)

// LoanService is the loan calculation engine: deterministic arithmetic over a
// resolved risk tier and a collateral portfolio. No I/O, no hidden state; a
// single instance is safe for concurrent use.
type LoanService struct {
	registry *domain.Registry
}

// NewLoanService creates a new LoanService backed by the given tier registry.
func NewLoanService(registry *domain.Registry) *LoanService {
	return &LoanService{registry: registry}
}

// ClassifyRisk resolves a volatility score to its tier.
func (s *LoanService) ClassifyRisk(score float64) (domain.RiskTier, error) {
	return s.registry.Classify(score)
}

// Registry exposes the tier catalog backing this engine.
func (s *LoanService) Registry() *domain.Registry {
	return s.registry
}

// Evaluate turns a LoanRequest into a LoanBreakdown. The input is never
// mutated. Errors carry the offending field so the serving layer can build a
// user-facing message.
func (s *LoanService) Evaluate(req domain.LoanRequest) (domain.LoanBreakdown, error) {
	if err := validateRequest(req); err != nil {
		return domain.LoanBreakdown{}, err
	}

	tier, err := s.resolveTier(req)
	if err != nil {
		return domain.LoanBreakdown{}, err
	}

	totalCollateral := decimal.Zero
	for _, pos := range req.Portfolio {
		totalCollateral = totalCollateral.Add(pos.Value())
	}

	maxBorrowable := totalCollateral.Mul(tier.MaxLTV)

	// Inclusive boundary: a request exactly at the limit is approved.
	approved := req.RequestedPrincipal.LessThanOrEqual(maxBorrowable)

	// Simple (non-compounding) interest over a fractional year.
	totalInterest := req.RequestedPrincipal.
		Mul(tier.BaseRate).
		Mul(decimal.NewFromInt(int64(req.TermMonths))).
		Div(monthsPerYear)

	breakdown := domain.LoanBreakdown{
		TierName:             tier.Name,
		TotalCollateralValue: totalCollateral,
		MaxBorrowable:        maxBorrowable,
		Approved:             approved,
		AppliedRate:          tier.BaseRate,
		TotalInterest:        totalInterest,
	}

	if approved {
		repayment := req.RequestedPrincipal.Add(totalInterest)
		breakdown.TotalRepayment = &repayment
	} else {
		breakdown.RejectionReason = domain.RejectionExceedsMaxBorrowable
	}

	return breakdown, nil
}

func validateRequest(req domain.LoanRequest) error {
	if len(req.Portfolio) == 0 {
		return &domain.InvalidLoanRequestError{
			Field:  "portfolio",
			Reason: "must not be empty",
		}
	}
	if len(req.Portfolio) > MaxPortfolioPositions {
		return &domain.InvalidLoanRequestError{
			Field:  "portfolio",
			Value:  fmt.Sprintf("%d positions", len(req.Portfolio)),
			Reason: fmt.Sprintf("exceeds maximum of %d positions", MaxPortfolioPositions),
		}
	}
	for i, pos := range req.Portfolio {
		if pos.Symbol == "" {
			return &domain.InvalidLoanRequestError{
				Field:  fmt.Sprintf("portfolio[%d].symbol", i),
				Reason: "must not be empty",
			}
		}
		if !pos.Quantity.IsPositive() {
			return &domain.InvalidLoanRequestError{
				Field:  fmt.Sprintf("portfolio[%d].quantity", i),
				Value:  pos.Quantity.String(),
				Reason: "must be positive",
			}
		}
		if pos.UnitPrice.IsNegative() {
			return &domain.InvalidLoanRequestError{
				Field:  fmt.Sprintf("portfolio[%d].unit_price", i),
				Value:  pos.UnitPrice.String(),
				Reason: "must not be negative",
			}
		}
	}
	if !req.RequestedPrincipal.IsPositive() {
		return &domain.InvalidLoanRequestError{
			Field:  "requested_principal",
			Value:  req.RequestedPrincipal.String(),
			Reason: "must be positive",
		}
	}
	if req.TermMonths < MinTermMonths {
		return &domain.InvalidLoanRequestError{
			Field:  "term_months",
			Value:  fmt.Sprintf("%d", req.TermMonths),
			Reason: "must be positive",
		}
	}
	if req.TermMonths > MaxTermMonths {
		return &domain.InvalidLoanRequestError{
			Field:  "term_months",
			Value:  fmt.Sprintf("%d", req.TermMonths),
			Reason: fmt.Sprintf("exceeds maximum of %d months", MaxTermMonths),
		}
	}
	return nil
}

// resolveTier prefers a symbolic tier name; otherwise the risk score is
// classified through the registry. Registry errors propagate unchanged.
func (s *LoanService) resolveTier(req domain.LoanRequest) (domain.RiskTier, error) {
	if req.Tier != "" {
		return s.registry.GetTierByName(req.Tier)
	}
	if req.RiskScore != nil {
		return s.registry.Classify(*req.RiskScore)
	}
	return domain.RiskTier{}, &domain.InvalidLoanRequestError{
		Field:  "tier",
		Reason: "either tier or risk_score is required",
	}
}

package domain

import "github.com/shopspring/decimal"

// CollateralPosition is one asset holding backing a loan.
type CollateralPosition struct {
	Symbol    string          `json:"symbol"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"` // market price, supplied by the caller
}

// Value is quantity * unit price.
func (p CollateralPosition) Value() decimal.Decimal {
	return p.Quantity.Mul(p.UnitPrice)
}

// LoanRequest is the caller's intent. The tier is resolved either from a
// symbolic Tier name or, when Tier is empty, by classifying RiskScore through
// the registry.
type LoanRequest struct {
	Portfolio          []CollateralPosition `json:"portfolio"`
	RequestedPrincipal decimal.Decimal      `json:"requested_principal"`
	TermMonths         int                  `json:"term_months"`
	Tier               string               `json:"tier,omitempty"`
	RiskScore          *float64             `json:"risk_score,omitempty"`
}

// RejectionExceedsMaxBorrowable is the reason carried by rejected breakdowns.
const RejectionExceedsMaxBorrowable = "requested principal exceeds max borrowable for tier"

// LoanBreakdown is the computed result, immutable once produced.
// TotalRepayment is nil when the loan is not approved.
type LoanBreakdown struct {
	TierName             string           `json:"tier"`
	TotalCollateralValue decimal.Decimal  `json:"total_collateral_value"`
	MaxBorrowable        decimal.Decimal  `json:"max_borrowable"`
	Approved             bool             `json:"approved"`
	AppliedRate          decimal.Decimal  `json:"applied_rate"`
	TotalInterest        decimal.Decimal  `json:"total_interest"`
	TotalRepayment       *decimal.Decimal `json:"total_repayment,omitempty"`
	RejectionReason      string           `json:"rejection_reason,omitempty"`
}

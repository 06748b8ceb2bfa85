package domain

import "github.com/shopspring/decimal"

// AssetAllocation is one asset in a rich loan calculation: a USD allocation
// plus an optional caller-forced tier.
type AssetAllocation struct {
	Symbol        string          `json:"symbol"`
	AllocationUSD decimal.Decimal `json:"allocation_usd"`
	Tier          string          `json:"tier,omitempty"` // optional override
}

// AssetBreakdown is the per-asset view used by the dashboard and the
// portfolio aggregation. Rates are fractions; money is USD.
type AssetBreakdown struct {
	Symbol            string          `json:"symbol"`
	Tier              string          `json:"tier"`
	LTV               decimal.Decimal `json:"ltv"`
	BaseRate          decimal.Decimal `json:"base_rate"`
	RiskPremium       decimal.Decimal `json:"risk_premium"`
	VolatilityPremium decimal.Decimal `json:"volatility_premium"`
	InterestRate      decimal.Decimal `json:"interest_rate"` // base + risk + vol
	CollateralUSD     decimal.Decimal `json:"collateral_usd"`
	LoanUSD           decimal.Decimal `json:"loan_usd"`
	PctChange30d      *float64        `json:"pct_change_30d,omitempty"`
}

// PortfolioSummary aggregates per-asset rows. Ratios are fractions here;
// the serving layer converts to percent for display.
type PortfolioSummary struct {
	TotalCollateral decimal.Decimal `json:"total_collateral"`
	TotalLoan       decimal.Decimal `json:"total_loan"`
	PortfolioLTV    decimal.Decimal `json:"portfolio_ltv"`
	LiquidationLTV  decimal.Decimal `json:"liquidation_ltv"`
	MarginCallLTV   decimal.Decimal `json:"margin_call_ltv"`
	InterestRate    decimal.Decimal `json:"interest_rate"` // loan-share weighted
	MonthlyEMI      decimal.Decimal `json:"monthly_emi"`
	Months          int             `json:"months"`
}

// ScheduleRow is one month of a level-payment amortization schedule.
type ScheduleRow struct {
	Month          int             `json:"month"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Payment        decimal.Decimal `json:"payment"`
	Interest       decimal.Decimal `json:"interest"`
	Principal      decimal.Decimal `json:"principal"`
	EndingBalance  decimal.Decimal `json:"ending_balance"`
}

// ScheduleBundle carries per-asset schedules, their pointwise portfolio sum,
// and the per-asset level payments.
type ScheduleBundle struct {
	Portfolio []ScheduleRow              `json:"portfolio"`
	Assets    map[string][]ScheduleRow   `json:"assets"`
	Payments  map[string]decimal.Decimal `json:"payments"`
}

// LoanProfile is the full result of a rich loan calculation.
type LoanProfile struct {
	Assets   []AssetBreakdown `json:"assets"`
	Summary  PortfolioSummary `json:"summary"`
	Schedule *ScheduleBundle  `json:"schedule,omitempty"`
}

package http

import (
	"github.com/shopspring/decimal"

	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/domain"
	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/service"
)

// Presentation-boundary rounding: money to cents, rates to basis-point
// precision. Fractions shown as percent are scaled here, nowhere else.

func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(service.MoneyScale)
}

func rate(d decimal.Decimal) decimal.Decimal {
	return d.Round(service.RateScale)
}

func percent(d decimal.Decimal) decimal.Decimal {
	return d.Mul(decimal.NewFromInt(100)).Round(service.MoneyScale)
}

type breakdownResponse struct {
	Tier                 string           `json:"tier"`
	TotalCollateralValue decimal.Decimal  `json:"total_collateral_value"`
	MaxBorrowable        decimal.Decimal  `json:"max_borrowable"`
	Approved             bool             `json:"approved"`
	AppliedRate          decimal.Decimal  `json:"applied_rate"`
	TotalInterest        decimal.Decimal  `json:"total_interest"`
	TotalRepayment       *decimal.Decimal `json:"total_repayment,omitempty"`
	RejectionReason      string           `json:"rejection_reason,omitempty"`
}

func toBreakdownResponse(b domain.LoanBreakdown) breakdownResponse {
	resp := breakdownResponse{
		Tier:                 b.TierName,
		TotalCollateralValue: money(b.TotalCollateralValue),
		MaxBorrowable:        money(b.MaxBorrowable),
		Approved:             b.Approved,
		AppliedRate:          rate(b.AppliedRate),
		TotalInterest:        money(b.TotalInterest),
		RejectionReason:      b.RejectionReason,
	}
	if b.TotalRepayment != nil {
		r := money(*b.TotalRepayment)
		resp.TotalRepayment = &r
	}
	return resp
}

type assetRowResponse struct {
	Symbol            string          `json:"symbol"`
	Tier              string          `json:"tier"`
	LTV               decimal.Decimal `json:"ltv"`
	BaseRate          decimal.Decimal `json:"base_rate"`
	RiskPremium       decimal.Decimal `json:"risk_premium"`
	VolatilityPremium decimal.Decimal `json:"volatility_premium"`
	InterestRate      decimal.Decimal `json:"interest_rate"`
	CollateralUSD     decimal.Decimal `json:"collateral_usd"`
	LoanUSD           decimal.Decimal `json:"loan_usd"`
	PctChange30d      *float64        `json:"pct_change_30d,omitempty"`
}

// summaryResponse shows LTVs and the rate as PERCENT values, matching the
// dashboard display.
type summaryResponse struct {
	TotalCollateral decimal.Decimal `json:"total_collateral"`
	TotalLoan       decimal.Decimal `json:"total_loan"`
	PortfolioLTV    decimal.Decimal `json:"portfolio_ltv"`
	LiquidationLTV  decimal.Decimal `json:"liquidation_ltv"`
	MarginCallLTV   decimal.Decimal `json:"margin_call_ltv"`
	InterestRate    decimal.Decimal `json:"interest_rate"`
	MonthlyEMI      decimal.Decimal `json:"monthly_emi"`
	Months          int             `json:"months"`
}

type profileResponse struct {
	Assets   []assetRowResponse     `json:"assets"`
	Summary  summaryResponse        `json:"summary"`
	Schedule *domain.ScheduleBundle `json:"schedule,omitempty"`
}

func toProfileResponse(p domain.LoanProfile) profileResponse {
	assets := make([]assetRowResponse, 0, len(p.Assets))
	for _, a := range p.Assets {
		assets = append(assets, assetRowResponse{
			Symbol:            a.Symbol,
			Tier:              a.Tier,
			LTV:               a.LTV,
			BaseRate:          rate(a.BaseRate),
			RiskPremium:       rate(a.RiskPremium),
			VolatilityPremium: rate(a.VolatilityPremium),
			InterestRate:      rate(a.InterestRate),
			CollateralUSD:     money(a.CollateralUSD),
			LoanUSD:           money(a.LoanUSD),
			PctChange30d:      a.PctChange30d,
		})
	}

	return profileResponse{
		Assets: assets,
		Summary: summaryResponse{
			TotalCollateral: money(p.Summary.TotalCollateral),
			TotalLoan:       money(p.Summary.TotalLoan),
			PortfolioLTV:    percent(p.Summary.PortfolioLTV),
			LiquidationLTV:  percent(p.Summary.LiquidationLTV),
			MarginCallLTV:   percent(p.Summary.MarginCallLTV),
			InterestRate:    percent(p.Summary.InterestRate),
			MonthlyEMI:      money(p.Summary.MonthlyEMI),
			Months:          p.Summary.Months,
		},
		Schedule: p.Schedule,
	}
}

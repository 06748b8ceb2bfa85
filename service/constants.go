package service

import "github.com/shopspring/decimal"

const (
	MaxPortfolioPositions = 50  // positions per request
	MaxTermMonths         = 600 // 50 years
	MinTermMonths         = 1

	MonthsPerYear = 12

	// Rounding is applied only when shaping responses, never mid-computation.
	MoneyScale = 2
	RateScale  = 4
)

var (
	// Volatility premium bands on |30d % change|.
	VolPremiumLow  = decimal.NewFromFloat(0.01)  // |30d| < 10%
	VolPremiumMid  = decimal.NewFromFloat(0.015) // 10% - <20%
	VolPremiumHigh = decimal.NewFromFloat(0.02)  // >= 20%

	// Liquidation LTV heuristic: 1.2x current weighted LTV, capped at 95%.
	LiquidationLTVFactor = decimal.NewFromFloat(1.2)
	LiquidationLTVCap    = decimal.NewFromFloat(0.95)
)

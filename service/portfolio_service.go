package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/domain"
)

// PortfolioService builds the rich loan profile: a per-asset breakdown with
// rate components, the portfolio aggregate, and amortization schedules. Tier
// assignment goes through the pluggable classifier unless the caller forces
// a tier.
type PortfolioService struct {
	registry   *domain.Registry
	classifier domain.RiskClassifier
	volatility domain.VolatilitySource
	log        zerolog.Logger
}

func NewPortfolioService(
	registry *domain.Registry,
	classifier domain.RiskClassifier,
	volatility domain.VolatilitySource,
	log zerolog.Logger,
) *PortfolioService {
	return &PortfolioService{
		registry:   registry,
		classifier: classifier,
		volatility: volatility,
		log:        log.With().Str("component", "portfolio_service").Logger(),
	}
}

// Calculate assembles the full loan profile for a set of USD allocations
// over the given term.
func (s *PortfolioService) Calculate(
	ctx context.Context,
	assets []domain.AssetAllocation,
	months int,
) (domain.LoanProfile, error) {
	if len(assets) == 0 {
		return domain.LoanProfile{}, &domain.InvalidLoanRequestError{
			Field:  "assets",
			Reason: "must not be empty",
		}
	}
	if len(assets) > MaxPortfolioPositions {
		return domain.LoanProfile{}, &domain.InvalidLoanRequestError{
			Field:  "assets",
			Value:  fmt.Sprintf("%d assets", len(assets)),
			Reason: fmt.Sprintf("exceeds maximum of %d assets", MaxPortfolioPositions),
		}
	}
	if months < MinTermMonths || months > MaxTermMonths {
		return domain.LoanProfile{}, &domain.InvalidLoanRequestError{
			Field:  "months",
			Value:  fmt.Sprintf("%d", months),
			Reason: fmt.Sprintf("must be between %d and %d", MinTermMonths, MaxTermMonths),
		}
	}

	merged, err := mergeAllocations(assets)
	if err != nil {
		return domain.LoanProfile{}, err
	}

	rows := make([]domain.AssetBreakdown, 0, len(merged))
	for _, m := range merged {
		tier, err := s.resolveTier(ctx, m.symbol, m.tier)
		if err != nil {
			return domain.LoanProfile{}, err
		}

		metrics := s.fetchMetrics(ctx, m.symbol)
		rows = append(rows, s.assetBreakdown(m.symbol, m.allocationUSD, tier, metrics))
	}

	summary := aggregate(rows, months)
	schedule := s.attachAmortization(rows, months, &summary)

	return domain.LoanProfile{
		Assets:   rows,
		Summary:  summary,
		Schedule: schedule,
	}, nil
}

type mergedAllocation struct {
	symbol        string
	allocationUSD decimal.Decimal
	tier          string
}

// mergeAllocations validates each entry and folds duplicate symbols into one
// position. The schedule maps are keyed by symbol, so duplicates must be
// merged here for the EMI, payments and schedules to agree.
func mergeAllocations(assets []domain.AssetAllocation) ([]mergedAllocation, error) {
	merged := make([]mergedAllocation, 0, len(assets))
	index := make(map[string]int, len(assets))

	for i, a := range assets {
		sym := strings.ToUpper(strings.TrimSpace(a.Symbol))
		if sym == "" {
			return nil, &domain.InvalidLoanRequestError{
				Field:  fmt.Sprintf("assets[%d].symbol", i),
				Reason: "must not be empty",
			}
		}
		if !a.AllocationUSD.IsPositive() {
			return nil, &domain.InvalidLoanRequestError{
				Field:  fmt.Sprintf("assets[%d].allocation_usd", i),
				Value:  a.AllocationUSD.String(),
				Reason: "must be positive",
			}
		}

		if at, seen := index[sym]; seen {
			if a.Tier != "" && merged[at].tier != "" && a.Tier != merged[at].tier {
				return nil, &domain.InvalidLoanRequestError{
					Field:  fmt.Sprintf("assets[%d].tier", i),
					Value:  a.Tier,
					Reason: fmt.Sprintf("conflicts with earlier tier %q for %s", merged[at].tier, sym),
				}
			}
			merged[at].allocationUSD = merged[at].allocationUSD.Add(a.AllocationUSD)
			if a.Tier != "" {
				merged[at].tier = a.Tier
			}
			continue
		}

		index[sym] = len(merged)
		merged = append(merged, mergedAllocation{
			symbol:        sym,
			allocationUSD: a.AllocationUSD,
			tier:          a.Tier,
		})
	}
	return merged, nil
}

// resolveTier honors a caller override, forces stablecoin USDT into Tier 1,
// and otherwise asks the classifier. Unknown override names fail.
func (s *PortfolioService) resolveTier(ctx context.Context, symbol, override string) (domain.RiskTier, error) {
	name := override
	switch {
	case name != "":
		// keep caller's choice
	case symbol == "USDT":
		name = "Tier 1"
	default:
		classified, _, err := s.classifier.RiskTier(ctx, symbol, map[string]any{"hint": "loan_calculate"})
		if err != nil {
			var scoreErr *domain.InvalidScoreError
			if errors.As(err, &scoreErr) {
				return domain.RiskTier{}, err
			}
			s.log.Warn().Err(err).Str("symbol", symbol).Msg("classification failed, defaulting to Tier 2")
			classified = "Tier 2"
		}
		name = classified
	}
	return s.registry.GetTierByName(name)
}

// fetchMetrics tolerates metrics failures: the breakdown still completes
// with the default volatility premium.
func (s *PortfolioService) fetchMetrics(ctx context.Context, symbol string) *domain.AssetMetrics {
	if s.volatility == nil {
		return nil
	}
	m, err := s.volatility.Metrics(ctx, symbol)
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("metrics fetch failed")
		return nil
	}
	return &m
}

// volatilityPremium is based on the absolute 30-day % change:
//
//	|30d| < 10%  -> +1.0%
//	10% - <20%   -> +1.5%
//	>= 20%       -> +2.0%
//
// Missing metrics default to +1.0%.
func volatilityPremium(metrics *domain.AssetMetrics) decimal.Decimal {
	if metrics == nil || metrics.PctChange30d == nil {
		return VolPremiumLow
	}
	ch30 := math.Abs(*metrics.PctChange30d)
	switch {
	case ch30 < 10:
		return VolPremiumLow
	case ch30 < 20:
		return VolPremiumMid
	default:
		return VolPremiumHigh
	}
}

func (s *PortfolioService) assetBreakdown(
	symbol string,
	allocationUSD decimal.Decimal,
	tier domain.RiskTier,
	metrics *domain.AssetMetrics,
) domain.AssetBreakdown {
	riskPremium := tier.BaseRate.Sub(domain.BaseRate)
	volPremium := volatilityPremium(metrics)
	totalRate := tier.BaseRate.Add(volPremium)

	var pct30 *float64
	if metrics != nil {
		pct30 = metrics.PctChange30d
	}

	return domain.AssetBreakdown{
		Symbol:            symbol,
		Tier:              tier.Name,
		LTV:               tier.MaxLTV,
		BaseRate:          domain.BaseRate,
		RiskPremium:       riskPremium,
		VolatilityPremium: volPremium,
		InterestRate:      totalRate,
		CollateralUSD:     allocationUSD,
		LoanUSD:           allocationUSD.Mul(tier.MaxLTV),
		PctChange30d:      pct30,
	}
}

// aggregate folds per-asset rows into the portfolio summary. The EMI set
// here is preliminary; attachAmortization replaces it with the sum of the
// per-asset level payments.
func aggregate(rows []domain.AssetBreakdown, months int) domain.PortfolioSummary {
	totalCollateral := decimal.Zero
	totalLoan := decimal.Zero
	for _, r := range rows {
		totalCollateral = totalCollateral.Add(r.CollateralUSD)
		totalLoan = totalLoan.Add(r.LoanUSD)
	}

	weightedLTV := decimal.Zero
	if totalCollateral.IsPositive() {
		weightedLTV = totalLoan.Div(totalCollateral)
	}

	weightedRate := decimal.Zero
	if totalLoan.IsPositive() {
		for _, r := range rows {
			weight := r.LoanUSD.Div(totalLoan)
			weightedRate = weightedRate.Add(r.InterestRate.Mul(weight))
		}
	}

	liquidationLTV := weightedLTV.Mul(LiquidationLTVFactor)
	if liquidationLTV.GreaterThan(LiquidationLTVCap) {
		liquidationLTV = LiquidationLTVCap
	}

	// Margin call sits halfway between current and liquidation LTV.
	marginCallLTV := weightedLTV.Add(liquidationLTV).Div(decimal.NewFromInt(2))

	return domain.PortfolioSummary{
		TotalCollateral: totalCollateral,
		TotalLoan:       totalLoan,
		PortfolioLTV:    weightedLTV,
		LiquidationLTV:  liquidationLTV,
		MarginCallLTV:   marginCallLTV,
		InterestRate:    weightedRate,
		MonthlyEMI:      decimal.Zero,
		Months:          months,
	}
}

// attachAmortization builds per-asset schedules, the pointwise portfolio
// schedule, and the definitive EMI (sum of per-asset level payments).
func (s *PortfolioService) attachAmortization(
	rows []domain.AssetBreakdown,
	months int,
	summary *domain.PortfolioSummary,
) *domain.ScheduleBundle {
	perAsset := make(map[string][]domain.ScheduleRow, len(rows))
	payments := make(map[string]decimal.Decimal, len(rows))
	emi := decimal.Zero

	for _, r := range rows {
		am := AmortizationSchedule(r.LoanUSD, r.InterestRate, months)
		perAsset[r.Symbol] = am.Schedule
		payments[r.Symbol] = am.Payment
		emi = emi.Add(am.Payment)
	}

	summary.MonthlyEMI = emi

	return &domain.ScheduleBundle{
		Portfolio: SumSchedules(perAsset),
		Assets:    perAsset,
		Payments:  payments,
	}
}

package domain

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// Federal base rate (6.33% as a fraction). Every tier rate is this base plus
// the tier's risk premium.
var BaseRate = decimal.NewFromFloat(0.0633)

// RiskTier is one discrete risk band: a volatility-score range mapped to an
// annualized interest rate and an LTV cap. Tiers are immutable once the
// registry is built.
type RiskTier struct {
	Name     string          `json:"name"`
	MinScore float64         `json:"min_score"` // inclusive
	MaxScore float64         `json:"max_score"` // exclusive, except the final tier which includes 1.0
	BaseRate decimal.Decimal `json:"base_rate"`
	MaxLTV   decimal.Decimal `json:"max_ltv"`
	Note     string          `json:"note,omitempty"`
}

// Contains reports whether score falls in this tier's range. The caller is
// responsible for the closed-at-1.0 rule of the final tier.
func (t RiskTier) Contains(score float64) bool {
	return score >= t.MinScore && score < t.MaxScore
}

// Registry is the authoritative partition of the volatility-score domain
// [0.0, 1.0] into named tiers. Read-only after construction, so it is safe
// for unsynchronized concurrent use.
type Registry struct {
	tiers  []RiskTier // sorted by MinScore
	byName map[string]RiskTier
}

const scoreEpsilon = 1e-9

// NewRegistry validates the tier catalog and builds a registry. The ranges
// must partition [0.0, 1.0]: contiguous, non-overlapping, full coverage.
func NewRegistry(tiers []RiskTier) (*Registry, error) {
	if len(tiers) == 0 {
		return nil, &InvalidTierConfigurationError{Reason: "tier catalog is empty"}
	}

	sorted := make([]RiskTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MinScore < sorted[j].MinScore
	})

	byName := make(map[string]RiskTier, len(sorted))
	for _, t := range sorted {
		if t.Name == "" {
			return nil, &InvalidTierConfigurationError{Reason: "tier with empty name"}
		}
		if _, dup := byName[t.Name]; dup {
			return nil, &InvalidTierConfigurationError{
				Reason: fmt.Sprintf("duplicate tier name %q", t.Name),
			}
		}
		if t.MinScore >= t.MaxScore {
			return nil, &InvalidTierConfigurationError{
				Reason: fmt.Sprintf("tier %q has empty range [%g, %g)", t.Name, t.MinScore, t.MaxScore),
			}
		}
		if t.BaseRate.IsNegative() {
			return nil, &InvalidTierConfigurationError{
				Reason: fmt.Sprintf("tier %q has negative base rate", t.Name),
			}
		}
		one := decimal.NewFromInt(1)
		if !t.MaxLTV.IsPositive() || t.MaxLTV.GreaterThan(one) {
			return nil, &InvalidTierConfigurationError{
				Reason: fmt.Sprintf("tier %q max LTV %s outside (0, 1]", t.Name, t.MaxLTV),
			}
		}
		byName[t.Name] = t
	}

	if math.Abs(sorted[0].MinScore) > scoreEpsilon {
		return nil, &InvalidTierConfigurationError{
			Reason: fmt.Sprintf("coverage starts at %g, not 0.0", sorted[0].MinScore),
		}
	}
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if math.Abs(cur.MinScore-prev.MaxScore) > scoreEpsilon {
			if cur.MinScore > prev.MaxScore {
				return nil, &InvalidTierConfigurationError{
					Reason: fmt.Sprintf("gap between %q and %q at %g", prev.Name, cur.Name, prev.MaxScore),
				}
			}
			return nil, &InvalidTierConfigurationError{
				Reason: fmt.Sprintf("overlap between %q and %q at %g", prev.Name, cur.Name, cur.MinScore),
			}
		}
	}
	if math.Abs(sorted[len(sorted)-1].MaxScore-1.0) > scoreEpsilon {
		return nil, &InvalidTierConfigurationError{
			Reason: fmt.Sprintf("coverage ends at %g, not 1.0", sorted[len(sorted)-1].MaxScore),
		}
	}

	// Snap bounds so the stored partition is exact. The epsilon above only
	// tolerates float noise in the input; Classify matches ranges exactly, so
	// a sub-epsilon gap left in place would be unclassifiable.
	sorted[0].MinScore = 0.0
	for i := 1; i < len(sorted); i++ {
		sorted[i].MinScore = sorted[i-1].MaxScore
	}
	sorted[len(sorted)-1].MaxScore = 1.0
	for _, t := range sorted {
		byName[t.Name] = t
	}

	return &Registry{tiers: sorted, byName: byName}, nil
}

// GetTierByName resolves a symbolic tier name.
func (r *Registry) GetTierByName(name string) (RiskTier, error) {
	t, ok := r.byName[name]
	if !ok {
		return RiskTier{}, &UnknownTierError{Name: name}
	}
	return t, nil
}

// Classify returns the unique tier whose range contains score. Ranges are
// half-open on the low side; the final tier also covers exactly 1.0.
func (r *Registry) Classify(score float64) (RiskTier, error) {
	if score < 0.0 || score > 1.0 || math.IsNaN(score) {
		return RiskTier{}, &InvalidScoreError{Score: score}
	}
	if score == 1.0 {
		return r.tiers[len(r.tiers)-1], nil
	}
	for _, t := range r.tiers {
		if t.Contains(score) {
			return t, nil
		}
	}
	// Unreachable once construction validation passed.
	return RiskTier{}, &InvalidScoreError{Score: score}
}

// Tiers returns the catalog ordered by ascending score range.
func (r *Registry) Tiers() []RiskTier {
	out := make([]RiskTier, len(r.tiers))
	copy(out, r.tiers)
	return out
}

// DefaultRegistry builds the standard catalog. One source of truth for LTV
// and risk premiums (fractions, e.g. 0.05 = 5%); rates are BaseRate plus the
// tier premium.
func DefaultRegistry() *Registry {
	premium := func(p float64) decimal.Decimal {
		return BaseRate.Add(decimal.NewFromFloat(p))
	}
	r, err := NewRegistry([]RiskTier{
		{
			Name:     "Tier 1",
			MinScore: 0.0,
			MaxScore: 0.25,
			BaseRate: premium(0.05),
			MaxLTV:   decimal.NewFromFloat(0.72),
			Note:     "Blue-chip, high liquidity",
		},
		{
			Name:     "Tier 1.5",
			MinScore: 0.25,
			MaxScore: 0.50,
			BaseRate: premium(0.10),
			MaxLTV:   decimal.NewFromFloat(0.65),
			Note:     "Large-cap, strong liquidity",
		},
		{
			Name:     "Tier 2",
			MinScore: 0.50,
			MaxScore: 0.75,
			BaseRate: premium(0.15),
			MaxLTV:   decimal.NewFromFloat(0.60),
			Note:     "Mid-cap, moderate liquidity",
		},
		{
			Name:     "Tier 3",
			MinScore: 0.75,
			MaxScore: 1.0,
			BaseRate: premium(0.25),
			MaxLTV:   decimal.NewFromFloat(0.55),
			Note:     "High volatility / risk",
		},
	})
	if err != nil {
		panic(err) // default catalog is a compile-time constant
	}
	return r
}

package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/domain"
)

// RuleBasedClassifier assigns tiers purely from the volatility score through
// the registry, with no model in the loop. Used when the remote classifier
// is not configured. It implements domain.RiskClassifier.
type RuleBasedClassifier struct {
	volatility domain.VolatilitySource
	registry   *domain.Registry
	log        zerolog.Logger
}

func NewRuleBasedClassifier(
	volatility domain.VolatilitySource,
	registry *domain.Registry,
	log zerolog.Logger,
) *RuleBasedClassifier {
	return &RuleBasedClassifier{
		volatility: volatility,
		registry:   registry,
		log:        log.With().Str("component", "rule_classifier").Logger(),
	}
}

// RiskTier classifies symbol from its volatility score alone. A symbol with
// no usable score lands in "Tier 2" with low confidence; an out-of-range
// score from the metrics source propagates as *InvalidScoreError.
func (c *RuleBasedClassifier) RiskTier(ctx context.Context, symbol string, reqContext map[string]any) (string, float64, error) {
	var score *float64
	if c.volatility != nil {
		m, err := c.volatility.Metrics(ctx, symbol)
		if err != nil {
			var scoreErr *domain.InvalidScoreError
			if errors.As(err, &scoreErr) {
				return "", 0, err
			}
			c.log.Warn().Err(err).Str("symbol", symbol).Msg("metrics fetch failed")
		} else {
			score = m.VolatilityScore
		}
	}
	if score == nil {
		if v, ok := reqContext["volatility_score"].(float64); ok {
			score = &v
		}
	}
	if score == nil {
		return "Tier 2", 0.5, nil
	}

	tier, err := c.registry.Classify(*score)
	if err != nil {
		return "", 0, err
	}
	return tier.Name, 0.6, nil
}

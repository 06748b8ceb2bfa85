package domain

import "context"

// AssetMetrics is the volatility payload served for one symbol by the
// external metrics API.
type AssetMetrics struct {
	Symbol          string   `json:"symbol"`
	Name            string   `json:"name,omitempty"`
	PctChange30d    *float64 `json:"pct_change_30d,omitempty"`
	PctChange90d    *float64 `json:"pct_change_90d,omitempty"`
	VolatilityScore *float64 `json:"volatility_score,omitempty"`
	ComputedAt      string   `json:"computed_at,omitempty"`
}

// VolatilitySource yields volatility metrics for a symbol. Implementations
// must surface a volatility score outside [0.0, 1.0] as *InvalidScoreError.
type VolatilitySource interface {
	Metrics(ctx context.Context, symbol string) (AssetMetrics, error)
}

// RiskClassifier assigns a risk tier name to a symbol given contextual data.
// The backing model is interchangeable: remote LLM, rule-based heuristic, or
// a test stub. Confidence is in [0, 1].
type RiskClassifier interface {
	RiskTier(ctx context.Context, symbol string, context map[string]any) (tier string, confidence float64, err error)
}

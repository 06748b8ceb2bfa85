package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/domain"
)

// AIService classifies an asset into a risk tier with an LLM. The tier is
// decided only from the volatility score (pulled from the metrics API) and
// the model's own priors about the asset's market value. When the model is
// disabled or fails, classification falls back to the volatility-only rules.
// It implements domain.RiskClassifier.
type AIService struct {
	apiKey     string
	apiURL     string
	model      string
	enabled    bool
	httpClient *http.Client
	volatility domain.VolatilitySource
	registry   *domain.Registry
	log        zerolog.Logger
}

// AIServiceConfig configures the remote classifier. An empty APIKey disables
// the remote model entirely.
type AIServiceConfig struct {
	APIKey string
	APIURL string // defaults to the OpenAI chat completions endpoint
	Model  string
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
}

// NewAIService creates the classifier. volatility supplies the score fed to
// the model; registry backs the rule-based fallback.
func NewAIService(
	cfg AIServiceConfig,
	volatility domain.VolatilitySource,
	registry *domain.Registry,
	log zerolog.Logger,
) *AIService {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = "https://api.openai.com/v1/chat/completions"
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &AIService{
		apiKey:  cfg.APIKey,
		apiURL:  apiURL,
		model:   model,
		enabled: cfg.APIKey != "",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		volatility: volatility,
		registry:   registry,
		log:        log.With().Str("component", "ai_service").Logger(),
	}
}

// RiskTier classifies symbol into a tier name with a confidence in [0, 1].
// An out-of-range volatility score from the metrics source is a caller-facing
// error, not a reason to fall back.
func (s *AIService) RiskTier(ctx context.Context, symbol string, reqContext map[string]any) (string, float64, error) {
	score, err := s.volatilityScore(ctx, symbol, reqContext)
	if err != nil {
		return "", 0, err
	}

	if !s.enabled || score == nil {
		if score == nil {
			s.log.Warn().Str("symbol", symbol).Msg("missing volatility score, using heuristic fallback")
		}
		return s.heuristicFromVol(score)
	}

	tier, confidence, err := s.callModel(ctx, symbol, *score)
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("model classification failed, using heuristic fallback")
		return s.heuristicFromVol(score)
	}

	// Never trust an out-of-catalog answer from the model.
	if _, err := s.registry.GetTierByName(tier); err != nil {
		s.log.Warn().Str("symbol", symbol).Str("tier", tier).Msg("model returned unknown tier, using heuristic fallback")
		return s.heuristicFromVol(score)
	}

	return tier, confidence, nil
}

// volatilityScore pulls the score from the metrics API first, then allows a
// caller-provided fallback in the context map. The only error it returns is
// *InvalidScoreError; other metrics failures degrade to a missing score.
func (s *AIService) volatilityScore(ctx context.Context, symbol string, reqContext map[string]any) (*float64, error) {
	if s.volatility != nil {
		m, err := s.volatility.Metrics(ctx, symbol)
		if err != nil {
			var scoreErr *domain.InvalidScoreError
			if errors.As(err, &scoreErr) {
				return nil, err
			}
			s.log.Warn().Err(err).Str("symbol", symbol).Msg("metrics fetch failed")
		} else if m.VolatilityScore != nil {
			return m.VolatilityScore, nil
		}
	}

	for _, key := range []string{"volatility_score", "volatility"} {
		if v, ok := reqContext[key]; ok {
			switch n := v.(type) {
			case float64:
				return &n, nil
			case int:
				f := float64(n)
				return &f, nil
			}
		}
	}
	return nil, nil
}

// heuristicFromVol classifies from the volatility score alone via the tier
// registry. Used whenever the model or its inputs fail.
func (s *AIService) heuristicFromVol(score *float64) (string, float64, error) {
	if score == nil {
		return "Tier 2", 0.5, nil
	}
	tier, err := s.registry.Classify(*score)
	if err != nil {
		return "", 0, err
	}
	return tier.Name, 0.6, nil
}

func (s *AIService) callModel(ctx context.Context, symbol string, score float64) (string, float64, error) {
	tierNames := make([]string, 0)
	for _, t := range s.registry.Tiers() {
		tierNames = append(tierNames, fmt.Sprintf("%q", t.Name))
	}

	// The model must use its internal priors for market value; we only
	// provide the volatility score.
	prompt := fmt.Sprintf(`You are a crypto risk officer. Classify the asset into one of exactly:
[%s].

You MUST ONLY consider:
1) volatility_score (provided below; lower = safer)
2) the asset's market value / market capitalization (use your internal priors for this asset).

Return STRICT JSON with keys: "tier" and "score" (0..1 confidence). No extra text.

Input:
symbol: %s
volatility_score: %g`, strings.Join(tierNames, ","), symbol, score)

	reqBody := openAIRequest{
		Model: s.model,
		Messages: []openAIMessage{
			{
				Role:    "system",
				Content: "Reply with strict JSON only. Keys: tier, score.",
			},
			{
				Role:    "user",
				Content: prompt,
			},
		},
		MaxTokens:   100,
		Temperature: 0.2,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", 0, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var aiResp openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&aiResp); err != nil {
		return "", 0, err
	}
	if len(aiResp.Choices) == 0 {
		return "", 0, fmt.Errorf("no response from AI")
	}

	var result struct {
		Tier  string  `json:"tier"`
		Score float64 `json:"score"`
	}
	content := strings.TrimSpace(aiResp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return "", 0, fmt.Errorf("model reply is not strict JSON: %w", err)
	}
	if result.Tier == "" {
		return "", 0, fmt.Errorf("model reply missing tier")
	}
	return result.Tier, result.Score, nil
}

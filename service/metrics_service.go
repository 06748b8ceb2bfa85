package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/domain"
	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/repository"
)

// MetricsService fetches volatility metrics from the external metrics API
// (GET {base}/metrics/{SYMBOL}) and caches responses. It implements
// domain.VolatilitySource.
type MetricsService struct {
	baseURL    string
	httpClient *http.Client
	cache      repository.CacheRepository
	cacheTTL   time.Duration
	log        zerolog.Logger
}

// NewMetricsService creates a metrics client. cache may not be nil; pass a
// MemoryCache when redis is not configured.
func NewMetricsService(
	baseURL string,
	cache repository.CacheRepository,
	cacheTTL time.Duration,
	log zerolog.Logger,
) *MetricsService {
	return &MetricsService{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log.With().Str("component", "metrics_service").Logger(),
	}
}

// Metrics returns the latest metrics for symbol, serving from cache when
// fresh. A volatility score outside [0.0, 1.0] is an *InvalidScoreError.
func (s *MetricsService) Metrics(ctx context.Context, symbol string) (domain.AssetMetrics, error) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	if sym == "" {
		return domain.AssetMetrics{}, fmt.Errorf("symbol is required")
	}

	cacheKey := "metrics:" + sym
	if cached, ok := s.cache.Get(cacheKey); ok {
		var m domain.AssetMetrics
		if err := json.Unmarshal([]byte(cached), &m); err == nil {
			return m, nil
		}
		s.log.Warn().Str("symbol", sym).Msg("discarding unreadable cached metrics")
	}

	url := fmt.Sprintf("%s/metrics/%s", s.baseURL, sym)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.AssetMetrics{}, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return domain.AssetMetrics{}, fmt.Errorf("metrics fetch for %s: %w", sym, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.AssetMetrics{}, fmt.Errorf(
			"metrics API returned %d for %s: %s", resp.StatusCode, sym, string(body))
	}

	var m domain.AssetMetrics
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return domain.AssetMetrics{}, fmt.Errorf("decoding metrics for %s: %w", sym, err)
	}
	if m.Symbol == "" {
		m.Symbol = sym
	}

	if m.VolatilityScore != nil {
		if vs := *m.VolatilityScore; vs < 0.0 || vs > 1.0 {
			return domain.AssetMetrics{}, &domain.InvalidScoreError{Score: vs}
		}
	}

	if payload, err := json.Marshal(m); err == nil {
		if err := s.cache.Set(cacheKey, string(payload), s.cacheTTL); err != nil {
			s.log.Warn().Err(err).Str("symbol", sym).Msg("failed to cache metrics")
		}
	}

	return m, nil
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/domain"
	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/repository"
)

func TestMetrics_FetchAndCache(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/metrics/BTC", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"symbol":           "BTC",
			"name":             "Bitcoin",
			"pct_change_30d":   4.2,
			"volatility_score": 0.12,
		})
	}))
	defer srv.Close()

	svc := NewMetricsService(srv.URL, repository.NewMemoryCache(), time.Minute, zerolog.Nop())

	m, err := svc.Metrics(context.Background(), "btc")
	require.NoError(t, err)
	assert.Equal(t, "BTC", m.Symbol)
	require.NotNil(t, m.VolatilityScore)
	assert.Equal(t, 0.12, *m.VolatilityScore)
	require.NotNil(t, m.PctChange30d)
	assert.Equal(t, 4.2, *m.PctChange30d)

	// Second call must be served from cache.
	again, err := svc.Metrics(context.Background(), "BTC")
	require.NoError(t, err)
	assert.Equal(t, m, again)
	assert.Equal(t, int64(1), hits.Load())
}

func TestMetrics_OutOfRangeScore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"symbol":           "XYZ",
			"volatility_score": 1.5,
		})
	}))
	defer srv.Close()

	svc := NewMetricsService(srv.URL, repository.NewMemoryCache(), time.Minute, zerolog.Nop())

	_, err := svc.Metrics(context.Background(), "XYZ")
	require.Error(t, err)

	var scoreErr *domain.InvalidScoreError
	require.True(t, errors.As(err, &scoreErr))
	assert.Equal(t, 1.5, scoreErr.Score)
}

func TestMetrics_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no metrics found", http.StatusNotFound)
	}))
	defer srv.Close()

	svc := NewMetricsService(srv.URL, repository.NewMemoryCache(), time.Minute, zerolog.Nop())

	_, err := svc.Metrics(context.Background(), "NOPE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestMetrics_EmptySymbol(t *testing.T) {
	svc := NewMetricsService("http://localhost:0", repository.NewMemoryCache(), time.Minute, zerolog.Nop())

	_, err := svc.Metrics(context.Background(), "  ")
	require.Error(t, err)
}

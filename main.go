package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/config"
	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/domain"
	httpLayer "github.com/revanth11rs/aetherum-main-loan-agent-v2.1/http"
	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/logger"
	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/repository"
	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info", Pretty: true})
		fallback.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	registry := domain.DefaultRegistry()

	var cache repository.CacheRepository
	if cfg.RedisAddr != "" {
		cache = repository.NewRedisCache(cfg.RedisAddr)
		log.Info().Str("addr", cfg.RedisAddr).Msg("using redis metrics cache")
	} else {
		cache = repository.NewMemoryCache()
		log.Info().Msg("using in-memory metrics cache")
	}

	metricsService := service.NewMetricsService(cfg.MetricsAPIBase, cache, cfg.MetricsCacheTTL, log)

	var classifier domain.RiskClassifier
	if cfg.OpenAIAPIKey != "" {
		classifier = service.NewAIService(service.AIServiceConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.OpenAIModel,
		}, metricsService, registry, log)
		log.Info().Str("model", cfg.OpenAIModel).Msg("using AI risk classifier")
	} else {
		classifier = service.NewRuleBasedClassifier(metricsService, registry, log)
		log.Info().Msg("OPENAI_API_KEY not set, using rule-based risk classifier")
	}

	loanService := service.NewLoanService(registry)
	portfolioService := service.NewPortfolioService(registry, classifier, metricsService, log)
	evaluations := repository.NewEvaluationRepositoryMemory()

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimitPerMin, time.Minute)
	defer rateLimiter.Stop()

	router := httpLayer.NewRouter(httpLayer.RouterConfig{
		LoanHandler:      httpLayer.NewLoanHandler(loanService, evaluations, log),
		PortfolioHandler: httpLayer.NewPortfolioHandler(portfolioService, log),
		TierHandler:      httpLayer.NewTierHandler(registry, log),
		RateLimiter:      rateLimiter,
		Log:              log,
	})

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Port).Msg("loan API listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Error().Err(err).Msg("server error")
		return
	case <-quit:
		log.Info().Msg("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	log.Info().Msg("server exited")
}

package http

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/domain"
)

type TierHandler struct {
	registry *domain.Registry
	log      zerolog.Logger
}

func NewTierHandler(registry *domain.Registry, log zerolog.Logger) *TierHandler {
	return &TierHandler{
		registry: registry,
		log:      log.With().Str("component", "tier_handler").Logger(),
	}
}

// ListTiers handles GET /tiers.
func (h *TierHandler) ListTiers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.log, http.StatusOK, map[string]any{
		"tiers": h.registry.Tiers(),
	})
}

// GetTier handles GET /tiers/{name}.
func (h *TierHandler) GetTier(w http.ResponseWriter, r *http.Request) {
	// chi hands back the raw path segment; tier names contain spaces.
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		http.Error(w, "invalid tier name", http.StatusBadRequest)
		return
	}
	tier, err := h.registry.GetTierByName(name)
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, tier)
}

// ClassifyScore handles GET /risk/classify?score=0.42.
func (h *TierHandler) ClassifyScore(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("score")
	if raw == "" {
		http.Error(w, "score query parameter is required", http.StatusBadRequest)
		return
	}
	score, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		http.Error(w, "score must be a number", http.StatusBadRequest)
		return
	}

	tier, err := h.registry.Classify(score)
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, map[string]any{
		"score": score,
		"tier":  tier,
	})
}

package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/domain"
	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/service"
)

type PortfolioHandler struct {
	service *service.PortfolioService
	log     zerolog.Logger
}

func NewPortfolioHandler(service *service.PortfolioService, log zerolog.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		service: service,
		log:     log.With().Str("component", "portfolio_handler").Logger(),
	}
}

type calculateRequest struct {
	Assets []domain.AssetAllocation `json:"assets"`
	Months int                      `json:"months"`
}

// CalculateLoan handles POST /loan/calculate: USD allocations in, per-asset
// breakdown plus portfolio summary and schedules out.
func (h *PortfolioHandler) CalculateLoan(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return
	}

	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Months == 0 {
		req.Months = 6
	}

	profile, err := h.service.Calculate(r.Context(), req.Assets, req.Months)
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, toProfileResponse(profile))
}

package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/domain"
	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/repository"
	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/service"
)

type LoanHandler struct {
	service     *service.LoanService
	evaluations repository.EvaluationRepository
	log         zerolog.Logger
}

func NewLoanHandler(
	service *service.LoanService,
	evaluations repository.EvaluationRepository,
	log zerolog.Logger,
) *LoanHandler {
	return &LoanHandler{
		service:     service,
		evaluations: evaluations,
		log:         log.With().Str("component", "loan_handler").Logger(),
	}
}

// EvaluateLoan handles POST /loan/evaluate.
func (h *LoanHandler) EvaluateLoan(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return
	}

	var req domain.LoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	breakdown, err := h.service.Evaluate(req)
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}

	// The engine stays pure; recording happens here. Not critical if it fails.
	if err := h.evaluations.Save(req, breakdown); err != nil {
		h.log.Warn().Err(err).Msg("failed to save evaluation")
	}

	writeJSON(w, h.log, http.StatusOK, toBreakdownResponse(breakdown))
}

// writeDomainError maps the core error taxonomy onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, log zerolog.Logger, err error) {
	var (
		badRequest  *domain.InvalidLoanRequestError
		badScore    *domain.InvalidScoreError
		unknownTier *domain.UnknownTierError
	)
	switch {
	case errors.As(err, &badRequest), errors.As(err, &badScore):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &unknownTier):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		log.Error().Err(err).Msg("unexpected evaluation error")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// writeJSON encodes into a buffer first to avoid writing a 200 header on a
// marshalling failure.
func writeJSON(w http.ResponseWriter, log zerolog.Logger, status int, payload any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Warn().Err(err).Msg("failed to write response")
	}
}

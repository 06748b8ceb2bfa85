package repository

import "github.com/revanth11rs/aetherum-main-loan-agent-v2.1/domain"

// EvaluationRepository records evaluated loan breakdowns. The loan engine
// itself never writes here; the serving layer does, after evaluation.
type EvaluationRepository interface {
	Save(request domain.LoanRequest, breakdown domain.LoanBreakdown) error
}

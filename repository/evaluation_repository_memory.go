package repository

import (
	"sync"

	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/domain"
)

// EvaluationRecord pairs a request with the breakdown it produced.
type EvaluationRecord struct {
	Request   domain.LoanRequest
	Breakdown domain.LoanBreakdown
}

// EvaluationRepositoryMemory is an in-memory implementation of EvaluationRepository.
type EvaluationRepositoryMemory struct {
	mu   sync.Mutex
	data []EvaluationRecord
}

// NewEvaluationRepositoryMemory creates a new in-memory evaluation repository.
func NewEvaluationRepositoryMemory() *EvaluationRepositoryMemory {
	return &EvaluationRepositoryMemory{
		data: []EvaluationRecord{},
	}
}

// Save stores the evaluation in memory.
func (r *EvaluationRepositoryMemory) Save(
	request domain.LoanRequest,
	breakdown domain.LoanBreakdown,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = append(r.data, EvaluationRecord{Request: request, Breakdown: breakdown})
	return nil
}

// All returns a copy of the stored records.
func (r *EvaluationRepositoryMemory) All() []EvaluationRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EvaluationRecord, len(r.data))
	copy(out, r.data)
	return out
}

package domain

import "fmt"

// InvalidTierConfigurationError reports a broken tier catalog at registry
// construction time. It is a configuration bug, not a request error.
type InvalidTierConfigurationError struct {
	Reason string
}

func (e *InvalidTierConfigurationError) Error() string {
	return fmt.Sprintf("invalid tier configuration: %s", e.Reason)
}

// UnknownTierError reports a lookup for a tier name that is not in the catalog.
type UnknownTierError struct {
	Name string
}

func (e *UnknownTierError) Error() string {
	return fmt.Sprintf("unknown risk tier: %s", e.Name)
}

// InvalidScoreError reports a volatility score outside [0.0, 1.0].
type InvalidScoreError struct {
	Score float64
}

func (e *InvalidScoreError) Error() string {
	return fmt.Sprintf("volatility score %g outside [0.0, 1.0]", e.Score)
}

// InvalidLoanRequestError reports a malformed loan request. Field names the
// offending input, e.g. "portfolio[2].quantity".
type InvalidLoanRequestError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidLoanRequestError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid loan request: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid loan request: %s=%s: %s", e.Field, e.Value, e.Reason)
}

package domain

import (
	"errors"
	"strings"
)

var (
	// ErrDomainRuleViolation is returned when an invariant enforced at construction time is breached.
	ErrDomainRuleViolation = errors.New("domain rule violation")
	// ErrMissingArgument is returned when a required argument was not supplied.
	ErrMissingArgument = errors.New("missing argument")
	// ErrNotFound is returned when a referenced sale or item does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDivisionByZero is returned by per-unit computations on an item with zero quantity.
	ErrDivisionByZero = errors.New("division by zero")
)

// FieldError is a single violated rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult is the outcome of running a rule set.
type ValidationResult struct {
	IsValid bool         `json:"is_valid"`
	Errors  []FieldError `json:"errors"`
}

// Err converts a failed result into a *ValidationError and returns nil otherwise.
func (r ValidationResult) Err() error {
	if r.IsValid {
		return nil
	}
	return &ValidationError{Errors: r.Errors}
}

// ValidationError carries every violation found in one validation pass.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

package model

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a request that failed field validation.
	ErrValidation = errors.New("validation failed")

	// ErrModelUnavailable marks a scoring attempt made while no classifier
	// artifact is loaded.
	ErrModelUnavailable = errors.New("ml model not loaded")

	// ErrScoring marks an unexpected failure inside one of the scoring stages.
	ErrScoring = errors.New("scoring failed")

	// ErrAssessmentNotFound is returned when a recorded assessment does not exist.
	ErrAssessmentNotFound = errors.New("assessment not found")
)

// ValidationError describes a single invalid request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ModelUnavailableError carries the location the artifact was expected at.
type ModelUnavailableError struct {
	Location string
	Cause    error
}

func (e *ModelUnavailableError) Error() string {
	return fmt.Sprintf("ML model not loaded. Please ensure %s exists.", e.Location)
}

func (e *ModelUnavailableError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrModelUnavailable}
	}
	return []error{ErrModelUnavailable, e.Cause}
}

// ScoringError names the stage that failed while computing a result.
type ScoringError struct {
	Stage string
	Err   error
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *ScoringError) Unwrap() []error {
	return []error{ErrScoring, e.Err}
}

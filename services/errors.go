package services

import "errors"

// Sentinel errors returned by the service layer. Callers classify with
// errors.Is; the wrapped message carries the detail.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrGenerationFailed = errors.New("meal plan generation failed")
)

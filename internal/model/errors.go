package model

import (
	"errors"
	"fmt"
)

// Failure categories. Every error produced inside the analysis core wraps
// exactly one of these so callers can branch with errors.Is.
var (
	ErrInputInvalid       = errors.New("input invalid")
	ErrFetchFailed        = errors.New("fetch failed")
	ErrModelUnavailable   = errors.New("model unavailable")
	ErrInvalidModelOutput = errors.New("invalid model output")
	ErrDecodeFailed       = errors.New("decode failed")

	// ErrMissingEvidence is an InvalidModelOutput variant for verdicts
	// that cite nothing.
	ErrMissingEvidence = fmt.Errorf("missing evidence: %w", ErrInvalidModelOutput)
)

// Classify names the failure category of err for logs and metrics
func Classify(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInputInvalid):
		return "input_invalid"
	case errors.Is(err, ErrFetchFailed):
		return "fetch_failed"
	case errors.Is(err, ErrModelUnavailable):
		return "model_unavailable"
	case errors.Is(err, ErrInvalidModelOutput):
		return "invalid_model_output"
	case errors.Is(err, ErrDecodeFailed):
		return "decode_failed"
	default:
		return "internal"
	}
}

package types

import (
	"errors"
	"fmt"
)

// Extraction and segmentation failures.
var (
	ErrNotFound          = errors.New("input file not found")
	ErrUnsupportedFormat = errors.New("unsupported media format")
	ErrDecodeFailed      = errors.New("media decode failed")
	ErrInvalidInput      = errors.New("invalid segmenter input")
	ErrSegmentTooLarge   = errors.New("indivisible audio unit exceeds size limit")
)

// APIErrorKind classifies a failure from a remote service call so the
// orchestrator can tell fatal failures from retryable ones.
type APIErrorKind int

const (
	APIAuthFailed APIErrorKind = iota
	APIRateLimited
	APIConnectionFailed
	APIInvalidRequest
	APIServiceUnavailable
)

func (k APIErrorKind) String() string {
	switch k {
	case APIAuthFailed:
		return "authentication failed"
	case APIRateLimited:
		return "rate limited"
	case APIConnectionFailed:
		return "connection failed"
	case APIInvalidRequest:
		return "invalid request"
	case APIServiceUnavailable:
		return "service unavailable"
	default:
		return "unknown"
	}
}

// APIError is a typed failure from the transcription or summarization
// service. Status is the HTTP status when one was received, 0 otherwise.
type APIError struct {
	Service string
	Kind    APIErrorKind
	Status  int
	Msg     string
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d): %s", e.Service, e.Kind, e.Status, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Service, e.Kind, e.Msg)
}

// Retryable reports whether the failure is worth another attempt.
// Authentication and request-shape failures never are.
func (e *APIError) Retryable() bool {
	switch e.Kind {
	case APIRateLimited, APIConnectionFailed, APIServiceUnavailable:
		return true
	default:
		return false
	}
}

// APIErrorKindOf extracts the kind from err, if err wraps an APIError.
func APIErrorKindOf(err error) (APIErrorKind, bool) {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Kind, true
	}
	return 0, false
}

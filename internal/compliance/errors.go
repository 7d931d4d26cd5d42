package compliance

import (
	"errors"
	"strings"
)

// Validation errors, detected before any request is sent.
var (
	ErrNoInput          = errors.New("provide at least one input (video, caption, or script)")
	ErrEmptyCaption     = errors.New("caption is empty")
	ErrUnsupportedMedia = errors.New("provider cannot accept this media type")
)

// Configuration errors.
var (
	ErrMissingAPIKey   = errors.New("API key is not set")
	ErrUnknownProvider = errors.New("unknown provider")
)

// Service and data-format errors.
var (
	ErrQuotaExceeded     = errors.New("model quota exceeded")
	ErrMalformedResponse = errors.New("model response is not valid JSON")
	ErrInvalidResponse   = errors.New("invalid upstream response")
)

// ValidationError lists every field of a model response that failed the
// shape check. It matches ErrInvalidResponse with errors.Is.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return ErrInvalidResponse.Error() + ": " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidResponse }

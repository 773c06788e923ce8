package llm

import (
	"errors"
	"fmt"
)

// ErrNoAPIKey indicates the completion API credential is missing. Generation
// cannot proceed without it; callers should surface this immediately.
var ErrNoAPIKey = errors.New("OpenRouter API key is not configured")

// ErrNoContent indicates the provider returned a success status but no
// generated text. Kept distinct from transport failures so callers can tell
// "provider outage" apart from "provider returned nothing".
var ErrNoContent = errors.New("no content generated from API")

// APIError is a non-success response from the completion endpoint.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("completion API error: %d - %s", e.StatusCode, e.Message)
}

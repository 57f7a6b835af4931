package ai

import (
	"errors"
	"fmt"
)

// ErrEmptyContent is returned when the provider envelope parsed correctly
// but carried no assistant content (missing or whitespace only). Free-tier
// models do this when they are rate limited or unavailable.
var ErrEmptyContent = errors.New("AI model returned empty content")

// UpstreamError describes a failed exchange with an LLM provider: a
// non-2xx status, an empty body, or a body that is not the provider's
// envelope JSON. StatusCode and Body are kept for diagnostics.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode != 0:
		return fmt.Sprintf("%s API error (status %d): %v", e.Provider, e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s API error: %v", e.Provider, e.Err)
	default:
		return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Body)
	}
}

func (e *UpstreamError) Unwrap() error { return e.Err }

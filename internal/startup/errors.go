package startup

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidInput is returned when the idea is missing, blank, not text or
// too long.
var ErrInvalidInput = errors.New("invalid idea input")

// ErrFlagged is returned (wrapped in a *FlaggedError) when moderation
// rejects the idea.
var ErrFlagged = errors.New("idea rejected by content moderation")

// FlaggedError lists the moderation categories that rejected an idea.
type FlaggedError struct {
	Categories []string
}

func (e *FlaggedError) Error() string {
	if len(e.Categories) == 0 {
		return ErrFlagged.Error()
	}
	return fmt.Sprintf("%s: %s", ErrFlagged, strings.Join(e.Categories, ", "))
}

func (e *FlaggedError) Unwrap() error { return ErrFlagged }

// MalformedResponseError is returned when the model's reply cannot be
// parsed as a JSON object even after cleanup. Excerpt holds the start of
// the original content for diagnostics.
type MalformedResponseError struct {
	Err     error
	Excerpt string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("failed to parse AI response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

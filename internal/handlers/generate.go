package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"ignitia/internal/startup"
)

// maxGenerateBody bounds the /generate request body.
const maxGenerateBody = 64 << 10

// Ideas serves the stateless generation endpoint.
type Ideas struct {
	gen IdeaGenerator
}

// NewIdeas creates the Ideas handler group.
func NewIdeas(gen IdeaGenerator) *Ideas {
	return &Ideas{gen: gen}
}

// Generate handles POST /generate. The body is {"idea": string}; any other
// shape of idea is rejected with 400 before the model is called.
func (h *Ideas) Generate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Idea json.RawMessage `json:"idea"`
	}
	if err := decodeJSON(w, r, maxGenerateBody, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid idea input", "")
		return
	}
	var idea string
	if err := json.Unmarshal(body.Idea, &idea); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid idea input", "")
		return
	}

	result, err := h.gen.Generate(r.Context(), idea)
	if err != nil {
		writeGenerateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// writeGenerateError maps generation failures to HTTP responses.
func writeGenerateError(w http.ResponseWriter, err error) {
	var flagged *startup.FlaggedError
	switch {
	case errors.Is(err, startup.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "Invalid idea input", "")
	case errors.As(err, &flagged):
		writeError(w, http.StatusBadRequest, "Idea rejected by content moderation",
			strings.Join(flagged.Categories, ", "))
	default:
		slog.Error("generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate startup details", err.Error())
	}
}

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// healthTimeout bounds each dependency check.
const healthTimeout = 2 * time.Second

// Check is a named dependency check, e.g. a database ping.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// Health reports process and dependency liveness.
type Health struct {
	checks []Check
}

// NewHealth creates a Health handler running the given checks.
func NewHealth(checks ...Check) *Health {
	return &Health{checks: checks}
}

// ServeHTTP handles GET /health: 200 {"status":"ok"} or 503 naming the
// first failing dependency.
func (h *Health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	for _, c := range h.checks {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		err := c.Ping(ctx)
		cancel()
		if err != nil {
			slog.Error("health check failed", "check", c.Name, "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"failed": c.Name,
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

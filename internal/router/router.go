// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up the HTTP routes and middleware chains for the
// Ignitia API. Routes are split into public and authenticated groups.
package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"ignitia/internal/handlers"
	"ignitia/internal/middleware"
)

// Deps holds everything the router mounts. Rate limiters may be nil to
// disable limiting on that route.
type Deps struct {
	Sessions      middleware.SessionLoader
	HSTS          bool
	TrustProxy    bool // take the client IP from forwarding headers
	GenerateLimit *middleware.RateLimiter
	LoginLimit    *middleware.RateLimiter

	Ideas       *handlers.Ideas
	Generations *handlers.Generations
	Auth        *handlers.Auth
	Health      http.Handler
}

// New creates the configured Chi router with all middleware and route
// groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	if d.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders(d.HSTS))
	r.Use(middleware.LoadSession(d.Sessions))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Method(http.MethodGet, "/health", d.Health)

	// Generation does not need an account; results are saved separately.
	r.With(limit(d.GenerateLimit)).Post("/generate", d.Ideas.Generate)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", d.Auth.Signup)
		r.With(limit(d.LoginLimit)).Post("/login", d.Auth.Login)
		r.Post("/logout", d.Auth.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/me", d.Auth.Me)
			r.Post("/2fa/setup", d.Auth.TwoFASetup)
			r.Post("/2fa/enable", d.Auth.TwoFAEnable)
		})
	})

	// Owner-scoped records and exports.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Route("/generations", func(r chi.Router) {
			r.Post("/", d.Generations.Create)
			r.Get("/", d.Generations.List)
			r.Delete("/{id}", d.Generations.Delete)
			r.Get("/{id}/export/html", d.Generations.ExportHTML)
			r.Post("/{id}/publish", d.Generations.Publish)
		})

		r.Post("/export/pdf", d.Generations.ExportPDF)
		r.Post("/export/markdown", d.Generations.ExportMarkdown)
	})

	return r
}

// limit returns rl's middleware, or a pass-through when rl is nil.
func limit(rl *middleware.RateLimiter) func(http.Handler) http.Handler {
	if rl == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return rl.Middleware
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

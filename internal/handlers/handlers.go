// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the JSON HTTP handlers for Ignitia. Handlers
// are grouped by concern (ideas, generations, auth, health) and receive
// their dependencies through the handler struct. Dependencies are small
// interfaces so tests can run against in-memory fakes.
package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"ignitia/internal/models"
	"ignitia/internal/session"
)

// IdeaGenerator turns an idea into a normalized startup profile.
// *startup.Generator implements it.
type IdeaGenerator interface {
	Generate(ctx context.Context, idea string) (map[string]any, error)
}

// GenerationRepo is the owner-scoped record store. *store.GenerationStore
// implements it.
type GenerationRepo interface {
	Create(ownerID uuid.UUID, in models.GenerationInput) (*models.Generation, error)
	ListByOwner(ownerID uuid.UUID) ([]models.Generation, error)
	FindByOwner(ownerID, id uuid.UUID) (*models.Generation, error)
	DeleteByOwner(ownerID, id uuid.UUID) (bool, error)
}

// UserRepo is the account store. *store.UserStore implements it.
type UserRepo interface {
	FindByEmail(email string) (*models.User, error)
	FindByID(id uuid.UUID) (*models.User, error)
	Create(email, password, fullName string) (*models.User, error)
	SetTOTPSecret(userID uuid.UUID, secret string) error
	EnableTOTP(userID uuid.UUID) error
	CheckPassword(user *models.User, password string) bool
}

// SessionManager opens and closes sessions. *session.Store implements it.
type SessionManager interface {
	Create(ctx context.Context, w http.ResponseWriter, data *session.Data) (string, error)
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// Publisher stores landing pages in public object storage.
// *storage.Client implements it.
type Publisher interface {
	Upload(ctx context.Context, key, contentType string, body []byte) error
	Delete(ctx context.Context, key string) error
	FileURL(key string) string
}

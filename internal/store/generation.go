// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"ignitia/internal/models"
)

const generationColumns = `id, user_id, idea_input, startup_name, tagline, description,
	target_audience, key_features, color_scheme, landing_page_html, created_at`

// GenerationStore persists saved generations. Every method takes the
// owner's ID and filters on it, so one user can never read or delete
// another user's records.
type GenerationStore struct {
	db *sql.DB
}

// NewGenerationStore creates a new GenerationStore.
func NewGenerationStore(db *sql.DB) *GenerationStore {
	return &GenerationStore{db: db}
}

func scanGeneration(row interface{ Scan(...any) error }) (*models.Generation, error) {
	g := &models.Generation{}
	err := row.Scan(
		&g.ID, &g.OwnerID, &g.IdeaInput, &g.StartupName, &g.Tagline, &g.Description,
		&g.TargetAudience, &g.KeyFeatures, &g.ColorScheme, &g.LandingPageHTML, &g.CreatedAt,
	)
	return g, err
}

// Create inserts a generation for ownerID. The database assigns the ID and
// creation time.
func (s *GenerationStore) Create(ownerID uuid.UUID, in models.GenerationInput) (*models.Generation, error) {
	g, err := scanGeneration(s.db.QueryRow(`
		INSERT INTO generations (user_id, idea_input, startup_name, tagline, description,
			target_audience, key_features, color_scheme, landing_page_html)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+generationColumns,
		ownerID, in.IdeaInput, in.StartupName, in.Tagline, in.Description,
		in.TargetAudience, in.KeyFeatures, in.ColorScheme, in.LandingPageHTML,
	))
	if err != nil {
		return nil, fmt.Errorf("create generation: %w", err)
	}
	return g, nil
}

// ListByOwner returns all of ownerID's generations, newest first.
func (s *GenerationStore) ListByOwner(ownerID uuid.UUID) ([]models.Generation, error) {
	rows, err := s.db.Query(`
		SELECT `+generationColumns+`
		FROM generations WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}
	defer rows.Close()

	gens := []models.Generation{}
	for rows.Next() {
		g, err := scanGeneration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan generation: %w", err)
		}
		gens = append(gens, *g)
	}
	return gens, rows.Err()
}

// FindByOwner retrieves one generation by ID if ownerID owns it. Returns nil
// if it does not exist or belongs to someone else.
func (s *GenerationStore) FindByOwner(ownerID, id uuid.UUID) (*models.Generation, error) {
	g, err := scanGeneration(s.db.QueryRow(`
		SELECT `+generationColumns+`
		FROM generations WHERE id = $1 AND user_id = $2
	`, id, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find generation: %w", err)
	}
	return g, nil
}

// DeleteByOwner removes the generation only when both id and ownerID
// match. It reports whether a row was deleted.
func (s *GenerationStore) DeleteByOwner(ownerID, id uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM generations WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("delete generation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete generation rows: %w", err)
	}
	return n > 0, nil
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Generation is one saved AI output: the startup pitch plus its landing
// page. Records are created once, read many times and deleted once; there
// is no update path.
type Generation struct {
	ID              uuid.UUID   `json:"id"`
	OwnerID         uuid.UUID   `json:"ownerId"`
	IdeaInput       string      `json:"ideaInput"`
	StartupName     string      `json:"startupName"`
	Tagline         string      `json:"tagline"`
	Description     string      `json:"description"`
	TargetAudience  string      `json:"targetAudience"`
	KeyFeatures     KeyFeatures `json:"keyFeatures"`
	ColorScheme     ColorScheme `json:"colorScheme"`
	LandingPageHTML string      `json:"landingPageHtml"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// GenerationInput is the client-supplied part of a Generation. The store
// assigns ID and CreatedAt; the owner always comes from the session.
type GenerationInput struct {
	IdeaInput       string      `json:"ideaInput"`
	StartupName     string      `json:"startupName"`
	Tagline         string      `json:"tagline"`
	Description     string      `json:"description"`
	TargetAudience  string      `json:"targetAudience"`
	KeyFeatures     KeyFeatures `json:"keyFeatures"`
	ColorScheme     ColorScheme `json:"colorScheme"`
	LandingPageHTML string      `json:"landingPageHtml"`
}

// ColorScheme holds CSS color strings. Background and Text are optional.
type ColorScheme struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background,omitempty"`
	Text       string `json:"text,omitempty"`
}

// Value stores the scheme as a JSONB document.
func (c ColorScheme) Value() (driver.Value, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal color scheme: %w", err)
	}
	return b, nil
}

// Scan reads a JSONB document. NULL yields the zero scheme.
func (c *ColorScheme) Scan(src any) error {
	*c = ColorScheme{}
	return scanJSON(src, c)
}

// KeyFeatures is the ordered feature list of a pitch.
type KeyFeatures []string

// Value stores the list as a JSONB array. A nil list is stored as [].
func (k KeyFeatures) Value() (driver.Value, error) {
	if k == nil {
		return []byte("[]"), nil
	}
	b, err := json.Marshal([]string(k))
	if err != nil {
		return nil, fmt.Errorf("marshal key features: %w", err)
	}
	return b, nil
}

// Scan reads a JSONB array. NULL yields an empty list.
func (k *KeyFeatures) Scan(src any) error {
	*k = KeyFeatures{}
	return scanJSON(src, k)
}

// MarshalJSON never emits null so clients can iterate unconditionally.
func (k KeyFeatures) MarshalJSON() ([]byte, error) {
	if k == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(k))
}

func scanJSON(src, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("scan json: unsupported source type %T", src)
	}
}

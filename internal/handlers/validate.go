package handlers

import (
	"fmt"
	"html"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"ignitia/internal/models"
	"ignitia/internal/startup"
)

// Validation limits for saved generations and accounts.
const (
	maxStartupNameLen    = 200
	maxTaglineLen        = 300
	maxDescriptionLen    = 5_000
	maxTargetAudienceLen = 2_000
	maxFeatures          = 20
	maxFeatureLen        = 300
	maxColorLen          = 64
	maxLandingPageLen    = 500_000
	maxFullNameLen       = 200
	maxEmailLen          = 254
	minPasswordLen       = 8
	maxPasswordBytes     = 72 // bcrypt ignores anything longer
)

// strictPolicy strips every tag; plain-text fields never carry markup.
var strictPolicy = bluemonday.StrictPolicy()

// plainText removes markup from s and trims it. Entities produced by the
// sanitizer are decoded again since the result is stored as text.
func plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// sanitizeGeneration strips markup from every plain-text field. The
// landing page is stored verbatim.
func sanitizeGeneration(in models.GenerationInput) models.GenerationInput {
	out := models.GenerationInput{
		IdeaInput:      strings.TrimSpace(in.IdeaInput),
		StartupName:    plainText(in.StartupName),
		Tagline:        plainText(in.Tagline),
		Description:    plainText(in.Description),
		TargetAudience: plainText(in.TargetAudience),
		KeyFeatures:    models.KeyFeatures{},
		ColorScheme: models.ColorScheme{
			Primary:    plainText(in.ColorScheme.Primary),
			Secondary:  plainText(in.ColorScheme.Secondary),
			Accent:     plainText(in.ColorScheme.Accent),
			Background: plainText(in.ColorScheme.Background),
			Text:       plainText(in.ColorScheme.Text),
		},
		LandingPageHTML: in.LandingPageHTML,
	}
	for _, f := range in.KeyFeatures {
		if f = plainText(f); f != "" {
			out.KeyFeatures = append(out.KeyFeatures, f)
		}
	}
	return out
}

// validateGeneration checks a sanitized generation and returns the first
// problem found, or "".
func validateGeneration(in models.GenerationInput) string {
	if in.IdeaInput == "" {
		return "ideaInput is required."
	}
	if utf8.RuneCountInString(in.IdeaInput) > startup.MaxIdeaLength {
		return fmt.Sprintf("ideaInput is too long (max %d characters).", startup.MaxIdeaLength)
	}
	if in.StartupName == "" {
		return "startupName is required."
	}

	limits := []struct {
		field string
		value string
		max   int
	}{
		{"startupName", in.StartupName, maxStartupNameLen},
		{"tagline", in.Tagline, maxTaglineLen},
		{"description", in.Description, maxDescriptionLen},
		{"targetAudience", in.TargetAudience, maxTargetAudienceLen},
		{"colorScheme.primary", in.ColorScheme.Primary, maxColorLen},
		{"colorScheme.secondary", in.ColorScheme.Secondary, maxColorLen},
		{"colorScheme.accent", in.ColorScheme.Accent, maxColorLen},
		{"colorScheme.background", in.ColorScheme.Background, maxColorLen},
		{"colorScheme.text", in.ColorScheme.Text, maxColorLen},
		{"landingPageHtml", in.LandingPageHTML, maxLandingPageLen},
	}
	for _, l := range limits {
		if utf8.RuneCountInString(l.value) > l.max {
			return fmt.Sprintf("%s is too long (max %d characters).", l.field, l.max)
		}
	}

	if len(in.KeyFeatures) > maxFeatures {
		return fmt.Sprintf("keyFeatures has too many entries (max %d).", maxFeatures)
	}
	for _, f := range in.KeyFeatures {
		if utf8.RuneCountInString(f) > maxFeatureLen {
			return fmt.Sprintf("keyFeatures entries are too long (max %d characters).", maxFeatureLen)
		}
	}
	return ""
}

// normalizeEmail lowercases and trims an address for lookup and storage.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateSignup checks account fields and returns the first problem found.
func validateSignup(email, password, fullName string) string {
	if email == "" {
		return "Email is required."
	}
	if len(email) > maxEmailLen {
		return "Email is too long."
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return "Email is not valid."
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return fmt.Sprintf("Password must be at least %d characters.", minPasswordLen)
	}
	if len(password) > maxPasswordBytes {
		return fmt.Sprintf("Password is too long (max %d bytes).", maxPasswordBytes)
	}
	if utf8.RuneCountInString(fullName) > maxFullNameLen {
		return fmt.Sprintf("Full name is too long (max %d characters).", maxFullNameLen)
	}
	return ""
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package startup turns a free-text startup idea into a structured startup
// profile and landing page: it builds the prompt, calls the active LLM
// provider and normalizes the model's reply into a JSON object.
package startup

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxIdeaLength is the longest idea, in characters, accepted for generation.
const MaxIdeaLength = 2000

// Fields lists the keys the model is asked to return, in prompt order.
var Fields = []string{
	"startupName",
	"tagline",
	"description",
	"targetAudience",
	"keyFeatures",
	"colorScheme",
	"landingPageHtml",
}

// promptTemplate is filled with the idea, embedded verbatim.
const promptTemplate = `Create a professional startup landing page for: "%s"

Return ONLY valid JSON (no markdown, no code blocks):
{
  "startupName": "Name",
  "tagline": "Tagline",
  "description": "Description",
  "targetAudience": "Audience",
  "keyFeatures": ["feature1", "feature2", "feature3", "feature4", "feature5"],
  "colorScheme": {"primary": "#3b82f6", "secondary": "#1f2937", "accent": "#ef4444"},
  "landingPageHtml": "Complete HTML"
}

colorScheme may also include optional "background" and "text" colors.

For landingPageHtml, generate complete, valid HTML5 with:

1. Full structure: <!DOCTYPE html><html><head>...</head><body>...</body></html>
2. Responsive navbar with mobile hamburger menu that toggles dropdown
3. Hero section with headline, description, and CTA buttons
4. Features section with 6 cards in grid layout
5. How it works section with 4 numbered steps
6. Pricing section with 3 pricing tiers
7. Contact/CTA section
8. Footer with links

Design requirements:
- Use the provided color scheme (primary, secondary, accent)
- Clean, minimal design with proper spacing
- Responsive: works on mobile, tablet, desktop
- Smooth scroll navigation when clicking navbar links
- Mobile menu dropdown with smooth animation
- All sections have proper IDs for linking
- Professional typography and spacing
- Subtle shadows and hover effects
- All content is visible and readable

Include complete CSS in <style> tag and JavaScript in <script> tag for:
- Mobile menu toggle functionality
- Smooth scroll to sections
- Responsive design

Return ONLY the JSON object.`

// ValidateIdea checks that idea is non-blank text within MaxIdeaLength.
func ValidateIdea(idea string) error {
	if strings.TrimSpace(idea) == "" {
		return ErrInvalidInput
	}
	if !utf8.ValidString(idea) {
		return fmt.Errorf("%w: idea is not valid UTF-8 text", ErrInvalidInput)
	}
	if n := utf8.RuneCountInString(idea); n > MaxIdeaLength {
		return fmt.Errorf("%w: idea is %d characters, maximum is %d", ErrInvalidInput, n, MaxIdeaLength)
	}
	return nil
}

// BuildPrompt returns the single user prompt for idea.
func BuildPrompt(idea string) (string, error) {
	if err := ValidateIdea(idea); err != nil {
		return "", err
	}
	return fmt.Sprintf(promptTemplate, idea), nil
}

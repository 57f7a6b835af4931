// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"
)

const moderationTimeout = 15 * time.Second

// ModerationResult contains the outcome of an idea safety check.
type ModerationResult struct {
	Safe       bool     // true if the text passes moderation
	Categories []string // flagged category names, sorted (empty when safe)
}

// Moderator checks user ideas for policy violations before they are sent
// to a generation provider.
type Moderator interface {
	// CheckSafety evaluates text and returns whether it is safe to send to
	// an AI provider. If not safe, Categories lists the reasons.
	CheckSafety(ctx context.Context, text string) (*ModerationResult, error)
}

type moderationRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type moderationResponse struct {
	Results []struct {
		Flagged    *bool           `json:"flagged"`
		Categories map[string]bool `json:"categories"`
	} `json:"results"`
}

// --- OpenAI Moderation (free endpoint) ---

// openAIModerator uses the OpenAI Moderation API (POST /v1/moderations).
type openAIModerator struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func newOpenAIModerator(apiKey, baseURL string) *openAIModerator {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &openAIModerator{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: moderationTimeout},
	}
}

func (m *openAIModerator) CheckSafety(ctx context.Context, text string) (*ModerationResult, error) {
	return checkModeration(ctx, m.client, "openai moderation", m.baseURL+"/moderations", m.apiKey,
		moderationRequest{Model: "omni-moderation-latest", Input: text})
}

// --- Mistral Moderation (paid, fallback) ---

// mistralModerator uses the Mistral Moderation API (POST /v1/moderations).
// Mistral reports no top-level flag, so any flagged category counts.
type mistralModerator struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// newMistralModerator accepts the API root with or without the /v1 suffix
// so it can share the chat provider's base URL.
func newMistralModerator(apiKey, baseURL string) *mistralModerator {
	if baseURL == "" {
		baseURL = "https://api.mistral.ai"
	}
	baseURL = strings.TrimSuffix(strings.TrimRight(baseURL, "/"), "/v1")
	return &mistralModerator{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: moderationTimeout},
	}
}

func (m *mistralModerator) CheckSafety(ctx context.Context, text string) (*ModerationResult, error) {
	return checkModeration(ctx, m.client, "mistral moderation", m.baseURL+"/v1/moderations", m.apiKey,
		moderationRequest{Model: "mistral-moderation-latest", Input: text})
}

// checkModeration posts to an OpenAI-compatible moderation endpoint and
// folds the first result into a ModerationResult.
func checkModeration(ctx context.Context, client *http.Client, name, url, apiKey string, body moderationRequest) (*ModerationResult, error) {
	headers := map[string]string{"Authorization": "Bearer " + apiKey}
	respBody, err := postJSON(ctx, client, name, url, headers, body)
	if err != nil {
		return nil, err
	}

	var result moderationResponse
	if err := decodeEnvelope(name, respBody, &result); err != nil {
		return nil, err
	}
	if len(result.Results) == 0 {
		return &ModerationResult{Safe: true}, nil
	}

	r := result.Results[0]
	var flagged []string
	for cat, isFlagged := range r.Categories {
		if isFlagged {
			flagged = append(flagged, categoryLabel(cat))
		}
	}
	sort.Strings(flagged)

	safe := len(flagged) == 0
	if r.Flagged != nil {
		safe = !*r.Flagged
	}
	return &ModerationResult{Safe: safe, Categories: flagged}, nil
}

// categoryLabel turns "hate/threatening" into "hate (threatening)" and
// "self_harm" into "self harm".
func categoryLabel(cat string) string {
	display := strings.ReplaceAll(cat, "_", " ")
	if before, after, ok := strings.Cut(display, "/"); ok {
		display = before + " (" + after + ")"
	}
	return display
}

// --- Fallback ---

// fallbackModerator asks primary first and only consults secondary when
// primary fails outright. A verdict from primary is final.
type fallbackModerator struct {
	primary   Moderator
	secondary Moderator
}

func newFallbackModerator(primary, secondary Moderator) *fallbackModerator {
	return &fallbackModerator{primary: primary, secondary: secondary}
}

func (m *fallbackModerator) CheckSafety(ctx context.Context, text string) (*ModerationResult, error) {
	res, err := m.primary.CheckSafety(ctx, text)
	if err == nil {
		return res, nil
	}
	return m.secondary.CheckSafety(ctx, text)
}

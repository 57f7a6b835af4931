// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import "net/http"

// DefaultOpenRouterModel is used when no model is configured.
const DefaultOpenRouterModel = "meta-llama/llama-4-maverick:free"

// openRouterTemperature is the sampling temperature for startup generation.
var openRouterTemperature = 0.7

// newOpenRouter creates a provider for the OpenRouter gateway, which exposes
// an OpenAI-compatible chat completions API in front of many models.
func newOpenRouter(cfg ProviderConfig) *openAIProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOpenRouterModel
	}
	return &openAIProvider{
		name:    "openrouter",
		config:  cfg,
		client:  &http.Client{},
		headers: map[string]string{"X-Title": "Ignitia"},
		tuning: chatTuning{
			Temperature: &openRouterTemperature,
			MaxTokens:   defaultMaxTokens,
		},
	}
}

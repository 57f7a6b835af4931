// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package startup

import (
	"context"
	"errors"
	"log/slog"

	"ignitia/internal/ai"
)

// LLM is the part of ai.Registry the generator needs.
type LLM interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	CheckPrompt(ctx context.Context, prompt string) (*ai.ModerationResult, error)
	ActiveName() string
}

// Generator runs an idea through moderation, the active LLM provider and
// the response normalizer.
type Generator struct {
	llm LLM
}

// NewGenerator creates a Generator backed by llm.
func NewGenerator(llm LLM) *Generator {
	return &Generator{llm: llm}
}

// Generate returns the startup profile the model produced for idea. The
// call is synchronous and never retried.
func (g *Generator) Generate(ctx context.Context, idea string) (map[string]any, error) {
	prompt, err := BuildPrompt(idea)
	if err != nil {
		return nil, err
	}

	if err := g.moderate(ctx, idea); err != nil {
		return nil, err
	}

	slog.Info("generating startup",
		"provider", g.llm.ActiveName(),
		"idea", excerpt(idea, 100),
		"idea_length", len(idea),
	)

	content, err := g.llm.Generate(ctx, "", prompt)
	if err != nil {
		var ue *ai.UpstreamError
		if errors.As(err, &ue) {
			slog.Error("ai upstream error", "provider", ue.Provider, "status", ue.StatusCode, "body", excerpt(ue.Body, 500))
		} else {
			slog.Error("ai generation failed", "error", err)
		}
		return nil, err
	}
	slog.Debug("ai response received", "content_length", len(content))

	result, err := Normalize(content)
	if err != nil {
		var me *MalformedResponseError
		if errors.As(err, &me) {
			slog.Error("ai response could not be parsed", "error", me.Err, "content", me.Excerpt)
		}
		return nil, err
	}
	return result, nil
}

// moderate rejects flagged ideas. A failing moderator lets the idea through.
func (g *Generator) moderate(ctx context.Context, idea string) error {
	res, err := g.llm.CheckPrompt(ctx, idea)
	if err != nil {
		slog.Warn("moderation unavailable, continuing", "error", err)
		return nil
	}
	if res != nil && !res.Safe {
		slog.Info("idea flagged by moderation", "categories", res.Categories)
		return &FlaggedError{Categories: res.Categories}
	}
	return nil
}

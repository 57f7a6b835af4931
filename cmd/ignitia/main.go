// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Command ignitia runs the Ignitia startup generator. With no subcommand
// it serves the HTTP API; migrate and generate are operational helpers.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"ignitia/internal/ai"
	"ignitia/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ignitia:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ignitia",
		Short:         "AI startup-idea generator",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newGenerateCmd())
	return root
}

// loadConfig reads the configuration and installs the default logger
// writing to logOut: JSON in production, text elsewhere.
func loadConfig(logOut io.Writer) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	var handler slog.Handler = slog.NewTextHandler(logOut, opts)
	if cfg.Env == "production" {
		opts.Level = slog.LevelInfo
		handler = slog.NewJSONHandler(logOut, opts)
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded", "env", cfg.Env, "addr", cfg.Addr())
	return cfg, nil
}

// newRegistry builds the AI provider registry from cfg.
func newRegistry(cfg *config.Config) *ai.Registry {
	reg := ai.NewRegistry(cfg.AIProvider, map[string]ai.ProviderConfig{
		"openrouter": {APIKey: cfg.OpenRouterKey, Model: cfg.AIModel, BaseURL: cfg.OpenRouterBaseURL},
		"openai":     {APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL},
		"gemini":     {APIKey: cfg.GeminiKey, Model: cfg.GeminiModel, BaseURL: cfg.GeminiBaseURL},
		"claude":     {APIKey: cfg.ClaudeKey, Model: cfg.ClaudeModel, BaseURL: cfg.ClaudeBaseURL},
		"mistral":    {APIKey: cfg.MistralKey, Model: cfg.MistralModel, BaseURL: cfg.MistralBaseURL},
	})

	slog.Info("ai providers initialized",
		"active", reg.ActiveName(),
		"available", reg.Available(),
	)
	if !reg.HasProvider(reg.ActiveName()) {
		slog.Warn("active ai provider has no API key, generation will fail", "provider", reg.ActiveName())
	}
	return reg
}

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
//
// An optional YAML file named by IGNITIA_CONFIG supplies values for any key
// that is not set in the environment. File keys are the lowercase forms of
// the environment variable names (e.g. "postgres_host", "ai_model").
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible session store)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	ValkeyDB       int

	// AI provider settings. AIModel overrides the active provider's model.
	AIProvider string // "openrouter", "openai", "gemini", "claude", "mistral"
	AIModel    string

	OpenRouterKey     string
	OpenRouterBaseURL string

	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string

	GeminiKey     string
	GeminiModel   string
	GeminiBaseURL string

	ClaudeKey     string
	ClaudeModel   string
	ClaudeBaseURL string

	MistralKey     string
	MistralModel   string
	MistralBaseURL string

	// S3-compatible storage for published landing pages (optional)
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string

	// GenerateRateLimit is the number of /generate calls allowed per client
	// per minute.
	GenerateRateLimit int

	// TrustProxy takes client IPs from X-Forwarded-For / X-Real-IP. Enable
	// only when a reverse proxy overwrites those headers.
	TrustProxy bool
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	l := &loader{}
	if path := os.Getenv("IGNITIA_CONFIG"); path != "" {
		file, err := readFile(path)
		if err != nil {
			return nil, err
		}
		l.file = file
	}

	cfg := &Config{
		Host: l.get("APP_HOST", "0.0.0.0"),
		Port: l.get("APP_PORT", "8080"),
		Env:  l.get("APP_ENV", "development"),

		DBHost:     l.get("POSTGRES_HOST", "localhost"),
		DBPort:     l.get("POSTGRES_PORT", "5432"),
		DBUser:     l.get("POSTGRES_USER", "ignitia"),
		DBPassword: l.get("POSTGRES_PASSWORD", "changeme"),
		DBName:     l.get("POSTGRES_DB", "ignitia"),

		ValkeyHost:     l.get("VALKEY_HOST", "localhost"),
		ValkeyPort:     l.get("VALKEY_PORT", "6379"),
		ValkeyPassword: l.get("VALKEY_PASSWORD", ""),

		AIProvider: l.get("AI_PROVIDER", "openrouter"),
		AIModel:    l.get("AI_MODEL", ""),

		OpenRouterKey:     l.get("OPENROUTER_API_KEY", ""),
		OpenRouterBaseURL: l.get("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),

		OpenAIKey:     l.get("OPENAI_API_KEY", ""),
		OpenAIModel:   l.get("OPENAI_MODEL", "gpt-4o"),
		OpenAIBaseURL: l.get("OPENAI_BASE_URL", "https://api.openai.com/v1"),

		GeminiKey:     l.get("GEMINI_API_KEY", ""),
		GeminiModel:   l.get("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiBaseURL: l.get("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),

		ClaudeKey:     l.get("CLAUDE_API_KEY", ""),
		ClaudeModel:   l.get("CLAUDE_MODEL", "claude-sonnet-4-5"),
		ClaudeBaseURL: l.get("CLAUDE_BASE_URL", "https://api.anthropic.com"),

		MistralKey:     l.get("MISTRAL_API_KEY", ""),
		MistralModel:   l.get("MISTRAL_MODEL", "mistral-large-latest"),
		MistralBaseURL: l.get("MISTRAL_BASE_URL", "https://api.mistral.ai/v1"),

		S3Endpoint:  l.get("S3_ENDPOINT", ""),
		S3Region:    l.get("S3_REGION", "us-east-1"),
		S3AccessKey: l.get("S3_ACCESS_KEY", ""),
		S3SecretKey: l.get("S3_SECRET_KEY", ""),
		S3Bucket:    l.get("S3_BUCKET", "ignitia-sites"),
		S3PublicURL: l.get("S3_PUBLIC_URL", ""),
	}

	limit, err := strconv.Atoi(l.get("GENERATE_RATE_LIMIT", "10"))
	if err != nil || limit <= 0 {
		return nil, fmt.Errorf("GENERATE_RATE_LIMIT must be a positive integer")
	}
	cfg.GenerateRateLimit = limit

	trustProxy, err := strconv.ParseBool(l.get("TRUST_PROXY", "false"))
	if err != nil {
		return nil, fmt.Errorf("TRUST_PROXY must be a boolean")
	}
	cfg.TrustProxy = trustProxy

	valkeyDB, err := strconv.Atoi(l.get("VALKEY_DB", "0"))
	if err != nil || valkeyDB < 0 {
		return nil, fmt.Errorf("VALKEY_DB must be a non-negative integer")
	}
	cfg.ValkeyDB = valkeyDB

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// ValkeyAddr returns the host:port address of the Valkey server.
func (c *Config) ValkeyAddr() string {
	return net.JoinHostPort(c.ValkeyHost, c.ValkeyPort)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// HasStorage reports whether S3 publishing is configured.
func (c *Config) HasStorage() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

// loader resolves a key from the environment first, then the config file.
type loader struct {
	file map[string]string
}

// get returns the environment value for key, falling back to the file
// value and then to fallback. Empty values count as unset.
func (l *loader) get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if v := l.file[strings.ToLower(key)]; v != "" {
		return v
	}
	return fallback
}

// readFile parses a flat YAML mapping of lowercase config keys.
func readFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	values := make(map[string]string)
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return values, nil
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads application configuration from environment
// variables and validates security-sensitive values.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must never be
// accepted.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// MinSessionSecretLength is the minimum length for the session secret.
const MinSessionSecretLength = 32

// Config holds the application configuration loaded from environment
// variables.
type Config struct {
	Env           string `env:"RECIPESHARE_ENV" envDefault:"development"`
	ServerHost    string `env:"RECIPESHARE_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"RECIPESHARE_SERVER_PORT" envDefault:"8080"`
	LogLevel      string `env:"RECIPESHARE_LOG_LEVEL" envDefault:"info"`
	SessionSecret string `env:"RECIPESHARE_SESSION_SECRET,required"`

	// DatabaseURL selects the backing store. A postgres:// URL targets
	// the hosted Postgres service; empty falls back to a local SQLite
	// file (development and tests).
	DatabaseURL string `env:"RECIPESHARE_DATABASE_URL"`
	SQLitePath  string `env:"RECIPESHARE_SQLITE_PATH" envDefault:"./data/recipeshare.db"`

	// AdminSecurityCode is the out-of-band code required in addition to
	// the password for admin login.
	AdminSecurityCode string `env:"RECIPESHARE_ADMIN_SECURITY_CODE"`

	// OpenAI configuration for recipe image generation. Unset key means
	// the feature reports itself unavailable; it is never a hard
	// dependency for recipe creation.
	OpenAIAPIKey     string `env:"RECIPESHARE_OPENAI_API_KEY"`
	OpenAIChatModel  string `env:"RECIPESHARE_OPENAI_CHAT_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIImageModel string `env:"RECIPESHARE_OPENAI_IMAGE_MODEL" envDefault:"dall-e-3"`

	// Object storage for generated recipe images.
	MinioEndpoint  string `env:"RECIPESHARE_MINIO_ENDPOINT"`
	MinioAccessKey string `env:"RECIPESHARE_MINIO_ACCESS_KEY"`
	MinioSecretKey string `env:"RECIPESHARE_MINIO_SECRET_KEY"`
	MinioBucket    string `env:"RECIPESHARE_MINIO_BUCKET" envDefault:"recipe-images"`
	MinioUseSSL    bool   `env:"RECIPESHARE_MINIO_USE_SSL" envDefault:"true"`
	// MinioPublicBaseURL is the externally reachable URL prefix for
	// uploaded objects (e.g. a CDN or the MinIO endpoint itself).
	MinioPublicBaseURL string `env:"RECIPESHARE_MINIO_PUBLIC_BASE_URL"`

	// CORSOrigins lists the static front-end origins allowed to call
	// the API with credentials.
	CORSOrigins []string `env:"RECIPESHARE_CORS_ORIGINS" envSeparator:","`

	// PublicRateLimit is requests per minute per IP on public write
	// endpoints (feedback, reports, registration).
	PublicRateLimit int `env:"RECIPESHARE_PUBLIC_RATE_LIMIT" envDefault:"30"`

	// SessionSweep enables the hourly purge of expired admin session
	// rows. Lazy deletion on access remains the correctness mechanism.
	SessionSweep bool `env:"RECIPESHARE_SESSION_SWEEP" envDefault:"true"`
}

// IsDevelopment returns true when running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the listen address in host:port form.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UsePostgres returns true when a hosted Postgres URL is configured.
func (c Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}

// ImageGenEnabled returns true when the OpenAI integration is configured.
func (c Config) ImageGenEnabled() bool {
	return c.OpenAIAPIKey != ""
}

// ObjectStoreEnabled returns true when MinIO is configured.
func (c Config) ObjectStoreEnabled() bool {
	return c.MinioEndpoint != "" && c.MinioAccessKey != "" && c.MinioSecretKey != ""
}

// Load parses environment variables and returns a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("RECIPESHARE_SESSION_SECRET must be at least %d bytes long, got %d; "+
			"generate one with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("RECIPESHARE_SESSION_SECRET is a known default value and must not be used; " +
				"generate one with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("RECIPESHARE_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character
// classes (lowercase, uppercase, digits, specials).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// Insecure development defaults. They keep a fresh checkout runnable, but
// every networked deployment must override them.
const (
	DefaultAdminPassword = "change-me"
	DefaultSessionSecret = "dev-secret-change-me"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	AdminUsername string `env:"BLOGD_ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string `env:"BLOGD_ADMIN_PASSWORD" envDefault:"change-me"`
	// AdminPasswordHash optionally holds an argon2id hash; when set it takes
	// precedence over AdminPassword so the plaintext never has to live in the
	// environment.
	AdminPasswordHash string `env:"BLOGD_ADMIN_PASSWORD_HASH"`

	PostsDir      string `env:"BLOGD_POSTS_DIR" envDefault:"../site/src/content/posts"`
	SessionSecret string `env:"BLOGD_SESSION_SECRET" envDefault:"dev-secret-change-me"`
	ServerHost    string `env:"BLOGD_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"BLOGD_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"BLOGD_ENV" envDefault:"development"`
	LogLevel      string `env:"BLOGD_LOG_LEVEL" envDefault:"info"`

	// AuthEnabled toggles the admin session gate. Disabling it leaves every
	// mutating endpoint open; only do that behind a trusted local setup.
	AuthEnabled bool `env:"BLOGD_AUTH_ENABLED" envDefault:"true"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// Load parses environment variables and returns a Config struct.
// Default credentials and session secret are allowed in development but
// logged loudly; a production environment with the default secret is refused.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.SessionSecret == DefaultSessionSecret {
		if !cfg.IsDevelopment() {
			return nil, fmt.Errorf("BLOGD_SESSION_SECRET is the insecure default and must be overridden outside development; " +
				"generate one with: openssl rand -base64 32")
		}
		slog.Warn("BLOGD_SESSION_SECRET is the insecure default; override it for any networked deployment")
	}

	if cfg.AuthEnabled && cfg.AdminPasswordHash == "" && cfg.AdminPassword == DefaultAdminPassword {
		slog.Warn("BLOGD_ADMIN_PASSWORD is the insecure default; override it for any networked deployment")
	}

	return cfg, nil
}

/*
Package configs loads and validates the application's configuration.

All settings come from environment variables, parsed into the AppConfig
struct. Development supplies safe defaults; production requires explicit
secrets.
*/
package configs

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// AppConfig contains all configuration parameters required by the server.
type AppConfig struct {
	// General Server Settings
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Port        int    `env:"PORT" envDefault:"8080"`

	// Security Settings
	AllowedOrigins   []string `env:"ALLOWED_ORIGINS" envSeparator:","`
	AdminTokenSecret string   `env:"ADMIN_TOKEN_SECRET"`

	// CredentialsFile is the path to the JSON credential table used for
	// role escalation. An absent table means sign-in always fails.
	CredentialsFile string `env:"CREDENTIALS_FILE"`

	// Chat State Settings
	HistoryLimit int           `env:"HISTORY_LIMIT" envDefault:"1000"`
	PairingTTL   time.Duration `env:"PAIRING_TTL" envDefault:"5m"`

	// StaticDir is the directory of static assets served by the HTTP layer.
	StaticDir string `env:"STATIC_DIR" envDefault:"public"`
}

// IsDevelopment reports whether the server runs in the development environment.
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// LoadConfig parses the application configuration from environment
// variables and validates it.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", cfg.Port, 1024, 65535)
	}

	if cfg.HistoryLimit < 1 {
		return nil, fmt.Errorf("HISTORY_LIMIT must be positive, got %d", cfg.HistoryLimit)
	}

	if cfg.PairingTTL <= 0 {
		return nil, fmt.Errorf("PAIRING_TTL must be positive, got %s", cfg.PairingTTL)
	}

	if cfg.AdminTokenSecret == "" {
		if cfg.IsDevelopment() {
			cfg.AdminTokenSecret = "insecure_development_admin_secret"
		} else {
			return nil, fmt.Errorf("ADMIN_TOKEN_SECRET environment variable is required in %s environment", cfg.Environment)
		}
	}

	return cfg, nil
}

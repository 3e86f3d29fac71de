// Package config loads service settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds every setting the intake service reads at startup.
type Config struct {
	Addr          string
	DBDriver      string
	DBDSN         string
	JWTSecret     string
	TokenTTL      time.Duration
	AdminEmail    string
	AdminPassword string
	TemplatesDir  string
	PagesDir      string
	Translations  string
	Locale        string
	LogLevel      string
	LogFormat     string
	SessionTTL    time.Duration
	SweepSchedule string
	DocuSealURL   string
	Theme         string
	ThemeVariant  string
}

const devSecret = "intake-dev-secret-change-me"

// Load reads the optional env files (".env" when none are given) and then
// the process environment. Missing files are ignored; malformed ones are not.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", file, err)
		}
	}

	cfg := &Config{
		Addr:          getEnv("INTAKE_ADDR", ":8080"),
		DBDriver:      strings.ToLower(getEnv("INTAKE_DB_DRIVER", "memory")),
		DBDSN:         getEnv("INTAKE_DB_DSN", ""),
		JWTSecret:     getEnv("INTAKE_JWT_SECRET", devSecret),
		AdminEmail:    getEnv("INTAKE_ADMIN_EMAIL", "admin@intake.local"),
		AdminPassword: getEnv("INTAKE_ADMIN_PASSWORD", "admin123"),
		TemplatesDir:  getEnv("INTAKE_TEMPLATES_DIR", ""),
		PagesDir:      getEnv("INTAKE_PAGES_DIR", ""),
		Translations:  getEnv("INTAKE_TRANSLATIONS_FILE", ""),
		Locale:        getEnv("INTAKE_LOCALE", "en"),
		LogLevel:      getEnv("INTAKE_LOG_LEVEL", "info"),
		LogFormat:     getEnv("INTAKE_LOG_FORMAT", "json"),
		SweepSchedule: getEnv("INTAKE_SWEEP_SCHEDULE", "@every 5m"),
		DocuSealURL:   getEnv("DOCUSEAL_BASE_URL", "https://docuseal.co"),
		Theme:         getEnv("INTAKE_THEME", ""),
		ThemeVariant:  getEnv("INTAKE_THEME_VARIANT", ""),
	}

	var err error
	if cfg.SessionTTL, err = getEnvDuration("INTAKE_SESSION_TTL", 2*time.Hour); err != nil {
		return nil, err
	}
	if cfg.TokenTTL, err = getEnvDuration("INTAKE_TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.JWTSecret) == "" {
		problems = append(problems, "INTAKE_JWT_SECRET must not be empty")
	}
	switch c.DBDriver {
	case "memory":
	case "sqlite", "postgres":
		if strings.TrimSpace(c.DBDSN) == "" {
			problems = append(problems, fmt.Sprintf("INTAKE_DB_DSN is required for driver %q", c.DBDriver))
		}
	default:
		problems = append(problems, fmt.Sprintf("INTAKE_DB_DRIVER %q is not one of memory, sqlite, postgres", c.DBDriver))
	}
	if c.SessionTTL <= 0 {
		problems = append(problems, "INTAKE_SESSION_TTL must be positive")
	}
	if c.TokenTTL <= 0 {
		problems = append(problems, "INTAKE_TOKEN_TTL must be positive")
	}
	if _, err := cron.ParseStandard(c.SweepSchedule); err != nil {
		problems = append(problems, fmt.Sprintf("INTAKE_SWEEP_SCHEDULE: %v", err))
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		problems = append(problems, fmt.Sprintf("INTAKE_LOG_FORMAT %q is not json or console", c.LogFormat))
	}
	if len(problems) > 0 {
		return fmt.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// UsesDevSecret reports whether the built-in development secret is active.
func (c *Config) UsesDevSecret() bool {
	return c.JWTSecret == devSecret
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}

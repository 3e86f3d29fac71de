package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "memory", cfg.DBDriver)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "@every 5m", cfg.SweepSchedule)
	assert.Equal(t, "en", cfg.Locale)
	assert.True(t, cfg.UsesDevSecret())
	assert.NoError(t, cfg.Validate())
}

func TestLoadReadsEnvFileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("INTAKE_DB_DRIVER=SQLite\nINTAKE_DB_DSN=file:intake.db\nINTAKE_SESSION_TTL=30m\n"), 0o600))
	for _, key := range []string{"INTAKE_DB_DRIVER", "INTAKE_DB_DSN", "INTAKE_SESSION_TTL"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	t.Setenv("INTAKE_ADDR", ":9090")
	t.Setenv("DOCUSEAL_BASE_URL", "https://sign.example")

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "file:intake.db", cfg.DBDSN)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "https://sign.example", cfg.DocuSealURL)
	assert.NoError(t, cfg.Validate())
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("INTAKE_SESSION_TTL", "soon")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INTAKE_SESSION_TTL")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			JWTSecret:     "secret",
			DBDriver:      "memory",
			SessionTTL:    time.Hour,
			TokenTTL:      time.Hour,
			SweepSchedule: "*/5 * * * *",
			LogFormat:     "json",
		}
	}
	require.NoError(t, base().Validate())

	cases := map[string]struct {
		mutate func(*Config)
		want   string
	}{
		"empty secret":    {func(c *Config) { c.JWTSecret = " " }, "INTAKE_JWT_SECRET"},
		"unknown driver":  {func(c *Config) { c.DBDriver = "mysql" }, `"mysql"`},
		"sql without dsn": {func(c *Config) { c.DBDriver = "postgres" }, "INTAKE_DB_DSN"},
		"bad schedule":    {func(c *Config) { c.SweepSchedule = "every tuesday" }, "INTAKE_SWEEP_SCHEDULE"},
		"bad log format":  {func(c *Config) { c.LogFormat = "xml" }, "INTAKE_LOG_FORMAT"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

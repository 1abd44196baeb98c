package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_MissingFileStillAppliesEnv(t *testing.T) {
	t.Setenv("TIENDABOT_CATALOG", "/srv/catalog.yaml")
	t.Setenv("TIENDABOT_ORDERS_DB", "/srv/orders.db")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, "/srv/catalog.yaml", cfg.Catalog.Path,
		"env-only deployments carry no YAML file")
	require.Equal(t, "/srv/orders.db", cfg.Orders.DatabasePath)
}

func TestLoad_OverlaysOnDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store:
  name: Cotillón Luna
session:
  ttl: 45m
matching:
  fuzzy_threshold: 80
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Cotillón Luna", cfg.Store.Name)
	require.Equal(t, 45*time.Minute, cfg.SessionTTL())
	require.Equal(t, 80, cfg.Matching.FuzzyThreshold)

	// Untouched keys keep their defaults.
	require.Equal(t, time.Hour, cfg.HandoffTTL())
	require.Equal(t, "!activar", cfg.WhatsApp.ResumeCommand)
	require.Equal(t, 1500.0, cfg.Orders.DeliveryFee)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TIENDABOT_CATALOG", "/srv/catalog.yaml")
	t.Setenv("TIENDABOT_OWNER_JID", "549110000000@s.whatsapp.net")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("catalog:\n  path: ignored.yaml\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/srv/catalog.yaml", cfg.Catalog.Path)
	require.Equal(t, "549110000000@s.whatsapp.net", cfg.WhatsApp.OwnerJID)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"ThresholdTooHigh", func(c *Config) { c.Matching.FuzzyThreshold = 101 }, "fuzzy_threshold"},
		{"NegativeTolerance", func(c *Config) { c.Matching.YesNoTolerance = -0.1 }, "yes_no_tolerance"},
		{"ToleranceAtOne", func(c *Config) { c.Matching.YesNoTolerance = 1 }, "yes_no_tolerance"},
		{"ZeroCandidates", func(c *Config) { c.Matching.CandidateLimit = 0 }, "candidate_limit"},
		{"BadTTL", func(c *Config) { c.Session.TTL = "pronto" }, "session.ttl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.ErrorContains(t, err, tt.wantErr)
		})
	}

	require.NoError(t, DefaultConfig().Validate())
}

func TestDurationFallbacks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Session.TTL = ""
	cfg.Session.SweepInterval = "-5m"

	require.Equal(t, 30*time.Minute, cfg.SessionTTL(), "unparseable TTL falls back")
	require.Equal(t, 5*time.Minute, cfg.SweepInterval(), "non-positive interval falls back")
}

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all tiendabot configuration.
type Config struct {
	// Store identity and the texts used by informational replies.
	Store StoreConfig `yaml:"store"`

	// Catalog source file.
	Catalog CatalogConfig `yaml:"catalog"`

	// Conversational session lifecycle.
	Session SessionConfig `yaml:"session"`

	// Fuzzy matching knobs.
	Matching MatchingConfig `yaml:"matching"`

	// Order pricing and persistence.
	Orders OrdersConfig `yaml:"orders"`

	// WhatsApp transport.
	WhatsApp WhatsAppConfig `yaml:"whatsapp"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// StoreConfig carries the store facts quoted back to customers.
type StoreConfig struct {
	Name           string   `yaml:"name"`
	Hours          string   `yaml:"hours"`
	Address        string   `yaml:"address"`
	Phone          string   `yaml:"phone"`
	PaymentMethods []string `yaml:"payment_methods"`
}

// CatalogConfig configures the catalog snapshot source.
type CatalogConfig struct {
	// Path to the catalog YAML file. Watched for changes at runtime.
	Path string `yaml:"path"`
}

// SessionConfig configures session and handoff lifetimes.
// Durations are strings in time.ParseDuration format ("30m", "1h").
type SessionConfig struct {
	TTL           string `yaml:"ttl"`
	HandoffTTL    string `yaml:"handoff_ttl"`
	SweepInterval string `yaml:"sweep_interval"`
}

// MatchingConfig configures the fuzzy matcher.
type MatchingConfig struct {
	// Minimum edit-distance similarity (0-100) for approximate word matches.
	FuzzyThreshold int `yaml:"fuzzy_threshold"`

	// Fraction of token length tolerated as edit distance when matching
	// yes/no phrases ("siii", "sip"). Hard floor of one edit applies.
	YesNoTolerance float64 `yaml:"yes_no_tolerance"`

	// Maximum candidates shown when a search is ambiguous.
	CandidateLimit int `yaml:"candidate_limit"`
}

// OrdersConfig configures checkout pricing and the order database.
type OrdersConfig struct {
	DatabasePath string  `yaml:"database_path"`
	DiscountPct  float64 `yaml:"discount_pct"`
	DeliveryFee  float64 `yaml:"delivery_fee"`
}

// WhatsAppConfig configures the whatsmeow transport.
type WhatsAppConfig struct {
	// Path to the whatsmeow sqlstore database.
	DatabasePath string `yaml:"database_path"`

	// JID of the store owner. Only this sender may issue owner commands.
	OwnerJID string `yaml:"owner_jid"`

	// Owner command that releases an active human handoff early.
	ResumeCommand string `yaml:"resume_command"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Name:           "Librería Rincón",
			Hours:          "Lunes a sábado de 9 a 13 y de 17 a 21",
			Address:        "Av. San Martín 1234",
			Phone:          "+54 9 11 0000-0000",
			PaymentMethods: []string{"efectivo", "transferencia", "tarjeta de débito"},
		},
		Catalog: CatalogConfig{
			Path: "catalog.yaml",
		},
		Session: SessionConfig{
			TTL:           "30m",
			HandoffTTL:    "1h",
			SweepInterval: "5m",
		},
		Matching: MatchingConfig{
			FuzzyThreshold: 75,
			YesNoTolerance: 0.35,
			CandidateLimit: 10,
		},
		Orders: OrdersConfig{
			DatabasePath: "orders.db",
			DiscountPct:  0,
			DeliveryFee:  1500,
		},
		WhatsApp: WhatsAppConfig{
			DatabasePath:  "whatsapp.db",
			ResumeCommand: "!activar",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads a YAML config file and overlays it on the defaults. A missing
// file is not an error; environment overrides and validation apply either way
// so an env-only deployment needs no YAML at all.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only; the environment may still override below.
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides lets secrets and paths come from the environment.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("TIENDABOT_CATALOG"); v != "" {
		c.Catalog.Path = v
	}
	if v := os.Getenv("TIENDABOT_OWNER_JID"); v != "" {
		c.WhatsApp.OwnerJID = v
	}
	if v := os.Getenv("TIENDABOT_WA_DB"); v != "" {
		c.WhatsApp.DatabasePath = v
	}
	if v := os.Getenv("TIENDABOT_ORDERS_DB"); v != "" {
		c.Orders.DatabasePath = v
	}
}

// Validate checks that the parsed configuration is usable.
func (c *Config) Validate() error {
	if c.Matching.FuzzyThreshold < 0 || c.Matching.FuzzyThreshold > 100 {
		return fmt.Errorf("matching.fuzzy_threshold must be 0-100, got %d", c.Matching.FuzzyThreshold)
	}
	if c.Matching.YesNoTolerance < 0 || c.Matching.YesNoTolerance >= 1 {
		return fmt.Errorf("matching.yes_no_tolerance must be in [0,1), got %v", c.Matching.YesNoTolerance)
	}
	if c.Matching.CandidateLimit < 1 {
		return fmt.Errorf("matching.candidate_limit must be positive, got %d", c.Matching.CandidateLimit)
	}
	for _, d := range []struct{ name, val string }{
		{"session.ttl", c.Session.TTL},
		{"session.handoff_ttl", c.Session.HandoffTTL},
		{"session.sweep_interval", c.Session.SweepInterval},
	} {
		if _, err := time.ParseDuration(d.val); err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
	}
	return nil
}

// SessionTTL returns the parsed session TTL.
func (c *Config) SessionTTL() time.Duration {
	return parseDurationOr(c.Session.TTL, 30*time.Minute)
}

// HandoffTTL returns the parsed human-handoff TTL.
func (c *Config) HandoffTTL() time.Duration {
	return parseDurationOr(c.Session.HandoffTTL, time.Hour)
}

// SweepInterval returns the parsed expired-session sweep interval.
func (c *Config) SweepInterval() time.Duration {
	return parseDurationOr(c.Session.SweepInterval, 5*time.Minute)
}

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

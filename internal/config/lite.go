package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/eupolar/eupolar-server/internal/domain"
)

// LiteConfig is the configuration for the standalone MCP binary. It needs no external
// services: records live in a SQLite file under DataDir and charts are cached in memory.
type LiteConfig struct {
	// Data storage
	DataDir string

	// Cache settings
	CacheMaxItems int
	CacheTTL      time.Duration

	// Scoring
	UnknownInstrumentPolicy string

	// Logging
	LogLevel  string
	LogFormat string
}

// DefaultLiteConfig returns a configuration with sensible defaults.
func DefaultLiteConfig() *LiteConfig {
	homeDir, _ := os.UserHomeDir()

	return &LiteConfig{
		DataDir:                 filepath.Join(homeDir, ".eupolar"),
		CacheMaxItems:           1000,
		CacheTTL:                time.Hour,
		UnknownInstrumentPolicy: domain.UnknownInstrumentReject,
		LogLevel:                "info",
		LogFormat:               "json",
	}
}

// LoadLiteConfig loads configuration from EUPOLAR_* environment variables, falling back
// to defaults for anything unset or invalid.
func LoadLiteConfig() *LiteConfig {
	cfg := DefaultLiteConfig()

	v := viper.New()
	v.SetEnvPrefix("EUPOLAR")
	v.AutomaticEnv()

	if s := v.GetString("data_dir"); s != "" {
		cfg.DataDir = s
	}
	if n := v.GetInt("cache_max_items"); n > 0 {
		cfg.CacheMaxItems = n
	}
	if d := v.GetDuration("cache_ttl"); d > 0 {
		cfg.CacheTTL = d
	}
	switch p := strings.ToLower(v.GetString("unknown_instrument_policy")); p {
	case domain.UnknownInstrumentReject, domain.UnknownInstrumentLegacyZero:
		cfg.UnknownInstrumentPolicy = p
	}
	if s := v.GetString("log_level"); s != "" {
		cfg.LogLevel = s
	}
	if s := v.GetString("log_format"); s != "" {
		cfg.LogFormat = s
	}

	return cfg
}

// JournalDBPath returns the path to the SQLite database.
func (c *LiteConfig) JournalDBPath() string {
	return filepath.Join(c.DataDir, "eupolar.db")
}

// ExportDir returns the directory for JSON exports.
func (c *LiteConfig) ExportDir() string {
	return filepath.Join(c.DataDir, "exports")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func (c *LiteConfig) EnsureDataDir() error {
	if err := os.MkdirAll(c.DataDir, 0755); err != nil {
		return err
	}
	return os.MkdirAll(c.ExportDir(), 0755)
}

// Logging returns the logging section in the shape the logging package consumes.
func (c *LiteConfig) Logging() domain.LoggingConfig {
	// stdout carries the MCP stdio stream
	return domain.LoggingConfig{Level: c.LogLevel, Format: c.LogFormat, Output: "stderr", PrivacyMode: true}
}

// Scoring returns the scoring section for the application services.
func (c *LiteConfig) Scoring() domain.ScoringConfig {
	return domain.ScoringConfig{UnknownInstrumentPolicy: c.UnknownInstrumentPolicy}
}

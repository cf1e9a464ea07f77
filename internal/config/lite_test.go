package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eupolar/eupolar-server/internal/domain"
)

func TestDefaultLiteConfig(t *testing.T) {
	cfg := DefaultLiteConfig()

	assert.NotEmpty(t, cfg.DataDir)
	assert.Equal(t, 1000, cfg.CacheMaxItems)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, domain.UnknownInstrumentReject, cfg.UnknownInstrumentPolicy)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadLiteConfig_Defaults(t *testing.T) {
	clearEnvVars(t)

	cfg := LoadLiteConfig()

	assert.NotEmpty(t, cfg.DataDir)
	assert.Equal(t, 1000, cfg.CacheMaxItems)
	assert.Equal(t, domain.UnknownInstrumentReject, cfg.UnknownInstrumentPolicy)
}

func TestLoadLiteConfig_EnvironmentOverrides(t *testing.T) {
	clearEnvVars(t)

	t.Setenv("EUPOLAR_DATA_DIR", "/tmp/test-eupolar")
	t.Setenv("EUPOLAR_CACHE_MAX_ITEMS", "500")
	t.Setenv("EUPOLAR_CACHE_TTL", "12h")
	t.Setenv("EUPOLAR_UNKNOWN_INSTRUMENT_POLICY", "Legacy-Zero")
	t.Setenv("EUPOLAR_LOG_LEVEL", "debug")
	t.Setenv("EUPOLAR_LOG_FORMAT", "text")

	cfg := LoadLiteConfig()

	assert.Equal(t, "/tmp/test-eupolar", cfg.DataDir)
	assert.Equal(t, 500, cfg.CacheMaxItems)
	assert.Equal(t, 12*time.Hour, cfg.CacheTTL)
	assert.Equal(t, domain.UnknownInstrumentLegacyZero, cfg.UnknownInstrumentPolicy)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoadLiteConfig_InvalidValuesKeepDefaults(t *testing.T) {
	clearEnvVars(t)

	t.Setenv("EUPOLAR_CACHE_MAX_ITEMS", "-3")
	t.Setenv("EUPOLAR_CACHE_TTL", "soon")
	t.Setenv("EUPOLAR_UNKNOWN_INSTRUMENT_POLICY", "guess")

	cfg := LoadLiteConfig()

	assert.Equal(t, 1000, cfg.CacheMaxItems)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, domain.UnknownInstrumentReject, cfg.UnknownInstrumentPolicy)
}

func TestLiteConfig_Paths(t *testing.T) {
	cfg := &LiteConfig{DataDir: "/home/user/.eupolar"}

	assert.Equal(t, "/home/user/.eupolar/eupolar.db", cfg.JournalDBPath())
	assert.Equal(t, "/home/user/.eupolar/exports", cfg.ExportDir())
}

func TestLiteConfig_Sections(t *testing.T) {
	cfg := &LiteConfig{LogLevel: "warn", LogFormat: "text", UnknownInstrumentPolicy: domain.UnknownInstrumentLegacyZero}

	assert.Equal(t, domain.LoggingConfig{Level: "warn", Format: "text", Output: "stderr", PrivacyMode: true}, cfg.Logging())
	assert.Equal(t, domain.UnknownInstrumentLegacyZero, cfg.Scoring().UnknownInstrumentPolicy)
}

func TestLiteConfig_EnsureDataDir(t *testing.T) {
	cfg := &LiteConfig{DataDir: filepath.Join(t.TempDir(), "eupolar")}

	err := cfg.EnsureDataDir()
	require.NoError(t, err)

	_, err = os.Stat(cfg.DataDir)
	assert.NoError(t, err)

	_, err = os.Stat(cfg.ExportDir())
	assert.NoError(t, err)
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	vars := []string{
		"EUPOLAR_DATA_DIR",
		"EUPOLAR_CACHE_MAX_ITEMS",
		"EUPOLAR_CACHE_TTL",
		"EUPOLAR_UNKNOWN_INSTRUMENT_POLICY",
		"EUPOLAR_LOG_LEVEL",
		"EUPOLAR_LOG_FORMAT",
	}
	for _, v := range vars {
		// t.Setenv restores the original value when the test ends
		t.Setenv(v, "")
		os.Unsetenv(v)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigWithRoot(t *testing.T) {
	dir := t.TempDir()
	cfg := NewConfigWithRoot(dir)

	assert.Equal(t, filepath.Join(dir, "data", "portfolio_v2.csv"), cfg.PortfolioFile)
	assert.Equal(t, "USDKRW=X", cfg.RateSymbol)
	assert.True(t, cfg.RateFallback.Equal(decimal.NewFromInt(1350)))
	assert.Equal(t, time.Hour, cfg.RateTTL)
	assert.Equal(t, "@every 5m", cfg.RefreshSchedule)
	assert.False(t, cfg.ExchangeRateAPIEnabled)
	assert.Equal(t, 14*24*time.Hour, cfg.PriceWindow)
	assert.Equal(t, 5*24*time.Hour, cfg.RateWindow)
	require.NoError(t, cfg.Validate())
}

func TestNewConfigWithRootIgnoresEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FOLIOGO_DATA_DIR", filepath.Join(dir, "elsewhere"))
	t.Setenv("FOLIOGO_PORTFOLIO_FILE", filepath.Join(dir, "other.csv"))
	t.Setenv("FOLIOGO_HISTORY_ENABLED", "false")

	cfg := NewConfigWithRoot(dir)

	assert.Equal(t, filepath.Join(dir, "data", "portfolio_v2.csv"), cfg.PortfolioFile)
	assert.Equal(t, filepath.Join(dir, "data", "history.db"), cfg.HistoryDB)
	assert.True(t, cfg.HistoryEnabled)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FOLIOGO_DATA_DIR", filepath.Join(dir, "elsewhere"))
	t.Setenv("FOLIOGO_RATE_FALLBACK", "1400.5")
	t.Setenv("FOLIOGO_RATE_TTL", "30m")
	t.Setenv("FOLIOGO_HISTORY_ENABLED", "false")
	t.Setenv("FOLIOGO_EXCHANGERATE_API_ENABLED", "true")
	t.Setenv("FOLIOGO_RATE_WINDOW", "not-a-duration")

	cfg := DefaultConfigWithRoot(dir)

	assert.Equal(t, filepath.Join(dir, "elsewhere", "portfolio_v2.csv"), cfg.PortfolioFile)
	assert.True(t, cfg.RateFallback.Equal(decimal.RequireFromString("1400.5")))
	assert.Equal(t, 30*time.Minute, cfg.RateTTL)
	assert.False(t, cfg.HistoryEnabled)
	assert.True(t, cfg.ExchangeRateAPIEnabled)
	// unparsable values keep the default
	assert.Equal(t, 5*24*time.Hour, cfg.RateWindow)
}

func TestValidateRejectsBadSettings(t *testing.T) {
	cases := map[string]func(c *Config){
		"empty file":     func(c *Config) { c.PortfolioFile = " " },
		"zero fallback":  func(c *Config) { c.RateFallback = decimal.Zero },
		"zero ttl":       func(c *Config) { c.RateTTL = 0 },
		"bad schedule":   func(c *Config) { c.RefreshSchedule = "every so often" },
		"no timeout":     func(c *Config) { c.HTTPTimeout = 0 },
		"empty symbol":   func(c *Config) { c.RateSymbol = "" },
		"negative price": func(c *Config) { c.PriceWindow = -time.Hour },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := NewConfigWithRoot(t.TempDir())
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := NewConfigWithRoot(dir)
	cfg.PortfolioFile = filepath.Join(dir, "nested", "p.csv")

	require.NoError(t, cfg.EnsureDirectories())
	_, err := os.Stat(filepath.Join(dir, "nested"))
	assert.NoError(t, err)
}

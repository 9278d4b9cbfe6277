package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

type Config struct {
	ProjectDir    string `json:"project_dir"`
	DataDir       string `json:"data_dir"`
	PortfolioFile string `json:"portfolio_file"`

	HistoryDB      string `json:"history_db"`
	HistoryEnabled bool   `json:"history_enabled"`

	// USD→KRW lookup
	RateSymbol   string          `json:"rate_symbol"`
	RateFallback decimal.Decimal `json:"rate_fallback"`
	RateTTL      time.Duration   `json:"rate_ttl"`
	RateWindow   time.Duration   `json:"rate_window"`
	RateInterval string          `json:"rate_interval"`

	// Per-holding price lookup
	PriceWindow   time.Duration `json:"price_window"`
	PriceInterval string        `json:"price_interval"`

	// Optional second rate source (exchangerate-api.com)
	ExchangeRateAPIEnabled bool   `json:"exchangerate_api_enabled"`
	ExchangeRateAPIURL     string `json:"exchangerate_api_url"`

	HTTPTimeout     time.Duration `json:"http_timeout"`
	RefreshSchedule string        `json:"refresh_schedule"`
	ServerAddr      string        `json:"server_addr"`

	LogLevel  string `json:"log_level"`
	LogPretty bool   `json:"log_pretty"`
	Debug     bool   `json:"debug"`
}

func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()
	return DefaultConfigWithRoot(currentDir)
}

// DefaultConfigWithRoot builds the defaults rooted at dir, then applies .env and
// environment overrides.
func DefaultConfigWithRoot(dir string) *Config {
	cfg := NewConfigWithRoot(dir)

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg.loadFromEnv()

	return cfg
}

// NewConfigWithRoot returns the built-in defaults rooted at dir, ignoring .env
// and the environment.
func NewConfigWithRoot(dir string) *Config {
	dataDir := filepath.Join(dir, "data")

	return &Config{
		ProjectDir:    dir,
		DataDir:       dataDir,
		PortfolioFile: filepath.Join(dataDir, "portfolio_v2.csv"),

		HistoryDB:      filepath.Join(dataDir, "history.db"),
		HistoryEnabled: true,

		RateSymbol:   "USDKRW=X",
		RateFallback: decimal.NewFromInt(1350),
		RateTTL:      time.Hour,
		// Wide enough to reach the last session across weekends and holidays;
		// only the most recent bar is used.
		RateWindow:   5 * 24 * time.Hour,
		RateInterval: "1m",

		PriceWindow:   14 * 24 * time.Hour,
		PriceInterval: "1d",

		ExchangeRateAPIEnabled: false,
		ExchangeRateAPIURL:     "https://api.exchangerate-api.com/v4/latest",

		HTTPTimeout:     10 * time.Second,
		RefreshSchedule: "@every 5m",
		ServerAddr:      ":8080",

		LogLevel:  "info",
		LogPretty: true,
		Debug:     false,
	}
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("FOLIOGO_PROJECT_DIR"); val != "" {
		c.ProjectDir = val
	}
	if val := os.Getenv("FOLIOGO_DATA_DIR"); val != "" {
		c.DataDir = val
		c.PortfolioFile = filepath.Join(val, "portfolio_v2.csv")
		c.HistoryDB = filepath.Join(val, "history.db")
	}
	if val := os.Getenv("FOLIOGO_PORTFOLIO_FILE"); val != "" {
		c.PortfolioFile = val
	}
	if val := os.Getenv("FOLIOGO_HISTORY_DB"); val != "" {
		c.HistoryDB = val
	}
	if val := os.Getenv("FOLIOGO_HISTORY_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.HistoryEnabled = enabled
		}
	}

	if val := os.Getenv("FOLIOGO_RATE_SYMBOL"); val != "" {
		c.RateSymbol = val
	}
	if val := os.Getenv("FOLIOGO_RATE_FALLBACK"); val != "" {
		if v, err := decimal.NewFromString(val); err == nil {
			c.RateFallback = v
		}
	}
	if val := os.Getenv("FOLIOGO_RATE_TTL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.RateTTL = d
		}
	}
	if val := os.Getenv("FOLIOGO_RATE_WINDOW"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.RateWindow = d
		}
	}
	if val := os.Getenv("FOLIOGO_RATE_INTERVAL"); val != "" {
		c.RateInterval = val
	}

	if val := os.Getenv("FOLIOGO_PRICE_WINDOW"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.PriceWindow = d
		}
	}
	if val := os.Getenv("FOLIOGO_PRICE_INTERVAL"); val != "" {
		c.PriceInterval = val
	}

	if val := os.Getenv("FOLIOGO_EXCHANGERATE_API_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.ExchangeRateAPIEnabled = enabled
		}
	}
	if val := os.Getenv("FOLIOGO_EXCHANGERATE_API_URL"); val != "" {
		c.ExchangeRateAPIURL = val
	}

	if val := os.Getenv("FOLIOGO_HTTP_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.HTTPTimeout = d
		}
	}
	if val := os.Getenv("FOLIOGO_REFRESH_SCHEDULE"); val != "" {
		c.RefreshSchedule = val
	}
	if val := os.Getenv("FOLIOGO_SERVER_ADDR"); val != "" {
		c.ServerAddr = val
	}

	if val := os.Getenv("FOLIOGO_LOG_LEVEL"); val != "" {
		c.LogLevel = val
	}
	if val := os.Getenv("FOLIOGO_LOG_PRETTY"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.LogPretty = enabled
		}
	}
	if val := os.Getenv("FOLIOGO_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.PortfolioFile) == "" {
		return fmt.Errorf("portfolio file is required")
	}
	if strings.TrimSpace(c.RateSymbol) == "" {
		return fmt.Errorf("rate symbol is required")
	}
	if !c.RateFallback.IsPositive() {
		return fmt.Errorf("rate fallback must be positive, got %s", c.RateFallback)
	}
	if c.RateTTL <= 0 {
		return fmt.Errorf("rate ttl must be positive, got %s", c.RateTTL)
	}
	if c.RateWindow <= 0 || c.PriceWindow <= 0 {
		return fmt.Errorf("lookback windows must be positive")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive, got %s", c.HTTPTimeout)
	}
	if _, err := cron.ParseStandard(c.RefreshSchedule); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", c.RefreshSchedule, err)
	}
	return nil
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{c.DataDir, filepath.Dir(c.PortfolioFile)}
	if c.HistoryEnabled {
		dirs = append(dirs, filepath.Dir(c.HistoryDB))
	}
	for _, dir := range dirs {
		path := strings.TrimSpace(dir)
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", path, err)
		}
	}
	return nil
}

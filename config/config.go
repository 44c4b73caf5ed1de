package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrInvalidTimeout     = errors.New("bestbuy.timeout_sec must be at least 1")
	ErrInvalidAttempts    = errors.New("bestbuy.attempts must be at least 1")
	ErrInvalidPageSize    = errors.New("bestbuy.page_size must be between 1 and 100")
	ErrInvalidConcurrency = errors.New("resolver.max_concurrency must be at least 1")
	ErrInvalidRateLimit   = errors.New("resolver.rate_limit_ms must be non-negative")
	ErrMissingOutputPath  = errors.New("output.report and output.chart are required")
	ErrInvalidLogLevel    = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Default output artifact names.
const (
	DefaultReportPath     = "report.md"
	DefaultChartPath      = "price_difference_chart.png"
	DefaultCleanedCSVPath = "cleaned_products.csv"
	DefaultBestBuyBaseURL = "https://api.bestbuy.com/v1"
)

// Config holds all application configuration. Values come from defaults, an
// optional YAML file and finally environment variables (a .env file is honoured).
type Config struct {
	BestBuy  BestBuyConfig  `yaml:"bestbuy"`
	Resolver ResolverConfig `yaml:"resolver"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`

	// ChromeBin overrides the browser used to rasterize the chart.
	ChromeBin string `yaml:"chrome_bin"`
}

// BestBuyConfig configures the remote price source. APIKey is only ever read
// from the environment.
type BestBuyConfig struct {
	APIKey     string `yaml:"-"`
	BaseURL    string `yaml:"base_url"`
	PageSize   int    `yaml:"page_size"`
	TimeoutSec int    `yaml:"timeout_sec"`
	Attempts   int    `yaml:"attempts"`
}

// ResolverConfig controls how categories are resolved.
type ResolverConfig struct {
	MaxConcurrency int  `yaml:"max_concurrency"`
	RateLimitMs    int  `yaml:"rate_limit_ms"`
	ShowProgress   bool `yaml:"show_progress"`
}

// OutputConfig names the generated artifacts.
type OutputConfig struct {
	Report     string `yaml:"report"`
	Chart      string `yaml:"chart"`
	CleanedCSV string `yaml:"cleaned_csv"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		BestBuy: BestBuyConfig{
			BaseURL:    DefaultBestBuyBaseURL,
			PageSize:   10,
			TimeoutSec: 10,
			Attempts:   1,
		},
		Resolver: ResolverConfig{
			MaxConcurrency: 4,
		},
		Output: OutputConfig{
			Report:     DefaultReportPath,
			Chart:      DefaultChartPath,
			CleanedCSV: DefaultCleanedCSVPath,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads the .env file, the optional YAML file at path, applies environment
// overrides and sanitizes the result. Only an unreadable or malformed YAML file
// named by path is an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	cfg.applyEnv()

	for _, err := range cfg.Sanitize() {
		log.Printf("[config] %v, using the default", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	c.BestBuy.APIKey = strings.TrimSpace(os.Getenv("BESTBUY_API_KEY"))
	c.BestBuy.BaseURL = getEnv("BESTBUY_BASE_URL", c.BestBuy.BaseURL)
	c.BestBuy.PageSize = getEnvInt("BESTBUY_PAGE_SIZE", c.BestBuy.PageSize)
	c.BestBuy.TimeoutSec = getEnvInt("LOOKUP_TIMEOUT_SEC", c.BestBuy.TimeoutSec)
	c.BestBuy.Attempts = getEnvInt("LOOKUP_ATTEMPTS", c.BestBuy.Attempts)

	c.Resolver.MaxConcurrency = getEnvInt("MAX_CONCURRENCY", c.Resolver.MaxConcurrency)
	c.Resolver.RateLimitMs = getEnvInt("RATE_LIMIT_MS", c.Resolver.RateLimitMs)
	c.Resolver.ShowProgress = getEnvBool("SHOW_PROGRESS", c.Resolver.ShowProgress)

	c.Output.Report = getEnv("REPORT_PATH", c.Output.Report)
	c.Output.Chart = getEnv("CHART_PATH", c.Output.Chart)
	c.Output.CleanedCSV = getEnv("CLEANED_CSV_PATH", c.Output.CleanedCSV)

	c.Logging.Level = strings.ToLower(getEnv("LOG_LEVEL", c.Logging.Level))
	c.ChromeBin = getEnv("CHROME_BIN", c.ChromeBin)
}

// Sanitize resets every setting the pipeline cannot work with to its default
// and returns one sentinel error per reset. A bad setting never aborts a run.
func (c *Config) Sanitize() []error {
	def := Default()
	var reset []error

	if c.BestBuy.TimeoutSec < 1 {
		c.BestBuy.TimeoutSec = def.BestBuy.TimeoutSec
		reset = append(reset, ErrInvalidTimeout)
	}
	if c.BestBuy.Attempts < 1 {
		c.BestBuy.Attempts = def.BestBuy.Attempts
		reset = append(reset, ErrInvalidAttempts)
	}
	if c.BestBuy.PageSize < 1 || c.BestBuy.PageSize > 100 {
		c.BestBuy.PageSize = def.BestBuy.PageSize
		reset = append(reset, ErrInvalidPageSize)
	}
	if c.Resolver.MaxConcurrency < 1 {
		c.Resolver.MaxConcurrency = def.Resolver.MaxConcurrency
		reset = append(reset, ErrInvalidConcurrency)
	}
	if c.Resolver.RateLimitMs < 0 {
		c.Resolver.RateLimitMs = def.Resolver.RateLimitMs
		reset = append(reset, ErrInvalidRateLimit)
	}
	if c.Output.Report == "" || c.Output.Chart == "" {
		if c.Output.Report == "" {
			c.Output.Report = def.Output.Report
		}
		if c.Output.Chart == "" {
			c.Output.Chart = def.Output.Chart
		}
		reset = append(reset, ErrMissingOutputPath)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		c.Logging.Level = def.Logging.Level
		reset = append(reset, ErrInvalidLogLevel)
	}

	return reset
}

// HasCredential reports whether a Best Buy API key is configured.
func (c *Config) HasCredential() bool {
	return c.BestBuy.APIKey != ""
}

// LookupTimeout returns the per-call timeout of the price lookup.
func (c *Config) LookupTimeout() time.Duration {
	return time.Duration(c.BestBuy.TimeoutSec) * time.Second
}

// String returns a representation safe for logs; the API key is never printed.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Credential: %t, Timeout: %ds, Attempts: %d, Concurrency: %d, Report: %s, Chart: %s}",
		c.HasCredential(),
		c.BestBuy.TimeoutSec,
		c.BestBuy.Attempts,
		c.Resolver.MaxConcurrency,
		c.Output.Report,
		c.Output.Chart,
	)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

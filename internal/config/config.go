// Package config loads and validates scraper configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Fetcher mode values.
const (
	FetcherModeColly    = "colly"
	FetcherModeHeadless = "headless"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Crawler CrawlerConfig `mapstructure:"crawler"`
	Fetcher FetcherConfig `mapstructure:"fetcher"`
	Ops     OpsConfig     `mapstructure:"ops"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// CrawlerConfig governs the scrape pipeline.
type CrawlerConfig struct {
	BaseURL  string `mapstructure:"base_url"`
	Weeks    int    `mapstructure:"weeks"`
	PoolSize int    `mapstructure:"pool_size"`
}

// FetcherConfig controls page retrieval.
type FetcherConfig struct {
	Mode                string `mapstructure:"mode"`
	UserAgent           string `mapstructure:"user_agent"`
	TimeoutSeconds      int    `mapstructure:"timeout_seconds"`
	HeadlessMaxParallel int    `mapstructure:"headless_max_parallel"`
}

// OpsConfig controls the health/metrics HTTP server.
type OpsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Timeout returns the per-fetch timeout as a duration.
func (c FetcherConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SetDefaults registers default values on v. Called before flags are bound
// so flags and files can override.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("crawler.base_url", "https://www.nytimes.com/books/best-sellers")
	v.SetDefault("crawler.weeks", 105)
	v.SetDefault("crawler.pool_size", 0) // 0 means runtime.NumCPU()
	v.SetDefault("fetcher.mode", FetcherModeColly)
	v.SetDefault("fetcher.user_agent", "bestseller-archive/1.0 (+https://github.com/bookpulse/bestseller-archive)")
	v.SetDefault("fetcher.timeout_seconds", 5)
	v.SetDefault("fetcher.headless_max_parallel", 2)
	v.SetDefault("ops.enabled", false)
	v.SetDefault("ops.addr", ":9090")
	v.SetDefault("logging.development", false)
}

// Load builds a Config from an optional config file plus environment
// variables prefixed with BESTSELLERS_.
func Load(v *viper.Viper, cfgFile string) (Config, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("bestsellers")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.bestsellers")
	}

	v.SetEnvPrefix("BESTSELLERS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		// No config file is fine; defaults and env carry the run.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks for obviously bad configuration combinations.
func (c Config) Validate() error {
	if c.Crawler.BaseURL == "" {
		return fmt.Errorf("crawler.base_url must be set")
	}
	if c.Crawler.Weeks <= 0 {
		return fmt.Errorf("crawler.weeks must be > 0")
	}
	if c.Crawler.PoolSize < 0 {
		return fmt.Errorf("crawler.pool_size must be >= 0")
	}
	if c.Fetcher.Mode != FetcherModeColly && c.Fetcher.Mode != FetcherModeHeadless {
		return fmt.Errorf("fetcher.mode must be %q or %q", FetcherModeColly, FetcherModeHeadless)
	}
	if c.Fetcher.TimeoutSeconds <= 0 {
		return fmt.Errorf("fetcher.timeout_seconds must be > 0")
	}
	if c.Fetcher.HeadlessMaxParallel < 0 {
		return fmt.Errorf("fetcher.headless_max_parallel must be >= 0")
	}
	if c.Ops.Enabled && c.Ops.Addr == "" {
		return fmt.Errorf("ops.addr must be set when ops.enabled is true")
	}
	return nil
}

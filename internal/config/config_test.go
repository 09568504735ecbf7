package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	require.Equal(t, "https://www.nytimes.com/books/best-sellers", cfg.Crawler.BaseURL)
	require.Equal(t, 105, cfg.Crawler.Weeks)
	require.Zero(t, cfg.Crawler.PoolSize)
	require.Equal(t, FetcherModeColly, cfg.Fetcher.Mode)
	require.Equal(t, 5*time.Second, cfg.Fetcher.Timeout())
	require.False(t, cfg.Ops.Enabled)
	require.Equal(t, ":9090", cfg.Ops.Addr)
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "bestsellers.yaml")
	body := `
crawler:
  weeks: 12
  pool_size: 4
fetcher:
  mode: headless
  timeout_seconds: 10
ops:
  enabled: true
  addr: ":9191"
logging:
  development: true
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	require.Equal(t, 12, cfg.Crawler.Weeks)
	require.Equal(t, 4, cfg.Crawler.PoolSize)
	require.Equal(t, FetcherModeHeadless, cfg.Fetcher.Mode)
	require.Equal(t, 10*time.Second, cfg.Fetcher.Timeout())
	require.True(t, cfg.Ops.Enabled)
	require.Equal(t, ":9191", cfg.Ops.Addr)
	require.True(t, cfg.Logging.Development)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Parallel()

	valid := func() Config {
		return Config{
			Crawler: CrawlerConfig{BaseURL: "https://example.com", Weeks: 105},
			Fetcher: FetcherConfig{Mode: FetcherModeColly, TimeoutSeconds: 5},
			Ops:     OpsConfig{Addr: ":9090"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base url", func(c *Config) { c.Crawler.BaseURL = "" }},
		{"zero weeks", func(c *Config) { c.Crawler.Weeks = 0 }},
		{"negative pool size", func(c *Config) { c.Crawler.PoolSize = -1 }},
		{"unknown fetcher mode", func(c *Config) { c.Fetcher.Mode = "carrier-pigeon" }},
		{"zero timeout", func(c *Config) { c.Fetcher.TimeoutSeconds = 0 }},
		{"ops enabled without addr", func(c *Config) { c.Ops.Enabled = true; c.Ops.Addr = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid()
			require.NoError(t, cfg.Validate())
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("BESTSELLERS_CRAWLER_WEEKS", "7")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	require.Equal(t, 7, cfg.Crawler.Weeks)
}

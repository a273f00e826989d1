package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// envVars lists every variable the tests may set, so they can be
// cleaned between runs.
var envVars = []string{
	"PFB_SERVER_PORT", "PFB_SERVER_READ_TIMEOUT", "PFB_SERVER_WRITE_TIMEOUT",
	"PFB_LOGGING_LEVEL", "PFB_LOGGING_FORMAT", "PFB_LOGGING_OUTPUT",
	"PFB_PROVIDERS_FUND_API_URL", "PFB_PROVIDERS_BENCHMARK_SYMBOL",
	"PFB_NORMALIZE_HEADER_POLICY", "PFB_NORMALIZE_SCAN_DEPTH",
	"PFB_PORTFOLIO_AGGREGATION_POLICY", "PFB_PORTFOLIO_MAX_CONCURRENCY",
}

// chdir changes into dir for the duration of a test, restoring the
// previous working directory on cleanup (t.Chdir needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range envVars {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir()) // no config.yaml in reach

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "label-class", cfg.Normalize.HeaderPolicy)
	assert.Equal(t, 30, cfg.Normalize.ScanDepth)
	assert.Equal(t, "additive", cfg.Portfolio.AggregationPolicy)
	assert.Equal(t, 60, cfg.Portfolio.FundMinCloses)
	assert.Equal(t, "^NSEI", cfg.Providers.BenchmarkSymbol)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	t.Setenv("PFB_SERVER_PORT", "9090")
	t.Setenv("PFB_NORMALIZE_HEADER_POLICY", "keyword-count")
	t.Setenv("PFB_PORTFOLIO_AGGREGATION_POLICY", "quantity-wins")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "keyword-count", cfg.Normalize.HeaderPolicy)
	assert.Equal(t, "quantity-wins", cfg.Portfolio.AggregationPolicy)
}

func TestLoadConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	chdir(t, dir)

	yaml := `
server:
  port: 7070
normalize:
  header_policy: keyword-count
  scan_depth: 50
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "keyword-count", cfg.Normalize.HeaderPolicy)
	assert.Equal(t, 50, cfg.Normalize.ScanDepth)
	// Fields absent from the file keep env/default values.
	assert.Equal(t, "additive", cfg.Portfolio.AggregationPolicy)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"invalid port", func(c *Config) { c.Server.Port = -1 }},
		{"invalid header policy", func(c *Config) { c.Normalize.HeaderPolicy = "guess" }},
		{"invalid aggregation policy", func(c *Config) { c.Portfolio.AggregationPolicy = "maybe" }},
		{"zero scan depth", func(c *Config) { c.Normalize.ScanDepth = 0 }},
		{"invalid log level", func(c *Config) { c.Logging.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateNormalizesLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "text"
	cfg.Logging.Output = "syslog"
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "both", cfg.Logging.Output)
}

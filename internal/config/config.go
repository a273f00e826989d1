package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Providers ProvidersConfig `yaml:"providers" envconfig:"PROVIDERS"`
	Normalize NormalizeConfig `yaml:"normalize" envconfig:"NORMALIZE"`
	Portfolio PortfolioConfig `yaml:"portfolio" envconfig:"PORTFOLIO"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080" validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"120s" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s" validate:"gt=0"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" default:"10485760" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"20"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"10"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// ProvidersConfig contains market data provider configuration
type ProvidersConfig struct {
	SymbolMasterURL string        `yaml:"symbol_master_url" envconfig:"SYMBOL_MASTER_URL" default:"https://portfoliohedge.finideas.com/PortFolioPayout/symbols" validate:"url"`
	EquityQuoteURL  string        `yaml:"equity_quote_url" envconfig:"EQUITY_QUOTE_URL" default:"https://query1.finance.yahoo.com" validate:"url"`
	FundAPIURL      string        `yaml:"fund_api_url" envconfig:"FUND_API_URL" default:"https://api.mfapi.in" validate:"url"`
	BenchmarkSymbol string        `yaml:"benchmark_symbol" envconfig:"BENCHMARK_SYMBOL" default:"^NSEI" validate:"required"`
	Timeout         time.Duration `yaml:"timeout" envconfig:"TIMEOUT" default:"30s" validate:"gt=0"`
	CacheTTL        time.Duration `yaml:"cache_ttl" envconfig:"CACHE_TTL" default:"1h" validate:"gt=0"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" default:"5"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST" default:"5"`
}

// NormalizeConfig controls header detection during upload normalization
type NormalizeConfig struct {
	// HeaderPolicy selects the header detection heuristic:
	// "label-class" requires an ISIN cell plus a quantity/value cell,
	// "keyword-count" is the legacy >=2-keyword-cells rule kept for
	// historical fixtures.
	HeaderPolicy string `yaml:"header_policy" envconfig:"HEADER_POLICY" default:"label-class" validate:"oneof=label-class keyword-count"`
	ScanDepth    int    `yaml:"scan_depth" envconfig:"SCAN_DEPTH" default:"30" validate:"gt=0"`
}

// PortfolioConfig controls reconciliation and beta computation
type PortfolioConfig struct {
	// AggregationPolicy selects how explicit quantities and monetary
	// amounts combine for one ISIN: "additive" derives extra units from
	// the amount at the resolved price, "quantity-wins" discards the
	// amount whenever a positive quantity exists.
	AggregationPolicy string `yaml:"aggregation_policy" envconfig:"AGGREGATION_POLICY" default:"additive" validate:"oneof=additive quantity-wins"`
	MaxConcurrency    int    `yaml:"max_concurrency" envconfig:"MAX_CONCURRENCY" default:"8" validate:"gt=0"`
	EquityMinCloses   int    `yaml:"equity_min_closes" envconfig:"EQUITY_MIN_CLOSES" default:"30" validate:"gt=0"`
	EquityMinReturns  int    `yaml:"equity_min_returns" envconfig:"EQUITY_MIN_RETURNS" default:"20" validate:"gt=0"`
	FundMinCloses     int    `yaml:"fund_min_closes" envconfig:"FUND_MIN_CLOSES" default:"60" validate:"gt=0"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("PFB", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	configFile := getConfigFilePath()
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Server.Port == 0 {
		envConfig.Server.Port = fileConfig.Server.Port
	}
	if envConfig.Server.ReadTimeout == 0 {
		envConfig.Server.ReadTimeout = fileConfig.Server.ReadTimeout
	}
	if envConfig.Server.WriteTimeout == 0 {
		envConfig.Server.WriteTimeout = fileConfig.Server.WriteTimeout
	}
	if envConfig.Server.MaxUploadBytes == 0 {
		envConfig.Server.MaxUploadBytes = fileConfig.Server.MaxUploadBytes
	}
	if envConfig.Logging.Level == "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if envConfig.Providers.SymbolMasterURL == "" {
		envConfig.Providers.SymbolMasterURL = fileConfig.Providers.SymbolMasterURL
	}
	if envConfig.Providers.FundAPIURL == "" {
		envConfig.Providers.FundAPIURL = fileConfig.Providers.FundAPIURL
	}
	if envConfig.Providers.BenchmarkSymbol == "" {
		envConfig.Providers.BenchmarkSymbol = fileConfig.Providers.BenchmarkSymbol
	}
	if envConfig.Normalize.HeaderPolicy == "" {
		envConfig.Normalize.HeaderPolicy = fileConfig.Normalize.HeaderPolicy
	}
	if envConfig.Normalize.ScanDepth == 0 {
		envConfig.Normalize.ScanDepth = fileConfig.Normalize.ScanDepth
	}
	if envConfig.Portfolio.AggregationPolicy == "" {
		envConfig.Portfolio.AggregationPolicy = fileConfig.Portfolio.AggregationPolicy
	}

	return envConfig
}

// Validate validates the configuration using struct tags
func (c *Config) Validate() error {
	if c.Logging.Format != "json" {
		// Structured JSON logging only; text handlers lose trace fields.
		c.Logging.Format = "json"
	}
	if c.Logging.Output != "both" && c.Logging.Output != "file" && c.Logging.Output != "console" {
		c.Logging.Output = "both"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}

	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    120 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			MaxUploadBytes:  10 << 20,
			ShutdownTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     20,
				Burst:   10,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "logs/app.log",
		},
		Providers: ProvidersConfig{
			SymbolMasterURL: "https://portfoliohedge.finideas.com/PortFolioPayout/symbols",
			EquityQuoteURL:  "https://query1.finance.yahoo.com",
			FundAPIURL:      "https://api.mfapi.in",
			BenchmarkSymbol: "^NSEI",
			Timeout:         30 * time.Second,
			CacheTTL:        time.Hour,
			RateLimitRPS:    5,
			RateLimitBurst:  5,
		},
		Normalize: NormalizeConfig{
			HeaderPolicy: "label-class",
			ScanDepth:    30,
		},
		Portfolio: PortfolioConfig{
			AggregationPolicy: "additive",
			MaxConcurrency:    8,
			EquityMinCloses:   30,
			EquityMinReturns:  20,
			FundMinCloses:     60,
		},
	}
}

package marketdata

import (
	"log/slog"

	"pfbeta/internal/config"
)

// Providers bundles every external data client the portfolio engine
// needs, built from one configuration block and sharing a single
// rate-limited HTTP client.
type Providers struct {
	Symbols   *SymbolMasterClient
	Equities  *EquityClient
	Funds     *FundClient
	Benchmark *BenchmarkClient
}

// NewProviders wires the provider clients from configuration.
func NewProviders(cfg config.ProvidersConfig, logger *slog.Logger) *Providers {
	if logger == nil {
		logger = slog.Default()
	}

	hc := newHTTPClient(cfg.Timeout, cfg.RateLimitRPS, cfg.RateLimitBurst, logger)

	equities := NewEquityClient(hc, cfg.EquityQuoteURL, logger)

	return &Providers{
		Symbols:   NewSymbolMasterClient(hc, cfg.SymbolMasterURL, cfg.CacheTTL, logger),
		Equities:  equities,
		Funds:     NewFundClient(hc, cfg.FundAPIURL, cfg.CacheTTL, logger),
		Benchmark: NewBenchmarkClient(equities, cfg.BenchmarkSymbol, cfg.CacheTTL, logger),
	}
}

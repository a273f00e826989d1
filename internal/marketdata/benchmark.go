package marketdata

import (
	"context"
	"log/slog"
	"time"
)

// BenchmarkClient serves the market index close series used for beta
// computation. The series is fetched through the equity chart API and
// cached, since every request needs the identical trailing window.
type BenchmarkClient struct {
	symbol string
	cache  *cached[[]Quote]
}

// NewBenchmarkClient creates a cached benchmark series client for the
// given index symbol (e.g. "^NSEI").
func NewBenchmarkClient(equities *EquityClient, symbol string, ttl time.Duration, logger *slog.Logger) *BenchmarkClient {
	if logger == nil {
		logger = slog.Default()
	}
	c := &BenchmarkClient{symbol: symbol}
	c.cache = newCached("benchmark_series", ttl, func(ctx context.Context) ([]Quote, error) {
		quotes, err := equities.fetchChart(ctx, symbol, "1y")
		if err != nil {
			return nil, err
		}
		logger.InfoContext(ctx, "benchmark series loaded",
			slog.String("symbol", symbol),
			slog.Int("observations", len(quotes)),
		)
		return quotes, nil
	})
	return c
}

// Series returns the trailing-year benchmark close series, oldest
// first. Callers must treat the slice as read-only; it is shared across
// requests.
func (c *BenchmarkClient) Series(ctx context.Context) ([]Quote, error) {
	return c.cache.Get(ctx)
}

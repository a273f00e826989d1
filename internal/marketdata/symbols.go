package marketdata

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// SymbolMasterClient resolves equity ISINs to exchange trading symbols
// via the symbol master directory, cached process-wide with a TTL.
type SymbolMasterClient struct {
	http   *httpClient
	url    string
	cache  *cached[map[string]string]
	logger *slog.Logger
}

// symbolEntry is one row of the symbol master response.
type symbolEntry struct {
	ISIN   string `json:"ISIN"`
	Symbol string `json:"SYMBOL"`
}

// NewSymbolMasterClient creates a symbol master client. The directory
// is fetched lazily on first use and refreshed after ttl.
func NewSymbolMasterClient(http *httpClient, url string, ttl time.Duration, logger *slog.Logger) *SymbolMasterClient {
	if logger == nil {
		logger = slog.Default()
	}
	c := &SymbolMasterClient{
		http:   http,
		url:    url,
		logger: logger.With(slog.String("component", "symbol_master")),
	}
	c.cache = newCached("symbol_master", ttl, c.fetch)
	return c
}

func (c *SymbolMasterClient) fetch(ctx context.Context) (map[string]string, error) {
	var entries []symbolEntry
	if err := c.http.getJSON(ctx, "symbol_master", c.url, &entries); err != nil {
		return nil, err
	}

	m := make(map[string]string, len(entries))
	for _, e := range entries {
		isin := normalizeKey(e.ISIN)
		symbol := normalizeKey(e.Symbol)
		if isin != "" && symbol != "" {
			m[isin] = symbol
		}
	}

	if len(m) == 0 {
		return nil, fmt.Errorf("symbol master is empty")
	}

	c.logger.InfoContext(ctx, "symbol master loaded", slog.Int("entries", len(m)))
	return m, nil
}

// Symbol returns the trading symbol for an equity ISIN. The second
// return is false when the ISIN is absent from the master.
func (c *SymbolMasterClient) Symbol(ctx context.Context, isin string) (string, bool, error) {
	m, err := c.cache.Get(ctx)
	if err != nil {
		return "", false, err
	}
	symbol, ok := m[normalizeKey(isin)]
	return symbol, ok, nil
}

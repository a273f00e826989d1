package marketdata

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"
)

// EquityClient fetches equity prices and daily close series from a
// Yahoo-compatible chart API. Symbols are suffixed with the NSE
// exchange qualifier.
type EquityClient struct {
	http    *httpClient
	baseURL string
	logger  *slog.Logger
}

// exchangeSuffix qualifies bare NSE symbols for the quote provider.
const exchangeSuffix = ".NS"

// NewEquityClient creates an equity quote client against baseURL.
func NewEquityClient(http *httpClient, baseURL string, logger *slog.Logger) *EquityClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &EquityClient{
		http:    http,
		baseURL: baseURL,
		logger:  logger.With(slog.String("component", "equity_client")),
	}
}

// chartResponse mirrors the chart API envelope. Close values are
// pointers because non-trading gaps come back as JSON nulls.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// fetchChart fetches a daily close series for an already-qualified
// provider symbol. Equity lookups qualify bare NSE symbols with the
// exchange suffix; index symbols like "^NSEI" pass through as-is.
func (c *EquityClient) fetchChart(ctx context.Context, symbol, rng string) ([]Quote, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=1d",
		c.baseURL, url.PathEscape(symbol), rng)

	var resp chartResponse
	if err := c.http.getJSON(ctx, "equity_quotes", u, &resp); err != nil {
		return nil, err
	}

	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error for %s: %s", symbol, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("no chart data for %s", symbol)
	}

	result := resp.Chart.Result[0]

	// Prefer adjusted closes; they make return series comparable across
	// corporate actions.
	var closes []*float64
	if len(result.Indicators.AdjClose) > 0 && len(result.Indicators.AdjClose[0].AdjClose) > 0 {
		closes = result.Indicators.AdjClose[0].AdjClose
	} else if len(result.Indicators.Quote) > 0 {
		closes = result.Indicators.Quote[0].Close
	}

	quotes := make([]Quote, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		quotes = append(quotes, Quote{
			Date:  time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Close: *closes[i],
		})
	}

	if len(quotes) == 0 {
		return nil, fmt.Errorf("empty close series for %s", symbol)
	}

	SortQuotes(quotes)
	return quotes, nil
}

// LatestPrice returns the most recent traded price for an NSE symbol.
func (c *EquityClient) LatestPrice(ctx context.Context, symbol string) (float64, error) {
	quotes, err := c.fetchChart(ctx, symbol+exchangeSuffix, "5d")
	if err != nil {
		return 0, err
	}
	return quotes[len(quotes)-1].Close, nil
}

// CloseSeries returns one trailing year of daily closes for an NSE
// symbol, oldest first.
func (c *EquityClient) CloseSeries(ctx context.Context, symbol string) ([]Quote, error) {
	return c.fetchChart(ctx, symbol+exchangeSuffix, "1y")
}

package marketdata

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

// navDateLayout is the date format of the fund API's NAV history.
const navDateLayout = "02-01-2006"

// FundClient resolves mutual fund schemes and NAV histories from an
// mfapi-compatible fund directory. The scheme directory (tens of
// thousands of entries, refreshed daily upstream) is cached with a TTL;
// NAV histories are fetched per scheme on demand.
type FundClient struct {
	http    *httpClient
	baseURL string
	dir     *cached[map[string]Scheme]
	logger  *slog.Logger
}

// schemeEntry is one row of the fund directory response.
type schemeEntry struct {
	SchemeCode int    `json:"schemeCode"`
	SchemeName string `json:"schemeName"`
	ISINGrowth string `json:"isinGrowth"`
}

// navHistory is the per-scheme NAV response. NAV values arrive as
// strings, newest first.
type navHistory struct {
	Data []struct {
		Date string `json:"date"`
		NAV  string `json:"nav"`
	} `json:"data"`
}

// NewFundClient creates a fund directory client against baseURL.
func NewFundClient(http *httpClient, baseURL string, ttl time.Duration, logger *slog.Logger) *FundClient {
	if logger == nil {
		logger = slog.Default()
	}
	c := &FundClient{
		http:    http,
		baseURL: baseURL,
		logger:  logger.With(slog.String("component", "fund_client")),
	}
	c.dir = newCached("fund_directory", ttl, c.fetchDirectory)
	return c
}

func (c *FundClient) fetchDirectory(ctx context.Context) (map[string]Scheme, error) {
	var entries []schemeEntry
	if err := c.http.getJSON(ctx, "fund_directory", c.baseURL+"/mf", &entries); err != nil {
		return nil, err
	}

	// Index by growth-option ISIN; holdings sheets carry that variant.
	m := make(map[string]Scheme, len(entries))
	for _, e := range entries {
		isin := normalizeKey(e.ISINGrowth)
		if isin == "" {
			continue
		}
		m[isin] = Scheme{Code: e.SchemeCode, Name: e.SchemeName}
	}

	if len(m) == 0 {
		return nil, fmt.Errorf("fund directory is empty")
	}

	c.logger.InfoContext(ctx, "fund directory loaded", slog.Int("schemes", len(m)))
	return m, nil
}

// SchemeByISIN resolves a fund ISIN to its scheme. The second return is
// false when no scheme lists the ISIN as its growth option.
func (c *FundClient) SchemeByISIN(ctx context.Context, isin string) (Scheme, bool, error) {
	m, err := c.dir.Get(ctx)
	if err != nil {
		return Scheme{}, false, err
	}
	s, ok := m[normalizeKey(isin)]
	return s, ok, nil
}

// NAVSeries returns the full NAV history for a scheme, oldest first.
func (c *FundClient) NAVSeries(ctx context.Context, schemeCode int) ([]Quote, error) {
	var hist navHistory
	u := fmt.Sprintf("%s/mf/%d", c.baseURL, schemeCode)
	if err := c.http.getJSON(ctx, "fund_nav", u, &hist); err != nil {
		return nil, err
	}

	quotes := make([]Quote, 0, len(hist.Data))
	for _, d := range hist.Data {
		date, err := time.Parse(navDateLayout, d.Date)
		if err != nil {
			continue
		}
		nav, err := strconv.ParseFloat(d.NAV, 64)
		if err != nil || nav <= 0 {
			continue
		}
		quotes = append(quotes, Quote{Date: date, Close: nav})
	}

	if len(quotes) == 0 {
		return nil, fmt.Errorf("no NAV history for scheme %d", schemeCode)
	}

	SortQuotes(quotes)
	return quotes, nil
}

// LatestNAV returns the most recent NAV for a scheme.
func (c *FundClient) LatestNAV(ctx context.Context, schemeCode int) (float64, error) {
	quotes, err := c.NAVSeries(ctx, schemeCode)
	if err != nil {
		return 0, err
	}
	return quotes[len(quotes)-1].Close, nil
}

// NAVOn returns the NAV effective on the given date: the most recent
// NAV dated on or before it. Dates before the scheme's history begins
// yield an error.
func (c *FundClient) NAVOn(ctx context.Context, schemeCode int, date time.Time) (float64, error) {
	quotes, err := c.NAVSeries(ctx, schemeCode)
	if err != nil {
		return 0, err
	}

	for i := len(quotes) - 1; i >= 0; i-- {
		if !quotes[i].Date.After(date) {
			return quotes[i].Close, nil
		}
	}
	return 0, fmt.Errorf("no NAV on or before %s for scheme %d", date.Format("2006-01-02"), schemeCode)
}

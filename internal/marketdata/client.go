package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// httpClient wraps the shared HTTP machinery every provider client
// uses: bounded timeout, outbound rate limiting, and request metrics.
type httpClient struct {
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

func newHTTPClient(timeout time.Duration, rps float64, burst int, logger *slog.Logger) *httpClient {
	if logger == nil {
		logger = slog.Default()
	}
	if rps <= 0 {
		rps = 5
	}
	if burst <= 0 {
		burst = int(rps)
	}
	return &httpClient{
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		logger:  logger,
	}
}

// getJSON performs a rate-limited GET and decodes the JSON response
// into v. Non-2xx statuses are errors.
func (c *httpClient) getJSON(ctx context.Context, provider, url string, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	providerRequests.WithLabelValues(provider).Inc()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		providerErrors.WithLabelValues(provider).Inc()
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		providerErrors.WithLabelValues(provider).Inc()
		return fmt.Errorf("%s request failed: %w", provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		providerErrors.WithLabelValues(provider).Inc()
		return fmt.Errorf("%s returned status %d", provider, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		providerErrors.WithLabelValues(provider).Inc()
		return fmt.Errorf("decode %s response: %w", provider, err)
	}

	c.logger.DebugContext(ctx, "provider request completed",
		slog.String("provider", provider),
		slog.String("url", url),
		slog.Duration("duration", time.Since(start)),
	)

	return nil
}

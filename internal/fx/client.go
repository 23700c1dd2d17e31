// Package fx fetches, caches and applies currency exchange rates.
package fx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ndewijer/portfolio-insights/internal/model"
)

// Client defines the interface for fetching exchange rates relative to a base currency.
// This interface enables dependency injection and testing with mock implementations.
type Client interface {
	FetchRates(ctx context.Context, base string) (model.FxSnapshot, error)
}

// RatesResponse represents the raw JSON response of the rates endpoint.
// The shape matches Frankfurter-style services:
//
//	{"amount": 1.0, "base": "EUR", "date": "2024-05-03", "rates": {"USD": 1.0765}}
type RatesResponse struct {
	Amount float64            `json:"amount"`
	Base   string             `json:"base"`
	Date   string             `json:"date"`
	Rates  map[string]float64 `json:"rates"`
}

// HTTPClient fetches exchange rates from an HTTP rates endpoint.
// Outbound requests pass through a rate limiter so a burst of cache misses
// cannot hammer the upstream service.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	now        func() time.Time
}

// NewHTTPClient creates a rates client for the given endpoint.
//
// Parameters:
//   - baseURL: Root of the rates service (e.g. "https://api.frankfurter.app")
//   - timeout: Per-request timeout applied to the underlying http.Client
//   - requestsPerSecond: Outbound request budget; values <= 0 disable limiting
//
// Returns:
//   - *HTTPClient: A new client instance ready for use
func NewHTTPClient(baseURL string, timeout time.Duration, requestsPerSecond float64) *HTTPClient {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &HTTPClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		limiter:    rate.NewLimiter(limit, 1),
		now:        time.Now,
	}
}

// FetchRates issues one GET request for the latest rates of base and converts
// the response into a snapshot.
//
// The returned snapshot has every currency code upper-cased and always
// contains Rates[base] = 1, whatever the upstream returned for it.
//
// Returns:
//   - model.FxSnapshot: Parsed rates keyed by upper-cased currency code
//   - error: If the request fails, the status is not 2xx, or the body is not valid JSON
func (c *HTTPClient) FetchRates(ctx context.Context, base string) (model.FxSnapshot, error) {
	base = strings.ToUpper(strings.TrimSpace(base))
	if base == "" {
		return model.FxSnapshot{}, fmt.Errorf("base currency is required")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return model.FxSnapshot{}, fmt.Errorf("rate limiter: %w", err)
	}

	endpoint := fmt.Sprintf("%s/latest?from=%s", c.baseURL, url.QueryEscape(base))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.FxSnapshot{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.FxSnapshot{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.FxSnapshot{}, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.FxSnapshot{}, fmt.Errorf("rates endpoint returned status %d", resp.StatusCode)
	}

	var response RatesResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return model.FxSnapshot{}, fmt.Errorf("failed to decode rates response: %w", err)
	}

	return ParseRates(base, response, c.now()), nil
}

// ParseRates converts a raw rates response into a snapshot for base.
// Codes are upper-cased, non-positive rates are dropped, and Rates[base] is forced to 1.
func ParseRates(base string, response RatesResponse, fetchedAt time.Time) model.FxSnapshot {
	base = strings.ToUpper(strings.TrimSpace(base))

	rates := make(map[string]float64, len(response.Rates)+1)
	for code, r := range response.Rates {
		if r <= 0 {
			continue
		}
		rates[strings.ToUpper(strings.TrimSpace(code))] = r
	}
	rates[base] = 1

	date := response.Date
	if date == "" {
		date = fetchedAt.UTC().Format("2006-01-02")
	}

	return model.FxSnapshot{
		Base:      base,
		Date:      date,
		Rates:     rates,
		FetchedAt: fetchedAt,
	}
}

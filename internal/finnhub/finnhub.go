// Package finnhub is a typed client for the Finnhub market-data API. Every
// response goes through an explicit parse/validate step: callers receive a
// validated value or a sentinel from the apperrors provider taxonomy, never a
// raw transport error and never a silently zero-filled payload.
package finnhub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/finboard/finance-dashboard-backend/internal/apperrors"
)

const defaultBaseURL = "https://finnhub.io/api/v1"

// KeyProvider supplies the API key for each request. The indirection lets the
// key live encrypted in app_settings with an environment fallback.
type KeyProvider func(ctx context.Context) (string, error)

// StaticKey returns a KeyProvider serving a fixed key.
func StaticKey(key string) KeyProvider {
	return func(context.Context) (string, error) { return key, nil }
}

// Client is the surface the services depend on; tests substitute a mock.
type Client interface {
	Quote(ctx context.Context, symbol string) (Quote, error)
	Candles(ctx context.Context, symbol, resolution string, from, to int64) (Candles, error)
	Profile(ctx context.Context, symbol string) (Profile, error)
	Search(ctx context.Context, query string) ([]SearchResult, error)
	News(ctx context.Context, category string) ([]NewsItem, error)
}

// FinanceClient provides methods for fetching market data from the Finnhub
// API. It wraps an HTTP client with a per-call timeout and converts transport
// failures into the typed provider taxonomy.
type FinanceClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     KeyProvider
}

// NewFinanceClient creates a Finnhub client. The timeout bounds every outbound
// call; an expired deadline surfaces as ErrProviderTimeout.
func NewFinanceClient(apiKey KeyProvider, timeout time.Duration) *FinanceClient {
	return &FinanceClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
	}
}

// Quote fetches a point-in-time snapshot for a symbol.
//
// The provider answers 200 with an all-null body for unknown symbols, so the
// parse step doubles as existence detection: a payload without a current price
// is reported as ErrSymbolNotFound rather than a zero-price quote.
func (c *FinanceClient) Quote(ctx context.Context, symbol string) (Quote, error) {
	params := url.Values{"symbol": {symbol}}

	var raw rawQuote
	if err := c.get(ctx, "/quote", params, &raw); err != nil {
		return Quote{}, err
	}

	return parseQuote(raw)
}

// parseQuote validates the raw payload into a typed Quote. Price, change and
// percent change are required; the remaining fields default to zero, which is
// acceptable once the required trio proves the instrument exists.
func parseQuote(raw rawQuote) (Quote, error) {
	if raw.Current == nil && raw.PreviousClose == nil {
		return Quote{}, apperrors.ErrSymbolNotFound
	}
	if raw.Current == nil || raw.Change == nil || raw.ChangePct == nil {
		return Quote{}, fmt.Errorf("%w: quote missing price fields", apperrors.ErrMalformedResponse)
	}

	q := Quote{
		Current:   *raw.Current,
		Change:    *raw.Change,
		ChangePct: *raw.ChangePct,
	}
	if raw.High != nil {
		q.High = *raw.High
	}
	if raw.Low != nil {
		q.Low = *raw.Low
	}
	if raw.Open != nil {
		q.Open = *raw.Open
	}
	if raw.PreviousClose != nil {
		q.PreviousClose = *raw.PreviousClose
	}
	if raw.Timestamp != nil {
		q.Timestamp = *raw.Timestamp
	}
	if raw.Volume != nil {
		q.Volume = *raw.Volume
	}

	return q, nil
}

// Candles fetches an OHLCV series. An empty series ("no_data") is reported as
// ErrNoData so callers can decide the fallback; mismatched column lengths are
// a malformed response.
func (c *FinanceClient) Candles(ctx context.Context, symbol, resolution string, from, to int64) (Candles, error) {
	params := url.Values{
		"symbol":     {symbol},
		"resolution": {resolution},
		"from":       {fmt.Sprintf("%d", from)},
		"to":         {fmt.Sprintf("%d", to)},
	}

	var candles Candles
	if err := c.get(ctx, "/stock/candle", params, &candles); err != nil {
		return Candles{}, err
	}

	if candles.Status == "no_data" || len(candles.Timestamp) == 0 {
		return Candles{}, apperrors.ErrNoData
	}
	if len(candles.Close) != len(candles.Timestamp) {
		return Candles{}, fmt.Errorf("%w: mismatched candle column lengths", apperrors.ErrMalformedResponse)
	}

	return candles, nil
}

// Profile fetches company metadata for a symbol.
func (c *FinanceClient) Profile(ctx context.Context, symbol string) (Profile, error) {
	params := url.Values{"symbol": {symbol}}

	var profile Profile
	if err := c.get(ctx, "/stock/profile2", params, &profile); err != nil {
		return Profile{}, err
	}

	// Unknown symbols come back as an empty object.
	if profile.Ticker == "" && profile.Name == "" {
		return Profile{}, apperrors.ErrSymbolNotFound
	}

	return profile, nil
}

// Search looks up symbols matching a free-text query.
func (c *FinanceClient) Search(ctx context.Context, query string) ([]SearchResult, error) {
	params := url.Values{"q": {query}}

	var resp searchResponse
	if err := c.get(ctx, "/search", params, &resp); err != nil {
		return nil, err
	}

	if resp.Result == nil {
		return []SearchResult{}, nil
	}

	return resp.Result, nil
}

// News fetches general market news. Category defaults to "general".
func (c *FinanceClient) News(ctx context.Context, category string) ([]NewsItem, error) {
	if category == "" {
		category = "general"
	}
	params := url.Values{"category": {category}}

	var items []NewsItem
	if err := c.get(ctx, "/news", params, &items); err != nil {
		return nil, err
	}

	if items == nil {
		return []NewsItem{}, nil
	}

	return items, nil
}

// get executes one provider request and decodes the JSON body into out.
// Transport and HTTP-status failures are converted into the typed taxonomy
// here so they never leak upward as raw errors.
func (c *FinanceClient) get(ctx context.Context, path string, params url.Values, out any) error {
	key, err := c.apiKey(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve API key: %w", err)
	}
	params.Set("token", key)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrProviderUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%w: %v", apperrors.ErrProviderTimeout, err)
		}
		return fmt.Errorf("%w: %v", apperrors.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrProviderUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.ErrSymbolNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: status %d", apperrors.ErrProviderUnavailable, resp.StatusCode)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrMalformedResponse, err)
	}

	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr) && urlErr.Timeout()
}

package yahoo

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

// Period identifiers accepted by QueryChartByPeriod.
var periodDurations = map[string]time.Duration{
	"1d":  24 * time.Hour,
	"5d":  5 * 24 * time.Hour,
	"1mo": 30 * 24 * time.Hour,
	"3mo": 91 * 24 * time.Hour,
	"6mo": 182 * 24 * time.Hour,
	"1y":  365 * 24 * time.Hour,
}

// Client is the surface the services depend on; tests substitute a mock.
type Client interface {
	QueryLatest(ctx context.Context, symbol string) (Response, error)
	QueryChartByPeriod(ctx context.Context, symbol, period string) (Response, error)
	Search(ctx context.Context, query string) ([]SearchHit, error)
	ParseChart(response Response) (PriceChart, error)
}

// FinanceClient provides methods for fetching financial data from the Yahoo
// Finance chart API. It wraps an HTTP client with a per-call timeout and
// converts transport failures into the typed provider taxonomy.
type FinanceClient struct {
	httpClient *http.Client
	chartURL   string
	searchURL  string
}

// NewFinanceClient creates a new Yahoo Finance client with the given per-call
// timeout.
func NewFinanceClient(timeout time.Duration) *FinanceClient {
	return &FinanceClient{
		httpClient: &http.Client{Timeout: timeout},
		chartURL:   "https://query1.finance.yahoo.com/v8/finance/chart",
		searchURL:  "https://query1.finance.yahoo.com/v1/finance/search",
	}
}

// ParseChart converts a raw Yahoo Finance API response into a structured price
// chart, extracting OHLCV points and symbol metadata.
//
// The method performs validation to ensure:
//   - A result is present
//   - Timestamp and close data are present
//   - Data arrays have matching lengths
func (c *FinanceClient) ParseChart(response Response) (PriceChart, error) {
	if len(response.Chart.Result) == 0 {
		return PriceChart{}, apperrors.ErrNoData
	}

	result := response.Chart.Result[0]

	if len(result.Timestamp) == 0 {
		return PriceChart{}, fmt.Errorf("%w: no price data returned", apperrors.ErrNoData)
	}
	if len(result.Indicators.Quote) == 0 || len(result.Indicators.Quote[0].Close) == 0 {
		return PriceChart{}, fmt.Errorf("%w: no close prices returned", apperrors.ErrNoData)
	}
	if len(result.Indicators.Quote[0].Close) != len(result.Timestamp) {
		return PriceChart{}, fmt.Errorf("%w: mismatched data lengths", apperrors.ErrMalformedResponse)
	}

	quote := result.Indicators.Quote[0]

	indicators := make([]OHLCV, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		indicators[i].Date = time.Unix(ts, 0).UTC()
		indicators[i].Close = quote.Close[i]
		if i < len(quote.Open) {
			indicators[i].Open = quote.Open[i]
		}
		if i < len(quote.High) {
			indicators[i].High = quote.High[i]
		}
		if i < len(quote.Low) {
			indicators[i].Low = quote.Low[i]
		}
		if i < len(quote.Volume) {
			indicators[i].Volume = quote.Volume[i]
		}
	}

	name := result.Meta.LongName
	if name == "" {
		name = result.Meta.ShortName
	}
	if name == "" {
		name = result.Meta.Symbol
	}

	return PriceChart{
		Currency:   result.Meta.Currency,
		Symbol:     result.Meta.Symbol,
		Exchange:   result.Meta.FullExchangeName,
		Name:       name,
		Indicators: indicators,
	}, nil
}

// LatestQuote derives the dashboard quote shape from a parsed chart: the last
// close as the price, and change figures against the close before it. A chart
// with a single point reports zero change.
func (c PriceChart) LatestQuote() StockQuote {
	last := c.Indicators[len(c.Indicators)-1]

	q := StockQuote{
		Symbol: c.Symbol,
		Name:   c.Name,
		Price:  last.Close,
		Volume: last.Volume,
	}

	if len(c.Indicators) > 1 {
		prev := c.Indicators[len(c.Indicators)-2]
		q.Change = last.Close - prev.Close
		if prev.Close != 0 {
			q.ChangePct = q.Change / prev.Close * 100
		}
	}

	return q
}

// QueryLatest fetches the last 5 days of daily price data for a symbol,
// enough to derive the latest close and its change against the prior close.
func (c *FinanceClient) QueryLatest(ctx context.Context, symbol string) (Response, error) {
	u := fmt.Sprintf("%s/%s?interval=1d&range=5d", c.chartURL, url.PathEscape(symbol))
	return c.queryChart(ctx, u, symbol)
}

// QueryChartByPeriod fetches daily price data for a symbol over a named
// period (1d, 5d, 1mo, 3mo, 6mo, 1y). Unknown periods default to one month.
func (c *FinanceClient) QueryChartByPeriod(ctx context.Context, symbol, period string) (Response, error) {
	duration, ok := periodDurations[period]
	if !ok {
		duration = periodDurations["1mo"]
	}

	end := time.Now()
	start := end.Add(-duration)

	u := fmt.Sprintf(
		"%s/%s?interval=1d&period1=%d&period2=%d",
		c.chartURL,
		url.PathEscape(symbol),
		start.Unix(),
		end.Unix(),
	)
	return c.queryChart(ctx, u, symbol)
}

// Search looks up symbols matching a free-text query, filtered to equities
// and ETFs the way the dashboard presents results.
func (c *FinanceClient) Search(ctx context.Context, query string) ([]SearchHit, error) {
	u := fmt.Sprintf("%s?q=%s&quotesCount=10&newsCount=0", c.searchURL, url.QueryEscape(query))

	data, err := c.fetch(ctx, u)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedResponse, err)
	}

	hits := []SearchHit{}
	for _, q := range resp.Quotes {
		if q.QuoteType != "EQUITY" && q.QuoteType != "ETF" {
			continue
		}
		name := q.LongName
		if name == "" {
			name = q.ShortName
		}
		hits = append(hits, SearchHit{
			Symbol:   q.Symbol,
			Name:     name,
			Type:     q.QuoteType,
			Exchange: q.Exchange,
		})
	}

	return hits, nil
}

// queryChart executes a chart request and checks the provider's embedded
// error envelope.
func (c *FinanceClient) queryChart(ctx context.Context, u, symbol string) (Response, error) {
	data, err := c.fetch(ctx, u)
	if err != nil {
		return Response{}, err
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		return Response{}, fmt.Errorf("%w: %v", apperrors.ErrMalformedResponse, err)
	}

	if response.Chart.Error != nil {
		return Response{}, fmt.Errorf("%w: %s", apperrors.ErrSymbolNotFound, response.Chart.Error.Description)
	}
	if len(response.Chart.Result) == 0 {
		return Response{}, fmt.Errorf("%w: no results returned for symbol %s", apperrors.ErrNoData, symbol)
	}

	return response, nil
}

// fetch executes one HTTP request. The User-Agent mimics a browser because
// Yahoo blocks default Go clients.
func (c *FinanceClient) fetch(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrProviderUnavailable, err)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrProviderTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrProviderUnavailable, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperrors.ErrSymbolNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", apperrors.ErrProviderUnavailable, resp.StatusCode)
	}

	return data, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr) && urlErr.Timeout()
}

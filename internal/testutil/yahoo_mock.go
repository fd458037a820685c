package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/finboard/finance-dashboard-backend/internal/yahoo"
)

// MockYahooClient is a mock implementation of yahoo.Client for testing.
// It returns predefined test data instead of making actual API calls and is
// safe for the concurrent fan-out the services perform.
type MockYahooClient struct {
	mu sync.Mutex

	// MockResponse is the response returned when no per-symbol response is set
	MockResponse yahoo.Response
	// MockError is the error to return from query methods
	MockError error
	// ResponseBySymbol overrides MockResponse for specific symbols
	ResponseBySymbol map[string]yahoo.Response
	// ErrorBySymbol overrides MockError for specific symbols
	ErrorBySymbol map[string]error
	// SearchHits is returned from Search
	SearchHits []yahoo.SearchHit
	// QueryCount tracks how many times a query method was called
	QueryCount int
}

// NewMockYahooClient creates a new mock Yahoo client with default test data:
// five days of prices ending at 160, good for change calculations.
func NewMockYahooClient() *MockYahooClient {
	return &MockYahooClient{
		MockResponse:     CreateMockYahooResponse("AAPL", []float64{150, 152, 155, 158, 160}),
		ResponseBySymbol: make(map[string]yahoo.Response),
		ErrorBySymbol:    make(map[string]error),
	}
}

func (m *MockYahooClient) respond(symbol string) (yahoo.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.QueryCount++

	if err, ok := m.ErrorBySymbol[symbol]; ok {
		return yahoo.Response{}, err
	}
	if m.MockError != nil {
		return yahoo.Response{}, m.MockError
	}
	if resp, ok := m.ResponseBySymbol[symbol]; ok {
		return resp, nil
	}
	return m.MockResponse, nil
}

// QueryLatest mocks the latest-quote query with predefined test data.
func (m *MockYahooClient) QueryLatest(_ context.Context, symbol string) (yahoo.Response, error) {
	return m.respond(symbol)
}

// QueryChartByPeriod mocks the named-period chart query with predefined test data.
func (m *MockYahooClient) QueryChartByPeriod(_ context.Context, symbol, _ string) (yahoo.Response, error) {
	return m.respond(symbol)
}

// Search mocks symbol search, returning the configured hits.
func (m *MockYahooClient) Search(_ context.Context, _ string) ([]yahoo.SearchHit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.QueryCount++
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.SearchHits, nil
}

// ParseChart delegates to the real ParseChart method since it's pure logic with no side effects.
func (m *MockYahooClient) ParseChart(response yahoo.Response) (yahoo.PriceChart, error) {
	client := yahoo.NewFinanceClient(time.Second)
	return client.ParseChart(response)
}

// WithError configures the mock to return the specified error.
func (m *MockYahooClient) WithError(err error) *MockYahooClient {
	m.MockError = err
	return m
}

// WithSymbolError configures the mock to fail lookups for one symbol only.
func (m *MockYahooClient) WithSymbolError(symbol string, err error) *MockYahooClient {
	m.ErrorBySymbol[symbol] = err
	return m
}

// WithSymbolResponse configures the mock's response for one symbol.
func (m *MockYahooClient) WithSymbolResponse(symbol string, resp yahoo.Response) *MockYahooClient {
	m.ResponseBySymbol[symbol] = resp
	return m
}

// WithSymbolPrices configures a response for one symbol from a close series.
func (m *MockYahooClient) WithSymbolPrices(symbol string, closes []float64) *MockYahooClient {
	m.ResponseBySymbol[symbol] = CreateMockYahooResponse(symbol, closes)
	return m
}

// WithSearchHits configures the mock's search results.
func (m *MockYahooClient) WithSearchHits(hits []yahoo.SearchHit) *MockYahooClient {
	m.SearchHits = hits
	return m
}

// WithEmptyResponse configures the mock to return an empty response (no data).
func (m *MockYahooClient) WithEmptyResponse() *MockYahooClient {
	m.MockResponse = yahoo.Response{
		Chart: yahoo.Chart{
			Result: []yahoo.Result{},
		},
	}
	return m
}

// Calls returns the number of query calls the mock has served.
func (m *MockYahooClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.QueryCount
}

// CreateMockYahooResponse creates a mock Yahoo Finance API response with one
// daily data point per close, ending yesterday. Open, high, low, and volume
// are derived from the close so every parallel array has matching length.
func CreateMockYahooResponse(symbol string, closes []float64) yahoo.Response {
	days := len(closes)
	end := time.Now().UTC().Truncate(24 * time.Hour)

	var result yahoo.Result
	result.Meta.Currency = "USD"
	result.Meta.Symbol = symbol
	result.Meta.ExchangeName = "NMS"
	result.Meta.FullExchangeName = "NasdaqGS"
	result.Meta.LongName = symbol + " Test Inc."

	timestamps := make([]int64, days)
	opens := make([]float64, days)
	highs := make([]float64, days)
	lows := make([]float64, days)
	volumes := make([]int64, days)

	for i, c := range closes {
		timestamps[i] = end.AddDate(0, 0, i-days).Unix()
		opens[i] = c - 1
		highs[i] = c + 2
		lows[i] = c - 2
		volumes[i] = 1_000_000
	}

	result.Timestamp = timestamps
	result.Indicators.Quote = []struct {
		Open   []float64 `json:"open"`
		Close  []float64 `json:"close"`
		Volume []int64   `json:"volume"`
		High   []float64 `json:"high"`
		Low    []float64 `json:"low"`
	}{{
		Open:   opens,
		Close:  closes,
		Volume: volumes,
		High:   highs,
		Low:    lows,
	}}

	return yahoo.Response{Chart: yahoo.Chart{Result: []yahoo.Result{result}}}
}

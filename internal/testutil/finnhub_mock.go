package testutil

import (
	"context"
	"sync"

	"github.com/finboard/finance-dashboard-backend/internal/finnhub"
)

// MockFinnhubClient is a mock implementation of finnhub.Client for testing.
//
// Example usage:
//
//	mock := testutil.NewMockFinnhubClient()
//	mock.MockQuote = finnhub.Quote{Current: 160, Change: 10, ChangePct: 6.67}
type MockFinnhubClient struct {
	mu sync.Mutex

	MockQuote      finnhub.Quote
	MockCandles    finnhub.Candles
	MockProfile    finnhub.Profile
	MockResults    []finnhub.SearchResult
	MockNews       []finnhub.NewsItem
	MockError      error
	RequestCount   int
	LastSymbol     string
	LastQuery      string
	LastCategory   string
	LastResolution string
}

// NewMockFinnhubClient creates a mock with a plausible default quote.
func NewMockFinnhubClient() *MockFinnhubClient {
	return &MockFinnhubClient{
		MockQuote: finnhub.Quote{
			Current:       160,
			Change:        10,
			ChangePct:     6.67,
			High:          162,
			Low:           149,
			Open:          150,
			PreviousClose: 150,
		},
		MockCandles: finnhub.Candles{
			Close:     []float64{150, 155, 160},
			High:      []float64{152, 157, 162},
			Low:       []float64{148, 153, 158},
			Open:      []float64{149, 154, 159},
			Status:    "ok",
			Timestamp: []int64{1700000000, 1700086400, 1700172800},
			Volume:    []float64{1000, 1100, 1200},
		},
		MockProfile: finnhub.Profile{
			Name:     "Apple Inc",
			Ticker:   "AAPL",
			Exchange: "NASDAQ",
			Currency: "USD",
		},
	}
}

// WithError configures the mock to fail every call with the given error.
func (m *MockFinnhubClient) WithError(err error) *MockFinnhubClient {
	m.MockError = err
	return m
}

func (m *MockFinnhubClient) record(symbol, query, category, resolution string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount++
	if symbol != "" {
		m.LastSymbol = symbol
	}
	if query != "" {
		m.LastQuery = query
	}
	if category != "" {
		m.LastCategory = category
	}
	if resolution != "" {
		m.LastResolution = resolution
	}
	return m.MockError
}

// Quote returns the configured quote or error.
func (m *MockFinnhubClient) Quote(_ context.Context, symbol string) (finnhub.Quote, error) {
	if err := m.record(symbol, "", "", ""); err != nil {
		return finnhub.Quote{}, err
	}
	return m.MockQuote, nil
}

// Candles returns the configured candle series or error.
func (m *MockFinnhubClient) Candles(_ context.Context, symbol, resolution string, _, _ int64) (finnhub.Candles, error) {
	if err := m.record(symbol, "", "", resolution); err != nil {
		return finnhub.Candles{}, err
	}
	return m.MockCandles, nil
}

// Profile returns the configured company profile or error.
func (m *MockFinnhubClient) Profile(_ context.Context, symbol string) (finnhub.Profile, error) {
	if err := m.record(symbol, "", "", ""); err != nil {
		return finnhub.Profile{}, err
	}
	return m.MockProfile, nil
}

// Search returns the configured search results or error.
func (m *MockFinnhubClient) Search(_ context.Context, query string) ([]finnhub.SearchResult, error) {
	if err := m.record("", query, "", ""); err != nil {
		return nil, err
	}
	return m.MockResults, nil
}

// News returns the configured news items or error.
func (m *MockFinnhubClient) News(_ context.Context, category string) ([]finnhub.NewsItem, error) {
	if err := m.record("", "", category, ""); err != nil {
		return nil, err
	}
	return m.MockNews, nil
}

package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/finboard/finance-dashboard-backend/internal/api/handlers"
	"github.com/finboard/finance-dashboard-backend/internal/apperrors"
	"github.com/finboard/finance-dashboard-backend/internal/testutil"
	"github.com/finboard/finance-dashboard-backend/internal/yahoo"
)

// TestMarketHandler tests the Yahoo-backed market endpoints.
func TestMarketHandler(t *testing.T) {
	t.Run("Quote returns the latest quote", func(t *testing.T) {
		mock := testutil.NewMockYahooClient().WithSymbolPrices("AAPL", []float64{150, 160})
		handler := handlers.NewMarketHandler(testutil.NewTestMarketService(t, mock))

		req := testutil.NewRequestWithURLParams(
			http.MethodGet,
			"/api/market/quote/AAPL",
			map[string]string{"symbol": "AAPL"},
		)
		w := httptest.NewRecorder()

		handler.Quote(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var quote yahoo.StockQuote
		if err := json.NewDecoder(w.Body).Decode(&quote); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if quote.Price != 160 {
			t.Errorf("Expected price 160, got %v", quote.Price)
		}
	})

	t.Run("Quote rejects malformed symbols", func(t *testing.T) {
		handler := handlers.NewMarketHandler(testutil.NewTestMarketService(t, testutil.NewMockYahooClient()))

		req := testutil.NewRequestWithURLParams(
			http.MethodGet,
			"/api/market/quote/not%20a%20symbol",
			map[string]string{"symbol": "not a symbol"},
		)
		w := httptest.NewRecorder()

		handler.Quote(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})

	t.Run("Quote maps provider timeouts to 504", func(t *testing.T) {
		mock := testutil.NewMockYahooClient().WithError(apperrors.ErrProviderTimeout)
		handler := handlers.NewMarketHandler(testutil.NewTestMarketService(t, mock))

		req := testutil.NewRequestWithURLParams(
			http.MethodGet,
			"/api/market/quote/AAPL",
			map[string]string{"symbol": "AAPL"},
		)
		w := httptest.NewRecorder()

		handler.Quote(w, req)

		if w.Code != http.StatusGatewayTimeout {
			t.Errorf("Expected status 504, got %d", w.Code)
		}
	})

	t.Run("History defaults the period and returns the chart", func(t *testing.T) {
		handler := handlers.NewMarketHandler(testutil.NewTestMarketService(t, testutil.NewMockYahooClient()))

		req := testutil.NewRequestWithURLParams(
			http.MethodGet,
			"/api/market/history/AAPL",
			map[string]string{"symbol": "AAPL"},
		)
		w := httptest.NewRecorder()

		handler.History(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var chart yahoo.PriceChart
		if err := json.NewDecoder(w.Body).Decode(&chart); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(chart.Indicators) == 0 {
			t.Error("Expected a non-empty price series")
		}
	})

	t.Run("History rejects unknown periods", func(t *testing.T) {
		handler := handlers.NewMarketHandler(testutil.NewTestMarketService(t, testutil.NewMockYahooClient()))

		req := testutil.NewRequestWithURLParams(
			http.MethodGet,
			"/api/market/history/AAPL",
			map[string]string{"symbol": "AAPL"},
		)
		q := req.URL.Query()
		q.Set("period", "17y")
		req.URL.RawQuery = q.Encode()
		w := httptest.NewRecorder()

		handler.History(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400 for period 17y, got %d", w.Code)
		}
	})

	t.Run("Search with a blank query returns an empty list", func(t *testing.T) {
		mock := testutil.NewMockYahooClient()
		handler := handlers.NewMarketHandler(testutil.NewTestMarketService(t, mock))

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/market/search", map[string]string{"q": "  "})
		w := httptest.NewRecorder()

		handler.Search(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		var hits []yahoo.SearchHit
		if err := json.NewDecoder(w.Body).Decode(&hits); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(hits) != 0 {
			t.Errorf("Expected no hits for a blank query, got %d", len(hits))
		}
		if mock.Calls() != 0 {
			t.Errorf("Expected no upstream calls for a blank query, got %d", mock.Calls())
		}
	})

	t.Run("Trending returns quotes", func(t *testing.T) {
		handler := handlers.NewMarketHandler(testutil.NewTestMarketService(t, testutil.NewMockYahooClient()))

		w := httptest.NewRecorder()
		handler.Trending(w, httptest.NewRequest(http.MethodGet, "/api/market/trending", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var quotes []yahoo.StockQuote
		if err := json.NewDecoder(w.Body).Decode(&quotes); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(quotes) == 0 {
			t.Error("Expected a non-empty trending panel")
		}
	})

	t.Run("Gainers returns 502 when every lookup fails", func(t *testing.T) {
		mock := testutil.NewMockYahooClient().WithError(apperrors.ErrProviderUnavailable)
		handler := handlers.NewMarketHandler(testutil.NewTestMarketService(t, mock))

		w := httptest.NewRecorder()
		handler.Gainers(w, httptest.NewRequest(http.MethodGet, "/api/market/gainers", nil))

		if w.Code != http.StatusBadGateway {
			t.Errorf("Expected status 502, got %d", w.Code)
		}
	})
}

package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/finboard/finance-dashboard-backend/internal/api/handlers"
	"github.com/finboard/finance-dashboard-backend/internal/apperrors"
	"github.com/finboard/finance-dashboard-backend/internal/finnhub"
	"github.com/finboard/finance-dashboard-backend/internal/testutil"
)

// TestMarketDataProxy tests the action-based Finnhub proxy endpoint.
func TestMarketDataProxy(t *testing.T) {
	t.Run("quote action returns the quote", func(t *testing.T) {
		mock := testutil.NewMockFinnhubClient()
		handler := handlers.NewMarketDataHandler(mock)

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/marketdata",
			map[string]string{"action": "quote", "symbol": "AAPL"})
		w := httptest.NewRecorder()

		handler.Proxy(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var quote finnhub.Quote
		if err := json.NewDecoder(w.Body).Decode(&quote); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if quote.Current != 160 {
			t.Errorf("Expected current price 160, got %v", quote.Current)
		}
		if mock.LastSymbol != "AAPL" {
			t.Errorf("Expected symbol AAPL passed upstream, got %q", mock.LastSymbol)
		}
	})

	t.Run("candles action requires a valid range", func(t *testing.T) {
		handler := handlers.NewMarketDataHandler(testutil.NewMockFinnhubClient())

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/marketdata",
			map[string]string{"action": "candles", "symbol": "AAPL", "from": "2000", "to": "1000"})
		w := httptest.NewRecorder()

		handler.Proxy(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400 for inverted range, got %d", w.Code)
		}
	})

	t.Run("candles action defaults the resolution to daily", func(t *testing.T) {
		mock := testutil.NewMockFinnhubClient()
		handler := handlers.NewMarketDataHandler(mock)

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/marketdata",
			map[string]string{"action": "candles", "symbol": "AAPL", "from": "1000", "to": "2000"})
		w := httptest.NewRecorder()

		handler.Proxy(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}
		if mock.LastResolution != "D" {
			t.Errorf("Expected default resolution D, got %q", mock.LastResolution)
		}
	})

	t.Run("search action with a blank query skips the provider", func(t *testing.T) {
		mock := testutil.NewMockFinnhubClient()
		handler := handlers.NewMarketDataHandler(mock)

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/marketdata",
			map[string]string{"action": "search"})
		w := httptest.NewRecorder()

		handler.Proxy(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		if mock.RequestCount != 0 {
			t.Errorf("Expected no upstream calls, got %d", mock.RequestCount)
		}
	})

	t.Run("news action defaults the category to general", func(t *testing.T) {
		mock := testutil.NewMockFinnhubClient()
		mock.MockNews = []finnhub.NewsItem{{Headline: "Markets rally", Source: "wire"}}
		handler := handlers.NewMarketDataHandler(mock)

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/marketdata",
			map[string]string{"action": "news"})
		w := httptest.NewRecorder()

		handler.Proxy(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}
		if mock.LastCategory != "general" {
			t.Errorf("Expected default category general, got %q", mock.LastCategory)
		}

		var items []finnhub.NewsItem
		if err := json.NewDecoder(w.Body).Decode(&items); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(items) != 1 || items[0].Headline != "Markets rally" {
			t.Errorf("Expected the mocked news item back, got %+v", items)
		}
	})

	t.Run("unknown action returns 400", func(t *testing.T) {
		handler := handlers.NewMarketDataHandler(testutil.NewMockFinnhubClient())

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/marketdata",
			map[string]string{"action": "dividends"})
		w := httptest.NewRecorder()

		handler.Proxy(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})

	t.Run("provider failures map to 502", func(t *testing.T) {
		mock := testutil.NewMockFinnhubClient().WithError(apperrors.ErrProviderUnavailable)
		handler := handlers.NewMarketDataHandler(mock)

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/marketdata",
			map[string]string{"action": "profile", "symbol": "AAPL"})
		w := httptest.NewRecorder()

		handler.Proxy(w, req)

		if w.Code != http.StatusBadGateway {
			t.Errorf("Expected status 502, got %d", w.Code)
		}
	})
}

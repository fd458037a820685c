package service

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/finboard/finance-dashboard-backend/internal/apperrors"
	"github.com/finboard/finance-dashboard-backend/internal/yahoo"
)

// trendingSymbols is the curated universe scanned for the trending, gainers,
// and losers panels. Mirrors the large-cap set the dashboard ships with.
var trendingSymbols = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA", "BRK-B",
	"JPM", "V", "UNH", "JNJ", "WMT", "XOM", "PG", "MA",
}

// MarketService serves market data lookups backed by the Yahoo Finance chart
// API: quotes, historical OHLCV series, symbol search, and the market-movers
// panels. It holds no state beyond the upstream client.
type MarketService struct {
	market yahoo.Client
}

// NewMarketService creates a new MarketService with the provided market data
// client.
func NewMarketService(market yahoo.Client) *MarketService {
	return &MarketService{market: market}
}

// GetQuote returns the latest quote for a symbol: last close plus change
// figures against the prior close.
func (s *MarketService) GetQuote(ctx context.Context, symbol string) (yahoo.StockQuote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return yahoo.StockQuote{}, apperrors.ErrInvalidSymbol
	}

	resp, err := s.market.QueryLatest(ctx, symbol)
	if err != nil {
		return yahoo.StockQuote{}, err
	}
	chart, err := s.market.ParseChart(resp)
	if err != nil {
		return yahoo.StockQuote{}, err
	}
	return chart.LatestQuote(), nil
}

// GetHistoricalData returns the daily OHLCV series of a symbol for a named
// period (1d, 5d, 1mo, 3mo, 6mo, 1y).
func (s *MarketService) GetHistoricalData(ctx context.Context, symbol, period string) (yahoo.PriceChart, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return yahoo.PriceChart{}, apperrors.ErrInvalidSymbol
	}

	resp, err := s.market.QueryChartByPeriod(ctx, symbol, period)
	if err != nil {
		return yahoo.PriceChart{}, err
	}
	return s.market.ParseChart(resp)
}

// SearchStocks searches for tradable instruments matching the query. Results
// are already filtered to equities and ETFs by the client.
func (s *MarketService) SearchStocks(ctx context.Context, query string) ([]yahoo.SearchHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []yahoo.SearchHit{}, nil
	}
	return s.market.Search(ctx, query)
}

// GetTrendingStocks returns quotes for the curated trending universe in its
// configured order. Symbols whose lookup fails are dropped from the result
// rather than failing the panel.
func (s *MarketService) GetTrendingStocks(ctx context.Context) ([]yahoo.StockQuote, error) {
	return s.fanOutQuotes(ctx, trendingSymbols)
}

// GetDailyGainers returns the trending universe sorted by percent change
// descending, limited to the top ten.
func (s *MarketService) GetDailyGainers(ctx context.Context) ([]yahoo.StockQuote, error) {
	quotes, err := s.fanOutQuotes(ctx, trendingSymbols)
	if err != nil {
		return nil, err
	}

	sort.Slice(quotes, func(i, j int) bool { return quotes[i].ChangePct > quotes[j].ChangePct })
	return topMovers(quotes, func(q yahoo.StockQuote) bool { return q.ChangePct > 0 }), nil
}

// GetDailyLosers returns the trending universe sorted by percent change
// ascending, limited to the ten worst performers.
func (s *MarketService) GetDailyLosers(ctx context.Context) ([]yahoo.StockQuote, error) {
	quotes, err := s.fanOutQuotes(ctx, trendingSymbols)
	if err != nil {
		return nil, err
	}

	sort.Slice(quotes, func(i, j int) bool { return quotes[i].ChangePct < quotes[j].ChangePct })
	return topMovers(quotes, func(q yahoo.StockQuote) bool { return q.ChangePct < 0 }), nil
}

const moversLimit = 10

func topMovers(quotes []yahoo.StockQuote, keep func(yahoo.StockQuote) bool) []yahoo.StockQuote {
	movers := make([]yahoo.StockQuote, 0, moversLimit)
	for _, q := range quotes {
		if !keep(q) {
			continue
		}
		movers = append(movers, q)
		if len(movers) == moversLimit {
			break
		}
	}
	return movers
}

// fanOutQuotes fetches quotes for the given symbols concurrently, preserving
// input order and silently dropping symbols that fail. It only errors when
// every single lookup failed, which points at the provider rather than the
// symbols.
func (s *MarketService) fanOutQuotes(ctx context.Context, symbols []string) ([]yahoo.StockQuote, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentQuotes)

	var mu sync.Mutex
	results := make(map[string]yahoo.StockQuote, len(symbols))

	for _, symbol := range symbols {
		symbol := symbol
		g.Go(func() error {
			quote, err := s.GetQuote(gctx, symbol)
			if err != nil {
				log.Printf("market fan-out: quote failed for %s: %v", symbol, err)
				return nil
			}
			mu.Lock()
			results[symbol] = quote
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()

	if len(results) == 0 {
		return nil, apperrors.ErrProviderUnavailable
	}

	quotes := make([]yahoo.StockQuote, 0, len(results))
	for _, symbol := range symbols {
		if q, ok := results[symbol]; ok {
			quotes = append(quotes, q)
		}
	}
	return quotes, nil
}

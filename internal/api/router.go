package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/finboard/finance-dashboard-backend/internal/api/handlers"
	custommiddleware "github.com/finboard/finance-dashboard-backend/internal/api/middleware"
	"github.com/finboard/finance-dashboard-backend/internal/config"
	"github.com/finboard/finance-dashboard-backend/internal/finnhub"
	"github.com/finboard/finance-dashboard-backend/internal/service"
)

// Services bundles the service dependencies of the router.
type Services struct {
	System    *service.SystemService
	Portfolio *service.PortfolioService
	Market    *service.MarketService
	Watchlist *service.WatchlistService
	Settings  *service.SettingsService
	Finnhub   finnhub.Client
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			settingsHandler := handlers.NewSettingsHandler(svc.Settings)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
			r.Get("/settings", settingsHandler.Get)
			r.Put("/settings", settingsHandler.Update)
		})

		// Market data: no session required, lookups are not user-scoped
		r.Route("/market", func(r chi.Router) {
			marketHandler := handlers.NewMarketHandler(svc.Market)
			r.Get("/quote/{symbol}", marketHandler.Quote)
			r.Get("/history/{symbol}", marketHandler.History)
			r.Get("/search", marketHandler.Search)
			r.Get("/trending", marketHandler.Trending)
			r.Get("/gainers", marketHandler.Gainers)
			r.Get("/losers", marketHandler.Losers)
		})

		// Finnhub proxy
		marketDataHandler := handlers.NewMarketDataHandler(svc.Finnhub)
		r.Get("/marketdata", marketDataHandler.Proxy)

		// User-scoped routes behind the session middleware
		r.Group(func(r chi.Router) {
			r.Use(custommiddleware.Session)

			r.Route("/portfolio", func(r chi.Router) {
				portfolioHandler := handlers.NewPortfolioHandler(svc.Portfolio)
				r.Get("/", portfolioHandler.Snapshot)
				r.Get("/transactions", portfolioHandler.Transactions)
				r.Post("/buy", portfolioHandler.Buy)
				r.Post("/sell", portfolioHandler.Sell)
				r.Put("/holdings", portfolioHandler.EditHolding)
				r.Delete("/holdings/{symbol}", portfolioHandler.RemoveHolding)
				r.Post("/cash/deposit", portfolioHandler.Deposit)
				r.Post("/cash/withdraw", portfolioHandler.Withdraw)
			})

			r.Route("/watchlist", func(r chi.Router) {
				watchlistHandler := handlers.NewWatchlistHandler(svc.Watchlist)
				r.Get("/", watchlistHandler.Get)
				r.Post("/", watchlistHandler.Add)
				r.Delete("/{symbol}", watchlistHandler.Remove)
			})
		})
	})

	return r
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/finboard/finance-dashboard-backend/internal/api"
	"github.com/finboard/finance-dashboard-backend/internal/config"
	"github.com/finboard/finance-dashboard-backend/internal/database"
	"github.com/finboard/finance-dashboard-backend/internal/finnhub"
	"github.com/finboard/finance-dashboard-backend/internal/refresh"
	"github.com/finboard/finance-dashboard-backend/internal/repository"
	"github.com/finboard/finance-dashboard-backend/internal/secrets"
	"github.com/finboard/finance-dashboard-backend/internal/service"
	"github.com/finboard/finance-dashboard-backend/internal/yahoo"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Apply pending migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Settings secrets are encrypted at rest. Without a configured key a
	// fresh one is generated, which is fine for single-node deployments.
	secretKey := cfg.MarketData.SecretKey
	if secretKey == "" {
		secretKey, err = secrets.GenerateKey()
		if err != nil {
			log.Fatalf("Failed to generate settings key: %v", err)
		}
		log.Println("SETTINGS_SECRET_KEY not set, generated an ephemeral key")
	}
	encryptor, err := secrets.NewEncryptor(secretKey)
	if err != nil {
		log.Fatalf("Failed to initialize settings encryption: %v", err)
	}

	// Create repositories
	portfolioRepo := repository.NewPortfolioRepository(db)
	holdingRepo := repository.NewHoldingRepository(db)
	cashRepo := repository.NewCashRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	watchlistRepo := repository.NewWatchlistRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Create services
	systemService := service.NewSystemService(db)
	settingsService := service.NewSettingsService(settingsRepo, encryptor, cfg.MarketData.FinnhubAPIKey)

	yahooClient := yahoo.NewFinanceClient(cfg.MarketData.RequestTimeout)
	finnhubClient := finnhub.NewFinanceClient(settingsService.FinnhubKey, cfg.MarketData.RequestTimeout)

	marketService := service.NewMarketService(yahooClient)
	portfolioService := service.NewPortfolioService(
		db,
		portfolioRepo,
		holdingRepo,
		cashRepo,
		transactionRepo,
		yahooClient,
		cfg.Portfolio.LogEditTransactions,
	)
	watchlistService := service.NewWatchlistService(watchlistRepo, marketService)

	// Background price refresh
	scheduler := refresh.NewScheduler(portfolioService, cfg.MarketData.RefreshSchedule)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start price refresh scheduler: %v", err)
	}

	// Create router
	router := api.NewRouter(api.Services{
		System:    systemService,
		Portfolio: portfolioService,
		Market:    marketService,
		Watchlist: watchlistService,
		Settings:  settingsService,
		Finnhub:   finnhubClient,
	}, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	scheduler.Stop()
	portfolioService.Close()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

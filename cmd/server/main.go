package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/api"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/config"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/database"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/quote"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/repository"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/service"
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

	// Apply pending schema migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Create repositories
	transactionRepo := repository.NewTransactionRepository(db)
	batchRepo := repository.NewImportBatchRepository(db)

	// Quote lookup with in-memory TTL cache
	quoteCache := quote.NewCache(
		quote.NewFinanceClient(),
		time.Duration(cfg.Quote.CacheTTLMinutes)*time.Minute,
	)

	// Create services
	systemService := service.NewSystemService(db)
	transactionService := service.NewTransactionService(
		transactionRepo,
		cfg.Import.AllowDuplicates,
	)
	holdingsService := service.NewHoldingsService(
		transactionRepo,
		quoteCache,
	)
	realizedService := service.NewRealizedPnlService(
		transactionRepo,
	)
	importService := service.NewImportService(
		db,
		transactionRepo,
		batchRepo,
		cfg.Import,
	)
	refreshService := service.NewQuoteRefreshService(transactionRepo, quoteCache)

	// Background quote refresh on the configured cron schedule
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Quote.RefreshSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := refreshService.Refresh(ctx); err != nil {
			log.Printf("Quote refresh failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("Failed to schedule quote refresh: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create router
	router := api.NewRouter(api.Services{
		System:      systemService,
		Transaction: transactionService,
		Holdings:    holdingsService,
		Realized:    realizedService,
		Import:      importService,
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

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

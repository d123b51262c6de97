// Package api wires the HTTP router, middleware and handlers together.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/api/handlers"
	custommiddleware "github.com/krishnasinghrathore/vidhione-wealth-backend/internal/api/middleware"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/config"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/service"
)

// Services bundles the service dependencies the router needs.
type Services struct {
	System      *service.SystemService
	Transaction *service.TransactionService
	Holdings    *service.HoldingsService
	Realized    *service.RealizedPnlService
	Import      *service.ImportService
}

// NewRouter creates and configures the HTTP router
func NewRouter(services Services, cfg *config.Config) http.Handler {
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
			systemHandler := handlers.NewSystemHandler(services.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/transaction", func(r chi.Router) {
			transactionHandler := handlers.NewTransactionHandler(services.Transaction)
			importHandler := handlers.NewImportHandler(services.Import)

			r.Get("/", transactionHandler.ListTransactions)
			r.Post("/", transactionHandler.CreateTransaction)
			r.Post("/import", importHandler.ImportTransactions)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", transactionHandler.GetTransaction)
				r.Post("/reverse", transactionHandler.ReverseTransaction)
			})
		})

		r.Route("/holding", func(r chi.Router) {
			holdingsHandler := handlers.NewHoldingsHandler(services.Holdings)
			r.Get("/", holdingsHandler.ListHoldings)
		})

		r.Route("/realized-pnl", func(r chi.Router) {
			realizedHandler := handlers.NewRealizedPnlHandler(services.Realized)
			r.Get("/", realizedHandler.ListDisposals)
			r.Get("/summary", realizedHandler.Summary)
		})

		r.Route("/import-batch", func(r chi.Router) {
			importHandler := handlers.NewImportHandler(services.Import)
			r.Get("/", importHandler.ListBatches)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", importHandler.GetBatch)

				// Rollback rewrites portfolio history; it stays behind
				// the internal API key.
				r.With(custommiddleware.APIKeyMiddleware).Post("/rollback", importHandler.RollbackBatch)
			})
		})
	})

	return r
}

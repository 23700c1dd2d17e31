// Package api wires the HTTP routes of the service.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ndewijer/portfolio-insights/internal/api/handlers"
	custommiddleware "github.com/ndewijer/portfolio-insights/internal/api/middleware"
	"github.com/ndewijer/portfolio-insights/internal/config"
	"github.com/ndewijer/portfolio-insights/internal/service"
)

// Services groups the services the router dispatches to.
type Services struct {
	System      *service.SystemService
	Import      *service.ImportService
	Transaction *service.TransactionService
	Portfolio   *service.PortfolioService
	Returns     *service.ReturnsService
	Fx          *service.FxService
}

// NewRouter creates and configures the HTTP router
func NewRouter(services Services, cfg *config.Config, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(services.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/import", func(r chi.Router) {
			importHandler := handlers.NewImportHandler(services.Import)
			r.Get("/", importHandler.Batches)
			r.Post("/csv", importHandler.ImportCSV)
			r.Post("/ibkr", importHandler.ImportIBKR)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", importHandler.Batch)
				r.Delete("/", importHandler.DeleteBatch)
			})
		})

		r.Route("/transactions", func(r chi.Router) {
			transactionHandler := handlers.NewTransactionHandler(services.Transaction)
			r.Get("/", transactionHandler.Transactions)
		})

		r.Route("/portfolio", func(r chi.Router) {
			portfolioHandler := handlers.NewPortfolioHandler(services.Portfolio)
			r.Get("/positions", portfolioHandler.Positions)
			r.With(custommiddleware.ValidateCurrencyMiddleware).Get("/allocation", portfolioHandler.Allocation)
		})

		r.Route("/returns", func(r chi.Router) {
			returnsHandler := handlers.NewReturnsHandler(services.Returns, cfg.Portfolio.DefaultBaseCurrency)
			r.With(custommiddleware.ValidateCurrencyMiddleware).Get("/xirr", returnsHandler.PortfolioXIRR)
			r.Post("/xirr", returnsHandler.XIRR)
			r.Post("/twr", returnsHandler.TWR)
		})

		r.Route("/fx/{base}", func(r chi.Router) {
			r.Use(custommiddleware.ValidateCurrencyMiddleware)
			fxHandler := handlers.NewFxHandler(services.Fx)
			r.Get("/", fxHandler.Rates)
			r.Delete("/", fxHandler.Invalidate)
		})
	})

	return r
}

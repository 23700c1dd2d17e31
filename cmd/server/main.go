package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ndewijer/portfolio-insights/internal/api"
	"github.com/ndewijer/portfolio-insights/internal/config"
	"github.com/ndewijer/portfolio-insights/internal/database"
	"github.com/ndewijer/portfolio-insights/internal/fx"
	"github.com/ndewijer/portfolio-insights/internal/logging"
	"github.com/ndewijer/portfolio-insights/internal/repository"
	"github.com/ndewijer/portfolio-insights/internal/service"
	"github.com/ndewijer/portfolio-insights/internal/version"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLog := logging.New(logging.Config{Level: "info"})
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger := logging.New(logging.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	logging.SetGlobalLogger(logger)
	logger.Info().Str("version", version.Version).Msg("Starting portfolio insights")

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("Failed to open database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("Failed to apply migrations")
	}
	logger.Info().Str("path", cfg.Database.Path).Msg("Connected to database")

	// Create repositories
	importRepo := repository.NewImportRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)

	// Exchange rates
	fxClient := fx.NewHTTPClient(cfg.FX.BaseURL, cfg.FX.HTTPTimeout, cfg.FX.RequestsPerSecond)
	fxProvider := fx.NewProvider(fxClient,
		fx.WithTTL(cfg.FX.CacheTTL),
		fx.WithLogger(logger.With().Str("component", "fx").Logger()),
	)

	// Create services
	fxService := service.NewFxService(fxProvider, cfg.FX.WarmCurrencies, logger)
	services := api.Services{
		System:      service.NewSystemService(db),
		Import:      service.NewImportService(db, importRepo, transactionRepo, logger),
		Transaction: service.NewTransactionService(transactionRepo),
		Portfolio:   service.NewPortfolioService(transactionRepo, fxProvider, logger),
		Returns:     service.NewReturnsService(transactionRepo, fxProvider, logger),
		Fx:          fxService,
	}

	go func() {
		if err := fxService.Warm(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("Initial FX warm-up incomplete")
		}
	}()
	if err := fxService.StartRefresh(cfg.FX.RefreshSchedule); err != nil {
		logger.Fatal().Err(err).Msg("Failed to schedule FX refresh")
	}
	defer fxService.Stop()

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.NewRouter(services, cfg, logger),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}

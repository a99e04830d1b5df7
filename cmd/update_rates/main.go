// Command update_rates refreshes every stored conversion rate once and exits.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iswift/iswift_backend/internal/adapters/openexchangerates"
	"github.com/iswift/iswift_backend/internal/core/services"
	"github.com/iswift/iswift_backend/internal/platform/config"
	"github.com/iswift/iswift_backend/internal/platform/metrics"
	"github.com/iswift/iswift_backend/internal/platform/tracing"
	"github.com/iswift/iswift_backend/internal/repositories/database/pgsql"
	"github.com/iswift/iswift_backend/pkg/database"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Rate update failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, "iswift-update-rates", cfg.OTELExporterOTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	client := openexchangerates.NewFromConfig(cfg)
	if client == nil {
		logger.Warn("OPEN_EXCHANGE_APP_ID not set, nothing to do")
		return nil
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
	if err != nil {
		return err
	}
	defer database.ClosePgxPool(dbPool)

	repos := pgsql.NewRepositoryProvider(dbPool)
	svc := services.NewRateRefreshService(repos.CurrencyRepo, repos.ExchangeRateRepo, client, cfg.RatesFetchConcurrency, metrics.New())

	summary, err := svc.RefreshRates(ctx)
	if err != nil {
		return err
	}
	logger.Info("Rates refreshed",
		slog.Int("updated", summary.Updated),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", summary.Failed))
	return nil
}

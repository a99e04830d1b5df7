package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/iswift/iswift_backend/internal/adapters/openexchangerates"
	portssvc "github.com/iswift/iswift_backend/internal/core/ports/services"
	"github.com/iswift/iswift_backend/internal/core/services"
	"github.com/iswift/iswift_backend/internal/dto"
	"github.com/iswift/iswift_backend/internal/handlers"
	"github.com/iswift/iswift_backend/internal/middleware"
	"github.com/iswift/iswift_backend/internal/platform/config"
	"github.com/iswift/iswift_backend/internal/platform/metrics"
	"github.com/iswift/iswift_backend/internal/platform/tracing"
	"github.com/iswift/iswift_backend/internal/repositories/database/pgsql"
	"github.com/iswift/iswift_backend/internal/utils"
	"github.com/iswift/iswift_backend/pkg/database"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// @title iSwift Wallet API
// @version 1.0
// @description Multi-currency wallet ledger: accounts, transfers and conversion rates.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, "iswift-backend", cfg.OTELExporterOTLPEndpoint)
	if err != nil {
		logger.Error("Failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("Failed to flush traces", slog.String("error", err.Error()))
		}
	}()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)

	logger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		logger.Error("Database migrations failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	m := metrics.New()
	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()

	deps := services.ContainerDeps{Metrics: m, Posthog: posthogClient}
	if client := openexchangerates.NewFromConfig(cfg); client != nil {
		deps.RateProvider = client
	}
	serviceContainer := services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(dbPool), deps)

	limits, err := newRateLimits(cfg)
	if err != nil {
		logger.Error("Failed to configure rate limiting", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := dto.RegisterValidators(v); err != nil {
			logger.Error("Failed to register validators", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		cors.New(corsConfig(cfg)),
		middleware.MetricsMiddleware(m),
		middleware.PosthogMiddleware(posthogClient),
	)
	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
	handlers.RegisterRoutes(r, cfg, serviceContainer, limits)

	if serviceContainer.RateRefresh != nil && cfg.RatesRefreshInterval > 0 {
		go runRateRefresher(ctx, serviceContainer.RateRefresh, cfg.RatesRefreshInterval, logger)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shut down", slog.String("error", err.Error()))
	}
	logger.Info("Server stopped")
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	c.AllowOrigins = cfg.CORSAllowedOrigins
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", "X-Request-ID")
	c.ExposeHeaders = []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"}
	c.MaxAge = 12 * time.Hour
	return c
}

func newRateLimits(cfg *config.Config) (handlers.RateLimits, error) {
	store, err := middleware.NewLimiterStore(cfg.RedisURL)
	if err != nil {
		return handlers.RateLimits{}, err
	}
	login, err := middleware.NewLimiter(store, cfg.LoginRateLimit)
	if err != nil {
		return handlers.RateLimits{}, err
	}
	otp, err := middleware.NewLimiter(store, cfg.OTPRateLimit)
	if err != nil {
		return handlers.RateLimits{}, err
	}
	return handlers.RateLimits{
		Login: middleware.RateLimit(login),
		OTP:   middleware.RateLimit(otp),
	}, nil
}

// runRateRefresher refreshes conversion rates once at startup and then every
// interval until ctx is cancelled.
func runRateRefresher(ctx context.Context, svc portssvc.RateRefreshSvc, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		summary, err := svc.RefreshRates(ctx)
		if err != nil {
			logger.Error("Rate refresh failed", slog.String("error", err.Error()))
		} else {
			logger.Info("Rates refreshed",
				slog.Int("updated", summary.Updated),
				slog.Int("skipped", summary.Skipped),
				slog.Int("failed", summary.Failed))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

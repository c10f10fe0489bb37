package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/shoppulse/config"
	"github.com/guttosm/shoppulse/internal/analytics"
	"github.com/guttosm/shoppulse/internal/api"
	"github.com/guttosm/shoppulse/internal/domain/models"
	"github.com/guttosm/shoppulse/internal/events"
	"github.com/guttosm/shoppulse/internal/logger"
	"github.com/guttosm/shoppulse/internal/metrics"
	"github.com/guttosm/shoppulse/internal/middleware"
	"github.com/guttosm/shoppulse/internal/service"
	"github.com/guttosm/shoppulse/internal/storage"
	"github.com/guttosm/shoppulse/internal/watcher"
)

// Preload optionally loads a log file from disk at startup.
// With Watch set the file is re-read whenever it changes.
type Preload struct {
	Path  string
	Watch bool
}

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Resolves analytics defaults from the global configuration.
//   - Creates the in-memory session store, the session event hub and the analytics service.
//   - Creates the HTTP handler layer and configures the Gin router.
//   - Registers health, readiness and metrics collectors.
//   - Optionally preloads (and watches) a log file.
//   - Provides a cleanup function that stops the watcher, closes event streams and drops the session.
func InitializeApp(ctx context.Context, pre Preload) (*gin.Engine, func(), error) {
	// Load global configuration
	cfg := config.AppConfig

	format, err := models.ParseFormat(cfg.Analytics.Format)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid SHOP_FORMAT: %w", err)
	}
	order, err := analytics.ParseProfitOrder(cfg.Analytics.ProfitOrder)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid PROFIT_ORDER: %w", err)
	}

	metrics.MustRegister()
	middleware.SetRateLimit(cfg.Server.RateLimitPerMinute)

	// Initialize service layer over a single-session in-memory store
	store := storage.NewSessionRepository()
	hub := events.NewHub()
	svc := service.NewAnalyticsService(store, analytics.Query{
		TopN:   cfg.Analytics.TopN,
		Profit: analytics.ProfitRanking{Order: order},
	}, service.WithEvents(hub))

	// Initialize HTTP handler layer (business logic to HTTP mapping)
	handler := api.NewHandler(svc, api.Options{
		DefaultFormat:       format,
		MaxUploadBytes:      int64(cfg.Server.MaxUploadMB) << 20,
		MovingAverageWindow: cfg.Analytics.MovingAverageWindow,
		OnlyNegative:        cfg.Analytics.ProfitOnlyNegative,
		AllowedOrigins:      cfg.Server.AllowedOrigins,
		Events:              hub,
	})

	// Setup Gin router with routes
	router := api.NewRouter(handler)

	// Register health and readiness probes
	healthHandler := api.NewHealthHandler(hub.Err, func() bool {
		_, ok := store.Current()
		return ok
	})
	healthHandler.Register(router)

	watchCtx, stop := context.WithCancel(ctx)
	if pre.Path != "" {
		if err := loadFile(watchCtx, svc, pre.Path, format); err != nil {
			stop()
			hub.Close()
			return nil, nil, err
		}
		if pre.Watch {
			go func() {
				err := watcher.Watch(watchCtx, pre.Path, watcher.DefaultDebounce, func() {
					if err := loadFile(watchCtx, svc, pre.Path, format); err != nil {
						logger.With("app").Error().Err(err).Str("file", pre.Path).Msg("reload failed")
					}
				})
				if err != nil {
					logger.With("app").Error().Err(err).Msg("watcher stopped")
				}
			}()
		}
	}

	// Cleanup resources on shutdown
	cleanup := func() {
		stop()
		svc.Remove(context.Background())
		hub.Close()
	}

	return router, cleanup, nil
}

// loadFile reads path from disk into the session, replacing whatever was loaded.
func loadFile(ctx context.Context, svc service.AnalyticsService, path string, format models.Format) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := svc.Load(ctx, filepath.Base(path), format, f); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

package main

//
//  @title           shoppulse API
//  @version         1.0
//  @description     Minecraft shop log parsing & analytics service.
//  @termsOfService  https://github.com/guttosm/shoppulse
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/shoppulse
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        logs
//  @tag.description Upload and discard the session log
//
//  @tag.name        analytics
//  @tag.description Aggregates, player lookup and daily series
//
//  @tag.name        items
//  @tag.description Item price table and export
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/guttosm/shoppulse/config"
	_ "github.com/guttosm/shoppulse/docs" // swagger docs
	"github.com/guttosm/shoppulse/internal/analytics"
	"github.com/guttosm/shoppulse/internal/app"
	"github.com/guttosm/shoppulse/internal/domain/models"
	"github.com/guttosm/shoppulse/internal/logger"
	"github.com/guttosm/shoppulse/internal/metrics"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - host (string): Interface to bind.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, host, port string) *http.Server {
	server := &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("addr", server.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): A context with timeout for graceful shutdown.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (watcher, session).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// splitList turns a comma-separated flag value into trimmed, non-empty entries.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// main is the entry point of the shoppulse application.
//
// Modes (selected via --mode flag):
//   - report: Parses each --files entry on its own and writes one report per file.
//   - api:    Starts the local REST API; optionally preloads (and watches) --file.
//
// Flags:
//   - --mode:     Execution mode ("report" or "api"). Default: "api".
//   - --format:   EconomyShopGUI or ShopGUI+. Defaults to SHOP_FORMAT.
//   - --files:    Comma-separated log files for report mode.
//   - --start/--end: Inclusive YYYY-MM-DD range for report mode.
//   - --out:      Report format: json, csv or xlsx. Default: "json".
//   - --out-dir:  Directory for reports. Default: "./data/output".
//   - --parallel: Files processed concurrently (0=auto up to CPU, max 8).
//   - --host/--port: Bind address for API mode. Defaults to SERVER_HOST/SERVER_PORT.
//   - --file/--watch: Log preloaded in API mode, re-read on change with --watch.
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	// Parse CLI flags (override config defaults if provided)
	mode := flag.String("mode", "api", "Mode: report or api")
	formatFlag := flag.String("format", config.AppConfig.Analytics.Format, "Log format: EconomyShopGUI or ShopGUI+")
	files := flag.String("files", "", "Comma-separated log files (report mode)")
	start := flag.String("start", "", "First day, YYYY-MM-DD (report mode)")
	end := flag.String("end", "", "Last day, YYYY-MM-DD (report mode)")
	out := flag.String("out", "json", "Report format: json, csv or xlsx")
	outDir := flag.String("out-dir", "./data/output", "Directory for reports")
	parallel := flag.Int("parallel", 0, "How many files to process concurrently (0=auto up to CPU, max 8)")
	host := flag.String("host", config.AppConfig.Server.Host, "Host for API mode")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	file := flag.String("file", "", "Log file to preload (api mode)")
	watch := flag.Bool("watch", false, "Reload --file when it changes (api mode)")
	flag.Parse()

	switch *mode {
	case "report":
		// Report mode: aggregate each file and write it to disk
		logger.L().Info().Msg("running report")

		format, err := models.ParseFormat(*formatFlag)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("invalid format")
		}
		order, err := analytics.ParseProfitOrder(config.AppConfig.Analytics.ProfitOrder)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("invalid profit order")
		}

		metrics.MustRegister()
		err = runReport(ctx, reportOptions{
			Paths:    splitList(*files),
			Format:   format,
			Start:    *start,
			End:      *end,
			Out:      *out,
			OutDir:   *outDir,
			Parallel: *parallel,
			Query: analytics.Query{
				TopN: config.AppConfig.Analytics.TopN,
				Profit: analytics.ProfitRanking{
					Order:        order,
					OnlyNegative: config.AppConfig.Analytics.ProfitOnlyNegative,
				},
			},
		})
		if err != nil {
			logger.L().Fatal().Err(err).Msg("report failed")
		}
		logger.L().Info().Str("out_dir", *outDir).Msg("report completed successfully")

	case "api":
		// API mode: start the HTTP server
		logger.L().Info().Msg("starting API server")

		config.AppConfig.Analytics.Format = *formatFlag
		router, cleanup, err := app.InitializeApp(ctx, app.Preload{Path: *file, Watch: *watch})
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *host, *port)
		gracefulShutdown(ctx, server, cleanup)

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}

package main

//
//  @title           quantlog API
//  @version         1.0
//  @description     Trading journal & performance analytics service.
//  @termsOfService  https://github.com/quantlog/quantlog
//  @contact.name    API Support
//  @contact.url     https://github.com/quantlog/quantlog
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        trades
//  @tag.description Journal entries and performance statistics
//
//  @tag.name        sessions
//  @tag.description Trading sessions and capital tracking
//
//  @tag.name        market
//  @tag.description Live quote snapshots from the upstream feed
//
//  @tag.name        extract
//  @tag.description AI-assisted trade extraction from screenshots
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quantlog/quantlog/config"
	_ "github.com/quantlog/quantlog/docs" // swagger docs
	"github.com/quantlog/quantlog/internal/app"
	"github.com/quantlog/quantlog/internal/importer"
	"github.com/quantlog/quantlog/internal/logger"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
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
//   - cleanup (func()): Cleanup callback to release resources (e.g., DB connections).
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

// main is the entry point of the quantlog application.
//
// Modes (selected via --mode flag):
//   - api:    Starts the REST API serving the trading journal (default).
//   - import: Imports broker CSV exports from a directory into the journal.
//
// Flags:
//   - --mode:     Execution mode ("api" or "import"). Default: "api".
//   - --dir:      Directory containing .csv exports for import mode. Default: "./data/exports".
//   - --user:     User ID that owns the imported trades (required in import mode).
//   - --parallel: How many files to process concurrently (0=auto up to CPU, max 8).
//   - --force:    Reimport files even if already imported (deletes their previous rows).
//   - --port:     Port for the API server. Defaults to value from config (SERVER_PORT).
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	// Parse CLI flags (override config defaults if provided)
	mode := flag.String("mode", "api", "Mode: api or import")
	dir := flag.String("dir", "./data/exports", "Directory with .csv exports")
	user := flag.String("user", "", "User ID that owns the imported trades")
	parallel := flag.Int("parallel", 0, "How many files to process concurrently (0=auto up to CPU, max 8)")
	force := flag.Bool("force", false, "Reimport files even if already imported (deletes their previous rows)")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	flag.Parse()

	switch *mode {
	case "import":
		// Import mode: process .csv exports and persist trades
		logger.L().Info().Msg("running import")

		// Direct DB connection for import
		db, err := app.InitPostgres(config.AppConfig)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("db connect error")
		}
		defer func() { _ = db.Close() }()

		if err := importer.ProcessDirectory(ctx, *dir, db, *user, *parallel, *force); err != nil {
			logger.L().Fatal().Err(err).Msg("import failed")
		}
		logger.L().Info().Msg("import completed successfully")

	case "api":
		// API mode: start the HTTP server
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(ctx, server, cleanup)

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}

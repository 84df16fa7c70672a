package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/quantlog/quantlog/config"
	"github.com/quantlog/quantlog/internal/ai"
	"github.com/quantlog/quantlog/internal/api"
	"github.com/quantlog/quantlog/internal/market"
	"github.com/quantlog/quantlog/internal/service"
	"github.com/quantlog/quantlog/internal/storage"
)

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Connects to PostgreSQL using InitPostgres().
//   - Initializes the repository layer (JournalRepository).
//   - Creates the journal service and HTTP handler layers.
//   - Wires the market-data client and AI extraction client.
//   - Configures the Gin router with all API routes.
//   - Registers health and readiness probes.
//   - Provides a cleanup function to close resources (e.g., DB connection).
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp() (*gin.Engine, func(), error) {
	// Load global configuration
	cfg := config.AppConfig

	// Connect to PostgreSQL
	// indirection for unit testing
	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	// Initialize repository layer (responsible for DB access)
	repo := storage.NewJournalRepository(db)

	// Initialize service layer (business logic)
	svc := service.NewJournalService(repo)

	// Initialize HTTP handler layer (business logic to HTTP mapping)
	handler := api.NewHandler(svc)

	// External collaborators: quote feed and screenshot extraction
	marketHandler := api.NewMarketHandler(market.NewClient(cfg.Market.BaseURL, cfg.Market.APIKey))
	extractHandler := api.NewExtractHandler(ai.NewExtractor(cfg.AI.URL, cfg.AI.APIKey, cfg.AI.Model))

	// Setup Gin router with routes
	router := api.NewRouter(handler, marketHandler, extractHandler)

	// Register health and readiness probes
	healthHandler := api.NewHealthHandler(db.Ping)
	healthHandler.Register(router)

	// Cleanup resources on shutdown
	cleanup := func() {
		_ = db.Close()
	}

	return router, cleanup, nil
}

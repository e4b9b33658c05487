package container

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/tripweaver/tripweaver/app/db"
	"github.com/tripweaver/tripweaver/config"
	"github.com/tripweaver/tripweaver/internal/api/auth"
	"github.com/tripweaver/tripweaver/internal/api/itinerary"
	"github.com/tripweaver/tripweaver/internal/api/plan"
	"github.com/tripweaver/tripweaver/internal/api/poi"
	"github.com/tripweaver/tripweaver/internal/api/summary"
)

// Container holds all application dependencies.
type Container struct {
	Config           *config.Config
	Logger           *slog.Logger
	Pool             *pgxpool.Pool
	AuthHandler      *auth.Handler
	POIHandler       *poi.Handler
	PlanHandler      *plan.Handler
	ItineraryHandler *itinerary.Handler
}

// NewContainer initializes the database pool and wires every repository,
// service and handler.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	// POI acquisition
	overpassClient := poi.NewOverpassClient(
		cfg.Overpass.Endpoints,
		cfg.Overpass.MaxAttempts,
		cfg.Overpass.BaseBackoff,
		cfg.Overpass.Timeout,
		logger,
	)
	geocoder := poi.NewGeocoder(cfg.Nominatim.BaseURL, cfg.Overpass.MaxAttempts, cfg.Overpass.BaseBackoff, logger)
	poiService := poi.NewServiceImpl(overpassClient, geocoder, cfg.Overpass.CacheTTL, logger)
	poiHandler := poi.NewHandler(poiService, logger)

	// Narrative summaries are optional; the planner works without them.
	var summarizer summary.Service
	if os.Getenv("GOOGLE_GEMINI_API_KEY") != "" {
		geminiService, err := summary.NewGeminiService(ctx, logger)
		if err != nil {
			logger.Warn("Failed to initialize Gemini summary service, continuing without summaries",
				slog.Any("error", err))
		} else {
			summarizer = geminiService
		}
	} else {
		logger.Info("GOOGLE_GEMINI_API_KEY not set, itinerary summaries disabled")
	}

	// Planning and exports
	planService := plan.NewServiceImpl(summarizer, logger)
	planHandler := plan.NewHandler(planService, logger)

	// Auth
	authRepo := auth.NewPostgresRepository(pool, logger)
	authService := auth.NewServiceImpl(authRepo, logger)
	authHandler := auth.NewHandler(authService, logger)

	// Saved itineraries
	itineraryRepo := itinerary.NewPostgresRepository(pool, logger)
	itineraryService := itinerary.NewServiceImpl(itineraryRepo, logger)
	itineraryHandler := itinerary.NewHandler(itineraryService, logger)

	return &Container{
		Config:           cfg,
		Logger:           logger,
		Pool:             pool,
		AuthHandler:      authHandler,
		POIHandler:       poiHandler,
		PlanHandler:      planHandler,
		ItineraryHandler: itineraryHandler,
	}, nil
}

// Close releases all resources held by the container.
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

package bootstrap

import (
	"context"
	"log/slog"
	"strings"

	catalogservice "movienight/contexts/movie-night/catalog-service"
	catalogmemory "movienight/contexts/movie-night/catalog-service/adapters/memory"
	catalogpostgres "movienight/contexts/movie-night/catalog-service/adapters/postgres"
	"movienight/contexts/movie-night/catalog-service/adapters/tmdb"
	sessionengine "movienight/contexts/movie-night/session-engine"
	sessionpostgres "movienight/contexts/movie-night/session-engine/adapters/postgres"
	"movienight/internal/platform/config"
	"movienight/internal/platform/db"
	"movienight/internal/platform/httpserver"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

// BuildAPI wires adapters per configuration. A configured POSTGRES_DSN
// selects the gorm-backed stores; otherwise everything runs in memory,
// which keeps local development a zero-dependency start.
func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	tmdbClient := tmdb.NewClient(cfg.TMDBBaseURL, cfg.TMDBAPIKey, logger)

	var (
		pg            *db.Postgres
		sessionModule sessionengine.Module
		catalogModule catalogservice.Module
	)

	if strings.TrimSpace(cfg.PostgresDSN) != "" {
		pg, err = db.Connect(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := sessionpostgres.AutoMigrate(pg.DB); err != nil {
			_ = pg.Close()
			return nil, err
		}
		if err := catalogpostgres.AutoMigrate(pg.DB); err != nil {
			_ = pg.Close()
			return nil, err
		}

		sessionModule = sessionengine.NewModule(sessionengine.Dependencies{
			Sessions:      sessionpostgres.NewRepository(pg.DB, logger),
			Tokens:        sessionpostgres.TokenGenerator{},
			IDGen:         sessionpostgres.UUIDGenerator{},
			Clock:         sessionpostgres.SystemClock{},
			TokenAttempts: cfg.SessionTokenAttempts,
			Logger:        logger,
		})
		catalogModule = catalogservice.NewModule(catalogservice.Dependencies{
			Source:     tmdbClient,
			Cache:      catalogpostgres.NewRepository(pg.DB, logger),
			Clock:      catalogpostgres.SystemClock{},
			StaleAfter: cfg.CatalogStaleAfter,
			Logger:     logger,
		})
	} else {
		logger.Info("postgres dsn not set, using in-memory stores",
			"event", "bootstrap_memory_mode",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		sessionModule = sessionengine.NewInMemoryModule(nil, logger)

		catalogStore := catalogmemory.NewStore(nil)
		catalogModule = catalogservice.NewModule(catalogservice.Dependencies{
			Source:     tmdbClient,
			Cache:      catalogStore,
			Clock:      catalogStore,
			StaleAfter: cfg.CatalogStaleAfter,
			Logger:     logger,
		})
		catalogModule.Store = catalogStore
	}

	server := httpserver.New(sessionModule, catalogModule, logger, normalizeAddr(cfg.HTTPPort), cfg.PublicBaseURL)
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}

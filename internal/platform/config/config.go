package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string

	// PublicBaseURL is the externally reachable origin used to build
	// shareable invite links. Empty keeps links relative.
	PublicBaseURL string

	TMDBAPIKey  string
	TMDBBaseURL string

	SessionTokenAttempts int
	CatalogStaleAfter    time.Duration
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "movienight"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),

		PublicBaseURL: strings.TrimRight(strings.TrimSpace(os.Getenv("PUBLIC_BASE_URL")), "/"),

		TMDBAPIKey:  strings.TrimSpace(os.Getenv("TMDB_API_KEY")),
		TMDBBaseURL: strings.TrimSpace(os.Getenv("TMDB_BASE_URL")),

		SessionTokenAttempts: envInt("SESSION_TOKEN_ATTEMPTS", 0),
		CatalogStaleAfter:    time.Duration(envInt("CATALOG_STALE_AFTER_HOURS", 24)) * time.Hour,
	}, nil
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}

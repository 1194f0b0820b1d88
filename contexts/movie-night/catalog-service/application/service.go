package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"movienight/contexts/movie-night/catalog-service/domain/entities"
	domainerrors "movienight/contexts/movie-night/catalog-service/domain/errors"
	"movienight/contexts/movie-night/catalog-service/ports"
)

const (
	defaultStaleAfter = 24 * time.Hour
	defaultListLimit  = 20
)

// Service resolves catalog metadata cache-first. Lookups refetch from the
// source once the cached copy crosses the staleness window; search/popular
// always hit the source and refresh the cache best-effort, so an unavailable
// cache never fails a read that the source already answered.
type Service struct {
	Source     ports.MovieSource
	Cache      ports.MovieCache
	Clock      ports.Clock
	StaleAfter time.Duration
	Logger     *slog.Logger
}

func (s Service) LookupByID(ctx context.Context, tmdbID int64) (entities.Movie, error) {
	if tmdbID == 0 {
		return entities.Movie{}, domainerrors.ErrMovieNotFound
	}

	now := s.now()
	cached, found, err := s.Cache.GetByTMDBID(ctx, tmdbID)
	if err != nil {
		return entities.Movie{}, err
	}
	if found && !cached.NeedsRefresh(now, s.staleAfter()) {
		return cached, nil
	}

	movie, err := s.Source.MovieDetails(ctx, tmdbID)
	if err != nil {
		return entities.Movie{}, err
	}
	movie.LastUpdated = now
	if err := s.Cache.Upsert(ctx, movie); err != nil {
		s.warnCacheWrite("catalog_lookup_cache_write_failed", movie.TMDBID, err)
	}
	return movie, nil
}

func (s Service) Search(ctx context.Context, query string) ([]entities.Movie, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domainerrors.ErrQueryRequired
	}
	movies, err := s.Source.SearchMovies(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, err
	}
	s.refreshCache(ctx, movies)
	return movies, nil
}

func (s Service) Popular(ctx context.Context) ([]entities.Movie, error) {
	movies, err := s.Source.PopularMovies(ctx)
	if err != nil {
		return nil, err
	}
	s.refreshCache(ctx, movies)
	return movies, nil
}

func (s Service) CachedMovies(ctx context.Context, sortKey string, limit int) ([]entities.Movie, error) {
	switch sortKey {
	case ports.SortPopularity, ports.SortRating, ports.SortDate:
	default:
		sortKey = ports.SortPopularity
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.Cache.List(ctx, sortKey, limit)
}

// refreshCache updates cached entries for source results that are missing or
// stale. Failures are logged and skipped so one bad row never fails the read.
func (s Service) refreshCache(ctx context.Context, movies []entities.Movie) {
	now := s.now()
	for _, movie := range movies {
		cached, found, err := s.Cache.GetByTMDBID(ctx, movie.TMDBID)
		if err != nil {
			s.warnCacheWrite("catalog_cache_read_failed", movie.TMDBID, err)
			continue
		}
		if found && !cached.NeedsRefresh(now, s.staleAfter()) {
			continue
		}
		movie.LastUpdated = now
		if err := s.Cache.Upsert(ctx, movie); err != nil {
			s.warnCacheWrite("catalog_cache_write_failed", movie.TMDBID, err)
		}
	}
}

func (s Service) warnCacheWrite(event string, tmdbID int64, err error) {
	resolveLogger(s.Logger).Warn("catalog cache refresh skipped",
		"event", event,
		"module", "movie-night/catalog-service",
		"layer", "application",
		"tmdb_id", tmdbID,
		"error", err.Error(),
	)
}

func (s Service) staleAfter() time.Duration {
	if s.StaleAfter <= 0 {
		return defaultStaleAfter
	}
	return s.StaleAfter
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

package ports

import (
	"context"
	"time"

	"movienight/contexts/movie-night/catalog-service/domain/entities"
)

type Clock interface {
	Now() time.Time
}

// MovieSource is the upstream catalog (TMDB in production).
type MovieSource interface {
	MovieDetails(ctx context.Context, tmdbID int64) (entities.Movie, error)
	SearchMovies(ctx context.Context, query string) ([]entities.Movie, error)
	PopularMovies(ctx context.Context) ([]entities.Movie, error)
}

// Cache sort keys accepted by MovieCache.List.
const (
	SortPopularity = "popularity"
	SortRating     = "rating"
	SortDate       = "date"
)

type MovieCache interface {
	GetByTMDBID(ctx context.Context, tmdbID int64) (entities.Movie, bool, error)
	Upsert(ctx context.Context, movie entities.Movie) error
	List(ctx context.Context, sortKey string, limit int) ([]entities.Movie, error)
}

package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"movienight/contexts/movie-night/catalog-service/domain/entities"
	"movienight/contexts/movie-night/catalog-service/ports"
)

// Store is the in-memory movie cache.
type Store struct {
	mu     sync.RWMutex
	movies map[int64]entities.Movie
}

func NewStore(seed []entities.Movie) *Store {
	movies := make(map[int64]entities.Movie, len(seed))
	for _, movie := range seed {
		movies[movie.TMDBID] = movie
	}
	return &Store{movies: movies}
}

func (s *Store) GetByTMDBID(_ context.Context, tmdbID int64) (entities.Movie, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	movie, ok := s.movies[tmdbID]
	return movie, ok, nil
}

func (s *Store) Upsert(_ context.Context, movie entities.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.movies[movie.TMDBID] = movie
	return nil
}

func (s *Store) List(_ context.Context, sortKey string, limit int) ([]entities.Movie, error) {
	s.mu.RLock()
	items := make([]entities.Movie, 0, len(s.movies))
	for _, movie := range s.movies {
		items = append(items, movie)
	}
	s.mu.RUnlock()

	sort.SliceStable(items, func(i, j int) bool {
		switch sortKey {
		case ports.SortRating:
			return items[i].VoteAverage > items[j].VoteAverage
		case ports.SortDate:
			return items[i].ReleaseDate > items[j].ReleaseDate
		default:
			return items[i].Popularity > items[j].Popularity
		}
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// Now implements ports.Clock.
func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

var _ ports.MovieCache = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)

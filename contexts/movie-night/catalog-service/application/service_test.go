package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"movienight/contexts/movie-night/catalog-service/domain/entities"
	domainerrors "movienight/contexts/movie-night/catalog-service/domain/errors"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type stubSource struct {
	details     map[int64]entities.Movie
	searched    []entities.Movie
	detailCalls int
	searchCalls int
}

func (s *stubSource) MovieDetails(_ context.Context, tmdbID int64) (entities.Movie, error) {
	s.detailCalls++
	movie, ok := s.details[tmdbID]
	if !ok {
		return entities.Movie{}, domainerrors.ErrMovieNotFound
	}
	return movie, nil
}

func (s *stubSource) SearchMovies(_ context.Context, _ string) ([]entities.Movie, error) {
	s.searchCalls++
	return s.searched, nil
}

func (s *stubSource) PopularMovies(_ context.Context) ([]entities.Movie, error) {
	return s.searched, nil
}

type stubCache struct {
	movies    map[int64]entities.Movie
	upserts   int
	writeErr  error
	readErr   error
	listCalls int
}

func (c *stubCache) GetByTMDBID(_ context.Context, tmdbID int64) (entities.Movie, bool, error) {
	if c.readErr != nil {
		return entities.Movie{}, false, c.readErr
	}
	movie, ok := c.movies[tmdbID]
	return movie, ok, nil
}

func (c *stubCache) Upsert(_ context.Context, movie entities.Movie) error {
	c.upserts++
	if c.writeErr != nil {
		return c.writeErr
	}
	c.movies[movie.TMDBID] = movie
	return nil
}

func (c *stubCache) List(_ context.Context, _ string, _ int) ([]entities.Movie, error) {
	c.listCalls++
	return nil, nil
}

func catalogClock() fixedClock {
	return fixedClock{now: time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)}
}

func TestLookupServesFreshCacheWithoutSourceCall(t *testing.T) {
	clock := catalogClock()
	source := &stubSource{details: map[int64]entities.Movie{}}
	cache := &stubCache{movies: map[int64]entities.Movie{
		603: {TMDBID: 603, Title: "The Matrix", LastUpdated: clock.now.Add(-time.Hour)},
	}}
	service := Service{Source: source, Cache: cache, Clock: clock}

	movie, err := service.LookupByID(context.Background(), 603)
	if err != nil {
		t.Fatalf("expected cached lookup to succeed, got %v", err)
	}
	if movie.Title != "The Matrix" {
		t.Fatalf("expected cached movie, got %+v", movie)
	}
	if source.detailCalls != 0 {
		t.Fatalf("expected no source call for a fresh cache entry, got %d", source.detailCalls)
	}
}

func TestLookupRefetchesStaleEntry(t *testing.T) {
	clock := catalogClock()
	source := &stubSource{details: map[int64]entities.Movie{
		603: {TMDBID: 603, Title: "The Matrix", Runtime: 136},
	}}
	cache := &stubCache{movies: map[int64]entities.Movie{
		603: {TMDBID: 603, Title: "The Matrix", LastUpdated: clock.now.Add(-25 * time.Hour)},
	}}
	service := Service{Source: source, Cache: cache, Clock: clock}

	movie, err := service.LookupByID(context.Background(), 603)
	if err != nil {
		t.Fatalf("expected stale lookup to succeed, got %v", err)
	}
	if source.detailCalls != 1 {
		t.Fatalf("expected one source refetch, got %d", source.detailCalls)
	}
	if movie.Runtime != 136 {
		t.Fatalf("expected refreshed metadata, got %+v", movie)
	}
	if !cache.movies[603].LastUpdated.Equal(clock.now) {
		t.Fatalf("expected cache entry stamped with refresh time, got %v", cache.movies[603].LastUpdated)
	}
}

func TestLookupSurvivesCacheWriteFailure(t *testing.T) {
	clock := catalogClock()
	source := &stubSource{details: map[int64]entities.Movie{
		603: {TMDBID: 603, Title: "The Matrix"},
	}}
	cache := &stubCache{movies: map[int64]entities.Movie{}, writeErr: errors.New("disk full")}
	service := Service{Source: source, Cache: cache, Clock: clock}

	movie, err := service.LookupByID(context.Background(), 603)
	if err != nil {
		t.Fatalf("expected lookup to survive cache write failure, got %v", err)
	}
	if movie.Title != "The Matrix" {
		t.Fatalf("expected source result, got %+v", movie)
	}
}

func TestLookupUnknownMovie(t *testing.T) {
	service := Service{
		Source: &stubSource{details: map[int64]entities.Movie{}},
		Cache:  &stubCache{movies: map[int64]entities.Movie{}},
		Clock:  catalogClock(),
	}

	if _, err := service.LookupByID(context.Background(), 99999); !errors.Is(err, domainerrors.ErrMovieNotFound) {
		t.Fatalf("expected movie not found, got %v", err)
	}
	if _, err := service.LookupByID(context.Background(), 0); !errors.Is(err, domainerrors.ErrMovieNotFound) {
		t.Fatalf("expected zero id rejected, got %v", err)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	service := Service{
		Source: &stubSource{},
		Cache:  &stubCache{movies: map[int64]entities.Movie{}},
		Clock:  catalogClock(),
	}

	if _, err := service.Search(context.Background(), "   "); !errors.Is(err, domainerrors.ErrQueryRequired) {
		t.Fatalf("expected blank query rejected, got %v", err)
	}
}

func TestSearchRefreshesOnlyStaleEntries(t *testing.T) {
	clock := catalogClock()
	source := &stubSource{searched: []entities.Movie{
		{TMDBID: 603, Title: "The Matrix"},
		{TMDBID: 604, Title: "The Matrix Reloaded"},
	}}
	cache := &stubCache{movies: map[int64]entities.Movie{
		603: {TMDBID: 603, Title: "The Matrix", LastUpdated: clock.now.Add(-time.Minute)},
	}}
	service := Service{Source: source, Cache: cache, Clock: clock}

	movies, err := service.Search(context.Background(), "matrix")
	if err != nil {
		t.Fatalf("expected search to succeed, got %v", err)
	}
	if len(movies) != 2 {
		t.Fatalf("expected both source results, got %d", len(movies))
	}
	if cache.upserts != 1 {
		t.Fatalf("expected only the missing entry written, got %d upserts", cache.upserts)
	}
}

func TestCachedMoviesNormalizesSortAndLimit(t *testing.T) {
	cache := &stubCache{movies: map[int64]entities.Movie{}}
	service := Service{Source: &stubSource{}, Cache: cache, Clock: catalogClock()}

	if _, err := service.CachedMovies(context.Background(), "bogus", -5); err != nil {
		t.Fatalf("expected listing to succeed, got %v", err)
	}
	if cache.listCalls != 1 {
		t.Fatalf("expected one list call, got %d", cache.listCalls)
	}
}

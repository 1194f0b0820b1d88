package httpadapter

import (
	"context"
	"log/slog"

	"movienight/contexts/movie-night/catalog-service/application"
	"movienight/contexts/movie-night/catalog-service/domain/entities"
	httptransport "movienight/contexts/movie-night/catalog-service/transport/http"
)

// Handler bridges transport DTOs and the catalog service. It stays
// transport-framework free; the platform httpserver owns routing, decoding
// and error mapping.
type Handler struct {
	Catalog application.Service
	Logger  *slog.Logger
}

func (h Handler) MovieDetailsHandler(ctx context.Context, tmdbID int64) (httptransport.MovieResponse, error) {
	movie, err := h.Catalog.LookupByID(ctx, tmdbID)
	if err != nil {
		return httptransport.MovieResponse{}, err
	}
	return httptransport.MovieResponse{Movie: mapMovie(movie)}, nil
}

func (h Handler) SearchHandler(ctx context.Context, query string) (httptransport.MovieListResponse, error) {
	movies, err := h.Catalog.Search(ctx, query)
	if err != nil {
		return httptransport.MovieListResponse{}, err
	}
	return httptransport.MovieListResponse{Movies: mapMovies(movies)}, nil
}

func (h Handler) PopularHandler(ctx context.Context) (httptransport.MovieListResponse, error) {
	movies, err := h.Catalog.Popular(ctx)
	if err != nil {
		return httptransport.MovieListResponse{}, err
	}
	return httptransport.MovieListResponse{Movies: mapMovies(movies)}, nil
}

func (h Handler) CachedHandler(ctx context.Context, sortKey string, limit int) (httptransport.MovieListResponse, error) {
	movies, err := h.Catalog.CachedMovies(ctx, sortKey, limit)
	if err != nil {
		return httptransport.MovieListResponse{}, err
	}
	return httptransport.MovieListResponse{Movies: mapMovies(movies)}, nil
}

func mapMovie(movie entities.Movie) httptransport.MovieView {
	genres := make([]httptransport.GenreView, 0, len(movie.Genres))
	for _, genre := range movie.Genres {
		genres = append(genres, httptransport.GenreView{ID: genre.ID, Name: genre.Name})
	}
	return httptransport.MovieView{
		TMDBID:        movie.TMDBID,
		Title:         movie.Title,
		OriginalTitle: movie.OriginalTitle,
		Overview:      movie.Overview,
		PosterPath:    movie.PosterPath,
		BackdropPath:  movie.BackdropPath,
		ReleaseDate:   movie.ReleaseDate,
		Genres:        genres,
		Runtime:       movie.Runtime,
		VoteAverage:   movie.VoteAverage,
		Popularity:    movie.Popularity,
	}
}

func mapMovies(movies []entities.Movie) []httptransport.MovieView {
	views := make([]httptransport.MovieView, 0, len(movies))
	for _, movie := range movies {
		views = append(views, mapMovie(movie))
	}
	return views
}

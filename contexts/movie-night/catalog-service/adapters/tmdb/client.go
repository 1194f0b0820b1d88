package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"movienight/contexts/movie-night/catalog-service/domain/entities"
	domainerrors "movienight/contexts/movie-night/catalog-service/domain/errors"
	"movienight/contexts/movie-night/catalog-service/ports"
)

const defaultBaseURL = "https://api.themoviedb.org/3"

// Client talks to the TMDB v3 API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL string, apiKey string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

func (c *Client) MovieDetails(ctx context.Context, tmdbID int64) (entities.Movie, error) {
	var payload tmdbMovie
	err := c.get(ctx, "/movie/"+strconv.FormatInt(tmdbID, 10), url.Values{}, &payload)
	if err != nil {
		return entities.Movie{}, err
	}
	return payload.toEntity(), nil
}

func (c *Client) SearchMovies(ctx context.Context, query string) ([]entities.Movie, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")

	var payload tmdbMovieList
	if err := c.get(ctx, "/search/movie", params, &payload); err != nil {
		return nil, err
	}
	return payload.toEntities(), nil
}

func (c *Client) PopularMovies(ctx context.Context) ([]entities.Movie, error) {
	params := url.Values{}
	params.Set("page", "1")

	var payload tmdbMovieList
	if err := c.get(ctx, "/movie/popular", params, &payload); err != nil {
		return nil, err
	}
	return payload.toEntities(), nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if c.apiKey == "" {
		return domainerrors.ErrSourceNotConfigured
	}
	params.Set("api_key", c.apiKey)
	params.Set("language", "en-US")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build tmdb request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domainerrors.ErrMovieNotFound
	case resp.StatusCode != http.StatusOK:
		c.logger.Warn("tmdb returned non-ok status",
			"event", "catalog_tmdb_unexpected_status",
			"module", "movie-night/catalog-service",
			"layer", "adapter/tmdb",
			"path", path,
			"status", resp.StatusCode,
		)
		return fmt.Errorf("tmdb: unexpected status %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode tmdb response: %w", err)
	}
	return nil
}

type tmdbGenre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type tmdbMovie struct {
	ID            int64       `json:"id"`
	Title         string      `json:"title"`
	OriginalTitle string      `json:"original_title"`
	Overview      string      `json:"overview"`
	PosterPath    string      `json:"poster_path"`
	BackdropPath  string      `json:"backdrop_path"`
	ReleaseDate   string      `json:"release_date"`
	Genres        []tmdbGenre `json:"genres"`
	Runtime       int         `json:"runtime"`
	VoteAverage   float64     `json:"vote_average"`
	Popularity    float64     `json:"popularity"`
}

type tmdbMovieList struct {
	Results []tmdbMovie `json:"results"`
}

func (m tmdbMovie) toEntity() entities.Movie {
	genres := make([]entities.Genre, 0, len(m.Genres))
	for _, genre := range m.Genres {
		genres = append(genres, entities.Genre{ID: genre.ID, Name: genre.Name})
	}
	return entities.Movie{
		TMDBID:        m.ID,
		Title:         m.Title,
		OriginalTitle: m.OriginalTitle,
		Overview:      m.Overview,
		PosterPath:    m.PosterPath,
		BackdropPath:  m.BackdropPath,
		ReleaseDate:   m.ReleaseDate,
		Genres:        genres,
		Runtime:       m.Runtime,
		VoteAverage:   m.VoteAverage,
		Popularity:    m.Popularity,
	}
}

func (l tmdbMovieList) toEntities() []entities.Movie {
	movies := make([]entities.Movie, 0, len(l.Results))
	for _, movie := range l.Results {
		movies = append(movies, movie.toEntity())
	}
	return movies
}

var _ ports.MovieSource = (*Client)(nil)

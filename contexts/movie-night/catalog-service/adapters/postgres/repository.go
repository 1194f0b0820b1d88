package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"movienight/contexts/movie-night/catalog-service/domain/entities"
	"movienight/contexts/movie-night/catalog-service/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is the gorm-backed movie cache.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

// AutoMigrate creates or updates the catalog cache table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&movieModel{})
}

func (r *Repository) GetByTMDBID(ctx context.Context, tmdbID int64) (entities.Movie, bool, error) {
	var row movieModel
	err := r.db.WithContext(ctx).
		Where("tmdb_id = ?", tmdbID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Movie{}, false, nil
		}
		return entities.Movie{}, false, r.logError("catalog_repo_get_movie_failed", err, "tmdb_id", tmdbID)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) Upsert(ctx context.Context, movie entities.Movie) error {
	row := movieModelFromEntity(movie)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tmdb_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "original_title", "overview", "poster_path", "backdrop_path",
			"release_date", "genres", "runtime", "vote_average", "popularity", "last_updated",
		}),
	}).Create(&row).Error
	if err != nil {
		return r.logError("catalog_repo_upsert_movie_failed", err, "tmdb_id", movie.TMDBID)
	}
	return nil
}

func (r *Repository) List(ctx context.Context, sortKey string, limit int) ([]entities.Movie, error) {
	order := "popularity DESC"
	switch sortKey {
	case ports.SortRating:
		order = "vote_average DESC"
	case ports.SortDate:
		order = "release_date DESC"
	}

	var rows []movieModel
	if err := r.db.WithContext(ctx).
		Order(order).
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("catalog_repo_list_movies_failed", err, "sort", sortKey)
	}

	movies := make([]entities.Movie, 0, len(rows))
	for _, row := range rows {
		movies = append(movies, row.toEntity())
	}
	return movies, nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "movie-night/catalog-service",
		"layer", "adapter/postgres",
		"error", err.Error(),
	}, args...)
	r.logger.Error("catalog repository operation failed", fields...)
	return err
}

type movieModel struct {
	TMDBID        int64            `gorm:"column:tmdb_id;primaryKey"`
	Title         string           `gorm:"column:title"`
	OriginalTitle string           `gorm:"column:original_title"`
	Overview      string           `gorm:"column:overview"`
	PosterPath    string           `gorm:"column:poster_path"`
	BackdropPath  string           `gorm:"column:backdrop_path"`
	ReleaseDate   string           `gorm:"column:release_date"`
	Genres        []entities.Genre `gorm:"column:genres;serializer:json"`
	Runtime       int              `gorm:"column:runtime"`
	VoteAverage   float64          `gorm:"column:vote_average"`
	Popularity    float64          `gorm:"column:popularity"`
	LastUpdated   time.Time        `gorm:"column:last_updated"`
}

func (movieModel) TableName() string {
	return "movies"
}

func movieModelFromEntity(movie entities.Movie) movieModel {
	genres := movie.Genres
	if genres == nil {
		genres = make([]entities.Genre, 0)
	}
	return movieModel{
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
		LastUpdated:   movie.LastUpdated.UTC(),
	}
}

func (m movieModel) toEntity() entities.Movie {
	genres := m.Genres
	if genres == nil {
		genres = make([]entities.Genre, 0)
	}
	return entities.Movie{
		TMDBID:        m.TMDBID,
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
		LastUpdated:   m.LastUpdated.UTC(),
	}
}

var _ ports.MovieCache = (*Repository)(nil)

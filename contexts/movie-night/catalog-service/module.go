package catalogservice

import (
	"log/slog"
	"time"

	httpadapter "movienight/contexts/movie-night/catalog-service/adapters/http"
	"movienight/contexts/movie-night/catalog-service/adapters/memory"
	"movienight/contexts/movie-night/catalog-service/application"
	"movienight/contexts/movie-night/catalog-service/domain/entities"
	"movienight/contexts/movie-night/catalog-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Source     ports.MovieSource
	Cache      ports.MovieCache
	Clock      ports.Clock
	StaleAfter time.Duration
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			Catalog: application.Service{
				Source:     deps.Source,
				Cache:      deps.Cache,
				Clock:      deps.Clock,
				StaleAfter: deps.StaleAfter,
				Logger:     deps.Logger,
			},
			Logger: deps.Logger,
		},
	}
}

func NewInMemoryModule(source ports.MovieSource, seed []entities.Movie, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Source: source,
		Cache:  store,
		Clock:  store,
		Logger: logger,
	})
	module.Store = store
	return module
}

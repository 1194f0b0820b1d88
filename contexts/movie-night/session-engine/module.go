package sessionengine

import (
	"log/slog"

	httpadapter "movienight/contexts/movie-night/session-engine/adapters/http"
	"movienight/contexts/movie-night/session-engine/adapters/memory"
	"movienight/contexts/movie-night/session-engine/application/commands"
	"movienight/contexts/movie-night/session-engine/application/queries"
	"movienight/contexts/movie-night/session-engine/domain/entities"
	"movienight/contexts/movie-night/session-engine/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Sessions      ports.SessionRepository
	Tokens        ports.TokenGenerator
	IDGen         ports.IDGenerator
	Clock         ports.Clock
	TokenAttempts int
	Logger        *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			CreateSession: commands.CreateSessionUseCase{
				Sessions:      deps.Sessions,
				Tokens:        deps.Tokens,
				Clock:         deps.Clock,
				TokenAttempts: deps.TokenAttempts,
				Logger:        deps.Logger,
			},
			Join: commands.JoinUseCase{
				Sessions: deps.Sessions,
				Clock:    deps.Clock,
				Logger:   deps.Logger,
			},
			Propose: commands.ProposeUseCase{
				Sessions: deps.Sessions,
				IDGen:    deps.IDGen,
				Clock:    deps.Clock,
				Logger:   deps.Logger,
			},
			Vote: commands.VoteUseCase{
				Sessions: deps.Sessions,
				Clock:    deps.Clock,
				Logger:   deps.Logger,
			},
			SessionView:  queries.SessionViewUseCase{Sessions: deps.Sessions},
			Participants: queries.ParticipantsUseCase{Sessions: deps.Sessions},
			Stats: queries.StatsUseCase{
				Sessions: deps.Sessions,
				Clock:    deps.Clock,
			},
			Logger: deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Session, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Sessions: store,
		Tokens:   store,
		IDGen:    store,
		Clock:    store,
		Logger:   logger,
	})
	module.Store = store
	return module
}

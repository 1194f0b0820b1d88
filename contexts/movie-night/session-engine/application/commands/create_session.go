package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "movienight/contexts/movie-night/session-engine/application"
	"movienight/contexts/movie-night/session-engine/domain/entities"
	domainerrors "movienight/contexts/movie-night/session-engine/domain/errors"
	"movienight/contexts/movie-night/session-engine/ports"
)

const defaultTokenAttempts = 25

// CreateSessionCommand is the write-model input for session creation.
type CreateSessionCommand struct {
	Name                   string
	Date                   time.Time
	MaxProposals           *int
	MaxVotesPerParticipant *int
	CreatorUsername        string
}

// CreateSessionUseCase issues a fresh token and registers the session. Token
// issuance is a bounded draw-and-reserve loop: the repository's CreateSession
// is the atomic reserve-if-absent, so two concurrent draws of the same token
// cannot both succeed.
type CreateSessionUseCase struct {
	Sessions      ports.SessionRepository
	Tokens        ports.TokenGenerator
	Clock         ports.Clock
	TokenAttempts int
	Logger        *slog.Logger
}

func (uc CreateSessionUseCase) CreateSession(ctx context.Context, cmd CreateSessionCommand) (entities.Session, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.Name) == "" {
		return entities.Session{}, domainerrors.ErrNameRequired
	}
	if cmd.Date.IsZero() {
		return entities.Session{}, domainerrors.ErrDateRequired
	}

	now := uc.now()
	session := entities.Session{
		Name:                   strings.TrimSpace(cmd.Name),
		Date:                   cmd.Date.UTC(),
		MaxProposals:           cmd.MaxProposals,
		MaxVotesPerParticipant: cmd.MaxVotesPerParticipant,
		CreatedAt:              now,
		Proposals:              make([]entities.Proposal, 0),
		Participants:           make([]entities.Participant, 0),
	}
	if creator := strings.TrimSpace(cmd.CreatorUsername); creator != "" {
		session.Participants = append(session.Participants, entities.Participant{
			Username: creator,
			JoinedAt: now,
			VotedFor: make([]string, 0),
		})
	}

	attempts := uc.TokenAttempts
	if attempts <= 0 {
		attempts = defaultTokenAttempts
	}
	for attempt := 1; attempt <= attempts; attempt++ {
		session.Token = uc.Tokens.NewToken()
		err := uc.Sessions.CreateSession(ctx, session)
		if err == nil {
			logger.Info("session created",
				"event", "session_created",
				"module", "movie-night/session-engine",
				"layer", "application",
				"token", session.Token,
				"name", session.Name,
				"token_attempts", attempt,
			)
			return session, nil
		}
		if errors.Is(err, domainerrors.ErrTokenTaken) {
			continue
		}
		return entities.Session{}, err
	}

	// Treated as a capacity anomaly, not a crash: the caller maps this to a
	// 5xx-equivalent response.
	logger.Error("session token space exhausted",
		"event", "session_token_space_exhausted",
		"module", "movie-night/session-engine",
		"layer", "application",
		"attempts", attempts,
	)
	return entities.Session{}, domainerrors.ErrTokenSpaceExhausted
}

func (uc CreateSessionUseCase) now() time.Time {
	if uc.Clock == nil {
		return time.Now().UTC()
	}
	return uc.Clock.Now().UTC()
}

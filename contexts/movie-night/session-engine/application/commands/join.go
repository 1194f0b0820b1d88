package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "movienight/contexts/movie-night/session-engine/application"
	"movienight/contexts/movie-night/session-engine/domain/entities"
	domainerrors "movienight/contexts/movie-night/session-engine/domain/errors"
	"movienight/contexts/movie-night/session-engine/ports"
)

// JoinResult is the session view handed back to a joining participant.
type JoinResult struct {
	Session        entities.Session
	Ranked         []entities.Proposal
	Participant    entities.Participant
	VotesRemaining *int
}

// JoinUseCase registers a participant in a session. Joining is idempotent: a
// username that already joined gets its current state back.
type JoinUseCase struct {
	Sessions ports.SessionRepository
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (uc JoinUseCase) Join(ctx context.Context, token string, username string) (JoinResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	username = strings.TrimSpace(username)
	if username == "" {
		return JoinResult{}, domainerrors.ErrUsernameRequired
	}

	now := uc.now()
	var joined entities.Participant
	session, err := uc.Sessions.UpdateSession(ctx, strings.TrimSpace(token), func(session *entities.Session) error {
		joined = *session.EnsureParticipant(username, now)
		return nil
	})
	if err != nil {
		return JoinResult{}, err
	}

	logger.Info("participant joined session",
		"event", "session_participant_joined",
		"module", "movie-night/session-engine",
		"layer", "application",
		"token", session.Token,
		"username", username,
	)
	return JoinResult{
		Session:        session,
		Ranked:         session.RankedProposals(),
		Participant:    joined,
		VotesRemaining: session.VotesRemaining(&joined),
	}, nil
}

func (uc JoinUseCase) now() time.Time {
	if uc.Clock == nil {
		return time.Now().UTC()
	}
	return uc.Clock.Now().UTC()
}

package queries

import (
	"context"
	"strings"

	"movienight/contexts/movie-night/session-engine/domain/entities"
	"movienight/contexts/movie-night/session-engine/ports"
)

// SessionView is the read model for fetch/join responses.
type SessionView struct {
	Session        entities.Session
	Ranked         []entities.Proposal
	UserVotes      []string
	VotesRemaining *int
}

// SessionViewUseCase serves read-only session lookups. Unlike Join it never
// creates a participant: an unknown username just reports the full cap as
// remaining, since that user could still join.
type SessionViewUseCase struct {
	Sessions ports.SessionRepository
}

func (uc SessionViewUseCase) Fetch(ctx context.Context, token string, username string) (SessionView, error) {
	session, err := uc.Sessions.GetSessionByToken(ctx, strings.TrimSpace(token))
	if err != nil {
		return SessionView{}, err
	}

	view := SessionView{
		Session:   session,
		Ranked:    session.RankedProposals(),
		UserVotes: make([]string, 0),
	}
	if username = strings.TrimSpace(username); username == "" {
		return view, nil
	}

	participant := session.FindParticipant(username)
	if participant != nil {
		view.UserVotes = append(view.UserVotes, participant.VotedFor...)
	}
	view.VotesRemaining = session.VotesRemaining(participant)
	return view, nil
}

package queries

import (
	"context"
	"strings"
	"time"

	"movienight/contexts/movie-night/session-engine/ports"
)

// ParticipantView is one row of the join-ordered participant listing.
type ParticipantView struct {
	Username       string
	JoinedAt       time.Time
	VotesCast      int
	VotesRemaining *int
}

type ParticipantsUseCase struct {
	Sessions ports.SessionRepository
}

// Participants lists a session's participants ordered by join time.
func (uc ParticipantsUseCase) Participants(ctx context.Context, token string) ([]ParticipantView, error) {
	session, err := uc.Sessions.GetSessionByToken(ctx, strings.TrimSpace(token))
	if err != nil {
		return nil, err
	}

	views := make([]ParticipantView, 0, len(session.Participants))
	for i := range session.Participants {
		participant := &session.Participants[i]
		views = append(views, ParticipantView{
			Username:       participant.Username,
			JoinedAt:       participant.JoinedAt,
			VotesCast:      len(participant.VotedFor),
			VotesRemaining: session.VotesRemaining(participant),
		})
	}
	return views, nil
}

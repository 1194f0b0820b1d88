package queries

import (
	"context"
	"math"
	"strings"
	"time"

	"movienight/contexts/movie-night/session-engine/ports"
)

// TopProposal is one leaderboard entry with its share of the participant base.
type TopProposal struct {
	Title                 string
	Votes                 int
	PercentOfParticipants int
}

// SessionStats aggregates turnout and ranking for one session. Pure read.
type SessionStats struct {
	TotalParticipants          int
	ParticipantsWhoVoted       int
	TotalVotesCast             int
	AverageVotesPerParticipant float64
	PercentParticipantsVoted   int
	TopProposals               []TopProposal
	MaxVotesPerParticipant     *int
	TimeRemaining              time.Duration
}

type StatsUseCase struct {
	Sessions ports.SessionRepository
	Clock    ports.Clock
}

// Stats derives ranking and turnout from the current ledger state. All ratios
// report 0 when the session has no participants; time remaining goes negative
// once the session date has passed.
func (uc StatsUseCase) Stats(ctx context.Context, token string) (SessionStats, error) {
	session, err := uc.Sessions.GetSessionByToken(ctx, strings.TrimSpace(token))
	if err != nil {
		return SessionStats{}, err
	}

	totalParticipants := len(session.Participants)
	totalVotes := 0
	voted := 0
	for _, participant := range session.Participants {
		totalVotes += len(participant.VotedFor)
		if len(participant.VotedFor) > 0 {
			voted++
		}
	}

	stats := SessionStats{
		TotalParticipants:      totalParticipants,
		ParticipantsWhoVoted:   voted,
		TotalVotesCast:         totalVotes,
		MaxVotesPerParticipant: session.MaxVotesPerParticipant,
		TimeRemaining:          session.Date.Sub(uc.now()),
		TopProposals:           make([]TopProposal, 0, 3),
	}
	if totalParticipants > 0 {
		average := float64(totalVotes) / float64(totalParticipants)
		stats.AverageVotesPerParticipant = math.Round(average*10) / 10
		stats.PercentParticipantsVoted = int(math.Round(float64(voted) / float64(totalParticipants) * 100))
	}

	ranked := session.RankedProposals()
	if len(ranked) > 3 {
		ranked = ranked[:3]
	}
	for _, proposal := range ranked {
		percent := 0
		if totalParticipants > 0 {
			percent = int(math.Round(float64(proposal.Votes) / float64(totalParticipants) * 100))
		}
		stats.TopProposals = append(stats.TopProposals, TopProposal{
			Title:                 proposal.Title,
			Votes:                 proposal.Votes,
			PercentOfParticipants: percent,
		})
	}
	return stats, nil
}

func (uc StatsUseCase) now() time.Time {
	if uc.Clock == nil {
		return time.Now().UTC()
	}
	return uc.Clock.Now().UTC()
}

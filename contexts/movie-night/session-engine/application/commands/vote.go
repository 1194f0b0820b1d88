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

// VoteCommand casts one vote, addressing the proposal by its tmdb id.
type VoteCommand struct {
	Token    string
	Username string
	TMDBID   int64
}

// VoteResult returns the updated proposal, the ranked list and the voter's
// remaining votes (nil when uncapped).
type VoteResult struct {
	Proposal       entities.Proposal
	Ranked         []entities.Proposal
	VotesRemaining *int
}

// VoteUseCase is the vote ledger. The vote count increment, the voter-set
// append and the participant vote-set append happen inside one UpdateSession
// closure, so the two sides of the relation cannot drift apart: a failed
// precondition leaves the session untouched.
type VoteUseCase struct {
	Sessions ports.SessionRepository
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (uc VoteUseCase) Vote(ctx context.Context, cmd VoteCommand) (VoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	username := strings.TrimSpace(cmd.Username)
	if username == "" {
		return VoteResult{}, domainerrors.ErrUsernameRequired
	}

	now := uc.now()
	var updated entities.Proposal
	var remaining *int
	session, err := uc.Sessions.UpdateSession(ctx, strings.TrimSpace(cmd.Token), func(session *entities.Session) error {
		proposal := session.FindProposalByTMDBID(cmd.TMDBID)
		if proposal == nil {
			return domainerrors.ErrProposalNotFound
		}

		participant := session.EnsureParticipant(username, now)
		// Checked from both directions so a vote is refused even if the two
		// collections ever disagreed.
		if participant.HasVotedFor(proposal.ProposalID) || proposal.HasVoter(username) {
			return domainerrors.ErrAlreadyVoted
		}
		if session.MaxVotesPerParticipant != nil && len(participant.VotedFor) >= *session.MaxVotesPerParticipant {
			return domainerrors.NewVoteLimitError(*session.MaxVotesPerParticipant)
		}

		proposal.Votes++
		proposal.Voters = append(proposal.Voters, username)
		participant.VotedFor = append(participant.VotedFor, proposal.ProposalID)
		updated = *proposal
		remaining = session.VotesRemaining(participant)
		return nil
	})
	if err != nil {
		logger.Warn("vote rejected",
			"event", "session_vote_rejected",
			"module", "movie-night/session-engine",
			"layer", "application",
			"token", strings.TrimSpace(cmd.Token),
			"username", username,
			"tmdb_id", cmd.TMDBID,
			"error", err.Error(),
		)
		return VoteResult{}, err
	}

	logger.Info("vote cast",
		"event", "session_vote_cast",
		"module", "movie-night/session-engine",
		"layer", "application",
		"token", session.Token,
		"proposal_id", updated.ProposalID,
		"tmdb_id", updated.TMDBID,
		"username", username,
		"votes", updated.Votes,
	)
	return VoteResult{
		Proposal:       updated,
		Ranked:         session.RankedProposals(),
		VotesRemaining: remaining,
	}, nil
}

func (uc VoteUseCase) now() time.Time {
	if uc.Clock == nil {
		return time.Now().UTC()
	}
	return uc.Clock.Now().UTC()
}

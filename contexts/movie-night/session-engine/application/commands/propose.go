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

// MovieInput carries the denormalized catalog fields copied onto a proposal at
// admission time. The caller resolves catalog metadata before proposing; the
// ledger never calls out.
type MovieInput struct {
	TMDBID      int64
	Title       string
	PosterPath  string
	Overview    string
	ReleaseDate string
}

// ProposeCommand is the write-model input for proposal admission.
type ProposeCommand struct {
	Token      string
	ProposedBy string
	Movie      MovieInput
}

// ProposeResult returns the admitted proposal plus the ranked list and the
// proposer's remaining votes (nil when uncapped).
type ProposeResult struct {
	Proposal       entities.Proposal
	Ranked         []entities.Proposal
	VotesRemaining *int
}

// ProposeUseCase admits new proposals. Preconditions are checked in order,
// each with a distinct failure: username, session proposal cap, duplicate
// movie, proposer vote cap. The proposer's first vote is implicit and counts
// against their cap.
type ProposeUseCase struct {
	Sessions ports.SessionRepository
	IDGen    ports.IDGenerator
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (uc ProposeUseCase) Propose(ctx context.Context, cmd ProposeCommand) (ProposeResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	proposer := strings.TrimSpace(cmd.ProposedBy)
	if proposer == "" {
		return ProposeResult{}, domainerrors.ErrUsernameRequired
	}
	if cmd.Movie.TMDBID == 0 || strings.TrimSpace(cmd.Movie.Title) == "" {
		return ProposeResult{}, domainerrors.ErrMovieRequired
	}

	proposalID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return ProposeResult{}, err
	}

	now := uc.now()
	var admitted entities.Proposal
	var remaining *int
	session, err := uc.Sessions.UpdateSession(ctx, strings.TrimSpace(cmd.Token), func(session *entities.Session) error {
		if session.MaxProposals != nil && len(session.Proposals) >= *session.MaxProposals {
			return domainerrors.NewProposalLimitError(*session.MaxProposals)
		}
		if session.FindProposalByTMDBID(cmd.Movie.TMDBID) != nil {
			return domainerrors.ErrDuplicateProposal
		}

		participant := session.EnsureParticipant(proposer, now)
		if session.MaxVotesPerParticipant != nil && len(participant.VotedFor) >= *session.MaxVotesPerParticipant {
			return domainerrors.NewVoteLimitError(*session.MaxVotesPerParticipant)
		}

		admitted = entities.Proposal{
			ProposalID:  proposalID,
			TMDBID:      cmd.Movie.TMDBID,
			Title:       strings.TrimSpace(cmd.Movie.Title),
			PosterPath:  cmd.Movie.PosterPath,
			Overview:    cmd.Movie.Overview,
			ReleaseDate: cmd.Movie.ReleaseDate,
			ProposedBy:  proposer,
			Votes:       1,
			Voters:      []string{proposer},
			CreatedAt:   now,
		}
		session.Proposals = append(session.Proposals, admitted)
		participant.VotedFor = append(participant.VotedFor, proposalID)
		remaining = session.VotesRemaining(participant)
		return nil
	})
	if err != nil {
		logger.Warn("proposal rejected",
			"event", "session_proposal_rejected",
			"module", "movie-night/session-engine",
			"layer", "application",
			"token", strings.TrimSpace(cmd.Token),
			"username", proposer,
			"tmdb_id", cmd.Movie.TMDBID,
			"error", err.Error(),
		)
		return ProposeResult{}, err
	}

	logger.Info("proposal admitted",
		"event", "session_proposal_admitted",
		"module", "movie-night/session-engine",
		"layer", "application",
		"token", session.Token,
		"proposal_id", admitted.ProposalID,
		"tmdb_id", admitted.TMDBID,
		"username", proposer,
	)
	return ProposeResult{
		Proposal:       admitted,
		Ranked:         session.RankedProposals(),
		VotesRemaining: remaining,
	}, nil
}

func (uc ProposeUseCase) now() time.Time {
	if uc.Clock == nil {
		return time.Now().UTC()
	}
	return uc.Clock.Now().UTC()
}

package httpadapter

import (
	"context"
	"log/slog"

	"movienight/contexts/movie-night/session-engine/application/commands"
	"movienight/contexts/movie-night/session-engine/application/queries"
	"movienight/contexts/movie-night/session-engine/domain/entities"
	httptransport "movienight/contexts/movie-night/session-engine/transport/http"
)

// Handler bridges transport DTOs and use cases. It stays transport-framework
// free; the platform httpserver owns routing, decoding and error mapping.
type Handler struct {
	CreateSession commands.CreateSessionUseCase
	Join          commands.JoinUseCase
	Propose       commands.ProposeUseCase
	Vote          commands.VoteUseCase
	SessionView   queries.SessionViewUseCase
	Participants  queries.ParticipantsUseCase
	Stats         queries.StatsUseCase
	Logger        *slog.Logger
}

func (h Handler) CreateSessionHandler(
	ctx context.Context,
	cmd commands.CreateSessionCommand,
	inviteLink func(token string) string,
) (httptransport.CreateSessionResponse, error) {
	session, err := h.CreateSession.CreateSession(ctx, cmd)
	if err != nil {
		return httptransport.CreateSessionResponse{}, err
	}
	descriptor := mapSessionDescriptor(session)
	if inviteLink != nil {
		descriptor.InviteLink = inviteLink(session.Token)
	}
	return httptransport.CreateSessionResponse{Session: descriptor}, nil
}

func (h Handler) JoinSessionHandler(ctx context.Context, token string, req httptransport.JoinSessionRequest) (httptransport.JoinSessionResponse, error) {
	result, err := h.Join.Join(ctx, token, req.Username)
	if err != nil {
		return httptransport.JoinSessionResponse{}, err
	}
	votedFor := result.Participant.VotedFor
	if votedFor == nil {
		votedFor = make([]string, 0)
	}
	return httptransport.JoinSessionResponse{
		Session:   mapSessionDescriptor(result.Session),
		Proposals: mapProposals(result.Ranked),
		User: httptransport.ParticipantState{
			Username:       result.Participant.Username,
			VotedFor:       votedFor,
			VotesRemaining: result.VotesRemaining,
		},
	}, nil
}

func (h Handler) GetSessionHandler(ctx context.Context, token string, username string) (httptransport.SessionResponse, error) {
	view, err := h.SessionView.Fetch(ctx, token, username)
	if err != nil {
		return httptransport.SessionResponse{}, err
	}
	return httptransport.SessionResponse{
		Session:        mapSessionDescriptor(view.Session),
		Proposals:      mapProposals(view.Ranked),
		UserVotes:      view.UserVotes,
		VotesRemaining: view.VotesRemaining,
	}, nil
}

func (h Handler) ProposeHandler(ctx context.Context, token string, req httptransport.ProposeRequest) (httptransport.ProposeResponse, error) {
	result, err := h.Propose.Propose(ctx, commands.ProposeCommand{
		Token:      token,
		ProposedBy: req.ProposedBy,
		Movie: commands.MovieInput{
			TMDBID:      req.Movie.TMDBID,
			Title:       req.Movie.Title,
			PosterPath:  req.Movie.PosterPath,
			Overview:    req.Movie.Overview,
			ReleaseDate: req.Movie.ReleaseDate,
		},
	})
	if err != nil {
		return httptransport.ProposeResponse{}, err
	}
	return httptransport.ProposeResponse{
		Proposal:       mapProposal(result.Proposal),
		Proposals:      mapProposals(result.Ranked),
		VotesRemaining: result.VotesRemaining,
	}, nil
}

func (h Handler) VoteHandler(ctx context.Context, token string, tmdbID int64, req httptransport.VoteRequest) (httptransport.VoteResponse, error) {
	result, err := h.Vote.Vote(ctx, commands.VoteCommand{
		Token:    token,
		Username: req.Username,
		TMDBID:   tmdbID,
	})
	if err != nil {
		return httptransport.VoteResponse{}, err
	}
	return httptransport.VoteResponse{
		Proposal:       mapProposal(result.Proposal),
		Proposals:      mapProposals(result.Ranked),
		VotesRemaining: result.VotesRemaining,
	}, nil
}

func (h Handler) ParticipantsHandler(ctx context.Context, token string) (httptransport.ParticipantsResponse, error) {
	views, err := h.Participants.Participants(ctx, token)
	if err != nil {
		return httptransport.ParticipantsResponse{}, err
	}
	participants := make([]httptransport.ParticipantView, 0, len(views))
	for _, view := range views {
		participants = append(participants, httptransport.ParticipantView{
			Username:       view.Username,
			JoinedAt:       view.JoinedAt,
			VotesCast:      view.VotesCast,
			VotesRemaining: view.VotesRemaining,
		})
	}
	return httptransport.ParticipantsResponse{Participants: participants}, nil
}

func (h Handler) StatsHandler(ctx context.Context, token string) (httptransport.StatsResponse, error) {
	stats, err := h.Stats.Stats(ctx, token)
	if err != nil {
		return httptransport.StatsResponse{}, err
	}
	top := make([]httptransport.TopProposalView, 0, len(stats.TopProposals))
	for _, proposal := range stats.TopProposals {
		top = append(top, httptransport.TopProposalView{
			Title:                 proposal.Title,
			Votes:                 proposal.Votes,
			PercentOfParticipants: proposal.PercentOfParticipants,
		})
	}
	return httptransport.StatsResponse{
		TotalParticipants:          stats.TotalParticipants,
		ParticipantsWhoVoted:       stats.ParticipantsWhoVoted,
		TotalVotesCast:             stats.TotalVotesCast,
		AverageVotesPerParticipant: stats.AverageVotesPerParticipant,
		PercentParticipantsVoted:   stats.PercentParticipantsVoted,
		TopProposals:               top,
		MaxVotesPerParticipant:     stats.MaxVotesPerParticipant,
		TimeRemainingMS:            stats.TimeRemaining.Milliseconds(),
	}, nil
}

func mapSessionDescriptor(session entities.Session) httptransport.SessionDescriptor {
	return httptransport.SessionDescriptor{
		Token:                  session.Token,
		Name:                   session.Name,
		Date:                   session.Date,
		MaxProposals:           session.MaxProposals,
		MaxVotesPerParticipant: session.MaxVotesPerParticipant,
		CreatedAt:              session.CreatedAt,
	}
}

func mapProposal(proposal entities.Proposal) httptransport.ProposalView {
	voters := proposal.Voters
	if voters == nil {
		voters = make([]string, 0)
	}
	return httptransport.ProposalView{
		ProposalID:  proposal.ProposalID,
		TMDBID:      proposal.TMDBID,
		Title:       proposal.Title,
		PosterPath:  proposal.PosterPath,
		Overview:    proposal.Overview,
		ReleaseDate: proposal.ReleaseDate,
		ProposedBy:  proposal.ProposedBy,
		Votes:       proposal.Votes,
		Voters:      voters,
	}
}

func mapProposals(proposals []entities.Proposal) []httptransport.ProposalView {
	views := make([]httptransport.ProposalView, 0, len(proposals))
	for _, proposal := range proposals {
		views = append(views, mapProposal(proposal))
	}
	return views
}

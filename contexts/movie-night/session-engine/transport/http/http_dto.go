package httptransport

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Limit   int    `json:"limit,omitempty"`
}

type CreateSessionRequest struct {
	Name                   string `json:"name"`
	Date                   string `json:"date"`
	MaxProposals           *int   `json:"max_proposals,omitempty"`
	MaxVotesPerParticipant *int   `json:"max_votes_per_participant,omitempty"`
	Username               string `json:"username,omitempty"`
}

type SessionDescriptor struct {
	Token                  string    `json:"token"`
	Name                   string    `json:"name"`
	Date                   time.Time `json:"date"`
	MaxProposals           *int      `json:"max_proposals"`
	MaxVotesPerParticipant *int      `json:"max_votes_per_participant"`
	CreatedAt              time.Time `json:"created_at"`
	InviteLink             string    `json:"invite_link,omitempty"`
}

type ProposalView struct {
	ProposalID  string   `json:"proposal_id"`
	TMDBID      int64    `json:"tmdb_id"`
	Title       string   `json:"title"`
	PosterPath  string   `json:"poster_path,omitempty"`
	Overview    string   `json:"overview,omitempty"`
	ReleaseDate string   `json:"release_date,omitempty"`
	ProposedBy  string   `json:"proposed_by"`
	Votes       int      `json:"votes"`
	Voters      []string `json:"voters"`
}

type CreateSessionResponse struct {
	Session SessionDescriptor `json:"session"`
}

type JoinSessionRequest struct {
	Username string `json:"username"`
}

type ParticipantState struct {
	Username       string   `json:"username"`
	VotedFor       []string `json:"voted_for"`
	VotesRemaining *int     `json:"votes_remaining"`
}

type JoinSessionResponse struct {
	Session   SessionDescriptor `json:"session"`
	Proposals []ProposalView    `json:"proposals"`
	User      ParticipantState  `json:"user"`
}

type SessionResponse struct {
	Session        SessionDescriptor `json:"session"`
	Proposals      []ProposalView    `json:"proposals"`
	UserVotes      []string          `json:"user_votes"`
	VotesRemaining *int              `json:"votes_remaining"`
}

type MoviePayload struct {
	TMDBID      int64  `json:"tmdb_id"`
	Title       string `json:"title"`
	PosterPath  string `json:"poster_path"`
	Overview    string `json:"overview"`
	ReleaseDate string `json:"release_date"`
}

type ProposeRequest struct {
	ProposedBy string       `json:"proposed_by"`
	Movie      MoviePayload `json:"movie"`
}

type ProposeResponse struct {
	Proposal       ProposalView   `json:"proposal"`
	Proposals      []ProposalView `json:"proposals"`
	VotesRemaining *int           `json:"votes_remaining"`
}

type VoteRequest struct {
	Username string `json:"username"`
}

type VoteResponse struct {
	Proposal       ProposalView   `json:"proposal"`
	Proposals      []ProposalView `json:"proposals"`
	VotesRemaining *int           `json:"votes_remaining"`
}

type ParticipantView struct {
	Username       string    `json:"username"`
	JoinedAt       time.Time `json:"joined_at"`
	VotesCast      int       `json:"votes_cast"`
	VotesRemaining *int      `json:"votes_remaining"`
}

type ParticipantsResponse struct {
	Participants []ParticipantView `json:"participants"`
}

type TopProposalView struct {
	Title                 string `json:"title"`
	Votes                 int    `json:"votes"`
	PercentOfParticipants int    `json:"percent_of_participants"`
}

type StatsResponse struct {
	TotalParticipants          int               `json:"total_participants"`
	ParticipantsWhoVoted       int               `json:"participants_who_voted"`
	TotalVotesCast             int               `json:"total_votes_cast"`
	AverageVotesPerParticipant float64           `json:"average_votes_per_participant"`
	PercentParticipantsVoted   int               `json:"percent_participants_voted"`
	TopProposals               []TopProposalView `json:"top_proposals"`
	MaxVotesPerParticipant     *int              `json:"max_votes_per_participant"`
	TimeRemainingMS            int64             `json:"time_remaining_ms"`
}

package entities

import (
	"sort"
	"strings"
	"time"
)

// Session is the aggregate root for one movie night. It owns its proposals
// (creation order) and participants (join order); both collections are only
// mutated through the session repository's serialized update boundary.
type Session struct {
	Token                  string
	Name                   string
	Date                   time.Time
	MaxProposals           *int
	MaxVotesPerParticipant *int
	CreatedAt              time.Time
	Proposals              []Proposal
	Participants           []Participant
}

// Proposal is one candidate movie inside a session. Votes must always equal
// len(Voters); both are updated together by the vote ledger.
type Proposal struct {
	ProposalID  string
	TMDBID      int64
	Title       string
	PosterPath  string
	Overview    string
	ReleaseDate string
	ProposedBy  string
	Votes       int
	Voters      []string
	CreatedAt   time.Time
}

// Participant is a (session, username) identity. Usernames are self-asserted.
type Participant struct {
	Username string
	JoinedAt time.Time
	VotedFor []string
}

func (p Proposal) HasVoter(username string) bool {
	for _, voter := range p.Voters {
		if voter == username {
			return true
		}
	}
	return false
}

func (p Participant) HasVotedFor(proposalID string) bool {
	for _, id := range p.VotedFor {
		if id == proposalID {
			return true
		}
	}
	return false
}

func (s *Session) FindProposalByTMDBID(tmdbID int64) *Proposal {
	for i := range s.Proposals {
		if s.Proposals[i].TMDBID == tmdbID {
			return &s.Proposals[i]
		}
	}
	return nil
}

func (s *Session) FindParticipant(username string) *Participant {
	username = strings.TrimSpace(username)
	for i := range s.Participants {
		if s.Participants[i].Username == username {
			return &s.Participants[i]
		}
	}
	return nil
}

// EnsureParticipant returns the participant for username, creating one with an
// empty vote set on first interaction. Idempotent.
func (s *Session) EnsureParticipant(username string, now time.Time) *Participant {
	if existing := s.FindParticipant(username); existing != nil {
		return existing
	}
	s.Participants = append(s.Participants, Participant{
		Username: strings.TrimSpace(username),
		JoinedAt: now,
		VotedFor: make([]string, 0),
	})
	return &s.Participants[len(s.Participants)-1]
}

// RankedProposals returns proposals ordered by votes descending. Ties keep
// creation order.
func (s *Session) RankedProposals() []Proposal {
	ranked := make([]Proposal, len(s.Proposals))
	copy(ranked, s.Proposals)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Votes > ranked[j].Votes
	})
	return ranked
}

// VotesRemaining reports how many votes the participant may still cast, or nil
// when the session is uncapped.
func (s *Session) VotesRemaining(p *Participant) *int {
	if s.MaxVotesPerParticipant == nil {
		return nil
	}
	cast := 0
	if p != nil {
		cast = len(p.VotedFor)
	}
	remaining := *s.MaxVotesPerParticipant - cast
	if remaining < 0 {
		remaining = 0
	}
	return &remaining
}

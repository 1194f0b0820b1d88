package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"movienight/contexts/movie-night/session-engine/domain/entities"
	domainerrors "movienight/contexts/movie-night/session-engine/domain/errors"
	"movienight/contexts/movie-night/session-engine/domain/token"
	"movienight/contexts/movie-night/session-engine/ports"

	"github.com/google/uuid"
)

// Store is the in-memory session repository. The store mutex is the
// serialization boundary: UpdateSession mutates a deep copy and swaps it in
// only when the closure succeeds, so a failed operation leaves no trace.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*entities.Session
}

func NewStore(seed []entities.Session) *Store {
	sessions := make(map[string]*entities.Session, len(seed))
	for i := range seed {
		session := cloneSession(&seed[i])
		sessions[session.Token] = session
	}
	return &Store{sessions: sessions}
}

func (s *Store) CreateSession(_ context.Context, session entities.Session) error {
	token := strings.TrimSpace(session.Token)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[token]; exists {
		return domainerrors.ErrTokenTaken
	}
	stored := cloneSession(&session)
	stored.Token = token
	s.sessions[token] = stored
	return nil
}

func (s *Store) GetSessionByToken(_ context.Context, token string) (entities.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[strings.TrimSpace(token)]
	if !ok {
		return entities.Session{}, domainerrors.ErrSessionNotFound
	}
	return *cloneSession(session), nil
}

func (s *Store) UpdateSession(
	_ context.Context,
	token string,
	fn func(*entities.Session) error,
) (entities.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.sessions[strings.TrimSpace(token)]
	if !ok {
		return entities.Session{}, domainerrors.ErrSessionNotFound
	}

	working := cloneSession(current)
	if err := fn(working); err != nil {
		return entities.Session{}, err
	}
	s.sessions[working.Token] = working
	return *cloneSession(working), nil
}

// Now implements ports.Clock.
func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

// NewID implements ports.IDGenerator.
func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// NewToken implements ports.TokenGenerator.
func (s *Store) NewToken() string {
	return token.Draw()
}

func cloneSession(session *entities.Session) *entities.Session {
	cloned := &entities.Session{
		Token:                  session.Token,
		Name:                   session.Name,
		Date:                   session.Date,
		MaxProposals:           cloneIntPtr(session.MaxProposals),
		MaxVotesPerParticipant: cloneIntPtr(session.MaxVotesPerParticipant),
		CreatedAt:              session.CreatedAt,
		Proposals:              make([]entities.Proposal, len(session.Proposals)),
		Participants:           make([]entities.Participant, len(session.Participants)),
	}
	for i, proposal := range session.Proposals {
		proposal.Voters = append([]string(nil), proposal.Voters...)
		cloned.Proposals[i] = proposal
	}
	for i, participant := range session.Participants {
		participant.VotedFor = append([]string(nil), participant.VotedFor...)
		cloned.Participants[i] = participant
	}
	return cloned
}

func cloneIntPtr(value *int) *int {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}

var _ ports.SessionRepository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
var _ ports.TokenGenerator = (*Store)(nil)

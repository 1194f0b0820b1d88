package ports

import (
	"context"
	"time"

	"movienight/contexts/movie-night/session-engine/domain/entities"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// TokenGenerator draws one candidate session token per call. Uniqueness is not
// its concern; the repository's reserve-if-absent create is.
type TokenGenerator interface {
	NewToken() string
}

// SessionRepository owns session aggregates. Implementations must guarantee:
//   - CreateSession atomically reserves the token, returning ErrTokenTaken when
//     another session already holds it.
//   - UpdateSession serializes all mutations of one session: fn observes a
//     consistent aggregate, and either every change fn made is persisted or,
//     when fn returns an error, none are.
//   - GetSessionByToken returns a snapshot safe to read without locks.
type SessionRepository interface {
	CreateSession(ctx context.Context, session entities.Session) error
	GetSessionByToken(ctx context.Context, token string) (entities.Session, error)
	UpdateSession(ctx context.Context, token string, fn func(*entities.Session) error) (entities.Session, error)
}

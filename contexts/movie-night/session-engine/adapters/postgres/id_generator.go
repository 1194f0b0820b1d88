package postgresadapter

import (
	"context"
	"time"

	"movienight/contexts/movie-night/session-engine/domain/token"
	"movienight/contexts/movie-night/session-engine/ports"

	"github.com/google/uuid"
)

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

type TokenGenerator struct{}

func (TokenGenerator) NewToken() string {
	return token.Draw()
}

var _ ports.Clock = SystemClock{}
var _ ports.IDGenerator = UUIDGenerator{}
var _ ports.TokenGenerator = TokenGenerator{}

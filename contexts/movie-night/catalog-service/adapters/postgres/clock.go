package postgresadapter

import (
	"time"

	"movienight/contexts/movie-night/catalog-service/ports"
)

// SystemClock implements ports.Clock on the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

var _ ports.Clock = SystemClock{}

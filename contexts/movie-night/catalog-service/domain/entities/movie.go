package entities

import "time"

type Genre struct {
	ID   int64
	Name string
}

// Movie is cached catalog metadata for one external title. LastUpdated drives
// the staleness check; the session engine only copies the denormalized
// display fields at proposal admission time.
type Movie struct {
	TMDBID        int64
	Title         string
	OriginalTitle string
	Overview      string
	PosterPath    string
	BackdropPath  string
	ReleaseDate   string
	Genres        []Genre
	Runtime       int
	VoteAverage   float64
	Popularity    float64
	LastUpdated   time.Time
}

// NeedsRefresh reports whether the cached copy is older than staleAfter.
func (m Movie) NeedsRefresh(now time.Time, staleAfter time.Duration) bool {
	if m.LastUpdated.IsZero() {
		return true
	}
	return now.Sub(m.LastUpdated) > staleAfter
}

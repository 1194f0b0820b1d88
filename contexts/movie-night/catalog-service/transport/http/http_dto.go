package httptransport

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// GenreView is the wire shape for a movie genre.
type GenreView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// MovieView is the wire shape for catalog metadata.
type MovieView struct {
	TMDBID        int64       `json:"tmdbId"`
	Title         string      `json:"title"`
	OriginalTitle string      `json:"originalTitle,omitempty"`
	Overview      string      `json:"overview"`
	PosterPath    string      `json:"posterPath"`
	BackdropPath  string      `json:"backdropPath,omitempty"`
	ReleaseDate   string      `json:"releaseDate"`
	Genres        []GenreView `json:"genres"`
	Runtime       int         `json:"runtime,omitempty"`
	VoteAverage   float64     `json:"voteAverage"`
	Popularity    float64     `json:"popularity"`
}

type MovieResponse struct {
	Movie MovieView `json:"movie"`
}

type MovieListResponse struct {
	Movies []MovieView `json:"movies"`
}

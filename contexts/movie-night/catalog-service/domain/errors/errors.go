package errors

import "errors"

var (
	ErrQueryRequired       = errors.New("search query is required")
	ErrMovieNotFound       = errors.New("movie not found")
	ErrSourceNotConfigured = errors.New("catalog source api key is not configured")
)

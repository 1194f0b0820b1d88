// Package catalogservice resolves movie metadata for group sessions.
//
// Lookups are cache-first against a local movie store and fall back to the
// TMDB API when the cached copy is missing or older than the staleness
// window. Search and popular listings always hit the source and refresh the
// cache best-effort.
package catalogservice

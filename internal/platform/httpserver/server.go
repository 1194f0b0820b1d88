package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	catalogservice "movienight/contexts/movie-night/catalog-service"
	catalogerrors "movienight/contexts/movie-night/catalog-service/domain/errors"
	cataloghttp "movienight/contexts/movie-night/catalog-service/transport/http"
	sessionengine "movienight/contexts/movie-night/session-engine"
	"movienight/contexts/movie-night/session-engine/application/commands"
	sessionerrors "movienight/contexts/movie-night/session-engine/domain/errors"
	sessionhttp "movienight/contexts/movie-night/session-engine/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "movienight/internal/platform/httpserver/docs"
)

type Server struct {
	mux           *http.ServeMux
	logger        *slog.Logger
	addr          string
	sessions      sessionengine.Module
	catalog       catalogservice.Module
	publicBaseURL string
}

func New(
	sessions sessionengine.Module,
	catalog catalogservice.Module,
	logger *slog.Logger,
	addr string,
	publicBaseURL string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:           http.NewServeMux(),
		logger:        logger,
		addr:          addr,
		sessions:      sessions,
		catalog:       catalog,
		publicBaseURL: publicBaseURL,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the routing mux for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /{$}", s.handleRoot)

	s.mux.HandleFunc("POST /api/nights", s.handleCreateNight)
	s.mux.HandleFunc("POST /api/nights/{token}/join", s.handleJoinNight)
	s.mux.HandleFunc("GET /api/nights/{token}", s.handleGetNight)
	s.mux.HandleFunc("POST /api/nights/{token}/propose", s.handlePropose)
	s.mux.HandleFunc("POST /api/nights/{token}/vote/{tmdb_id}", s.handleVote)
	s.mux.HandleFunc("GET /api/nights/{token}/users", s.handleListParticipants)
	s.mux.HandleFunc("GET /api/nights/{token}/stats", s.handleNightStats)

	s.mux.HandleFunc("GET /api/movies/search", s.handleSearchMovies)
	s.mux.HandleFunc("GET /api/movies/popular", s.handlePopularMovies)
	s.mux.HandleFunc("GET /api/movies/cached", s.handleCachedMovies)
	s.mux.HandleFunc("GET /api/movies/{tmdb_id}", s.handleMovieDetails)
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "movienight",
		"status":  "ok",
	})
}

func (s *Server) handleCreateNight(w http.ResponseWriter, r *http.Request) {
	var req sessionhttp.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSessionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", 0)
		return
	}

	date, err := parseSessionDate(req.Date)
	if err != nil {
		writeSessionError(w, http.StatusBadRequest, "invalid_date", "date must be RFC 3339 or YYYY-MM-DD", 0)
		return
	}

	resp, err := s.sessions.Handler.CreateSessionHandler(r.Context(), commands.CreateSessionCommand{
		Name:                   req.Name,
		Date:                   date,
		MaxProposals:           req.MaxProposals,
		MaxVotesPerParticipant: req.MaxVotesPerParticipant,
		CreatorUsername:        req.Username,
	}, s.inviteLink)
	if err != nil {
		writeSessionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleJoinNight(w http.ResponseWriter, r *http.Request) {
	var req sessionhttp.JoinSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSessionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", 0)
		return
	}

	resp, err := s.sessions.Handler.JoinSessionHandler(r.Context(), r.PathValue("token"), req)
	if err != nil {
		writeSessionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetNight(w http.ResponseWriter, r *http.Request) {
	resp, err := s.sessions.Handler.GetSessionHandler(r.Context(), r.PathValue("token"), r.URL.Query().Get("username"))
	if err != nil {
		writeSessionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePropose(w http.ResponseWriter, r *http.Request) {
	var req sessionhttp.ProposeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSessionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", 0)
		return
	}

	resp, err := s.sessions.Handler.ProposeHandler(r.Context(), r.PathValue("token"), req)
	if err != nil {
		writeSessionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	tmdbID, err := strconv.ParseInt(r.PathValue("tmdb_id"), 10, 64)
	if err != nil {
		writeSessionError(w, http.StatusBadRequest, "invalid_tmdb_id", "tmdb_id must be an integer", 0)
		return
	}

	var req sessionhttp.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSessionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", 0)
		return
	}

	resp, err := s.sessions.Handler.VoteHandler(r.Context(), r.PathValue("token"), tmdbID, req)
	if err != nil {
		writeSessionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListParticipants(w http.ResponseWriter, r *http.Request) {
	resp, err := s.sessions.Handler.ParticipantsHandler(r.Context(), r.PathValue("token"))
	if err != nil {
		writeSessionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleNightStats(w http.ResponseWriter, r *http.Request) {
	resp, err := s.sessions.Handler.StatsHandler(r.Context(), r.PathValue("token"))
	if err != nil {
		writeSessionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSearchMovies(w http.ResponseWriter, r *http.Request) {
	resp, err := s.catalog.Handler.SearchHandler(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePopularMovies(w http.ResponseWriter, r *http.Request) {
	resp, err := s.catalog.Handler.PopularHandler(r.Context())
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCachedMovies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := 0
	if limitRaw := query.Get("limit"); limitRaw != "" {
		parsed, err := strconv.Atoi(limitRaw)
		if err != nil {
			writeCatalogError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		limit = parsed
	}

	resp, err := s.catalog.Handler.CachedHandler(r.Context(), query.Get("sort"), limit)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMovieDetails(w http.ResponseWriter, r *http.Request) {
	tmdbID, err := strconv.ParseInt(r.PathValue("tmdb_id"), 10, 64)
	if err != nil {
		writeCatalogError(w, http.StatusBadRequest, "invalid_tmdb_id", "tmdb_id must be an integer")
		return
	}

	resp, err := s.catalog.Handler.MovieDetailsHandler(r.Context(), tmdbID)
	if err != nil {
		writeCatalogDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// inviteLink builds the shareable join URL for a freshly issued token.
func (s *Server) inviteLink(token string) string {
	return s.publicBaseURL + "/night/" + token
}

// parseSessionDate accepts RFC 3339 timestamps and bare calendar dates.
func parseSessionDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", raw)
}

func writeSessionDomainError(w http.ResponseWriter, err error) {
	var limitErr *sessionerrors.LimitError
	if errors.As(err, &limitErr) {
		writeSessionError(w, http.StatusBadRequest, "limit_reached", err.Error(), limitErr.Limit)
		return
	}

	switch {
	case errors.Is(err, sessionerrors.ErrNameRequired),
		errors.Is(err, sessionerrors.ErrDateRequired),
		errors.Is(err, sessionerrors.ErrUsernameRequired),
		errors.Is(err, sessionerrors.ErrMovieRequired):
		writeSessionError(w, http.StatusBadRequest, "invalid_request", err.Error(), 0)
	case errors.Is(err, sessionerrors.ErrSessionNotFound):
		writeSessionError(w, http.StatusNotFound, "night_not_found", err.Error(), 0)
	case errors.Is(err, sessionerrors.ErrProposalNotFound):
		writeSessionError(w, http.StatusNotFound, "proposal_not_found", err.Error(), 0)
	case errors.Is(err, sessionerrors.ErrDuplicateProposal):
		writeSessionError(w, http.StatusConflict, "duplicate_proposal", err.Error(), 0)
	case errors.Is(err, sessionerrors.ErrAlreadyVoted):
		writeSessionError(w, http.StatusConflict, "already_voted", err.Error(), 0)
	case errors.Is(err, sessionerrors.ErrTokenSpaceExhausted):
		writeSessionError(w, http.StatusServiceUnavailable, "token_space_exhausted", err.Error(), 0)
	default:
		writeSessionError(w, http.StatusInternalServerError, "internal_error", "internal server error", 0)
	}
}

func writeCatalogDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalogerrors.ErrQueryRequired):
		writeCatalogError(w, http.StatusBadRequest, "query_required", err.Error())
	case errors.Is(err, catalogerrors.ErrMovieNotFound):
		writeCatalogError(w, http.StatusNotFound, "movie_not_found", err.Error())
	case errors.Is(err, catalogerrors.ErrSourceNotConfigured):
		writeCatalogError(w, http.StatusServiceUnavailable, "catalog_unavailable", err.Error())
	default:
		writeCatalogError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeSessionError(w http.ResponseWriter, status int, code string, message string, limit int) {
	writeJSON(w, status, sessionhttp.ErrorResponse{
		Code:    code,
		Message: message,
		Limit:   limit,
	})
}

func writeCatalogError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, cataloghttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

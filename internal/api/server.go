// Package api exposes the tournament service over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/utakatalp/league-projections/internal/league"
	"github.com/utakatalp/league-projections/internal/logger"
	"github.com/utakatalp/league-projections/internal/tournament"
)

// Server holds the HTTP handlers.
type Server struct {
	svc *tournament.Service
}

// NewServer returns handlers backed by svc.
func NewServer(svc *tournament.Service) *Server {
	return &Server{svc: svc}
}

// Handler returns the router behind the CORS layer. Preflight requests
// match no route, so CORS wraps the router instead of being registered on it.
func (s *Server) Handler() http.Handler {
	return corsMiddleware(s.Router())
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(loggingMiddleware)
	router.HandleFunc("/health", s.health).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/teams", s.getTeams).Methods(http.MethodGet)
	api.HandleFunc("/matches", s.getMatches).Methods(http.MethodGet)
	api.HandleFunc("/matches/{id}", s.updateMatch).Methods(http.MethodPut)
	api.HandleFunc("/matches/{id}/simulate", s.simulateMatch).Methods(http.MethodPost)
	api.HandleFunc("/annual", s.getAnnual).Methods(http.MethodGet)
	api.HandleFunc("/averages", s.getAverages).Methods(http.MethodGet)
	api.HandleFunc("/reset", s.reset).Methods(http.MethodPost)

	t := api.PathPrefix("/tournaments/{tournament}").Subrouter()
	t.HandleFunc("/standings", s.getStandings).Methods(http.MethodGet)
	t.HandleFunc("/projections", s.getProjections).Methods(http.MethodGet)
	t.HandleFunc("/projections/refresh", s.refreshProjections).Methods(http.MethodPost)
	t.HandleFunc("/bracket", s.getBracket).Methods(http.MethodGet)
	t.HandleFunc("/bracket/advance", s.advanceBracket).Methods(http.MethodPost)
	t.HandleFunc("/simulate-round", s.simulateRound).Methods(http.MethodPost)
	t.HandleFunc("/simulate-all", s.simulateAll).Methods(http.MethodPost)
	return router
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("HTTP request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// fail maps domain errors onto status codes.
func fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, league.ErrMatchNotFound), errors.Is(err, tournament.ErrUnknownTournament):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, league.ErrMatchPlayed):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, league.ErrInvalidScore), errors.Is(err, league.ErrInvalidAdvance):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("Request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// tournamentVar reads and checks the {tournament} path variable.
func tournamentVar(w http.ResponseWriter, r *http.Request) (league.Tournament, bool) {
	t := league.Tournament(mux.Vars(r)["tournament"])
	if !t.Valid() {
		writeError(w, http.StatusNotFound, "unknown tournament: "+string(t))
		return "", false
	}
	return t, true
}

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/utakatalp/league-projections/internal/league"
	"github.com/utakatalp/league-projections/internal/montecarlo"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getTeams(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Teams())
}

func (s *Server) getMatches(w http.ResponseWriter, r *http.Request) {
	t := league.Tournament(r.URL.Query().Get("tournament"))
	if t != "" && !t.Valid() {
		writeError(w, http.StatusNotFound, "unknown tournament: "+string(t))
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Matches(t))
}

type scoreRequest struct {
	HomeScore *int `json:"homeScore"`
	AwayScore *int `json:"awayScore"`
}

func (s *Server) updateMatch(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	m, err := s.svc.UpdateMatch(r.Context(), mux.Vars(r)["id"], req.HomeScore, req.AwayScore)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) simulateMatch(w http.ResponseWriter, r *http.Request) {
	m, err := s.svc.SimulateMatch(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) simulateRound(w http.ResponseWriter, r *http.Request) {
	t, ok := tournamentVar(w, r)
	if !ok {
		return
	}
	played, err := s.svc.SimulateNextRound(r.Context(), t)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, played)
}

func (s *Server) simulateAll(w http.ResponseWriter, r *http.Request) {
	t, ok := tournamentVar(w, r)
	if !ok {
		return
	}
	played, err := s.svc.SimulateAll(r.Context(), t)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, played)
}

func (s *Server) getStandings(w http.ResponseWriter, r *http.Request) {
	t, ok := tournamentVar(w, r)
	if !ok {
		return
	}
	st, err := s.svc.Standings(t)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

type projectionsResponse struct {
	Projections []montecarlo.TeamProjection `json:"projections"`
	IsRunning   bool                        `json:"isRunning"`
	LastUpdated *time.Time                  `json:"lastUpdated"`
}

func (s *Server) getProjections(w http.ResponseWriter, r *http.Request) {
	t, ok := tournamentVar(w, r)
	if !ok {
		return
	}
	st, err := s.svc.Projections(t)
	if err != nil {
		fail(w, err)
		return
	}
	resp := projectionsResponse{Projections: st.Projections, IsRunning: st.IsRunning}
	if resp.Projections == nil {
		resp.Projections = []montecarlo.TeamProjection{}
	}
	// Null until the first result lands.
	if !st.LastUpdated.IsZero() {
		resp.LastUpdated = &st.LastUpdated
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) refreshProjections(w http.ResponseWriter, r *http.Request) {
	t, ok := tournamentVar(w, r)
	if !ok {
		return
	}
	if err := s.svc.Refresh(t); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "scheduled"})
}

type bracketResponse struct {
	*league.Bracket
	Champion string `json:"champion,omitempty"`
}

func (s *Server) getBracket(w http.ResponseWriter, r *http.Request) {
	t, ok := tournamentVar(w, r)
	if !ok {
		return
	}
	b, err := s.svc.Bracket(t)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bracketResponse{Bracket: b})
}

type advanceRequest struct {
	Picks []league.Pick `json:"picks"`
}

func (s *Server) advanceBracket(w http.ResponseWriter, r *http.Request) {
	t, ok := tournamentVar(w, r)
	if !ok {
		return
	}
	var req advanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	b, err := s.svc.PlayBracket(t, req.Picks)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bracketResponse{Bracket: b, Champion: b.Champion()})
}

func (s *Server) getAnnual(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Annual())
}

func (s *Server) getAverages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Averages())
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Reset(r.Context()); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

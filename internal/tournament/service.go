// Package tournament keeps the current roster and schedule, applies result
// edits and keeps projections in step with them.
package tournament

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/utakatalp/league-projections/internal/league"
	"github.com/utakatalp/league-projections/internal/logger"
	"github.com/utakatalp/league-projections/internal/store"
	"github.com/utakatalp/league-projections/internal/worker"
)

var ErrUnknownTournament = errors.New("unknown tournament")

// Projections is the caller side of a projection pipeline for one tournament.
type Projections interface {
	Request(worker.Snapshot)
	State() worker.State
}

// Service owns the tournament state. It is safe for concurrent use.
type Service struct {
	store   store.Store
	initial store.Snapshot
	numSims int

	mu          sync.RWMutex
	sampler     league.Sampler
	teams       []league.Team
	matches     []league.Match
	projections map[league.Tournament]Projections
}

// New returns a service that falls back to initial when the store is empty.
// sampler is used for played-out results, numSims for every projection request.
func New(st store.Store, initial store.Snapshot, sampler league.Sampler, numSims int) *Service {
	return &Service{
		store:       st,
		initial:     store.Snapshot{Teams: league.CloneTeams(initial.Teams), Matches: league.CloneMatches(initial.Matches)},
		numSims:     numSims,
		sampler:     sampler,
		projections: make(map[league.Tournament]Projections),
	}
}

// Attach routes projection requests for t to p.
func (s *Service) Attach(t league.Tournament, p Projections) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projections[t] = p
}

// Load restores the persisted snapshot, or the initial data when there is none.
func (s *Service) Load(ctx context.Context) error {
	snap, ok, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}
	if !ok {
		logger.Info("No saved snapshot, using initial data", "teams", len(s.initial.Teams), "matches", len(s.initial.Matches))
		snap = s.initial
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams = league.CloneTeams(snap.Teams)
	s.matches = league.CloneMatches(snap.Matches)
	s.notify()
	return nil
}

// Reset clears the persisted snapshot and reloads the initial data.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clearing snapshot: %w", err)
	}
	return s.Load(ctx)
}

// Teams returns a copy of the roster.
func (s *Service) Teams() []league.Team {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return league.CloneTeams(s.teams)
}

// Matches returns a copy of the schedule, filtered to t unless t is empty.
func (s *Service) Matches(t league.Tournament) []league.Match {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]league.Match, 0, len(s.matches))
	for _, m := range s.matches {
		if t == "" || m.Tournament == t {
			out = append(out, m.Clone())
		}
	}
	return out
}

// Standings ranks both zones of t from its played matches.
func (s *Service) Standings(t league.Tournament) (league.Standings, error) {
	if !t.Valid() {
		return league.Standings{}, ErrUnknownTournament
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return league.CalculateStandings(s.teams, s.matches, t), nil
}

// Annual ranks every team over both tournaments.
func (s *Service) Annual() []league.AnnualEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return league.AnnualTable(s.teams, s.matches)
}

// Averages returns the relegation averages table, lowest last.
func (s *Service) Averages() []league.AverageEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return league.RelegationAverages(s.teams, s.matches)
}

// Bracket seeds the playoff from the current standings of t.
func (s *Service) Bracket(t league.Tournament) (*league.Bracket, error) {
	st, err := s.Standings(t)
	if err != nil {
		return nil, err
	}
	return league.NewBracket(st), nil
}

// PlayBracket seeds the playoff of t and applies picks to it. Picks are
// not stored; the bracket always follows the current standings.
func (s *Service) PlayBracket(t league.Tournament, picks []league.Pick) (*league.Bracket, error) {
	b, err := s.Bracket(t)
	if err != nil {
		return nil, err
	}
	if err := b.Apply(picks); err != nil {
		return nil, err
	}
	return b, nil
}

// Projections returns the latest projection state of t.
func (s *Service) Projections(t league.Tournament) (worker.State, error) {
	s.mu.RLock()
	p, ok := s.projections[t]
	s.mu.RUnlock()
	if !ok {
		return worker.State{}, ErrUnknownTournament
	}
	return p.State(), nil
}

// Refresh asks for a recompute of t's projections.
func (s *Service) Refresh(t league.Tournament) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projections[t]
	if !ok {
		return ErrUnknownTournament
	}
	p.Request(s.snapshot(t))
	return nil
}

// UpdateMatch sets a manual score. Both scores mark the match played, both
// nil mark it unplayed.
func (s *Service) UpdateMatch(ctx context.Context, id string, home, away *int) (league.Match, error) {
	if (home == nil) != (away == nil) {
		return league.Match{}, fmt.Errorf("%w: both scores or neither", league.ErrInvalidScore)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(id)
	if i < 0 {
		return league.Match{}, fmt.Errorf("%w: %s", league.ErrMatchNotFound, id)
	}
	m := s.matches[i].Clone()
	if home == nil {
		m.HomeScore, m.AwayScore, m.IsPlayed = nil, nil, false
	} else {
		m = m.Play(*home, *away)
	}
	if err := m.Validate(); err != nil {
		return league.Match{}, err
	}

	if err := s.commit(ctx, map[int]league.Match{i: m}); err != nil {
		return league.Match{}, err
	}
	return m.Clone(), nil
}

// SimulateMatch plays one unplayed match with a sampled result.
func (s *Service) SimulateMatch(ctx context.Context, id string) (league.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(id)
	if i < 0 {
		return league.Match{}, fmt.Errorf("%w: %s", league.ErrMatchNotFound, id)
	}
	if s.matches[i].IsPlayed {
		return league.Match{}, fmt.Errorf("%w: %s", league.ErrMatchPlayed, id)
	}
	m := s.play(s.matches[i])
	if err := s.commit(ctx, map[int]league.Match{i: m}); err != nil {
		return league.Match{}, err
	}
	return m.Clone(), nil
}

// SimulateNextRound plays the unplayed matches of the lowest round of t
// that still has any. It returns the matches played, none when t is complete.
func (s *Service) SimulateNextRound(ctx context.Context, t league.Tournament) ([]league.Match, error) {
	if !t.Valid() {
		return nil, ErrUnknownTournament
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := -1
	for _, m := range s.matches {
		if m.Tournament == t && !m.IsPlayed && (next < 0 || m.Round < next) {
			next = m.Round
		}
	}
	if next < 0 {
		return []league.Match{}, nil
	}
	return s.simulateWhere(ctx, func(m league.Match) bool {
		return m.Tournament == t && m.Round == next
	})
}

// SimulateAll plays every unplayed match of t.
func (s *Service) SimulateAll(ctx context.Context, t league.Tournament) ([]league.Match, error) {
	if !t.Valid() {
		return nil, ErrUnknownTournament
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.simulateWhere(ctx, func(m league.Match) bool { return m.Tournament == t })
}

// simulateWhere plays the unplayed matches selected by keep. Callers hold s.mu.
func (s *Service) simulateWhere(ctx context.Context, keep func(league.Match) bool) ([]league.Match, error) {
	changes := make(map[int]league.Match)
	played := []league.Match{}
	for i, m := range s.matches {
		if m.IsPlayed || !keep(m) {
			continue
		}
		m = s.play(m)
		changes[i] = m
		played = append(played, m.Clone())
	}
	if len(changes) == 0 {
		return played, nil
	}
	if err := s.commit(ctx, changes); err != nil {
		return nil, err
	}
	return played, nil
}

func (s *Service) play(m league.Match) league.Match {
	h, a := s.sampler.Sample()
	m = m.Play(h, a)
	logger.Debug("Simulated match", "match", m.ID, "result", m.ScoreLine(m.HomeTeamID, m.AwayTeamID))
	return m
}

func (s *Service) find(id string) int {
	for i, m := range s.matches {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// commit persists the schedule with changes applied, then swaps it in and
// notifies the projections. Nothing changes if saving fails. Callers hold s.mu.
func (s *Service) commit(ctx context.Context, changes map[int]league.Match) error {
	next := league.CloneMatches(s.matches)
	for i, m := range changes {
		next[i] = m
	}
	if err := s.store.Save(ctx, store.Snapshot{Teams: s.teams, Matches: next}); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	s.matches = next
	s.notify()
	return nil
}

// notify requests a recompute from every attached pipeline. Callers hold s.mu.
func (s *Service) notify() {
	for t, p := range s.projections {
		p.Request(s.snapshot(t))
	}
}

// snapshot builds a projection request for t. Callers hold s.mu.
// Dispatchers copy it, so no clone is needed here.
func (s *Service) snapshot(t league.Tournament) worker.Snapshot {
	return worker.Snapshot{Teams: s.teams, Matches: s.matches, Tournament: t, NumSims: s.numSims}
}

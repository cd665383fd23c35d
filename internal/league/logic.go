// internal/league/logic.go
package league

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/utakatalp/league-projections/internal/logger"
)

// Goal outcome counts for the sampler: home goals are drawn from 0..3, away from 0..2.
const (
	HomeGoalOutcomes = 4
	AwayGoalOutcomes = 3
)

func (m Match) ScoreLine(home, away string) string {
	h, a, ok := m.Result()
	if !ok {
		return fmt.Sprintf("%s vs %s", home, away)
	}
	return fmt.Sprintf("%s %d - %d %s", home, h, a, away)
}

// Sampler draws one plausible result for an unplayed fixture.
type Sampler interface {
	Sample() (homeGoals, awayGoals int)
}

// SamplerFunc adapts a plain function to Sampler.
type SamplerFunc func() (homeGoals, awayGoals int)

func (f SamplerFunc) Sample() (int, int) { return f() }

// UniformSampler draws home goals uniformly from {0,1,2,3} and away goals
// independently and uniformly from {0,1,2}. Team strength plays no part.
// It is not safe for concurrent use.
type UniformSampler struct {
	rng *rand.Rand
}

// NewUniformSampler returns a sampler seeded with seed, or from the clock when seed is 0.
func NewUniformSampler(seed int64) *UniformSampler {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &UniformSampler{rng: rand.New(rand.NewSource(seed))}
}

// Sample draws one result.
func (s *UniformSampler) Sample() (homeGoals, awayGoals int) {
	return s.rng.Intn(HomeGoalOutcomes), s.rng.Intn(AwayGoalOutcomes)
}

// Tally is the running ranking record of one team: the three tie-break keys.
type Tally struct {
	Points   int
	GoalDiff int
	GoalsFor int
}

// Score folds one result into both teams' tallies.
// Win is 3 points, draw is 1 each, loss is 0.
func Score(home, away *Tally, homeGoals, awayGoals int) {
	home.GoalsFor += homeGoals
	home.GoalDiff += homeGoals - awayGoals
	away.GoalsFor += awayGoals
	away.GoalDiff += awayGoals - homeGoals

	switch {
	case homeGoals > awayGoals:
		home.Points += 3
	case homeGoals < awayGoals:
		away.Points += 3
	default:
		home.Points++
		away.Points++
	}
}

// Ahead reports whether a ranks strictly above b: points, then goal
// difference, then goals for. Equal tallies are not ahead of each other.
func Ahead(a, b Tally) bool {
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	if a.GoalDiff != b.GoalDiff {
		return a.GoalDiff > b.GoalDiff
	}
	return a.GoalsFor > b.GoalsFor
}

// SortByTally ranks items in place by the league tie-break. Residual ties
// keep the input order.
func SortByTally[T any](items []T, tally func(T) Tally) {
	sort.SliceStable(items, func(i, j int) bool {
		return Ahead(tally(items[i]), tally(items[j]))
	})
}

// record adds one result from the point of view of the team that scored gf.
func (s *Stats) record(gf, ga int) string {
	s.Played++
	s.GF += gf
	s.GA += ga
	s.GoalDiff = s.GF - s.GA
	switch {
	case gf > ga:
		s.Won++
		s.Points += 3
		return "W"
	case gf < ga:
		s.Lost++
		return "L"
	default:
		s.Drawn++
		s.Points++
		return "D"
	}
}

func (s Stats) tally() Tally {
	return Tally{Points: s.Points, GoalDiff: s.GoalDiff, GoalsFor: s.GF}
}

func (s *Streaks) push(outcome string) {
	switch outcome {
	case "W":
		s.Win++
		s.Unbeaten++
		s.Loss = 0
	case "D":
		s.Win = 0
		s.Unbeaten++
		s.Loss = 0
	default:
		s.Win = 0
		s.Unbeaten = 0
		s.Loss++
	}
}

const formLength = 5

func (e *TableEntry) apply(gf, ga int, home bool) {
	outcome := e.Stats.record(gf, ga)
	if home {
		e.Home.record(gf, ga)
	} else {
		e.Away.record(gf, ga)
	}
	e.Streaks.push(outcome)
	e.Form = append(e.Form, outcome)
	if len(e.Form) > formLength {
		e.Form = e.Form[1:]
	}
}

// Standings is the per-zone table of one tournament.
type Standings struct {
	Tournament Tournament   `json:"tournament"`
	A          []TableEntry `json:"A"`
	B          []TableEntry `json:"B"`
	All        []TableEntry `json:"all"`
}

// Zone returns the ranked table of z.
func (s Standings) Zone(z Zone) []TableEntry {
	if z == ZoneB {
		return s.B
	}
	return s.A
}

// PlayedMatches returns the played matches of one tournament in round order,
// dropping those that reference unknown teams or lack a score.
func PlayedMatches(teams []Team, matches []Match, tournament Tournament) []Match {
	known := make(map[string]bool, len(teams))
	for _, t := range teams {
		known[t.ID] = true
	}
	var played []Match
	for _, m := range matches {
		if m.Tournament != tournament || !m.IsPlayed {
			continue
		}
		if _, _, ok := m.Result(); !ok {
			logger.Warn("Skipping played match without score", "match", m.ID)
			continue
		}
		if !known[m.HomeTeamID] || !known[m.AwayTeamID] {
			logger.Warn("Skipping match with unknown team", "match", m.ID, "home", m.HomeTeamID, "away", m.AwayTeamID)
			continue
		}
		played = append(played, m)
	}
	sort.SliceStable(played, func(i, j int) bool { return played[i].Round < played[j].Round })
	return played
}

// CalculateStandings builds the zone tables of one tournament from its played matches.
func CalculateStandings(teams []Team, matches []Match, tournament Tournament) Standings {
	entries := make([]TableEntry, len(teams))
	index := make(map[string]int, len(teams))
	for i, t := range teams {
		entries[i] = TableEntry{Team: t, Form: []string{}, PositionHistory: []int{}}
		index[t.ID] = i
	}

	played := PlayedMatches(teams, matches, tournament)

	// Rank every zone after each completed round.
	next := 0
	maxRound := 0
	if len(played) > 0 {
		maxRound = played[len(played)-1].Round
	}
	for round := 1; round <= maxRound; round++ {
		for ; next < len(played) && played[next].Round <= round; next++ {
			m := played[next]
			h, a, _ := m.Result()
			entries[index[m.HomeTeamID]].apply(h, a, true)
			entries[index[m.AwayTeamID]].apply(a, h, false)
		}
		for _, z := range Zones {
			for pos, i := range rankZone(entries, z) {
				entries[i].PositionHistory = append(entries[i].PositionHistory, pos+1)
			}
		}
	}
	// Only reached when no played round is 1 or later.
	for ; next < len(played); next++ {
		m := played[next]
		h, a, _ := m.Result()
		entries[index[m.HomeTeamID]].apply(h, a, true)
		entries[index[m.AwayTeamID]].apply(a, h, false)
	}

	standings := Standings{Tournament: tournament, All: entries}
	for _, i := range rankZone(entries, ZoneA) {
		standings.A = append(standings.A, entries[i])
	}
	for _, i := range rankZone(entries, ZoneB) {
		standings.B = append(standings.B, entries[i])
	}
	return standings
}

func rankZone(entries []TableEntry, z Zone) []int {
	var idx []int
	for i, e := range entries {
		if e.Team.Zone == z {
			idx = append(idx, i)
		}
	}
	SortByTally(idx, func(i int) Tally { return entries[i].Stats.tally() })
	return idx
}

// Annual berths.
const (
	BerthLibertadores = "libertadores"
	BerthSudamericana = "sudamericana"
	BerthRelegated    = "relegated"
)

// AnnualEntry is one row of the combined-season table.
type AnnualEntry struct {
	Position int    `json:"position"`
	Team     Team   `json:"team"`
	Stats    Stats  `json:"stats"`
	Berth    string `json:"berth,omitempty"`
}

// combinedStats aggregates every played match of both tournaments per team.
func combinedStats(teams []Team, matches []Match) map[string]*Stats {
	stats := make(map[string]*Stats, len(teams))
	for _, t := range teams {
		stats[t.ID] = &Stats{}
	}
	for _, tournament := range Tournaments {
		for _, m := range PlayedMatches(teams, matches, tournament) {
			h, a, _ := m.Result()
			stats[m.HomeTeamID].record(h, a)
			stats[m.AwayTeamID].record(a, h)
		}
	}
	return stats
}

// AnnualTable ranks every team over both tournaments combined.
func AnnualTable(teams []Team, matches []Match) []AnnualEntry {
	stats := combinedStats(teams, matches)
	table := make([]AnnualEntry, len(teams))
	for i, t := range teams {
		table[i] = AnnualEntry{Team: t, Stats: *stats[t.ID]}
	}
	SortByTally(table, func(e AnnualEntry) Tally { return e.Stats.tally() })

	for i := range table {
		table[i].Position = i + 1
		switch {
		case i < 3:
			table[i].Berth = BerthLibertadores
		case i < 9:
			table[i].Berth = BerthSudamericana
		case i == len(table)-1:
			table[i].Berth = BerthRelegated
		}
	}
	return table
}

// AverageEntry is one row of the relegation averages table.
type AverageEntry struct {
	Team       Team    `json:"team"`
	Pts2024    int     `json:"pts2024"`
	Pts2025    int     `json:"pts2025"`
	PtsCurrent int     `json:"ptsCurrent"`
	TotalPts   int     `json:"totalPts"`
	TotalPJ    int     `json:"totalPJ"`
	Average    float64 `json:"average"`
	Relegated  bool    `json:"relegated"`
}

// RelegationAverages computes points per match over the two previous seasons
// plus the current one. The lowest average is relegated.
func RelegationAverages(teams []Team, matches []Match) []AverageEntry {
	stats := combinedStats(teams, matches)
	table := make([]AverageEntry, len(teams))
	for i, t := range teams {
		e := AverageEntry{Team: t, PtsCurrent: stats[t.ID].Points}
		if t.Averages.Pts2024 != nil {
			e.Pts2024 = *t.Averages.Pts2024
		}
		if t.Averages.Pts2025 != nil {
			e.Pts2025 = *t.Averages.Pts2025
		}
		e.TotalPts = e.Pts2024 + e.Pts2025 + e.PtsCurrent
		e.TotalPJ = t.Averages.PJ2024 + t.Averages.PJ2025 + stats[t.ID].Played
		if e.TotalPJ > 0 {
			e.Average = float64(e.TotalPts) / float64(e.TotalPJ)
		}
		table[i] = e
	}
	sort.SliceStable(table, func(i, j int) bool { return table[i].Average > table[j].Average })
	if len(table) > 0 {
		table[len(table)-1].Relegated = true
	}
	return table
}

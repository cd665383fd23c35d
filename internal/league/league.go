package league

import "errors"

// Zone is one of the two groups of teams that share a standings table.
type Zone string

const (
	ZoneA Zone = "A"
	ZoneB Zone = "B"
)

// Zones lists the zones in table order.
var Zones = []Zone{ZoneA, ZoneB}

// Valid reports whether z is one of the two known zones.
func (z Zone) Valid() bool {
	return z == ZoneA || z == ZoneB
}

// Tournament tags one of the two competitions that share the roster.
type Tournament string

const (
	Apertura Tournament = "apertura"
	Clausura Tournament = "clausura"
)

// Tournaments lists both competitions in calendar order.
var Tournaments = []Tournament{Apertura, Clausura}

// Valid reports whether t is one of the two known tournaments.
func (t Tournament) Valid() bool {
	return t == Apertura || t == Clausura
}

// MatchType distinguishes intra-zone fixtures from interzonal ones.
type MatchType string

const (
	Regular           MatchType = "regular"
	Interzonal        MatchType = "interzonal"
	InterzonalSpecial MatchType = "interzonal_special"
)

var (
	ErrMatchNotFound = errors.New("match not found")
	ErrMatchPlayed   = errors.New("match already played")
	ErrInvalidScore  = errors.New("invalid score")
)

// Averages holds the historic totals used for relegation averages.
// A nil points value means the team was not in the first division that season.
type Averages struct {
	Pts2024 *int `json:"pts2024" yaml:"pts2024"`
	PJ2024  int  `json:"pj2024" yaml:"pj2024"`
	Pts2025 *int `json:"pts2025" yaml:"pts2025"`
	PJ2025  int  `json:"pj2025" yaml:"pj2025"`
}

// Team represents a club in the league.
type Team struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	ShortName string   `json:"shortName" yaml:"shortName"`
	Logo      string   `json:"logo" yaml:"logo"`
	Zone      Zone     `json:"zone" yaml:"zone"`
	Averages  Averages `json:"averages" yaml:"averages"`
}

// Match represents a fixture between two teams.
// A played match always carries both scores; an unplayed one carries neither.
type Match struct {
	ID         string     `json:"id" yaml:"id"`
	Round      int        `json:"round" yaml:"round"`
	HomeTeamID string     `json:"homeTeamId" yaml:"homeTeamId"`
	AwayTeamID string     `json:"awayTeamId" yaml:"awayTeamId"`
	HomeScore  *int       `json:"homeScore" yaml:"homeScore"`
	AwayScore  *int       `json:"awayScore" yaml:"awayScore"`
	IsPlayed   bool       `json:"isPlayed" yaml:"isPlayed"`
	Tournament Tournament `json:"tournament" yaml:"tournament"`
	Type       MatchType  `json:"type,omitempty" yaml:"type,omitempty"`
}

// Result returns the final score of a played match.
func (m Match) Result() (home, away int, ok bool) {
	if !m.IsPlayed || m.HomeScore == nil || m.AwayScore == nil {
		return 0, 0, false
	}
	return *m.HomeScore, *m.AwayScore, true
}

// Play returns a copy of m with the given final score.
func (m Match) Play(home, away int) Match {
	m.HomeScore = &home
	m.AwayScore = &away
	m.IsPlayed = true
	return m
}

// Clone returns a copy of m that shares no memory with it.
func (m Match) Clone() Match {
	if m.HomeScore != nil {
		h := *m.HomeScore
		m.HomeScore = &h
	}
	if m.AwayScore != nil {
		a := *m.AwayScore
		m.AwayScore = &a
	}
	return m
}

// CloneMatches deep-copies a match list.
func CloneMatches(matches []Match) []Match {
	out := make([]Match, len(matches))
	for i, m := range matches {
		out[i] = m.Clone()
	}
	return out
}

// CloneTeams deep-copies a team list.
func CloneTeams(teams []Team) []Team {
	out := make([]Team, len(teams))
	for i, t := range teams {
		if t.Averages.Pts2024 != nil {
			v := *t.Averages.Pts2024
			t.Averages.Pts2024 = &v
		}
		if t.Averages.Pts2025 != nil {
			v := *t.Averages.Pts2025
			t.Averages.Pts2025 = &v
		}
		out[i] = t
	}
	return out
}

// Validate checks the score/play-state invariant.
func (m Match) Validate() error {
	switch {
	case m.IsPlayed && (m.HomeScore == nil || m.AwayScore == nil):
		return ErrInvalidScore
	case !m.IsPlayed && (m.HomeScore != nil || m.AwayScore != nil):
		return ErrInvalidScore
	case m.HomeScore != nil && *m.HomeScore < 0, m.AwayScore != nil && *m.AwayScore < 0:
		return ErrInvalidScore
	}
	return nil
}

// Stats holds the aggregate record of a team over a set of matches.
type Stats struct {
	Played   int `json:"played"`
	Won      int `json:"won"`
	Drawn    int `json:"drawn"`
	Lost     int `json:"lost"`
	GF       int `json:"gf"`
	GA       int `json:"gc"`
	Points   int `json:"pts"`
	GoalDiff int `json:"goalDiff"`
}

// Streaks holds the current run lengths for a team.
type Streaks struct {
	Win      int `json:"win"`
	Unbeaten int `json:"unbeaten"`
	Loss     int `json:"loss"`
}

// TableEntry holds the standings info for one team.
type TableEntry struct {
	Team            Team     `json:"team"`
	Stats           Stats    `json:"stats"`
	Home            Stats    `json:"homeStats"`
	Away            Stats    `json:"awayStats"`
	Streaks         Streaks  `json:"streaks"`
	Form            []string `json:"form"`
	PositionHistory []int    `json:"positionHistory"`
}

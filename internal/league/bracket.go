package league

import (
	"errors"
	"fmt"
)

// Stage names one playoff round.
type Stage string

const (
	RoundOf16    Stage = "octavos"
	QuarterFinal Stage = "cuartos"
	SemiFinal    Stage = "semis"
	Final        Stage = "final"
)

var stageOrder = []Stage{RoundOf16, QuarterFinal, SemiFinal, Final}

// PlayoffQualifiers is how many teams per zone enter the bracket.
const PlayoffQualifiers = 8

// crossover pairs zone seeds for the round of 16 as (zone, seed) tuples, seeds 0-based.
var crossover = [8][2]struct {
	zone Zone
	seed int
}{
	{{ZoneA, 0}, {ZoneB, 7}},
	{{ZoneB, 3}, {ZoneA, 4}},
	{{ZoneB, 1}, {ZoneA, 6}},
	{{ZoneA, 2}, {ZoneB, 5}},
	{{ZoneB, 0}, {ZoneA, 7}},
	{{ZoneA, 3}, {ZoneB, 4}},
	{{ZoneA, 1}, {ZoneB, 6}},
	{{ZoneB, 2}, {ZoneA, 5}},
}

var ErrInvalidAdvance = errors.New("invalid bracket advance")

// Tie is one playoff pairing. Empty ids mark slots not yet decided.
type Tie struct {
	HomeTeamID string `json:"homeTeamId,omitempty"`
	AwayTeamID string `json:"awayTeamId,omitempty"`
	WinnerID   string `json:"winnerId,omitempty"`
}

// Pick is one recorded tie winner.
type Pick struct {
	Stage  Stage  `json:"stage"`
	Index  int    `json:"index"`
	TeamID string `json:"teamId"`
}

// Bracket is a single-elimination playoff fed by both zones.
type Bracket struct {
	Ties map[Stage][]Tie `json:"ties"`
}

// NewBracket seeds the round of 16 from the zone standings.
func NewBracket(s Standings) *Bracket {
	b := &Bracket{Ties: map[Stage][]Tie{
		RoundOf16:    make([]Tie, 8),
		QuarterFinal: make([]Tie, 4),
		SemiFinal:    make([]Tie, 2),
		Final:        make([]Tie, 1),
	}}
	seed := func(z Zone, i int) string {
		table := s.Zone(z)
		if i < len(table) && i < PlayoffQualifiers {
			return table[i].Team.ID
		}
		return ""
	}
	for i, pair := range crossover {
		b.Ties[RoundOf16][i] = Tie{
			HomeTeamID: seed(pair[0].zone, pair[0].seed),
			AwayTeamID: seed(pair[1].zone, pair[1].seed),
		}
	}
	return b
}

// Champion returns the final's winner, if decided.
func (b *Bracket) Champion() string {
	return b.Ties[Final][0].WinnerID
}

// Advance records teamID as the winner of tie index in stage, moves it into
// the next stage and clears every later result.
func (b *Bracket) Advance(stage Stage, index int, teamID string) error {
	pos := -1
	for i, s := range stageOrder {
		if s == stage {
			pos = i
		}
	}
	if pos < 0 {
		return fmt.Errorf("%w: unknown stage %q", ErrInvalidAdvance, stage)
	}
	ties := b.Ties[stage]
	if index < 0 || index >= len(ties) {
		return fmt.Errorf("%w: %s has no tie %d", ErrInvalidAdvance, stage, index)
	}
	tie := ties[index]
	if teamID == "" || (teamID != tie.HomeTeamID && teamID != tie.AwayTeamID) {
		return fmt.Errorf("%w: team %q is not in %s tie %d", ErrInvalidAdvance, teamID, stage, index)
	}
	if tie.HomeTeamID == "" || tie.AwayTeamID == "" {
		return fmt.Errorf("%w: %s tie %d is incomplete", ErrInvalidAdvance, stage, index)
	}
	ties[index].WinnerID = teamID

	for _, later := range stageOrder[pos+1:] {
		for i := range b.Ties[later] {
			b.Ties[later][i] = Tie{}
		}
	}
	// Refill the later stages from the recorded winners.
	for p := pos; p < len(stageOrder)-1; p++ {
		cur, next := b.Ties[stageOrder[p]], b.Ties[stageOrder[p+1]]
		for i := range next {
			next[i].HomeTeamID = cur[2*i].WinnerID
			next[i].AwayTeamID = cur[2*i+1].WinnerID
		}
	}
	return nil
}

// Apply records picks in order. It stops at the first invalid one.
func (b *Bracket) Apply(picks []Pick) error {
	for i, p := range picks {
		if err := b.Advance(p.Stage, p.Index, p.TeamID); err != nil {
			return fmt.Errorf("pick %d: %w", i, err)
		}
	}
	return nil
}

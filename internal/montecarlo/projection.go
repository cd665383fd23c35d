// Package montecarlo projects final zone tables by repeatedly completing the
// remaining schedule with sampled results.
package montecarlo

import (
	"errors"
	"math"
	"sort"

	"github.com/utakatalp/league-projections/internal/league"
	"github.com/utakatalp/league-projections/internal/logger"
)

// ErrInvalidIterations is returned for a non-positive iteration count.
var ErrInvalidIterations = errors.New("number of iterations must be positive")

// Thresholds are the league-format cut-offs counted per zone.
type Thresholds struct {
	Top     int `json:"top"`     // better playoff seed
	Qualify int `json:"qualify"` // playoff berth
	Bottom  int `json:"bottom"`  // relegation zone
}

// DefaultThresholds match a format with 8 playoff teams per zone.
var DefaultThresholds = Thresholds{Top: 4, Qualify: 8, Bottom: 3}

// TeamProjection is the aggregated outcome of all iterations for one team.
// Percentages are in 0..100 with one decimal.
type TeamProjection struct {
	TeamID       string    `json:"teamId"`
	Name         string    `json:"name"`
	ShortName    string    `json:"shortName"`
	Logo         string    `json:"logo"`
	Zone         string    `json:"zone"`
	CurrentPts   int       `json:"currentPts"`
	CurrentGD    int       `json:"currentGD"`
	ChampionPct  float64   `json:"championPct"`
	Top4Pct      float64   `json:"top4Pct"`
	QualifyPct   float64   `json:"qualifyPct"`
	Bottom3Pct   float64   `json:"bottom3Pct"`
	LastPct      float64   `json:"lastPct"`
	AvgPts       float64   `json:"avgPts"`
	AvgPos       float64   `json:"avgPos"`
	PositionDist []float64 `json:"positionDist"`
}

// Orchestrator runs projections. It owns its sampler and is not safe for
// concurrent use.
type Orchestrator struct {
	sampler    league.Sampler
	thresholds Thresholds
}

// New returns an Orchestrator drawing results from sampler.
func New(sampler league.Sampler, thresholds Thresholds) *Orchestrator {
	return &Orchestrator{sampler: sampler, thresholds: thresholds}
}

type pairing struct {
	home, away int
}

type counters struct {
	positions []int
	ptsSum    int
	posSum    int
	champion  int
	top       int
	qualify   int
	bottom    int
	last      int
}

// Project simulates the unplayed matches of tournament numIterations times
// and returns one projection per zoned team, sorted by championPct
// descending then avgPos ascending. The inputs are only read.
func (o *Orchestrator) Project(teams []league.Team, matches []league.Match, tournament league.Tournament, numIterations int) ([]TeamProjection, error) {
	if numIterations <= 0 {
		return nil, ErrInvalidIterations
	}

	var tourney []league.Match
	for _, m := range matches {
		if m.Tournament == tournament {
			tourney = append(tourney, m)
		}
	}
	if len(tourney) == 0 {
		return []TeamProjection{}, nil
	}

	index := make(map[string]int, len(teams))
	zones := make(map[league.Zone][]int, len(league.Zones))
	for i, t := range teams {
		index[t.ID] = i
		if !t.Zone.Valid() {
			logger.Warn("Team outside known zones left out of projection", "team", t.ID, "zone", t.Zone)
			continue
		}
		zones[t.Zone] = append(zones[t.Zone], i)
	}
	zoneSize := 1
	for _, members := range zones {
		zoneSize = max(zoneSize, len(members))
	}

	// Base stats from played matches, computed once.
	base := make([]league.Tally, len(teams))
	var remaining []pairing
	for _, m := range tourney {
		h, okH := index[m.HomeTeamID]
		a, okA := index[m.AwayTeamID]
		if !okH || !okA {
			logger.Warn("Skipping match with unknown team", "match", m.ID, "home", m.HomeTeamID, "away", m.AwayTeamID)
			continue
		}
		if !m.IsPlayed {
			remaining = append(remaining, pairing{home: h, away: a})
			continue
		}
		hg, ag, ok := m.Result()
		if !ok {
			logger.Warn("Skipping played match without score", "match", m.ID)
			continue
		}
		league.Score(&base[h], &base[a], hg, ag)
	}

	count := make([]counters, len(teams))
	for i := range count {
		count[i].positions = make([]int, zoneSize)
	}

	sim := make([]league.Tally, len(teams))
	order := make([]int, 0, zoneSize)
	tally := func(i int) league.Tally { return sim[i] }
	th := o.thresholds

	for it := 0; it < numIterations; it++ {
		copy(sim, base)
		for _, f := range remaining {
			hg, ag := o.sampler.Sample()
			league.Score(&sim[f.home], &sim[f.away], hg, ag)
		}

		// Both zones are ranked every iteration so sample sizes stay equal.
		for _, z := range league.Zones {
			order = append(order[:0], zones[z]...)
			league.SortByTally(order, tally)

			size := len(order)
			for pos, i := range order {
				c := &count[i]
				c.positions[pos]++
				c.ptsSum += sim[i].Points
				c.posSum += pos + 1
				if pos == 0 {
					c.champion++
				}
				if pos < th.Top {
					c.top++
				}
				if pos < th.Qualify {
					c.qualify++
				}
				if pos >= size-th.Bottom {
					c.bottom++
				}
				if pos == size-1 {
					c.last++
				}
			}
		}
	}

	projections := make([]TeamProjection, 0, len(teams))
	for i, t := range teams {
		if !t.Zone.Valid() {
			continue
		}
		c := count[i]
		dist := make([]float64, zoneSize)
		for p, n := range c.positions {
			dist[p] = percent(n, numIterations)
		}
		projections = append(projections, TeamProjection{
			TeamID:       t.ID,
			Name:         t.Name,
			ShortName:    t.ShortName,
			Logo:         t.Logo,
			Zone:         string(t.Zone),
			CurrentPts:   base[i].Points,
			CurrentGD:    base[i].GoalDiff,
			ChampionPct:  percent(c.champion, numIterations),
			Top4Pct:      percent(c.top, numIterations),
			QualifyPct:   percent(c.qualify, numIterations),
			Bottom3Pct:   percent(c.bottom, numIterations),
			LastPct:      percent(c.last, numIterations),
			AvgPts:       average(c.ptsSum, numIterations),
			AvgPos:       average(c.posSum, numIterations),
			PositionDist: dist,
		})
	}

	sort.SliceStable(projections, func(i, j int) bool {
		a, b := projections[i], projections[j]
		if a.ChampionPct != b.ChampionPct {
			return a.ChampionPct > b.ChampionPct
		}
		return a.AvgPos < b.AvgPos
	})
	return projections, nil
}

// percent is count/n as a percentage rounded to the nearest tenth.
func percent(count, n int) float64 {
	return math.Round(float64(count)/float64(n)*1000) / 10
}

// average is sum/n rounded to one decimal.
func average(sum, n int) float64 {
	return math.Round(float64(sum)/float64(n)*10) / 10
}

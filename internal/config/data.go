package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v2"

	"github.com/utakatalp/league-projections/internal/league"
	"github.com/utakatalp/league-projections/internal/logger"
)

// Data is the static league definition: the roster and the fixture list.
type Data struct {
	Teams   []league.Team  `json:"teams" yaml:"teams"`
	Matches []league.Match `json:"matches" yaml:"matches"`
}

// LoadData reads a data file, choosing the decoder by extension.
func LoadData(path string) (Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Data{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var d Data
	switch ext := filepath.Ext(path); ext {
	case ".json":
		if err := json.Unmarshal(raw, &d); err != nil {
			return Data{}, fmt.Errorf("bad JSON in %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &d); err != nil {
			return Data{}, fmt.Errorf("bad YAML in %s: %w", path, err)
		}
	default:
		return Data{}, fmt.Errorf("unsupported data file format: %s", ext)
	}

	if err := d.Validate(); err != nil {
		return Data{}, fmt.Errorf("validating %s: %w", path, err)
	}
	return d, nil
}

// Validate rejects structural problems. Matches naming unknown teams are
// only logged; the standings and projections skip them.
func (d Data) Validate() error {
	var errs []error
	teams := make(map[string]bool, len(d.Teams))
	for _, t := range d.Teams {
		if t.ID == "" {
			errs = append(errs, errors.New("team without id"))
			continue
		}
		if teams[t.ID] {
			errs = append(errs, fmt.Errorf("duplicate team id %q", t.ID))
		}
		teams[t.ID] = true
		if !t.Zone.Valid() {
			errs = append(errs, fmt.Errorf("team %q has unknown zone %q", t.ID, t.Zone))
		}
	}

	matches := make(map[string]bool, len(d.Matches))
	for _, m := range d.Matches {
		if m.ID == "" {
			errs = append(errs, errors.New("match without id"))
			continue
		}
		if matches[m.ID] {
			errs = append(errs, fmt.Errorf("duplicate match id %q", m.ID))
		}
		matches[m.ID] = true
		if !m.Tournament.Valid() {
			errs = append(errs, fmt.Errorf("match %q has unknown tournament %q", m.ID, m.Tournament))
		}
		if err := m.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("match %q: %w", m.ID, err))
		}
		if !teams[m.HomeTeamID] || !teams[m.AwayTeamID] {
			logger.Warn("Match references unknown team", "match", m.ID, "home", m.HomeTeamID, "away", m.AwayTeamID)
		}
	}
	return errors.Join(errs...)
}

// DemoData builds a two-zone league with generated names and an
// unplayed single round robin per zone for both tournaments.
func DemoData(perZone int) Data {
	var d Data
	for _, z := range league.Zones {
		for i := 1; i <= perZone; i++ {
			id := fmt.Sprintf("%s%02d", z, i)
			d.Teams = append(d.Teams, league.Team{
				ID:        id,
				Name:      fmt.Sprintf("Club %s %d", z, i),
				ShortName: id,
				Zone:      z,
			})
		}
	}
	for _, t := range league.Tournaments {
		d.Matches = append(d.Matches, league.ZoneFixtures(d.Teams, t)...)
	}
	return d
}

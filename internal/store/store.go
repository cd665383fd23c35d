package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/utakatalp/league-projections/internal/league"
)

// Keys under which the snapshot halves are stored.
const (
	TeamsKey   = "tournament_teams_v3"
	MatchesKey = "tournament_matches_v3"
)

// Snapshot is the persisted tournament state.
type Snapshot struct {
	Teams   []league.Team  `json:"teams"`
	Matches []league.Match `json:"matches"`
}

// Store persists the tournament snapshot. Load reports false when nothing
// has been saved yet.
type Store interface {
	Load(ctx context.Context) (Snapshot, bool, error)
	Save(ctx context.Context, s Snapshot) error
	Clear(ctx context.Context) error
	Close() error
}

// Open returns the store selected by driver: memory, sqlite or postgres.
func Open(driver, sqliteFile, postgresDSN string) (Store, error) {
	switch driver {
	case "", "memory":
		return NewMemory(), nil
	case "sqlite":
		s, err := NewSQLite(sqliteFile)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "postgres":
		s, err := NewPostgres(postgresDSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

// kvStore keeps the snapshot as JSON values in a key/value table.
type kvStore struct {
	db *sql.DB
	// placeholder renders the n-th (1-based) bind parameter.
	placeholder func(n int) string
}

func (s *kvStore) migrate(ctx context.Context) error {
	const q = `
	CREATE TABLE IF NOT EXISTS snapshots (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := s.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("migrating: %w", err)
	}
	return nil
}

func (s *kvStore) Load(ctx context.Context) (Snapshot, bool, error) {
	var snap Snapshot
	teamsFound, err := s.get(ctx, TeamsKey, &snap.Teams)
	if err != nil {
		return Snapshot{}, false, err
	}
	matchesFound, err := s.get(ctx, MatchesKey, &snap.Matches)
	if err != nil {
		return Snapshot{}, false, err
	}
	// Both halves are written together; a partial snapshot counts as absent.
	if !teamsFound || !matchesFound {
		return Snapshot{}, false, nil
	}
	return snap, true, nil
}

func (s *kvStore) get(ctx context.Context, key string, dst any) (bool, error) {
	q := fmt.Sprintf(`SELECT value FROM snapshots WHERE key = %s`, s.placeholder(1))
	var raw string
	err := s.db.QueryRowContext(ctx, q, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("loading %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("decoding %s: %w", key, err)
	}
	return true, nil
}

func (s *kvStore) Save(ctx context.Context, snap Snapshot) error {
	teams, err := json.Marshal(snap.Teams)
	if err != nil {
		return fmt.Errorf("encoding teams: %w", err)
	}
	matches, err := json.Marshal(snap.Matches)
	if err != nil {
		return fmt.Errorf("encoding matches: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}
	defer tx.Rollback()

	q := fmt.Sprintf(`
	INSERT INTO snapshots (key, value, updated_at)
	VALUES (%s, %s, CURRENT_TIMESTAMP)
	ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.placeholder(1), s.placeholder(2))
	for _, kv := range []struct {
		key   string
		value []byte
	}{{TeamsKey, teams}, {MatchesKey, matches}} {
		if _, err := tx.ExecContext(ctx, q, kv.key, string(kv.value)); err != nil {
			return fmt.Errorf("saving %s: %w", kv.key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save tx: %w", err)
	}
	return nil
}

func (s *kvStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM snapshots`); err != nil {
		return fmt.Errorf("clearing snapshots: %w", err)
	}
	return nil
}

func (s *kvStore) Close() error {
	return s.db.Close()
}

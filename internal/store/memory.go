package store

import (
	"context"
	"sync"

	"github.com/utakatalp/league-projections/internal/league"
)

// Memory keeps the snapshot in process memory.
type Memory struct {
	mu    sync.RWMutex
	snap  Snapshot
	saved bool
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(context.Context) (Snapshot, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.saved {
		return Snapshot{}, false, nil
	}
	return clone(m.snap), true, nil
}

func (m *Memory) Save(_ context.Context, s Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = clone(s)
	m.saved = true
	return nil
}

func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = Snapshot{}
	m.saved = false
	return nil
}

func (m *Memory) Close() error { return nil }

func clone(s Snapshot) Snapshot {
	return Snapshot{Teams: league.CloneTeams(s.Teams), Matches: league.CloneMatches(s.Matches)}
}

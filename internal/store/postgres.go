package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/utakatalp/league-projections/internal/logger"
)

// Postgres wraps a Postgres connection and persists the tournament snapshot.
type Postgres struct {
	kvStore
}

// NewPostgres opens a Postgres connection using the given connection string
// and creates the snapshot table if needed.
func NewPostgres(connStr string) (*Postgres, error) {
	if connStr == "" {
		return nil, fmt.Errorf("opening database: empty connection string")
	}
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// verify early
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	s := &Postgres{kvStore{db: db, placeholder: func(n int) string { return fmt.Sprintf("$%d", n) }}}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("Connected to Postgres snapshot store")
	return s, nil
}

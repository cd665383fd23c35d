package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/utakatalp/league-projections/internal/logger"
)

// SQLite persists the tournament snapshot in a local database file.
type SQLite struct {
	kvStore
}

// NewSQLite opens (or creates) the database at dbPath.
func NewSQLite(dbPath string) (*SQLite, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("opening sqlite: empty path")
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	// A single connection serialises writers.
	db.SetMaxOpenConns(1)

	s := &SQLite{kvStore{db: db, placeholder: func(int) string { return "?" }}}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("Opened SQLite snapshot store", "path", dbPath)
	return s, nil
}

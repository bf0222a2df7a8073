// Package store persists price observations to a durable append-only
// history.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aluiziolira/go-price-tracker/config"
	"github.com/aluiziolira/go-price-tracker/models"
)

// Store is the capability set shared by the flat-file and embedded
// relational backends. The two behave identically from the caller's
// point of view.
type Store interface {
	// Init ensures the durable target exists. Calling it when the target
	// already exists is a no-op, never a truncation.
	Init() error
	// Append adds exactly one record to the end of the history. It is
	// safe to call even if Init was skipped.
	Append(obs *models.Observation) error
	// History returns up to limit most recent observations in insertion
	// order. limit <= 0 returns the full history.
	History(limit int) ([]*models.Observation, error)
	Close() error
}

// New selects a backend from the configuration.
func New(cfg *config.Config) (Store, error) {
	switch cfg.StoreBackend {
	case config.BackendCSV:
		return NewCSVStore(cfg.StorePath)
	case config.BackendSQLite:
		return NewSQLiteStore(cfg.StorePath)
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.StoreBackend)
	}
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}

func tail(observations []*models.Observation, limit int) []*models.Observation {
	if limit <= 0 || limit >= len(observations) {
		return observations
	}
	return observations[len(observations)-limit:]
}

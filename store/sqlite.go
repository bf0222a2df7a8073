package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/aluiziolira/go-price-tracker/models"
	_ "modernc.org/sqlite"
)

const createPricesTable = `
CREATE TABLE IF NOT EXISTS prices (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	price REAL NOT NULL,
	timestamp TEXT NOT NULL
)`

// SQLiteStore appends observations to an embedded relational table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database file at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	// One writer per run; SQLite's own file locking arbitrates between
	// concurrently scheduled runs.
	db.SetMaxOpenConns(1)

	return &SQLiteStore{db: db}, nil
}

// Init creates the prices table if it is not there yet.
func (s *SQLiteStore) Init() error {
	if _, err := s.db.Exec(createPricesTable); err != nil {
		return fmt.Errorf("init sqlite store: %w", err)
	}
	return nil
}

// Append inserts one row in its own committed transaction. Init runs
// first so a skipped initialize still creates the table on first write.
func (s *SQLiteStore) Append(obs *models.Observation) error {
	if err := s.Init(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin sqlite append: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT INTO prices (title, price, timestamp) VALUES (?, ?, ?)`,
		obs.Title, obs.Price, obs.Timestamp(),
	); err != nil {
		tx.Rollback()
		return fmt.Errorf("append sqlite record: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit sqlite append: %w", err)
	}
	return nil
}

// History reads rows back in insertion order.
func (s *SQLiteStore) History(limit int) ([]*models.Observation, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`SELECT title, price, timestamp FROM prices ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("read sqlite history: %w", err)
	}
	defer rows.Close()

	var observations []*models.Observation
	for rows.Next() {
		var (
			title     string
			price     float64
			timestamp string
		)
		if err := rows.Scan(&title, &price, &timestamp); err != nil {
			return nil, fmt.Errorf("read sqlite history: %w", err)
		}
		observedAt, err := time.ParseInLocation(models.TimestampLayout, timestamp, time.Local)
		if err != nil {
			return nil, fmt.Errorf("read sqlite history: timestamp %q: %w", timestamp, err)
		}
		observations = append(observations, &models.Observation{
			Title:      title,
			Price:      price,
			PriceKnown: price != 0,
			ObservedAt: observedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read sqlite history: %w", err)
	}

	return tail(observations, limit), nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/aluiziolira/go-price-tracker/models"
)

var csvHeader = []string{"title", "price", "timestamp"}

// CSVStore appends observations to a comma-separated text file, one
// record per line, UTF-8 encoded.
type CSVStore struct {
	path string
	mu   sync.Mutex
}

// NewCSVStore builds a flat-file store at path. No file is touched until
// Init or the first Append.
func NewCSVStore(path string) (*CSVStore, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	return &CSVStore{path: path}, nil
}

// Init creates the file with a header row if it does not exist yet.
func (s *CSVStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open()
	if err != nil {
		return fmt.Errorf("init csv store: %w", err)
	}
	if err := writeHeaderIfEmpty(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Append writes one record. The file is opened in append mode for every
// write, so separately scheduled runs racing on the same file interleave
// at line granularity without any locking.
func (s *CSVStore) Append(obs *models.Observation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open()
	if err != nil {
		return fmt.Errorf("append csv record: %w", err)
	}
	if err := writeHeaderIfEmpty(f); err != nil {
		f.Close()
		return err
	}

	writer := csv.NewWriter(f)
	record := []string{
		obs.Title,
		strconv.FormatFloat(obs.Price, 'f', 1, 64),
		obs.Timestamp(),
	}
	if err := writer.Write(record); err != nil {
		f.Close()
		return fmt.Errorf("append csv record: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush csv record: %w", err)
	}
	return f.Close()
}

// History reads the file back through the csv decoder. A missing file is
// an empty history, not an error.
func (s *CSVStore) History(limit int) ([]*models.Observation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read csv history: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	var observations []*models.Observation
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv history: %w", err)
		}
		if len(record) != 3 {
			return nil, fmt.Errorf("read csv history: malformed record %v", record)
		}
		if record[0] == csvHeader[0] && record[1] == csvHeader[1] {
			continue
		}

		price, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("read csv history: price %q: %w", record[1], err)
		}
		observedAt, err := time.ParseInLocation(models.TimestampLayout, record[2], time.Local)
		if err != nil {
			return nil, fmt.Errorf("read csv history: timestamp %q: %w", record[2], err)
		}
		observations = append(observations, &models.Observation{
			Title:      record[0],
			Price:      price,
			PriceKnown: price != 0,
			ObservedAt: observedAt,
		})
	}

	return tail(observations, limit), nil
}

// Close is a no-op; the file handle never outlives a single write.
func (s *CSVStore) Close() error {
	return nil
}

func (s *CSVStore) open() (*os.File, error) {
	return os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
}

func writeHeaderIfEmpty(f *os.File) error {
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat csv store: %w", err)
	}
	if info.Size() > 0 {
		return nil
	}

	writer := csv.NewWriter(f)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv header: %w", err)
	}
	return nil
}

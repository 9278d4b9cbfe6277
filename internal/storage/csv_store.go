// Package storage persists the holdings list as a flat CSV file.
package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dyike/FolioGo/internal/models"
)

// Header is the first row of the portfolio file.
var Header = []string{"ticker", "cost_basis", "quantity", "currency", "target_return_percent"}

// CSVStore keeps holdings in a single CSV file. It assumes a single writer process.
type CSVStore struct {
	path string
	mu   sync.Mutex
	log  zerolog.Logger
}

func NewCSVStore(path string, log zerolog.Logger) *CSVStore {
	return &CSVStore{
		path: path,
		log:  log.With().Str("component", "store").Str("path", path).Logger(),
	}
}

func (s *CSVStore) Path() string { return s.path }

// Load returns the persisted holdings in file order. A missing, unreadable or
// corrupt file is reported as an empty portfolio.
func (s *CSVStore) Load(ctx context.Context) []models.Holding {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Append adds h at the end and rewrites the whole file.
func (s *CSVStore) Append(ctx context.Context, h models.Holding) error {
	h = h.Normalized()
	if err := h.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	holdings := append(s.load(), h)
	if err := s.write(holdings); err != nil {
		return err
	}
	s.log.Info().Str("ticker", h.Ticker).Int("holdings", len(holdings)).Msg("Holding appended")
	return nil
}

// Reset deletes the backing file. A missing file is not an error.
func (s *CSVStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove portfolio file: %w", err)
	}
	s.log.Info().Msg("Portfolio reset")
	return nil
}

func (s *CSVStore) load() []models.Holding {
	file, err := os.Open(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn().Err(err).Msg("Failed to open portfolio file, treating as empty")
		}
		return []models.Holding{}
	}
	defer file.Close()

	holdings, err := decode(csv.NewReader(file))
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to read portfolio file, treating as empty")
		return []models.Holding{}
	}
	return holdings
}

func decode(reader *csv.Reader) ([]models.Holding, error) {
	reader.FieldsPerRecord = len(Header)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return []models.Holding{}, nil
	}

	holdings := make([]models.Holding, 0, len(records)-1)
	// skip header
	for i, record := range records[1:] {
		h, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		holdings = append(holdings, h)
	}
	return holdings, nil
}

func parseRecord(record []string) (models.Holding, error) {
	cost, err := decimal.NewFromString(record[1])
	if err != nil {
		return models.Holding{}, fmt.Errorf("cost_basis %q: %w", record[1], err)
	}
	qty, err := decimal.NewFromString(record[2])
	if err != nil {
		return models.Holding{}, fmt.Errorf("quantity %q: %w", record[2], err)
	}
	currency, err := models.ParseCurrency(record[3])
	if err != nil {
		return models.Holding{}, err
	}
	target, err := decimal.NewFromString(record[4])
	if err != nil {
		return models.Holding{}, fmt.Errorf("target_return_percent %q: %w", record[4], err)
	}
	return models.Holding{
		Ticker:              record[0],
		CostBasis:           cost,
		Quantity:            qty,
		Currency:            currency,
		TargetReturnPercent: target,
	}, nil
}

// write replaces the file atomically via a temp file in the same directory.
func (s *CSVStore) write(holdings []models.Holding) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, "portfolio-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp portfolio: %w", err)
	}
	cleanup := func() {
		tmpFile.Close()
		_ = os.Remove(tmpFile.Name())
	}

	writer := csv.NewWriter(tmpFile)
	if err := writer.Write(Header); err != nil {
		cleanup()
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for _, h := range holdings {
		row := []string{
			h.Ticker,
			h.CostBasis.String(),
			h.Quantity.String(),
			string(h.Currency),
			h.TargetReturnPercent.String(),
		}
		if err := writer.Write(row); err != nil {
			cleanup()
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		cleanup()
		return fmt.Errorf("flush portfolio: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("sync portfolio: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpFile.Name())
		return fmt.Errorf("close temp portfolio: %w", err)
	}
	return os.Rename(tmpFile.Name(), s.path)
}

package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"trade-tracker-go/internal/cache"
	"trade-tracker-go/internal/models"
	"trade-tracker-go/internal/tradecsv"
)

// CSVStore keeps the trade log in a single CSV file.
type CSVStore struct {
	path   string
	cached bool
	memo   *cache.Memo[models.TradeSet]
	logger *zap.Logger

	// writeMu serializes file rewrites within this process. Appends still
	// start from the memoized set, so a concurrent writer in another process
	// can lose an update.
	writeMu sync.Mutex
}

var _ Store = (*CSVStore)(nil)

// NewCSVStore creates a store backed by the CSV file at path.
// When cached is false, every Load re-reads the file.
func NewCSVStore(path string, cached bool, logger *zap.Logger) *CSVStore {
	return &CSVStore{
		path:   path,
		cached: cached,
		memo:   cache.NewMemo[models.TradeSet](),
		logger: logger.Named("csv-store"),
	}
}

// Path returns the backing file path.
func (s *CSVStore) Path() string { return s.path }

// Ensure creates a header-only backing file if none exists.
func (s *CSVStore) Ensure() error {
	_, err := os.Stat(s.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat trade log: %w", err)
	}
	s.logger.Info("Creating empty trade log", zap.String("path", s.path))
	return s.write(models.TradeSet{})
}

// Load returns the trade set, reading the file at most once when caching is on.
func (s *CSVStore) Load() models.TradeSet {
	if !s.cached {
		return s.read()
	}
	return s.memo.Get(s.read)
}

// read never fails: a missing, unreadable or malformed file is an empty log.
func (s *CSVStore) read() models.TradeSet {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("Trade log not found", zap.String("path", s.path))
		} else {
			s.logger.Warn("Failed to open trade log, treating as empty", zap.String("path", s.path), zap.Error(err))
		}
		return models.TradeSet{}
	}
	defer f.Close()

	set, err := tradecsv.Read(f)
	if err != nil {
		s.logger.Warn("Failed to parse trade log, treating as empty", zap.String("path", s.path), zap.Error(err))
		return models.TradeSet{}
	}
	s.logger.Debug("Loaded trade log", zap.String("path", s.path), zap.Int("trades", len(set)))
	return set
}

// Append adds trade after the loaded set and rewrites the whole file.
func (s *CSVStore) Append(trade models.Trade) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	updated := append(s.Load().Clone(), trade)
	if err := s.write(updated); err != nil {
		s.logger.Error("Failed to append trade", zap.String("symbol", trade.Symbol), zap.Error(err))
		return err
	}
	s.logger.Info("Appended trade",
		zap.String("symbol", trade.Symbol),
		zap.String("result", trade.Result.String()),
		zap.Int("trades", len(updated)),
	)
	return nil
}

// write replaces the backing file through a temp file and rename.
func (s *CSVStore) write(set models.TradeSet) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp trade log: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tradecsv.Write(tmp, set); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write trade log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp trade log: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to set trade log mode: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace trade log: %w", err)
	}
	return nil
}

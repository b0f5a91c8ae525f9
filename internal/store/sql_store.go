package store

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"trade-tracker-go/internal/cache"
	"trade-tracker-go/internal/models"
)

// SQLStore keeps the trade log in a sqlite table through gorm.
//
// Load follows the same memo and staleness rules as CSVStore. Append does not:
// it inserts one row instead of rewriting the memoized set, so appends made
// after a cached Load are never lost, only hidden until restart.
type SQLStore struct {
	db     *gorm.DB
	cached bool
	memo   *cache.Memo[models.TradeSet]
	logger *zap.Logger
}

var _ Store = (*SQLStore)(nil)

// NewSQLStore creates a store on an already migrated database.
func NewSQLStore(db *gorm.DB, cached bool, logger *zap.Logger) *SQLStore {
	return &SQLStore{
		db:     db,
		cached: cached,
		memo:   cache.NewMemo[models.TradeSet](),
		logger: logger.Named("sql-store"),
	}
}

// Load returns the trades in insertion order.
func (s *SQLStore) Load() models.TradeSet {
	if !s.cached {
		return s.read()
	}
	return s.memo.Get(s.read)
}

func (s *SQLStore) read() models.TradeSet {
	var rows []models.TradeRow
	if err := s.db.Order("id asc").Find(&rows).Error; err != nil {
		s.logger.Warn("Failed to query trade log, treating as empty", zap.Error(err))
		return models.TradeSet{}
	}

	set := make(models.TradeSet, 0, len(rows))
	for _, r := range rows {
		set = append(set, r.Trade())
	}
	return set
}

// Append inserts one row. Rows already in the table, including ones the
// memoized set does not know about, are left alone.
func (s *SQLStore) Append(trade models.Trade) error {
	row := models.NewTradeRow(trade)
	if err := s.db.Create(&row).Error; err != nil {
		s.logger.Error("Failed to append trade", zap.String("symbol", trade.Symbol), zap.Error(err))
		return fmt.Errorf("failed to insert trade: %w", err)
	}
	s.logger.Info("Appended trade", zap.String("symbol", trade.Symbol), zap.Uint("id", row.ID))
	return nil
}

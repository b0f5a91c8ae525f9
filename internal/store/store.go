// Package store owns the persisted trade log.
//
// A Store memoizes its first Load for the life of the process when caching is
// enabled. Append writes through to disk but never refreshes the memoized set,
// so a Load after an Append still returns the set as it was first read.
package store

import (
	"fmt"

	"go.uber.org/zap"

	"trade-tracker-go/internal/config"
	"trade-tracker-go/internal/database"
	"trade-tracker-go/internal/models"
)

// Store loads and appends to the trade log.
type Store interface {
	// Load returns the current trade set. Read failures yield an empty set.
	Load() models.TradeSet
	// Append adds trade after the loaded set and persists the result.
	Append(trade models.Trade) error
}

// New builds the store selected by cfg.Store.Driver.
func New(cfg config.Config, logger *zap.Logger) (Store, error) {
	switch cfg.Store.Driver {
	case "", "csv":
		s := NewCSVStore(cfg.Store.Path, cfg.Store.Cache, logger)
		if err := s.Ensure(); err != nil {
			return nil, err
		}
		logger.Info("Using CSV trade log", zap.String("path", s.Path()), zap.Bool("cache", cfg.Store.Cache))
		return s, nil
	case "sqlite":
		db, err := database.NewDatabase(cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		logger.Info("Using sqlite trade log", zap.String("dsn", cfg.Database.DSN), zap.Bool("cache", cfg.Store.Cache))
		return NewSQLStore(db, cfg.Store.Cache, logger), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

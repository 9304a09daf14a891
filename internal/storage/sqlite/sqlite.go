// Package sqlitestorage implements the storage.Backend interface using an
// in-memory SQLite database dumped to disk via VACUUM INTO on close. The
// run writes stay memory-fast and the file appears atomically at the end.
package sqlitestorage

import (
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/windlidar/campaign-planner/internal/config"
	"github.com/windlidar/campaign-planner/internal/database"
	"github.com/windlidar/campaign-planner/internal/storage/gormstore"
)

// Backend wraps the GORM backend for SQLite-specific behavior.
type Backend struct {
	*gormstore.Backend
	db  *gorm.DB
	cfg config.SQLiteConfig
	log zerolog.Logger
}

// New creates a new SQLite storage backend.
func New(cfg config.SQLiteConfig, log zerolog.Logger) (*Backend, error) {
	db, err := database.GetSqliteDBStandalone("")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory SQLite DB: %w", err)
	}

	return &Backend{
		Backend: gormstore.New(db, log),
		db:      db,
		cfg:     cfg,
		log:     log,
	}, nil
}

// Close dumps the in-memory database to the configured path, then closes
// the embedded GORM backend.
func (b *Backend) Close() error {
	if b.cfg.Path != "" {
		if err := database.DumpMemoryDBToDisk(b.db, b.cfg.Path); err != nil {
			b.log.Error().Err(err).Str("path", b.cfg.Path).Msg("Error dumping SQLite DB to disk")
			return err
		}
		b.log.Info().Str("path", b.cfg.Path).Msg("Campaign database written")
	}
	return b.Backend.Close()
}

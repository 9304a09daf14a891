// Package postgres implements the storage.Backend interface over a shared
// Postgres server, with SQLite fallback handled by the database manager.
package postgres

import (
	"github.com/rs/zerolog"

	"github.com/windlidar/campaign-planner/internal/database"
	"github.com/windlidar/campaign-planner/internal/storage/gormstore"
)

// Backend wraps the GORM backend with managed connection handling.
type Backend struct {
	*gormstore.Backend
	manager *database.Manager
}

// New connects to Postgres and creates the backend. Connection parameters
// come from the db viper keys.
func New(log zerolog.Logger) (*Backend, error) {
	manager := database.NewManager(log)
	if err := manager.Connect(); err != nil {
		return nil, err
	}

	return &Backend{
		Backend: gormstore.New(manager.DB, log),
		manager: manager,
	}, nil
}

// Close closes the managed connection.
func (b *Backend) Close() error {
	if b.manager.SqlDB != nil {
		return b.manager.SqlDB.Close()
	}
	return nil
}

// internal/storage/factory.go
package storage

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/windlidar/campaign-planner/internal/config"
	"github.com/windlidar/campaign-planner/internal/storage/memory"
	"github.com/windlidar/campaign-planner/internal/storage/postgres"
	sqlitestorage "github.com/windlidar/campaign-planner/internal/storage/sqlite"
)

// NewBackend creates a storage backend based on configuration
func NewBackend(cfg config.StorageConfig, log zerolog.Logger) (Backend, error) {
	switch cfg.Type {
	case "postgres":
		return postgres.New(log)
	case "sqlite":
		return sqlitestorage.New(cfg.SQLite, log)
	case "memory":
		return memory.New(cfg.Memory), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

package storage_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windlidar/campaign-planner/internal/config"
	"github.com/windlidar/campaign-planner/internal/storage"
)

func TestNewBackend_Memory(t *testing.T) {
	b, err := storage.NewBackend(config.StorageConfig{
		Type:   "memory",
		Memory: config.MemoryConfig{OutputDir: t.TempDir()},
	}, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.NoError(t, b.Init())
	assert.NoError(t, b.Close())
}

func TestNewBackend_Sqlite(t *testing.T) {
	b, err := storage.NewBackend(config.StorageConfig{
		Type:   "sqlite",
		SQLite: config.SQLiteConfig{Path: t.TempDir() + "/campaigns.db"},
	}, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.NoError(t, b.Init())
	assert.NoError(t, b.Close())
}

func TestNewBackend_UnknownType(t *testing.T) {
	_, err := storage.NewBackend(config.StorageConfig{Type: "redis"}, zerolog.Nop())
	assert.Error(t, err)
}

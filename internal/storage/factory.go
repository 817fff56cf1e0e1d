package storage

import (
	"fmt"

	"github.com/JamesPrial/relation-graph-core/pkg/config"
)

// NewStore creates a new relation store based on the configuration
func NewStore(cfg *config.Settings) (RelationStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	switch cfg.StorageType {
	case "sqlite":
		if cfg.StoragePath == "" {
			return nil, fmt.Errorf("storage path is required for SQLite store")
		}
		return NewSqliteStore(cfg.StoragePath, cfg.Sqlite.WALMode)
	case "memory", "":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.StorageType)
	}
}

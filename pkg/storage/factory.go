package storage

import (
	"fmt"
	"log/slog"

	"crednova/polaris/pkg/config"
)

// NewStore builds a Store from the storage configuration.
func NewStore(cfg config.StorageConfig, logger *slog.Logger) (Store, error) {
	switch cfg.Backend {
	case "sqlite":
		sqliteCfg := DefaultSQLiteConfig()
		sqliteCfg.Path = cfg.Path
		return NewSQLiteStore(sqliteCfg, logger)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

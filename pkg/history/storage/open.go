package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"mdnav-hq/mdnav/pkg/config"
	"mdnav-hq/mdnav/pkg/history"
)

// Open creates the store selected by cfg.Backend. For SQLite the path is
// ~-expanded and its directory created.
func Open(cfg config.HistoryConfig, logger *slog.Logger) (history.Store, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemoryStore(), nil

	case "sqlite", "":
		path := config.ExpandPath(cfg.Path)
		if path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, history.NewStorageError(backendSQLite, "mkdir", err)
			}
		}
		sqlCfg := DefaultSQLiteConfig(path)
		sqlCfg.Logger = logger
		return NewSQLiteStore(sqlCfg)

	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.Backend)
	}
}

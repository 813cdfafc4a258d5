// Package bootstrap initializes process-wide infrastructure: logging
// and the persistence backend selected in configuration.
package bootstrap

import (
	"fmt"

	"github.com/wasupalonely/appointments-chatbot/bot/storage"
	coreconfig "github.com/wasupalonely/appointments-chatbot/core/config"
	coredatabase "github.com/wasupalonely/appointments-chatbot/core/database"
	"github.com/wasupalonely/appointments-chatbot/core/logger"

	"log/slog"
)

// Result exposes infrastructure initialized by the bootstrap pipeline.
type Result struct {
	Store storage.Store
}

// Run initializes the logger and opens the configured storage backend.
// For postgres it also waits for the server and applies migrations.
func Run(cfg *coreconfig.Config) (*Result, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}

	if err := logger.InitLogger(cfg); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	return &Result{Store: store}, nil
}

func openStore(cfg *coreconfig.Config) (storage.Store, error) {
	switch cfg.Storage.Backend {
	case coreconfig.BackendPostgres:
		if err := coredatabase.RunMigrations(cfg.Storage.Database); err != nil {
			return nil, fmt.Errorf("bootstrap: migrations failed: %w", err)
		}
		db, err := coredatabase.Connect(cfg.Storage.Database)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: database initialization failed: %w", err)
		}
		return storage.NewPostgresStore(db), nil

	case coreconfig.BackendMemory:
		logger.Store.Warn("using volatile storage",
			slog.String("event", "store.backend"),
			slog.String("backend", "memory"),
		)
		return storage.NewMemoryStore(), nil

	default:
		fs, err := storage.OpenFileStore(cfg.Storage.File)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: file store init failed: %w", err)
		}
		return fs, nil
	}
}

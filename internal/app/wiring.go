// Package app assembles the storage backend, seed defaults and tracking store
// from configuration. Both binaries start here.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/rpggio/byggkoll/internal/config"
	"github.com/rpggio/byggkoll/internal/domain/tracking"
	"github.com/rpggio/byggkoll/internal/seed"
	"github.com/rpggio/byggkoll/internal/slots"
	"github.com/rpggio/byggkoll/internal/sqlite"
)

// App owns the store and the resources behind it.
type App struct {
	Store  *tracking.Store
	closer io.Closer
}

// Open builds a store over the configured backend.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	defaults, err := seed.Load(cfg.Seed.Path)
	if err != nil {
		return nil, err
	}

	backend, closer, err := OpenBackend(cfg.Storage)
	if err != nil {
		return nil, err
	}
	logger.Info("storage opened", "driver", cfg.Storage.Driver, "path", cfg.Storage.Path)
	if repo, ok := backend.(*sqlite.SlotRepository); ok {
		if err := checkSlots(ctx, repo, logger); err != nil {
			logger.Warn("slot check failed", "error", err)
		}
	}

	store := tracking.NewStore(ctx, slots.NewAdapter(backend, logger), logger, tracking.WithDefaults(defaults))
	return &App{Store: store, closer: closer}, nil
}

// Close releases the storage backend.
func (a *App) Close() error {
	return a.closer.Close()
}

// checkSlots warns about stored slots this build does not read and slots
// written by a newer schema. Neither stops startup.
func checkSlots(ctx context.Context, repo *sqlite.SlotRepository, logger *slog.Logger) error {
	names, err := repo.Names(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		if !slices.Contains(slots.All, name) {
			logger.Warn("unknown slot in storage", "slot", name)
			continue
		}
		version, err := repo.SchemaVersion(ctx, name)
		if err != nil {
			return err
		}
		if version > sqlite.CurrentSchemaVersion {
			logger.Warn("slot written by newer schema", "slot", name, "schema_version", version, "supported", sqlite.CurrentSchemaVersion)
		}
	}
	return nil
}

// OpenBackend returns the slot backend for cfg and a closer for it.
func OpenBackend(cfg config.StorageConfig) (slots.Backend, io.Closer, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		if err := ensureDir(cfg.Path); err != nil {
			return nil, nil, fmt.Errorf("prepare database path: %w", err)
		}
		db, err := sqlite.Open(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewSlotRepository(db), db, nil
	case config.DriverFile:
		backend, err := slots.NewFileBackend(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return backend, nopCloser{}, nil
	case config.DriverMemory:
		return slots.NewMemoryBackend(), nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

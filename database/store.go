package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lizet96/clinic-registry/config"
	"github.com/lizet96/clinic-registry/models"
)

// Storage drivers
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

// DoctorStore persists the whole doctor list. The list is always read and
// written as a unit, the same way the clinic screens fetch and replace it.
type DoctorStore interface {
	// Load returns every stored doctor in insertion order. An empty store yields an empty list.
	Load(ctx context.Context) ([]models.Doctor, error)
	// Save replaces the stored list with doctors.
	Save(ctx context.Context, doctors []models.Doctor) error
	// Kind names the backend, for health output.
	Kind() string
	Close() error
}

// Open builds the store selected by cfg.StorageDriver.
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (DoctorStore, error) {
	switch cfg.StorageDriver {
	case DriverFile, "":
		logger.Info().Str("path", cfg.DataFile).Msg("using file storage")
		return NewFileStore(cfg.DataFile), nil
	case DriverPostgres:
		store, err := Connect(ctx, PoolConfig{
			URL:      cfg.DatabaseURL,
			MaxConns: cfg.DBMaxConns,
			MinConns: cfg.DBMinConns,
		}, logger)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/lizet96/clinic-registry/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS doctors (
	position  INTEGER     NOT NULL,
	id        UUID        PRIMARY KEY,
	surname   TEXT        NOT NULL,
	name      TEXT        NOT NULL,
	room      TEXT        NOT NULL,
	specialty TEXT        NOT NULL,
	patients  JSONB       NOT NULL DEFAULT '[]'::jsonb,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS doctors_position_idx ON doctors (position);
CREATE INDEX IF NOT EXISTS doctors_specialty_idx ON doctors (specialty);
`

// PoolConfig sizes the connection pool.
type PoolConfig struct {
	URL      string
	MaxConns int32
	MinConns int32
}

// PostgresStore keeps doctors in the doctors table, one row per doctor,
// ordered by position. Patients are stored as a JSONB array.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// Connect opens a pool and checks the server answers.
func Connect(ctx context.Context, cfg PoolConfig, logger zerolog.Logger) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute
	poolCfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var version string
	if err := pool.QueryRow(pingCtx, "SELECT version()").Scan(&version); err != nil {
		pool.Close()
		return nil, fmt.Errorf("check connection: %w", err)
	}
	logger.Info().Str("version", version).Msg("connected to database")

	return &PostgresStore{pool: pool, logger: logger}, nil
}

// EnsureSchema creates the doctors table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Load implements DoctorStore.
func (s *PostgresStore) Load(ctx context.Context) ([]models.Doctor, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id::text, surname, name, room, specialty, patients::text
		FROM doctors
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query doctors: %w", err)
	}
	defer rows.Close()

	doctors := []models.Doctor{}
	for rows.Next() {
		var (
			d        models.Doctor
			id, room string
			patients string
		)
		if err := rows.Scan(&id, &d.Surname, &d.Name, &room, &d.Specialty, &patients); err != nil {
			return nil, fmt.Errorf("scan doctor: %w", err)
		}
		if d.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse doctor id %q: %w", id, err)
		}
		d.Room = models.Room(room)
		if err := json.Unmarshal([]byte(patients), &d.Patients); err != nil {
			return nil, fmt.Errorf("decode patients of %s: %w", d.ID, err)
		}
		doctors = append(doctors, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate doctors: %w", err)
	}
	return doctors, nil
}

// Save replaces every row inside one transaction.
func (s *PostgresStore) Save(ctx context.Context, doctors []models.Doctor) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM doctors"); err != nil {
		return fmt.Errorf("clear doctors: %w", err)
	}

	batch := &pgx.Batch{}
	for i, d := range doctors {
		patients := d.Patients
		if patients == nil {
			patients = []models.Patient{}
		}
		encoded, err := json.Marshal(patients)
		if err != nil {
			return fmt.Errorf("encode patients of %s: %w", d.ID, err)
		}
		batch.Queue(`
			INSERT INTO doctors (position, id, surname, name, room, specialty, patients)
			VALUES ($1, $2::uuid, $3, $4, $5, $6, $7::jsonb)`,
			i, d.ID.String(), d.Surname, d.Name, d.Room.String(), d.Specialty, string(encoded))
	}

	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert doctors: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit doctors: %w", err)
	}
	return nil
}

// Kind implements DoctorStore.
func (s *PostgresStore) Kind() string {
	return DriverPostgres
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
		s.logger.Info().Msg("database pool closed")
	}
	return nil
}

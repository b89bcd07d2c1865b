package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lizet96/clinic-registry/config"
	"github.com/lizet96/clinic-registry/models"
)

func sampleDoctors() []models.Doctor {
	return []models.Doctor{
		{
			ID:        uuid.New(),
			Surname:   "Иванов",
			Name:      "Сергей",
			Room:      "12",
			Specialty: "Кардиолог",
			Patients:  []models.Patient{{LastName: "Орлов", Diagnosis: "Гипертония"}},
		},
		{
			ID:        uuid.New(),
			Surname:   "Petrov",
			Name:      "Ivan",
			Room:      "3",
			Specialty: "Surgeon",
			Patients:  []models.Patient{},
		},
	}
}

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "clinic_db.json"))

	doctors, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, doctors)
	assert.Empty(t, doctors)
}

func TestFileStore_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "clinic_db.json")
	store := NewFileStore(path)
	want := sampleDoctors()

	require.NoError(t, store.Save(context.Background(), want))
	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// leaves no temp files behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStore_SaveNilWritesEmptyList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clinic_db.json")
	store := NewFileStore(path)

	require.NoError(t, store.Save(context.Background(), nil))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clinic_db.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileStore(path).Load(context.Background())
	assert.Error(t, err)
}

func TestFileStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewFileStore(filepath.Join(t.TempDir(), "clinic_db.json"))
	assert.ErrorIs(t, store.Save(ctx, sampleDoctors()), context.Canceled)
	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpen_SelectsDriver(t *testing.T) {
	cfg := &config.Config{StorageDriver: DriverFile, DataFile: filepath.Join(t.TempDir(), "db.json")}
	store, err := Open(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, DriverFile, store.Kind())
	assert.NoError(t, store.Close())

	_, err = Open(context.Background(), &config.Config{StorageDriver: "redis"}, zerolog.Nop())
	assert.Error(t, err)
}

func TestPostgresStore_SaveAndLoad(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()

	store, err := Connect(ctx, PoolConfig{URL: url, MaxConns: 4, MinConns: 1}, zerolog.Nop())
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.EnsureSchema(ctx))

	want := sampleDoctors()
	require.NoError(t, store.Save(ctx, want))
	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, store.Save(ctx, want[:1]))
	got, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

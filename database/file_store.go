package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/lizet96/clinic-registry/models"
)

// FileStore keeps the doctor list in a single JSON file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store backed by path. The file is created on first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the list. A missing file is an empty list.
func (s *FileStore) Load(ctx context.Context) ([]models.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []models.Doctor{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	doctors := []models.Doctor{}
	if len(data) == 0 {
		return doctors, nil
	}
	if err := json.Unmarshal(data, &doctors); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return doctors, nil
}

// Save writes the list to a temp file next to the target and renames it into place.
func (s *FileStore) Save(ctx context.Context, doctors []models.Doctor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if doctors == nil {
		doctors = []models.Doctor{}
	}

	data, err := json.MarshalIndent(doctors, "", "  ")
	if err != nil {
		return fmt.Errorf("encode doctors: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

// Kind implements DoctorStore.
func (s *FileStore) Kind() string {
	return DriverFile
}

// Close implements DoctorStore. There is nothing to release.
func (s *FileStore) Close() error {
	return nil
}

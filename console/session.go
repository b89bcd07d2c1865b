// Package console is the terminal front end of the clinic registry: a session
// holding the fetched doctor list, the add/edit forms, searches and text views.
package console

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lizet96/clinic-registry/models"
	"github.com/lizet96/clinic-registry/reports"
)

// ErrRefetchFailed means a mutation succeeded but the list could not be reloaded.
var ErrRefetchFailed = errors.New("refetch after update failed")

// API is the part of the registry client a session needs.
type API interface {
	ListDoctors(ctx context.Context) ([]models.Doctor, error)
	AddDoctor(ctx context.Context, doctor models.Doctor) (models.Doctor, error)
	EditDoctor(ctx context.Context, surname, name string, updates models.DoctorUpdate) (models.Doctor, error)
	DeleteDoctor(ctx context.Context, surname, name string) (int, error)
}

// Session keeps the doctor list fetched from the API. Searches and
// statistics run on that list; every mutation goes to the API and is
// followed by a full refetch.
type Session struct {
	api      API
	notifier *Notifier
	logger   zerolog.Logger
	now      func() time.Time

	doctors []models.Doctor
	loading bool
	loadErr error
}

func NewSession(api API, notifier *Notifier, logger zerolog.Logger) *Session {
	return &Session{api: api, notifier: notifier, logger: logger, now: time.Now}
}

// Load fetches the full list. On failure the previous list is kept.
func (s *Session) Load(ctx context.Context) error {
	s.loading = true
	defer func() { s.loading = false }()

	doctors, err := s.api.ListDoctors(ctx)
	if err != nil {
		s.loadErr = err
		s.logger.Error().Err(err).Msg("failed to load doctors")
		return fmt.Errorf("load doctors: %w", err)
	}
	s.loadErr = nil
	s.doctors = doctors
	return nil
}

// Loading reports whether a fetch is outstanding.
func (s *Session) Loading() bool {
	return s.loading
}

// Err returns the error of the last failed fetch, or nil.
func (s *Session) Err() error {
	return s.loadErr
}

// Doctors returns a copy of the resident list.
func (s *Session) Doctors() []models.Doctor {
	return models.CloneDoctors(s.doctors)
}

// Add sends a new doctor and refetches on success.
func (s *Session) Add(ctx context.Context, doctor models.Doctor) error {
	if _, err := s.api.AddDoctor(ctx, doctor); err != nil {
		s.notifier.Failure(err)
		return err
	}
	return s.afterMutation(ctx)
}

// Edit applies updates to the doctor named surname and name.
func (s *Session) Edit(ctx context.Context, surname, name string, updates models.DoctorUpdate) error {
	if _, err := s.api.EditDoctor(ctx, surname, name, updates); err != nil {
		s.notifier.Failure(err)
		return err
	}
	return s.afterMutation(ctx)
}

// Delete removes every doctor named surname and name.
func (s *Session) Delete(ctx context.Context, surname, name string) error {
	if _, err := s.api.DeleteDoctor(ctx, surname, name); err != nil {
		s.notifier.Failure(err)
		return err
	}
	return s.afterMutation(ctx)
}

// afterMutation confirms the update and refetches. A failed refetch keeps
// the stale list and returns ErrRefetchFailed; the update itself stands.
func (s *Session) afterMutation(ctx context.Context) error {
	s.notifier.Success()
	if err := s.Load(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrRefetchFailed, err)
	}
	return nil
}

func (s *Session) SearchBySpecialty(term string) []models.Doctor {
	return reports.FilterBySpecialty(s.doctors, term)
}

func (s *Session) SearchByPatient(term string) []models.Doctor {
	return reports.FilterByPatient(s.doctors, term)
}

func (s *Session) SearchByRoom(room string) []models.Doctor {
	return reports.FilterByRoom(s.doctors, room)
}

func (s *Session) RoomsBySpecialty(specialty string) []models.Room {
	return reports.RoomsBySpecialty(s.doctors, specialty)
}

// Statistics recomputes every aggregate from the resident list.
func (s *Session) Statistics() models.Statistics {
	return reports.Summarize(s.doctors, s.now())
}

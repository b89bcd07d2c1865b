// Package services holds the doctor registry operations shared by the HTTP handlers.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lizet96/clinic-registry/database"
	"github.com/lizet96/clinic-registry/events"
	"github.com/lizet96/clinic-registry/models"
	"github.com/lizet96/clinic-registry/reports"
)

var (
	ErrDoctorNotFound = errors.New("doctor not found")
	ErrInvalidDoctor  = errors.New("invalid doctor")
)

// ClinicService reads and mutates the doctor list held by a DoctorStore.
// Every call loads the list, works on a copy and, for mutations, saves the
// whole list back. Calls are serialized so each one sees a consistent list.
type ClinicService struct {
	store     database.DoctorStore
	publisher events.Publisher
	logger    zerolog.Logger
	now       func() time.Time

	mu sync.Mutex
}

func NewClinicService(store database.DoctorStore, publisher events.Publisher, logger zerolog.Logger) *ClinicService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &ClinicService{
		store:     store,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// StoreKind names the storage backend.
func (s *ClinicService) StoreKind() string {
	return s.store.Kind()
}

// List returns every doctor.
func (s *ClinicService) List(ctx context.Context) ([]models.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Replace stores doctors as the whole list. Missing or repeated IDs are reassigned.
func (s *ClinicService) Replace(ctx context.Context, doctors []models.Doctor) ([]models.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := models.CloneDoctors(doctors)
	seen := make(map[uuid.UUID]bool, len(list))
	for i := range list {
		if list[i].ID == uuid.Nil || seen[list[i].ID] {
			list[i].ID = uuid.New()
		}
		seen[list[i].ID] = true
		if list[i].Patients == nil {
			list[i].Patients = []models.Patient{}
		}
	}

	if err := s.save(ctx, list); err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{Type: events.DoctorsReplaced, Count: len(list)})
	return models.CloneDoctors(list), nil
}

// Add appends a doctor after checking its required fields.
func (s *ClinicService) Add(ctx context.Context, doctor models.Doctor) (models.Doctor, error) {
	if err := doctor.Validate(); err != nil {
		return models.Doctor{}, fmt.Errorf("%w: %v", ErrInvalidDoctor, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return models.Doctor{}, err
	}

	doctor = doctor.Clone()
	if doctor.ID == uuid.Nil {
		doctor.ID = uuid.New()
	} else if indexByID(list, doctor.ID) >= 0 {
		return models.Doctor{}, fmt.Errorf("%w: id %s already exists", ErrInvalidDoctor, doctor.ID)
	}
	if doctor.Patients == nil {
		doctor.Patients = []models.Patient{}
	}

	list = append(list, doctor)
	if err := s.save(ctx, list); err != nil {
		return models.Doctor{}, err
	}
	s.publish(ctx, changeEvent(events.DoctorAdded, doctor, s.now()))
	return doctor.Clone(), nil
}

// EditByName applies update to the first doctor matching surname and name.
func (s *ClinicService) EditByName(ctx context.Context, surname, name string, update models.DoctorUpdate) (models.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return models.Doctor{}, err
	}
	idx := indexByName(list, surname, name)
	if idx < 0 {
		return models.Doctor{}, fmt.Errorf("%w: %s %s", ErrDoctorNotFound, surname, name)
	}
	return s.update(ctx, list, idx, update)
}

// DeleteByName removes every doctor matching surname and name and returns how many were removed.
func (s *ClinicService) DeleteByName(ctx context.Context, surname, name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return 0, err
	}

	kept := list[:0:0]
	var removed []models.Doctor
	for _, d := range list {
		if d.Matches(surname, name) {
			removed = append(removed, d)
			continue
		}
		kept = append(kept, d)
	}
	if len(removed) == 0 {
		return 0, fmt.Errorf("%w: %s %s", ErrDoctorNotFound, surname, name)
	}

	if err := s.save(ctx, kept); err != nil {
		return 0, err
	}
	now := s.now()
	for _, d := range removed {
		s.publish(ctx, changeEvent(events.DoctorDeleted, d, now))
	}
	return len(removed), nil
}

// Get returns the doctor with id.
func (s *ClinicService) Get(ctx context.Context, id uuid.UUID) (models.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return models.Doctor{}, err
	}
	idx := indexByID(list, id)
	if idx < 0 {
		return models.Doctor{}, fmt.Errorf("%w: %s", ErrDoctorNotFound, id)
	}
	return list[idx], nil
}

// Update applies update to the doctor with id.
func (s *ClinicService) Update(ctx context.Context, id uuid.UUID, update models.DoctorUpdate) (models.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return models.Doctor{}, err
	}
	idx := indexByID(list, id)
	if idx < 0 {
		return models.Doctor{}, fmt.Errorf("%w: %s", ErrDoctorNotFound, id)
	}
	return s.update(ctx, list, idx, update)
}

// Delete removes the doctor with id.
func (s *ClinicService) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return err
	}
	idx := indexByID(list, id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrDoctorNotFound, id)
	}

	removed := list[idx]
	list = append(list[:idx], list[idx+1:]...)
	if err := s.save(ctx, list); err != nil {
		return err
	}
	s.publish(ctx, changeEvent(events.DoctorDeleted, removed, s.now()))
	return nil
}

func (s *ClinicService) BySpecialty(ctx context.Context, term string) ([]models.Doctor, error) {
	return s.query(ctx, func(list []models.Doctor) []models.Doctor {
		return reports.FilterBySpecialty(list, term)
	})
}

func (s *ClinicService) ByPatient(ctx context.Context, term string) ([]models.Doctor, error) {
	return s.query(ctx, func(list []models.Doctor) []models.Doctor {
		return reports.FilterByPatient(list, term)
	})
}

func (s *ClinicService) ByRoom(ctx context.Context, room string) ([]models.Doctor, error) {
	return s.query(ctx, func(list []models.Doctor) []models.Doctor {
		return reports.FilterByRoom(list, room)
	})
}

func (s *ClinicService) TopDoctors(ctx context.Context) ([]models.Doctor, error) {
	return s.query(ctx, reports.DoctorsWithMoreThan5Patients)
}

func (s *ClinicService) LeastBusy(ctx context.Context) ([]models.Doctor, error) {
	return s.query(ctx, reports.LeastBusyPerSpecialty)
}

// RoomsBySpecialty lists the distinct rooms used by doctors of exactly specialty.
func (s *ClinicService) RoomsBySpecialty(ctx context.Context, specialty string) ([]models.Room, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return reports.RoomsBySpecialty(list, specialty), nil
}

// TopSpecialties returns the three specialties with the most patients.
func (s *ClinicService) TopSpecialties(ctx context.Context) ([]models.SpecialtyLoad, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return reports.TopSpecialties(list), nil
}

// Statistics computes every aggregate over the current list.
func (s *ClinicService) Statistics(ctx context.Context) (models.Statistics, error) {
	list, err := s.List(ctx)
	if err != nil {
		return models.Statistics{}, err
	}
	return reports.Summarize(list, s.now()), nil
}

func (s *ClinicService) query(ctx context.Context, fn func([]models.Doctor) []models.Doctor) ([]models.Doctor, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return fn(list), nil
}

func (s *ClinicService) update(ctx context.Context, list []models.Doctor, idx int, update models.DoctorUpdate) (models.Doctor, error) {
	if update.IsEmpty() {
		return models.Doctor{}, fmt.Errorf("%w: no fields to update", ErrInvalidDoctor)
	}

	updated := update.Apply(list[idx])
	if err := updated.Validate(); err != nil {
		return models.Doctor{}, fmt.Errorf("%w: %v", ErrInvalidDoctor, err)
	}
	if updated.Patients == nil {
		updated.Patients = []models.Patient{}
	}

	list[idx] = updated
	if err := s.save(ctx, list); err != nil {
		return models.Doctor{}, err
	}
	s.publish(ctx, changeEvent(events.DoctorUpdated, updated, s.now()))
	return updated.Clone(), nil
}

// load returns a private copy of the list. Records written without an ID
// (hand-edited or legacy files) get one, and the list is saved right away
// so the IDs stay stable.
func (s *ClinicService) load(ctx context.Context) ([]models.Doctor, error) {
	stored, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load doctors: %w", err)
	}

	list := models.CloneDoctors(stored)
	assigned := 0
	for i := range list {
		if list[i].ID == uuid.Nil {
			list[i].ID = uuid.New()
			assigned++
		}
	}
	if assigned > 0 {
		if err := s.save(ctx, list); err != nil {
			return nil, err
		}
		s.logger.Info().Int("count", assigned).Msg("assigned ids to stored doctors")
	}
	return list, nil
}

func (s *ClinicService) save(ctx context.Context, list []models.Doctor) error {
	if err := s.store.Save(ctx, list); err != nil {
		return fmt.Errorf("save doctors: %w", err)
	}
	return nil
}

// publish never fails the caller; the list is already saved.
func (s *ClinicService) publish(ctx context.Context, event events.Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now()
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn().Err(err).Str("event", string(event.Type)).Msg("failed to publish doctor event")
	}
}

func changeEvent(t events.EventType, d models.Doctor, at time.Time) events.Event {
	return events.Event{
		Type:       t,
		DoctorID:   d.ID,
		Surname:    d.Surname,
		Name:       d.Name,
		OccurredAt: at,
	}
}

func indexByID(list []models.Doctor, id uuid.UUID) int {
	for i, d := range list {
		if d.ID == id {
			return i
		}
	}
	return -1
}

func indexByName(list []models.Doctor, surname, name string) int {
	for i, d := range list {
		if d.Matches(surname, name) {
			return i
		}
	}
	return -1
}

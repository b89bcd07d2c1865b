package services

import (
	"context"
	"sync"

	"github.com/lizet96/clinic-registry/database"
	"github.com/lizet96/clinic-registry/events"
	"github.com/lizet96/clinic-registry/models"
)

var _ database.DoctorStore = (*MockDoctorStore)(nil)

// MockDoctorStore keeps the list in memory unless a Func override is set.
type MockDoctorStore struct {
	LoadFunc func(ctx context.Context) ([]models.Doctor, error)
	SaveFunc func(ctx context.Context, doctors []models.Doctor) error

	mu        sync.Mutex
	doctors   []models.Doctor
	SaveCalls int
}

func (m *MockDoctorStore) Load(ctx context.Context) ([]models.Doctor, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return models.CloneDoctors(m.doctors), nil
}

func (m *MockDoctorStore) Save(ctx context.Context, doctors []models.Doctor) error {
	m.mu.Lock()
	m.SaveCalls++
	m.mu.Unlock()
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, doctors)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doctors = models.CloneDoctors(doctors)
	return nil
}

func (m *MockDoctorStore) Kind() string { return "mock" }
func (m *MockDoctorStore) Close() error { return nil }

var _ events.Publisher = (*RecordingPublisher)(nil)

// RecordingPublisher remembers every event and can be told to fail.
type RecordingPublisher struct {
	Err error

	mu     sync.Mutex
	Events []events.Event
}

func (p *RecordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, event)
	return p.Err
}

func (p *RecordingPublisher) Close() error { return nil }

func (p *RecordingPublisher) Types() []events.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.EventType, len(p.Events))
	for i, e := range p.Events {
		out[i] = e.Type
	}
	return out
}

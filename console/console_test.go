package console

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lizet96/clinic-registry/models"
)

var _ API = (*fakeAPI)(nil)

// fakeAPI keeps doctors in memory and fails any call whose error field is set.
type fakeAPI struct {
	doctors []models.Doctor

	ListErr   error
	AddErr    error
	EditErr   error
	DeleteErr error

	ListCalls int
	LastEdit  models.DoctorUpdate
}

func (f *fakeAPI) ListDoctors(context.Context) ([]models.Doctor, error) {
	f.ListCalls++
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return models.CloneDoctors(f.doctors), nil
}

func (f *fakeAPI) AddDoctor(_ context.Context, d models.Doctor) (models.Doctor, error) {
	if f.AddErr != nil {
		return models.Doctor{}, f.AddErr
	}
	d.ID = uuid.New()
	f.doctors = append(f.doctors, d)
	return d, nil
}

func (f *fakeAPI) EditDoctor(_ context.Context, surname, name string, u models.DoctorUpdate) (models.Doctor, error) {
	if f.EditErr != nil {
		return models.Doctor{}, f.EditErr
	}
	f.LastEdit = u
	for i, d := range f.doctors {
		if d.Matches(surname, name) {
			f.doctors[i] = u.Apply(d)
			return f.doctors[i], nil
		}
	}
	return models.Doctor{}, errors.New("not found")
}

func (f *fakeAPI) DeleteDoctor(_ context.Context, surname, name string) (int, error) {
	if f.DeleteErr != nil {
		return 0, f.DeleteErr
	}
	kept := f.doctors[:0]
	removed := 0
	for _, d := range f.doctors {
		if d.Matches(surname, name) {
			removed++
			continue
		}
		kept = append(kept, d)
	}
	f.doctors = kept
	return removed, nil
}

func seedDoctors() []models.Doctor {
	patients := func(n int) []models.Patient {
		out := make([]models.Patient, n)
		for i := range out {
			out[i] = models.Patient{LastName: "Орлов", Diagnosis: "Грипп"}
		}
		return out
	}
	return []models.Doctor{
		{ID: uuid.New(), Surname: "Ivanov", Name: "Ivan", Room: "1", Specialty: "Cardiologist", Patients: patients(6)},
		{ID: uuid.New(), Surname: "Petrov", Name: "Petr", Room: "2", Specialty: "Cardiologist", Patients: patients(1)},
		{ID: uuid.New(), Surname: "Abramov", Name: "Oleg", Room: "2", Specialty: "Surgeon", Patients: []models.Patient{}},
	}
}

func newTestSession(t *testing.T) (*Session, *fakeAPI, *bytes.Buffer) {
	t.Helper()
	api := &fakeAPI{doctors: seedDoctors()}
	var out bytes.Buffer
	s := NewSession(api, NewNotifier(&out, zerolog.Nop()), zerolog.Nop())
	s.now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }
	require.NoError(t, s.Load(context.Background()))
	return s, api, &out
}

func TestSession_Load(t *testing.T) {
	s, api, _ := newTestSession(t)
	assert.Len(t, s.Doctors(), 3)
	assert.False(t, s.Loading())
	assert.NoError(t, s.Err())

	api.ListErr = errors.New("network error")
	err := s.Load(context.Background())
	require.Error(t, err)
	assert.Len(t, s.Doctors(), 3, "previous list is kept")
	assert.Equal(t, api.ListErr, s.Err())
}

func TestSession_MutationsRefetch(t *testing.T) {
	s, api, out := newTestSession(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, models.Doctor{Surname: "Sidorov", Name: "Sid", Room: "3", Specialty: "Therapist"}))
	assert.Len(t, s.Doctors(), 4)
	assert.Equal(t, 2, api.ListCalls)

	require.NoError(t, s.Delete(ctx, "Sidorov", "Sid"))
	assert.Len(t, s.Doctors(), 3)
	assert.Equal(t, 3, api.ListCalls)

	notice, ok := s.notifier.Last()
	require.True(t, ok)
	assert.Equal(t, Notice{Title: MsgUpdated}, notice)
	assert.Equal(t, 2, strings.Count(out.String(), MsgUpdated))
}

func TestSession_FailedMutationShowsGenericNotice(t *testing.T) {
	s, api, out := newTestSession(t)
	api.DeleteErr = errors.New("500 internal")

	err := s.Delete(context.Background(), "Ivanov", "Ivan")
	assert.Equal(t, api.DeleteErr, err)
	assert.Equal(t, 1, api.ListCalls, "no refetch after a failed mutation")

	notice, ok := s.notifier.Last()
	require.True(t, ok)
	assert.True(t, notice.Destructive)
	assert.Contains(t, out.String(), MsgUpdateError)
	assert.NotContains(t, out.String(), "500 internal")
}

func TestSession_RefetchFailureAfterMutation(t *testing.T) {
	s, api, _ := newTestSession(t)
	api.ListErr = errors.New("network error")

	err := s.Add(context.Background(), models.Doctor{Surname: "S", Name: "N", Room: "1", Specialty: "X"})
	assert.ErrorIs(t, err, ErrRefetchFailed)
	assert.ErrorIs(t, err, api.ListErr)
}

func TestSession_SearchesAndStatistics(t *testing.T) {
	s, _, _ := newTestSession(t)

	assert.Len(t, s.SearchBySpecialty("CARDIO"), 2)
	assert.Len(t, s.SearchByPatient("орл"), 2)
	byRoom := s.SearchByRoom("2")
	require.Len(t, byRoom, 2)
	assert.Equal(t, "Abramov", byRoom[0].Surname)
	assert.Equal(t, []models.Room{"1", "2"}, s.RoomsBySpecialty("Cardiologist"))

	stats := s.Statistics()
	require.Len(t, stats.TopDoctors, 1)
	assert.Equal(t, "Ivanov", stats.TopDoctors[0].Surname)
	assert.Len(t, stats.LeastBusy, 2)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), stats.GeneratedAt)
}

func TestForm_AddLifecycle(t *testing.T) {
	s, _, _ := newTestSession(t)
	f := NewForm(s)
	ctx := context.Background()
	assert.Equal(t, FormIdle, f.State())
	assert.ErrorIs(t, f.Submit(ctx), ErrFormNotEditing)

	f.BeginAdd()
	assert.Equal(t, FormEditing, f.State())
	require.NoError(t, f.SetField("surname", "Sidorov"))
	require.NoError(t, f.SetField("name", "Sid"))
	require.NoError(t, f.SetField("room", " 12 "))
	require.NoError(t, f.SetField("specialty", "Therapist"))
	i, err := f.AddPatient()
	require.NoError(t, err)
	require.NoError(t, f.SetPatient(i, "last_name", "Titov"))
	require.NoError(t, f.SetPatient(i, "diagnosis", "Otitis"))
	assert.ErrorIs(t, f.SetField("age", "40"), ErrUnknownField)
	assert.ErrorIs(t, f.SetPatient(5, "diagnosis", "x"), ErrNoSuchPatient)

	require.NoError(t, f.Submit(ctx))
	assert.Equal(t, FormIdle, f.State())
	assert.Empty(t, f.Draft().Surname)

	doctors := s.Doctors()
	require.Len(t, doctors, 4)
	added := doctors[3]
	assert.Equal(t, models.Room("12"), added.Room)
	assert.Equal(t, []models.Patient{{LastName: "Titov", Diagnosis: "Otitis"}}, added.Patients)
}

func TestForm_RequiredFieldsBlockSubmit(t *testing.T) {
	s, api, _ := newTestSession(t)
	f := NewForm(s)
	f.BeginAdd()
	require.NoError(t, f.SetField("surname", "Sidorov"))

	err := f.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, FormEditing, f.State())
	assert.Equal(t, 1, api.ListCalls)
	assert.Len(t, api.doctors, 3)
}

func TestForm_FailedSubmitKeepsDraft(t *testing.T) {
	s, api, out := newTestSession(t)
	api.AddErr = errors.New("connection refused")
	f := NewForm(s)
	ctx := context.Background()

	f.BeginAdd()
	for field, value := range map[string]string{"surname": "Sidorov", "name": "Sid", "room": "3", "specialty": "Therapist"} {
		require.NoError(t, f.SetField(field, value))
	}

	require.Error(t, f.Submit(ctx))
	assert.Equal(t, FormEditing, f.State())
	assert.Equal(t, "Sidorov", f.Draft().Surname)
	assert.Contains(t, out.String(), MsgUpdateError)

	// resubmitting the same draft works once the backend is back
	api.AddErr = nil
	require.NoError(t, f.Submit(ctx))
	assert.Equal(t, FormIdle, f.State())
	assert.Len(t, s.Doctors(), 4)
}

func TestForm_EditSendsFullReplacement(t *testing.T) {
	s, api, _ := newTestSession(t)
	f := NewForm(s)

	f.BeginEdit(s.Doctors()[1])
	assert.Equal(t, ModeEdit, f.Mode())
	assert.Equal(t, models.DoctorKey{Surname: "Petrov", Name: "Petr"}, f.Target())
	require.NoError(t, f.SetField("surname", "Petrova"))
	require.NoError(t, f.RemovePatient(0))

	require.NoError(t, f.Submit(context.Background()))
	require.NotNil(t, api.LastEdit.Surname)
	assert.Equal(t, "Petrova", *api.LastEdit.Surname)
	require.NotNil(t, api.LastEdit.Patients)
	assert.Empty(t, *api.LastEdit.Patients)

	doctors := s.Doctors()
	assert.Equal(t, "Petrova", doctors[1].Surname)
	assert.Zero(t, doctors[1].PatientCount())
}

func TestForm_Cancel(t *testing.T) {
	s, _, _ := newTestSession(t)
	f := NewForm(s)
	f.BeginEdit(s.Doctors()[0])
	f.Cancel()
	assert.Equal(t, FormIdle, f.State())
	assert.ErrorIs(t, f.SetField("name", "x"), ErrFormNotEditing)
	_, err := f.AddPatient()
	assert.ErrorIs(t, err, ErrFormNotEditing)
}

func TestFormState_String(t *testing.T) {
	assert.Equal(t, "idle", FormIdle.String())
	assert.Equal(t, "editing", FormEditing.String())
	assert.Equal(t, "submitting", FormSubmitting.String())
	assert.Equal(t, "FormState(9)", FormState(9).String())
}

func TestSearchForm(t *testing.T) {
	s, _, _ := newTestSession(t)
	f := NewSearchForm(s)

	f.Term = "surg"
	assert.Len(t, f.Submit(), 1)

	f.Kind, f.Term = SearchRoom, " 2 "
	assert.Len(t, f.Submit(), 2)
	assert.Len(t, f.Results(), 2)

	f.Kind, f.Term = SearchPatient, "nobody"
	assert.Empty(t, f.Submit())

	kind, err := ParseSearchKind(" Patient ")
	require.NoError(t, err)
	assert.Equal(t, SearchPatient, kind)
	_, err = ParseSearchKind("diagnosis")
	assert.Error(t, err)
}

func TestRenderViews(t *testing.T) {
	s, _, _ := newTestSession(t)
	var buf bytes.Buffer

	require.NoError(t, RenderSession(&buf, s))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "SURNAME"))
	assert.Contains(t, lines[1], "Ivanov")
	assert.True(t, strings.HasSuffix(lines[1], "6"))

	buf.Reset()
	require.NoError(t, RenderSearchResults(&buf, nil))
	assert.Equal(t, "No doctors found\n", buf.String())

	buf.Reset()
	require.NoError(t, RenderStatistics(&buf, s.Statistics()))
	out := buf.String()
	assert.Contains(t, out, "Top 3 Specialties")
	assert.Contains(t, out, "Cardiologist:")
	assert.Contains(t, out, "7 patients")
	assert.Contains(t, out, "Top Doctors (more than 5 patients)")
	assert.Contains(t, out, "Ivanov Ivan")

	buf.Reset()
	require.NoError(t, RenderDoctor(&buf, s.Doctors()[1]))
	assert.Contains(t, buf.String(), "Орлов")

	buf.Reset()
	require.NoError(t, RenderRooms(&buf, "Cardiologist", s.RoomsBySpecialty("Cardiologist")))
	assert.Equal(t, "Rooms for Cardiologist: [1 2]\n", buf.String())
}

func TestRenderSession_Error(t *testing.T) {
	s, api, _ := newTestSession(t)
	api.ListErr = errors.New("Network error")
	_ = s.Load(context.Background())

	var buf bytes.Buffer
	require.NoError(t, RenderSession(&buf, s))
	assert.Equal(t, "An error occurred: Network error\n", buf.String())
}

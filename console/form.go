package console

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lizet96/clinic-registry/models"
)

type FormState int

const (
	FormIdle FormState = iota
	FormEditing
	FormSubmitting
)

func (s FormState) String() string {
	switch s {
	case FormIdle:
		return "idle"
	case FormEditing:
		return "editing"
	case FormSubmitting:
		return "submitting"
	default:
		return fmt.Sprintf("FormState(%d)", int(s))
	}
}

type FormMode int

const (
	ModeAdd FormMode = iota
	ModeEdit
)

var (
	ErrFormNotEditing = errors.New("form is not being edited")
	ErrUnknownField   = errors.New("unknown field")
	ErrNoSuchPatient  = errors.New("no such patient")
)

// Form is the add-doctor form and the edit dialog. It moves
// idle -> editing -> submitting -> idle; a failed submit returns to editing
// with the draft intact so it can be sent again.
type Form struct {
	session *Session

	mode   FormMode
	state  FormState
	target models.DoctorKey
	draft  models.Doctor
}

func NewForm(session *Session) *Form {
	return &Form{session: session}
}

func (f *Form) State() FormState { return f.state }
func (f *Form) Mode() FormMode   { return f.mode }

// Target is the doctor being edited.
func (f *Form) Target() models.DoctorKey { return f.target }

// Draft returns a copy of the local form state.
func (f *Form) Draft() models.Doctor { return f.draft.Clone() }

// BeginAdd opens an empty add form.
func (f *Form) BeginAdd() {
	f.mode = ModeAdd
	f.state = FormEditing
	f.target = models.DoctorKey{}
	f.draft = models.Doctor{Patients: []models.Patient{}}
}

// BeginEdit opens the edit dialog prefilled with doctor.
func (f *Form) BeginEdit(doctor models.Doctor) {
	f.mode = ModeEdit
	f.state = FormEditing
	f.target = models.DoctorKey{Surname: doctor.Surname, Name: doctor.Name}
	f.draft = doctor.Clone()
	if f.draft.Patients == nil {
		f.draft.Patients = []models.Patient{}
	}
}

// SetField sets surname, name, room or specialty.
func (f *Form) SetField(field, value string) error {
	if f.state != FormEditing {
		return ErrFormNotEditing
	}
	switch field {
	case "surname":
		f.draft.Surname = value
	case "name":
		f.draft.Name = value
	case "room":
		f.draft.Room = models.Room(strings.TrimSpace(value))
	case "specialty":
		f.draft.Specialty = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// AddPatient appends a blank patient row and returns its index.
func (f *Form) AddPatient() (int, error) {
	if f.state != FormEditing {
		return -1, ErrFormNotEditing
	}
	f.draft.Patients = append(f.draft.Patients, models.Patient{})
	return len(f.draft.Patients) - 1, nil
}

// SetPatient sets last_name or diagnosis of patient i.
func (f *Form) SetPatient(i int, field, value string) error {
	if f.state != FormEditing {
		return ErrFormNotEditing
	}
	if i < 0 || i >= len(f.draft.Patients) {
		return fmt.Errorf("%w: %d", ErrNoSuchPatient, i)
	}
	switch field {
	case "last_name":
		f.draft.Patients[i].LastName = value
	case "diagnosis":
		f.draft.Patients[i].Diagnosis = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// RemovePatient drops patient row i.
func (f *Form) RemovePatient(i int) error {
	if f.state != FormEditing {
		return ErrFormNotEditing
	}
	if i < 0 || i >= len(f.draft.Patients) {
		return fmt.Errorf("%w: %d", ErrNoSuchPatient, i)
	}
	f.draft.Patients = append(f.draft.Patients[:i], f.draft.Patients[i+1:]...)
	return nil
}

// Submit sends the draft. Required fields are checked first and nothing is
// sent while one is blank.
func (f *Form) Submit(ctx context.Context) error {
	if f.state != FormEditing {
		return ErrFormNotEditing
	}
	if err := f.draft.Validate(); err != nil {
		return err
	}

	f.state = FormSubmitting
	var err error
	switch f.mode {
	case ModeEdit:
		err = f.session.Edit(ctx, f.target.Surname, f.target.Name, replaceAll(f.draft))
	default:
		err = f.session.Add(ctx, f.draft.Clone())
	}
	if err != nil && !errors.Is(err, ErrRefetchFailed) {
		f.state = FormEditing
		return err
	}

	f.reset()
	return err
}

// Cancel closes the form and drops the draft.
func (f *Form) Cancel() {
	f.reset()
}

func (f *Form) reset() {
	f.state = FormIdle
	f.target = models.DoctorKey{}
	f.draft = models.Doctor{}
}

// replaceAll turns a full draft into an update that overwrites every field.
func replaceAll(d models.Doctor) models.DoctorUpdate {
	surname, name, room, specialty := d.Surname, d.Name, d.Room, d.Specialty
	patients := make([]models.Patient, len(d.Patients))
	copy(patients, d.Patients)
	return models.DoctorUpdate{
		Surname:   &surname,
		Name:      &name,
		Room:      &room,
		Specialty: &specialty,
		Patients:  &patients,
	}
}

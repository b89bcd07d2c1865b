package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Patient is a patient assigned to a doctor. It has no identity of its own.
type Patient struct {
	LastName  string `json:"last_name"`
	Diagnosis string `json:"diagnosis"`
}

// UnmarshalJSON accepts the legacy "lastName" and "surname" keys besides "last_name".
func (p *Patient) UnmarshalJSON(data []byte) error {
	var raw struct {
		LastName      string `json:"last_name"`
		LastNameCamel string `json:"lastName"`
		Surname       string `json:"surname"`
		Diagnosis     string `json:"diagnosis"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.Diagnosis = raw.Diagnosis
	switch {
	case raw.LastName != "":
		p.LastName = raw.LastName
	case raw.LastNameCamel != "":
		p.LastName = raw.LastNameCamel
	default:
		p.LastName = raw.Surname
	}
	return nil
}

// Doctor represents a doctor and the patients assigned to them.
// Legacy operations address a doctor by the (Surname, Name) pair; ID is the stable key.
type Doctor struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Surname   string    `json:"surname" db:"surname"`
	Name      string    `json:"name" db:"name"`
	Room      Room      `json:"room" db:"room"`
	Specialty string    `json:"specialty" db:"specialty"`
	Patients  []Patient `json:"patients" db:"patients"`
}

// PatientCount returns the number of patients assigned to the doctor.
func (d Doctor) PatientCount() int {
	return len(d.Patients)
}

// Matches reports whether the doctor is identified by the given surname and name.
func (d Doctor) Matches(surname, name string) bool {
	return d.Surname == surname && d.Name == name
}

// FullName returns "Surname Name".
func (d Doctor) FullName() string {
	return strings.TrimSpace(d.Surname + " " + d.Name)
}

// Clone returns a copy that does not share the patients slice.
func (d Doctor) Clone() Doctor {
	out := d
	if d.Patients != nil {
		out.Patients = make([]Patient, len(d.Patients))
		copy(out.Patients, d.Patients)
	}
	return out
}

// Validate checks that every required field is present.
func (d Doctor) Validate() error {
	var missing []string
	if strings.TrimSpace(d.Surname) == "" {
		missing = append(missing, "surname")
	}
	if strings.TrimSpace(d.Name) == "" {
		missing = append(missing, "name")
	}
	if d.Room.IsZero() {
		missing = append(missing, "room")
	}
	if strings.TrimSpace(d.Specialty) == "" {
		missing = append(missing, "specialty")
	}
	for i, p := range d.Patients {
		if strings.TrimSpace(p.LastName) == "" {
			missing = append(missing, fmt.Sprintf("patients[%d].last_name", i))
		}
		if strings.TrimSpace(p.Diagnosis) == "" {
			missing = append(missing, fmt.Sprintf("patients[%d].diagnosis", i))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// CloneDoctors copies a doctor list so callers can't mutate shared state.
func CloneDoctors(doctors []Doctor) []Doctor {
	out := make([]Doctor, len(doctors))
	for i, d := range doctors {
		out[i] = d.Clone()
	}
	return out
}

// DoctorUpdate carries a partial replacement. Nil fields are left unchanged.
type DoctorUpdate struct {
	Surname   *string    `json:"surname,omitempty"`
	Name      *string    `json:"name,omitempty"`
	Room      *Room      `json:"room,omitempty"`
	Specialty *string    `json:"specialty,omitempty"`
	Patients  *[]Patient `json:"patients,omitempty"`
}

// Apply returns d with the non-nil fields of u applied.
func (u DoctorUpdate) Apply(d Doctor) Doctor {
	out := d.Clone()
	if u.Surname != nil {
		out.Surname = *u.Surname
	}
	if u.Name != nil {
		out.Name = *u.Name
	}
	if u.Room != nil {
		out.Room = *u.Room
	}
	if u.Specialty != nil {
		out.Specialty = *u.Specialty
	}
	if u.Patients != nil {
		out.Patients = make([]Patient, len(*u.Patients))
		copy(out.Patients, *u.Patients)
	}
	return out
}

// IsEmpty reports whether the update changes nothing.
func (u DoctorUpdate) IsEmpty() bool {
	return u.Surname == nil && u.Name == nil && u.Room == nil && u.Specialty == nil && u.Patients == nil
}

// DoctorKey identifies a doctor by surname and name.
type DoctorKey struct {
	Surname string `json:"surname"`
	Name    string `json:"name"`
}

// EditDoctorRequest is the body of PUT /doctors/edit.
type EditDoctorRequest struct {
	DoctorKey
	Updates DoctorUpdate `json:"updates"`
}

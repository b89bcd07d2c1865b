package models

import (
	"time"
)

// SpecialtyLoad is the total number of patients across all doctors of a specialty.
type SpecialtyLoad struct {
	Specialty string `json:"specialty"`
	Patients  int    `json:"patients"`
}

// Statistics groups the derived views shown on the statistics screen.
type Statistics struct {
	TopSpecialties []SpecialtyLoad `json:"top_specialties"`
	TopDoctors     []Doctor        `json:"top_doctors"`
	LeastBusy      []Doctor        `json:"least_busy"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

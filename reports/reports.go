// Package reports computes the search results and statistics shown on the
// clinic screens. Every function is pure: it works on the doctor list it is
// given, never mutates it, and returns copies.
package reports

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/lizet96/clinic-registry/models"
)

const (
	// TopSpecialtiesLimit is how many specialties TopSpecialties returns.
	TopSpecialtiesLimit = 3
	// BusyThreshold is the patient count a doctor must exceed to be listed as busy.
	BusyThreshold = 5
)

// FilterBySpecialty returns the doctors whose specialty contains term, ignoring case.
// An empty term matches every doctor.
func FilterBySpecialty(doctors []models.Doctor, term string) []models.Doctor {
	needle := strings.ToLower(term)
	out := make([]models.Doctor, 0, len(doctors))
	for _, d := range doctors {
		if strings.Contains(strings.ToLower(d.Specialty), needle) {
			out = append(out, d.Clone())
		}
	}
	return out
}

// FilterByPatient returns the doctors treating at least one patient whose last
// name contains term, ignoring case.
func FilterByPatient(doctors []models.Doctor, term string) []models.Doctor {
	needle := strings.ToLower(term)
	out := make([]models.Doctor, 0)
	for _, d := range doctors {
		for _, p := range d.Patients {
			if strings.Contains(strings.ToLower(p.LastName), needle) {
				out = append(out, d.Clone())
				break
			}
		}
	}
	return out
}

// FilterByRoom returns the doctors seated in exactly the given room, sorted by surname.
func FilterByRoom(doctors []models.Doctor, room string) []models.Doctor {
	out := make([]models.Doctor, 0)
	for _, d := range doctors {
		if d.Room.String() == room {
			out = append(out, d.Clone())
		}
	}

	col := newCollator()
	sort.SliceStable(out, func(i, j int) bool {
		return col.CompareString(out[i].Surname, out[j].Surname) < 0
	})
	return out
}

// RoomsBySpecialty returns the distinct rooms used by doctors of the given specialty.
// Numeric rooms come first in numeric order, the rest follow in collation order.
func RoomsBySpecialty(doctors []models.Doctor, specialty string) []models.Room {
	seen := make(map[models.Room]bool)
	rooms := make([]models.Room, 0)
	for _, d := range doctors {
		if d.Specialty != specialty || seen[d.Room] {
			continue
		}
		seen[d.Room] = true
		rooms = append(rooms, d.Room)
	}

	col := newCollator()
	sort.SliceStable(rooms, func(i, j int) bool {
		a, aNum := rooms[i].Number()
		b, bNum := rooms[j].Number()
		switch {
		case aNum && bNum:
			return a < b
		case aNum != bNum:
			return aNum
		default:
			return col.CompareString(rooms[i].String(), rooms[j].String()) < 0
		}
	})
	return rooms
}

// TopSpecialties sums the patients of every specialty and returns the three
// largest totals in descending order. Equal totals keep the order in which the
// specialties first appear in the list.
func TopSpecialties(doctors []models.Doctor) []models.SpecialtyLoad {
	totals := make(map[string]int)
	var order []string
	for _, d := range doctors {
		if _, ok := totals[d.Specialty]; !ok {
			order = append(order, d.Specialty)
		}
		totals[d.Specialty] += d.PatientCount()
	}

	loads := make([]models.SpecialtyLoad, 0, len(order))
	for _, s := range order {
		loads = append(loads, models.SpecialtyLoad{Specialty: s, Patients: totals[s]})
	}
	sort.SliceStable(loads, func(i, j int) bool {
		return loads[i].Patients > loads[j].Patients
	})

	if len(loads) > TopSpecialtiesLimit {
		loads = loads[:TopSpecialtiesLimit]
	}
	return loads
}

// DoctorsWithMoreThan5Patients returns the doctors with more than BusyThreshold
// patients, sorted by specialty and then by patient count, largest first.
func DoctorsWithMoreThan5Patients(doctors []models.Doctor) []models.Doctor {
	out := make([]models.Doctor, 0)
	for _, d := range doctors {
		if d.PatientCount() > BusyThreshold {
			out = append(out, d.Clone())
		}
	}

	col := newCollator()
	sort.SliceStable(out, func(i, j int) bool {
		if c := col.CompareString(out[i].Specialty, out[j].Specialty); c != 0 {
			return c < 0
		}
		return out[i].PatientCount() > out[j].PatientCount()
	})
	return out
}

// LeastBusyPerSpecialty returns, for every specialty, the doctors whose patient
// count equals the minimum of that specialty. Ties are all kept. The result is
// grouped by specialty in collation order.
func LeastBusyPerSpecialty(doctors []models.Doctor) []models.Doctor {
	minimum := make(map[string]int)
	for _, d := range doctors {
		if m, ok := minimum[d.Specialty]; !ok || d.PatientCount() < m {
			minimum[d.Specialty] = d.PatientCount()
		}
	}

	out := make([]models.Doctor, 0)
	for _, d := range doctors {
		if d.PatientCount() == minimum[d.Specialty] {
			out = append(out, d.Clone())
		}
	}

	col := newCollator()
	sort.SliceStable(out, func(i, j int) bool {
		return col.CompareString(out[i].Specialty, out[j].Specialty) < 0
	})
	return out
}

// Summarize builds the statistics screen from the doctor list.
func Summarize(doctors []models.Doctor, now time.Time) models.Statistics {
	return models.Statistics{
		TopSpecialties: TopSpecialties(doctors),
		TopDoctors:     DoctorsWithMoreThan5Patients(doctors),
		LeastBusy:      LeastBusyPerSpecialty(doctors),
		GeneratedAt:    now,
	}
}

// newCollator returns a root-locale collator. Collators are not safe for
// concurrent use, so every call site builds its own.
func newCollator() *collate.Collator {
	return collate.New(language.Und)
}

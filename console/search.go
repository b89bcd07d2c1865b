package console

import (
	"fmt"
	"strings"

	"github.com/lizet96/clinic-registry/models"
)

type SearchKind string

const (
	SearchSpecialty SearchKind = "specialty"
	SearchPatient   SearchKind = "patient"
	SearchRoom      SearchKind = "room"
)

// ParseSearchKind accepts the kind names case-insensitively.
func ParseSearchKind(s string) (SearchKind, error) {
	switch kind := SearchKind(strings.ToLower(strings.TrimSpace(s))); kind {
	case SearchSpecialty, SearchPatient, SearchRoom:
		return kind, nil
	default:
		return "", fmt.Errorf("unknown search %q: want specialty, patient or room", s)
	}
}

// SearchForm runs one search over the session list and keeps the results
// until the next submit. All three search kinds share one result table.
type SearchForm struct {
	session *Session

	Kind    SearchKind
	Term    string
	results []models.Doctor
}

func NewSearchForm(session *Session) *SearchForm {
	return &SearchForm{session: session, Kind: SearchSpecialty}
}

// Submit recomputes the results from scratch.
func (f *SearchForm) Submit() []models.Doctor {
	switch f.Kind {
	case SearchPatient:
		f.results = f.session.SearchByPatient(f.Term)
	case SearchRoom:
		f.results = f.session.SearchByRoom(strings.TrimSpace(f.Term))
	default:
		f.results = f.session.SearchBySpecialty(f.Term)
	}
	return f.Results()
}

// Results returns the last submitted results.
func (f *SearchForm) Results() []models.Doctor {
	return models.CloneDoctors(f.results)
}

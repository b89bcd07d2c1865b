package console

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/lizet96/clinic-registry/models"
	"github.com/lizet96/clinic-registry/reports"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// RenderSession writes the doctor list, or the loading or error line.
func RenderSession(w io.Writer, s *Session) error {
	if s.Loading() {
		_, err := fmt.Fprintln(w, "Loading...")
		return err
	}
	if err := s.Err(); err != nil {
		_, werr := fmt.Fprintf(w, "An error occurred: %v\n", err)
		return werr
	}
	return RenderDoctorList(w, s.Doctors())
}

// RenderDoctorList writes the main table with patient counts.
func RenderDoctorList(w io.Writer, doctors []models.Doctor) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "SURNAME\tNAME\tROOM\tSPECIALTY\tPATIENTS")
	for _, d := range doctors {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", d.Surname, d.Name, d.Room, d.Specialty, d.PatientCount())
	}
	return tw.Flush()
}

// RenderSearchResults writes a result table, or a single line when nothing matched.
func RenderSearchResults(w io.Writer, doctors []models.Doctor) error {
	if len(doctors) == 0 {
		_, err := fmt.Fprintln(w, "No doctors found")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "SURNAME\tNAME\tROOM\tSPECIALTY")
	for _, d := range doctors {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Surname, d.Name, d.Room, d.Specialty)
	}
	return tw.Flush()
}

// RenderDoctor writes one doctor with the patient list.
func RenderDoctor(w io.Writer, d models.Doctor) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "Surname:\t%s\n", d.Surname)
	fmt.Fprintf(tw, "Name:\t%s\n", d.Name)
	fmt.Fprintf(tw, "Room:\t%s\n", d.Room)
	fmt.Fprintf(tw, "Specialty:\t%s\n", d.Specialty)
	fmt.Fprintf(tw, "Patients:\t%d\n", d.PatientCount())
	for i, p := range d.Patients {
		fmt.Fprintf(tw, "  %d.\t%s\t%s\n", i+1, p.LastName, p.Diagnosis)
	}
	return tw.Flush()
}

// RenderRooms writes the rooms of a specialty on one line.
func RenderRooms(w io.Writer, specialty string, rooms []models.Room) error {
	if len(rooms) == 0 {
		_, err := fmt.Fprintf(w, "No rooms for %s\n", specialty)
		return err
	}
	_, err := fmt.Fprintf(w, "Rooms for %s: %v\n", specialty, rooms)
	return err
}

// RenderStatistics writes the three statistics sections.
func RenderStatistics(w io.Writer, stats models.Statistics) error {
	tw := newTable(w)

	fmt.Fprintf(tw, "Top %d Specialties\n", reports.TopSpecialtiesLimit)
	for _, load := range stats.TopSpecialties {
		fmt.Fprintf(tw, "  %s:\t%d patients\n", load.Specialty, load.Patients)
	}

	fmt.Fprintf(tw, "\nTop Doctors (more than %d patients)\n", reports.BusyThreshold)
	for _, d := range stats.TopDoctors {
		fmt.Fprintf(tw, "  %s\t%s\t%d patients\n", d.FullName(), d.Specialty, d.PatientCount())
	}

	fmt.Fprintln(tw, "\nLeast Busy Doctors")
	for _, d := range stats.LeastBusy {
		fmt.Fprintf(tw, "  %s\t%s\t%d patients\n", d.FullName(), d.Specialty, d.PatientCount())
	}
	return tw.Flush()
}

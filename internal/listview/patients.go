package listview

import (
	"strings"

	"github.com/hackgods/clinic-admin/internal/clinic"
)

type PatientsView struct {
	*Collection[clinic.Patient]
}

func NewPatientsView(resource clinic.Resource[clinic.Patient]) *PatientsView {
	return &PatientsView{Collection: NewCollection(resource, "patients")}
}

// patients have no status, so any status filter excludes them all
func projectPatient(p clinic.Patient) ([]string, string) {
	return []string{p.FirstName, p.LastName, p.NationalID, p.Email, p.Phone}, ""
}

func (v *PatientsView) Filtered(q Query) []clinic.Patient {
	return Filter(v.Items(), q, projectPatient)
}

const (
	GenderMale   = "masculino"
	GenderFemale = "femenino"

	// NoKnownAllergies is what the intake form stores when there are none.
	NoKnownAllergies = "Ninguna conocida"
)

type PatientStats struct {
	Total         int
	Male          int
	Female        int
	WithAllergies int
}

func NewPatientStats(rows []clinic.Patient) PatientStats {
	s := PatientStats{Total: len(rows)}
	for _, p := range rows {
		switch p.Gender {
		case GenderMale:
			s.Male++
		case GenderFemale:
			s.Female++
		}
		if a := strings.TrimSpace(p.Allergies); a != "" && a != NoKnownAllergies {
			s.WithAllergies++
		}
	}
	return s
}

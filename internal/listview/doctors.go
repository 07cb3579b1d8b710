package listview

import (
	"math"

	"github.com/hackgods/clinic-admin/internal/clinic"
)

// Doctor status filter values, derived from the availability flag.
const (
	DoctorAvailable   = "disponible"
	DoctorUnavailable = "no_disponible"
)

type DoctorsView struct {
	*Collection[clinic.Doctor]
}

func NewDoctorsView(resource clinic.Resource[clinic.Doctor]) *DoctorsView {
	return &DoctorsView{Collection: NewCollection(resource, "doctors")}
}

func DoctorStatus(d clinic.Doctor) string {
	if d.Available {
		return DoctorAvailable
	}
	return DoctorUnavailable
}

func projectDoctor(d clinic.Doctor) ([]string, string) {
	return []string{d.FirstName, d.LastName, d.Specialty, d.Email, d.NationalID}, DoctorStatus(d)
}

func (v *DoctorsView) Filtered(q Query) []clinic.Doctor {
	return Filter(v.Items(), q, projectDoctor)
}

type DoctorStats struct {
	Total         int
	Specialties   int
	AvgExperience int
	Available     int
}

func NewDoctorStats(rows []clinic.Doctor) DoctorStats {
	s := DoctorStats{Total: len(rows)}
	specialties := make(map[string]struct{})
	years := 0
	for _, d := range rows {
		specialties[d.Specialty] = struct{}{}
		years += d.YearsExperience
		if d.Available {
			s.Available++
		}
	}
	s.Specialties = len(specialties)
	if len(rows) > 0 {
		s.AvgExperience = int(math.Round(float64(years) / float64(len(rows))))
	}
	return s
}

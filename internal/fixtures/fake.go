package fixtures

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/hackgods/clinic-admin/internal/clinic"
)

var specialties = []string{
	"Cardiología",
	"Pediatría",
	"Dermatología",
	"Ginecología",
	"Medicina General",
	"Traumatología",
	"Neurología",
	"Psiquiatría",
	"Oftalmología",
	"Endocrinología",
}

var bloodTypes = []string{"O+", "O-", "A+", "A-", "B+", "B-", "AB+", "AB-"}

var reasons = []string{
	"Control rutinario",
	"Dolor de cabeza persistente",
	"Revisión de resultados de laboratorio",
	"Dolor abdominal",
	"Chequeo preventivo anual",
	"Seguimiento de tratamiento",
	"Evaluación de lesión en la piel",
	"Fiebre y malestar general",
}

var notes = []string{
	"",
	"Traer exámenes previos",
	"Paciente en ayunas",
	"Primera consulta",
	"Requiere acompañante",
}

func mustDate(s string) time.Time {
	t, err := time.Parse(clinic.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// Faker generates random but valid clinic records.
type Faker struct {
	f *gofakeit.Faker
}

// NewFaker returns a generator. A zero seed uses a random one.
func NewFaker(seed uint64) *Faker {
	return &Faker{f: gofakeit.New(seed)}
}

func (g *Faker) Patient() clinic.Patient {
	return clinic.Patient{
		NationalID:            g.f.DigitN(10),
		FirstName:             g.f.FirstName(),
		LastName:              g.f.LastName(),
		Email:                 g.f.Email(),
		Phone:                 "09" + g.f.DigitN(8),
		BirthDate:             g.f.DateRange(mustDate("1940-01-01"), mustDate("2015-12-31")).Format(clinic.DateLayout),
		Gender:                g.f.RandomString([]string{"masculino", "femenino"}),
		Address:               g.f.Street() + ", " + g.f.City(),
		BloodType:             g.f.RandomString(bloodTypes),
		Allergies:             g.f.RandomString([]string{"Ninguna conocida", "Penicilina", "Látex", "Mariscos", "Polen"}),
		Insurance:             g.f.RandomString([]string{"IESS", "Particular"}),
		EmergencyContactName:  g.f.Name(),
		EmergencyContactPhone: "09" + g.f.DigitN(8),
	}
}

func (g *Faker) Doctor() clinic.Doctor {
	hours := fmt.Sprintf("Lunes a Viernes %d:00-%d:00", g.f.Number(7, 10), g.f.Number(14, 19))
	return clinic.Doctor{
		NationalID:        g.f.DigitN(10),
		FirstName:         g.f.FirstName(),
		LastName:          g.f.LastName(),
		Email:             g.f.Email(),
		Phone:             "09" + g.f.DigitN(8),
		Specialty:         g.f.RandomString(specialties),
		LicenseNumber:     fmt.Sprintf("LIC-%03d-%d", g.f.Number(1, 999), g.f.Number(1995, 2024)),
		University:        g.f.Company(),
		Office:            fmt.Sprintf("Consultorio %d", g.f.Number(100, 450)),
		YearsExperience:   g.f.Number(1, 35),
		ConsultationPrice: float64(g.f.Number(20, 120)),
		Schedule:          &hours,
		AvailableDays:     []string{"lunes", "martes", "miercoles", "jueves", "viernes"},
		Available:         g.f.Bool(),
	}
}

// Appointment picks a random patient and doctor from the given ids.
func (g *Faker) Appointment(patientIDs, doctorIDs []int64) clinic.Appointment {
	statuses := make([]string, len(clinic.Statuses))
	for i, s := range clinic.Statuses {
		statuses[i] = string(s)
	}
	types := make([]string, len(clinic.AppointmentTypes))
	for i, t := range clinic.AppointmentTypes {
		types[i] = string(t)
	}

	return clinic.Appointment{
		Code:            fmt.Sprintf("CITA-%06d", g.f.Number(0, 999999)),
		PatientID:       patientIDs[g.f.Number(0, len(patientIDs)-1)],
		DoctorID:        doctorIDs[g.f.Number(0, len(doctorIDs)-1)],
		Date:            g.f.DateRange(mustDate("2025-01-01"), mustDate("2026-12-31")).Format(clinic.DateLayout),
		Time:            fmt.Sprintf("%02d:%s", g.f.Number(8, 17), g.f.RandomString([]string{"00", "15", "30", "45"})),
		Reason:          g.f.RandomString(reasons),
		Notes:           g.f.RandomString(notes),
		Status:          clinic.AppointmentStatus(g.f.RandomString(statuses)),
		Type:            clinic.AppointmentType(g.f.RandomString(types)),
		DurationMinutes: g.f.RandomInt([]int{20, 30, 45, 60}),
		Price:           float64(g.f.Number(20, 150)),
	}
}

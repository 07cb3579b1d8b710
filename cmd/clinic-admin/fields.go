package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/hackgods/clinic-admin/internal/clinic"
)

// field is one form input: a string flag that knows how to write itself
// into the record.
type field[T any] struct {
	name  string
	usage string
	set   func(rec *T, v string) error
}

type fieldSet[T any] []field[T]

func (fs fieldSet[T]) bind(flags *flag.FlagSet) map[string]*string {
	values := make(map[string]*string, len(fs))
	for _, f := range fs {
		values[f.name] = flags.String(f.name, "", f.usage)
	}
	return values
}

// apply writes only the flags given on the command line, so an update keeps
// every field the user did not mention.
func (fs fieldSet[T]) apply(flags *flag.FlagSet, values map[string]*string, rec *T) error {
	byName := make(map[string]field[T], len(fs))
	for _, f := range fs {
		byName[f.name] = f
	}

	var err error
	flags.Visit(func(fl *flag.Flag) {
		f, ok := byName[fl.Name]
		if !ok || err != nil {
			return
		}
		if setErr := f.set(rec, *values[f.name]); setErr != nil {
			err = fmt.Errorf("-%s: %w", f.name, setErr)
		}
	})
	return err
}

func text[T any](name, usage string, ptr func(*T) *string) field[T] {
	return field[T]{name: name, usage: usage, set: func(rec *T, v string) error {
		*ptr(rec) = strings.TrimSpace(v)
		return nil
	}}
}

func integer[T any](name, usage string, ptr func(*T) *int) field[T] {
	return field[T]{name: name, usage: usage, set: func(rec *T, v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("not a number: %q", v)
		}
		*ptr(rec) = n
		return nil
	}}
}

func id64[T any](name, usage string, ptr func(*T) *int64) field[T] {
	return field[T]{name: name, usage: usage, set: func(rec *T, v string) error {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("not an id: %q", v)
		}
		*ptr(rec) = n
		return nil
	}}
}

func decimal[T any](name, usage string, ptr func(*T) *float64) field[T] {
	return field[T]{name: name, usage: usage, set: func(rec *T, v string) error {
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("not a number: %q", v)
		}
		*ptr(rec) = n
		return nil
	}}
}

var patientFields = fieldSet[clinic.Patient]{
	text("cedula", "national id", func(p *clinic.Patient) *string { return &p.NationalID }),
	text("nombre", "first name", func(p *clinic.Patient) *string { return &p.FirstName }),
	text("apellido", "last name", func(p *clinic.Patient) *string { return &p.LastName }),
	text("email", "email", func(p *clinic.Patient) *string { return &p.Email }),
	text("telefono", "phone", func(p *clinic.Patient) *string { return &p.Phone }),
	text("fecha-nacimiento", "birth date, YYYY-MM-DD", func(p *clinic.Patient) *string { return &p.BirthDate }),
	text("genero", "gender", func(p *clinic.Patient) *string { return &p.Gender }),
	text("direccion", "address", func(p *clinic.Patient) *string { return &p.Address }),
	text("tipo-sangre", "blood type", func(p *clinic.Patient) *string { return &p.BloodType }),
	text("alergias", "allergies", func(p *clinic.Patient) *string { return &p.Allergies }),
	text("enfermedades-cronicas", "chronic conditions", func(p *clinic.Patient) *string { return &p.ChronicConditions }),
	text("seguro", "insurance", func(p *clinic.Patient) *string { return &p.Insurance }),
	text("contacto-nombre", "emergency contact name", func(p *clinic.Patient) *string { return &p.EmergencyContactName }),
	text("contacto-telefono", "emergency contact phone", func(p *clinic.Patient) *string { return &p.EmergencyContactPhone }),
}

var doctorFields = fieldSet[clinic.Doctor]{
	text("cedula", "national id", func(d *clinic.Doctor) *string { return &d.NationalID }),
	text("nombre", "first name", func(d *clinic.Doctor) *string { return &d.FirstName }),
	text("apellido", "last name", func(d *clinic.Doctor) *string { return &d.LastName }),
	text("email", "email", func(d *clinic.Doctor) *string { return &d.Email }),
	text("telefono", "phone", func(d *clinic.Doctor) *string { return &d.Phone }),
	text("especialidad", "specialty", func(d *clinic.Doctor) *string { return &d.Specialty }),
	text("licencia", "license number", func(d *clinic.Doctor) *string { return &d.LicenseNumber }),
	text("universidad", "university", func(d *clinic.Doctor) *string { return &d.University }),
	text("consultorio", "office", func(d *clinic.Doctor) *string { return &d.Office }),
	integer("experiencia", "years of experience", func(d *clinic.Doctor) *int { return &d.YearsExperience }),
	decimal("precio", "consultation price", func(d *clinic.Doctor) *float64 { return &d.ConsultationPrice }),
	{name: "horario", usage: "office hours", set: func(d *clinic.Doctor, v string) error {
		v = strings.TrimSpace(v)
		if v == "" {
			d.Schedule = nil
		} else {
			d.Schedule = &v
		}
		return nil
	}},
	{name: "dias", usage: "available days, comma separated", set: func(d *clinic.Doctor, v string) error {
		d.AvailableDays = nil
		for _, day := range strings.Split(v, ",") {
			if day = strings.TrimSpace(day); day != "" {
				d.AvailableDays = append(d.AvailableDays, day)
			}
		}
		return nil
	}},
	{name: "disponible", usage: "true or false", set: func(d *clinic.Doctor, v string) error {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("not a boolean: %q", v)
		}
		d.Available = b
		return nil
	}},
}

var appointmentFields = fieldSet[clinic.Appointment]{
	text("codigo", "appointment code, generated when empty", func(a *clinic.Appointment) *string { return &a.Code }),
	id64("paciente", "patient id", func(a *clinic.Appointment) *int64 { return &a.PatientID }),
	id64("doctor", "doctor id", func(a *clinic.Appointment) *int64 { return &a.DoctorID }),
	text("fecha", "date, YYYY-MM-DD", func(a *clinic.Appointment) *string { return &a.Date }),
	text("hora", "time, HH:MM", func(a *clinic.Appointment) *string { return &a.Time }),
	text("motivo", "reason for the visit", func(a *clinic.Appointment) *string { return &a.Reason }),
	text("observaciones", "notes", func(a *clinic.Appointment) *string { return &a.Notes }),
	{name: "estado", usage: "programada, en_curso, completada, cancelada or no_asistio", set: func(a *clinic.Appointment, v string) error {
		a.Status = clinic.AppointmentStatus(strings.TrimSpace(v))
		return nil
	}},
	{name: "tipo", usage: "consulta, control, procedimiento, cirugia or urgencia", set: func(a *clinic.Appointment, v string) error {
		a.Type = clinic.AppointmentType(strings.TrimSpace(v))
		return nil
	}},
	integer("duracion", "duration in minutes", func(a *clinic.Appointment) *int { return &a.DurationMinutes }),
	decimal("precio", "price", func(a *clinic.Appointment) *float64 { return &a.Price }),
}

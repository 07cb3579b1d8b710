package clinic

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("not authenticated")
	ErrEmailTaken         = errors.New("email already registered")
)

// ValidationError reports a missing or malformed form field. It is raised
// before any backend round-trip.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func required(field, value string) error {
	if value == "" {
		return &ValidationError{Field: field, Reason: "is required"}
	}
	return nil
}

// Record is implemented by every managed entity.
type Record[T any] interface {
	RecordID() int64
	WithID(id int64) T
	Validate() error
}

// Resource is the CRUD surface of one entity collection. The HTTP client,
// the memory store and the Postgres store all implement it.
type Resource[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, rec T) (T, error)
	Update(ctx context.Context, id int64, rec T) (T, error)
	Delete(ctx context.Context, id int64) error
}

func (p Patient) RecordID() int64 { return p.ID }

func (p Patient) WithID(id int64) Patient {
	p.ID = id
	return p
}

func (p Patient) Validate() error {
	if err := required("nombre", p.FirstName); err != nil {
		return err
	}
	if err := required("apellido", p.LastName); err != nil {
		return err
	}
	if err := required("cedula", p.NationalID); err != nil {
		return err
	}
	if p.BirthDate != "" {
		if _, err := time.Parse(DateLayout, p.BirthDate); err != nil {
			return &ValidationError{Field: "fecha_nacimiento", Reason: "must be YYYY-MM-DD"}
		}
	}
	return nil
}

func (d Doctor) RecordID() int64 { return d.ID }

func (d Doctor) WithID(id int64) Doctor {
	d.ID = id
	return d
}

func (d Doctor) Validate() error {
	if err := required("nombre", d.FirstName); err != nil {
		return err
	}
	if err := required("apellido", d.LastName); err != nil {
		return err
	}
	if err := required("especialidad", d.Specialty); err != nil {
		return err
	}
	if err := required("numero_licencia", d.LicenseNumber); err != nil {
		return err
	}
	if d.YearsExperience < 0 {
		return &ValidationError{Field: "experiencia_anos", Reason: "must not be negative"}
	}
	if d.ConsultationPrice < 0 {
		return &ValidationError{Field: "consulta_precio", Reason: "must not be negative"}
	}
	return nil
}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

func (a Appointment) RecordID() int64 { return a.ID }

func (a Appointment) WithID(id int64) Appointment {
	a.ID = id
	return a
}

func (a Appointment) Validate() error {
	if a.PatientID <= 0 {
		return &ValidationError{Field: "paciente_id", Reason: "is required"}
	}
	if a.DoctorID <= 0 {
		return &ValidationError{Field: "doctor_id", Reason: "is required"}
	}
	if err := required("fecha", a.Date); err != nil {
		return err
	}
	if _, err := time.Parse(DateLayout, a.Date); err != nil {
		return &ValidationError{Field: "fecha", Reason: "must be YYYY-MM-DD"}
	}
	if err := required("hora", a.Time); err != nil {
		return err
	}
	if _, err := time.Parse(TimeLayout, a.Time); err != nil {
		return &ValidationError{Field: "hora", Reason: "must be HH:MM"}
	}
	if err := required("motivo_consulta", a.Reason); err != nil {
		return err
	}
	if a.Status != "" && !a.Status.Valid() {
		return &ValidationError{Field: "estado", Reason: fmt.Sprintf("unknown status %q", a.Status)}
	}
	if a.Type != "" && !a.Type.Valid() {
		return &ValidationError{Field: "tipo_cita", Reason: fmt.Sprintf("unknown type %q", a.Type)}
	}
	if a.DurationMinutes < 0 {
		return &ValidationError{Field: "duracion_minutos", Reason: "must not be negative"}
	}
	if a.Price < 0 {
		return &ValidationError{Field: "precio", Reason: "must not be negative"}
	}
	return nil
}

// Normalize fills the defaults a freshly created appointment gets.
func (a Appointment) Normalize() Appointment {
	if a.Status == "" {
		a.Status = StatusScheduled
	}
	if a.Type == "" {
		a.Type = TypeConsultation
	}
	return a
}

// WithoutRefs drops the embedded patient and doctor. Those are filled in by
// the backend from the ids on every read and are never stored.
func (a Appointment) WithoutRefs() Appointment {
	a.Patient, a.Doctor = nil, nil
	return a
}

func (r RegisterRequest) Validate() error {
	if err := required("email", r.Email); err != nil {
		return err
	}
	if err := required("password", r.Password); err != nil {
		return err
	}
	if len(r.Password) < 6 {
		return &ValidationError{Field: "password", Reason: "must be at least 6 characters"}
	}
	if err := required("nombre", r.FirstName); err != nil {
		return err
	}
	return required("apellido", r.LastName)
}

package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hackgods/clinic-admin/internal/clinic"
)

// Appointments reads rows joined with their patient and doctor so lists come
// back with the embedded names filled in.
type Appointments struct {
	pool *pgxpool.Pool
}

var _ clinic.Resource[clinic.Appointment] = (*Appointments)(nil)

const appointmentSelect = `
	SELECT a.id, a.codigo, a.paciente_id, a.doctor_id,
	       to_char(a.fecha, 'YYYY-MM-DD'), to_char(a.hora, 'HH24:MI'),
	       a.motivo_consulta, a.observaciones, a.estado, a.tipo_cita,
	       a.duracion_minutos, a.precio::float8,
	       p.nombre, p.apellido, d.nombre, d.apellido, d.especialidad
	FROM citas a
	LEFT JOIN pacientes p ON p.id = a.paciente_id
	LEFT JOIN doctores d ON d.id = a.doctor_id`

func scanAppointment(row pgx.Row) (clinic.Appointment, error) {
	var a clinic.Appointment
	var code, notes *string
	var pFirst, pLast, dFirst, dLast, dSpecialty *string

	err := row.Scan(
		&a.ID, &code, &a.PatientID, &a.DoctorID,
		&a.Date, &a.Time,
		&a.Reason, &notes, &a.Status, &a.Type,
		&a.DurationMinutes, &a.Price,
		&pFirst, &pLast, &dFirst, &dLast, &dSpecialty,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return clinic.Appointment{}, clinic.ErrNotFound
		}
		return clinic.Appointment{}, err
	}

	a.Code = deref(code)
	a.Notes = deref(notes)
	if pFirst != nil {
		a.Patient = &clinic.PatientRef{FirstName: *pFirst, LastName: deref(pLast)}
	}
	if dFirst != nil {
		a.Doctor = &clinic.DoctorRef{FirstName: *dFirst, LastName: deref(dLast), Specialty: deref(dSpecialty)}
	}
	return a, nil
}

func appointmentArgs(a clinic.Appointment) []any {
	return []any{
		nullable(a.Code), a.PatientID, a.DoctorID, a.Date, a.Time,
		a.Reason, nullable(a.Notes), string(a.Status), string(a.Type),
		a.DurationMinutes, a.Price,
	}
}

func (r *Appointments) List(ctx context.Context) ([]clinic.Appointment, error) {
	rows, err := r.pool.Query(ctx, appointmentSelect+` ORDER BY a.id`)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	result := []clinic.Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *Appointments) Get(ctx context.Context, id int64) (clinic.Appointment, error) {
	return scanAppointment(r.pool.QueryRow(ctx, appointmentSelect+` WHERE a.id = $1`, id))
}

func (r *Appointments) Create(ctx context.Context, a clinic.Appointment) (clinic.Appointment, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO citas (
			codigo, paciente_id, doctor_id, fecha, hora,
			motivo_consulta, observaciones, estado, tipo_cita,
			duracion_minutos, precio
		)
		VALUES ($1, $2, $3, $4::text::date, $5::text::time, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`, appointmentArgs(a)...).Scan(&id)
	if err != nil {
		return clinic.Appointment{}, fmt.Errorf("insert appointment: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *Appointments) Update(ctx context.Context, id int64, a clinic.Appointment) (clinic.Appointment, error) {
	args := append([]any{id}, appointmentArgs(a)...)
	tag, err := r.pool.Exec(ctx, `
		UPDATE citas
		SET codigo = $2, paciente_id = $3, doctor_id = $4,
		    fecha = $5::text::date, hora = $6::text::time,
		    motivo_consulta = $7, observaciones = $8, estado = $9, tipo_cita = $10,
		    duracion_minutos = $11, precio = $12, updated_at = now()
		WHERE id = $1
	`, args...)
	if err != nil {
		return clinic.Appointment{}, fmt.Errorf("update appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return clinic.Appointment{}, clinic.ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *Appointments) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM citas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return clinic.ErrNotFound
	}
	return nil
}

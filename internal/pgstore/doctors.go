package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hackgods/clinic-admin/internal/clinic"
)

type Doctors struct {
	pool *pgxpool.Pool
}

var _ clinic.Resource[clinic.Doctor] = (*Doctors)(nil)

const doctorColumns = `
	id, cedula, nombre, apellido, email, telefono, especialidad, numero_licencia,
	universidad, consultorio, experiencia_anos, consulta_precio::float8,
	horario_atencion, dias_disponibles, disponible`

func scanDoctor(row pgx.Row) (clinic.Doctor, error) {
	var d clinic.Doctor
	var nationalID, email, phone, university, office *string

	err := row.Scan(
		&d.ID, &nationalID, &d.FirstName, &d.LastName, &email, &phone, &d.Specialty, &d.LicenseNumber,
		&university, &office, &d.YearsExperience, &d.ConsultationPrice,
		&d.Schedule, &d.AvailableDays, &d.Available,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return clinic.Doctor{}, clinic.ErrNotFound
		}
		return clinic.Doctor{}, err
	}

	d.NationalID = deref(nationalID)
	d.Email = deref(email)
	d.Phone = deref(phone)
	d.University = deref(university)
	d.Office = deref(office)
	return d, nil
}

func doctorArgs(d clinic.Doctor) []any {
	return []any{
		nullable(d.NationalID), d.FirstName, d.LastName, nullable(d.Email), nullable(d.Phone),
		d.Specialty, d.LicenseNumber, nullable(d.University), nullable(d.Office),
		d.YearsExperience, d.ConsultationPrice, d.Schedule, d.AvailableDays, d.Available,
	}
}

func (r *Doctors) List(ctx context.Context) ([]clinic.Doctor, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+doctorColumns+` FROM doctores ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	defer rows.Close()

	result := []clinic.Doctor{}
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *Doctors) Get(ctx context.Context, id int64) (clinic.Doctor, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+doctorColumns+` FROM doctores WHERE id = $1`, id)
	return scanDoctor(row)
}

func (r *Doctors) Create(ctx context.Context, d clinic.Doctor) (clinic.Doctor, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO doctores (
			cedula, nombre, apellido, email, telefono, especialidad, numero_licencia,
			universidad, consultorio, experiencia_anos, consulta_precio,
			horario_atencion, dias_disponibles, disponible
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING `+doctorColumns, doctorArgs(d)...)
	return scanDoctor(row)
}

func (r *Doctors) Update(ctx context.Context, id int64, d clinic.Doctor) (clinic.Doctor, error) {
	args := append([]any{id}, doctorArgs(d)...)
	row := r.pool.QueryRow(ctx, `
		UPDATE doctores
		SET cedula = $2, nombre = $3, apellido = $4, email = $5, telefono = $6,
		    especialidad = $7, numero_licencia = $8, universidad = $9, consultorio = $10,
		    experiencia_anos = $11, consulta_precio = $12, horario_atencion = $13,
		    dias_disponibles = $14, disponible = $15, updated_at = now()
		WHERE id = $1
		RETURNING `+doctorColumns, args...)
	return scanDoctor(row)
}

func (r *Doctors) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM doctores WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete doctor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return clinic.ErrNotFound
	}
	return nil
}

package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hackgods/clinic-admin/internal/clinic"
)

type Patients struct {
	pool *pgxpool.Pool
}

var _ clinic.Resource[clinic.Patient] = (*Patients)(nil)

const patientColumns = `
	id, cedula, nombre, apellido, email, telefono,
	to_char(fecha_nacimiento, 'YYYY-MM-DD'), genero, direccion, tipo_sangre,
	alergias, enfermedades_cronicas, seguro_medico,
	contacto_emergencia_nombre, contacto_emergencia_telefono`

func scanPatient(row pgx.Row) (clinic.Patient, error) {
	var p clinic.Patient
	var email, phone, birth, gender, address, blood, allergies, chronic, insurance, ecName, ecPhone *string

	err := row.Scan(
		&p.ID, &p.NationalID, &p.FirstName, &p.LastName, &email, &phone,
		&birth, &gender, &address, &blood,
		&allergies, &chronic, &insurance,
		&ecName, &ecPhone,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return clinic.Patient{}, clinic.ErrNotFound
		}
		return clinic.Patient{}, err
	}

	p.Email = deref(email)
	p.Phone = deref(phone)
	p.BirthDate = deref(birth)
	p.Gender = deref(gender)
	p.Address = deref(address)
	p.BloodType = deref(blood)
	p.Allergies = deref(allergies)
	p.ChronicConditions = deref(chronic)
	p.Insurance = deref(insurance)
	p.EmergencyContactName = deref(ecName)
	p.EmergencyContactPhone = deref(ecPhone)
	return p, nil
}

func patientArgs(p clinic.Patient) []any {
	return []any{
		p.NationalID, p.FirstName, p.LastName, nullable(p.Email), nullable(p.Phone),
		nullable(p.BirthDate), nullable(p.Gender), nullable(p.Address), nullable(p.BloodType),
		nullable(p.Allergies), nullable(p.ChronicConditions), nullable(p.Insurance),
		nullable(p.EmergencyContactName), nullable(p.EmergencyContactPhone),
	}
}

func (r *Patients) List(ctx context.Context) ([]clinic.Patient, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+patientColumns+` FROM pacientes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()

	result := []clinic.Patient{}
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *Patients) Get(ctx context.Context, id int64) (clinic.Patient, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+patientColumns+` FROM pacientes WHERE id = $1`, id)
	return scanPatient(row)
}

func (r *Patients) Create(ctx context.Context, p clinic.Patient) (clinic.Patient, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO pacientes (
			cedula, nombre, apellido, email, telefono,
			fecha_nacimiento, genero, direccion, tipo_sangre,
			alergias, enfermedades_cronicas, seguro_medico,
			contacto_emergencia_nombre, contacto_emergencia_telefono
		)
		VALUES ($1, $2, $3, $4, $5, $6::text::date, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING `+patientColumns, patientArgs(p)...)
	return scanPatient(row)
}

func (r *Patients) Update(ctx context.Context, id int64, p clinic.Patient) (clinic.Patient, error) {
	args := append([]any{id}, patientArgs(p)...)
	row := r.pool.QueryRow(ctx, `
		UPDATE pacientes
		SET cedula = $2, nombre = $3, apellido = $4, email = $5, telefono = $6,
		    fecha_nacimiento = $7::text::date, genero = $8, direccion = $9, tipo_sangre = $10,
		    alergias = $11, enfermedades_cronicas = $12, seguro_medico = $13,
		    contacto_emergencia_nombre = $14, contacto_emergencia_telefono = $15,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+patientColumns, args...)
	return scanPatient(row)
}

func (r *Patients) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM pacientes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return clinic.ErrNotFound
	}
	return nil
}

// Package pgstore keeps the clinic collections and accounts in Postgres.
package pgstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Appointment references are not foreign keys: a deleted patient or doctor
// leaves its appointments in place and the list renders the name as missing.
const schema = `
CREATE TABLE IF NOT EXISTS pacientes (
	id                           BIGSERIAL PRIMARY KEY,
	cedula                       TEXT NOT NULL,
	nombre                       TEXT NOT NULL,
	apellido                     TEXT NOT NULL,
	email                        TEXT,
	telefono                     TEXT,
	fecha_nacimiento             DATE,
	genero                       TEXT,
	direccion                    TEXT,
	tipo_sangre                  TEXT,
	alergias                     TEXT,
	enfermedades_cronicas        TEXT,
	seguro_medico                TEXT,
	contacto_emergencia_nombre   TEXT,
	contacto_emergencia_telefono TEXT,
	created_at                   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at                   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS doctores (
	id               BIGSERIAL PRIMARY KEY,
	cedula           TEXT,
	nombre           TEXT NOT NULL,
	apellido         TEXT NOT NULL,
	email            TEXT,
	telefono         TEXT,
	especialidad     TEXT NOT NULL,
	numero_licencia  TEXT NOT NULL,
	universidad      TEXT,
	consultorio      TEXT,
	experiencia_anos INTEGER NOT NULL DEFAULT 0,
	consulta_precio  NUMERIC(10,2) NOT NULL DEFAULT 0,
	horario_atencion TEXT,
	dias_disponibles TEXT[],
	disponible       BOOLEAN NOT NULL DEFAULT TRUE,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS citas (
	id               BIGSERIAL PRIMARY KEY,
	codigo           TEXT,
	paciente_id      BIGINT NOT NULL,
	doctor_id        BIGINT NOT NULL,
	fecha            DATE NOT NULL,
	hora             TIME NOT NULL,
	motivo_consulta  TEXT NOT NULL,
	observaciones    TEXT,
	estado           TEXT NOT NULL DEFAULT 'programada',
	tipo_cita        TEXT NOT NULL DEFAULT 'consulta',
	duracion_minutos INTEGER NOT NULL DEFAULT 0,
	precio           NUMERIC(10,2) NOT NULL DEFAULT 0,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS citas_paciente_idx ON citas (paciente_id);
CREATE INDEX IF NOT EXISTS citas_doctor_idx ON citas (doctor_id);

CREATE TABLE IF NOT EXISTS usuarios (
	id            BIGSERIAL PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	nombre        TEXT NOT NULL,
	apellido      TEXT NOT NULL,
	rol           TEXT NOT NULL,
	password_hash BYTEA NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// EnsureSchema creates the tables when they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Store groups the repositories over one pool.
type Store struct {
	Patients     *Patients
	Doctors      *Doctors
	Appointments *Appointments
	Users        *Users
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{
		Patients:     &Patients{pool: pool},
		Doctors:      &Doctors{pool: pool},
		Appointments: &Appointments{pool: pool},
		Users:        &Users{pool: pool},
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

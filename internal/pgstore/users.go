package pgstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hackgods/clinic-admin/internal/auth"
	"github.com/hackgods/clinic-admin/internal/clinic"
)

const uniqueViolation = "23505"

type Users struct {
	pool *pgxpool.Pool
}

var _ auth.UserStore = (*Users)(nil)

func scanUser(row pgx.Row) (clinic.User, error) {
	var u clinic.User
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Role, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return clinic.User{}, clinic.ErrNotFound
		}
		return clinic.User{}, err
	}
	return u, nil
}

func (r *Users) FindUserByEmail(ctx context.Context, email string) (clinic.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, nombre, apellido, rol, password_hash
		FROM usuarios
		WHERE email = $1
	`, strings.ToLower(email))
	return scanUser(row)
}

func (r *Users) CreateUser(ctx context.Context, u clinic.User) (clinic.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO usuarios (email, nombre, apellido, rol, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, email, nombre, apellido, rol, password_hash
	`, strings.ToLower(u.Email), u.FirstName, u.LastName, u.Role, u.PasswordHash)

	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return clinic.User{}, clinic.ErrEmailTaken
		}
		return clinic.User{}, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/hackgods/clinic-admin/internal/clinic"
)

// UserStore is the account lookup the local authenticator needs.
type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (clinic.User, error)
	CreateUser(ctx context.Context, u clinic.User) (clinic.User, error)
}

func HashPassword(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

// Local authenticates against a UserStore and issues tokens itself. It backs
// both the stand-in REST backend and the in-memory CLI mode.
type Local struct {
	users  UserStore
	issuer *Issuer
}

func NewLocal(users UserStore, issuer *Issuer) *Local {
	return &Local{users: users, issuer: issuer}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (l *Local) Login(ctx context.Context, creds clinic.Credentials) (clinic.LoginResult, error) {
	user, err := l.users.FindUserByEmail(ctx, normalizeEmail(creds.Email))
	if err != nil {
		if errors.Is(err, clinic.ErrNotFound) {
			return clinic.LoginResult{}, clinic.ErrInvalidCredentials
		}
		return clinic.LoginResult{}, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(creds.Password)); err != nil {
		return clinic.LoginResult{}, clinic.ErrInvalidCredentials
	}

	return l.issuer.Issue(user.Identity)
}

func (l *Local) Register(ctx context.Context, req clinic.RegisterRequest) (clinic.Identity, error) {
	if err := req.Validate(); err != nil {
		return clinic.Identity{}, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return clinic.Identity{}, err
	}

	role := req.Role
	if role == "" {
		role = "recepcionista"
	}

	user, err := l.users.CreateUser(ctx, clinic.User{
		Identity: clinic.Identity{
			Email:     normalizeEmail(req.Email),
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Role:      role,
		},
		PasswordHash: hash,
	})
	if err != nil {
		return clinic.Identity{}, err
	}
	return user.Identity, nil
}

// Logout has nothing to release for locally issued tokens; the REST backend
// revokes the presented token itself.
func (l *Local) Logout(ctx context.Context) error {
	return nil
}

package memstore

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/hackgods/clinic-admin/internal/auth"
	"github.com/hackgods/clinic-admin/internal/clinic"
	"github.com/hackgods/clinic-admin/internal/fixtures"
)

type Store struct {
	Patients     *Collection[clinic.Patient]
	Doctors      *Collection[clinic.Doctor]
	Appointments *Collection[clinic.Appointment]
	Users        *Users
}

// New returns an empty store.
func New() *Store {
	return &Store{
		Patients:     NewCollection[clinic.Patient](nil),
		Doctors:      NewCollection[clinic.Doctor](nil),
		Appointments: NewCollection[clinic.Appointment](nil),
		Users:        NewUsers(),
	}
}

// NewSeeded returns a store loaded with the demo fixtures, including the
// demo accounts.
func NewSeeded() (*Store, error) {
	s := &Store{
		Patients:     NewCollection(fixtures.Patients()),
		Doctors:      NewCollection(fixtures.Doctors()),
		Appointments: NewCollection(fixtures.Appointments()),
		Users:        NewUsers(),
	}

	for _, u := range fixtures.Users() {
		hash, err := auth.HashPassword(u.Password)
		if err != nil {
			return nil, err
		}
		if _, err := s.Users.CreateUser(context.Background(), clinic.User{Identity: u.Identity, PasswordHash: hash}); err != nil {
			return nil, fmt.Errorf("seed user %s: %w", u.Email, err)
		}
	}
	return s, nil
}

// AddFake appends n generated patients, doctors and appointments.
func (s *Store) AddFake(ctx context.Context, f *fixtures.Faker, n int) error {
	if n <= 0 {
		return nil
	}

	var patientIDs, doctorIDs []int64
	for i := 0; i < n; i++ {
		p, err := s.Patients.Create(ctx, f.Patient())
		if err != nil {
			return err
		}
		patientIDs = append(patientIDs, p.ID)

		d, err := s.Doctors.Create(ctx, f.Doctor())
		if err != nil {
			return err
		}
		doctorIDs = append(doctorIDs, d.ID)
	}
	for i := 0; i < n; i++ {
		if _, err := s.Appointments.Create(ctx, f.Appointment(patientIDs, doctorIDs)); err != nil {
			return err
		}
	}
	return nil
}

// Users holds accounts keyed by lower-cased email.
type Users struct {
	mu      sync.RWMutex
	byEmail map[string]clinic.User
	nextID  int64
}

func NewUsers() *Users {
	return &Users{byEmail: make(map[string]clinic.User), nextID: 1}
}

var _ auth.UserStore = (*Users)(nil)

func (u *Users) FindUserByEmail(ctx context.Context, email string) (clinic.User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	user, ok := u.byEmail[strings.ToLower(email)]
	if !ok {
		return clinic.User{}, clinic.ErrNotFound
	}
	return user, nil
}

func (u *Users) CreateUser(ctx context.Context, user clinic.User) (clinic.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := u.byEmail[key]; exists {
		return clinic.User{}, clinic.ErrEmailTaken
	}

	if user.ID == 0 {
		user.ID = u.nextID
	}
	if user.ID >= u.nextID {
		u.nextID = user.ID + 1
	}
	user.Email = key
	u.byEmail[key] = user
	return user, nil
}

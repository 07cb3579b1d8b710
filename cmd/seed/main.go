package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"github.com/hackgods/clinic-admin/internal/auth"
	"github.com/hackgods/clinic-admin/internal/clinic"
	"github.com/hackgods/clinic-admin/internal/config"
	"github.com/hackgods/clinic-admin/internal/db"
	"github.com/hackgods/clinic-admin/internal/fixtures"
	"github.com/hackgods/clinic-admin/internal/pgstore"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	fake := flag.Int("fake", 0, "number of generated patients, doctors and appointments to add")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "gofakeit seed")
	flag.Parse()

	log.Println("seed starting")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	if cfg.PostgresDSN == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN, db.PoolOptions{AppName: "clinic-admin-seed"})
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if err := pgstore.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("%v", err)
	}
	store := pgstore.New(pool)

	if err := seedUsers(ctx, store.Users); err != nil {
		log.Fatalf("seed users: %v", err)
	}
	if err := seedFixtures(ctx, store); err != nil {
		log.Fatalf("seed fixtures: %v", err)
	}
	if err := seedFake(ctx, store, fixtures.NewFaker(*seed), *fake); err != nil {
		log.Fatalf("seed fake records: %v", err)
	}

	log.Println("seed complete")
}

func seedUsers(ctx context.Context, users *pgstore.Users) error {
	for _, u := range fixtures.Users() {
		hash, err := auth.HashPassword(u.Password)
		if err != nil {
			return err
		}
		id := u.Identity
		id.ID = 0
		_, err = users.CreateUser(ctx, clinic.User{Identity: id, PasswordHash: hash})
		if errors.Is(err, clinic.ErrEmailTaken) {
			log.Printf("user exists, skipping: email=%s", u.Email)
			continue
		}
		if err != nil {
			return err
		}
		log.Printf("user created: email=%s role=%s", u.Email, u.Role)
	}
	return nil
}

// seedFixtures inserts the demo records, remapping the fixture ids onto the
// ids the database assigns.
func seedFixtures(ctx context.Context, store *pgstore.Store) error {
	patientIDs := make(map[int64]int64)
	for _, p := range fixtures.Patients() {
		created, err := store.Patients.Create(ctx, p)
		if err != nil {
			return err
		}
		patientIDs[p.ID] = created.ID
	}

	doctorIDs := make(map[int64]int64)
	for _, d := range fixtures.Doctors() {
		created, err := store.Doctors.Create(ctx, d)
		if err != nil {
			return err
		}
		doctorIDs[d.ID] = created.ID
	}

	for _, a := range fixtures.Appointments() {
		a.PatientID = patientIDs[a.PatientID]
		a.DoctorID = doctorIDs[a.DoctorID]
		if _, err := store.Appointments.Create(ctx, a); err != nil {
			return err
		}
	}

	log.Printf("fixtures seeded: patients=%d doctors=%d appointments=%d",
		len(patientIDs), len(doctorIDs), len(fixtures.Appointments()))
	return nil
}

func seedFake(ctx context.Context, store *pgstore.Store, f *fixtures.Faker, n int) error {
	if n <= 0 {
		return nil
	}
	log.Printf("seeding %d fake records per collection", n)

	var patientIDs, doctorIDs []int64
	for i := 0; i < n; i++ {
		p, err := store.Patients.Create(ctx, f.Patient())
		if err != nil {
			return err
		}
		patientIDs = append(patientIDs, p.ID)

		d, err := store.Doctors.Create(ctx, f.Doctor())
		if err != nil {
			return err
		}
		doctorIDs = append(doctorIDs, d.ID)
	}

	for i := 0; i < n; i++ {
		if _, err := store.Appointments.Create(ctx, f.Appointment(patientIDs, doctorIDs)); err != nil {
			return err
		}
	}
	return nil
}

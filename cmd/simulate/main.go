// Command simulate drives the REST backend with concurrent workers that
// book, update and read appointments, then prints per-operation latency.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/hackgods/clinic-admin/internal/backend"
	"github.com/hackgods/clinic-admin/internal/clinic"
	"github.com/hackgods/clinic-admin/internal/config"
	"github.com/hackgods/clinic-admin/internal/fixtures"
)

type SimConfig struct {
	APIBaseURL  string
	Email       string
	Password    string
	Duration    time.Duration
	Workers     int
	CreateRatio float64
	UpdateRatio float64
	ReadRatio   float64
	Timeout     time.Duration
}

// DataPool holds the ids the workers pick from. Appointments grow as
// workers create them.
type DataPool struct {
	Patients []int64
	Doctors  []int64

	mu           sync.RWMutex
	appointments []int64
}

func (dp *DataPool) AddAppointment(id int64) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.appointments = append(dp.appointments, id)
}

func (dp *DataPool) RandomAppointment(rng *rand.Rand) (int64, bool) {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	if len(dp.appointments) == 0 {
		return 0, false
	}
	return dp.appointments[rng.Intn(len(dp.appointments))], true
}

type staticToken string

func (t staticToken) Token(ctx context.Context) (string, error) { return string(t), nil }

type Simulator struct {
	config  SimConfig
	pool    *DataPool
	client  *backend.Client
	metrics Metrics
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("simulator starting")

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	log.Printf("config: duration=%s workers=%d create=%.2f update=%.2f read=%.2f",
		cfg.Duration, cfg.Workers, cfg.CreateRatio, cfg.UpdateRatio, cfg.ReadRatio)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	anon := backend.NewClient(cfg.APIBaseURL, cfg.Timeout, nil)
	session, err := anon.Login(ctx, clinic.Credentials{Email: cfg.Email, Password: cfg.Password})
	if err != nil {
		log.Fatalf("login as %s: %v", cfg.Email, err)
	}
	client := backend.NewClient(cfg.APIBaseURL, cfg.Timeout, staticToken(session.Token))

	pool, err := loadDataPool(ctx, client)
	if err != nil {
		log.Fatalf("load data pool: %v", err)
	}
	log.Printf("loaded: %d patients, %d doctors", len(pool.Patients), len(pool.Doctors))

	sim := &Simulator{config: cfg, pool: pool, client: client}
	sim.Run()
	sim.metrics.Report(os.Stdout, cfg)
}

func loadConfig() (SimConfig, error) {
	base, err := config.Load()
	if err != nil {
		return SimConfig{}, err
	}

	cfg := SimConfig{
		APIBaseURL:  getEnv("SIM_API_BASE_URL", base.APIBaseURL),
		Email:       getEnv("SIM_EMAIL", "admin@clinica.com"),
		Password:    getEnv("SIM_PASSWORD", "admin123"),
		Duration:    getDuration("SIM_DURATION", 30*time.Second),
		Workers:     getInt("SIM_WORKERS", 10),
		CreateRatio: getFloat("SIM_CREATE_RATIO", 0.3),
		UpdateRatio: getFloat("SIM_UPDATE_RATIO", 0.2),
		ReadRatio:   getFloat("SIM_READ_RATIO", 0.5),
		Timeout:     base.RequestTimeout,
	}

	total := cfg.CreateRatio + cfg.UpdateRatio + cfg.ReadRatio
	if total > 0 {
		cfg.CreateRatio /= total
		cfg.UpdateRatio /= total
		cfg.ReadRatio /= total
	}

	if cfg.Workers <= 0 {
		return SimConfig{}, errors.New("SIM_WORKERS must be > 0")
	}
	if cfg.Duration <= 0 {
		return SimConfig{}, errors.New("SIM_DURATION must be > 0")
	}
	return cfg, nil
}

func loadDataPool(ctx context.Context, client *backend.Client) (*DataPool, error) {
	pool := &DataPool{}

	patients, err := client.Patients().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load patients: %w", err)
	}
	for _, p := range patients {
		pool.Patients = append(pool.Patients, p.ID)
	}

	doctors, err := client.Doctors().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load doctors: %w", err)
	}
	for _, d := range doctors {
		pool.Doctors = append(pool.Doctors, d.ID)
	}

	appointments, err := client.Appointments().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}
	for _, a := range appointments {
		pool.AddAppointment(a.ID)
	}

	if len(pool.Patients) == 0 || len(pool.Doctors) == 0 {
		return nil, errors.New("backend has no patients or doctors to book against")
	}
	return pool, nil
}

func (s *Simulator) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Duration)
	defer cancel()

	log.Printf("starting simulation for %s with %d workers", s.config.Duration, s.config.Workers)

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, workerID)
		}(i)
	}

	wg.Wait()
	log.Println("simulation complete")
}

func (s *Simulator) worker(ctx context.Context, workerID int) {
	seed := time.Now().UnixNano() + int64(workerID)
	rng := rand.New(rand.NewSource(seed))
	faker := fixtures.NewFaker(uint64(seed))

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		r := rng.Float64()
		switch {
		case r < s.config.CreateRatio:
			s.doCreate(ctx, faker)
		case r < s.config.CreateRatio+s.config.UpdateRatio:
			s.doUpdate(ctx, rng)
		case rng.Intn(2) == 0:
			s.doGet(ctx, rng)
		default:
			s.doList(ctx)
		}
	}
}

// outcome sorts an error into success, a backend refusal or a failure.
// Calls cut short by the end of the run are not counted.
func outcome(ctx context.Context, err error) (success, rejected, skip bool) {
	if err == nil {
		return true, false, false
	}
	if ctx.Err() != nil {
		return false, false, true
	}
	var berr *backend.Error
	if errors.As(err, &berr) && berr.StatusCode >= 400 && berr.StatusCode < 500 {
		return false, true, false
	}
	return false, false, false
}

func (s *Simulator) record(ctx context.Context, om *OperationMetrics, start time.Time, err error) {
	success, rejected, skip := outcome(ctx, err)
	if skip {
		return
	}
	om.Record(time.Since(start), success, rejected)
}

func (s *Simulator) doCreate(ctx context.Context, faker *fixtures.Faker) {
	appt := faker.Appointment(s.pool.Patients, s.pool.Doctors).Normalize()
	appt.Code = ""

	start := time.Now()
	created, err := s.client.Appointments().Create(ctx, appt)
	s.record(ctx, &s.metrics.Create, start, err)
	if err == nil {
		s.pool.AddAppointment(created.ID)
	}
}

func (s *Simulator) doUpdate(ctx context.Context, rng *rand.Rand) {
	id, ok := s.pool.RandomAppointment(rng)
	if !ok {
		return
	}

	start := time.Now()
	appt, err := s.client.Appointments().Get(ctx, id)
	if err == nil {
		appt.Status = clinic.Statuses[rng.Intn(len(clinic.Statuses))]
		_, err = s.client.Appointments().Update(ctx, id, appt.WithoutRefs())
	}
	s.record(ctx, &s.metrics.Update, start, err)
}

func (s *Simulator) doGet(ctx context.Context, rng *rand.Rand) {
	id, ok := s.pool.RandomAppointment(rng)
	if !ok {
		return
	}

	start := time.Now()
	_, err := s.client.Appointments().Get(ctx, id)
	s.record(ctx, &s.metrics.Get, start, err)
}

func (s *Simulator) doList(ctx context.Context) {
	start := time.Now()
	_, err := s.client.Appointments().List(ctx)
	s.record(ctx, &s.metrics.List, start, err)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

// Command clinic-admin is the clinic's administration front end: sign in,
// then list, search, create, edit and delete patients, doctors and
// appointments.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hackgods/clinic-admin/internal/auth"
	"github.com/hackgods/clinic-admin/internal/backend"
	"github.com/hackgods/clinic-admin/internal/clinic"
	"github.com/hackgods/clinic-admin/internal/config"
	"github.com/hackgods/clinic-admin/internal/fixtures"
	"github.com/hackgods/clinic-admin/internal/memstore"
	redisclient "github.com/hackgods/clinic-admin/internal/redis"
	"github.com/hackgods/clinic-admin/internal/session"
)

const usage = `usage: clinic-admin <command> [flags]

commands:
  login -email E -password P   start a session
  logout                       end the session
  whoami                       show the signed-in user
  patients <action>            list | create | update | delete
  doctors <action>             list | create | update | delete
  appointments <action>        list | create | update | delete

run "clinic-admin <resource> <action> -h" for the flags of an action.
`

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.SetOutput(os.Stderr)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	if cfg.Env != "dev" {
		log.SetOutput(io.Discard)
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(rootCtx, cfg.RequestTimeout)
	defer cancel()

	app, err := newApp(ctx, cfg, os.Stdin, os.Stdout)
	if err != nil {
		log.Fatalf("startup error: %v", err)
	}
	defer func() {
		if err := app.session.Close(); err != nil {
			log.Printf("close session storage: %v", err)
		}
	}()

	if err := app.run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// backendSet is what a command needs from whichever backend is configured.
type backendSet struct {
	auth         session.Authenticator
	patients     clinic.Resource[clinic.Patient]
	doctors      clinic.Resource[clinic.Doctor]
	appointments clinic.Resource[clinic.Appointment]
}

func newApp(ctx context.Context, cfg config.Config, in io.Reader, out io.Writer) (*app, error) {
	storage, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var b backendSet
	switch cfg.Mode {
	case config.ModeMock:
		b, err = mockBackend(ctx, cfg)
		if err != nil {
			_ = storage.Close()
			return nil, err
		}
	default:
		client := backend.NewClient(cfg.APIBaseURL, cfg.RequestTimeout, session.StorageTokens{Storage: storage})
		b = backendSet{
			auth:         client,
			patients:     client.Patients(),
			doctors:      client.Doctors(),
			appointments: client.Appointments(),
		}
	}

	store := session.NewStore(storage, b.auth)
	if err := store.Init(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("restore session: %w", err)
	}

	return &app{session: store, backend: b, in: in, out: out}, nil
}

func openStorage(ctx context.Context, cfg config.Config) (session.Storage, error) {
	switch cfg.SessionStore {
	case config.SessionStoreMemory:
		return session.NewMemoryStorage(), nil
	case config.SessionStoreRedis:
		rdb, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}
		return session.NewRedisStorage(rdb, cfg.Env, cfg.SessionTTL), nil
	default:
		return session.NewFileStorage(cfg.SessionFile)
	}
}

// mockBackend serves everything from the seeded in-memory store. Changes
// last only as long as the process.
func mockBackend(ctx context.Context, cfg config.Config) (backendSet, error) {
	store, err := memstore.NewSeeded()
	if err != nil {
		return backendSet{}, err
	}
	if cfg.FakeRecords > 0 {
		if err := store.AddFake(ctx, fixtures.NewFaker(uint64(time.Now().UnixNano())), cfg.FakeRecords); err != nil {
			return backendSet{}, err
		}
	}

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL, cfg.RefreshTTL)
	return backendSet{
		auth:         auth.NewLocal(store.Users, issuer),
		patients:     store.Patients,
		doctors:      store.Doctors,
		appointments: store.Appointments,
	}, nil
}

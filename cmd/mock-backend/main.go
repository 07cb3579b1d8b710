package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/hackgods/clinic-admin/internal/api"
	"github.com/hackgods/clinic-admin/internal/auth"
	"github.com/hackgods/clinic-admin/internal/config"
	"github.com/hackgods/clinic-admin/internal/db"
	"github.com/hackgods/clinic-admin/internal/fixtures"
	"github.com/hackgods/clinic-admin/internal/memstore"
	"github.com/hackgods/clinic-admin/internal/pgstore"
	redisclient "github.com/hackgods/clinic-admin/internal/redis"
)

const version = "0.3.0"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("mock-backend starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Printf("running in env=%s http_port=%s", cfg.Env, cfg.HTTPPort)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL, cfg.RefreshTTL)
	routerCfg := api.RouterConfig{
		Issuer:         issuer,
		AllowedOrigins: cfg.AllowedOrigins,
		Env:            cfg.Env,
		Version:        version,
	}

	var pgPool *pgxpool.Pool
	if cfg.PostgresDSN != "" {
		pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
		pgPool, err = db.ConnectPostgres(pgCtx, cfg.PostgresDSN, db.PoolOptions{AppName: "clinic-admin-backend"})
		if err == nil {
			err = pgstore.EnsureSchema(pgCtx, pgPool)
		}
		cancelPg()
		if err != nil {
			log.Fatalf("postgres connection error: %v", err)
		}
		defer pgPool.Close()
		log.Println("connected to Postgres")

		store := pgstore.New(pgPool)
		routerCfg.Patients = store.Patients
		routerCfg.Doctors = store.Doctors
		routerCfg.Appointments = store.Appointments
		routerCfg.Auth = auth.NewLocal(store.Users, issuer)
		routerCfg.PgPool = pgPool
	} else {
		store, err := memstore.NewSeeded()
		if err != nil {
			log.Fatalf("seed memory store: %v", err)
		}
		if cfg.FakeRecords > 0 {
			if err := store.AddFake(rootCtx, fixtures.NewFaker(uint64(time.Now().UnixNano())), cfg.FakeRecords); err != nil {
				log.Fatalf("generate fake records: %v", err)
			}
		}
		log.Printf("using memory store: patients=%d doctors=%d appointments=%d",
			store.Patients.Len(), store.Doctors.Len(), store.Appointments.Len())

		routerCfg.Patients = store.Patients
		routerCfg.Doctors = store.Doctors
		routerCfg.Appointments = store.Appointments
		routerCfg.Auth = auth.NewLocal(store.Users, issuer)
	}

	// redis is only probed for readiness here; a missing server is not fatal
	if cfg.SessionStore == config.SessionStoreRedis {
		var rdb *redis.Client
		rdb, err = redisclient.NewRedisClient(rootCtx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
		if err != nil {
			log.Printf("redis unavailable: %v", err)
		} else {
			defer func() {
				if err := rdb.Close(); err != nil {
					log.Printf("error closing redis: %v", err)
				}
			}()
			routerCfg.Redis = rdb
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.NewRouter(routerCfg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-rootCtx.Done()
	log.Println("shutting down mock-backend")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

// Package api is the REST backend the admin client talks to. It serves the
// /auth and collection routes under /api with the success/data/message
// envelope.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/hackgods/clinic-admin/internal/auth"
	"github.com/hackgods/clinic-admin/internal/backend"
	"github.com/hackgods/clinic-admin/internal/clinic"
)

type RouterConfig struct {
	Patients     clinic.Resource[clinic.Patient]
	Doctors      clinic.Resource[clinic.Doctor]
	Appointments clinic.Resource[clinic.Appointment]

	Auth   *auth.Local
	Issuer *auth.Issuer

	// optional, only used for readiness
	PgPool *pgxpool.Pool
	Redis  *redis.Client

	AllowedOrigins []string
	Env            string
	Version        string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware(cfg.AllowedOrigins))

	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	refs := appointmentRefs{patients: cfg.Patients, doctors: cfg.Doctors}
	patients := &resourceHandler[clinic.Patient]{res: cfg.Patients}
	doctors := &resourceHandler[clinic.Doctor]{res: cfg.Doctors}
	appointments := &resourceHandler[clinic.Appointment]{
		res:      cfg.Appointments,
		prepare:  func(a clinic.Appointment) clinic.Appointment { return a.Normalize().WithoutRefs() },
		check:    refs.check,
		decorate: refs.decorate,
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", loginHandler(cfg.Auth))
		r.Post("/auth/register", registerHandler(cfg.Auth))

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(cfg.Issuer))

			r.Post("/auth/logout", logoutHandler(cfg.Issuer))
			r.Get("/auth/me", meHandler)

			r.Route("/"+backend.ResourcePatients, patients.routes)
			r.Route("/"+backend.ResourceDoctors, doctors.routes)
			r.Route("/"+backend.ResourceAppointments, appointments.routes)
		})
	})

	return r
}

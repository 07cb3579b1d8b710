package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hackgods/clinic-admin/internal/auth"
	"github.com/hackgods/clinic-admin/internal/backend"
	"github.com/hackgods/clinic-admin/internal/clinic"
	"github.com/hackgods/clinic-admin/internal/listview"
	"github.com/hackgods/clinic-admin/internal/memstore"
)

type staticToken string

func (s *staticToken) Token(ctx context.Context) (string, error) {
	return string(*s), nil
}

func newTestServer(t *testing.T) (*httptest.Server, *staticToken) {
	t.Helper()
	store, err := memstore.NewSeeded()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	issuer := auth.NewIssuer("test-secret", time.Hour, 24*time.Hour)

	srv := httptest.NewServer(NewRouter(RouterConfig{
		Patients:       store.Patients,
		Doctors:        store.Doctors,
		Appointments:   store.Appointments,
		Auth:           auth.NewLocal(store.Users, issuer),
		Issuer:         issuer,
		AllowedOrigins: []string{"http://localhost:3000"},
		Env:            "test",
	}))
	t.Cleanup(srv.Close)

	return srv, new(staticToken)
}

func login(t *testing.T, client *backend.Client, token *staticToken) clinic.LoginResult {
	t.Helper()
	res, err := client.Login(context.Background(), clinic.Credentials{Email: "admin@clinica.com", Password: "admin123"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	*token = staticToken(res.Token)
	return res
}

func TestRouter_LoginAndCreatePatient(t *testing.T) {
	srv, token := newTestServer(t)
	client := backend.NewClient(srv.URL+"/api", 5*time.Second, token)
	ctx := context.Background()

	res := login(t, client, token)
	if res.User.Email != "admin@clinica.com" || res.User.Role != "administrador" {
		t.Errorf("Unexpected user: %+v", res.User)
	}

	created, err := client.Patients().Create(ctx, clinic.Patient{
		NationalID: "0911111111", FirstName: "Lucía", LastName: "Paredes", Email: "lucia@example.com",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if created.ID != 5 {
		t.Errorf("Expected ID 5, got %d", created.ID)
	}

	list, err := client.Patients().List(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	count := 0
	for _, p := range list {
		if p.ID == created.ID {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Expected new patient exactly once, got %d", count)
	}
}

func TestRouter_RequiresToken(t *testing.T) {
	srv, token := newTestServer(t)
	client := backend.NewClient(srv.URL+"/api", 5*time.Second, token)

	_, err := client.Doctors().List(context.Background())
	if !errors.Is(err, clinic.ErrUnauthorized) {
		t.Errorf("Expected unauthorized, got: %v", err)
	}
}

func TestRouter_InvalidLogin(t *testing.T) {
	srv, token := newTestServer(t)
	client := backend.NewClient(srv.URL+"/api", 5*time.Second, token)

	_, err := client.Login(context.Background(), clinic.Credentials{Email: "admin@clinica.com", Password: "nope"})
	if !errors.Is(err, clinic.ErrInvalidCredentials) {
		t.Errorf("Expected invalid credentials, got: %v", err)
	}
}

func TestRouter_LogoutRevokesToken(t *testing.T) {
	srv, token := newTestServer(t)
	client := backend.NewClient(srv.URL+"/api", 5*time.Second, token)
	ctx := context.Background()
	login(t, client, token)

	if err := client.Logout(ctx); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if _, err := client.Patients().List(ctx); !errors.Is(err, clinic.ErrUnauthorized) {
		t.Errorf("Expected revoked token to be rejected, got: %v", err)
	}
}

func TestRouter_Appointments(t *testing.T) {
	srv, token := newTestServer(t)
	client := backend.NewClient(srv.URL+"/api", 5*time.Second, token)
	ctx := context.Background()
	login(t, client, token)

	list, err := client.Appointments().List(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(list) != 5 {
		t.Fatalf("Expected 5 appointments, got %d", len(list))
	}
	if list[0].Patient == nil || list[0].Patient.FirstName != "Ana María" {
		t.Errorf("Expected embedded patient, got %+v", list[0].Patient)
	}
	if list[1].Doctor == nil || list[1].Doctor.Specialty != "Pediatría" {
		t.Errorf("Expected embedded doctor, got %+v", list[1].Doctor)
	}

	t.Run("missing patient rejected", func(t *testing.T) {
		_, err := client.Appointments().Create(ctx, clinic.Appointment{
			PatientID: 99, DoctorID: 1, Date: "2025-09-10", Time: "08:30", Reason: "Control",
		})
		var berr *backend.Error
		if !errors.As(err, &berr) || berr.StatusCode != http.StatusBadRequest {
			t.Fatalf("Expected 400, got: %v", err)
		}
		if !strings.Contains(berr.Message, "paciente_id") {
			t.Errorf("Expected message to name paciente_id, got %q", berr.Message)
		}
	})

	t.Run("defaults applied", func(t *testing.T) {
		created, err := client.Appointments().Create(ctx, clinic.Appointment{
			PatientID: 2, DoctorID: 1, Date: "2025-09-10", Time: "08:30", Reason: "Control",
		})
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if created.Status != clinic.StatusScheduled {
			t.Errorf("Expected status %s, got %s", clinic.StatusScheduled, created.Status)
		}
	})

	t.Run("update and delete", func(t *testing.T) {
		a := list[2]
		a.Status = clinic.StatusCompleted
		a.Patient, a.Doctor = nil, nil
		updated, err := client.Appointments().Update(ctx, a.ID, a)
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if updated.Status != clinic.StatusCompleted {
			t.Errorf("Expected status completada, got %s", updated.Status)
		}

		if err := client.Appointments().Delete(ctx, a.ID); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if _, err := client.Appointments().Get(ctx, a.ID); !errors.Is(err, clinic.ErrNotFound) {
			t.Errorf("Expected not found, got: %v", err)
		}
	})
}

func TestRouter_UpdateIgnoresStaleEmbeddedNames(t *testing.T) {
	srv, token := newTestServer(t)
	client := backend.NewClient(srv.URL+"/api", 5*time.Second, token)
	ctx := context.Background()
	login(t, client, token)

	a, err := client.Appointments().Get(ctx, 1)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if a.Patient == nil || a.Patient.FirstName != "Ana María" {
		t.Fatalf("Expected embedded patient on get, got %+v", a.Patient)
	}

	// the client sends back the names it loaded with the new ids
	a.PatientID, a.DoctorID = 2, 3
	updated, err := client.Appointments().Update(ctx, a.ID, a)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if updated.Patient == nil || updated.Patient.FirstName != "Carlos Eduardo" {
		t.Errorf("Expected patient 2 on update response, got %+v", updated.Patient)
	}

	list, err := client.Appointments().List(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	got := list[0]
	if got.Patient == nil || got.Patient.FirstName != "Carlos Eduardo" {
		t.Errorf("Expected patient 2 after reload, got %+v", got.Patient)
	}
	if got.Doctor == nil || got.Doctor.LastName != "Castro" {
		t.Errorf("Expected doctor 3 after reload, got %+v", got.Doctor)
	}
}

func TestAppointmentsView_RepointOverHTTP(t *testing.T) {
	srv, token := newTestServer(t)
	client := backend.NewClient(srv.URL+"/api", 5*time.Second, token)
	ctx := context.Background()
	login(t, client, token)

	v := listview.NewAppointmentsView(client.Appointments(), client.Patients(), client.Doctors())
	if err := v.Load(ctx); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	a, ok := v.Appointments.Find(1)
	if !ok {
		t.Fatal("Expected appointment 1")
	}
	if name := v.Joiner().PatientName(a); name != "Ana María González" {
		t.Fatalf("Unexpected patient before update: %q", name)
	}

	a.PatientID = 2
	if _, err := v.Update(ctx, a.ID, a); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if err := v.Load(ctx); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	a, _ = v.Appointments.Find(1)
	if name := v.Joiner().PatientName(a); name != "Carlos Eduardo Ramírez" {
		t.Errorf("Expected the new patient's name, got %q", name)
	}
}

func TestRouter_Register(t *testing.T) {
	srv, token := newTestServer(t)
	client := backend.NewClient(srv.URL+"/api", 5*time.Second, token)
	ctx := context.Background()

	req := clinic.RegisterRequest{Email: "nuevo@clinica.com", Password: "secreto1", FirstName: "Nuevo", LastName: "Usuario"}
	id, err := client.Register(ctx, req)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if id.Role != "recepcionista" {
		t.Errorf("Expected default role, got %q", id.Role)
	}

	var berr *backend.Error
	if _, err := client.Register(ctx, req); !errors.As(err, &berr) || berr.StatusCode != http.StatusConflict {
		t.Errorf("Expected 409 for duplicate email, got: %v", err)
	}
}

func TestHealthAndCORS(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health/ready")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	defer resp.Body.Close()

	var body ReadinessResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if resp.StatusCode != http.StatusOK || body.Status != "ok" || body.Storage != "memory" {
		t.Errorf("Unexpected readiness: %d %+v", resp.StatusCode, body)
	}

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/patients", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	pre, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	pre.Body.Close()
	if pre.StatusCode != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", pre.StatusCode)
	}
	if got := pre.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Expected allowed origin echoed, got %q", got)
	}
}

package listview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/hackgods/clinic-admin/internal/clinic"
	"github.com/hackgods/clinic-admin/internal/fixtures"
	"github.com/hackgods/clinic-admin/internal/memstore"
)

type mockResource[T any] struct {
	ListFunc   func(ctx context.Context) ([]T, error)
	CreateFunc func(ctx context.Context, rec T) (T, error)
	UpdateFunc func(ctx context.Context, id int64, rec T) (T, error)
	DeleteFunc func(ctx context.Context, id int64) error
}

func (m *mockResource[T]) List(ctx context.Context) ([]T, error) {
	return m.ListFunc(ctx)
}

func (m *mockResource[T]) Get(ctx context.Context, id int64) (T, error) {
	var zero T
	return zero, clinic.ErrNotFound
}

func (m *mockResource[T]) Create(ctx context.Context, rec T) (T, error) {
	return m.CreateFunc(ctx, rec)
}

func (m *mockResource[T]) Update(ctx context.Context, id int64, rec T) (T, error) {
	return m.UpdateFunc(ctx, id, rec)
}

func (m *mockResource[T]) Delete(ctx context.Context, id int64) error {
	return m.DeleteFunc(ctx, id)
}

func seededAppointments(t *testing.T) *AppointmentsView {
	t.Helper()
	store, err := memstore.NewSeeded()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	v := NewAppointmentsView(store.Appointments, store.Patients, store.Doctors)
	if err := v.Load(context.Background()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	return v
}

func TestFilter_EmptyQueryKeepsEverythingInOrder(t *testing.T) {
	items := fixtures.Patients()
	got := Filter(items, Query{}, projectPatient)

	if len(got) != len(items) {
		t.Fatalf("Expected %d rows, got %d", len(items), len(got))
	}
	for i := range items {
		if got[i].ID != items[i].ID {
			t.Errorf("Expected ID %d at %d, got %d", items[i].ID, i, got[i].ID)
		}
	}
}

func TestFilter_ResultIsOrderedSubset(t *testing.T) {
	items := fixtures.Doctors()
	queries := []Query{
		{Search: "DRA."},
		{Search: "logía"},
		{Status: DoctorUnavailable},
		{Search: "dr", Status: DoctorAvailable},
		{Search: "nobody"},
	}

	for _, q := range queries {
		t.Run(fmt.Sprintf("%q/%q", q.Search, q.Status), func(t *testing.T) {
			got := Filter(items, q, projectDoctor)
			next := 0
			for _, d := range got {
				for next < len(items) && items[next].ID != d.ID {
					next++
				}
				if next == len(items) {
					t.Fatalf("Expected %d to be an in-order member of the input", d.ID)
				}
				fields, status := projectDoctor(d)
				if q.Status != "" && status != q.Status {
					t.Errorf("Expected status %q, got %q", q.Status, status)
				}
				if q.Search != "" && !containsAny(fields, strings.ToLower(q.Search)) {
					t.Errorf("Expected %v to contain %q", fields, q.Search)
				}
			}
		})
	}
}

func TestPatientsFilter(t *testing.T) {
	v := NewPatientsView(memstore.NewCollection(fixtures.Patients()))
	if err := v.Load(context.Background()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	tests := []struct {
		name string
		q    Query
		want []int64
	}{
		{"by cedula", Query{Search: "1703"}, []int64{2}},
		{"case insensitive", Query{Search: "TORRES"}, []int64{3}},
		{"by email", Query{Search: "example.com"}, []int64{1, 2, 3, 4}},
		{"status excludes all", Query{Status: "disponible"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.Filtered(tt.q)
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %d rows, got %d", len(tt.want), len(got))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("Expected ID %d, got %d", id, got[i].ID)
				}
			}
		})
	}
}

func TestPaginate(t *testing.T) {
	items := make([]int, 120)
	for i := range items {
		items[i] = i
	}

	page := Paginate(items)
	if len(page.Rows) != PageSize {
		t.Errorf("Expected %d rows, got %d", PageSize, len(page.Rows))
	}
	if page.Rows[0] != 0 || page.Rows[PageSize-1] != PageSize-1 {
		t.Errorf("Expected the first %d items in order", PageSize)
	}
	if !page.Truncated() {
		t.Error("Expected page to be truncated")
	}
	if want := "Showing the first 50 of 120 matches. Use the filters to narrow the search."; page.Banner() != want {
		t.Errorf("Expected banner %q, got %q", want, page.Banner())
	}

	small := Paginate(items[:50])
	if small.Truncated() || small.Banner() != "" {
		t.Errorf("Expected no truncation at exactly %d rows", PageSize)
	}
}

func TestJoiner(t *testing.T) {
	j := Joiner{Patients: fixtures.Patients(), Doctors: fixtures.Doctors()}

	tests := []struct {
		name        string
		appt        clinic.Appointment
		wantPatient string
		wantDoctor  string
	}{
		{
			name:        "lookup keeps existing title",
			appt:        clinic.Appointment{PatientID: 1, DoctorID: 2},
			wantPatient: "Ana María González",
			wantDoctor:  "Dra. Patricia Jiménez",
		},
		{
			name:        "embedded refs win",
			appt:        clinic.Appointment{PatientID: 1, DoctorID: 1, Patient: &clinic.PatientRef{FirstName: "Eva", LastName: "Luna"}, Doctor: &clinic.DoctorRef{FirstName: "Luis", LastName: "Paz"}},
			wantPatient: "Eva Luna",
			wantDoctor:  "Dr. Luis Paz",
		},
		{
			name:        "missing references",
			appt:        clinic.Appointment{PatientID: 99, DoctorID: 99},
			wantPatient: NotAvailable,
			wantDoctor:  NotAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := j.PatientName(tt.appt); got != tt.wantPatient {
				t.Errorf("Expected patient %q, got %q", tt.wantPatient, got)
			}
			if got := j.DoctorName(tt.appt); got != tt.wantDoctor {
				t.Errorf("Expected doctor %q, got %q", tt.wantDoctor, got)
			}
		})
	}
}

func TestAppointmentsView_FilterByJoinedName(t *testing.T) {
	v := seededAppointments(t)

	got := v.Filtered(Query{Search: "ana maría"})
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 5 {
		t.Fatalf("Expected appointments 1 and 5, got %+v", got)
	}

	got = v.Filtered(Query{Search: "ana maría", Status: string(clinic.StatusCancelled)})
	if len(got) != 1 || got[0].ID != 5 {
		t.Errorf("Expected appointment 5, got %+v", got)
	}
}

func TestAppointmentsView_LoadFailureKeepsState(t *testing.T) {
	store, err := memstore.NewSeeded()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	failing := &mockResource[clinic.Doctor]{
		ListFunc: func(ctx context.Context) ([]clinic.Doctor, error) {
			return nil, errors.New("connection refused")
		},
	}
	v := NewAppointmentsView(store.Appointments, store.Patients, failing)

	err = v.Load(context.Background())
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if v.Loading() {
		t.Error("Expected loading flag to be cleared")
	}
	if want := "error loading data: connection refused"; v.Banner() != want {
		t.Errorf("Expected banner %q, got %q", want, v.Banner())
	}
	if n := len(v.Appointments.Items()); n != 0 {
		t.Errorf("Expected no appointments after failed load, got %d", n)
	}

	v.DismissBanner()
	if v.Banner() != "" {
		t.Errorf("Expected empty banner, got %q", v.Banner())
	}
}

func TestAppointmentsView_CreateGeneratesCode(t *testing.T) {
	v := seededAppointments(t)
	v.now = func() time.Time { return time.UnixMilli(1724851234567) }

	created, err := v.Create(context.Background(), clinic.Appointment{
		PatientID: 2, DoctorID: 3, Date: "2025-09-10", Time: "08:30", Reason: "Revisión",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if created.Code != "CITA-234567" {
		t.Errorf("Expected code CITA-234567, got %s", created.Code)
	}
	if created.Status != clinic.StatusScheduled || created.Type != clinic.TypeConsultation {
		t.Errorf("Expected defaults, got %s/%s", created.Status, created.Type)
	}

	items := v.Appointments.Items()
	count := 0
	for _, a := range items {
		if a.ID == created.ID {
			count++
		}
	}
	if count != 1 || items[len(items)-1].ID != created.ID {
		t.Errorf("Expected the new appointment exactly once at the end, got %+v", items)
	}
}

func TestCollection_DeletePreservesOrder(t *testing.T) {
	v := seededAppointments(t)

	if err := v.Delete(context.Background(), 3); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	want := []int64{1, 2, 4, 5}
	got := v.Appointments.Items()
	if len(got) != len(want) {
		t.Fatalf("Expected %d rows, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("Expected ID %d at %d, got %d", id, i, got[i].ID)
		}
	}
}

func TestCollection_FailedMutationsLeaveListUnchanged(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	res := &mockResource[clinic.Patient]{
		ListFunc: func(ctx context.Context) ([]clinic.Patient, error) { return fixtures.Patients(), nil },
		CreateFunc: func(ctx context.Context, p clinic.Patient) (clinic.Patient, error) {
			return clinic.Patient{}, boom
		},
		UpdateFunc: func(ctx context.Context, id int64, p clinic.Patient) (clinic.Patient, error) {
			return clinic.Patient{}, boom
		},
		DeleteFunc: func(ctx context.Context, id int64) error { return boom },
	}
	v := NewPatientsView(res)
	if err := v.Load(ctx); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	before := v.Items()

	valid := clinic.Patient{FirstName: "Lucía", LastName: "Paredes", NationalID: "0911111111"}
	tests := []struct {
		name   string
		call   func() error
		banner string
	}{
		{"create", func() error { _, err := v.Create(ctx, valid); return err }, "error saving patients: boom"},
		{"update", func() error { _, err := v.Update(ctx, 1, valid); return err }, "error saving patients: boom"},
		{"delete", func() error { return v.Delete(ctx, 1) }, "error deleting patients: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, boom) {
				t.Fatalf("Expected boom, got: %v", err)
			}
			if v.Banner() != tt.banner {
				t.Errorf("Expected banner %q, got %q", tt.banner, v.Banner())
			}
			if v.Loading() {
				t.Error("Expected loading flag to be cleared")
			}
			after := v.Items()
			if len(after) != len(before) {
				t.Fatalf("Expected %d rows, got %d", len(before), len(after))
			}
			for i := range before {
				if after[i] != before[i] {
					t.Errorf("Expected row %d unchanged", i)
				}
			}
		})
	}
}

func TestCollection_InvalidRecordSkipsBackend(t *testing.T) {
	called := false
	res := &mockResource[clinic.Doctor]{
		CreateFunc: func(ctx context.Context, d clinic.Doctor) (clinic.Doctor, error) {
			called = true
			return d, nil
		},
	}
	v := NewDoctorsView(res)

	_, err := v.Create(context.Background(), clinic.Doctor{FirstName: "Ana"})
	var verr *clinic.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected validation error, got: %v", err)
	}
	if called {
		t.Error("Expected backend not to be called")
	}
	if v.Banner() != "" {
		t.Errorf("Expected no banner, got %q", v.Banner())
	}
}

func TestCollection_TimeoutBanner(t *testing.T) {
	res := &mockResource[clinic.Doctor]{
		ListFunc: func(ctx context.Context) ([]clinic.Doctor, error) {
			return nil, fmt.Errorf("list doctors: %w", context.DeadlineExceeded)
		},
	}
	v := NewDoctorsView(res)

	if err := v.Load(context.Background()); err == nil {
		t.Fatal("Expected error, got nil")
	}
	if want := "error loading doctors: request timed out"; v.Banner() != want {
		t.Errorf("Expected banner %q, got %q", want, v.Banner())
	}
}

func TestStats(t *testing.T) {
	ds := NewDoctorStats(fixtures.Doctors())
	if ds.Total != 4 || ds.Specialties != 4 || ds.Available != 3 {
		t.Errorf("Unexpected doctor stats: %+v", ds)
	}
	// (15+12+8+10)/4 = 11.25
	if ds.AvgExperience != 11 {
		t.Errorf("Expected average experience 11, got %d", ds.AvgExperience)
	}

	as := NewAppointmentStats(fixtures.Appointments())
	if as.ByStatus[clinic.StatusScheduled] != 3 || as.ByStatus[clinic.StatusCompleted] != 1 || as.ByStatus[clinic.StatusCancelled] != 1 {
		t.Errorf("Unexpected appointment stats: %+v", as.ByStatus)
	}

	ps := NewPatientStats(fixtures.Patients())
	if ps != (PatientStats{Total: 4, Male: 2, Female: 2, WithAllergies: 3}) {
		t.Errorf("Unexpected patient stats: %+v", ps)
	}

	noted := NewPatientStats([]clinic.Patient{
		{Gender: GenderFemale, Allergies: NoKnownAllergies},
		{Gender: "otro", Allergies: " "},
		{Gender: GenderMale, Allergies: "Polen"},
	})
	if noted != (PatientStats{Total: 3, Male: 1, Female: 1, WithAllergies: 1}) {
		t.Errorf("Unexpected patient stats: %+v", noted)
	}

	if empty := NewDoctorStats(nil); empty.AvgExperience != 0 {
		t.Errorf("Expected zero average for no doctors, got %d", empty.AvgExperience)
	}
}

func TestFormatWhen(t *testing.T) {
	if got := FormatWhen(clinic.Appointment{}); got != "Not scheduled" {
		t.Errorf("Expected Not scheduled, got %q", got)
	}
	if got := FormatWhen(clinic.Appointment{Date: "2025-08-28", Time: "09:00"}); got != "Thu, Aug 28 2025 09:00" {
		t.Errorf("Unexpected format: %q", got)
	}
}

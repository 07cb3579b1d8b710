package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hackgods/clinic-admin/internal/clinic"
)

// resourceHandler serves the CRUD routes of one collection.
type resourceHandler[T clinic.Record[T]] struct {
	res clinic.Resource[T]

	// prepare runs on incoming records before validation.
	prepare func(T) T
	// check runs after validation and may reject the record.
	check func(ctx context.Context, rec T) error
	// decorate runs on every outgoing record.
	decorate func(ctx context.Context, items []T) []T
}

func (h *resourceHandler[T]) one(ctx context.Context, rec T) T {
	if h.decorate == nil {
		return rec
	}
	return h.decorate(ctx, []T{rec})[0]
}

func (h *resourceHandler[T]) routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func (h *resourceHandler[T]) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.res.List(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	if h.decorate != nil {
		items = h.decorate(r.Context(), items)
	}
	writeSuccess(w, http.StatusOK, items, "")
}

func (h *resourceHandler[T]) get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	rec, err := h.res.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, h.one(r.Context(), rec), "")
}

func (h *resourceHandler[T]) accept(ctx context.Context, rec T) (T, error) {
	if h.prepare != nil {
		rec = h.prepare(rec)
	}
	if err := rec.Validate(); err != nil {
		return rec, err
	}
	if h.check != nil {
		if err := h.check(ctx, rec); err != nil {
			return rec, err
		}
	}
	return rec, nil
}

func (h *resourceHandler[T]) create(w http.ResponseWriter, r *http.Request) {
	var rec T
	if !decodeBody(w, r, &rec) {
		return
	}
	rec, err := h.accept(r.Context(), rec.WithID(0))
	if err != nil {
		handleError(w, r, err)
		return
	}
	created, err := h.res.Create(r.Context(), rec)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, h.one(r.Context(), created), "created")
}

func (h *resourceHandler[T]) update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var rec T
	if !decodeBody(w, r, &rec) {
		return
	}
	rec, err := h.accept(r.Context(), rec.WithID(id))
	if err != nil {
		handleError(w, r, err)
		return
	}
	updated, err := h.res.Update(r.Context(), id, rec)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, h.one(r.Context(), updated), "updated")
}

func (h *resourceHandler[T]) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.res.Delete(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, nil, "deleted")
}

// appointmentRefs rejects appointments pointing at missing patients or
// doctors and fills in the embedded names from the current ids.
type appointmentRefs struct {
	patients clinic.Resource[clinic.Patient]
	doctors  clinic.Resource[clinic.Doctor]
}

func (a appointmentRefs) check(ctx context.Context, appt clinic.Appointment) error {
	if _, err := a.patients.Get(ctx, appt.PatientID); err != nil {
		return referenceError("paciente_id", appt.PatientID, err)
	}
	if _, err := a.doctors.Get(ctx, appt.DoctorID); err != nil {
		return referenceError("doctor_id", appt.DoctorID, err)
	}
	return nil
}

func referenceError(field string, id int64, err error) error {
	if errors.Is(err, clinic.ErrNotFound) {
		return &clinic.ValidationError{Field: field, Reason: fmt.Sprintf("%d does not exist", id)}
	}
	return err
}

func (a appointmentRefs) decorate(ctx context.Context, items []clinic.Appointment) []clinic.Appointment {
	patients, err := a.patients.List(ctx)
	if err != nil {
		return items
	}
	doctors, err := a.doctors.List(ctx)
	if err != nil {
		return items
	}

	pByID := make(map[int64]clinic.Patient, len(patients))
	for _, p := range patients {
		pByID[p.ID] = p
	}
	dByID := make(map[int64]clinic.Doctor, len(doctors))
	for _, d := range doctors {
		dByID[d.ID] = d
	}

	out := make([]clinic.Appointment, len(items))
	for i, appt := range items {
		appt = appt.WithoutRefs()
		if p, ok := pByID[appt.PatientID]; ok {
			appt.Patient = &clinic.PatientRef{FirstName: p.FirstName, LastName: p.LastName}
		}
		if d, ok := dByID[appt.DoctorID]; ok {
			appt.Doctor = &clinic.DoctorRef{FirstName: d.FirstName, LastName: d.LastName, Specialty: d.Specialty}
		}
		out[i] = appt
	}
	return out
}

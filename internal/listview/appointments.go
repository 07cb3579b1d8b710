package listview

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hackgods/clinic-admin/internal/clinic"
)

// Joiner resolves the patient and doctor an appointment points at. It never
// fails: unresolved references render as NotAvailable.
type Joiner struct {
	Patients []clinic.Patient
	Doctors  []clinic.Doctor
}

func (j Joiner) PatientName(a clinic.Appointment) string {
	if a.Patient != nil {
		return strings.TrimSpace(a.Patient.FirstName + " " + a.Patient.LastName)
	}
	for _, p := range j.Patients {
		if p.ID == a.PatientID {
			return p.FullName()
		}
	}
	return NotAvailable
}

func (j Joiner) DoctorName(a clinic.Appointment) string {
	if a.Doctor != nil {
		return doctorTitle(a.Doctor.FirstName, a.Doctor.LastName)
	}
	for _, d := range j.Doctors {
		if d.ID == a.DoctorID {
			return doctorTitle(d.FirstName, d.LastName)
		}
	}
	return NotAvailable
}

func (j Joiner) DoctorSpecialty(a clinic.Appointment) string {
	if a.Doctor != nil {
		return a.Doctor.Specialty
	}
	for _, d := range j.Doctors {
		if d.ID == a.DoctorID {
			return d.Specialty
		}
	}
	return ""
}

func doctorTitle(first, last string) string {
	name := strings.TrimSpace(first + " " + last)
	lower := strings.ToLower(name)
	if strings.HasPrefix(lower, "dr. ") || strings.HasPrefix(lower, "dra. ") {
		return name
	}
	return "Dr. " + name
}

// DisplayCode is the appointment code, or one derived from the id for
// records created without one.
func DisplayCode(a clinic.Appointment) string {
	if a.Code != "" {
		return a.Code
	}
	return fmt.Sprintf("CITA-%06d", a.ID%1000000)
}

// FormatWhen renders the date and time columns.
func FormatWhen(a clinic.Appointment) string {
	if a.Date == "" {
		return "Not scheduled"
	}
	d, err := time.Parse(clinic.DateLayout, a.Date)
	if err != nil {
		return strings.TrimSpace(a.Date + " " + a.Time)
	}
	return strings.TrimSpace(d.Format("Mon, Jan 2 2006") + " " + a.Time)
}

// AppointmentsView needs all three collections: appointments to list and
// patients and doctors to join against.
type AppointmentsView struct {
	Appointments *Collection[clinic.Appointment]
	Patients     *Collection[clinic.Patient]
	Doctors      *Collection[clinic.Doctor]

	now     func() time.Time
	loading bool
	banner  string
}

func NewAppointmentsView(
	appointments clinic.Resource[clinic.Appointment],
	patients clinic.Resource[clinic.Patient],
	doctors clinic.Resource[clinic.Doctor],
) *AppointmentsView {
	return &AppointmentsView{
		Appointments: NewCollection(appointments, "appointments"),
		Patients:     NewCollection(patients, "patients"),
		Doctors:      NewCollection(doctors, "doctors"),
		now:          time.Now,
	}
}

// Load fetches the three collections concurrently. Any single failure
// fails the whole load and leaves the local collections untouched.
func (v *AppointmentsView) Load(ctx context.Context) error {
	v.loading = true
	defer func() { v.loading = false }()

	var (
		appts    []clinic.Appointment
		patients []clinic.Patient
		doctors  []clinic.Doctor
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		appts, err = v.Appointments.resource.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		patients, err = v.Patients.resource.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		doctors, err = v.Doctors.resource.List(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		v.banner = bannerFor("loading", "data", err)
		return err
	}

	v.Appointments.set(appts)
	v.Patients.set(patients)
	v.Doctors.set(doctors)
	v.banner = ""
	return nil
}

func (v *AppointmentsView) Joiner() Joiner {
	return Joiner{Patients: v.Patients.items, Doctors: v.Doctors.items}
}

func (v *AppointmentsView) project(j Joiner) Projection[clinic.Appointment] {
	return func(a clinic.Appointment) ([]string, string) {
		return []string{DisplayCode(a), j.PatientName(a), j.DoctorName(a), a.Reason}, string(a.Status)
	}
}

func (v *AppointmentsView) Filtered(q Query) []clinic.Appointment {
	return Filter(v.Appointments.Items(), q, v.project(v.Joiner()))
}

// Create fills in the defaults and a generated code before saving.
func (v *AppointmentsView) Create(ctx context.Context, a clinic.Appointment) (clinic.Appointment, error) {
	a = a.Normalize().WithoutRefs()
	if a.Code == "" {
		a.Code = GenerateCode(v.now())
	}
	return v.Appointments.Create(ctx, a)
}

// Update sends the record without its embedded names so a changed patient
// or doctor id is joined afresh.
func (v *AppointmentsView) Update(ctx context.Context, id int64, a clinic.Appointment) (clinic.Appointment, error) {
	return v.Appointments.Update(ctx, id, a.WithoutRefs())
}

func (v *AppointmentsView) Delete(ctx context.Context, id int64) error {
	return v.Appointments.Delete(ctx, id)
}

// GenerateCode builds CITA- plus the last six digits of the millisecond
// timestamp.
func GenerateCode(now time.Time) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	return "CITA-" + ms
}

func (v *AppointmentsView) Loading() bool {
	return v.loading || v.Appointments.Loading()
}

// Banner reports the last load or mutation failure.
func (v *AppointmentsView) Banner() string {
	if v.banner != "" {
		return v.banner
	}
	return v.Appointments.Banner()
}

func (v *AppointmentsView) DismissBanner() {
	v.banner = ""
	v.Appointments.DismissBanner()
}

type AppointmentStats struct {
	Total    int
	ByStatus map[clinic.AppointmentStatus]int
}

func NewAppointmentStats(rows []clinic.Appointment) AppointmentStats {
	s := AppointmentStats{Total: len(rows), ByStatus: make(map[clinic.AppointmentStatus]int)}
	for _, a := range rows {
		s.ByStatus[a.Status]++
	}
	return s
}

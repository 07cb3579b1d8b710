package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/hackgods/clinic-admin/internal/clinic"
	"github.com/hackgods/clinic-admin/internal/listview"
	"github.com/hackgods/clinic-admin/internal/session"
)

var (
	errUsage       = errors.New("invalid usage")
	errSignedOut   = errors.New("not signed in: run clinic-admin login")
	errFailedFetch = errors.New("request failed")
)

type app struct {
	session *session.Store
	backend backendSet
	in      io.Reader
	out     io.Writer
}

func (a *app) run(ctx context.Context, args []string) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return a.login(ctx, rest)
	case "logout":
		return a.logout(ctx)
	case "whoami":
		return a.whoami()
	case "patients", "doctors", "appointments":
		if !a.session.IsAuthenticated() {
			return errSignedOut
		}
		return a.resource(ctx, cmd, rest)
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(a.out)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	res := a.session.Login(ctx, clinic.Credentials{Email: *email, Password: *password})
	if !res.Success {
		return errors.New(res.Message)
	}
	fmt.Fprintf(a.out, "Signed in as %s (%s)\n", res.Identity.FullName(), res.Identity.Role)
	return nil
}

func (a *app) logout(ctx context.Context) error {
	a.session.Logout(ctx)
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

func (a *app) whoami() error {
	id, ok := a.session.Identity()
	if !ok {
		return errSignedOut
	}
	fmt.Fprintf(a.out, "%s <%s> role=%s\n", id.FullName(), id.Email, id.Role)
	return nil
}

func (a *app) resource(ctx context.Context, name string, args []string) error {
	switch name {
	case "patients":
		return a.patientsScreen().run(ctx, args, a.in, a.out)
	case "doctors":
		return a.doctorsScreen().run(ctx, args, a.in, a.out)
	default:
		return a.appointmentsScreen().run(ctx, args, a.in, a.out)
	}
}

func (a *app) patientsScreen() *screen[clinic.Patient] {
	v := listview.NewPatientsView(a.backend.patients)
	return &screen[clinic.Patient]{
		noun:       "patient",
		fields:     patientFields,
		collection: v.Collection,
		load:       v.Load,
		filter:     v.Filtered,
		create:     v.Create,
		update:     v.Update,
		banner:     v.Banner,
		table:      renderPatients,
		summary:    func(w io.Writer, rows []clinic.Patient) { renderPatientStats(w, listview.NewPatientStats(rows)) },
	}
}

func (a *app) doctorsScreen() *screen[clinic.Doctor] {
	v := listview.NewDoctorsView(a.backend.doctors)
	return &screen[clinic.Doctor]{
		noun:       "doctor",
		fields:     doctorFields,
		collection: v.Collection,
		load:       v.Load,
		filter:     v.Filtered,
		create:     v.Create,
		update:     v.Update,
		banner:     v.Banner,
		table:      renderDoctors,
		summary:    func(w io.Writer, rows []clinic.Doctor) { renderDoctorStats(w, listview.NewDoctorStats(rows)) },
	}
}

func (a *app) appointmentsScreen() *screen[clinic.Appointment] {
	v := listview.NewAppointmentsView(a.backend.appointments, a.backend.patients, a.backend.doctors)
	return &screen[clinic.Appointment]{
		noun:       "appointment",
		fields:     appointmentFields,
		collection: v.Appointments,
		load:       v.Load,
		filter:     v.Filtered,
		create:     v.Create,
		update:     v.Update,
		banner:     v.Banner,
		table: func(w io.Writer, rows []clinic.Appointment) {
			renderAppointments(w, v.Joiner(), rows)
		},
		summary: func(w io.Writer, rows []clinic.Appointment) {
			renderAppointmentStats(w, listview.NewAppointmentStats(rows))
		},
	}
}

// screen is one list page: its table, filters and edit form.
type screen[T clinic.Record[T]] struct {
	noun       string
	fields     fieldSet[T]
	collection *listview.Collection[T]

	load    func(ctx context.Context) error
	filter  func(q listview.Query) []T
	create  func(ctx context.Context, rec T) (T, error)
	update  func(ctx context.Context, id int64, rec T) (T, error)
	banner  func() string
	table   func(w io.Writer, rows []T)
	summary func(w io.Writer, rows []T)
}

func (s *screen[T]) run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing action (list, create, update, delete)", errUsage)
	}

	action, rest := args[0], args[1:]
	switch action {
	case "list":
		return s.list(ctx, rest, out)
	case "create":
		return s.save(ctx, "create", rest, out)
	case "update":
		return s.save(ctx, "update", rest, out)
	case "delete":
		return s.delete(ctx, rest, in, out)
	default:
		return fmt.Errorf("%w: unknown action %q", errUsage, action)
	}
}

func (s *screen[T]) failed(out io.Writer, err error) error {
	if msg := s.banner(); msg != "" {
		fmt.Fprintln(out, msg)
		return errFailedFetch
	}
	return err
}

func (s *screen[T]) list(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet(s.noun+"s list", flag.ContinueOnError)
	fs.SetOutput(out)
	search := fs.String("q", "", "search term")
	status := fs.String("status", "", "status filter")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if err := s.load(ctx); err != nil {
		return s.failed(out, err)
	}

	rows := s.filter(listview.Query{Search: strings.TrimSpace(*search), Status: *status})
	if len(rows) == 0 {
		fmt.Fprintf(out, "No %ss found\n", s.noun)
		return nil
	}

	page := listview.Paginate(rows)
	s.table(out, page.Rows)
	if msg := page.Banner(); msg != "" {
		fmt.Fprintln(out, msg)
	}
	s.summary(out, rows)
	return nil
}

func (s *screen[T]) save(ctx context.Context, action string, args []string, out io.Writer) error {
	fs := flag.NewFlagSet(s.noun+"s "+action, flag.ContinueOnError)
	fs.SetOutput(out)
	var id *int64
	if action == "update" {
		id = fs.Int64("id", 0, "record id")
	}
	values := s.fields.bind(fs)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	var rec T
	if id != nil {
		if *id <= 0 {
			return fmt.Errorf("%w: -id is required", errUsage)
		}
		if err := s.load(ctx); err != nil {
			return s.failed(out, err)
		}
		existing, ok := s.collection.Find(*id)
		if !ok {
			return fmt.Errorf("%s %d: %w", s.noun, *id, clinic.ErrNotFound)
		}
		rec = existing
	}
	if err := s.fields.apply(fs, values, &rec); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	var (
		saved T
		err   error
	)
	if id != nil {
		saved, err = s.update(ctx, *id, rec)
	} else {
		saved, err = s.create(ctx, rec)
	}
	if err != nil {
		var verr *clinic.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("invalid %s: %w", s.noun, verr)
		}
		return s.failed(out, err)
	}

	fmt.Fprintf(out, "Saved %s #%d\n", s.noun, saved.RecordID())
	return nil
}

func (s *screen[T]) delete(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet(s.noun+"s delete", flag.ContinueOnError)
	fs.SetOutput(out)
	id := fs.Int64("id", 0, "record id")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *id <= 0 {
		return fmt.Errorf("%w: -id is required", errUsage)
	}

	if !*yes && !confirm(in, out, fmt.Sprintf("Delete %s #%d?", s.noun, *id)) {
		fmt.Fprintln(out, "Cancelled")
		return nil
	}

	if err := s.collection.Delete(ctx, *id); err != nil {
		return s.failed(out, err)
	}
	fmt.Fprintf(out, "Deleted %s #%d\n", s.noun, *id)
	return nil
}

func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

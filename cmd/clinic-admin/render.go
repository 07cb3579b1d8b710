package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/hackgods/clinic-admin/internal/clinic"
	"github.com/hackgods/clinic-admin/internal/listview"
)

func newTable(w io.Writer, headers ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	return tw
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func renderPatients(w io.Writer, rows []clinic.Patient) {
	tw := newTable(w, "ID", "CEDULA", "NAME", "EMAIL", "PHONE", "BLOOD", "INSURANCE")
	for _, p := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.NationalID, p.FullName(), orDash(p.Email), orDash(p.Phone), orDash(p.BloodType), orDash(p.Insurance))
	}
	tw.Flush()
}

func renderDoctors(w io.Writer, rows []clinic.Doctor) {
	tw := newTable(w, "ID", "NAME", "SPECIALTY", "LICENSE", "EXPERIENCE", "PRICE", "STATUS")
	for _, d := range rows {
		status := "available"
		if !d.Available {
			status = "unavailable"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d years\t$%.2f\t%s\n",
			d.ID, d.FullName(), d.Specialty, d.LicenseNumber, d.YearsExperience, d.ConsultationPrice, status)
	}
	tw.Flush()
}

func renderAppointments(w io.Writer, j listview.Joiner, rows []clinic.Appointment) {
	tw := newTable(w, "ID", "CODE", "PATIENT", "DOCTOR", "SPECIALTY", "WHEN", "REASON", "STATUS")
	for _, a := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, listview.DisplayCode(a), j.PatientName(a), j.DoctorName(a), orDash(j.DoctorSpecialty(a)),
			listview.FormatWhen(a), a.Reason, a.Status.Label())
	}
	tw.Flush()
}

func renderPatientStats(w io.Writer, s listview.PatientStats) {
	fmt.Fprintf(w, "Total: %d  Men: %d  Women: %d  With allergies: %d\n",
		s.Total, s.Male, s.Female, s.WithAllergies)
}

func renderDoctorStats(w io.Writer, s listview.DoctorStats) {
	fmt.Fprintf(w, "Total: %d  Specialties: %d  Avg experience: %d years  Available: %d\n",
		s.Total, s.Specialties, s.AvgExperience, s.Available)
}

func renderAppointmentStats(w io.Writer, s listview.AppointmentStats) {
	parts := []string{fmt.Sprintf("Total: %d", s.Total)}
	for _, st := range clinic.Statuses {
		parts = append(parts, fmt.Sprintf("%s: %d", st.Label(), s.ByStatus[st]))
	}
	fmt.Fprintln(w, strings.Join(parts, "  "))
}

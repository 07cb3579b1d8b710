// Package fixtures holds the demo data the in-memory backend starts with.
package fixtures

import "github.com/hackgods/clinic-admin/internal/clinic"

// UserFixture is a demo account with its plain-text password.
type UserFixture struct {
	clinic.Identity
	Password string
}

func Users() []UserFixture {
	return []UserFixture{
		{
			Identity: clinic.Identity{ID: 1, Email: "admin@clinica.com", FirstName: "Administrador", LastName: "Sistema", Role: "administrador"},
			Password: "admin123",
		},
		{
			Identity: clinic.Identity{ID: 2, Email: "recepcion@clinica.com", FirstName: "Recepcionista", LastName: "Principal", Role: "recepcionista"},
			Password: "123456",
		},
		{
			Identity: clinic.Identity{ID: 3, Email: "dr.mendoza@clinica.com", FirstName: "Dr. Roberto", LastName: "Mendoza", Role: "doctor"},
			Password: "doctor123",
		},
	}
}

func Patients() []clinic.Patient {
	return []clinic.Patient{
		{
			ID: 1, NationalID: "0923456789", FirstName: "Ana María", LastName: "González",
			Email: "ana.gonzalez@example.com", Phone: "0991234567", BirthDate: "1985-05-15", Gender: "femenino",
			Address: "Av. Principal 123, Guayaquil", BloodType: "O+", Allergies: "Penicilina", Insurance: "IESS",
		},
		{
			ID: 2, NationalID: "1703456789", FirstName: "Carlos Eduardo", LastName: "Ramírez",
			Email: "carlos.ramirez@example.com", Phone: "0997654321", BirthDate: "1978-11-22", Gender: "masculino",
			Address: "Calle Secundaria 456, Quito", BloodType: "A+", Allergies: "Ninguna conocida", Insurance: "Particular",
		},
		{
			ID: 3, NationalID: "0102345678", FirstName: "María Elena", LastName: "Torres",
			Email: "maria.torres@example.com", Phone: "0993456789", BirthDate: "1992-03-08", Gender: "femenino",
			Address: "Av. Central 789, Cuenca", BloodType: "B-", Allergies: "Látex", Insurance: "IESS",
		},
		{
			ID: 4, NationalID: "0604567890", FirstName: "José Miguel", LastName: "Vargas",
			Email: "jose.vargas@example.com", Phone: "0995678901", BirthDate: "1980-07-12", Gender: "masculino",
			Address: "Av. de los Libertadores 321, Riobamba", BloodType: "AB+", Allergies: "Mariscos", Insurance: "Particular",
		},
	}
}

func schedule(s string) *string { return &s }

func Doctors() []clinic.Doctor {
	return []clinic.Doctor{
		{
			ID: 1, NationalID: "0912345678", FirstName: "Dr. Roberto", LastName: "Mendoza",
			Email: "dr.mendoza@clinica.com", Phone: "0988765432", Specialty: "Cardiología",
			LicenseNumber: "LIC-001-2020", Office: "Consultorio 101", Schedule: schedule("Lunes a Viernes 8:00-16:00"),
			YearsExperience: 15, University: "Universidad Central del Ecuador", ConsultationPrice: 40, Available: true,
		},
		{
			ID: 2, NationalID: "1701234567", FirstName: "Dra. Patricia", LastName: "Jiménez",
			Email: "dra.jimenez@clinica.com", Phone: "0987654321", Specialty: "Pediatría",
			LicenseNumber: "LIC-002-2018", Office: "Consultorio 205", Schedule: schedule("Lunes a Viernes 9:00-17:00"),
			YearsExperience: 12, University: "Pontificia Universidad Católica del Ecuador", ConsultationPrice: 35, Available: true,
		},
		{
			ID: 3, NationalID: "0101234567", FirstName: "Dr. Fernando", LastName: "Castro",
			Email: "dr.castro@clinica.com", Phone: "0986543210", Specialty: "Dermatología",
			LicenseNumber: "LIC-003-2019", Office: "Consultorio 310", Schedule: schedule("Martes a Sábado 10:00-18:00"),
			YearsExperience: 8, University: "Universidad de Cuenca", ConsultationPrice: 30, Available: true,
		},
		{
			ID: 4, NationalID: "0605432109", FirstName: "Dra. Carmen", LastName: "Morales",
			Email: "dra.morales@clinica.com", Phone: "0985432109", Specialty: "Ginecología",
			LicenseNumber: "LIC-004-2021", Office: "Consultorio 150", Schedule: schedule("Lunes a Viernes 8:00-14:00"),
			YearsExperience: 10, University: "Universidad San Francisco de Quito", ConsultationPrice: 45, Available: false,
		},
	}
}

func Appointments() []clinic.Appointment {
	return []clinic.Appointment{
		{
			ID: 1, Code: "CITA-001", PatientID: 1, DoctorID: 1, Date: "2025-08-28", Time: "09:00",
			Reason: "Control cardiológico rutinario", Status: clinic.StatusScheduled,
			Notes: "Traer resultados de electrocardiograma", Type: clinic.TypeFollowUp, DurationMinutes: 30,
		},
		{
			ID: 2, Code: "CITA-002", PatientID: 2, DoctorID: 2, Date: "2025-08-29", Time: "10:30",
			Reason: "Consulta por dolor abdominal", Status: clinic.StatusCompleted,
			Notes: "Paciente refiere molestias después de comidas", Type: clinic.TypeConsultation, DurationMinutes: 45,
		},
		{
			ID: 3, Code: "CITA-003", PatientID: 3, DoctorID: 3, Date: "2025-08-30", Time: "14:00",
			Reason: "Evaluación de lunar en espalda", Status: clinic.StatusScheduled,
			Notes: "Revisión dermatológica preventiva", Type: clinic.TypeConsultation, DurationMinutes: 30,
		},
		{
			ID: 4, Code: "CITA-004", PatientID: 4, DoctorID: 4, Date: "2025-09-02", Time: "11:00",
			Reason: "Control ginecológico anual", Status: clinic.StatusScheduled,
			Notes: "Control de rutina", Type: clinic.TypeFollowUp, DurationMinutes: 60,
		},
		{
			ID: 5, Code: "CITA-005", PatientID: 1, DoctorID: 2, Date: "2025-08-26", Time: "15:30",
			Reason: "Consulta por gripe", Status: clinic.StatusCancelled,
			Notes: "Paciente canceló por mejoría", Type: clinic.TypeUrgent, DurationMinutes: 20,
		},
	}
}

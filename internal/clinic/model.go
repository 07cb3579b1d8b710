package clinic

import "strings"

type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "programada"
	StatusInProgress AppointmentStatus = "en_curso"
	StatusCompleted  AppointmentStatus = "completada"
	StatusCancelled  AppointmentStatus = "cancelada"
	StatusNoShow     AppointmentStatus = "no_asistio"
)

// Statuses lists every appointment status in display order.
var Statuses = []AppointmentStatus{
	StatusScheduled,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

func (s AppointmentStatus) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Label is the human readable form shown in tables.
func (s AppointmentStatus) Label() string {
	switch s {
	case StatusScheduled:
		return "scheduled"
	case StatusInProgress:
		return "in progress"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	case StatusNoShow:
		return "no-show"
	default:
		return string(s)
	}
}

type AppointmentType string

const (
	TypeConsultation AppointmentType = "consulta"
	TypeFollowUp     AppointmentType = "control"
	TypeProcedure    AppointmentType = "procedimiento"
	TypeSurgery      AppointmentType = "cirugia"
	TypeUrgent       AppointmentType = "urgencia"
)

var AppointmentTypes = []AppointmentType{
	TypeConsultation,
	TypeFollowUp,
	TypeProcedure,
	TypeSurgery,
	TypeUrgent,
}

func (t AppointmentType) Valid() bool {
	for _, v := range AppointmentTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Identity is the authenticated staff member. It never carries credentials.
type Identity struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
	Role      string `json:"rol,omitempty"`
}

func (i Identity) FullName() string {
	return strings.TrimSpace(i.FirstName + " " + i.LastName)
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refresh_token,omitempty"`
	User         Identity `json:"user"`
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
	Role      string `json:"rol,omitempty"`
}

// User is the backend-side account record.
type User struct {
	Identity
	PasswordHash []byte `json:"-"`
}

type Patient struct {
	ID                    int64  `json:"id"`
	NationalID            string `json:"cedula"`
	FirstName             string `json:"nombre"`
	LastName              string `json:"apellido"`
	Email                 string `json:"email,omitempty"`
	Phone                 string `json:"telefono,omitempty"`
	BirthDate             string `json:"fecha_nacimiento,omitempty"`
	Gender                string `json:"genero,omitempty"`
	Address               string `json:"direccion,omitempty"`
	BloodType             string `json:"tipo_sangre,omitempty"`
	Allergies             string `json:"alergias,omitempty"`
	ChronicConditions     string `json:"enfermedades_cronicas,omitempty"`
	Insurance             string `json:"seguro_medico,omitempty"`
	EmergencyContactName  string `json:"contacto_emergencia_nombre,omitempty"`
	EmergencyContactPhone string `json:"contacto_emergencia_telefono,omitempty"`
}

func (p Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

type Doctor struct {
	ID                int64    `json:"id"`
	NationalID        string   `json:"cedula,omitempty"`
	FirstName         string   `json:"nombre"`
	LastName          string   `json:"apellido"`
	Email             string   `json:"email,omitempty"`
	Phone             string   `json:"telefono,omitempty"`
	Specialty         string   `json:"especialidad"`
	LicenseNumber     string   `json:"numero_licencia"`
	University        string   `json:"universidad,omitempty"`
	Office            string   `json:"consultorio,omitempty"`
	YearsExperience   int      `json:"experiencia_anos"`
	ConsultationPrice float64  `json:"consulta_precio"`
	Schedule          *string  `json:"horario_atencion"`
	AvailableDays     []string `json:"dias_disponibles,omitempty"`
	Available         bool     `json:"disponible"`
}

func (d Doctor) FullName() string {
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

// PatientRef and DoctorRef are the relational objects some backends embed
// into appointment payloads.
type PatientRef struct {
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
}

type DoctorRef struct {
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
	Specialty string `json:"especialidad,omitempty"`
}

type Appointment struct {
	ID              int64             `json:"id"`
	Code            string            `json:"codigo,omitempty"`
	PatientID       int64             `json:"paciente_id"`
	DoctorID        int64             `json:"doctor_id"`
	Date            string            `json:"fecha"`
	Time            string            `json:"hora"`
	Reason          string            `json:"motivo_consulta"`
	Notes           string            `json:"observaciones,omitempty"`
	Status          AppointmentStatus `json:"estado"`
	Type            AppointmentType   `json:"tipo_cita,omitempty"`
	DurationMinutes int               `json:"duracion_minutos,omitempty"`
	Price           float64           `json:"precio,omitempty"`

	Patient *PatientRef `json:"pacientes,omitempty"`
	Doctor  *DoctorRef  `json:"doctores,omitempty"`
}

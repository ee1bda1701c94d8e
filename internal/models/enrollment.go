package models

import "time"

// EnrollmentStatus represents the lifecycle of an enrollment.
type EnrollmentStatus string

// Possible enrollment statuses.
const (
	EnrollmentStatusPending   EnrollmentStatus = "pending"
	EnrollmentStatusActive    EnrollmentStatus = "active"
	EnrollmentStatusCompleted EnrollmentStatus = "completed"
	EnrollmentStatusCancelled EnrollmentStatus = "cancelled"
)

// DateLayout is the calendar date format used by every stored date field.
const DateLayout = "2006-01-02"

// Enrollment is one student's enrollment entry, the sole persisted entity.
// JSON names match the stored collection document.
type Enrollment struct {
	ID           string           `json:"id"`
	RegisteredAt time.Time        `json:"fechaRegistro"`
	Status       EnrollmentStatus `json:"estado"`
	Student      Student          `json:"estudiante"`
	Details      EnrollmentInfo   `json:"matricula"`
}

// Student holds the personal data captured by the registration form.
type Student struct {
	FirstNames string `json:"nombres"`
	LastNames  string `json:"apellidos"`
	NationalID string `json:"dni"`
	BirthDate  string `json:"fechaNacimiento"`
	Gender     string `json:"genero"`
	Email      string `json:"email"`
	Phone      string `json:"telefono"`
	Address    string `json:"direccion"`
}

// FullName joins first and last names.
func (s Student) FullName() string {
	switch {
	case s.FirstNames == "":
		return s.LastNames
	case s.LastNames == "":
		return s.FirstNames
	}
	return s.FirstNames + " " + s.LastNames
}

// EnrollmentInfo describes the course the student enrolls in.
type EnrollmentInfo struct {
	Course    string `json:"curso"`
	Modality  string `json:"modalidad"`
	StartDate string `json:"fechaInicio"`
	EndDate   string `json:"fechaFin,omitempty"`
	Notes     string `json:"observaciones,omitempty"`
}

// Valid reports whether s is one of the four known statuses.
func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentStatusPending, EnrollmentStatusActive, EnrollmentStatusCompleted, EnrollmentStatusCancelled:
		return true
	}
	return false
}

// Normalized maps unknown stored values to pending for display.
func (s EnrollmentStatus) Normalized() EnrollmentStatus {
	if s.Valid() {
		return s
	}
	return EnrollmentStatusPending
}

// Label returns the display name of the status.
func (s EnrollmentStatus) Label() string {
	return statusLabels[s.Normalized()]
}

// BadgeClass returns the css class used to render the status badge.
func (s EnrollmentStatus) BadgeClass() string {
	return "badge-" + string(s.Normalized())
}

// EnrollmentStatuses lists the statuses in display order.
func EnrollmentStatuses() []EnrollmentStatus {
	return []EnrollmentStatus{
		EnrollmentStatusActive,
		EnrollmentStatusPending,
		EnrollmentStatusCompleted,
		EnrollmentStatusCancelled,
	}
}

var statusLabels = map[EnrollmentStatus]string{
	EnrollmentStatusActive:    "Activa",
	EnrollmentStatusPending:   "Pendiente",
	EnrollmentStatusCompleted: "Completada",
	EnrollmentStatusCancelled: "Cancelada",
}

// ParseDate parses a stored calendar date.
func ParseDate(raw string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

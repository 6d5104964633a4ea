package entity

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AppointmentType distinguishes video consultations from in-person visits.
type AppointmentType string

const (
	AppointmentTypeVideo    AppointmentType = "VIDEO"
	AppointmentTypeInPerson AppointmentType = "IN_PERSON"
)

// AppointmentStatus is the appointment lifecycle. Any status may move to
// any other; CANCELLED is terminal in practice because cancelled rows are
// excluded from capacity counting and never rescheduled.
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "SCHEDULED"
	AppointmentStatusConfirmed AppointmentStatus = "CONFIRMED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
)

var (
	ErrInvalidAppointmentType   = errors.New("invalid appointment type")
	ErrInvalidAppointmentStatus = errors.New("invalid appointment status")
)

func ParseAppointmentType(s string) (AppointmentType, error) {
	switch AppointmentType(strings.ToUpper(s)) {
	case AppointmentTypeVideo, AppointmentTypeInPerson:
		return AppointmentType(strings.ToUpper(s)), nil
	}
	return "", ErrInvalidAppointmentType
}

func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	switch AppointmentStatus(strings.ToUpper(s)) {
	case AppointmentStatusScheduled, AppointmentStatusConfirmed,
		AppointmentStatusCompleted, AppointmentStatusCancelled:
		return AppointmentStatus(strings.ToUpper(s)), nil
	}
	return "", ErrInvalidAppointmentStatus
}

// Appointment is exclusively owned by the scheduling engine. PatientID
// and DoctorID are immutable after creation; the free-text fields may be
// edited by the assigned doctor.
type Appointment struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID        uuid.UUID         `gorm:"type:uuid;not null;index:idx_appointments_doctor_date" json:"doctor_id"`
	AppointmentDate time.Time         `gorm:"not null;index:idx_appointments_doctor_date" json:"appointment_date"`
	AppointmentType AppointmentType   `gorm:"type:varchar(20);not null" json:"appointment_type"`
	Status          AppointmentStatus `gorm:"type:varchar(20);not null;default:'SCHEDULED';index" json:"status"`
	Reason          string            `gorm:"type:text" json:"reason,omitempty"`
	Notes           string            `gorm:"type:text" json:"notes,omitempty"`
	Diagnosis       string            `gorm:"type:text" json:"diagnosis,omitempty"`
	TreatmentPlan   string            `gorm:"type:text" json:"treatment_plan,omitempty"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  Doctor  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

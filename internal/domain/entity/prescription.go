package entity

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type PrescriptionStatus string

const (
	PrescriptionStatusPending   PrescriptionStatus = "PENDING"
	PrescriptionStatusApproved  PrescriptionStatus = "APPROVED"
	PrescriptionStatusDispensed PrescriptionStatus = "DISPENSED"
	PrescriptionStatusRejected  PrescriptionStatus = "REJECTED"
)

var ErrInvalidPrescriptionStatus = errors.New("invalid prescription status")

func ParsePrescriptionStatus(s string) (PrescriptionStatus, error) {
	switch PrescriptionStatus(strings.ToUpper(s)) {
	case PrescriptionStatusPending, PrescriptionStatusApproved,
		PrescriptionStatusDispensed, PrescriptionStatusRejected:
		return PrescriptionStatus(strings.ToUpper(s)), nil
	}
	return "", ErrInvalidPrescriptionStatus
}

// Prescription is written by a doctor, optionally tied to the
// appointment it came out of, and routed to a pharmacy for dispensing.
type Prescription struct {
	ID            uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	AppointmentID *uuid.UUID         `gorm:"type:uuid;index" json:"appointment_id,omitempty"`
	PatientID     uuid.UUID          `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID      uuid.UUID          `gorm:"type:uuid;not null;index" json:"doctor_id"`
	PharmacyID    *uuid.UUID         `gorm:"type:uuid;index" json:"pharmacy_id,omitempty"`
	Medications   string             `gorm:"type:text;not null" json:"medications"`
	Instructions  string             `gorm:"type:text" json:"instructions,omitempty"`
	Status        PrescriptionStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	ValidUntil    *time.Time         `json:"valid_until,omitempty"`
	CreatedAt     time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time          `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  Doctor  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Prescription) TableName() string {
	return "prescriptions"
}

package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreatePrescriptionRequest struct {
	PatientID     uuid.UUID  `json:"patient_id" validate:"required"`
	AppointmentID *uuid.UUID `json:"appointment_id,omitempty"`
	PharmacyID    *uuid.UUID `json:"pharmacy_id,omitempty"`
	Medications   string     `json:"medications" validate:"required"`
	Instructions  string     `json:"instructions,omitempty"`
	ValidUntil    *time.Time `json:"valid_until,omitempty"`
}

type UpdatePrescriptionStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=APPROVED DISPENSED REJECTED"`
}

type PrescriptionResponse struct {
	ID           string     `json:"id"`
	PatientID    string     `json:"patient_id"`
	DoctorID     string     `json:"doctor_id"`
	PharmacyID   string     `json:"pharmacy_id,omitempty"`
	PatientName  string     `json:"patient_name,omitempty"`
	DoctorName   string     `json:"doctor_name,omitempty"`
	Medications  string     `json:"medications"`
	Instructions string     `json:"instructions,omitempty"`
	Status       string     `json:"status"`
	ValidUntil   *time.Time `json:"valid_until,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

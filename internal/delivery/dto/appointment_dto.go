package dto

import (
	"time"

	"github.com/google/uuid"
)

type BookAppointmentRequest struct {
	DoctorID        uuid.UUID `json:"doctor_id" validate:"required"`
	AppointmentDate string    `json:"appointment_date" validate:"required"`
	AppointmentType string    `json:"appointment_type" validate:"required,oneof=VIDEO IN_PERSON"`
	Reason          string    `json:"reason,omitempty" validate:"omitempty,max=1000"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type AppointmentResponse struct {
	ID              string    `json:"id"`
	PatientID       string    `json:"patient_id"`
	DoctorID        string    `json:"doctor_id"`
	PatientName     string    `json:"patient_name,omitempty"`
	DoctorName      string    `json:"doctor_name,omitempty"`
	Specialization  string    `json:"specialization,omitempty"`
	AppointmentDate time.Time `json:"appointment_date"`
	AppointmentType string    `json:"appointment_type"`
	Status          string    `json:"status"`
	Reason          string    `json:"reason,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type AvailabilityResponse struct {
	DoctorID  string `json:"doctor_id"`
	Date      string `json:"date"`
	Available bool   `json:"available"`
}

type DashboardStatsResponse struct {
	TotalAppointments     int `json:"total_appointments"`
	UpcomingAppointments  int `json:"upcoming_appointments"`
	CompletedAppointments int `json:"completed_appointments"`
	TodayAppointments     int `json:"today_appointments"`
	PatientCount          int `json:"patient_count"`
}

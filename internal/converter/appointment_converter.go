package converter

import (
	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/domain/entity"

	"github.com/google/uuid"
)

func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	response := &dto.AppointmentResponse{
		ID:              appointment.ID.String(),
		PatientID:       appointment.PatientID.String(),
		DoctorID:        appointment.DoctorID.String(),
		AppointmentDate: appointment.AppointmentDate,
		AppointmentType: string(appointment.AppointmentType),
		Status:          string(appointment.Status),
		Reason:          appointment.Reason,
		Notes:           appointment.Notes,
		CreatedAt:       appointment.CreatedAt,
	}

	// Relations are populated only when the row was loaded with preloads.
	if appointment.Patient.UserID != uuid.Nil {
		response.PatientName = appointment.Patient.User.FullName()
	}
	if appointment.Doctor.UserID != uuid.Nil {
		response.DoctorName = appointment.Doctor.User.FullName()
		response.Specialization = appointment.Doctor.Specialization
	}
	return response
}

func AppointmentsToResponses(appointments []entity.Appointment) []*dto.AppointmentResponse {
	responses := make([]*dto.AppointmentResponse, 0, len(appointments))
	for i := range appointments {
		responses = append(responses, AppointmentToResponse(&appointments[i]))
	}
	return responses
}

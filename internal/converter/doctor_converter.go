package converter

import (
	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/domain/entity"

	"github.com/google/uuid"
)

func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	response := &dto.DoctorResponse{
		ID:                    doctor.ID.String(),
		UserID:                doctor.UserID.String(),
		LicenseNumber:         doctor.LicenseNumber,
		Specialization:        doctor.Specialization,
		Experience:            doctor.Experience,
		Education:             doctor.Education,
		DailyAppointmentLimit: doctor.DailyAppointmentLimit,
	}
	if doctor.User.ID != uuid.Nil {
		response.Name = doctor.User.FullName()
		response.Email = doctor.User.Email
	}
	return response
}

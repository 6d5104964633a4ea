package converter

import (
	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/domain/entity"

	"github.com/google/uuid"
)

func PrescriptionToResponse(prescription *entity.Prescription) *dto.PrescriptionResponse {
	response := &dto.PrescriptionResponse{
		ID:           prescription.ID.String(),
		PatientID:    prescription.PatientID.String(),
		DoctorID:     prescription.DoctorID.String(),
		Medications:  prescription.Medications,
		Instructions: prescription.Instructions,
		Status:       string(prescription.Status),
		ValidUntil:   prescription.ValidUntil,
		CreatedAt:    prescription.CreatedAt,
	}
	if prescription.PharmacyID != nil {
		response.PharmacyID = prescription.PharmacyID.String()
	}
	if prescription.Patient.UserID != uuid.Nil {
		response.PatientName = prescription.Patient.User.FullName()
	}
	if prescription.Doctor.UserID != uuid.Nil {
		response.DoctorName = prescription.Doctor.User.FullName()
	}
	return response
}

func PrescriptionsToResponses(prescriptions []entity.Prescription) []*dto.PrescriptionResponse {
	responses := make([]*dto.PrescriptionResponse, 0, len(prescriptions))
	for i := range prescriptions {
		responses = append(responses, PrescriptionToResponse(&prescriptions[i]))
	}
	return responses
}

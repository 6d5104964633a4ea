package repository

import (
	"mediconnect/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PrescriptionRepository interface {
	Create(db *gorm.DB, prescription *entity.Prescription) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Prescription, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Prescription, error)
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Prescription, error)
	FindByPharmacyID(db *gorm.DB, pharmacyID uuid.UUID) ([]entity.Prescription, error)
	FindByPharmacyIDAndStatus(db *gorm.DB, pharmacyID uuid.UUID, status entity.PrescriptionStatus) ([]entity.Prescription, error)
	Update(db *gorm.DB, prescription *entity.Prescription) error
}

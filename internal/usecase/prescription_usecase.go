package usecase

import (
	"context"
	"errors"

	"mediconnect/internal/converter"
	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/domain/entity"
	"mediconnect/internal/domain/repository"
	"mediconnect/internal/policy"
	"mediconnect/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPrescriptionNotFound        = errors.New("prescription not found")
	ErrPharmacyProfileNotFound     = errors.New("pharmacy profile not found")
	ErrInvalidPrescriptionStatus   = errors.New("invalid prescription status value")
	ErrPrescriptionPatientNotFound = errors.New("prescription patient not found")
)

type PrescriptionUsecase interface {
	Create(ctx context.Context, principal entity.Principal, req *dto.CreatePrescriptionRequest) (*dto.PrescriptionResponse, error)
	Get(ctx context.Context, principal entity.Principal, prescriptionID uuid.UUID) (*dto.PrescriptionResponse, error)
	MyPrescriptions(ctx context.Context, principal entity.Principal) ([]*dto.PrescriptionResponse, error)
	PharmacyQueue(ctx context.Context, principal entity.Principal, status string) ([]*dto.PrescriptionResponse, error)
	UpdateStatus(ctx context.Context, principal entity.Principal, prescriptionID uuid.UUID, status string) (*dto.PrescriptionResponse, error)
}

type prescriptionUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	prescriptionRepo repository.PrescriptionRepository
	patientRepo      repository.PatientRepository
	doctorRepo       repository.DoctorRepository
	pharmacyRepo     repository.PharmacyRepository
	auditService     service.AuditService
}

func NewPrescriptionUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	prescriptionRepo repository.PrescriptionRepository,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	pharmacyRepo repository.PharmacyRepository,
	auditService service.AuditService,
) PrescriptionUsecase {
	return &prescriptionUsecase{
		db:               db,
		log:              log,
		prescriptionRepo: prescriptionRepo,
		patientRepo:      patientRepo,
		doctorRepo:       doctorRepo,
		pharmacyRepo:     pharmacyRepo,
		auditService:     auditService,
	}
}

// Create writes a prescription authored by the calling doctor.
func (u *prescriptionUsecase) Create(ctx context.Context, principal entity.Principal, req *dto.CreatePrescriptionRequest) (*dto.PrescriptionResponse, error) {
	doctor, err := u.doctorRepo.FindByUserID(u.db.WithContext(ctx), principal.UserID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorProfileNotFound
	}

	patient, err := u.patientRepo.FindByID(u.db.WithContext(ctx), req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", req.PatientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPrescriptionPatientNotFound
	}

	prescription := &entity.Prescription{
		AppointmentID: req.AppointmentID,
		PatientID:     patient.ID,
		DoctorID:      doctor.ID,
		PharmacyID:    req.PharmacyID,
		Medications:   req.Medications,
		Instructions:  req.Instructions,
		Status:        entity.PrescriptionStatusPending,
		ValidUntil:    req.ValidUntil,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.prescriptionRepo.Create(tx, prescription); err != nil {
		u.log.Warnf("Failed to create prescription: %+v", err)
		return nil, err
	}

	if err := u.auditService.Record(tx, &principal.UserID, entity.AuditActionPrescriptionCreate, "prescription", prescription.ID.String(), entity.JSON{
		"patient_id": patient.ID.String(),
	}); err != nil {
		u.log.Warnf("Failed to audit prescription: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Prescription created: id=%s, doctor=%s", prescription.ID, doctor.ID)
	return converter.PrescriptionToResponse(prescription), nil
}

func (u *prescriptionUsecase) Get(ctx context.Context, principal entity.Principal, prescriptionID uuid.UUID) (*dto.PrescriptionResponse, error) {
	prescription, err := u.prescriptionRepo.FindByID(u.db.WithContext(ctx), prescriptionID)
	if err != nil {
		u.log.Warnf("Failed to find prescription %s: %+v", prescriptionID, err)
		return nil, err
	}
	if prescription == nil {
		return nil, ErrPrescriptionNotFound
	}

	if principal.Role == entity.RolePharmacy {
		pharmacy, err := u.pharmacyRepo.FindByUserID(u.db.WithContext(ctx), principal.UserID)
		if err != nil {
			return nil, err
		}
		if pharmacy == nil || prescription.PharmacyID == nil || *prescription.PharmacyID != pharmacy.ID {
			return nil, ErrForbidden
		}
		return converter.PrescriptionToResponse(prescription), nil
	}

	if !policy.CanViewPrescription(principal, prescription.Patient.UserID, prescription.Doctor.UserID) {
		return nil, ErrForbidden
	}
	return converter.PrescriptionToResponse(prescription), nil
}

func (u *prescriptionUsecase) MyPrescriptions(ctx context.Context, principal entity.Principal) ([]*dto.PrescriptionResponse, error) {
	switch principal.Role {
	case entity.RolePatient:
		patient, err := u.patientRepo.FindByUserID(u.db.WithContext(ctx), principal.UserID)
		if err != nil {
			return nil, err
		}
		if patient == nil {
			return nil, ErrPatientProfileNotFound
		}
		prescriptions, err := u.prescriptionRepo.FindByPatientID(u.db.WithContext(ctx), patient.ID)
		if err != nil {
			return nil, err
		}
		return converter.PrescriptionsToResponses(prescriptions), nil

	case entity.RoleDoctor:
		doctor, err := u.doctorRepo.FindByUserID(u.db.WithContext(ctx), principal.UserID)
		if err != nil {
			return nil, err
		}
		if doctor == nil {
			return nil, ErrDoctorProfileNotFound
		}
		prescriptions, err := u.prescriptionRepo.FindByDoctorID(u.db.WithContext(ctx), doctor.ID)
		if err != nil {
			return nil, err
		}
		return converter.PrescriptionsToResponses(prescriptions), nil
	}
	return nil, ErrForbidden
}

// PharmacyQueue lists prescriptions routed to the calling pharmacy,
// optionally narrowed to one status. An empty status means all.
func (u *prescriptionUsecase) PharmacyQueue(ctx context.Context, principal entity.Principal, status string) ([]*dto.PrescriptionResponse, error) {
	pharmacy, err := u.pharmacyRepo.FindByUserID(u.db.WithContext(ctx), principal.UserID)
	if err != nil {
		return nil, err
	}
	if pharmacy == nil {
		return nil, ErrPharmacyProfileNotFound
	}

	var prescriptions []entity.Prescription
	if status != "" {
		parsed, err := entity.ParsePrescriptionStatus(status)
		if err != nil {
			return nil, ErrInvalidPrescriptionStatus
		}
		prescriptions, err = u.prescriptionRepo.FindByPharmacyIDAndStatus(u.db.WithContext(ctx), pharmacy.ID, parsed)
		if err != nil {
			return nil, err
		}
	} else {
		prescriptions, err = u.prescriptionRepo.FindByPharmacyID(u.db.WithContext(ctx), pharmacy.ID)
		if err != nil {
			return nil, err
		}
	}
	return converter.PrescriptionsToResponses(prescriptions), nil
}

// UpdateStatus moves a prescription through the dispensing flow. Only a
// pharmacy may change status, and only on prescriptions routed to it.
func (u *prescriptionUsecase) UpdateStatus(ctx context.Context, principal entity.Principal, prescriptionID uuid.UUID, status string) (*dto.PrescriptionResponse, error) {
	newStatus := entity.PrescriptionStatus(status)
	switch newStatus {
	case entity.PrescriptionStatusApproved, entity.PrescriptionStatusDispensed, entity.PrescriptionStatusRejected:
	default:
		return nil, ErrInvalidPrescriptionStatus
	}

	prescription, err := u.prescriptionRepo.FindByID(u.db.WithContext(ctx), prescriptionID)
	if err != nil {
		u.log.Warnf("Failed to find prescription %s: %+v", prescriptionID, err)
		return nil, err
	}
	if prescription == nil {
		return nil, ErrPrescriptionNotFound
	}

	pharmacy, err := u.pharmacyRepo.FindByUserID(u.db.WithContext(ctx), principal.UserID)
	if err != nil {
		return nil, err
	}
	if pharmacy == nil || prescription.PharmacyID == nil || *prescription.PharmacyID != pharmacy.ID {
		return nil, ErrForbidden
	}

	prescription.Status = newStatus
	if err := u.prescriptionRepo.Update(u.db.WithContext(ctx), prescription); err != nil {
		u.log.Warnf("Failed to update prescription status: %+v", err)
		return nil, err
	}
	return converter.PrescriptionToResponse(prescription), nil
}

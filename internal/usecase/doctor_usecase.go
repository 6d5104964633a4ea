package usecase

import (
	"context"
	"errors"

	"mediconnect/internal/converter"
	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/domain/entity"
	"mediconnect/internal/domain/repository"
	"mediconnect/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrInvalidDailyLimit = errors.New("daily appointment limit must be positive")

type DoctorUsecase interface {
	List(ctx context.Context) ([]*dto.DoctorResponse, error)
	Get(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error)
	UpdateProfile(ctx context.Context, principal entity.Principal, req *dto.UpdateDoctorProfileRequest) (*dto.DoctorResponse, error)
}

type doctorUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	doctorRepo   repository.DoctorRepository
	auditService service.AuditService
}

func NewDoctorUsecase(db *gorm.DB, log *logrus.Logger, doctorRepo repository.DoctorRepository, auditService service.AuditService) DoctorUsecase {
	return &doctorUsecase{
		db:           db,
		log:          log,
		doctorRepo:   doctorRepo,
		auditService: auditService,
	}
}

func (u *doctorUsecase) List(ctx context.Context) ([]*dto.DoctorResponse, error) {
	doctors, err := u.doctorRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, err
	}

	responses := make([]*dto.DoctorResponse, 0, len(doctors))
	for i := range doctors {
		responses = append(responses, converter.DoctorToResponse(&doctors[i]))
	}
	return responses, nil
}

func (u *doctorUsecase) Get(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return converter.DoctorToResponse(doctor), nil
}

// UpdateProfile updates the caller's own doctor profile. Lowering the
// daily limit below the current booking count for some date is allowed;
// existing appointments stand and that date simply takes no further
// bookings.
func (u *doctorUsecase) UpdateProfile(ctx context.Context, principal entity.Principal, req *dto.UpdateDoctorProfileRequest) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByUserID(u.db.WithContext(ctx), principal.UserID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorProfileNotFound
	}

	if req.Specialization != "" {
		doctor.Specialization = req.Specialization
	}
	if req.Education != "" {
		doctor.Education = req.Education
	}
	if req.Experience != nil {
		doctor.Experience = *req.Experience
	}
	if req.DailyAppointmentLimit != nil {
		if *req.DailyAppointmentLimit < 1 {
			return nil, ErrInvalidDailyLimit
		}
		doctor.DailyAppointmentLimit = *req.DailyAppointmentLimit
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.doctorRepo.Update(tx, doctor); err != nil {
		u.log.Warnf("Failed to update doctor profile: %+v", err)
		return nil, err
	}

	if err := u.auditService.Record(tx, &principal.UserID, entity.AuditActionDoctorUpdate, "doctor", doctor.ID.String(), entity.JSON{
		"daily_appointment_limit": doctor.DailyAppointmentLimit,
	}); err != nil {
		u.log.Warnf("Failed to audit profile update: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.DoctorToResponse(doctor), nil
}

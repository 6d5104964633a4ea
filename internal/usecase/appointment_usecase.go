package usecase

import (
	"context"
	"errors"
	"time"

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
	ErrDoctorNotFound         = errors.New("doctor not found")
	ErrPatientProfileNotFound = errors.New("patient profile not found")
	ErrDoctorProfileNotFound  = errors.New("doctor profile not found")
	ErrAppointmentNotFound    = errors.New("appointment not found")
	ErrCapacityExceeded       = errors.New("doctor has reached daily appointment limit")
	ErrInvalidStatus          = errors.New("invalid status value")
	ErrInvalidType            = errors.New("invalid appointment type")
	ErrForbidden              = errors.New("not authorized for this resource")
)

type AppointmentUsecase interface {
	Book(ctx context.Context, principal entity.Principal, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, principal entity.Principal, appointmentID uuid.UUID) error
	UpdateStatus(ctx context.Context, principal entity.Principal, appointmentID uuid.UUID, status string) (*dto.AppointmentResponse, error)
	MyAppointments(ctx context.Context, principal entity.Principal) ([]*dto.AppointmentResponse, error)
	Upcoming(ctx context.Context, principal entity.Principal) ([]*dto.AppointmentResponse, error)
	DoctorBooked(ctx context.Context, principal entity.Principal, status string) ([]*dto.AppointmentResponse, error)
	CanBook(ctx context.Context, doctorID uuid.UUID, date time.Time) (bool, error)
	DashboardStats(ctx context.Context, principal entity.Principal) (*dto.DashboardStatsResponse, error)
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	doctorRepo      repository.DoctorRepository
	patientRepo     repository.PatientRepository
	guard           *service.CapacityGuard
	auditService    service.AuditService
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	patientRepo repository.PatientRepository,
	guard *service.CapacityGuard,
	auditService service.AuditService,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		patientRepo:     patientRepo,
		guard:           guard,
		auditService:    auditService,
	}
}

// Book creates an appointment if the doctor still has capacity on the
// requested calendar date.
//
// The count-then-insert sequence runs under the per-(doctor, date) lock
// of the capacity guard, inside one transaction: of N concurrent
// bookings for the last k free slots, exactly k succeed and the rest
// fail with ErrCapacityExceeded. A failed booking creates nothing.
func (u *appointmentUsecase) Book(ctx context.Context, principal entity.Principal, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error) {
	when, err := parseAppointmentDate(req.AppointmentDate)
	if err != nil {
		return nil, err
	}

	appointmentType, err := entity.ParseAppointmentType(req.AppointmentType)
	if err != nil {
		return nil, ErrInvalidType
	}

	patient, err := u.patientRepo.FindByUserID(u.db.WithContext(ctx), principal.UserID)
	if err != nil {
		u.log.Warnf("Failed to find patient profile: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientProfileNotFound
	}

	doctor, err := u.doctorRepo.FindByID(u.db.WithContext(ctx), req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", req.DoctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	unlock := u.guard.Lock(doctor.ID, when)
	defer unlock()

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	count, err := u.appointmentRepo.CountByDoctorIDAndDate(tx, doctor.ID, when)
	if err != nil {
		u.log.Warnf("Failed to count appointments for doctor %s: %+v", doctor.ID, err)
		return nil, err
	}
	if count >= int64(doctor.DailyAppointmentLimit) {
		return nil, ErrCapacityExceeded
	}

	appointment := &entity.Appointment{
		PatientID:       patient.ID,
		DoctorID:        doctor.ID,
		AppointmentDate: when,
		AppointmentType: appointmentType,
		Status:          entity.AppointmentStatusScheduled,
		Reason:          req.Reason,
	}

	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	if err := u.auditService.Record(tx, &principal.UserID, entity.AuditActionAppointmentBook, "appointment", appointment.ID.String(), entity.JSON{
		"doctor_id": doctor.ID.String(),
		"date":      when.Format(time.RFC3339),
	}); err != nil {
		u.log.Warnf("Failed to audit booking: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	full, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointment.ID)
	if err != nil || full == nil {
		u.log.Warnf("Failed to reload appointment %s: %+v", appointment.ID, err)
		return converter.AppointmentToResponse(appointment), nil
	}

	u.log.Infof("Appointment booked: id=%s, doctor=%s, date=%s", appointment.ID, doctor.ID, when.Format("2006-01-02"))
	return converter.AppointmentToResponse(full), nil
}

// Cancel marks the appointment CANCELLED. Cancelled rows stay in the
// store but no longer occupy a capacity slot; capacity is always
// recomputed live on the next booking.
func (u *appointmentUsecase) Cancel(ctx context.Context, principal entity.Principal, appointmentID uuid.UUID) error {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return err
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}

	if !policy.CanModifyAppointment(principal, appointment.Patient.UserID, appointment.Doctor.UserID) {
		return ErrForbidden
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if _, err := u.appointmentRepo.UpdateStatus(tx, appointmentID, entity.AppointmentStatusCancelled); err != nil {
		u.log.Warnf("Failed to cancel appointment %s: %+v", appointmentID, err)
		return err
	}

	if err := u.auditService.Record(tx, &principal.UserID, entity.AuditActionAppointmentCancel, "appointment", appointmentID.String(), nil); err != nil {
		u.log.Warnf("Failed to audit cancellation: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.log.Infof("Appointment cancelled: id=%s", appointmentID)
	return nil
}

// UpdateStatus validates membership in the status enum and persists the
// new value. No transition table is enforced; any status may follow any
// other.
func (u *appointmentUsecase) UpdateStatus(ctx context.Context, principal entity.Principal, appointmentID uuid.UUID, status string) (*dto.AppointmentResponse, error) {
	newStatus, err := entity.ParseAppointmentStatus(status)
	if err != nil {
		return nil, ErrInvalidStatus
	}

	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	if !policy.CanModifyAppointment(principal, appointment.Patient.UserID, appointment.Doctor.UserID) {
		return nil, ErrForbidden
	}

	previous := appointment.Status

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if _, err := u.appointmentRepo.UpdateStatus(tx, appointmentID, newStatus); err != nil {
		u.log.Warnf("Failed to update appointment status: %+v", err)
		return nil, err
	}

	if err := u.auditService.Record(tx, &principal.UserID, entity.AuditActionAppointmentStatus, "appointment", appointmentID.String(), entity.JSON{
		"old_status": string(previous),
		"new_status": string(newStatus),
	}); err != nil {
		u.log.Warnf("Failed to audit status update: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	appointment.Status = newStatus
	return converter.AppointmentToResponse(appointment), nil
}

// MyAppointments lists appointments scoped by the caller's own profile
// id; the client never supplies one.
func (u *appointmentUsecase) MyAppointments(ctx context.Context, principal entity.Principal) ([]*dto.AppointmentResponse, error) {
	switch principal.Role {
	case entity.RolePatient:
		patient, err := u.patientRepo.FindByUserID(u.db.WithContext(ctx), principal.UserID)
		if err != nil {
			return nil, err
		}
		if patient == nil {
			return nil, ErrPatientProfileNotFound
		}
		appointments, err := u.appointmentRepo.FindByPatientID(u.db.WithContext(ctx), patient.ID)
		if err != nil {
			return nil, err
		}
		return converter.AppointmentsToResponses(appointments), nil

	case entity.RoleDoctor:
		doctor, err := u.doctorRepo.FindByUserID(u.db.WithContext(ctx), principal.UserID)
		if err != nil {
			return nil, err
		}
		if doctor == nil {
			return nil, ErrDoctorProfileNotFound
		}
		appointments, err := u.appointmentRepo.FindByDoctorID(u.db.WithContext(ctx), doctor.ID)
		if err != nil {
			return nil, err
		}
		return converter.AppointmentsToResponses(appointments), nil
	}
	return nil, ErrForbidden
}

// Upcoming is computed against the moment of the call, so repeated
// calls reflect the passage of time.
func (u *appointmentUsecase) Upcoming(ctx context.Context, principal entity.Principal) ([]*dto.AppointmentResponse, error) {
	now := time.Now()

	switch principal.Role {
	case entity.RolePatient:
		patient, err := u.patientRepo.FindByUserID(u.db.WithContext(ctx), principal.UserID)
		if err != nil {
			return nil, err
		}
		if patient == nil {
			return nil, ErrPatientProfileNotFound
		}
		appointments, err := u.appointmentRepo.FindUpcomingByPatientID(u.db.WithContext(ctx), patient.ID, now)
		if err != nil {
			return nil, err
		}
		return converter.AppointmentsToResponses(appointments), nil

	case entity.RoleDoctor:
		doctor, err := u.doctorRepo.FindByUserID(u.db.WithContext(ctx), principal.UserID)
		if err != nil {
			return nil, err
		}
		if doctor == nil {
			return nil, ErrDoctorProfileNotFound
		}
		appointments, err := u.appointmentRepo.FindUpcomingByDoctorID(u.db.WithContext(ctx), doctor.ID, now)
		if err != nil {
			return nil, err
		}
		return converter.AppointmentsToResponses(appointments), nil
	}
	return nil, ErrForbidden
}

// DoctorBooked lists the calling doctor's appointments, optionally
// narrowed to one lifecycle status. An empty status means all.
func (u *appointmentUsecase) DoctorBooked(ctx context.Context, principal entity.Principal, status string) ([]*dto.AppointmentResponse, error) {
	doctor, err := u.doctorRepo.FindByUserID(u.db.WithContext(ctx), principal.UserID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorProfileNotFound
	}

	var appointments []entity.Appointment
	if status != "" {
		parsed, err := entity.ParseAppointmentStatus(status)
		if err != nil {
			return nil, ErrInvalidStatus
		}
		appointments, err = u.appointmentRepo.FindByDoctorIDAndStatus(u.db.WithContext(ctx), doctor.ID, parsed)
		if err != nil {
			return nil, err
		}
	} else {
		appointments, err = u.appointmentRepo.FindByDoctorID(u.db.WithContext(ctx), doctor.ID)
		if err != nil {
			return nil, err
		}
	}
	return converter.AppointmentsToResponses(appointments), nil
}

// CanBook answers availability previews with the exact counting rule of
// the booking path, so a preview never shows a slot that booking would
// then refuse. An unknown doctor is simply not bookable.
func (u *appointmentUsecase) CanBook(ctx context.Context, doctorID uuid.UUID, date time.Time) (bool, error) {
	doctor, err := u.doctorRepo.FindByID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		return false, err
	}
	if doctor == nil {
		return false, nil
	}

	count, err := u.appointmentRepo.CountByDoctorIDAndDate(u.db.WithContext(ctx), doctorID, date)
	if err != nil {
		return false, err
	}
	return count < int64(doctor.DailyAppointmentLimit), nil
}

func (u *appointmentUsecase) DashboardStats(ctx context.Context, principal entity.Principal) (*dto.DashboardStatsResponse, error) {
	stats := &dto.DashboardStatsResponse{}
	now := time.Now()

	switch principal.Role {
	case entity.RolePatient:
		patient, err := u.patientRepo.FindByUserID(u.db.WithContext(ctx), principal.UserID)
		if err != nil {
			return nil, err
		}
		if patient == nil {
			return nil, ErrPatientProfileNotFound
		}
		appointments, err := u.appointmentRepo.FindByPatientID(u.db.WithContext(ctx), patient.ID)
		if err != nil {
			return nil, err
		}
		stats.TotalAppointments = len(appointments)
		for _, a := range appointments {
			if a.AppointmentDate.After(now) && !a.IsCancelled() {
				stats.UpcomingAppointments++
			}
			if a.Status == entity.AppointmentStatusCompleted {
				stats.CompletedAppointments++
			}
		}
		return stats, nil

	case entity.RoleDoctor:
		doctor, err := u.doctorRepo.FindByUserID(u.db.WithContext(ctx), principal.UserID)
		if err != nil {
			return nil, err
		}
		if doctor == nil {
			return nil, ErrDoctorProfileNotFound
		}
		appointments, err := u.appointmentRepo.FindByDoctorID(u.db.WithContext(ctx), doctor.ID)
		if err != nil {
			return nil, err
		}
		stats.TotalAppointments = len(appointments)
		patients := make(map[uuid.UUID]struct{})
		for _, a := range appointments {
			patients[a.PatientID] = struct{}{}
		}
		stats.PatientCount = len(patients)

		todays, err := u.appointmentRepo.FindByDoctorIDAndDate(u.db.WithContext(ctx), doctor.ID, now)
		if err != nil {
			return nil, err
		}
		stats.TodayAppointments = len(todays)
		return stats, nil
	}
	return nil, ErrForbidden
}

// parseAppointmentDate accepts RFC 3339 or a bare local datetime.
func parseAppointmentDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDateFormat
}

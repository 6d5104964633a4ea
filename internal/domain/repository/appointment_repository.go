package repository

import (
	"time"

	"mediconnect/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentRepository is the record store behind the scheduling
// engine. Date-scoped operations work on the calendar date of the
// appointment timestamp; counting excludes CANCELLED rows so freed
// slots become bookable again.
type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error)
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Appointment, error)
	FindUpcomingByPatientID(db *gorm.DB, patientID uuid.UUID, from time.Time) ([]entity.Appointment, error)
	FindUpcomingByDoctorID(db *gorm.DB, doctorID uuid.UUID, from time.Time) ([]entity.Appointment, error)
	FindByDoctorIDAndDate(db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]entity.Appointment, error)
	CountByDoctorIDAndDate(db *gorm.DB, doctorID uuid.UUID, date time.Time) (int64, error)
	FindByDoctorIDAndStatus(db *gorm.DB, doctorID uuid.UUID, status entity.AppointmentStatus) ([]entity.Appointment, error)
	UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.AppointmentStatus) (int64, error)
}

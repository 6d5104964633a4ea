package entity

import (
	"time"

	"github.com/google/uuid"
)

// DefaultDailyAppointmentLimit is applied when a doctor registers
// without an explicit limit.
const DefaultDailyAppointmentLimit = 10

// Doctor represents a provider profile. DailyAppointmentLimit caps the
// number of non-cancelled appointments the scheduling engine will
// accept for a single calendar date.
type Doctor struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID                uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	LicenseNumber         string    `gorm:"type:varchar(100);not null" json:"license_number"`
	Specialization        string    `gorm:"type:varchar(100);not null;index" json:"specialization"`
	Experience            int       `json:"experience"`
	Education             string    `gorm:"type:text" json:"education,omitempty"`
	DailyAppointmentLimit int       `gorm:"not null;default:10" json:"daily_appointment_limit"`
	CreatedAt             time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}

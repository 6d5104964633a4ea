package entity

import (
	"time"

	"github.com/google/uuid"
)

// Patient represents patient demographic data linked 1:1 to a User.
type Patient struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID           uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	DateOfBirth      *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	Gender           string     `gorm:"type:varchar(20)" json:"gender,omitempty"`
	Phone            string     `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Address          string     `gorm:"type:text" json:"address,omitempty"`
	EmergencyContact string     `gorm:"type:text" json:"emergency_contact,omitempty"`
	MedicalHistory   string     `gorm:"type:text" json:"medical_history,omitempty"`
	Allergies        string     `gorm:"type:text" json:"allergies,omitempty"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Patient) TableName() string {
	return "patients"
}

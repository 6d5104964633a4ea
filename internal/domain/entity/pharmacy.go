package entity

import (
	"time"

	"github.com/google/uuid"
)

// Pharmacy represents a dispensing pharmacy profile linked 1:1 to a User.
type Pharmacy struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	LicenseNumber string    `gorm:"type:varchar(100);not null" json:"license_number"`
	Address       string    `gorm:"type:text" json:"address,omitempty"`
	Phone         string    `gorm:"type:varchar(30)" json:"phone,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Pharmacy) TableName() string {
	return "pharmacies"
}

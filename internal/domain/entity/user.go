package entity

import (
	"time"

	"github.com/google/uuid"
)

// User represents the centralized authentication record. Email is
// stored lowercased so lookups are case-insensitive.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:text;not null" json:"-"`
	FirstName    string    `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName     string    `gorm:"type:varchar(100);not null" json:"last_name"`
	Role         Role      `gorm:"type:varchar(20);not null;index" json:"role"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor   *Doctor   `gorm:"foreignKey:UserID" json:"doctor,omitempty"`
	Patient  *Patient  `gorm:"foreignKey:UserID" json:"patient,omitempty"`
	Pharmacy *Pharmacy `gorm:"foreignKey:UserID" json:"pharmacy,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

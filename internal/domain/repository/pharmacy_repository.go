package repository

import (
	"mediconnect/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PharmacyRepository interface {
	Create(db *gorm.DB, pharmacy *entity.Pharmacy) error
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Pharmacy, error)
}

package repository

import (
	"errors"

	"mediconnect/internal/domain/entity"
	domainRepo "mediconnect/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type pharmacyRepository struct{}

func NewPharmacyRepository() domainRepo.PharmacyRepository {
	return &pharmacyRepository{}
}

func (r *pharmacyRepository) Create(db *gorm.DB, pharmacy *entity.Pharmacy) error {
	return db.Create(pharmacy).Error
}

func (r *pharmacyRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Pharmacy, error) {
	var pharmacy entity.Pharmacy
	err := db.Preload("User").Where("user_id = ?", userID).First(&pharmacy).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pharmacy, nil
}

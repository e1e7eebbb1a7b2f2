package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nutriplan/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SupplementService struct {
	db *gorm.DB
}

func NewSupplementService(db *gorm.DB) *SupplementService {
	return &SupplementService{db: db}
}

type SupplementUpdate struct {
	SupplementName *string
	NutrientInfo   datatypes.JSON
}

func (s *SupplementService) Add(ctx context.Context, userID uint, name string, nutrientInfo datatypes.JSON) (*models.FixedSupplement, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: supplement_name is required", ErrInvalidInput)
	}
	if len(nutrientInfo) == 0 {
		return nil, fmt.Errorf("%w: nutrient_info is required", ErrInvalidInput)
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, err
	}

	supplement := models.FixedSupplement{
		UserID:         userID,
		SupplementName: name,
		NutrientInfo:   nutrientInfo,
	}
	if err := s.db.WithContext(ctx).Create(&supplement).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: supplement already exists for this user", ErrConflict)
		}
		return nil, err
	}
	return &supplement, nil
}

func (s *SupplementService) ListForUser(ctx context.Context, userID uint) ([]models.FixedSupplement, error) {
	var supplements []models.FixedSupplement
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&supplements).Error
	return supplements, err
}

func (s *SupplementService) Update(ctx context.Context, supplementID uint, upd SupplementUpdate) (*models.FixedSupplement, error) {
	if upd.SupplementName != nil && strings.TrimSpace(*upd.SupplementName) == "" {
		return nil, fmt.Errorf("%w: supplement_name cannot be empty", ErrInvalidInput)
	}

	var supplement models.FixedSupplement
	if err := s.db.WithContext(ctx).First(&supplement, supplementID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: supplement %d", ErrNotFound, supplementID)
		}
		return nil, err
	}

	if upd.SupplementName != nil {
		supplement.SupplementName = strings.TrimSpace(*upd.SupplementName)
	}
	if len(upd.NutrientInfo) > 0 {
		supplement.NutrientInfo = upd.NutrientInfo
	}

	if err := s.db.WithContext(ctx).Save(&supplement).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: supplement already exists for this user", ErrConflict)
		}
		return nil, err
	}
	return &supplement, nil
}

func (s *SupplementService) Delete(ctx context.Context, supplementID uint) error {
	var supplement models.FixedSupplement
	if err := s.db.WithContext(ctx).First(&supplement, supplementID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: supplement %d", ErrNotFound, supplementID)
		}
		return err
	}
	return s.db.WithContext(ctx).Delete(&supplement).Error
}

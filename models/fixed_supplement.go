package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FixedSupplement is a supplement the user takes every day regardless of the
// generated plan. One row per (user, supplement name).
type FixedSupplement struct {
	gorm.Model
	UserID         uint           `gorm:"uniqueIndex:idx_user_supplement;not null" json:"user_id"`
	User           User           `json:"-"`
	SupplementName string         `gorm:"uniqueIndex:idx_user_supplement;not null" json:"supplement_name"`
	NutrientInfo   datatypes.JSON `gorm:"not null" json:"nutrient_info"`
}

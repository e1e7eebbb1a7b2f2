package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MealPlan is the stored generation result, at most one per daily log.
// DailyLogID carries the unique index that makes plan creation a
// compare-and-insert: a lost race surfaces as a duplicate-key error, never as
// a second row.
type MealPlan struct {
	gorm.Model
	DailyLogID  uint           `gorm:"uniqueIndex;not null" json:"daily_log_id"`
	DailyLog    DailyLog       `json:"-"`
	PlanDetails datatypes.JSON `gorm:"not null" json:"plan_details"`
	GeneratedAt time.Time      `gorm:"not null" json:"generated_at"`
}

package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Activity levels accepted on both the profile and the daily log.
const (
	ActivitySedentary  = "sedentary"
	ActivityLight      = "light"
	ActivityModerate   = "moderate"
	ActivityActive     = "active"
	ActivityVeryActive = "very_active"
)

func ValidActivityLevel(level string) bool {
	switch level {
	case ActivitySedentary, ActivityLight, ActivityModerate, ActivityActive, ActivityVeryActive:
		return true
	}
	return false
}

type User struct {
	gorm.Model
	Height             float64        `gorm:"not null" json:"height"`  // cm
	Weight             float64        `gorm:"not null" json:"weight"`  // kg
	Age                int            `gorm:"not null" json:"age"`
	ActivityLevel      string         `gorm:"not null" json:"activity_level"`
	DesiredWeight      float64        `gorm:"not null" json:"desired_weight"` // kg
	GoalTimePeriod     int            `gorm:"not null" json:"goal_time_period"` // weeks
	GeographicalRegion string         `gorm:"not null" json:"geographical_region"`
	FoodPreferences    datatypes.JSON `json:"food_preferences"`
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// Metric ranges accepted by the registry.
const (
	SleepScoreMin = 0
	SleepScoreMax = 100
	HeartRateMin  = 30
	HeartRateMax  = 200
)

// DailyLog is one health check-in per user per calendar day. The composite
// unique index is the consistency guarantee; application-level pre-checks are
// only there for friendlier messages.
type DailyLog struct {
	gorm.Model
	UserID                uint      `gorm:"uniqueIndex:idx_user_date;not null" json:"user_id"`
	User                  User      `json:"-"`
	Date                  time.Time `gorm:"uniqueIndex:idx_user_date;not null" json:"date"` // truncated to YYYY-MM-DD
	ExpectedActivityLevel string    `gorm:"not null" json:"expected_activity_level"`
	SleepScore            int       `gorm:"not null" json:"sleep_score"`
	RestingHeartRate      int       `gorm:"not null" json:"resting_heart_rate"`
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nutriplan/models"

	"gorm.io/gorm"
)

type DailyLogService struct {
	db *gorm.DB
}

func NewDailyLogService(db *gorm.DB) *DailyLogService {
	return &DailyLogService{db: db}
}

type DailyLogInput struct {
	UserID                uint
	Date                  *time.Time // nil means today
	ExpectedActivityLevel string
	SleepScore            int
	RestingHeartRate      int
}

// DailyLogUpdate carries a partial update; nil fields are left untouched.
type DailyLogUpdate struct {
	Date                  *time.Time
	ExpectedActivityLevel *string
	SleepScore            *int
	RestingHeartRate      *int
}

// dayStart truncates a timestamp to its calendar day. Logs are keyed by day,
// not by instant.
func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func validateActivityLevel(level string) error {
	if !models.ValidActivityLevel(level) {
		return fmt.Errorf("%w: activity level must be one of sedentary, light, moderate, active, very_active", ErrInvalidInput)
	}
	return nil
}

func validateSleepScore(score int) error {
	if score < models.SleepScoreMin || score > models.SleepScoreMax {
		return fmt.Errorf("%w: sleep_score must be between %d and %d", ErrInvalidInput, models.SleepScoreMin, models.SleepScoreMax)
	}
	return nil
}

func validateHeartRate(rate int) error {
	if rate < models.HeartRateMin || rate > models.HeartRateMax {
		return fmt.Errorf("%w: resting_heart_rate must be between %d and %d", ErrInvalidInput, models.HeartRateMin, models.HeartRateMax)
	}
	return nil
}

// Create validates the metrics, confirms the user exists and inserts the log.
// The existence pre-check gives the friendly duplicate message; the
// (user_id, date) unique index is what actually guarantees one log per day
// when two creators race.
func (s *DailyLogService) Create(ctx context.Context, in DailyLogInput) (*models.DailyLog, error) {
	if err := validateActivityLevel(in.ExpectedActivityLevel); err != nil {
		return nil, err
	}
	if err := validateSleepScore(in.SleepScore); err != nil {
		return nil, err
	}
	if err := validateHeartRate(in.RestingHeartRate); err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, in.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, in.UserID)
		}
		return nil, err
	}

	date := dayStart(time.Now())
	if in.Date != nil {
		date = dayStart(*in.Date)
	}

	var existing models.DailyLog
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", in.UserID, date).
		First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("%w: daily log already exists for this date", ErrConflict)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	log := models.DailyLog{
		UserID:                in.UserID,
		Date:                  date,
		ExpectedActivityLevel: in.ExpectedActivityLevel,
		SleepScore:            in.SleepScore,
		RestingHeartRate:      in.RestingHeartRate,
	}
	if err := s.db.WithContext(ctx).Create(&log).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: daily log already exists for this date", ErrConflict)
		}
		return nil, err
	}
	return &log, nil
}

// Update applies a partial update, re-validating every field that is present.
func (s *DailyLogService) Update(ctx context.Context, logID uint, upd DailyLogUpdate) (*models.DailyLog, error) {
	if upd.ExpectedActivityLevel != nil {
		if err := validateActivityLevel(*upd.ExpectedActivityLevel); err != nil {
			return nil, err
		}
	}
	if upd.SleepScore != nil {
		if err := validateSleepScore(*upd.SleepScore); err != nil {
			return nil, err
		}
	}
	if upd.RestingHeartRate != nil {
		if err := validateHeartRate(*upd.RestingHeartRate); err != nil {
			return nil, err
		}
	}

	var log models.DailyLog
	if err := s.db.WithContext(ctx).First(&log, logID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: daily log %d", ErrNotFound, logID)
		}
		return nil, err
	}

	if upd.Date != nil {
		log.Date = dayStart(*upd.Date)
	}
	if upd.ExpectedActivityLevel != nil {
		log.ExpectedActivityLevel = *upd.ExpectedActivityLevel
	}
	if upd.SleepScore != nil {
		log.SleepScore = *upd.SleepScore
	}
	if upd.RestingHeartRate != nil {
		log.RestingHeartRate = *upd.RestingHeartRate
	}

	if err := s.db.WithContext(ctx).Save(&log).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: daily log already exists for this date", ErrConflict)
		}
		return nil, err
	}
	return &log, nil
}

// Get returns the log for (userID, date), matching on the calendar day.
func (s *DailyLogService) Get(ctx context.Context, userID uint, date time.Time) (*models.DailyLog, error) {
	var log models.DailyLog
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, dayStart(date)).
		First(&log).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: daily log", ErrNotFound)
		}
		return nil, err
	}
	return &log, nil
}

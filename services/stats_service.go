package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"nutriplan/models"
	"nutriplan/utils"

	"gorm.io/gorm"
)

const (
	defaultStatsWindowDays = 30
	recentPlanLimit        = 5
)

type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

type PlanSummary struct {
	Date           time.Time             `json:"date"`
	TotalCalories  float64               `json:"totalCalories"`
	Macronutrients models.Macronutrients `json:"macronutrients"`
}

type LogSummary struct {
	Date             time.Time `json:"date"`
	SleepScore       int       `json:"sleep_score"`
	RestingHeartRate int       `json:"resting_heart_rate"`
	ActivityLevel    string    `json:"activity_level"`
}

// UserStats is the rolling-window report. The averages are nil, not zero,
// when no logs fall inside the window; clients must be able to tell "slept
// terribly" apart from "never logged".
type UserStats struct {
	TotalDaysLogged        int            `json:"totalDaysLogged"`
	AverageSleepScore      *float64       `json:"averageSleepScore"`
	AverageHeartRate       *float64       `json:"averageHeartRate"`
	ActivityLevelBreakdown map[string]int `json:"activityLevelBreakdown"`
	RecentMealPlans        []PlanSummary  `json:"recentMealPlans"`
	RecentLogs             []LogSummary   `json:"recentLogs"`
	BMI                    *float64       `json:"bmi,omitempty"`
	BMICategory            string         `json:"bmiCategory,omitempty"`
	WeeklyWeightChangeKg   *float64       `json:"weeklyWeightChangeKg,omitempty"`
}

// Compute aggregates the user's logs over the trailing window (ascending by
// date) and attaches the newest plan summaries for trend display.
func (s *StatsService) Compute(ctx context.Context, userID uint, windowDays int) (*UserStats, error) {
	if windowDays <= 0 {
		windowDays = defaultStatsWindowDays
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, err
	}

	since := dayStart(time.Now().AddDate(0, 0, -windowDays))
	var logs []models.DailyLog
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ?", userID, since).
		Order("date ASC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}

	stats := &UserStats{
		TotalDaysLogged:        len(logs),
		ActivityLevelBreakdown: map[string]int{},
		RecentMealPlans:        []PlanSummary{},
		RecentLogs:             make([]LogSummary, 0, len(logs)),
	}

	var sleepSum, heartSum float64
	for _, log := range logs {
		sleepSum += float64(log.SleepScore)
		heartSum += float64(log.RestingHeartRate)
		stats.ActivityLevelBreakdown[log.ExpectedActivityLevel]++
		stats.RecentLogs = append(stats.RecentLogs, LogSummary{
			Date:             log.Date,
			SleepScore:       log.SleepScore,
			RestingHeartRate: log.RestingHeartRate,
			ActivityLevel:    log.ExpectedActivityLevel,
		})
	}
	if n := len(logs); n > 0 {
		avgSleep := sleepSum / float64(n)
		avgHeart := heartSum / float64(n)
		stats.AverageSleepScore = &avgSleep
		stats.AverageHeartRate = &avgHeart
	}

	plans, err := s.recentPlanSummaries(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.RecentMealPlans = plans

	if bmi, err := utils.CalculateBMI(user.Height, user.Weight); err == nil {
		stats.BMI = &bmi
		stats.BMICategory = utils.BMICategory(bmi)
	}
	if pace, err := utils.WeeklyWeightChange(user.Weight, user.DesiredWeight, user.GoalTimePeriod); err == nil {
		stats.WeeklyWeightChangeKg = &pace
	}

	return stats, nil
}

func (s *StatsService) recentPlanSummaries(ctx context.Context, userID uint) ([]PlanSummary, error) {
	var plans []models.MealPlan
	err := s.db.WithContext(ctx).
		Joins("JOIN daily_logs ON daily_logs.id = meal_plans.daily_log_id AND daily_logs.deleted_at IS NULL").
		Where("daily_logs.user_id = ?", userID).
		Order("meal_plans.created_at DESC, meal_plans.id DESC").
		Limit(recentPlanLimit).
		Find(&plans).Error
	if err != nil {
		return nil, err
	}

	out := make([]PlanSummary, 0, len(plans))
	for _, plan := range plans {
		var details models.PlanDetails
		if err := json.Unmarshal(plan.PlanDetails, &details); err != nil {
			continue
		}
		out = append(out, PlanSummary{
			Date:           plan.CreatedAt,
			TotalCalories:  details.TotalCalories,
			Macronutrients: details.Macronutrients,
		})
	}
	return out, nil
}

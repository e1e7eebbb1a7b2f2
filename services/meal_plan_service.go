package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"nutriplan/models"
	"nutriplan/pkg/logger"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MealPlanService struct {
	db      *gorm.DB
	gen     PlanGenerator
	timeout time.Duration
	log     *logger.Logger
}

func NewMealPlanService(db *gorm.DB, gen PlanGenerator, timeout time.Duration, log *logger.Logger) *MealPlanService {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &MealPlanService{db: db, gen: gen, timeout: timeout, log: log}
}

// Generate creates the meal plan for a daily log. Strictly create-once: a log
// that already has a plan is a conflict, and a failed generation leaves no row
// behind. No database lock is held while the generator call is in flight; the
// unique index on daily_log_id settles any race at insert time.
func (s *MealPlanService) Generate(ctx context.Context, dailyLogID uint) (*models.MealPlan, error) {
	var dailyLog models.DailyLog
	err := s.db.WithContext(ctx).Preload("User").First(&dailyLog, dailyLogID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: daily log %d", ErrNotFound, dailyLogID)
		}
		return nil, err
	}

	var existing models.MealPlan
	err = s.db.WithContext(ctx).Where("daily_log_id = ?", dailyLogID).First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("%w: meal plan already exists for this daily log", ErrConflict)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	history, err := s.recentPlans(ctx, dailyLog.UserID, historyLimit)
	if err != nil {
		return nil, err
	}

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	details, err := s.gen.Generate(genCtx, &dailyLog.User, &dailyLog, history)
	if err != nil {
		s.log.Warnw("meal plan generation failed", "daily_log_id", dailyLogID, "error", err)
		if errors.Is(err, ErrGenerationFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	raw, err := json.Marshal(details)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	plan := models.MealPlan{
		DailyLogID:  dailyLogID,
		PlanDetails: datatypes.JSON(raw),
		GeneratedAt: time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: meal plan already exists for this daily log", ErrConflict)
		}
		return nil, err
	}

	s.log.Infow("meal plan generated",
		"daily_log_id", dailyLogID, "user_id", dailyLog.UserID, "total_calories", details.TotalCalories)
	return &plan, nil
}

// Update replaces the plan document and resets generated_at. It never calls
// the generator; that is what makes regeneration an explicit, separate act.
func (s *MealPlanService) Update(ctx context.Context, planID uint, details models.PlanDetails) (*models.MealPlan, error) {
	if details.TotalCalories <= 0 {
		return nil, fmt.Errorf("%w: totalCalories must be positive", ErrInvalidInput)
	}
	if len(details.Meals) == 0 {
		return nil, fmt.Errorf("%w: plan must contain at least one meal", ErrInvalidInput)
	}

	var plan models.MealPlan
	if err := s.db.WithContext(ctx).First(&plan, planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: meal plan %d", ErrNotFound, planID)
		}
		return nil, err
	}

	raw, err := json.Marshal(details)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	plan.PlanDetails = datatypes.JSON(raw)
	plan.GeneratedAt = time.Now()

	if err := s.db.WithContext(ctx).Save(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (s *MealPlanService) GetByDailyLog(ctx context.Context, dailyLogID uint) (*models.MealPlan, error) {
	var plan models.MealPlan
	err := s.db.WithContext(ctx).
		Preload("DailyLog").
		Preload("DailyLog.User").
		Where("daily_log_id = ?", dailyLogID).
		First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: meal plan for daily log %d", ErrNotFound, dailyLogID)
		}
		return nil, err
	}
	return &plan, nil
}

// recentPlans is the history provider: the user's newest plans, traversing
// meal_plans -> daily_logs -> user. An empty result is valid context.
func (s *MealPlanService) recentPlans(ctx context.Context, userID uint, limit int) ([]models.MealPlan, error) {
	var plans []models.MealPlan
	err := s.db.WithContext(ctx).
		Joins("JOIN daily_logs ON daily_logs.id = meal_plans.daily_log_id AND daily_logs.deleted_at IS NULL").
		Where("daily_logs.user_id = ?", userID).
		Order("meal_plans.created_at DESC, meal_plans.id DESC").
		Limit(limit).
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

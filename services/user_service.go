package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"nutriplan/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

type RegisterInput struct {
	Height             float64
	Weight             float64
	Age                int
	ActivityLevel      string
	DesiredWeight      float64
	GoalTimePeriod     int
	GeographicalRegion string
	FoodPreferences    datatypes.JSON
}

type ProfileUpdate struct {
	Height             *float64
	Weight             *float64
	Age                *int
	ActivityLevel      *string
	DesiredWeight      *float64
	GoalTimePeriod     *int
	GeographicalRegion *string
	FoodPreferences    datatypes.JSON
}

type UserFilter struct {
	ActivityLevel string
	Region        string
	WeightRange   string // "min-max"
	AgeRange      string // "min-max"
	Page          int
	Limit         int
}

type UserPage struct {
	Users       []models.User `json:"users"`
	Total       int64         `json:"total"`
	CurrentPage int           `json:"currentPage"`
	TotalPages  int           `json:"totalPages"`
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Height <= 0 || in.Weight <= 0 || in.DesiredWeight <= 0 {
		return nil, fmt.Errorf("%w: height, weight and desired_weight must be positive", ErrInvalidInput)
	}
	if in.Age <= 0 {
		return nil, fmt.Errorf("%w: age must be positive", ErrInvalidInput)
	}
	if in.GoalTimePeriod <= 0 {
		return nil, fmt.Errorf("%w: goal_time_period must be a positive number of weeks", ErrInvalidInput)
	}
	if strings.TrimSpace(in.GeographicalRegion) == "" {
		return nil, fmt.Errorf("%w: geographical_region is required", ErrInvalidInput)
	}
	if err := validateActivityLevel(in.ActivityLevel); err != nil {
		return nil, err
	}

	prefs := in.FoodPreferences
	if len(prefs) == 0 {
		prefs = datatypes.JSON([]byte("{}"))
	}

	user := models.User{
		Height:             in.Height,
		Weight:             in.Weight,
		Age:                in.Age,
		ActivityLevel:      in.ActivityLevel,
		DesiredWeight:      in.DesiredWeight,
		GoalTimePeriod:     in.GoalTimePeriod,
		GeographicalRegion: in.GeographicalRegion,
		FoodPreferences:    prefs,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) Update(ctx context.Context, id uint, upd ProfileUpdate) (*models.User, error) {
	if upd.ActivityLevel != nil {
		if err := validateActivityLevel(*upd.ActivityLevel); err != nil {
			return nil, err
		}
	}
	if upd.Height != nil && *upd.Height <= 0 {
		return nil, fmt.Errorf("%w: height must be positive", ErrInvalidInput)
	}
	if upd.Weight != nil && *upd.Weight <= 0 {
		return nil, fmt.Errorf("%w: weight must be positive", ErrInvalidInput)
	}
	if upd.DesiredWeight != nil && *upd.DesiredWeight <= 0 {
		return nil, fmt.Errorf("%w: desired_weight must be positive", ErrInvalidInput)
	}
	if upd.Age != nil && *upd.Age <= 0 {
		return nil, fmt.Errorf("%w: age must be positive", ErrInvalidInput)
	}
	if upd.GoalTimePeriod != nil && *upd.GoalTimePeriod <= 0 {
		return nil, fmt.Errorf("%w: goal_time_period must be positive", ErrInvalidInput)
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		return nil, err
	}

	if upd.Height != nil {
		user.Height = *upd.Height
	}
	if upd.Weight != nil {
		user.Weight = *upd.Weight
	}
	if upd.Age != nil {
		user.Age = *upd.Age
	}
	if upd.ActivityLevel != nil {
		user.ActivityLevel = *upd.ActivityLevel
	}
	if upd.DesiredWeight != nil {
		user.DesiredWeight = *upd.DesiredWeight
	}
	if upd.GoalTimePeriod != nil {
		user.GoalTimePeriod = *upd.GoalTimePeriod
	}
	if upd.GeographicalRegion != nil {
		user.GeographicalRegion = *upd.GeographicalRegion
	}
	if len(upd.FoodPreferences) > 0 {
		user.FoodPreferences = upd.FoodPreferences
	}

	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete removes the profile and everything hanging off it, in one
// transaction: plans of the user's logs, the logs, the supplements, then the
// profile itself.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user %d", ErrNotFound, id)
			}
			return err
		}

		logIDs := tx.Model(&models.DailyLog{}).Select("id").Where("user_id = ?", id)
		if err := tx.Where("daily_log_id IN (?)", logIDs).Delete(&models.MealPlan{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.DailyLog{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.FixedSupplement{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
}

func (s *UserService) List(ctx context.Context, f UserFilter) (*UserPage, error) {
	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 10
	}

	q := s.db.WithContext(ctx).Model(&models.User{})
	if f.ActivityLevel != "" {
		q = q.Where("activity_level = ?", f.ActivityLevel)
	}
	if f.Region != "" {
		q = q.Where("geographical_region = ?", f.Region)
	}
	if f.WeightRange != "" {
		min, max, err := parseRange(f.WeightRange)
		if err != nil {
			return nil, fmt.Errorf("%w: weight_range must look like \"60-80\"", ErrInvalidInput)
		}
		q = q.Where("weight BETWEEN ? AND ?", min, max)
	}
	if f.AgeRange != "" {
		min, max, err := parseRange(f.AgeRange)
		if err != nil {
			return nil, fmt.Errorf("%w: age_range must look like \"20-35\"", ErrInvalidInput)
		}
		q = q.Where("age BETWEEN ? AND ?", min, max)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	var users []models.User
	err := q.Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	return &UserPage{
		Users:       users,
		Total:       total,
		CurrentPage: page,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

func parseRange(s string) (float64, float64, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed range %q", s)
	}
	min, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, err
	}
	max, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, err
	}
	if max < min {
		return 0, 0, fmt.Errorf("range %q is inverted", s)
	}
	return min, max, nil
}

package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"nutriplan/models"
	"nutriplan/pkg/logger"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDBSeq int64

// openTestDB gives each test its own in-memory database with the real
// schema, so unique-index and not-found behavior is exercised against an
// actual engine. cache=shared keeps all pool connections on the same store;
// busy_timeout keeps concurrent writers from tripping over table locks.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:nutriplan_test_%d?mode=memory&cache=shared&_busy_timeout=5000",
		atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.DailyLog{},
		&models.MealPlan{},
		&models.FixedSupplement{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		Height:             170,
		Weight:             70,
		Age:                30,
		ActivityLevel:      models.ActivityModerate,
		DesiredWeight:      65,
		GoalTimePeriod:     12,
		GeographicalRegion: "North America",
		FoodPreferences:    datatypes.JSON([]byte(`{"vegetarian":false}`)),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedLog(t *testing.T, db *gorm.DB, userID uint, date time.Time, activity string, sleep, heartRate int) *models.DailyLog {
	t.Helper()
	log := &models.DailyLog{
		UserID:                userID,
		Date:                  dayStart(date),
		ExpectedActivityLevel: activity,
		SleepScore:            sleep,
		RestingHeartRate:      heartRate,
	}
	require.NoError(t, db.Create(log).Error)
	return log
}

func validPlanDetails() *models.PlanDetails {
	return &models.PlanDetails{
		TotalCalories:  2100,
		Macronutrients: models.Macronutrients{Protein: 140, Carbs: 220, Fats: 70},
		Meals: []models.PlanMeal{
			{
				Type: "breakfast",
				Time: "08:00",
				Foods: []models.PlanFood{
					{Name: "oatmeal", Portion: 80, Calories: 300},
					{Name: "greek yogurt", Portion: 150, Calories: 130},
				},
				TotalCalories: 430,
			},
			{
				Type: "lunch",
				Time: "13:00",
				Foods: []models.PlanFood{
					{Name: "chicken breast", Portion: 180, Calories: 300},
					{Name: "brown rice", Portion: 150, Calories: 170},
				},
				TotalCalories: 470,
			},
			{
				Type: "dinner",
				Time: "19:00",
				Foods: []models.PlanFood{
					{Name: "salmon", Portion: 160, Calories: 330},
					{Name: "roast vegetables", Portion: 250, Calories: 180},
				},
				TotalCalories: 510,
			},
		},
		Micronutrients:          map[string]any{"iron": "good", "vitamin_d": "supplement advised"},
		HydrationRecommendation: "2.5 liters of water across the day",
	}
}

// stubGenerator records what it was called with and plays back a scripted
// plan or error.
type stubGenerator struct {
	details *models.PlanDetails
	err     error
	calls   int32
	history []models.MealPlan
}

func (g *stubGenerator) Generate(_ context.Context, _ *models.User, _ *models.DailyLog, history []models.MealPlan) (*models.PlanDetails, error) {
	atomic.AddInt32(&g.calls, 1)
	g.history = history
	if g.err != nil {
		return nil, g.err
	}
	return g.details, nil
}

func newTestPlanService(db *gorm.DB, gen PlanGenerator) *MealPlanService {
	return NewMealPlanService(db, gen, time.Second, logger.NewNop())
}

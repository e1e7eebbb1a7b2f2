package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"nutriplan/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestGeneratePlan(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	t.Run("generates and stores a plan for the log", func(t *testing.T) {
		db := openTestDB(t)
		user := seedUser(t, db)
		log := seedLog(t, db, user.ID, date, models.ActivityActive, 80, 60)
		gen := &stubGenerator{details: validPlanDetails()}
		svc := newTestPlanService(db, gen)

		plan, err := svc.Generate(ctx, log.ID)
		require.NoError(t, err)
		assert.Equal(t, log.ID, plan.DailyLogID)
		assert.False(t, plan.GeneratedAt.IsZero())

		var stored models.PlanDetails
		require.NoError(t, json.Unmarshal(plan.PlanDetails, &stored))
		assert.Greater(t, stored.TotalCalories, 0.0)
		assert.NotEmpty(t, stored.Meals)
	})

	t.Run("unknown log is not found and the generator is never called", func(t *testing.T) {
		db := openTestDB(t)
		gen := &stubGenerator{details: validPlanDetails()}
		svc := newTestPlanService(db, gen)

		_, err := svc.Generate(ctx, 4242)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Zero(t, gen.calls)
	})

	t.Run("second generation for the same log is a conflict", func(t *testing.T) {
		db := openTestDB(t)
		user := seedUser(t, db)
		log := seedLog(t, db, user.ID, date, models.ActivityActive, 80, 60)
		gen := &stubGenerator{details: validPlanDetails()}
		svc := newTestPlanService(db, gen)

		_, err := svc.Generate(ctx, log.ID)
		require.NoError(t, err)

		_, err = svc.Generate(ctx, log.ID)
		assert.ErrorIs(t, err, ErrConflict)
		assert.EqualValues(t, 1, gen.calls, "conflict must be detected before the generator runs")

		var count int64
		require.NoError(t, db.Model(&models.MealPlan{}).Count(&count).Error)
		assert.EqualValues(t, 1, count, "no second row may exist")
	})

	t.Run("generator failure leaves no row behind", func(t *testing.T) {
		db := openTestDB(t)
		user := seedUser(t, db)
		log := seedLog(t, db, user.ID, date, models.ActivityActive, 80, 60)
		gen := &stubGenerator{err: errors.New("model returned prose")}
		svc := newTestPlanService(db, gen)

		_, err := svc.Generate(ctx, log.ID)
		assert.ErrorIs(t, err, ErrGenerationFailed)

		var count int64
		require.NoError(t, db.Model(&models.MealPlan{}).Count(&count).Error)
		assert.Zero(t, count)

		// the failure is clean: a retry can still succeed
		gen.err = nil
		gen.details = validPlanDetails()
		_, err = svc.Generate(ctx, log.ID)
		require.NoError(t, err)
	})

	t.Run("passes at most three prior plans, newest first", func(t *testing.T) {
		db := openTestDB(t)
		user := seedUser(t, db)
		gen := &stubGenerator{details: validPlanDetails()}
		svc := newTestPlanService(db, gen)

		// five earlier days, each with a stored plan
		for i := 5; i >= 1; i-- {
			old := seedLog(t, db, user.ID, date.AddDate(0, 0, -i), models.ActivityLight, 60, 58)
			details := validPlanDetails()
			details.TotalCalories = 2000 + float64(i)
			raw, err := json.Marshal(details)
			require.NoError(t, err)
			require.NoError(t, db.Create(&models.MealPlan{
				DailyLogID:  old.ID,
				PlanDetails: datatypes.JSON(raw),
				GeneratedAt: old.Date,
			}).Error)
		}

		today := seedLog(t, db, user.ID, date, models.ActivityActive, 80, 60)
		_, err := svc.Generate(ctx, today.ID)
		require.NoError(t, err)

		require.Len(t, gen.history, 3)
		// rows were inserted oldest-day first, so newest-first means the last
		// three inserts in reverse id order
		var calories []float64
		for _, plan := range gen.history {
			var d models.PlanDetails
			require.NoError(t, json.Unmarshal(plan.PlanDetails, &d))
			calories = append(calories, d.TotalCalories)
		}
		assert.Equal(t, []float64{2001, 2002, 2003}, calories)
	})

	t.Run("no history is valid context", func(t *testing.T) {
		db := openTestDB(t)
		user := seedUser(t, db)
		log := seedLog(t, db, user.ID, date, models.ActivityActive, 80, 60)
		gen := &stubGenerator{details: validPlanDetails()}
		svc := newTestPlanService(db, gen)

		_, err := svc.Generate(ctx, log.ID)
		require.NoError(t, err)
		assert.Empty(t, gen.history)
	})
}

func TestUpdatePlan(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	t.Run("replaces details and resets generated_at without regenerating", func(t *testing.T) {
		db := openTestDB(t)
		user := seedUser(t, db)
		log := seedLog(t, db, user.ID, date, models.ActivityActive, 80, 60)
		gen := &stubGenerator{details: validPlanDetails()}
		svc := newTestPlanService(db, gen)

		created, err := svc.Generate(ctx, log.ID)
		require.NoError(t, err)

		replacement := *validPlanDetails()
		replacement.TotalCalories = 1800
		updated, err := svc.Update(ctx, created.ID, replacement)
		require.NoError(t, err)

		var stored models.PlanDetails
		require.NoError(t, json.Unmarshal(updated.PlanDetails, &stored))
		assert.Equal(t, 1800.0, stored.TotalCalories)
		assert.False(t, updated.GeneratedAt.Before(created.GeneratedAt))
		assert.EqualValues(t, 1, gen.calls, "update must not call the generator")
	})

	t.Run("unknown plan is not found", func(t *testing.T) {
		db := openTestDB(t)
		gen := &stubGenerator{}
		svc := newTestPlanService(db, gen)

		_, err := svc.Update(ctx, 999, *validPlanDetails())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("rejects an empty or zero-calorie document", func(t *testing.T) {
		db := openTestDB(t)
		gen := &stubGenerator{}
		svc := newTestPlanService(db, gen)

		bad := *validPlanDetails()
		bad.TotalCalories = 0
		_, err := svc.Update(ctx, 1, bad)
		assert.ErrorIs(t, err, ErrInvalidInput)

		bad = *validPlanDetails()
		bad.Meals = nil
		_, err = svc.Update(ctx, 1, bad)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestGetPlanByDailyLog(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	db := openTestDB(t)
	user := seedUser(t, db)
	log := seedLog(t, db, user.ID, date, models.ActivityActive, 80, 60)
	gen := &stubGenerator{details: validPlanDetails()}
	svc := newTestPlanService(db, gen)

	_, err := svc.GetByDailyLog(ctx, log.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	created, err := svc.Generate(ctx, log.ID)
	require.NoError(t, err)

	got, err := svc.GetByDailyLog(ctx, log.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, user.ID, got.DailyLog.UserID)
}

package controllers

import (
	"net/http"
	"strconv"

	"nutriplan/services"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type UserController struct {
	Users *services.UserService
	Stats *services.StatsService
}

func NewUserController(users *services.UserService, stats *services.StatsService) *UserController {
	return &UserController{Users: users, Stats: stats}
}

func (h *UserController) Register(c *gin.Context) {
	var body struct {
		Height             float64        `json:"height" binding:"required"`
		Weight             float64        `json:"weight" binding:"required"`
		Age                int            `json:"age" binding:"required"`
		ActivityLevel      string         `json:"activity_level" binding:"required"`
		DesiredWeight      float64        `json:"desired_weight" binding:"required"`
		GoalTimePeriod     int            `json:"goal_time_period" binding:"required"`
		GeographicalRegion string         `json:"geographical_region" binding:"required"`
		FoodPreferences    datatypes.JSON `json:"food_preferences"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "all required fields must be provided"})
		return
	}

	user, err := h.Users.Register(c.Request.Context(), services.RegisterInput{
		Height:             body.Height,
		Weight:             body.Weight,
		Age:                body.Age,
		ActivityLevel:      body.ActivityLevel,
		DesiredWeight:      body.DesiredWeight,
		GoalTimePeriod:     body.GoalTimePeriod,
		GeographicalRegion: body.GeographicalRegion,
		FoodPreferences:    body.FoodPreferences,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "user registered successfully", "user": user})
}

func (h *UserController) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	out, err := h.Users.List(c.Request.Context(), services.UserFilter{
		ActivityLevel: c.Query("activity_level"),
		Region:        c.Query("region"),
		WeightRange:   c.Query("weight_range"),
		AgeRange:      c.Query("age_range"),
		Page:          page,
		Limit:         limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *UserController) GetProfile(c *gin.Context) {
	userID, ok := idParam(c, "userId")
	if !ok {
		return
	}

	user, err := h.Users.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserController) UpdateProfile(c *gin.Context) {
	userID, ok := idParam(c, "userId")
	if !ok {
		return
	}

	var body struct {
		Height             *float64       `json:"height"`
		Weight             *float64       `json:"weight"`
		Age                *int           `json:"age"`
		ActivityLevel      *string        `json:"activity_level"`
		DesiredWeight      *float64       `json:"desired_weight"`
		GoalTimePeriod     *int           `json:"goal_time_period"`
		GeographicalRegion *string        `json:"geographical_region"`
		FoodPreferences    datatypes.JSON `json:"food_preferences"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Users.Update(c.Request.Context(), userID, services.ProfileUpdate{
		Height:             body.Height,
		Weight:             body.Weight,
		Age:                body.Age,
		ActivityLevel:      body.ActivityLevel,
		DesiredWeight:      body.DesiredWeight,
		GoalTimePeriod:     body.GoalTimePeriod,
		GeographicalRegion: body.GeographicalRegion,
		FoodPreferences:    body.FoodPreferences,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user profile updated successfully", "user": user})
}

func (h *UserController) DeleteUser(c *gin.Context) {
	userID, ok := idParam(c, "userId")
	if !ok {
		return
	}

	if err := h.Users.Delete(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user and associated data deleted successfully"})
}

func (h *UserController) GetUserStats(c *gin.Context) {
	userID, ok := idParam(c, "userId")
	if !ok {
		return
	}

	windowDays, _ := strconv.Atoi(c.DefaultQuery("window_days", "30"))

	user, err := h.Users.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	stats, err := h.Stats.Compute(c.Request.Context(), userID, windowDays)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "stats": stats})
}

package controllers

import (
	"net/http"
	"time"

	"nutriplan/services"

	"github.com/gin-gonic/gin"
)

type DailyLogController struct {
	Logs *services.DailyLogService
}

func NewDailyLogController(logs *services.DailyLogService) *DailyLogController {
	return &DailyLogController{Logs: logs}
}

// Malformed dates are a 400 here, before the registry ever runs; the registry
// only sees concrete times.
func parseDate(s string) (*time.Time, bool) {
	if s == "" {
		return nil, true
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, false
	}
	return &d, true
}

func (h *DailyLogController) CreateLog(c *gin.Context) {
	var body struct {
		UserID                uint   `json:"user_id" binding:"required"`
		Date                  string `json:"date"`
		ExpectedActivityLevel string `json:"expected_activity_level" binding:"required"`
		SleepScore            *int   `json:"sleep_score" binding:"required"`
		RestingHeartRate      *int   `json:"resting_heart_rate" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "all required fields must be provided"})
		return
	}

	date, ok := parseDate(body.Date)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, use YYYY-MM-DD"})
		return
	}

	log, err := h.Logs.Create(c.Request.Context(), services.DailyLogInput{
		UserID:                body.UserID,
		Date:                  date,
		ExpectedActivityLevel: body.ExpectedActivityLevel,
		SleepScore:            *body.SleepScore,
		RestingHeartRate:      *body.RestingHeartRate,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "daily log created successfully", "dailyLog": log})
}

func (h *DailyLogController) GetLog(c *gin.Context) {
	userID, err := strconvParseUint(c.Query("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and date are required"})
		return
	}
	dateStr := c.Query("date")
	if dateStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and date are required"})
		return
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, use YYYY-MM-DD"})
		return
	}

	log, err := h.Logs.Get(c.Request.Context(), userID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, log)
}

func (h *DailyLogController) UpdateLog(c *gin.Context) {
	logID, ok := idParam(c, "logId")
	if !ok {
		return
	}

	var body struct {
		Date                  *string `json:"date"`
		ExpectedActivityLevel *string `json:"expected_activity_level"`
		SleepScore            *int    `json:"sleep_score"`
		RestingHeartRate      *int    `json:"resting_heart_rate"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	upd := services.DailyLogUpdate{
		ExpectedActivityLevel: body.ExpectedActivityLevel,
		SleepScore:            body.SleepScore,
		RestingHeartRate:      body.RestingHeartRate,
	}
	if body.Date != nil {
		date, ok := parseDate(*body.Date)
		if !ok || date == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, use YYYY-MM-DD"})
			return
		}
		upd.Date = date
	}

	log, err := h.Logs.Update(c.Request.Context(), logID, upd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "daily log updated successfully", "dailyLog": log})
}

package controllers

import (
	"net/http"

	"nutriplan/models"
	"nutriplan/services"

	"github.com/gin-gonic/gin"
)

type MealPlanController struct {
	Plans *services.MealPlanService
}

func NewMealPlanController(plans *services.MealPlanService) *MealPlanController {
	return &MealPlanController{Plans: plans}
}

func (h *MealPlanController) GeneratePlan(c *gin.Context) {
	var body struct {
		DailyLogID uint `json:"daily_log_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "daily_log_id is required"})
		return
	}

	plan, err := h.Plans.Generate(c.Request.Context(), body.DailyLogID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "meal plan generated successfully", "mealPlan": plan})
}

func (h *MealPlanController) GetPlan(c *gin.Context) {
	dailyLogID, ok := idParam(c, "dailyLogId")
	if !ok {
		return
	}

	plan, err := h.Plans.GetByDailyLog(c.Request.Context(), dailyLogID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *MealPlanController) UpdatePlan(c *gin.Context) {
	planID, ok := idParam(c, "planId")
	if !ok {
		return
	}

	var body struct {
		PlanDetails *models.PlanDetails `json:"plan_details" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "plan_details is required"})
		return
	}

	plan, err := h.Plans.Update(c.Request.Context(), planID, *body.PlanDetails)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "meal plan updated successfully", "mealPlan": plan})
}

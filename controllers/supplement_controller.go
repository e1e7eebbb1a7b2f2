package controllers

import (
	"net/http"

	"nutriplan/services"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type SupplementController struct {
	Supplements *services.SupplementService
}

func NewSupplementController(supplements *services.SupplementService) *SupplementController {
	return &SupplementController{Supplements: supplements}
}

func (h *SupplementController) AddSupplement(c *gin.Context) {
	var body struct {
		UserID         uint           `json:"user_id" binding:"required"`
		SupplementName string         `json:"supplement_name" binding:"required"`
		NutrientInfo   datatypes.JSON `json:"nutrient_info" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "all required fields must be provided"})
		return
	}

	supplement, err := h.Supplements.Add(c.Request.Context(), body.UserID, body.SupplementName, body.NutrientInfo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "supplement added successfully", "supplement": supplement})
}

func (h *SupplementController) GetUserSupplements(c *gin.Context) {
	userID, ok := idParam(c, "userId")
	if !ok {
		return
	}

	supplements, err := h.Supplements.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, supplements)
}

func (h *SupplementController) UpdateSupplement(c *gin.Context) {
	supplementID, ok := idParam(c, "supplementId")
	if !ok {
		return
	}

	var body struct {
		SupplementName *string        `json:"supplement_name"`
		NutrientInfo   datatypes.JSON `json:"nutrient_info"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	supplement, err := h.Supplements.Update(c.Request.Context(), supplementID, services.SupplementUpdate{
		SupplementName: body.SupplementName,
		NutrientInfo:   body.NutrientInfo,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "supplement updated successfully", "supplement": supplement})
}

func (h *SupplementController) DeleteSupplement(c *gin.Context) {
	supplementID, ok := idParam(c, "supplementId")
	if !ok {
		return
	}

	if err := h.Supplements.Delete(c.Request.Context(), supplementID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "supplement deleted successfully"})
}

package controllers

import (
	"errors"
	"net/http"
	"time"

	"backend/services"

	"github.com/gin-gonic/gin"
)

type FoodEntryController struct {
	entries *services.FoodEntryService
}

func NewFoodEntryController(entries *services.FoodEntryService) *FoodEntryController {
	return &FoodEntryController{entries: entries}
}

// POST /entries
func (fc *FoodEntryController) Create(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var req struct {
		Date        string                 `json:"date"` // YYYY-MM-DD, default today
		FoodName    string                 `json:"food_name"`
		Barcode     string                 `json:"barcode"`
		SearchTerms string                 `json:"search_terms"`
		Manual      *services.ManualMacros `json:"manual"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if req.Barcode != "" && !barcodePattern.MatchString(req.Barcode) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "barcode must be 8-14 digits"})
		return
	}
	if req.Manual == nil && req.FoodName == "" && req.Barcode == "" && req.SearchTerms == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to log"})
		return
	}

	date := time.Now()
	if req.Date != "" {
		var err error
		if date, err = time.Parse("2006-01-02", req.Date); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format. Use YYYY-MM-DD"})
			return
		}
	}

	entry, err := fc.entries.CreateEntry(c.Request.Context(), userID, services.CreateEntryRequest{
		Date:        date,
		FoodName:    req.FoodName,
		Barcode:     req.Barcode,
		SearchTerms: req.SearchTerms,
		Manual:      req.Manual,
	})
	switch {
	case errors.Is(err, services.ErrAnalysisFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "nutrition analysis failed"})
	case errors.Is(err, services.ErrNoNutritionData):
		c.JSON(http.StatusNotFound, gin.H{"error": "no nutrition data could be found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusCreated, entry)
	}
}

// GET /entries?date=YYYY-MM-DD
func (fc *FoodEntryController) List(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	date := time.Now()
	if s := c.Query("date"); s != "" {
		var err error
		if date, err = time.Parse("2006-01-02", s); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format. Use YYYY-MM-DD"})
			return
		}
	}

	entries, err := fc.entries.ListByDate(c.Request.Context(), userID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// DELETE /entries/:id
func (fc *FoodEntryController) Delete(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	err := fc.entries.Delete(c.Request.Context(), userID, c.Param("id"))
	if errors.Is(err, services.ErrEntryNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

package controllers

import (
	"context"
	"errors"
	"net/http"
	"regexp"

	"backend/services"

	"github.com/gin-gonic/gin"
)

// Barcodes are 8–14 decimal digits (EAN-8 through GTIN-14). Validated here,
// before the resolver is ever invoked.
var barcodePattern = regexp.MustCompile(`^\d{8,14}$`)

type nutritionResolver interface {
	Resolve(ctx context.Context, req services.ResolutionRequest) (*services.NutritionRecord, error)
}

type NutritionController struct {
	resolver nutritionResolver
}

func NewNutritionController(resolver nutritionResolver) *NutritionController {
	return &NutritionController{resolver: resolver}
}

// POST /nutrition/resolve  {"food_name": "...", "barcode": "...", "search_terms": "..."}
func (nc *NutritionController) Resolve(c *gin.Context) {
	var req services.ResolutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if req.Barcode == "" && req.FoodName == "" && req.SearchTerms == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "one of food_name, barcode or search_terms is required"})
		return
	}
	if req.Barcode != "" && !barcodePattern.MatchString(req.Barcode) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "barcode must be 8-14 digits"})
		return
	}

	rec, err := nc.resolver.Resolve(c.Request.Context(), req)
	switch {
	case errors.Is(err, services.ErrAnalysisFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "nutrition analysis failed"})
	case errors.Is(err, services.ErrNoNutritionData):
		c.JSON(http.StatusNotFound, gin.H{"error": "no nutrition data could be found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, rec)
	}
}

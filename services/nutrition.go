package services

import (
	"math"
)

// Provenance tags attached by the resolver. Only the resolver sets these;
// the database client and the AI estimator return untagged data.
const (
	DataSourceBarcode = "database_barcode"
	DataSourceSearch  = "database_search"
	DataSourceAI      = "ai_analysis"
)

type FoodDetails struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Carbohydrates struct {
	TotalGrams float64 `json:"totalGrams"`
	FiberGrams float64 `json:"fiberGrams"`
	SugarGrams float64 `json:"sugarGrams"`
}

type Fat struct {
	TotalGrams     float64 `json:"totalGrams"`
	SaturatedGrams float64 `json:"saturatedGrams"`
}

type Macronutrients struct {
	Calories      int           `json:"calories"`
	ProteinGrams  float64       `json:"proteinGrams"`
	Carbohydrates Carbohydrates `json:"carbohydrates"`
	Fat           Fat           `json:"fat"`
}

// NutritionRecord is the canonical output of nutrition resolution.
// Calories are whole kcal; gram values carry one decimal place.
type NutritionRecord struct {
	FoodDetails    FoodDetails    `json:"foodDetails"`
	Macronutrients Macronutrients `json:"macronutrients"`
	DataSource     string         `json:"dataSource"`
}

// ResolutionRequest identifies a food by barcode, name or free text.
// At least one field must be set.
type ResolutionRequest struct {
	FoodName    string `json:"food_name"`
	Barcode     string `json:"barcode"`
	SearchTerms string `json:"search_terms"`
}

// roundGrams rounds to one decimal place, halves away from zero.
func roundGrams(v float64) float64 {
	return math.Round(v*10) / 10
}

// roundKcal rounds to the nearest whole kcal, halves away from zero.
func roundKcal(v float64) int {
	return int(math.Round(v))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

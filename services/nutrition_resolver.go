package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// searchLimit caps how many search hits are requested; only the first
// (best-relevance) hit is normalized.
const searchLimit = 5

var (
	// ErrNoNutritionData means every strategy was exhausted without a result.
	ErrNoNutritionData = errors.New("no nutrition data could be found")
	// ErrAnalysisFailed means the AI estimate, the last-resort strategy,
	// failed as a service rather than finding nothing.
	ErrAnalysisFailed = errors.New("nutrition analysis failed")
)

// ProductSource is the food database surface the resolver consumes.
type ProductSource interface {
	LookupByBarcode(ctx context.Context, barcode string) *RawProduct
	SearchByText(ctx context.Context, query string, limit int) []RawProduct
}

// NutritionEstimator is the generative fallback surface.
type NutritionEstimator interface {
	Estimate(ctx context.Context, description string) (*Macronutrients, error)
}

// NutritionResolver runs the ordered fallback chain: barcode lookup, then
// text search, then AI estimation. Barcode hits are exact-match and highest
// confidence; search is heuristic but grounded in real product data; the AI
// estimate is a generative guess and therefore last. First match wins; there
// is no blending across sources. Stateless and safe for concurrent use.
type NutritionResolver struct {
	foods  ProductSource
	ai     NutritionEstimator
	logger *zap.Logger
}

func NewNutritionResolver(foods ProductSource, ai NutritionEstimator, logger *zap.Logger) *NutritionResolver {
	return &NutritionResolver{foods: foods, ai: ai, logger: logger}
}

// Resolve returns the first strategy's record tagged with its provenance, or
// ErrNoNutritionData / ErrAnalysisFailed once everything is exhausted.
func (r *NutritionResolver) Resolve(ctx context.Context, req ResolutionRequest) (*NutritionRecord, error) {
	if req.Barcode == "" && req.FoodName == "" && req.SearchTerms == "" {
		return nil, ErrNoNutritionData
	}

	if req.Barcode != "" {
		if raw := r.foods.LookupByBarcode(ctx, req.Barcode); raw != nil {
			if rec := NormalizeProduct(raw, ""); rec != nil {
				rec.DataSource = DataSourceBarcode
				return rec, nil
			}
		}
		r.logger.Debug("barcode lookup produced nothing usable", zap.String("barcode", req.Barcode))
	}

	if query := firstNonEmpty(req.SearchTerms, req.FoodName); query != "" {
		if products := r.foods.SearchByText(ctx, query, searchLimit); len(products) > 0 {
			if rec := NormalizeProduct(&products[0], ""); rec != nil {
				rec.DataSource = DataSourceSearch
				return rec, nil
			}
		}
		r.logger.Debug("text search produced nothing usable", zap.String("query", query))
	}

	if r.ai == nil {
		return nil, ErrNoNutritionData
	}

	description := firstNonEmpty(req.SearchTerms, req.FoodName)
	if description == "" {
		description = fmt.Sprintf("a food product with barcode %s", req.Barcode)
	}

	macros, err := r.ai.Estimate(ctx, description)
	if err != nil {
		// An unconfigured estimator is a missing strategy, not a failing one.
		if errors.Is(err, ErrAINotConfigured) {
			return nil, ErrNoNutritionData
		}
		r.logger.Warn("AI nutrition estimate failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	return &NutritionRecord{
		FoodDetails: FoodDetails{
			Name:        firstNonEmpty(req.FoodName, description),
			Description: "AI-estimated nutrition for " + description,
		},
		Macronutrients: *macros,
		DataSource:     DataSourceAI,
	}, nil
}

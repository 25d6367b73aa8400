package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProductSource struct {
	barcodeProduct *RawProduct
	searchResults  []RawProduct

	barcodeCalled bool
	searchCalled  bool
}

func (f *fakeProductSource) LookupByBarcode(ctx context.Context, barcode string) *RawProduct {
	f.barcodeCalled = true
	return f.barcodeProduct
}

func (f *fakeProductSource) SearchByText(ctx context.Context, query string, limit int) []RawProduct {
	f.searchCalled = true
	return f.searchResults
}

type fakeEstimator struct {
	macros *Macronutrients
	err    error

	called   bool
	lastText string
}

func (f *fakeEstimator) Estimate(ctx context.Context, description string) (*Macronutrients, error) {
	f.called = true
	f.lastText = description
	return f.macros, f.err
}

func validProduct(name string) *RawProduct {
	return &RawProduct{
		ProductName: name,
		Nutriments:  map[string]interface{}{"energy-kcal_100g": 165.0, "proteins_100g": 31.0},
	}
}

func TestResolvePrecedence(t *testing.T) {
	t.Run("barcode wins over search", func(t *testing.T) {
		foods := &fakeProductSource{
			barcodeProduct: validProduct("From Barcode"),
			searchResults:  []RawProduct{*validProduct("From Search")},
		}
		ai := &fakeEstimator{}
		r := NewNutritionResolver(foods, ai, zap.NewNop())

		rec, err := r.Resolve(context.Background(), ResolutionRequest{Barcode: "0000000000017", SearchTerms: "chicken"})
		require.NoError(t, err)
		assert.Equal(t, DataSourceBarcode, rec.DataSource)
		assert.Equal(t, "From Barcode", rec.FoodDetails.Name)
		assert.False(t, foods.searchCalled)
		assert.False(t, ai.called)
	})

	t.Run("failed barcode falls through to search, AI never invoked", func(t *testing.T) {
		foods := &fakeProductSource{
			searchResults: []RawProduct{*validProduct("From Search")},
		}
		ai := &fakeEstimator{}
		r := NewNutritionResolver(foods, ai, zap.NewNop())

		rec, err := r.Resolve(context.Background(), ResolutionRequest{Barcode: "0000000000017", SearchTerms: "chicken"})
		require.NoError(t, err)
		assert.Equal(t, DataSourceSearch, rec.DataSource)
		assert.True(t, foods.barcodeCalled)
		assert.False(t, ai.called)
	})

	t.Run("search terms preferred over food name for the query", func(t *testing.T) {
		foods := &fakeProductSource{}
		ai := &fakeEstimator{macros: &Macronutrients{Calories: 100}}
		r := NewNutritionResolver(foods, ai, zap.NewNop())

		rec, err := r.Resolve(context.Background(), ResolutionRequest{FoodName: "My Lunch", SearchTerms: "chicken wrap"})
		require.NoError(t, err)
		assert.Equal(t, DataSourceAI, rec.DataSource)
		assert.Equal(t, "chicken wrap", ai.lastText)
		assert.Equal(t, "My Lunch", rec.FoodDetails.Name)
	})
}

func TestResolveAIFallback(t *testing.T) {
	t.Run("AI is the last resort and is tagged", func(t *testing.T) {
		foods := &fakeProductSource{}
		ai := &fakeEstimator{macros: &Macronutrients{
			Calories:     320,
			ProteinGrams: 12.5,
		}}
		r := NewNutritionResolver(foods, ai, zap.NewNop())

		rec, err := r.Resolve(context.Background(), ResolutionRequest{FoodName: "homemade burrito"})
		require.NoError(t, err)
		assert.Equal(t, DataSourceAI, rec.DataSource)
		assert.Equal(t, 320, rec.Macronutrients.Calories)
		assert.Equal(t, "AI-estimated nutrition for homemade burrito", rec.FoodDetails.Description)
	})

	t.Run("barcode-only request synthesizes the AI description", func(t *testing.T) {
		foods := &fakeProductSource{}
		ai := &fakeEstimator{macros: &Macronutrients{Calories: 50}}
		r := NewNutritionResolver(foods, ai, zap.NewNop())

		_, err := r.Resolve(context.Background(), ResolutionRequest{Barcode: "12345678"})
		require.NoError(t, err)
		assert.Equal(t, "a food product with barcode 12345678", ai.lastText)
	})

	t.Run("non-normalizable first search hit falls through to AI", func(t *testing.T) {
		// Only the best (first) hit is considered; a nameless first hit
		// means the search strategy yields nothing.
		foods := &fakeProductSource{
			searchResults: []RawProduct{
				{Nutriments: map[string]interface{}{"fat_100g": 1.0}},
				*validProduct("Second Hit"),
			},
		}
		ai := &fakeEstimator{macros: &Macronutrients{Calories: 99}}
		r := NewNutritionResolver(foods, ai, zap.NewNop())

		rec, err := r.Resolve(context.Background(), ResolutionRequest{SearchTerms: "obscure snack"})
		require.NoError(t, err)
		assert.Equal(t, DataSourceAI, rec.DataSource)
	})
}

func TestResolveExhaustion(t *testing.T) {
	t.Run("AI failure on last resort surfaces ErrAnalysisFailed", func(t *testing.T) {
		foods := &fakeProductSource{}
		ai := &fakeEstimator{err: errors.New("model unreachable")}
		r := NewNutritionResolver(foods, ai, zap.NewNop())

		rec, err := r.Resolve(context.Background(), ResolutionRequest{Barcode: "0000000000017"})
		assert.Nil(t, rec)
		assert.ErrorIs(t, err, ErrAnalysisFailed)
	})

	t.Run("estimator without credentials surfaces ErrNoNutritionData", func(t *testing.T) {
		// An estimator constructed without an API key is a missing strategy,
		// not a failing one: exhaustion, not a 502.
		foods := &fakeProductSource{}
		ai := &fakeEstimator{err: ErrAINotConfigured}
		r := NewNutritionResolver(foods, ai, zap.NewNop())

		rec, err := r.Resolve(context.Background(), ResolutionRequest{SearchTerms: "nothing matches"})
		assert.Nil(t, rec)
		assert.ErrorIs(t, err, ErrNoNutritionData)
		assert.NotErrorIs(t, err, ErrAnalysisFailed)
	})

	t.Run("no AI configured surfaces ErrNoNutritionData", func(t *testing.T) {
		foods := &fakeProductSource{}
		r := NewNutritionResolver(foods, nil, zap.NewNop())

		rec, err := r.Resolve(context.Background(), ResolutionRequest{SearchTerms: "nothing matches"})
		assert.Nil(t, rec)
		assert.ErrorIs(t, err, ErrNoNutritionData)
	})

	t.Run("empty request surfaces ErrNoNutritionData", func(t *testing.T) {
		r := NewNutritionResolver(&fakeProductSource{}, &fakeEstimator{}, zap.NewNop())

		rec, err := r.Resolve(context.Background(), ResolutionRequest{})
		assert.Nil(t, rec)
		assert.ErrorIs(t, err, ErrNoNutritionData)
	})
}

func TestResolveIdempotence(t *testing.T) {
	foods := &fakeProductSource{barcodeProduct: validProduct("Chicken Breast")}
	r := NewNutritionResolver(foods, &fakeEstimator{}, zap.NewNop())
	req := ResolutionRequest{Barcode: "0000000000017"}

	first, err := r.Resolve(context.Background(), req)
	require.NoError(t, err)
	second, err := r.Resolve(context.Background(), req)
	require.NoError(t, err)

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	assert.Equal(t, string(a), string(b))
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubResolver struct {
	rec *NutritionRecord
	err error
}

func (s *stubResolver) Resolve(ctx context.Context, req ResolutionRequest) (*NutritionRecord, error) {
	return s.rec, s.err
}

func resolvedRecord() *NutritionRecord {
	return &NutritionRecord{
		FoodDetails: FoodDetails{Name: "Chicken Breast", Description: "Chicken Breast (per 100g)"},
		Macronutrients: Macronutrients{
			Calories:      165,
			ProteinGrams:  31.0,
			Carbohydrates: Carbohydrates{TotalGrams: 0, FiberGrams: 0, SugarGrams: 0},
			Fat:           Fat{TotalGrams: 3.6, SaturatedGrams: 1.0},
		},
		DataSource: DataSourceBarcode,
	}
}

func TestCreateEntry(t *testing.T) {
	date := time.Date(2026, 3, 14, 13, 45, 0, 0, time.UTC)

	t.Run("resolved entry keeps the provenance tag", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewFoodEntryService(db, &stubResolver{rec: resolvedRecord()}, nil, zap.NewNop())

		entry, err := svc.CreateEntry(context.Background(), 1, CreateEntryRequest{
			Date:    date,
			Barcode: "0000000000017",
		})
		require.NoError(t, err)
		assert.Equal(t, "Chicken Breast", entry.Name)
		assert.Equal(t, 165, entry.Calories)
		assert.Equal(t, 31.0, entry.ProteinGrams)
		assert.Equal(t, DataSourceBarcode, entry.DataSource)
		assert.NotEmpty(t, entry.EntryID)
		// stored against the start of the day
		assert.Equal(t, 0, entry.Date.Hour())
	})

	t.Run("manual macros skip resolution", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewFoodEntryService(db, &stubResolver{err: ErrNoNutritionData}, nil, zap.NewNop())

		entry, err := svc.CreateEntry(context.Background(), 1, CreateEntryRequest{
			Date:     date,
			FoodName: "Leftover Stew",
			Manual:   &ManualMacros{Calories: 420, ProteinGrams: 25.0},
		})
		require.NoError(t, err)
		assert.Equal(t, "manual", entry.DataSource)
		assert.Equal(t, 420, entry.Calories)
	})

	t.Run("manual entry requires a name", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewFoodEntryService(db, &stubResolver{}, nil, zap.NewNop())

		_, err := svc.CreateEntry(context.Background(), 1, CreateEntryRequest{
			Date:   date,
			Manual: &ManualMacros{Calories: 100},
		})
		assert.Error(t, err)
	})

	t.Run("resolution errors pass through", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewFoodEntryService(db, &stubResolver{err: ErrNoNutritionData}, nil, zap.NewNop())

		_, err := svc.CreateEntry(context.Background(), 1, CreateEntryRequest{Date: date, Barcode: "12345678"})
		assert.ErrorIs(t, err, ErrNoNutritionData)
	})
}

func TestListByDate(t *testing.T) {
	db := newTestDB(t)
	svc := NewFoodEntryService(db, &stubResolver{rec: resolvedRecord()}, nil, zap.NewNop())

	day1 := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)

	for _, d := range []time.Time{day1, day1, day2} {
		_, err := svc.CreateEntry(context.Background(), 1, CreateEntryRequest{Date: d, Barcode: "0000000000017"})
		require.NoError(t, err)
	}
	// another user's entry must not leak in
	_, err := svc.CreateEntry(context.Background(), 2, CreateEntryRequest{Date: day1, Barcode: "0000000000017"})
	require.NoError(t, err)

	entries, err := svc.ListByDate(context.Background(), 1, day1)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	entries, err = svc.ListByDate(context.Background(), 1, day2)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestDeleteEntry(t *testing.T) {
	db := newTestDB(t)
	svc := NewFoodEntryService(db, &stubResolver{rec: resolvedRecord()}, nil, zap.NewNop())

	entry, err := svc.CreateEntry(context.Background(), 1, CreateEntryRequest{
		Date:    time.Now(),
		Barcode: "0000000000017",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), 1, entry.EntryID))

	entries, err := svc.ListByDate(context.Background(), 1, time.Now())
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.ErrorIs(t, svc.Delete(context.Background(), 1, entry.EntryID), ErrEntryNotFound)
	// wrong owner
	entry2, err := svc.CreateEntry(context.Background(), 1, CreateEntryRequest{Date: time.Now(), Barcode: "0000000000017"})
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Delete(context.Background(), 2, entry2.EntryID), ErrEntryNotFound)
}

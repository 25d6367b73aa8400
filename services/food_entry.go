package services

import (
	"context"
	"errors"
	"time"

	"backend/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrEntryNotFound = errors.New("food entry not found")

// nutritionResolver is what FoodEntryService needs from the resolution
// subsystem; satisfied by *NutritionResolver.
type nutritionResolver interface {
	Resolve(ctx context.Context, req ResolutionRequest) (*NutritionRecord, error)
}

// FoodEntryService logs foods against a day, resolving nutrition through
// the fallback chain unless the caller supplies macros directly.
type FoodEntryService struct {
	db       *gorm.DB
	resolver nutritionResolver
	hub      *EventsHub
	logger   *zap.Logger
}

func NewFoodEntryService(db *gorm.DB, resolver nutritionResolver, hub *EventsHub, logger *zap.Logger) *FoodEntryService {
	return &FoodEntryService{db: db, resolver: resolver, hub: hub, logger: logger}
}

// ManualMacros lets the user key in numbers instead of resolving them.
type ManualMacros struct {
	Calories          int     `json:"calories"`
	ProteinGrams      float64 `json:"protein_grams"`
	CarbTotalGrams    float64 `json:"carb_total_grams"`
	CarbFiberGrams    float64 `json:"carb_fiber_grams"`
	CarbSugarGrams    float64 `json:"carb_sugar_grams"`
	FatTotalGrams     float64 `json:"fat_total_grams"`
	FatSaturatedGrams float64 `json:"fat_saturated_grams"`
}

type CreateEntryRequest struct {
	Date        time.Time
	FoodName    string
	Barcode     string
	SearchTerms string
	Manual      *ManualMacros
}

// CreateEntry resolves nutrition (unless manual macros are given), persists
// the entry snapshot and notifies open dashboard sessions.
func (s *FoodEntryService) CreateEntry(ctx context.Context, userID uint, req CreateEntryRequest) (*models.FoodEntry, error) {
	entry := &models.FoodEntry{
		EntryID: uuid.NewString(),
		UserID:  userID,
		Date:    dayStart(req.Date),
	}

	if req.Manual != nil {
		if req.FoodName == "" {
			return nil, errors.New("food name is required for manual entries")
		}
		entry.Name = req.FoodName
		entry.Description = req.FoodName
		entry.Calories = req.Manual.Calories
		entry.ProteinGrams = req.Manual.ProteinGrams
		entry.CarbTotalGrams = req.Manual.CarbTotalGrams
		entry.CarbFiberGrams = req.Manual.CarbFiberGrams
		entry.CarbSugarGrams = req.Manual.CarbSugarGrams
		entry.FatTotalGrams = req.Manual.FatTotalGrams
		entry.FatSaturatedGrams = req.Manual.FatSaturatedGrams
		entry.DataSource = "manual"
	} else {
		rec, err := s.resolver.Resolve(ctx, ResolutionRequest{
			FoodName:    req.FoodName,
			Barcode:     req.Barcode,
			SearchTerms: req.SearchTerms,
		})
		if err != nil {
			return nil, err
		}
		entry.Name = rec.FoodDetails.Name
		entry.Description = rec.FoodDetails.Description
		entry.Calories = rec.Macronutrients.Calories
		entry.ProteinGrams = rec.Macronutrients.ProteinGrams
		entry.CarbTotalGrams = rec.Macronutrients.Carbohydrates.TotalGrams
		entry.CarbFiberGrams = rec.Macronutrients.Carbohydrates.FiberGrams
		entry.CarbSugarGrams = rec.Macronutrients.Carbohydrates.SugarGrams
		entry.FatTotalGrams = rec.Macronutrients.Fat.TotalGrams
		entry.FatSaturatedGrams = rec.Macronutrients.Fat.SaturatedGrams
		entry.DataSource = rec.DataSource
	}

	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}

	s.logger.Info("food entry created",
		zap.Uint("user_id", userID),
		zap.String("entry_id", entry.EntryID),
		zap.String("data_source", entry.DataSource),
	)

	if s.hub != nil {
		s.hub.Broadcast(userID, Event{Type: "entry.created", Payload: entry})
	}
	return entry, nil
}

func (s *FoodEntryService) ListByDate(ctx context.Context, userID uint, date time.Time) ([]models.FoodEntry, error) {
	var entries []models.FoodEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, dayStart(date), dayEnd(date)).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (s *FoodEntryService) Delete(ctx context.Context, userID uint, entryID string) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND entry_id = ?", userID, entryID).
		Delete(&models.FoodEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrEntryNotFound
	}
	if s.hub != nil {
		s.hub.Broadcast(userID, Event{Type: "entry.deleted", Payload: map[string]string{"entry_id": entryID}})
	}
	return nil
}

package services

import (
	"context"
	"errors"

	"backend/models"

	"gorm.io/gorm"
)

// GoalService manages the per-user daily macro targets.
type GoalService struct {
	db  *gorm.DB
	hub *EventsHub
}

func NewGoalService(db *gorm.DB, hub *EventsHub) *GoalService {
	return &GoalService{db: db, hub: hub}
}

// Get returns the user's goal, or a zero-valued goal when none is set yet.
func (s *GoalService) Get(ctx context.Context, userID uint) (*models.MacroGoal, error) {
	var goal models.MacroGoal
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.MacroGoal{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

func (s *GoalService) Upsert(ctx context.Context, userID uint, calories, protein, carbs, fat float64) (*models.MacroGoal, error) {
	var goal models.MacroGoal
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		goal = models.MacroGoal{UserID: userID, Calories: calories, Protein: protein, Carbs: carbs, Fat: fat}
		err = s.db.WithContext(ctx).Create(&goal).Error
	} else if err == nil {
		goal.Calories = calories
		goal.Protein = protein
		goal.Carbs = carbs
		goal.Fat = fat
		err = s.db.WithContext(ctx).Save(&goal).Error
	}
	if err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.Broadcast(userID, Event{Type: "goal.updated", Payload: goal})
	}
	return &goal, nil
}

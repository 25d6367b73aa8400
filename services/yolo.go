package services

import (
	"context"
	"errors"
	"time"

	"backend/models"

	"gorm.io/gorm"
)

var ErrYoloDayNotFound = errors.New("yolo day not found")

// YoloService manages skip-tracking days. Declaring the same date twice is
// a no-op rather than an error.
type YoloService struct {
	db  *gorm.DB
	hub *EventsHub
}

func NewYoloService(db *gorm.DB, hub *EventsHub) *YoloService {
	return &YoloService{db: db, hub: hub}
}

func (s *YoloService) Declare(ctx context.Context, userID uint, date time.Time, note string) (*models.YoloDay, error) {
	day := models.YoloDay{UserID: userID, Date: dayStart(date), Note: note}
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, dayStart(date)).
		FirstOrCreate(&day).Error
	if err != nil {
		return nil, err
	}
	if s.hub != nil {
		s.hub.Broadcast(userID, Event{Type: "yolo.declared", Payload: day})
	}
	return &day, nil
}

func (s *YoloService) Undo(ctx context.Context, userID uint, date time.Time) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, dayStart(date)).
		Delete(&models.YoloDay{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrYoloDayNotFound
	}
	if s.hub != nil {
		s.hub.Broadcast(userID, Event{Type: "yolo.undone", Payload: map[string]string{"date": dayStart(date).Format("2006-01-02")}})
	}
	return nil
}

func (s *YoloService) IsYoloDay(ctx context.Context, userID uint, date time.Time) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.YoloDay{}).
		Where("user_id = ? AND date = ?", userID, dayStart(date)).
		Count(&count).Error
	return count > 0, err
}

func (s *YoloService) List(ctx context.Context, userID uint, from, to time.Time) ([]models.YoloDay, error) {
	var days []models.YoloDay
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, dayStart(from), dayEnd(to)).
		Order("date ASC").
		Find(&days).Error
	return days, err
}

package services

import (
	"context"
	"errors"
	"time"

	"backend/models"

	"gorm.io/gorm"
)

// kcal per gram of each macro, for the distribution chart.
const (
	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9
)

// DashboardService composes the per-day view: goals, consumed totals, the
// YOLO-day check and the macro calorie-distribution ratios.
type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

type MacroProgress struct {
	Consumed  float64 `json:"consumed"`
	Goal      float64 `json:"goal"`
	Remaining float64 `json:"remaining"`
	Percent   float64 `json:"percent"` // 0..1, capped at 1
}

// MacroDistribution is the fraction of consumed calories contributed by
// each macro (protein/carbs 4 kcal/g, fat 9 kcal/g). Zero when nothing was
// logged.
type MacroDistribution struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

type DailySummary struct {
	Date    string `json:"date"`
	YoloDay bool   `json:"yolo_day"`
	Entries int    `json:"entries"`

	Calories MacroProgress `json:"calories"`
	Protein  MacroProgress `json:"protein"`
	Carbs    MacroProgress `json:"carbs"`
	Fat      MacroProgress `json:"fat"`

	Distribution MacroDistribution `json:"distribution"`
}

type TrendPoint struct {
	Date     string  `json:"date"`
	YoloDay  bool    `json:"yolo_day"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// DailySummary aggregates one day: goal row, entry totals and YOLO flag.
func (s *DashboardService) DailySummary(ctx context.Context, userID uint, date time.Time) (*DailySummary, error) {
	goal, err := s.goalSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	var entries []models.FoodEntry
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, dayStart(date), dayEnd(date)).
		Find(&entries).Error; err != nil {
		return nil, err
	}

	var yoloCount int64
	if err := s.db.WithContext(ctx).
		Model(&models.YoloDay{}).
		Where("user_id = ? AND date = ?", userID, dayStart(date)).
		Count(&yoloCount).Error; err != nil {
		return nil, err
	}

	var cals, prot, carbs, fat float64
	for _, e := range entries {
		cals += float64(e.Calories)
		prot += e.ProteinGrams
		carbs += e.CarbTotalGrams
		fat += e.FatTotalGrams
	}

	sum := &DailySummary{
		Date:     dayStart(date).Format("2006-01-02"),
		YoloDay:  yoloCount > 0,
		Entries:  len(entries),
		Calories: progress(cals, goal.Calories),
		Protein:  progress(prot, goal.Protein),
		Carbs:    progress(carbs, goal.Carbs),
		Fat:      progress(fat, goal.Fat),
	}

	protKcal := prot * kcalPerGramProtein
	carbKcal := carbs * kcalPerGramCarbs
	fatKcal := fat * kcalPerGramFat
	if total := protKcal + carbKcal + fatKcal; total > 0 {
		sum.Distribution = MacroDistribution{
			Protein: protKcal / total,
			Carbs:   carbKcal / total,
			Fat:     fatKcal / total,
		}
	}

	return sum, nil
}

// Trends returns one point per calendar day in [from, to], zeros for days
// without entries, with YOLO days flagged so the chart can skip them.
func (s *DashboardService) Trends(ctx context.Context, userID uint, from, to time.Time) ([]TrendPoint, error) {
	var entries []models.FoodEntry
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, dayStart(from), dayEnd(to)).
		Order("date ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}

	var yoloDays []models.YoloDay
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, dayStart(from), dayEnd(to)).
		Find(&yoloDays).Error; err != nil {
		return nil, err
	}

	// index by yyyy-mm-dd
	totals := map[string]*TrendPoint{}
	for _, e := range entries {
		key := dayStart(e.Date).Format("2006-01-02")
		p := totals[key]
		if p == nil {
			p = &TrendPoint{Date: key}
			totals[key] = p
		}
		p.Calories += float64(e.Calories)
		p.Protein += e.ProteinGrams
		p.Carbs += e.CarbTotalGrams
		p.Fat += e.FatTotalGrams
	}
	yolo := map[string]bool{}
	for _, d := range yoloDays {
		yolo[dayStart(d.Date).Format("2006-01-02")] = true
	}

	var points []TrendPoint
	for d := dayStart(from); !d.After(dayStart(to)); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		point := TrendPoint{Date: key, YoloDay: yolo[key]}
		if p := totals[key]; p != nil {
			point.Calories = p.Calories
			point.Protein = p.Protein
			point.Carbs = p.Carbs
			point.Fat = p.Fat
		}
		points = append(points, point)
	}
	return points, nil
}

func (s *DashboardService) goalSnapshot(ctx context.Context, userID uint) (*models.MacroGoal, error) {
	var goal models.MacroGoal
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&goal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.MacroGoal{UserID: userID}, nil
		}
		return nil, err
	}
	return &goal, nil
}

func progress(consumed, target float64) MacroProgress {
	p := MacroProgress{Consumed: consumed, Goal: target}
	if remaining := target - consumed; remaining > 0 {
		p.Remaining = remaining
	}
	if target > 0 {
		p.Percent = consumed / target
		if p.Percent > 1 {
			p.Percent = 1
		}
	}
	return p
}

// dayStart pins t's wall-clock calendar day to UTC midnight, so a
// server-local "now" and a parsed "2006-01-02" request date land in the
// same bucket regardless of the host timezone.
func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dayEnd(t time.Time) time.Time {
	return dayStart(t).Add(24 * time.Hour)
}

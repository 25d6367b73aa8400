package models

import (
	"time"

	"gorm.io/gorm"
)

// FoodEntry stores the nutrition snapshot for one logged food, together with
// the provenance of the numbers (barcode lookup, text search or AI estimate).
type FoodEntry struct {
	gorm.Model
	EntryID string    `gorm:"type:varchar(36);uniqueIndex;not null"` // client-facing uuid
	UserID  uint      `gorm:"index;not null"`
	Date    time.Time `gorm:"index;not null"` // truncate to YYYY-MM-DD

	Name        string `gorm:"not null"`
	Description string

	Calories          int
	ProteinGrams      float64
	CarbTotalGrams    float64
	CarbFiberGrams    float64
	CarbSugarGrams    float64
	FatTotalGrams     float64
	FatSaturatedGrams float64

	DataSource string `gorm:"type:varchar(32)"` // database_barcode | database_search | ai_analysis | manual
}

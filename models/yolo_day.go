package models

import (
	"time"

	"gorm.io/gorm"
)

// YoloDay marks a date the user opted out of tracking. Dashboards and trend
// ranges treat the date as a skip day instead of a zero-intake day.
type YoloDay struct {
	gorm.Model
	UserID uint      `gorm:"index:idx_yolo_user_date,unique;not null"`
	Date   time.Time `gorm:"index:idx_yolo_user_date,unique;not null"` // truncate to YYYY-MM-DD
	Note   string
}

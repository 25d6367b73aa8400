package models

import (
	"gorm.io/gorm"
)

// User mirrors an account in the hosted auth provider. Rows are provisioned
// lazily the first time a valid token for the subject is seen.
type User struct {
	gorm.Model
	ExternalID string `gorm:"type:varchar(64);uniqueIndex;not null"` // auth provider subject
	Email      string `gorm:"uniqueIndex;not null"`
	FullName   string
}

package models

import "gorm.io/gorm"

// User is an operator allowed to record purchases.
type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Name         string
}

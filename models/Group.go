package models

import "time"

// Group classifies ingredients for reporting ("Hortifruti", "Carne", ...).
type Group struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

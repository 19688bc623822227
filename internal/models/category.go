package models

import "time"

// Category represents an activity category (e.g., "running", "cycling").
type Category struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:50;unique;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

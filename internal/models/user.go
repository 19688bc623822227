package models

import "time"

// User represents a user profile in the system.
type User struct {
	ID           string `gorm:"type:uuid;primaryKey"`
	DisplayName  string `gorm:"size:80;not null"`
	Email        string `gorm:"size:255;unique;not null"`
	PasswordHash string `gorm:"size:255;not null"`

	// AvatarURL is an external image URL; AvatarKey is an internal storage
	// object key that needs a freshly minted signed URL. At most one is set.
	AvatarURL string `gorm:"size:512"`
	AvatarKey string `gorm:"size:512"`

	LocationLabel string `gorm:"size:255"`
	Lat           *float64
	Lng           *float64

	LastSeenAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

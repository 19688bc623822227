package models

import "time"

// Visibility is the audience-scoping policy of an activity.
type Visibility string

const (
	// VisibilityFriends makes the activity visible to all accepted friends.
	VisibilityFriends Visibility = "friends"

	// VisibilityPrivate backs the "specific friends" option: the activity is
	// visible only through explicit invitations.
	VisibilityPrivate Visibility = "private"

	// VisibilityPublic makes the activity visible to everyone.
	VisibilityPublic Visibility = "public"
)

// ActivityStatus defines the lifecycle state of an activity.
type ActivityStatus string

const (
	ActivityActive    ActivityStatus = "active"
	ActivityCancelled ActivityStatus = "cancelled"
)

// Activity represents a single scheduled sports event. Activities are never
// physically deleted; cancellation is a status change.
type Activity struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	CreatorID   string `gorm:"type:uuid;not null;index"`
	Title       string `gorm:"size:120;not null"`
	Description string
	Category    string    `gorm:"size:50;not null;index"`
	StartsAt    time.Time `gorm:"not null;index"`

	LocationLabel string `gorm:"size:255"`
	Lat           *float64
	Lng           *float64

	Visibility      Visibility     `gorm:"type:varchar(20);not null;default:'friends'"`
	MaxParticipants int            `gorm:"not null;default:5"`
	Distance        string         `gorm:"size:50"`
	Duration        string         `gorm:"size:50"`
	Status          ActivityStatus `gorm:"type:varchar(20);not null;default:'active';index"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Creator User `gorm:"foreignKey:CreatorID"`
}

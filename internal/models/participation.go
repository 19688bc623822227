package models

import "time"

// ParticipationStatus defines the state of a participation row.
type ParticipationStatus string

const (
	ParticipationJoined ParticipationStatus = "joined"
)

// Participation records that a user has joined an activity. The composite
// primary key guarantees at most one row per (activity, user) pair; duplicate
// joins surface as unique-constraint violations and are treated as no-ops.
// The organizer is never represented here; it is derived from CreatorID.
type Participation struct {
	ActivityID string              `gorm:"type:uuid;primaryKey"`
	UserID     string              `gorm:"type:uuid;primaryKey"`
	Status     ParticipationStatus `gorm:"type:varchar(20);not null;default:'joined'"`
	CreatedAt  time.Time

	User User `gorm:"foreignKey:UserID"`
}

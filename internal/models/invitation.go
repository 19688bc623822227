package models

import "time"

// InvitationStatus defines the state of an activity invitation.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
)

// Invitation is a directed record from inviter to invited user for one
// activity. Only the addressee may respond; only the inviter may cancel, and
// only while still pending. Accept and decline are terminal.
type Invitation struct {
	ID            string           `gorm:"type:uuid;primaryKey"`
	ActivityID    string           `gorm:"type:uuid;not null;index;uniqueIndex:idx_invite_pair"`
	InvitedBy     string           `gorm:"type:uuid;not null"`
	InvitedUserID string           `gorm:"type:uuid;not null;index;uniqueIndex:idx_invite_pair"`
	Status        InvitationStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	RespondedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Activity Activity `gorm:"foreignKey:ActivityID"`
	Inviter  User     `gorm:"foreignKey:InvitedBy"`
}

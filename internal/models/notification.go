package models

import "time"

// NotificationType identifies what triggered a notification.
type NotificationType string

const (
	NotifFriendRequest         NotificationType = "friend_request"
	NotifFriendRequestAccepted NotificationType = "friend_request_accepted"
	NotifActivityInvitation    NotificationType = "activity_invitation"
	NotifInvitationAccepted    NotificationType = "invitation_accepted"
	NotifActivityCancelled     NotificationType = "activity_cancelled"
)

// Notification is a user-addressed, typed, read/unread message. The payload
// is a JSON document carrying references to the triggering entities (sender
// id and name, activity id). Creation is always best-effort: failures are
// logged and swallowed, never propagated to the triggering action.
type Notification struct {
	ID        string           `gorm:"type:uuid;primaryKey"`
	UserID    string           `gorm:"type:uuid;not null;index"`
	Type      NotificationType `gorm:"type:varchar(40);not null"`
	Payload   string           `gorm:"type:jsonb;not null;default:'{}'"`
	IsRead    bool             `gorm:"not null;default:false"`
	CreatedAt time.Time
}

// NotificationOutbox stages notification events for asynchronous delivery to
// the push pipeline. Rows are written in the same transaction as the
// notification and drained by a relayer.
type NotificationOutbox struct {
	ID             uint64 `gorm:"primaryKey"`
	NotificationID string `gorm:"type:uuid;not null"`
	UserID         string `gorm:"type:uuid;not null"`
	EventType      string `gorm:"size:40;not null"`
	Payload        string `gorm:"type:jsonb;not null"`
	Status         int8   `gorm:"not null;default:0;comment:'0=pending,1=sent,2=failed'"`
	Retry          int    `gorm:"not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (NotificationOutbox) TableName() string { return "notification_outbox" }

package models

import "time"

// FriendshipStatus defines the state of a relationship between two users.
type FriendshipStatus string

const (
	// StatusPending means a friend request has been sent but not yet accepted.
	StatusPending FriendshipStatus = "pending"

	// StatusAccepted means the friend request was accepted, and the users are now friends.
	StatusAccepted FriendshipStatus = "accepted"

	// StatusBlocked means one of the two users blocked the other.
	StatusBlocked FriendshipStatus = "blocked"
)

// Friendship represents the undirected relationship between two users.
// UserA and UserB are stored in canonical order (lexicographically smaller
// id first), so the composite primary key guarantees at most one edge per
// unordered pair regardless of who initiated it. RequestedBy records the
// initiator and gives the request its direction.
type Friendship struct {
	UserA       string           `gorm:"type:uuid;primaryKey"`
	UserB       string           `gorm:"type:uuid;primaryKey"`
	Status      FriendshipStatus `gorm:"type:varchar(20);not null"`
	RequestedBy string           `gorm:"type:uuid;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Other returns the counterpart of userID in the edge.
func (f Friendship) Other(userID string) string {
	if f.UserA == userID {
		return f.UserB
	}
	return f.UserA
}

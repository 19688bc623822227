package activity

import (
	"time"

	"github.com/gcoopmansS/Moovle-sub000/internal/models"
)

// Decision is the outcome of an eligibility check. Reasons collects every
// failing condition rather than short-circuiting on the first one, so a
// caller can present the complete list.
type Decision struct {
	Allowed bool     `json:"allowed"`
	Reasons []string `json:"reasons,omitempty"`
}

const (
	ReasonNotAuthenticated = "not authenticated"
	ReasonIsOrganizer      = "organizer cannot join own activity"
	ReasonAlreadyJoined    = "already joined"
	ReasonFull             = "activity full"
	ReasonStarted          = "activity already started"
	ReasonCancelled        = "activity cancelled"
	ReasonOrganizerLeave   = "organizer cannot leave own activity"
	ReasonNotParticipant   = "not a participant"
)

// CanJoin decides whether userID may join the activity given its current
// participant set.
func CanJoin(a *models.Activity, participantIDs []string, userID string, now time.Time) Decision {
	var reasons []string

	if userID == "" {
		reasons = append(reasons, ReasonNotAuthenticated)
	}
	if userID != "" && userID == a.CreatorID {
		reasons = append(reasons, ReasonIsOrganizer)
	}
	for _, p := range participantIDs {
		if p != "" && p == userID {
			reasons = append(reasons, ReasonAlreadyJoined)
			break
		}
	}
	if len(participantIDs) >= a.MaxParticipants {
		reasons = append(reasons, ReasonFull)
	}
	if !now.Before(a.StartsAt) {
		reasons = append(reasons, ReasonStarted)
	}
	if a.Status == models.ActivityCancelled {
		reasons = append(reasons, ReasonCancelled)
	}

	return Decision{Allowed: len(reasons) == 0, Reasons: reasons}
}

// CanLeave decides whether userID may leave the activity. The organizer can
// never leave their own activity; they must cancel it or transfer ownership.
func CanLeave(a *models.Activity, participantIDs []string, userID string) Decision {
	var reasons []string

	if userID == "" {
		reasons = append(reasons, ReasonNotAuthenticated)
	}
	if userID != "" && userID == a.CreatorID {
		reasons = append(reasons, ReasonOrganizerLeave)
	}
	joined := false
	for _, p := range participantIDs {
		if p == userID {
			joined = true
			break
		}
	}
	if userID != "" && userID != a.CreatorID && !joined {
		reasons = append(reasons, ReasonNotParticipant)
	}

	return Decision{Allowed: len(reasons) == 0, Reasons: reasons}
}

// CanView decides whether the viewer may read the activity at all. Public
// activities are open to everyone. Anything else requires authentication,
// and then: the organizer, participants and invitees always see it, friends
// visibility additionally opens it to the organizer's accepted friends, and
// private visibility opens it to no one else.
func CanView(a *models.Activity, participantIDs []string, viewerID string, isFriendOfCreator, isInvited bool) bool {
	if a.Visibility == models.VisibilityPublic {
		return true
	}
	if viewerID == "" {
		return false
	}
	if viewerID == a.CreatorID || isInvited {
		return true
	}
	for _, p := range participantIDs {
		if p == viewerID {
			return true
		}
	}
	return a.Visibility == models.VisibilityFriends && isFriendOfCreator
}

// SpotsLeft returns the number of open participant spots, never negative.
func SpotsLeft(a *models.Activity, participantCount int) int {
	left := a.MaxParticipants - participantCount
	if left < 0 {
		return 0
	}
	return left
}

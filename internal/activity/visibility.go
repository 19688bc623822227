package activity

import (
	"fmt"

	"github.com/gcoopmansS/Moovle-sub000/internal/models"
)

// Audience values accepted at activity creation.
const (
	AudienceAllFriends      = "all-friends"
	AudienceSpecificFriends = "specific-friends"
	AudiencePublic          = "public"
)

// MapVisibility maps the creation-time audience choice onto the stored
// visibility. "specific-friends" is backed by private visibility plus
// explicit invitations sent as a follow-up step. Unknown input is a
// validation error, never a silent fallback.
func MapVisibility(audience string) (models.Visibility, error) {
	switch audience {
	case AudienceAllFriends:
		return models.VisibilityFriends, nil
	case AudienceSpecificFriends:
		return models.VisibilityPrivate, nil
	case AudiencePublic:
		return models.VisibilityPublic, nil
	default:
		return "", fmt.Errorf("%w: unknown audience %q", ErrValidation, audience)
	}
}

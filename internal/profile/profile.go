package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/gcoopmansS/Moovle-sub000/internal/models"
)

// ErrValidation wraps client-detected profile validation failures.
var ErrValidation = errors.New("validation failed")

// OnlineWindow is how recently a user must have been seen to count as online.
const OnlineWindow = 5 * time.Minute

// avatarURLTTL bounds how long a signed avatar URL stays valid.
const avatarURLTTL = 15 * time.Minute

// UserStore is the persistence collaborator for profiles.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	Save(ctx context.Context, u *models.User) error
}

// AvatarStore uploads avatar blobs and mints time-limited signed URLs.
type AvatarStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// UpdateInput carries the profile fields a user may edit.
type UpdateInput struct {
	DisplayName   string
	LocationLabel string
	Lat           *float64
	Lng           *float64
}

// Validate checks profile field constraints, collecting every problem.
func Validate(in UpdateInput) []string {
	var problems []string
	if strings.TrimSpace(in.DisplayName) == "" {
		problems = append(problems, "display name is required")
	} else if len(in.DisplayName) > 80 {
		problems = append(problems, "display name must be at most 80 characters")
	}
	if in.Lat != nil && (*in.Lat < -90 || *in.Lat > 90) {
		problems = append(problems, "latitude out of range")
	}
	if in.Lng != nil && (*in.Lng < -180 || *in.Lng > 180) {
		problems = append(problems, "longitude out of range")
	}
	return problems
}

// Initials derives up to two uppercase initials from a display name.
func Initials(displayName string) string {
	var out []rune
	for _, word := range strings.Fields(displayName) {
		for _, r := range word {
			out = append(out, unicode.ToUpper(r))
			break
		}
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}

// OnlineRecently reports whether the user was seen within the online window.
func OnlineRecently(lastSeen *time.Time, now time.Time) bool {
	if lastSeen == nil {
		return false
	}
	return now.Sub(*lastSeen) <= OnlineWindow
}

// Service composes the user store with avatar resolution and enrichment.
type Service struct {
	users   UserStore
	avatars AvatarStore
	now     func() time.Time
}

func NewService(users UserStore, avatars AvatarStore) *Service {
	return &Service{users: users, avatars: avatars, now: time.Now}
}

func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// Update edits the caller's own profile.
func (s *Service) Update(ctx context.Context, userID string, in UpdateInput) (*models.User, error) {
	if problems := Validate(in); len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.DisplayName = in.DisplayName
	u.LocationLabel = in.LocationLabel
	u.Lat = in.Lat
	u.Lng = in.Lng
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// SetAvatar uploads the image and records the internal object key. Any
// previously set external URL is cleared; the key wins.
func (s *Service) SetAvatar(ctx context.Context, userID string, r io.Reader, size int64, contentType string) (*models.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("avatars/%s", userID)
	if err := s.avatars.Upload(ctx, key, r, size, contentType); err != nil {
		return nil, err
	}

	u.AvatarKey = key
	u.AvatarURL = ""
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// AvatarURL resolves a single usable avatar URL: the external URL when set,
// otherwise a freshly minted signed URL for the internal object key. The
// resolution happens once here at the data-access boundary, never re-derived
// downstream.
func (s *Service) AvatarURL(ctx context.Context, u *models.User) string {
	if u.AvatarURL != "" {
		return u.AvatarURL
	}
	if u.AvatarKey == "" || s.avatars == nil {
		return ""
	}
	url, err := s.avatars.SignedURL(ctx, u.AvatarKey, avatarURLTTL)
	if err != nil {
		return ""
	}
	return url
}

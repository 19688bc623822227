package activity

import (
	"context"
	"errors"
	"time"

	"github.com/gcoopmansS/Moovle-sub000/internal/models"
)

var (
	// ErrValidation wraps client-detected validation failures. Nothing is
	// sent to the backend when it fires.
	ErrValidation = errors.New("validation failed")

	// ErrActivityNotFound signals that no activity matched the given id.
	ErrActivityNotFound = errors.New("activity not found")

	// ErrNotOrganizer signals a mutation attempted by someone other than the
	// activity's creator.
	ErrNotOrganizer = errors.New("only the organizer may do this")

	// ErrDuplicateParticipation signals a participation row already exists
	// for the (activity, user) pair. Callers treat it as a benign no-op.
	ErrDuplicateParticipation = errors.New("already participating")

	// ErrInvitationNotFound signals that no invitation matched the scoping
	// filter (wrong id, wrong addressee/inviter, or not pending).
	ErrInvitationNotFound = errors.New("pending invitation not found")

	// ErrNotAllowed carries the reasons an eligibility check failed.
	ErrNotAllowed = errors.New("not allowed")
)

// Store is the persistence collaborator for activities, participations and
// invitations. Implementations must surface unique-constraint violations as
// ErrDuplicateParticipation, distinctly from generic failures, and scope
// updates/deletes exactly as documented so authorization reduces to a
// zero-rows check.
type Store interface {
	// InTx runs fn against a store bound to one transaction. The in-memory
	// test fake simply runs fn against itself.
	InTx(ctx context.Context, fn func(Store) error) error

	CreateActivity(ctx context.Context, a *models.Activity) error
	GetActivity(ctx context.Context, id string) (*models.Activity, error)
	SaveActivity(ctx context.Context, a *models.Activity) error

	// SetStatus updates the activity's status scoped to creator_id, returning
	// rows affected.
	SetStatus(ctx context.Context, id, creatorID string, status models.ActivityStatus) (int64, error)

	// TransferOwner moves ownership scoped to the current creator, returning
	// rows affected.
	TransferOwner(ctx context.Context, id, creatorID, newOwnerID string) (int64, error)

	// ParticipantIDs returns the ids of all joined users (organizer excluded;
	// it is derived from CreatorID, never stored).
	ParticipantIDs(ctx context.Context, activityID string) ([]string, error)

	// AddParticipant inserts a participation row, returning
	// ErrDuplicateParticipation when one already exists.
	AddParticipant(ctx context.Context, activityID, userID string) error

	// RemoveParticipant deletes the participation row, returning rows
	// affected. Zero rows is not an error.
	RemoveParticipant(ctx context.Context, activityID, userID string) (int64, error)

	CreateInvitations(ctx context.Context, invs []models.Invitation) error

	// ListInvitations returns pending invitations addressed to userID.
	ListInvitations(ctx context.Context, userID string) ([]models.Invitation, error)

	// InvitedUserIDs returns the ids of every user holding an invitation row
	// for the activity, regardless of status. An invitation grants read
	// access to a private activity even after it was answered.
	InvitedUserIDs(ctx context.Context, activityID string) ([]string, error)

	// RespondInvitation updates the invitation's status and responded_at,
	// scoped to invited_user_id = responderID AND status = pending. It
	// returns the updated invitation, or ErrInvitationNotFound when the
	// scoping matched zero rows.
	RespondInvitation(ctx context.Context, id, responderID string, status models.InvitationStatus, respondedAt time.Time) (*models.Invitation, error)

	// DeleteInvitation deletes scoped to invited_by = inviterID AND
	// status = pending, returning rows affected.
	DeleteInvitation(ctx context.Context, id, inviterID string) (int64, error)

	// Feed returns active activities visible to the viewer: public ones,
	// friends-visible ones created by the given friend ids, the viewer's
	// own, and private ones the viewer is invited to or joined.
	Feed(ctx context.Context, viewerID string, friendIDs []string, after time.Time, limit, offset int) ([]models.Activity, error)
}

// Notifier delivers best-effort notifications. Failures are logged by the
// caller and never propagate to the triggering action.
type Notifier interface {
	Notify(ctx context.Context, userID string, typ models.NotificationType, payload map[string]any) error
}

package activity

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gcoopmansS/Moovle-sub000/internal/models"
)

// CreateInput carries everything needed to create or edit an activity.
type CreateInput struct {
	Title           string
	Description     string
	Category        string
	StartsAt        time.Time
	LocationLabel   string
	Lat             *float64
	Lng             *float64
	Audience        string
	MaxParticipants int
	Distance        string
	Duration        string
}

// Service composes the activity store with the lifecycle rules: creation and
// mutation are organizer-only, joins and invitation responses are idempotent
// against the store's uniqueness constraints, and invitation side effects run
// inside a single transaction.
type Service struct {
	store    Store
	notifier Notifier
	now      func() time.Time
}

func NewService(store Store, notifier Notifier) *Service {
	return &Service{store: store, notifier: notifier, now: time.Now}
}

// Create validates the input, maps the audience onto a stored visibility and
// persists the activity with the caller as organizer.
func (s *Service) Create(ctx context.Context, creatorID string, in CreateInput) (*models.Activity, error) {
	if creatorID == "" {
		return nil, fmt.Errorf("%w: %s", ErrValidation, ReasonNotAuthenticated)
	}
	if problems := ValidateNew(NewActivityInput{
		Title:           in.Title,
		Category:        in.Category,
		StartsAt:        in.StartsAt,
		MaxParticipants: in.MaxParticipants,
		Audience:        in.Audience,
	}, s.now()); len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
	}

	visibility, err := MapVisibility(in.Audience)
	if err != nil {
		return nil, err
	}

	a := &models.Activity{
		ID:              uuid.NewString(),
		CreatorID:       creatorID,
		Title:           in.Title,
		Description:     in.Description,
		Category:        in.Category,
		StartsAt:        in.StartsAt,
		LocationLabel:   in.LocationLabel,
		Lat:             in.Lat,
		Lng:             in.Lng,
		Visibility:      visibility,
		MaxParticipants: in.MaxParticipants,
		Distance:        in.Distance,
		Duration:        in.Duration,
		Status:          models.ActivityActive,
	}
	if err := s.store.CreateActivity(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Detail returns the activity together with its participant ids, applying
// read visibility for the viewer. A viewer who may not see the activity gets
// ErrActivityNotFound, indistinguishable from a missing id.
func (s *Service) Detail(ctx context.Context, id, viewerID string, friendIDs []string) (*models.Activity, []string, error) {
	a, participants, err := s.load(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	isFriend := false
	for _, f := range friendIDs {
		if f == a.CreatorID {
			isFriend = true
			break
		}
	}
	if CanView(a, participants, viewerID, isFriend, false) {
		return a, participants, nil
	}
	if viewerID != "" {
		invited, err := s.store.InvitedUserIDs(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		for _, uid := range invited {
			if uid == viewerID {
				return a, participants, nil
			}
		}
	}
	return nil, nil, ErrActivityNotFound
}

// load fetches the activity and participant ids without a visibility check.
func (s *Service) load(ctx context.Context, id string) (*models.Activity, []string, error) {
	a, err := s.store.GetActivity(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	participants, err := s.store.ParticipantIDs(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return a, participants, nil
}

// Update edits an activity. Only the organizer may edit.
func (s *Service) Update(ctx context.Context, id, editorID string, in CreateInput) (*models.Activity, error) {
	a, err := s.store.GetActivity(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.CreatorID != editorID {
		return nil, ErrNotOrganizer
	}
	if problems := ValidateNew(NewActivityInput{
		Title:           in.Title,
		Category:        in.Category,
		StartsAt:        in.StartsAt,
		MaxParticipants: in.MaxParticipants,
		Audience:        in.Audience,
	}, s.now()); len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
	}
	visibility, err := MapVisibility(in.Audience)
	if err != nil {
		return nil, err
	}

	a.Title = in.Title
	a.Description = in.Description
	a.Category = in.Category
	a.StartsAt = in.StartsAt
	a.LocationLabel = in.LocationLabel
	a.Lat = in.Lat
	a.Lng = in.Lng
	a.Visibility = visibility
	a.MaxParticipants = in.MaxParticipants
	a.Distance = in.Distance
	a.Duration = in.Duration

	if err := s.store.SaveActivity(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Cancel marks the activity cancelled. The row is never deleted. Participants
// are notified best-effort.
func (s *Service) Cancel(ctx context.Context, id, callerID string) error {
	rows, err := s.store.SetStatus(ctx, id, callerID, models.ActivityCancelled)
	if err != nil {
		return err
	}
	if rows == 0 {
		return s.explainZeroRows(ctx, id, callerID)
	}

	participants, err := s.store.ParticipantIDs(ctx, id)
	if err != nil {
		log.Printf("activity: listing participants of %s for cancel notice failed: %v", id, err)
		return nil
	}
	for _, p := range participants {
		s.notify(ctx, p, models.NotifActivityCancelled, map[string]any{"activity_id": id})
	}
	return nil
}

// Transfer moves ownership of the activity to another user. The previous
// organizer keeps no participation row; the new organizer becomes the
// implicit participant.
func (s *Service) Transfer(ctx context.Context, id, callerID, newOwnerID string) error {
	if newOwnerID == "" || newOwnerID == callerID {
		return fmt.Errorf("%w: invalid new owner", ErrValidation)
	}
	rows, err := s.store.TransferOwner(ctx, id, callerID, newOwnerID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return s.explainZeroRows(ctx, id, callerID)
	}
	// The new organizer is implicit; drop any participation row they had.
	if _, err := s.store.RemoveParticipant(ctx, id, newOwnerID); err != nil {
		log.Printf("activity: dropping participation of new owner %s on %s failed: %v", newOwnerID, id, err)
	}
	return nil
}

// Join checks eligibility and inserts a participation row. A duplicate row
// (concurrent or repeated join) is swallowed; the join is idempotent.
func (s *Service) Join(ctx context.Context, activityID, userID string) (Decision, error) {
	a, participants, err := s.load(ctx, activityID)
	if err != nil {
		return Decision{}, err
	}

	decision := CanJoin(a, participants, userID, s.now())
	if !decision.Allowed {
		return decision, nil
	}

	if err := s.store.AddParticipant(ctx, activityID, userID); err != nil && !errors.Is(err, ErrDuplicateParticipation) {
		return decision, err
	}
	return decision, nil
}

// Leave checks eligibility and removes the participation row. The absence of
// a row to delete is not an error.
func (s *Service) Leave(ctx context.Context, activityID, userID string) (Decision, error) {
	a, participants, err := s.load(ctx, activityID)
	if err != nil {
		return Decision{}, err
	}

	decision := CanLeave(a, participants, userID)
	if !decision.Allowed {
		return decision, nil
	}

	if _, err := s.store.RemoveParticipant(ctx, activityID, userID); err != nil {
		return decision, err
	}
	return decision, nil
}

// Invite creates pending invitations from the organizer to the given users.
// Recipients who already hold an invitation for the activity are skipped
// before the insert, so only the newly invited are counted and notified;
// re-inviting everyone is a success-no-op.
func (s *Service) Invite(ctx context.Context, activityID, inviterID string, userIDs []string) ([]models.Invitation, error) {
	a, err := s.store.GetActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if a.CreatorID != inviterID {
		return nil, ErrNotOrganizer
	}

	existing, err := s.store.InvitedUserIDs(ctx, activityID)
	if err != nil {
		return nil, err
	}
	already := make(map[string]bool, len(existing))
	for _, uid := range existing {
		already[uid] = true
	}

	var invs []models.Invitation
	validTargets := 0
	for _, uid := range userIDs {
		if uid == "" || uid == inviterID {
			continue
		}
		validTargets++
		if already[uid] {
			continue
		}
		already[uid] = true
		invs = append(invs, models.Invitation{
			ID:            uuid.NewString(),
			ActivityID:    activityID,
			InvitedBy:     inviterID,
			InvitedUserID: uid,
			Status:        models.InvitationPending,
		})
	}
	if validTargets == 0 {
		return nil, fmt.Errorf("%w: no recipients", ErrValidation)
	}
	if len(invs) == 0 {
		return nil, nil
	}
	if err := s.store.CreateInvitations(ctx, invs); err != nil {
		return nil, err
	}

	for _, inv := range invs {
		s.notify(ctx, inv.InvitedUserID, models.NotifActivityInvitation, map[string]any{
			"sender_id":   inviterID,
			"activity_id": activityID,
		})
	}
	return invs, nil
}

// MyInvitations returns the pending invitations addressed to userID.
func (s *Service) MyInvitations(ctx context.Context, userID string) ([]models.Invitation, error) {
	return s.store.ListInvitations(ctx, userID)
}

// AcceptInvitation marks the invitation accepted and joins the responder to
// the activity, both inside one transaction so a partial failure cannot
// leave an accepted invitation without a participation row. Only the
// addressee can respond; a duplicate participation (they joined directly
// already) is swallowed.
func (s *Service) AcceptInvitation(ctx context.Context, invitationID, responderID string) error {
	var inv *models.Invitation
	err := s.store.InTx(ctx, func(tx Store) error {
		var err error
		inv, err = tx.RespondInvitation(ctx, invitationID, responderID, models.InvitationAccepted, s.now())
		if err != nil {
			return err
		}
		if err := tx.AddParticipant(ctx, inv.ActivityID, responderID); err != nil && !errors.Is(err, ErrDuplicateParticipation) {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.notify(ctx, inv.InvitedBy, models.NotifInvitationAccepted, map[string]any{
		"sender_id":   responderID,
		"activity_id": inv.ActivityID,
	})
	return nil
}

// DeclineInvitation marks the invitation declined. Terminal; no participation
// side effect.
func (s *Service) DeclineInvitation(ctx context.Context, invitationID, responderID string) error {
	_, err := s.store.RespondInvitation(ctx, invitationID, responderID, models.InvitationDeclined, s.now())
	return err
}

// CancelInvitation deletes a still-pending invitation. Only the original
// inviter may cancel; an already-answered invitation cannot be cancelled.
func (s *Service) CancelInvitation(ctx context.Context, invitationID, inviterID string) error {
	rows, err := s.store.DeleteInvitation(ctx, invitationID, inviterID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrInvitationNotFound
	}
	return nil
}

// Feed returns upcoming activities visible to the viewer.
func (s *Service) Feed(ctx context.Context, viewerID string, friendIDs []string, limit, offset int) ([]models.Activity, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.Feed(ctx, viewerID, friendIDs, s.now(), limit, offset)
}

// explainZeroRows distinguishes a missing activity from an unauthorized
// caller after a scoped update matched nothing.
func (s *Service) explainZeroRows(ctx context.Context, id, callerID string) error {
	a, err := s.store.GetActivity(ctx, id)
	if err != nil {
		return err
	}
	if a.CreatorID != callerID {
		return ErrNotOrganizer
	}
	return ErrActivityNotFound
}

func (s *Service) notify(ctx context.Context, userID string, typ models.NotificationType, payload map[string]any) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, userID, typ, payload); err != nil {
		log.Printf("activity: %s notification for %s failed: %v", typ, userID, err)
	}
}

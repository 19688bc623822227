package activity

import (
	"context"
	"time"

	"github.com/gcoopmansS/Moovle-sub000/internal/models"
)

// fakeStore is an in-memory Store mirroring the database's constraints:
// unique (activity, user) participation, scoped invitation updates.
type fakeStore struct {
	activities     map[string]*models.Activity
	participations map[[2]string]bool
	invitations    map[string]*models.Invitation
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		activities:     make(map[string]*models.Activity),
		participations: make(map[[2]string]bool),
		invitations:    make(map[string]*models.Invitation),
	}
}

func (f *fakeStore) InTx(_ context.Context, fn func(Store) error) error { return fn(f) }

func (f *fakeStore) CreateActivity(_ context.Context, a *models.Activity) error {
	cp := *a
	f.activities[a.ID] = &cp
	return nil
}

func (f *fakeStore) GetActivity(_ context.Context, id string) (*models.Activity, error) {
	a, ok := f.activities[id]
	if !ok {
		return nil, ErrActivityNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeStore) SaveActivity(_ context.Context, a *models.Activity) error {
	cp := *a
	f.activities[a.ID] = &cp
	return nil
}

func (f *fakeStore) SetStatus(_ context.Context, id, creatorID string, status models.ActivityStatus) (int64, error) {
	a, ok := f.activities[id]
	if !ok || a.CreatorID != creatorID {
		return 0, nil
	}
	a.Status = status
	return 1, nil
}

func (f *fakeStore) TransferOwner(_ context.Context, id, creatorID, newOwnerID string) (int64, error) {
	a, ok := f.activities[id]
	if !ok || a.CreatorID != creatorID {
		return 0, nil
	}
	a.CreatorID = newOwnerID
	return 1, nil
}

func (f *fakeStore) ParticipantIDs(_ context.Context, activityID string) ([]string, error) {
	var out []string
	for k := range f.participations {
		if k[0] == activityID {
			out = append(out, k[1])
		}
	}
	return out, nil
}

func (f *fakeStore) AddParticipant(_ context.Context, activityID, userID string) error {
	k := [2]string{activityID, userID}
	if f.participations[k] {
		return ErrDuplicateParticipation
	}
	f.participations[k] = true
	return nil
}

func (f *fakeStore) RemoveParticipant(_ context.Context, activityID, userID string) (int64, error) {
	k := [2]string{activityID, userID}
	if !f.participations[k] {
		return 0, nil
	}
	delete(f.participations, k)
	return 1, nil
}

func (f *fakeStore) CreateInvitations(_ context.Context, invs []models.Invitation) error {
	for i := range invs {
		cp := invs[i]
		f.invitations[cp.ID] = &cp
	}
	return nil
}

func (f *fakeStore) InvitedUserIDs(_ context.Context, activityID string) ([]string, error) {
	var ids []string
	for _, inv := range f.invitations {
		if inv.ActivityID == activityID {
			ids = append(ids, inv.InvitedUserID)
		}
	}
	return ids, nil
}

func (f *fakeStore) ListInvitations(_ context.Context, userID string) ([]models.Invitation, error) {
	var out []models.Invitation
	for _, inv := range f.invitations {
		if inv.InvitedUserID == userID && inv.Status == models.InvitationPending {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (f *fakeStore) RespondInvitation(_ context.Context, id, responderID string, status models.InvitationStatus, respondedAt time.Time) (*models.Invitation, error) {
	inv, ok := f.invitations[id]
	if !ok || inv.InvitedUserID != responderID || inv.Status != models.InvitationPending {
		return nil, ErrInvitationNotFound
	}
	inv.Status = status
	inv.RespondedAt = &respondedAt
	cp := *inv
	return &cp, nil
}

func (f *fakeStore) DeleteInvitation(_ context.Context, id, inviterID string) (int64, error) {
	inv, ok := f.invitations[id]
	if !ok || inv.InvitedBy != inviterID || inv.Status != models.InvitationPending {
		return 0, nil
	}
	delete(f.invitations, id)
	return 1, nil
}

func (f *fakeStore) Feed(_ context.Context, viewerID string, friendIDs []string, after time.Time, limit, offset int) ([]models.Activity, error) {
	friends := make(map[string]bool, len(friendIDs))
	for _, id := range friendIDs {
		friends[id] = true
	}
	var out []models.Activity
	for _, a := range f.activities {
		if a.Status != models.ActivityActive || !a.StartsAt.After(after) {
			continue
		}
		visible := a.Visibility == models.VisibilityPublic ||
			a.CreatorID == viewerID ||
			(a.Visibility == models.VisibilityFriends && friends[a.CreatorID]) ||
			f.participations[[2]string{a.ID, viewerID}]
		if !visible {
			for _, inv := range f.invitations {
				if inv.ActivityID == a.ID && inv.InvitedUserID == viewerID {
					visible = true
					break
				}
			}
		}
		if visible {
			out = append(out, *a)
		}
	}
	return out, nil
}

// recordingNotifier captures notifications; optionally fails every call.
type recordingNotifier struct {
	sent []sentNotification
	fail bool
}

type sentNotification struct {
	userID  string
	typ     models.NotificationType
	payload map[string]any
}

func (n *recordingNotifier) Notify(_ context.Context, userID string, typ models.NotificationType, payload map[string]any) error {
	if n.fail {
		return errFailedNotify
	}
	n.sent = append(n.sent, sentNotification{userID: userID, typ: typ, payload: payload})
	return nil
}

var errFailedNotify = &notifyError{}

type notifyError struct{}

func (*notifyError) Error() string { return "notification sink down" }

package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gcoopmansS/Moovle-sub000/internal/models"
)

func newTestService(store Store, notifier Notifier) *Service {
	return &Service{store: store, notifier: notifier, now: func() time.Time { return testNow }}
}

func seedActivity(store *fakeStore, maxParticipants int) *models.Activity {
	a := upcomingActivity(maxParticipants)
	store.activities[a.ID] = a
	return a
}

func TestCreateMapsAudience(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)

	a, err := svc.Create(context.Background(), "organizer", CreateInput{
		Title:           "Trail run",
		Category:        "running",
		StartsAt:        testNow.Add(time.Hour),
		MaxParticipants: 6,
		Audience:        AudienceSpecificFriends,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.Visibility != models.VisibilityPrivate {
		t.Errorf("visibility = %q, want private backing specific-friends", a.Visibility)
	}
	if a.Status != models.ActivityActive {
		t.Errorf("status = %q, want active", a.Status)
	}
}

func TestCreateRejectsUnknownAudience(t *testing.T) {
	svc := newTestService(newFakeStore(), nil)
	_, err := svc.Create(context.Background(), "organizer", CreateInput{
		Title:           "Trail run",
		Category:        "running",
		StartsAt:        testNow.Add(time.Hour),
		MaxParticipants: 6,
		Audience:        "everyone",
	})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("err = %v, want ErrValidation (no silent fallback)", err)
	}
}

func TestJoinIsIdempotent(t *testing.T) {
	store := newFakeStore()
	seedActivity(store, 5)
	svc := newTestService(store, nil)
	ctx := context.Background()

	if _, err := svc.Join(ctx, "a1", "candidate"); err != nil {
		t.Fatalf("first Join: %v", err)
	}
	// Duplicate insert (e.g. two concurrent joins) must be swallowed; the
	// decision will report already-joined but the call must not error.
	if err := store.AddParticipant(ctx, "a1", "candidate"); !errors.Is(err, ErrDuplicateParticipation) {
		t.Fatalf("fake store should reject duplicates, got %v", err)
	}
	count := 0
	for k := range store.participations {
		if k == [2]string{"a1", "candidate"} {
			count++
		}
	}
	if count != 1 {
		t.Errorf("participation rows = %d, want exactly 1", count)
	}
}

func TestJoinFillsLastSpot(t *testing.T) {
	store := newFakeStore()
	seedActivity(store, 2)
	store.participations[[2]string{"a1", "p1"}] = true
	svc := newTestService(store, nil)
	ctx := context.Background()

	decision, err := svc.Join(ctx, "a1", "candidate")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if !decision.Allowed {
		t.Fatalf("join of last spot should be allowed, reasons: %v", decision.Reasons)
	}

	decision, err = svc.Join(ctx, "a1", "candidate2")
	if err != nil {
		t.Fatalf("second Join: %v", err)
	}
	if decision.Allowed {
		t.Fatal("activity at capacity should refuse further joins")
	}
	found := false
	for _, r := range decision.Reasons {
		if r == ReasonFull {
			found = true
		}
	}
	if !found {
		t.Errorf("reasons = %v, want %q included", decision.Reasons, ReasonFull)
	}
}

func TestLeaveAbsentRowIsNoError(t *testing.T) {
	store := newFakeStore()
	seedActivity(store, 5)
	store.participations[[2]string{"a1", "p1"}] = true
	svc := newTestService(store, nil)

	decision, err := svc.Leave(context.Background(), "a1", "p2")
	if err != nil {
		t.Fatalf("Leave: %v", err)
	}
	if decision.Allowed {
		t.Error("non-participant leave should be disallowed by the rules")
	}
}

func TestAcceptInvitationCreatesParticipation(t *testing.T) {
	store := newFakeStore()
	seedActivity(store, 5)
	store.invitations["i1"] = &models.Invitation{
		ID: "i1", ActivityID: "a1", InvitedBy: "organizer",
		InvitedUserID: "guest", Status: models.InvitationPending,
	}
	notifier := &recordingNotifier{}
	svc := newTestService(store, notifier)

	if err := svc.AcceptInvitation(context.Background(), "i1", "guest"); err != nil {
		t.Fatalf("AcceptInvitation: %v", err)
	}

	inv := store.invitations["i1"]
	if inv.Status != models.InvitationAccepted {
		t.Errorf("invitation status = %q, want accepted", inv.Status)
	}
	if inv.RespondedAt == nil || !inv.RespondedAt.Equal(testNow) {
		t.Errorf("responded_at = %v, want %v", inv.RespondedAt, testNow)
	}
	if !store.participations[[2]string{"a1", "guest"}] {
		t.Error("participation row missing after invitation accept")
	}
	if len(notifier.sent) != 1 || notifier.sent[0].userID != "organizer" || notifier.sent[0].typ != models.NotifInvitationAccepted {
		t.Errorf("notifications = %+v, want one invitation_accepted for organizer", notifier.sent)
	}
}

func TestAcceptInvitationAlreadyJoinedIsSwallowed(t *testing.T) {
	store := newFakeStore()
	seedActivity(store, 5)
	store.participations[[2]string{"a1", "guest"}] = true
	store.invitations["i1"] = &models.Invitation{
		ID: "i1", ActivityID: "a1", InvitedBy: "organizer",
		InvitedUserID: "guest", Status: models.InvitationPending,
	}
	svc := newTestService(store, nil)

	if err := svc.AcceptInvitation(context.Background(), "i1", "guest"); err != nil {
		t.Fatalf("AcceptInvitation with existing participation: %v", err)
	}
	count := 0
	for k := range store.participations {
		if k[0] == "a1" && k[1] == "guest" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("participation rows = %d, want exactly 1", count)
	}
}

func TestAcceptInvitationWrongResponder(t *testing.T) {
	store := newFakeStore()
	seedActivity(store, 5)
	store.invitations["i1"] = &models.Invitation{
		ID: "i1", ActivityID: "a1", InvitedBy: "organizer",
		InvitedUserID: "guest", Status: models.InvitationPending,
	}
	svc := newTestService(store, nil)

	err := svc.AcceptInvitation(context.Background(), "i1", "impostor")
	if !errors.Is(err, ErrInvitationNotFound) {
		t.Fatalf("err = %v, want ErrInvitationNotFound", err)
	}
	if store.invitations["i1"].Status != models.InvitationPending {
		t.Error("invitation must stay pending when responder is not addressee")
	}
}

func TestCancelInvitation(t *testing.T) {
	tests := []struct {
		name    string
		status  models.InvitationStatus
		caller  string
		wantErr error
	}{
		{"inviter cancels pending", models.InvitationPending, "organizer", nil},
		{"cannot cancel accepted", models.InvitationAccepted, "organizer", ErrInvitationNotFound},
		{"non-inviter cannot cancel", models.InvitationPending, "guest", ErrInvitationNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			seedActivity(store, 5)
			store.invitations["i1"] = &models.Invitation{
				ID: "i1", ActivityID: "a1", InvitedBy: "organizer",
				InvitedUserID: "guest", Status: tt.status,
			}
			svc := newTestService(store, nil)

			err := svc.CancelInvitation(context.Background(), "i1", tt.caller)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			_, stillThere := store.invitations["i1"]
			if tt.wantErr == nil && stillThere {
				t.Error("pending invitation should be removed on cancel")
			}
			if tt.wantErr != nil && !stillThere {
				t.Error("invitation must not be removed")
			}
		})
	}
}

func TestCancelActivityIsStatusChange(t *testing.T) {
	store := newFakeStore()
	seedActivity(store, 5)
	store.participations[[2]string{"a1", "p1"}] = true
	notifier := &recordingNotifier{}
	svc := newTestService(store, notifier)

	if err := svc.Cancel(context.Background(), "a1", "organizer"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	a := store.activities["a1"]
	if a == nil {
		t.Fatal("activity row must never be deleted")
	}
	if a.Status != models.ActivityCancelled {
		t.Errorf("status = %q, want cancelled", a.Status)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].typ != models.NotifActivityCancelled {
		t.Errorf("notifications = %+v, want one activity_cancelled", notifier.sent)
	}
}

func TestCancelByNonOrganizer(t *testing.T) {
	store := newFakeStore()
	seedActivity(store, 5)
	svc := newTestService(store, nil)

	err := svc.Cancel(context.Background(), "a1", "p1")
	if !errors.Is(err, ErrNotOrganizer) {
		t.Fatalf("err = %v, want ErrNotOrganizer", err)
	}
	if store.activities["a1"].Status != models.ActivityActive {
		t.Error("activity must stay active")
	}
}

func TestTransferDropsNewOwnerParticipation(t *testing.T) {
	store := newFakeStore()
	seedActivity(store, 5)
	store.participations[[2]string{"a1", "p1"}] = true
	svc := newTestService(store, nil)

	if err := svc.Transfer(context.Background(), "a1", "organizer", "p1"); err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if store.activities["a1"].CreatorID != "p1" {
		t.Errorf("creator = %q, want p1", store.activities["a1"].CreatorID)
	}
	if store.participations[[2]string{"a1", "p1"}] {
		t.Error("new organizer must be implicit, not a participation row")
	}
}

func TestFeedVisibility(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, nil)

	add := func(id, creator string, vis models.Visibility) {
		a := upcomingActivity(5)
		a.ID = id
		a.CreatorID = creator
		a.Visibility = vis
		store.activities[id] = a
	}
	add("pub", "stranger", models.VisibilityPublic)
	add("friend", "buddy", models.VisibilityFriends)
	add("hiddenfriend", "stranger", models.VisibilityFriends)
	add("mine", "viewer", models.VisibilityPrivate)
	add("invited", "stranger2", models.VisibilityPrivate)
	store.invitations["i1"] = &models.Invitation{
		ID: "i1", ActivityID: "invited", InvitedBy: "stranger2",
		InvitedUserID: "viewer", Status: models.InvitationPending,
	}

	feed, err := svc.Feed(context.Background(), "viewer", []string{"buddy"}, 50, 0)
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	got := make(map[string]bool)
	for _, a := range feed {
		got[a.ID] = true
	}
	for _, want := range []string{"pub", "friend", "mine", "invited"} {
		if !got[want] {
			t.Errorf("feed missing %s", want)
		}
	}
	if got["hiddenfriend"] {
		t.Error("friends-visible activity of a non-friend must be hidden")
	}
}

func TestDetailAppliesVisibility(t *testing.T) {
	tests := []struct {
		name      string
		vis       models.Visibility
		viewer    string
		friendIDs []string
		setup     func(*fakeStore)
		visible   bool
	}{
		{name: "public open to anyone", vis: models.VisibilityPublic, viewer: "stranger", visible: true},
		{name: "public open without a token", vis: models.VisibilityPublic, viewer: "", visible: true},
		{name: "private hidden from stranger", vis: models.VisibilityPrivate, viewer: "stranger"},
		{name: "private hidden without a token", vis: models.VisibilityPrivate, viewer: ""},
		{name: "private visible to organizer", vis: models.VisibilityPrivate, viewer: "organizer", visible: true},
		{
			name: "private visible to invitee", vis: models.VisibilityPrivate, viewer: "guest",
			setup: func(s *fakeStore) {
				s.invitations["i1"] = &models.Invitation{
					ID: "i1", ActivityID: "a1", InvitedBy: "organizer",
					InvitedUserID: "guest", Status: models.InvitationPending,
				}
			},
			visible: true,
		},
		{
			name: "private visible to participant", vis: models.VisibilityPrivate, viewer: "runner",
			setup: func(s *fakeStore) {
				s.participations[[2]string{"a1", "runner"}] = true
			},
			visible: true,
		},
		{name: "friends visible to a friend", vis: models.VisibilityFriends, viewer: "buddy", friendIDs: []string{"organizer"}, visible: true},
		{name: "friends hidden from non-friend", vis: models.VisibilityFriends, viewer: "stranger", friendIDs: []string{"someone-else"}},
		{name: "friends hidden without a token", vis: models.VisibilityFriends, viewer: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			a := seedActivity(store, 5)
			a.Visibility = tt.vis
			if tt.setup != nil {
				tt.setup(store)
			}
			svc := newTestService(store, nil)

			got, _, err := svc.Detail(context.Background(), a.ID, tt.viewer, tt.friendIDs)
			if tt.visible {
				if err != nil {
					t.Fatalf("Detail: %v, want visible", err)
				}
				if got.ID != a.ID {
					t.Errorf("activity id = %q, want %q", got.ID, a.ID)
				}
				return
			}
			if !errors.Is(err, ErrActivityNotFound) {
				t.Fatalf("err = %v, want ErrActivityNotFound (hidden reads like a missing id)", err)
			}
		})
	}
}

func TestInviteSkipsAlreadyInvited(t *testing.T) {
	store := newFakeStore()
	notifier := &recordingNotifier{}
	svc := newTestService(store, notifier)
	ctx := context.Background()
	a := seedActivity(store, 5)

	first, err := svc.Invite(ctx, a.ID, "organizer", []string{"u1", "u2", "u1"})
	if err != nil {
		t.Fatalf("first Invite: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("first invite count = %d, want 2 (duplicate target counted once)", len(first))
	}

	// Re-inviting the same users must create nothing and notify no one.
	second, err := svc.Invite(ctx, a.ID, "organizer", []string{"u1", "u2"})
	if err != nil {
		t.Fatalf("second Invite: %v", err)
	}
	if len(second) != 0 {
		t.Errorf("second invite count = %d, want 0", len(second))
	}
	if len(store.invitations) != 2 {
		t.Errorf("invitation rows = %d, want 2", len(store.invitations))
	}
	if len(notifier.sent) != 2 {
		t.Errorf("notifications sent = %d, want 2 (no re-notify)", len(notifier.sent))
	}

	// A mixed call invites only the new user.
	third, err := svc.Invite(ctx, a.ID, "organizer", []string{"u2", "u3"})
	if err != nil {
		t.Fatalf("third Invite: %v", err)
	}
	if len(third) != 1 || third[0].InvitedUserID != "u3" {
		t.Fatalf("third invite = %+v, want only u3", third)
	}
	if len(notifier.sent) != 3 {
		t.Errorf("notifications sent = %d, want 3", len(notifier.sent))
	}
}

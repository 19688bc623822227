package friendship

import (
	"context"
	"errors"
	"testing"

	"github.com/gcoopmansS/Moovle-sub000/internal/models"
)

func TestSendRequestCreatesCanonicalEdge(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil, &recordingNotifier{})

	// Sender is the lexicographically larger id; the edge must still be
	// stored with the smaller id first.
	edge, err := svc.SendRequest(context.Background(), "u2", "u1")
	if err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	if edge.UserA != "u1" || edge.UserB != "u2" {
		t.Errorf("edge pair = (%q, %q), want (u1, u2)", edge.UserA, edge.UserB)
	}
	if edge.Status != models.StatusPending {
		t.Errorf("status = %q, want pending", edge.Status)
	}
	if edge.RequestedBy != "u2" {
		t.Errorf("requested_by = %q, want u2", edge.RequestedBy)
	}
}

func TestSendRequestTwiceIsIdempotent(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil, &recordingNotifier{})
	ctx := context.Background()

	if _, err := svc.SendRequest(ctx, "u1", "u2"); err != nil {
		t.Fatalf("first SendRequest: %v", err)
	}
	// Second request, from either side, must be a success-no-op.
	edge, err := svc.SendRequest(ctx, "u2", "u1")
	if err != nil {
		t.Fatalf("second SendRequest: %v", err)
	}
	if len(store.edges) != 1 {
		t.Fatalf("edge count = %d, want 1", len(store.edges))
	}
	if edge.RequestedBy != "u1" {
		t.Errorf("requested_by = %q, want u1 (whoever sent first)", edge.RequestedBy)
	}
}

func TestSendRequestToSelf(t *testing.T) {
	svc := NewService(newFakeStore(), nil, nil)
	if _, err := svc.SendRequest(context.Background(), "u1", "u1"); !errors.Is(err, ErrInvalidPair) {
		t.Errorf("err = %v, want ErrInvalidPair", err)
	}
}

func TestAcceptRequest(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(*fakeStore)
		acceptor string
		wantErr  error
	}{
		{
			name: "addressee accepts pending",
			setup: func(s *fakeStore) {
				s.edges[[2]string{"u1", "u2"}] = &models.Friendship{UserA: "u1", UserB: "u2", Status: models.StatusPending, RequestedBy: "u1"}
			},
			acceptor: "u2",
		},
		{
			name: "initiator cannot accept own request",
			setup: func(s *fakeStore) {
				s.edges[[2]string{"u1", "u2"}] = &models.Friendship{UserA: "u1", UserB: "u2", Status: models.StatusPending, RequestedBy: "u1"}
			},
			acceptor: "u1",
			wantErr:  ErrRequestNotFound,
		},
		{
			name:     "no edge exists",
			setup:    func(s *fakeStore) {},
			acceptor: "u2",
			wantErr:  ErrRequestNotFound,
		},
		{
			name: "already accepted",
			setup: func(s *fakeStore) {
				s.edges[[2]string{"u1", "u2"}] = &models.Friendship{UserA: "u1", UserB: "u2", Status: models.StatusAccepted, RequestedBy: "u1"}
			},
			acceptor: "u2",
			wantErr:  ErrRequestNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			tt.setup(store)
			svc := NewService(store, nil, &recordingNotifier{})

			other := "u1"
			if tt.acceptor == "u1" {
				other = "u2"
			}
			err := svc.AcceptRequest(context.Background(), tt.acceptor, other)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil {
				e, _ := store.Get(context.Background(), "u1", "u2")
				if e.Status != models.StatusAccepted {
					t.Errorf("status = %q, want accepted", e.Status)
				}
			}
		})
	}
}

func TestDeclineOnlyRemovesPending(t *testing.T) {
	store := newFakeStore()
	store.edges[[2]string{"u1", "u2"}] = &models.Friendship{UserA: "u1", UserB: "u2", Status: models.StatusAccepted, RequestedBy: "u1"}
	svc := NewService(store, nil, nil)

	err := svc.DeclineRequest(context.Background(), "u2", "u1")
	if !errors.Is(err, ErrRequestNotFound) {
		t.Fatalf("err = %v, want ErrRequestNotFound", err)
	}
	e, _ := store.Get(context.Background(), "u1", "u2")
	if e == nil || e.Status != models.StatusAccepted {
		t.Errorf("accepted edge must be left unchanged, got %+v", e)
	}
}

func TestDeclineRemovesPendingEdge(t *testing.T) {
	store := newFakeStore()
	store.edges[[2]string{"u1", "u2"}] = &models.Friendship{UserA: "u1", UserB: "u2", Status: models.StatusPending, RequestedBy: "u1"}
	svc := NewService(store, nil, nil)

	if err := svc.DeclineRequest(context.Background(), "u2", "u1"); err != nil {
		t.Fatalf("DeclineRequest: %v", err)
	}
	if len(store.edges) != 0 {
		t.Errorf("edge count = %d, want 0 (pair can be re-requested later)", len(store.edges))
	}
}

func TestBlockAlwaysWins(t *testing.T) {
	prior := []*models.Friendship{
		nil,
		{UserA: "u1", UserB: "u2", Status: models.StatusPending, RequestedBy: "u1"},
		{UserA: "u1", UserB: "u2", Status: models.StatusAccepted, RequestedBy: "u2"},
	}
	for _, p := range prior {
		store := newFakeStore()
		if p != nil {
			store.edges[[2]string{p.UserA, p.UserB}] = p
		}
		svc := NewService(store, nil, nil)

		if err := svc.BlockUser(context.Background(), "u2", "u1"); err != nil {
			t.Fatalf("BlockUser: %v", err)
		}
		if len(store.edges) != 1 {
			t.Fatalf("edge count = %d, want 1", len(store.edges))
		}
		e, _ := store.Get(context.Background(), "u1", "u2")
		if e.Status != models.StatusBlocked || e.RequestedBy != "u2" {
			t.Errorf("edge = %+v, want blocked by u2", e)
		}
	}
}

func TestNotificationFailureDoesNotFailRequest(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil, &recordingNotifier{fail: true})

	if _, err := svc.SendRequest(context.Background(), "u1", "u2"); err != nil {
		t.Fatalf("SendRequest must succeed despite notifier failure, got %v", err)
	}
	if len(store.edges) != 1 {
		t.Errorf("edge count = %d, want 1", len(store.edges))
	}
}

func TestRequestAcceptEndToEnd(t *testing.T) {
	store := newFakeStore()
	notifier := &recordingNotifier{}
	users := &fakeUsers{names: map[string]string{"u1": "Ann Akerman", "u2": "Bo Berg"}}
	svc := NewService(store, users, notifier)
	ctx := context.Background()

	edge, err := svc.SendRequest(ctx, "u1", "u2")
	if err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	if edge.UserA != "u1" || edge.UserB != "u2" || edge.Status != models.StatusPending || edge.RequestedBy != "u1" {
		t.Fatalf("edge after request = %+v", edge)
	}

	if err := svc.AcceptRequest(ctx, "u2", "u1"); err != nil {
		t.Fatalf("AcceptRequest: %v", err)
	}
	edge, _ = store.Get(ctx, "u1", "u2")
	if edge.Status != models.StatusAccepted {
		t.Fatalf("status after accept = %q, want accepted", edge.Status)
	}

	if len(notifier.sent) != 2 {
		t.Fatalf("notifications sent = %d, want 2", len(notifier.sent))
	}
	if notifier.sent[0].userID != "u2" || notifier.sent[0].typ != models.NotifFriendRequest {
		t.Errorf("first notification = %+v, want friend_request for u2", notifier.sent[0])
	}
	if notifier.sent[1].userID != "u1" || notifier.sent[1].typ != models.NotifFriendRequestAccepted {
		t.Errorf("second notification = %+v, want friend_request_accepted for u1", notifier.sent[1])
	}
	if got := notifier.sent[0].payload["sender_name"]; got != "Ann Akerman" {
		t.Errorf("request payload sender_name = %v, want Ann Akerman", got)
	}
	if got := notifier.sent[1].payload["sender_name"]; got != "Bo Berg" {
		t.Errorf("accept payload sender_name = %v, want Bo Berg", got)
	}
}

func TestNotifyPayloadWithoutResolvableName(t *testing.T) {
	store := newFakeStore()
	notifier := &recordingNotifier{}
	svc := NewService(store, &fakeUsers{names: map[string]string{}}, notifier)

	if _, err := svc.SendRequest(context.Background(), "u1", "u2"); err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	payload := notifier.sent[0].payload
	if payload["sender_id"] != "u1" {
		t.Errorf("sender_id = %v, want u1", payload["sender_id"])
	}
	if _, ok := payload["sender_name"]; ok {
		t.Errorf("sender_name present for unresolvable user: %v", payload["sender_name"])
	}
}

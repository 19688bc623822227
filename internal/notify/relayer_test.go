package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/gcoopmansS/Moovle-sub000/internal/models"
)

type fakeNotifyStore struct {
	notifications []models.Notification
	outbox        map[uint64]*models.NotificationOutbox
	nextID        uint64
}

func newFakeNotifyStore() *fakeNotifyStore {
	return &fakeNotifyStore{outbox: make(map[uint64]*models.NotificationOutbox), nextID: 1}
}

func (f *fakeNotifyStore) Create(_ context.Context, n *models.Notification, ob *models.NotificationOutbox) error {
	f.notifications = append(f.notifications, *n)
	cp := *ob
	cp.ID = f.nextID
	f.nextID++
	f.outbox[cp.ID] = &cp
	return nil
}

func (f *fakeNotifyStore) List(_ context.Context, userID string, unreadOnly bool, limit, offset int) ([]models.Notification, int64, error) {
	var out []models.Notification
	for _, n := range f.notifications {
		if n.UserID == userID && (!unreadOnly || !n.IsRead) {
			out = append(out, n)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeNotifyStore) MarkRead(_ context.Context, id, userID string) (int64, error) {
	for i := range f.notifications {
		if f.notifications[i].ID == id && f.notifications[i].UserID == userID {
			f.notifications[i].IsRead = true
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeNotifyStore) PendingOutbox(_ context.Context, batchSize int) ([]models.NotificationOutbox, error) {
	var out []models.NotificationOutbox
	for _, ob := range f.outbox {
		if ob.Status == 0 && len(out) < batchSize {
			out = append(out, *ob)
		}
	}
	return out, nil
}

func (f *fakeNotifyStore) MarkOutboxSent(_ context.Context, id uint64) error {
	f.outbox[id].Status = 1
	return nil
}

func (f *fakeNotifyStore) MarkOutboxFailed(_ context.Context, id uint64) error {
	f.outbox[id].Status = 2
	f.outbox[id].Retry++
	return nil
}

func TestNotifyWritesInboxAndOutbox(t *testing.T) {
	store := newFakeNotifyStore()
	svc := NewService(store, nil)

	err := svc.Notify(context.Background(), "u2", models.NotifFriendRequest, map[string]any{"sender_id": "u1"})
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(store.notifications) != 1 {
		t.Fatalf("notifications = %d, want 1", len(store.notifications))
	}
	n := store.notifications[0]
	if n.UserID != "u2" || n.Type != models.NotifFriendRequest || n.IsRead {
		t.Errorf("notification = %+v", n)
	}
	if len(store.outbox) != 1 {
		t.Errorf("outbox rows = %d, want 1", len(store.outbox))
	}
}

func TestMarkReadScopedToAddressee(t *testing.T) {
	store := newFakeNotifyStore()
	svc := NewService(store, nil)
	_ = svc.Notify(context.Background(), "u2", models.NotifFriendRequest, nil)
	id := store.notifications[0].ID

	if err := svc.MarkRead(context.Background(), id, "someone-else"); !errors.Is(err, ErrNotificationNotFound) {
		t.Errorf("err = %v, want ErrNotificationNotFound", err)
	}
	if err := svc.MarkRead(context.Background(), id, "u2"); err != nil {
		t.Errorf("MarkRead by addressee: %v", err)
	}
}

func TestRelayerMarksSentAndFailed(t *testing.T) {
	store := newFakeNotifyStore()
	svc := NewService(store, nil)
	_ = svc.Notify(context.Background(), "u1", models.NotifFriendRequest, nil)
	_ = svc.Notify(context.Background(), "u2", models.NotifFriendRequest, nil)

	failFor := map[string]bool{"u2": true}
	relayer := NewOutboxRelayer(store, func(_ context.Context, ob *models.NotificationOutbox) error {
		if failFor[ob.UserID] {
			return errors.New("broker down")
		}
		return nil
	})
	relayer.drainOnce(context.Background())

	var sent, failed int
	for _, ob := range store.outbox {
		switch ob.Status {
		case 1:
			sent++
		case 2:
			failed++
		}
	}
	if sent != 1 || failed != 1 {
		t.Errorf("sent = %d, failed = %d, want 1 and 1", sent, failed)
	}
}

package notify

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/gcoopmansS/Moovle-sub000/internal/hub"
	"github.com/gcoopmansS/Moovle-sub000/internal/models"
)

// ErrNotificationNotFound signals that no notification matched the scoping
// filter (wrong id or not addressed to the caller).
var ErrNotificationNotFound = errors.New("notification not found")

// Store is the persistence collaborator for notifications and their outbox.
type Store interface {
	// Create inserts the notification and its outbox row in one transaction.
	Create(ctx context.Context, n *models.Notification, ob *models.NotificationOutbox) error

	List(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]models.Notification, int64, error)

	// MarkRead flips the read flag, scoped to the addressee. Returns rows
	// affected.
	MarkRead(ctx context.Context, id, userID string) (int64, error)

	PendingOutbox(ctx context.Context, batchSize int) ([]models.NotificationOutbox, error)
	MarkOutboxSent(ctx context.Context, id uint64) error
	MarkOutboxFailed(ctx context.Context, id uint64) error
}

// Service appends typed messages to a user's inbox and fans them out to live
// notification streams. Delivery to the push pipeline is decoupled through
// the outbox so a slow or failing downstream can never block the inbox
// write, let alone the triggering action.
type Service struct {
	store Store
	hub   *hub.Hub
}

func NewService(store Store, h *hub.Hub) *Service {
	return &Service{store: store, hub: h}
}

// Notify creates a notification for userID. Callers treat any returned error
// as a best-effort side-effect failure: log it, never propagate it.
func (s *Service) Notify(ctx context.Context, userID string, typ models.NotificationType, payload map[string]any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	n := &models.Notification{
		ID:      uuid.NewString(),
		UserID:  userID,
		Type:    typ,
		Payload: string(raw),
	}
	ob := &models.NotificationOutbox{
		NotificationID: n.ID,
		UserID:         userID,
		EventType:      string(typ),
		Payload:        string(raw),
	}
	if err := s.store.Create(ctx, n, ob); err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.Broadcast(userID, hub.Event{Type: string(typ), Payload: payload})
	}
	return nil
}

// List returns the user's notifications, newest first.
func (s *Service) List(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]models.Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.List(ctx, userID, unreadOnly, limit, offset)
}

// MarkRead marks one of the caller's notifications as read.
func (s *Service) MarkRead(ctx context.Context, id, userID string) error {
	rows, err := s.store.MarkRead(ctx, id, userID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// Hub exposes the live stream hub for the SSE handler.
func (s *Service) Hub() *hub.Hub { return s.hub }

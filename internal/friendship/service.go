package friendship

import (
	"context"
	"errors"
	"log"

	"github.com/gcoopmansS/Moovle-sub000/internal/models"
)

// Service maintains the friendship-edge state machine:
//
//	∅ --(request)--> pending --(accept)--> accepted
//	pending --(decline)--> ∅
//	any state --(block)--> blocked
//
// Decline deletes the row rather than recording a declined status, so the
// pair can be re-requested later. Block replaces whatever edge existed.
type Service struct {
	store    Store
	users    Users
	notifier Notifier
}

// Users resolves user profiles for notification payloads.
type Users interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

func NewService(store Store, users Users, notifier Notifier) *Service {
	return &Service{store: store, users: users, notifier: notifier}
}

func validatePair(me, other string) error {
	if me == "" || other == "" || me == other {
		return ErrInvalidPair
	}
	return nil
}

// SendRequest creates a pending edge for the pair with me as initiator. If an
// edge already exists (pending or accepted), the duplicate is swallowed and
// the call succeeds as a no-op. A friend_request notification for the other
// user is sent best-effort.
func (s *Service) SendRequest(ctx context.Context, me, other string) (*models.Friendship, error) {
	if err := validatePair(me, other); err != nil {
		return nil, err
	}

	lo, hi := CanonicalPair(me, other)
	edge := &models.Friendship{
		UserA:       lo,
		UserB:       hi,
		Status:      models.StatusPending,
		RequestedBy: me,
	}

	if err := s.store.Insert(ctx, edge); err != nil {
		if errors.Is(err, ErrDuplicateEdge) {
			// Concurrent or repeated request for the same pair: exactly one
			// edge row exists, owned by whoever sent first.
			return s.store.Get(ctx, lo, hi)
		}
		return nil, err
	}

	s.notify(ctx, other, models.NotifFriendRequest, s.senderPayload(ctx, me))
	return edge, nil
}

// AcceptRequest transitions the pair's edge from pending to accepted. Only
// the non-initiating party may accept; anything else (no edge, already
// accepted, blocked, or me being the initiator) is ErrRequestNotFound.
func (s *Service) AcceptRequest(ctx context.Context, me, other string) error {
	if err := validatePair(me, other); err != nil {
		return err
	}

	lo, hi := CanonicalPair(me, other)
	rows, err := s.store.Accept(ctx, lo, hi, me)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrRequestNotFound
	}

	s.notify(ctx, other, models.NotifFriendRequestAccepted, s.senderPayload(ctx, me))
	return nil
}

// DeclineRequest removes the pair's edge only while it is pending. Accepted
// or blocked edges are left untouched; the scoped delete makes accidental
// removal of an accepted friendship impossible.
func (s *Service) DeclineRequest(ctx context.Context, me, other string) error {
	if err := validatePair(me, other); err != nil {
		return err
	}

	lo, hi := CanonicalPair(me, other)
	rows, err := s.store.DeletePending(ctx, lo, hi)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrRequestNotFound
	}
	return nil
}

// BlockUser replaces any existing edge for the pair with a fresh blocked
// edge owned by me. Block always wins over prior state.
func (s *Service) BlockUser(ctx context.Context, me, other string) error {
	if err := validatePair(me, other); err != nil {
		return err
	}

	lo, hi := CanonicalPair(me, other)
	return s.store.Replace(ctx, &models.Friendship{
		UserA:       lo,
		UserB:       hi,
		Status:      models.StatusBlocked,
		RequestedBy: me,
	})
}

// ListEdges returns all edges touching me.
func (s *Service) ListEdges(ctx context.Context, me string) ([]models.Friendship, error) {
	if me == "" {
		return nil, ErrInvalidPair
	}
	return s.store.ListByUser(ctx, me)
}

// senderPayload references the acting user in a notification payload. The
// display name lookup is best-effort; a failed lookup still sends the id.
func (s *Service) senderPayload(ctx context.Context, senderID string) map[string]any {
	payload := map[string]any{"sender_id": senderID}
	if s.users != nil {
		if u, err := s.users.GetByID(ctx, senderID); err == nil {
			payload["sender_name"] = u.DisplayName
		}
	}
	return payload
}

func (s *Service) notify(ctx context.Context, userID string, typ models.NotificationType, payload map[string]any) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, userID, typ, payload); err != nil {
		log.Printf("friendship: %s notification for %s failed: %v", typ, userID, err)
	}
}

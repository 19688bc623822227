package friendship

import (
	"context"
	"errors"

	"github.com/gcoopmansS/Moovle-sub000/internal/models"
)

var (
	// ErrDuplicateEdge signals that an edge already exists for the pair.
	// Callers treat it as a benign, idempotent no-op.
	ErrDuplicateEdge = errors.New("friendship edge already exists")

	// ErrRequestNotFound signals that no pending request matched the
	// operation's scoping filter (wrong pair, wrong status, or the caller
	// is not the addressee).
	ErrRequestNotFound = errors.New("pending friend request not found")

	// ErrInvalidPair signals a malformed pair (empty id or self-reference).
	ErrInvalidPair = errors.New("invalid user pair")
)

// Store is the persistence collaborator for friendship edges. Implementations
// must surface unique-constraint violations as ErrDuplicateEdge, distinctly
// from generic failures.
type Store interface {
	// Insert creates a new edge row. Returns ErrDuplicateEdge if any edge
	// already exists for the canonical pair.
	Insert(ctx context.Context, edge *models.Friendship) error

	// Accept transitions the edge for (lo, hi) from pending to accepted,
	// scoped so that only the non-initiating party can accept. It returns
	// the number of rows updated.
	Accept(ctx context.Context, lo, hi, acceptor string) (int64, error)

	// DeletePending deletes the edge for (lo, hi) only if its status is
	// pending, and returns the number of rows deleted. Accepted or blocked
	// edges are never touched.
	DeletePending(ctx context.Context, lo, hi string) (int64, error)

	// Replace atomically deletes any existing edge for the pair and inserts
	// the given edge in its place.
	Replace(ctx context.Context, edge *models.Friendship) error

	// Get returns the edge for (lo, hi), or nil if none exists.
	Get(ctx context.Context, lo, hi string) (*models.Friendship, error)

	// ListByUser returns all edges touching userID.
	ListByUser(ctx context.Context, userID string) ([]models.Friendship, error)
}

// Notifier delivers best-effort notifications. Failures are logged by the
// caller and never propagate to the triggering action.
type Notifier interface {
	Notify(ctx context.Context, userID string, typ models.NotificationType, payload map[string]any) error
}

package friendship

import (
	"context"
	"errors"

	"github.com/gcoopmansS/Moovle-sub000/internal/models"
)

// fakeStore is an in-memory Store keyed by the canonical pair. It mirrors
// the behavior the database constraints guarantee: one edge per pair,
// duplicate inserts rejected, scoped updates and deletes.
type fakeStore struct {
	edges map[[2]string]*models.Friendship
}

func newFakeStore() *fakeStore {
	return &fakeStore{edges: make(map[[2]string]*models.Friendship)}
}

func (f *fakeStore) key(lo, hi string) [2]string { return [2]string{lo, hi} }

func (f *fakeStore) Insert(_ context.Context, edge *models.Friendship) error {
	k := f.key(edge.UserA, edge.UserB)
	if _, ok := f.edges[k]; ok {
		return ErrDuplicateEdge
	}
	cp := *edge
	f.edges[k] = &cp
	return nil
}

func (f *fakeStore) Accept(_ context.Context, lo, hi, acceptor string) (int64, error) {
	e, ok := f.edges[f.key(lo, hi)]
	if !ok || e.Status != models.StatusPending || e.RequestedBy == acceptor {
		return 0, nil
	}
	e.Status = models.StatusAccepted
	return 1, nil
}

func (f *fakeStore) DeletePending(_ context.Context, lo, hi string) (int64, error) {
	k := f.key(lo, hi)
	e, ok := f.edges[k]
	if !ok || e.Status != models.StatusPending {
		return 0, nil
	}
	delete(f.edges, k)
	return 1, nil
}

func (f *fakeStore) Replace(_ context.Context, edge *models.Friendship) error {
	cp := *edge
	f.edges[f.key(edge.UserA, edge.UserB)] = &cp
	return nil
}

func (f *fakeStore) Get(_ context.Context, lo, hi string) (*models.Friendship, error) {
	e, ok := f.edges[f.key(lo, hi)]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (f *fakeStore) ListByUser(_ context.Context, userID string) ([]models.Friendship, error) {
	var out []models.Friendship
	for _, e := range f.edges {
		if e.UserA == userID || e.UserB == userID {
			out = append(out, *e)
		}
	}
	return out, nil
}

// fakeUsers resolves display names from a fixed map.
type fakeUsers struct {
	names map[string]string
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	name, ok := f.names[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	return &models.User{ID: id, DisplayName: name}, nil
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
		return errors.New("notification sink down")
	}
	n.sent = append(n.sent, sentNotification{userID: userID, typ: typ, payload: payload})
	return nil
}

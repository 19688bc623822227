package friendship

import "github.com/gcoopmansS/Moovle-sub000/internal/models"

// Derived views over an edge set. All of these are pure: they compute from
// the given edges and viewer id, with no side effects.

// FriendIDs returns the ids of all accepted friends of viewer.
func FriendIDs(edges []models.Friendship, viewer string) []string {
	var out []string
	for _, e := range edges {
		if e.Status == models.StatusAccepted {
			out = append(out, e.Other(viewer))
		}
	}
	return out
}

// IncomingPending returns edges that are pending requests addressed to
// viewer (initiated by the counterpart).
func IncomingPending(edges []models.Friendship, viewer string) []models.Friendship {
	var out []models.Friendship
	for _, e := range edges {
		if e.Status == models.StatusPending && e.RequestedBy != viewer {
			out = append(out, e)
		}
	}
	return out
}

// OutgoingPending returns edges that are pending requests initiated by
// viewer.
func OutgoingPending(edges []models.Friendship, viewer string) []models.Friendship {
	var out []models.Friendship
	for _, e := range edges {
		if e.Status == models.StatusPending && e.RequestedBy == viewer {
			out = append(out, e)
		}
	}
	return out
}

// DiscoveryExclusions returns the set of user ids to hide from user
// discovery: the viewer, all accepted friends, all blocked counterparts, and
// the counterparts of incoming pending requests. Outgoing-pending
// counterparts stay discoverable so the UI can show a "request sent"
// affordance.
func DiscoveryExclusions(edges []models.Friendship, viewer string) map[string]bool {
	excluded := map[string]bool{viewer: true}
	for _, e := range edges {
		switch {
		case e.Status == models.StatusAccepted || e.Status == models.StatusBlocked:
			excluded[e.Other(viewer)] = true
		case e.Status == models.StatusPending && e.RequestedBy != viewer:
			excluded[e.Other(viewer)] = true
		}
	}
	return excluded
}

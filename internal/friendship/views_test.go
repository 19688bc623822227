package friendship

import (
	"sort"
	"testing"

	"github.com/gcoopmansS/Moovle-sub000/internal/models"
)

func testEdges() []models.Friendship {
	return []models.Friendship{
		{UserA: "me", UserB: "u1", Status: models.StatusAccepted, RequestedBy: "me"},
		{UserA: "me", UserB: "u2", Status: models.StatusAccepted, RequestedBy: "u2"},
		{UserA: "me", UserB: "u3", Status: models.StatusPending, RequestedBy: "u3"}, // incoming
		{UserA: "me", UserB: "u4", Status: models.StatusPending, RequestedBy: "me"}, // outgoing
		{UserA: "me", UserB: "u5", Status: models.StatusBlocked, RequestedBy: "me"},
	}
}

func TestFriendIDs(t *testing.T) {
	got := FriendIDs(testEdges(), "me")
	sort.Strings(got)
	want := []string{"u1", "u2"}
	if len(got) != len(want) {
		t.Fatalf("FriendIDs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("FriendIDs = %v, want %v", got, want)
		}
	}
}

func TestPendingViews(t *testing.T) {
	edges := testEdges()

	in := IncomingPending(edges, "me")
	if len(in) != 1 || in[0].Other("me") != "u3" {
		t.Errorf("IncomingPending = %v, want just u3", in)
	}

	out := OutgoingPending(edges, "me")
	if len(out) != 1 || out[0].Other("me") != "u4" {
		t.Errorf("OutgoingPending = %v, want just u4", out)
	}
}

func TestDiscoveryExclusions(t *testing.T) {
	excluded := DiscoveryExclusions(testEdges(), "me")

	for _, id := range []string{"me", "u1", "u2", "u3", "u5"} {
		if !excluded[id] {
			t.Errorf("%s should be excluded from discovery", id)
		}
	}
	// Outgoing-pending counterparts stay discoverable so the UI can show a
	// "request sent" affordance.
	if excluded["u4"] {
		t.Error("u4 (outgoing pending) should remain discoverable")
	}
}

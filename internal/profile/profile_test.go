package profile

import (
	"testing"
	"time"
)

func TestInitials(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Jane Doe", "JD"},
		{"jane", "J"},
		{"jan peter van den berg", "JP"},
		{"", ""},
		{"  spaced   out ", "SO"},
	}
	for _, tt := range tests {
		if got := Initials(tt.name); got != tt.want {
			t.Errorf("Initials(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestOnlineRecently(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	recent := now.Add(-time.Minute)
	stale := now.Add(-time.Hour)

	if !OnlineRecently(&recent, now) {
		t.Error("seen one minute ago should count as online")
	}
	if OnlineRecently(&stale, now) {
		t.Error("seen an hour ago should not count as online")
	}
	if OnlineRecently(nil, now) {
		t.Error("never seen should not count as online")
	}
}

func TestValidate(t *testing.T) {
	lat, lng := 91.0, -200.0
	problems := Validate(UpdateInput{DisplayName: "", Lat: &lat, Lng: &lng})
	if len(problems) != 3 {
		t.Errorf("want all 3 problems collected, got %v", problems)
	}

	okLat, okLng := 50.85, 4.35
	problems = Validate(UpdateInput{DisplayName: "Jane Doe", Lat: &okLat, Lng: &okLng})
	if len(problems) != 0 {
		t.Errorf("valid input rejected: %v", problems)
	}
}

package activity

import (
	"strings"
	"time"
)

// NewActivityInput carries the fields validated before an activity is created
// or updated.
type NewActivityInput struct {
	Title           string
	Category        string
	StartsAt        time.Time
	MaxParticipants int
	Audience        string
}

// ValidateNew checks field constraints and returns every problem found.
// Validation failures are detected before any backend write and surfaced
// immediately to the caller.
func ValidateNew(in NewActivityInput, now time.Time) []string {
	var problems []string

	if strings.TrimSpace(in.Title) == "" {
		problems = append(problems, "title is required")
	} else if len(in.Title) > 120 {
		problems = append(problems, "title must be at most 120 characters")
	}
	if strings.TrimSpace(in.Category) == "" {
		problems = append(problems, "category is required")
	}
	if !in.StartsAt.After(now) {
		problems = append(problems, "start time must be in the future")
	}
	if in.MaxParticipants < 2 || in.MaxParticipants > 100 {
		problems = append(problems, "max participants must be between 2 and 100")
	}
	if _, err := MapVisibility(in.Audience); err != nil {
		problems = append(problems, "audience must be all-friends, specific-friends or public")
	}

	return problems
}

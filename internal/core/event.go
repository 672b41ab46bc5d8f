package core

import (
	"fmt"
	"slices"
	"time"
)

// Calendar represents a calendar the authenticated user can read.
type Calendar struct {
	// Calendar ID (e.g., "primary", "user@example.com", subscription ID)
	ID string `json:"id" yaml:"id"`
	// Human-readable name (e.g., "Work", "Holidays in India")
	Summary     string `json:"summary" yaml:"summary"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Event is the normalized form every adapter converts to.
// All-day events never become an Event; adapters drop them first.
type Event struct {
	Title string `json:"title" yaml:"title"`
	// Empty when the provider has no location.
	Location string    `json:"location,omitempty" yaml:"location,omitempty"`
	Start    time.Time `json:"start_time" yaml:"start_time"`
	End      time.Time `json:"end_time" yaml:"end_time"`
}

// InProgress reports whether now falls inside the event, boundaries included.
func (e Event) InProgress(now time.Time) bool {
	return !now.Before(e.Start) && !now.After(e.End)
}

// StatusLine renders the one-line summary printed by get-next-event,
// e.g. "Standup [Room 4]: 09:30 AM".
func (e Event) StatusLine(loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}

	location := ""
	if e.Location != "" {
		location = fmt.Sprintf(" [%s]", e.Location)
	}

	return fmt.Sprintf("%s%s: %s", e.Title, location, e.Start.In(loc).Format("03:04 PM"))
}

// SortByStart orders events by start time, keeping the relative order of
// events that start together.
func SortByStart(events []Event) {
	slices.SortStableFunc(events, func(a, b Event) int {
		return a.Start.Compare(b.Start)
	})
}

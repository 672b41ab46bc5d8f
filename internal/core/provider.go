package core

import (
	"context"
	"time"
)

// Source represents a calendar provider (Google, Outlook).
type Source interface {
	// ListCalendars returns every calendar the user can read.
	ListCalendars(ctx context.Context) ([]Calendar, error)
	// ListEvents returns one page of upcoming events for a calendar, ordered
	// by start time and bounded below by from. Events still running at from
	// are included. All-day events are never returned.
	ListEvents(ctx context.Context, calendarID string, from time.Time) ([]Event, error)
}

package core

import "time"

// EarliestUpcoming returns the first event, in input order, that starts after now.
// events must already be sorted by start time (see SortByStart).
func EarliestUpcoming(events []Event, now time.Time) *Event {
	for i := range events {
		if events[i].Start.After(now) {
			return &events[i]
		}
	}
	return nil
}

// EarliestUpcomingWithin is EarliestUpcoming limited to events starting less
// than horizon from now. A nil horizon means no limit.
func EarliestUpcomingWithin(events []Event, now time.Time, horizon *time.Duration) *Event {
	next := EarliestUpcoming(events, now)
	if next == nil || horizon == nil {
		return next
	}
	if next.Start.Sub(now) < *horizon {
		return next
	}
	return nil
}

// LatestRunning returns the in-progress event that started most recently.
// When several share that start time the first one wins.
func LatestRunning(events []Event, now time.Time) *Event {
	var latest *Event
	for i := range events {
		e := &events[i]
		if !e.InProgress(now) {
			continue
		}
		if latest == nil || e.Start.After(latest.Start) {
			latest = e
		}
	}
	return latest
}

// NextEvent picks the event to report: the nearest upcoming event inside the
// horizon, or failing that the latest running one. A running event is only
// surfaced when no upcoming event qualifies.
func NextEvent(events []Event, now time.Time, horizon *time.Duration) *Event {
	if upcoming := EarliestUpcomingWithin(events, now, horizon); upcoming != nil {
		return upcoming
	}
	return LatestRunning(events, now)
}

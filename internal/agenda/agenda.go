// Package agenda decides where events come from (cache or provider) and
// which one to report.
package agenda

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/theakshaypant/nxt/internal/cache"
	"github.com/theakshaypant/nxt/internal/core"
)

type Agenda struct {
	Source core.Source
	// Cache is optional; nil disables caching entirely.
	Cache *cache.Store
	TTL   time.Duration
	// NoCache skips reading the cache. A fresh fetch is still written back.
	NoCache   bool
	Selection core.CalendarSelection
	Logger    *slog.Logger
}

func (a *Agenda) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

// FetchCalendars lists the provider's calendars allowed by the selection.
func (a *Agenda) FetchCalendars(ctx context.Context) ([]core.Calendar, error) {
	calendars, err := a.Source.ListCalendars(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get calendar list: %w", err)
	}
	return a.Selection.Filter(calendars), nil
}

// FetchEvents pulls upcoming events from every selected calendar, one
// calendar at a time, and returns them sorted by start time.
func (a *Agenda) FetchEvents(ctx context.Context, now time.Time) ([]core.Event, error) {
	calendars, err := a.FetchCalendars(ctx)
	if err != nil {
		return nil, err
	}

	var events []core.Event
	for _, cal := range calendars {
		calEvents, err := a.Source.ListEvents(ctx, cal.ID, now)
		if err != nil {
			return nil, fmt.Errorf("failed to get events: %w", err)
		}
		a.logger().Debug("fetched events", "calendar", cal.ID, "count", len(calEvents))
		events = append(events, calEvents...)
	}

	// Each calendar's page is ordered, the concatenation is not.
	core.SortByStart(events)
	return events, nil
}

// Events returns the cached events when the cache is fresh, otherwise
// fetches and replaces the cache.
func (a *Agenda) Events(ctx context.Context, now time.Time) ([]core.Event, error) {
	log := a.logger()

	if a.Cache != nil && !a.NoCache {
		cached, err := a.Cache.Load()
		switch {
		case err != nil:
			log.Debug("cache miss", "path", a.Cache.Path, "err", err)
		case cached.IsStale(now, a.TTL):
			log.Debug("cache stale", "path", a.Cache.Path, "last_updated", cached.LastUpdated)
		default:
			log.Debug("cache hit", "path", a.Cache.Path, "events", len(cached.Events))
			return cached.Events, nil
		}
	}

	events, err := a.FetchEvents(ctx, now)
	if err != nil {
		return nil, err
	}

	if a.Cache != nil {
		if err := a.Cache.Save(cache.FromEvents(events, now)); err != nil {
			return nil, err
		}
		log.Debug("cache written", "path", a.Cache.Path, "events", len(events))
	}

	return events, nil
}

// NextEvent returns the event to report, or nil when there is none.
func (a *Agenda) NextEvent(ctx context.Context, now time.Time, horizon *time.Duration) (*core.Event, error) {
	events, err := a.Events(ctx, now)
	if err != nil {
		return nil, err
	}
	return core.NextEvent(events, now, horizon), nil
}

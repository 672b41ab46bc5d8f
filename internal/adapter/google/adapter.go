package google

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/theakshaypant/nxt/internal/core"
)

// OAuthConfig returns the read-only Calendar OAuth client for the given
// Google Cloud credentials.
func OAuthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  redirectURL,
		Scopes:       []string{calendar.CalendarReadonlyScope},
	}
}

type GoogleAdapter struct {
	service  *calendar.Service
	pageSize int64
}

// NewGoogleAdapter wraps an existing Calendar service. pageSize caps the
// number of events fetched per calendar.
func NewGoogleAdapter(service *calendar.Service, pageSize int64) *GoogleAdapter {
	return &GoogleAdapter{service: service, pageSize: pageSize}
}

// NewService builds a Calendar service authenticated through ts.
func NewService(ctx context.Context, ts oauth2.TokenSource) (*calendar.Service, error) {
	svc, err := calendar.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, ts)))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return svc, nil
}

// ListCalendars fetches every calendar the user can at least read.
func (g *GoogleAdapter) ListCalendars(ctx context.Context) ([]core.Calendar, error) {
	var calendars []core.Calendar
	pageToken := ""

	for {
		req := g.service.CalendarList.List().
			MinAccessRole("reader").
			ShowHidden(false).
			ShowDeleted(false).
			Context(ctx)
		if pageToken != "" {
			req = req.PageToken(pageToken)
		}

		calList, err := req.Do()
		if err != nil {
			return nil, fmt.Errorf("list calendars: %w", err)
		}

		for _, cal := range calList.Items {
			calendars = append(calendars, core.Calendar{
				ID:          cal.Id,
				Summary:     cal.Summary,
				Description: cal.Description,
			})
		}

		pageToken = calList.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return calendars, nil
}

// ListEvents fetches the first page of events ending after from, ordered by
// start time. All-day events are dropped.
func (g *GoogleAdapter) ListEvents(ctx context.Context, calendarID string, from time.Time) ([]core.Event, error) {
	eventsResult, err := g.service.Events.List(calendarID).
		ShowDeleted(false).
		SingleEvents(true).
		OrderBy("startTime").
		TimeMin(from.Format(time.RFC3339)).
		MaxResults(g.pageSize).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("api call failed for calendar %s: %w", calendarID, err)
	}

	var results []core.Event
	for _, item := range eventsResult.Items {
		if isAllDay(item) {
			continue
		}
		event, err := parseEvent(item)
		if err != nil {
			return nil, fmt.Errorf("calendar %s: %w", calendarID, err)
		}
		results = append(results, event)
	}

	return results, nil
}

// isAllDay reports whether neither boundary carries a time of day.
func isAllDay(item *calendar.Event) bool {
	if item.Start != nil && item.Start.DateTime != "" {
		return false
	}
	if item.End != nil && item.End.DateTime != "" {
		return false
	}
	return true
}

// parseEvent converts a timed Google Calendar event to our unified Event type.
func parseEvent(item *calendar.Event) (core.Event, error) {
	start, err := parseDateTime(item.Start)
	if err != nil {
		return core.Event{}, fmt.Errorf("event %s start: %w", item.Id, err)
	}
	end, err := parseDateTime(item.End)
	if err != nil {
		return core.Event{}, fmt.Errorf("event %s end: %w", item.Id, err)
	}

	// One boundary timed and the other date-only: treat as zero length.
	if end.Before(start) {
		end = start
	}

	return core.Event{
		Title:    item.Summary,
		Location: item.Location,
		Start:    start,
		End:      end,
	}, nil
}

func parseDateTime(edt *calendar.EventDateTime) (time.Time, error) {
	if edt == nil {
		return time.Time{}, fmt.Errorf("missing boundary")
	}
	if edt.DateTime != "" {
		return time.Parse(time.RFC3339, edt.DateTime)
	}

	loc := time.UTC
	if edt.TimeZone != "" {
		if l, err := time.LoadLocation(edt.TimeZone); err == nil {
			loc = l
		}
	}
	return time.ParseInLocation("2006-01-02", edt.Date, loc)
}

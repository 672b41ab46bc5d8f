package outlook

import (
	"context"
	"fmt"
	"time"

	abstractions "github.com/microsoft/kiota-abstractions-go"
	"github.com/microsoftgraph/msgraph-sdk-go/models"
	"github.com/microsoftgraph/msgraph-sdk-go/users"

	"github.com/theakshaypant/nxt/internal/core"
)

// viewWindow bounds the calendarView request; Graph requires an end time.
const viewWindow = 30 * 24 * time.Hour

var selectFields = []string{"subject", "start", "end", "location", "isAllDay", "isCancelled"}

// ListEvents fetches the first page of the calendar view starting at from,
// ordered by start time. Cancelled and all-day events are dropped.
func (o *OutlookAdapter) ListEvents(ctx context.Context, calendarID string, from time.Time) ([]core.Event, error) {
	startStr := from.UTC().Format(time.RFC3339)
	endStr := from.Add(viewWindow).UTC().Format(time.RFC3339)
	orderBy := []string{"start/dateTime"}
	top := o.pageSize

	headers := abstractions.NewRequestHeaders()
	headers.Add("Prefer", `outlook.timezone="UTC"`)

	config := &users.ItemCalendarsItemCalendarViewRequestBuilderGetRequestConfiguration{
		QueryParameters: &users.ItemCalendarsItemCalendarViewRequestBuilderGetQueryParameters{
			StartDateTime: &startStr,
			EndDateTime:   &endStr,
			Select:        selectFields,
			Orderby:       orderBy,
			Top:           &top,
		},
		Headers: headers,
	}
	result, err := o.client.Me().Calendars().ByCalendarId(calendarID).CalendarView().Get(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("fetch calendar view for %s: %w", calendarID, err)
	}

	return convertEvents(result.GetValue()), nil
}

// convertEvents keeps timed, non-cancelled events in the order received.
func convertEvents(items []models.Eventable) []core.Event {
	var results []core.Event
	for _, item := range items {
		if derefBool(item.GetIsCancelled()) || derefBool(item.GetIsAllDay()) {
			continue
		}
		event, ok := parseGraphEvent(item)
		if !ok {
			continue
		}
		results = append(results, event)
	}
	return results
}

// parseGraphEvent converts a Graph SDK event into our unified core.Event.
// It reports false when either boundary is missing or unparseable.
func parseGraphEvent(item models.Eventable) (core.Event, bool) {
	start, ok := parseSDKDateTime(item.GetStart())
	if !ok {
		return core.Event{}, false
	}
	end, ok := parseSDKDateTime(item.GetEnd())
	if !ok {
		return core.Event{}, false
	}
	if end.Before(start) {
		end = start
	}

	location := ""
	if loc := item.GetLocation(); loc != nil {
		location = derefStr(loc.GetDisplayName())
	}

	return core.Event{
		Title:    derefStr(item.GetSubject()),
		Location: location,
		Start:    start,
		End:      end,
	}, true
}

// parseSDKDateTime converts a Graph SDK DateTimeTimeZone to time.Time.
// Times are in UTC because we set the Prefer: outlook.timezone="UTC" header.
func parseSDKDateTime(dt models.DateTimeTimeZoneable) (time.Time, bool) {
	if dt == nil {
		return time.Time{}, false
	}
	dateTimeStr := dt.GetDateTime()
	if dateTimeStr == nil {
		return time.Time{}, false
	}
	layouts := []string{
		"2006-01-02T15:04:05.0000000",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, *dateTimeStr); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

package google

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"google.golang.org/api/calendar/v3"
	ggoogleapi "google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *GoogleAdapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := calendar.NewService(context.Background(),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
		option.WithEndpoint(srv.URL+"/"),
	)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return NewGoogleAdapter(svc, 5)
}

func TestListCalendars_Paginates(t *testing.T) {
	var roles []string
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		if !(strings.Contains(r.URL.Path, "calendarList") && r.Method == http.MethodGet) {
			http.NotFound(w, r)
			return
		}
		roles = append(roles, r.URL.Query().Get("minAccessRole"))
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("pageToken") == "" {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"items": []map[string]any{
					{"id": "c1", "summary": "One", "description": "first"},
				},
				"nextPageToken": "p2",
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{"id": "c2", "summary": "Two"},
			},
		})
	})

	cals, err := a.ListCalendars(context.Background())
	if err != nil {
		t.Fatalf("ListCalendars: %v", err)
	}
	if len(cals) != 2 || cals[0].ID != "c1" || cals[0].Description != "first" || cals[1].ID != "c2" {
		t.Fatalf("unexpected calendars: %#v", cals)
	}
	if len(roles) != 2 || roles[0] != "reader" {
		t.Fatalf("unexpected minAccessRole: %v", roles)
	}
}

func TestListEvents_DropsAllDayAndSendsQuery(t *testing.T) {
	from := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	var query map[string]string
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		if !(strings.Contains(r.URL.Path, "/calendars/work@example.com/events") && r.Method == http.MethodGet) {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query()
		query = map[string]string{
			"orderBy":      q.Get("orderBy"),
			"singleEvents": q.Get("singleEvents"),
			"maxResults":   q.Get("maxResults"),
			"timeMin":      q.Get("timeMin"),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{
					"id":      "holiday",
					"summary": "Holiday",
					"start":   map[string]any{"date": "2025-03-10"},
					"end":     map[string]any{"date": "2025-03-11"},
				},
				{
					"id":       "e1",
					"summary":  "Standup",
					"location": "Room 4",
					"start":    map[string]any{"dateTime": "2025-03-10T09:30:00Z"},
					"end":      map[string]any{"dateTime": "2025-03-10T09:45:00Z"},
				},
				{
					"id":      "e2",
					"summary": "Review",
					"start":   map[string]any{"dateTime": "2025-03-10T13:00:00+01:00"},
					"end":     map[string]any{"dateTime": "2025-03-10T14:00:00+01:00"},
				},
			},
		})
	})

	events, err := a.ListEvents(context.Background(), "work@example.com", from)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("expected all-day event dropped, got %#v", events)
	}
	if events[0].Title != "Standup" || events[0].Location != "Room 4" {
		t.Fatalf("unexpected first event: %#v", events[0])
	}
	if !events[1].Start.Equal(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start: %v", events[1].Start)
	}
	for _, e := range events {
		if e.End.Before(e.Start) {
			t.Fatalf("event ends before it starts: %#v", e)
		}
	}

	if query["orderBy"] != "startTime" || query["singleEvents"] != "true" || query["maxResults"] != "5" {
		t.Fatalf("unexpected query: %v", query)
	}
	if query["timeMin"] != "2025-03-10T09:00:00Z" {
		t.Fatalf("unexpected timeMin: %q", query["timeMin"])
	}
}

func TestListEvents_ProviderError(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"forbidden","errors":[{"reason":"forbidden"}]}}`))
	})

	_, err := a.ListEvents(context.Background(), "primary", time.Now())
	var gerr *ggoogleapi.Error
	if !errors.As(err, &gerr) || gerr.Code != http.StatusForbidden {
		t.Fatalf("expected googleapi 403, got %v", err)
	}
}

func TestIsAllDay(t *testing.T) {
	tests := []struct {
		name string
		item *calendar.Event
		want bool
	}{
		{"date only", &calendar.Event{Start: &calendar.EventDateTime{Date: "2025-03-10"}, End: &calendar.EventDateTime{Date: "2025-03-11"}}, true},
		{"timed", &calendar.Event{Start: &calendar.EventDateTime{DateTime: "2025-03-10T09:00:00Z"}, End: &calendar.EventDateTime{DateTime: "2025-03-10T10:00:00Z"}}, false},
		{"timed start only", &calendar.Event{Start: &calendar.EventDateTime{DateTime: "2025-03-10T09:00:00Z"}, End: &calendar.EventDateTime{Date: "2025-03-11"}}, false},
		{"timed end only", &calendar.Event{Start: &calendar.EventDateTime{Date: "2025-03-10"}, End: &calendar.EventDateTime{DateTime: "2025-03-10T10:00:00Z"}}, false},
		{"no boundaries", &calendar.Event{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isAllDay(tt.item); got != tt.want {
				t.Fatalf("isAllDay = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseEvent_MixedBoundaries(t *testing.T) {
	item := &calendar.Event{
		Id:      "mixed",
		Summary: "Mixed",
		Start:   &calendar.EventDateTime{DateTime: "2025-03-10T09:00:00Z"},
		End:     &calendar.EventDateTime{Date: "2025-03-10"},
	}

	e, err := parseEvent(item)
	if err != nil {
		t.Fatalf("parseEvent: %v", err)
	}
	if e.End.Before(e.Start) {
		t.Fatalf("end before start: %#v", e)
	}
}

func TestOAuthConfig(t *testing.T) {
	cfg := OAuthConfig("id", "secret", "http://localhost:8080")
	if len(cfg.Scopes) != 1 || cfg.Scopes[0] != calendar.CalendarReadonlyScope {
		t.Fatalf("unexpected scopes: %v", cfg.Scopes)
	}
	if cfg.ClientID != "id" || cfg.ClientSecret != "secret" {
		t.Fatalf("unexpected client: %#v", cfg)
	}
}

// Package cache persists the last fetched event list to disk.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/theakshaypant/nxt/internal/config"
	"github.com/theakshaypant/nxt/internal/core"
	"github.com/theakshaypant/nxt/internal/util"
)

const FileName = "events_cache.json"

var (
	ErrNotFound = errors.New("cache file does not exist")
	ErrCorrupt  = errors.New("cache file is corrupt")
)

// EventCache is a snapshot of normalized events. It is always replaced
// wholesale, never merged.
type EventCache struct {
	Events      []core.Event
	LastUpdated time.Time
}

// FromEvents builds a cache stamped with now.
func FromEvents(events []core.Event, now time.Time) *EventCache {
	return &EventCache{Events: events, LastUpdated: now}
}

// IsStale reports whether the snapshot is older than ttl.
func (c *EventCache) IsStale(now time.Time, ttl time.Duration) bool {
	return now.Sub(c.LastUpdated) > ttl
}

// Store reads and writes an EventCache at Path.
// There is no locking; concurrent writers are last-writer-wins.
type Store struct {
	Path string
}

// DefaultPath returns <user cache dir>/nxt/events_cache.json.
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache dir: %w", err)
	}
	return filepath.Join(dir, config.AppName, FileName), nil
}

type fileEvent struct {
	Title     string    `json:"title"`
	Location  *string   `json:"location"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type fileCache struct {
	Events      []fileEvent `json:"events"`
	LastUpdated time.Time   `json:"last_updated"`
}

// Load reads the cache file. A missing file wraps ErrNotFound and an
// unreadable one wraps ErrCorrupt.
func (s *Store) Load() (*EventCache, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.Path)
		}
		return nil, fmt.Errorf("read cache: %w", err)
	}

	var fc fileCache
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	c := &EventCache{
		Events:      make([]core.Event, 0, len(fc.Events)),
		LastUpdated: fc.LastUpdated,
	}
	for _, fe := range fc.Events {
		if fe.EndTime.Before(fe.StartTime) {
			return nil, fmt.Errorf("%w: event %q ends before it starts", ErrCorrupt, fe.Title)
		}
		e := core.Event{Title: fe.Title, Start: fe.StartTime, End: fe.EndTime}
		if fe.Location != nil {
			e.Location = *fe.Location
		}
		c.Events = append(c.Events, e)
	}

	return c, nil
}

// Save replaces the cache file.
func (s *Store) Save(c *EventCache) error {
	fc := fileCache{
		Events:      make([]fileEvent, 0, len(c.Events)),
		LastUpdated: c.LastUpdated,
	}
	for _, e := range c.Events {
		fe := fileEvent{Title: e.Title, StartTime: e.Start, EndTime: e.End}
		if e.Location != "" {
			loc := e.Location
			fe.Location = &loc
		}
		fc.Events = append(fc.Events, fe)
	}

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}

	if err := util.WriteFileAtomic(s.Path, data, 0o600); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	return nil
}

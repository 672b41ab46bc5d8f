package core

import (
	"fmt"
	"slices"
)

// SelectionMode decides which calendars events are fetched from.
type SelectionMode string

const (
	SelectAll       SelectionMode = "all"
	SelectWhitelist SelectionMode = "whitelist"
	SelectBlacklist SelectionMode = "blacklist"
)

// CalendarSelection is the calendar filter stored in the config file.
// The zero value selects every calendar.
type CalendarSelection struct {
	Mode SelectionMode `json:"mode" mapstructure:"mode"`
	IDs  []string      `json:"ids" mapstructure:"ids"`
}

// Validate rejects unknown modes.
func (s CalendarSelection) Validate() error {
	switch s.Mode {
	case "", SelectAll, SelectWhitelist, SelectBlacklist:
		return nil
	default:
		return fmt.Errorf("unknown calendar selection mode %q (expected all|whitelist|blacklist)", s.Mode)
	}
}

// Filter returns the calendars the selection allows, in input order.
func (s CalendarSelection) Filter(calendars []Calendar) []Calendar {
	var out []Calendar
	for _, cal := range calendars {
		listed := slices.Contains(s.IDs, cal.ID)
		switch s.Mode {
		case SelectWhitelist:
			if !listed {
				continue
			}
		case SelectBlacklist:
			if listed {
				continue
			}
		}
		out = append(out, cal)
	}
	return out
}

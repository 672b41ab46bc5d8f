// Package ui renders terminal output with lipgloss.
package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/theakshaypant/nxt/internal/core"
	"github.com/theakshaypant/nxt/internal/util"
)

// DescriptionWidth caps the description column of the calendar table.
const DescriptionWidth = 60

var (
	primaryColor = lipgloss.Color("#7C3AED") // Purple
	mutedColor   = lipgloss.Color("#6B7280") // Gray
	fgColor      = lipgloss.Color("#F9FAFB") // Light
)

// Styles are bound to the renderer of one output, so colors are dropped
// when that output is not a terminal.
type Styles struct {
	Header lipgloss.Style
	Cell   lipgloss.Style
	Muted  lipgloss.Style
	Border lipgloss.Style
}

func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	return Styles{
		Header: r.NewStyle().Bold(true).Foreground(primaryColor).Padding(0, 1),
		Cell:   r.NewStyle().Foreground(fgColor).Padding(0, 1),
		Muted:  r.NewStyle().Foreground(mutedColor).Padding(0, 1),
		Border: r.NewStyle().Foreground(mutedColor),
	}
}

// CalendarTable lays out calendars as ID / SUMMARY / DESCRIPTION rows.
// Descriptions are collapsed to one line and truncated.
func (s Styles) CalendarTable(calendars []core.Calendar) string {
	rows := make([][]string, 0, len(calendars))
	for _, cal := range calendars {
		rows = append(rows, []string{
			cal.ID,
			cal.Summary,
			util.TruncateText(util.OneLine(cal.Description), DescriptionWidth),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.Border).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return s.Header
			case col == 2:
				return s.Muted
			default:
				return s.Cell
			}
		}).
		Headers("ID", "SUMMARY", "DESCRIPTION").
		Rows(rows...)

	return t.Render()
}

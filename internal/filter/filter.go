// Package filter narrows a list of chapter events by type, date range,
// keyword, location and day of week.
//
// Example usage:
//
//	f := filter.NewFilter()
//	f.Types = []event.Type{event.TypeSummit}
//	f.WeekendsOnly = true
//	upcoming := f.Apply(events)
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/chapter-events/internal/event"
)

// Filter represents event filtering criteria
type Filter struct {
	// Date range, compared against the event's local calendar day
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`

	Types []event.Type `json:"types,omitempty"`

	// Case-insensitive substring match against title and description
	Keywords []string `json:"keywords,omitempty"`

	// Case-insensitive substring match against location
	Locations []string `json:"locations,omitempty"`

	WeekendsOnly bool `json:"weekends_only,omitempty"`
}

// NewFilter creates a new empty filter with no active criteria.
// The filter will match all events until criteria are added.
func NewFilter() *Filter {
	return &Filter{}
}

// IsEmpty checks if the filter has any active criteria.
func (f *Filter) IsEmpty() bool {
	return f == nil ||
		f.DateFrom == nil &&
			f.DateTo == nil &&
			len(f.Types) == 0 &&
			len(f.Keywords) == 0 &&
			len(f.Locations) == 0 &&
			!f.WeekendsOnly
}

// Matches checks if an event matches all active filter criteria.
// An empty filter matches all events.
//
// Matching logic:
//   - Date range: the event's local start day must fall within DateFrom and DateTo (inclusive)
//   - Types: the event type must be one of Types
//   - Keywords: title or description must contain at least one keyword
//   - Locations: location must contain at least one entry
//   - WeekendsOnly: the event must start on a Saturday or Sunday in its own timezone
func (f *Filter) Matches(evt *event.Event) bool {
	if f.IsEmpty() {
		return true
	}
	if evt == nil {
		return false
	}

	day := localDay(evt)

	if f.DateFrom != nil && day.Before(truncateDay(*f.DateFrom)) {
		return false
	}
	if f.DateTo != nil && day.After(*f.DateTo) {
		return false
	}

	if f.WeekendsOnly {
		weekday := day.Weekday()
		if weekday != time.Saturday && weekday != time.Sunday {
			return false
		}
	}

	if len(f.Types) > 0 {
		matched := false
		for _, t := range f.Types {
			if evt.Type == t {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(f.Keywords) > 0 && !containsAny(evt.Title+"\n"+evt.Description, f.Keywords) {
		return false
	}

	if len(f.Locations) > 0 && !containsAny(evt.Location, f.Locations) {
		return false
	}

	return true
}

// Apply returns only the events that match all criteria.
// If the filter is empty, returns the original list unchanged.
func (f *Filter) Apply(events []*event.Event) []*event.Event {
	if f.IsEmpty() {
		return events
	}

	var filtered []*event.Event
	for _, evt := range events {
		if f.Matches(evt) {
			filtered = append(filtered, evt)
		}
	}

	return filtered
}

// String returns a human-readable description of the active filter criteria.
// Format: "From: Mar 1, 2026 | To: Mar 31, 2026 | Types: Summit | Weekends only"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string

	if f.DateFrom != nil {
		parts = append(parts, fmt.Sprintf("From: %s", f.DateFrom.Format("Jan 2, 2006")))
	}

	if f.DateTo != nil {
		parts = append(parts, fmt.Sprintf("To: %s", f.DateTo.Format("Jan 2, 2006")))
	}

	if len(f.Types) > 0 {
		names := make([]string, len(f.Types))
		for i, t := range f.Types {
			names[i] = string(t)
		}
		parts = append(parts, fmt.Sprintf("Types: %s", strings.Join(names, ", ")))
	}

	if len(f.Keywords) > 0 {
		parts = append(parts, fmt.Sprintf("Keywords: %s", strings.Join(f.Keywords, ", ")))
	}

	if len(f.Locations) > 0 {
		parts = append(parts, fmt.Sprintf("Locations: %s", strings.Join(f.Locations, ", ")))
	}

	if f.WeekendsOnly {
		parts = append(parts, "Weekends only")
	}

	return strings.Join(parts, " | ")
}

// localDay returns the event's start date in its own timezone as a UTC midnight.
func localDay(evt *event.Event) time.Time {
	local := evt.StartAt.In(evt.TimeLocation())
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func containsAny(haystack string, needles []string) bool {
	lower := strings.ToLower(haystack)
	for _, n := range needles {
		n = strings.ToLower(strings.TrimSpace(n))
		if n != "" && strings.Contains(lower, n) {
			return true
		}
	}
	return false
}

package cli

import (
	"sort"
	"strings"

	"github.com/pfrederiksen/chapter-events/internal/ingest"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	// SortByDate lists upcoming events soonest first, then past events most
	// recent first.
	SortByDate  SortOrder = "date"
	SortByTitle SortOrder = "title"
	SortByAdded SortOrder = "added"
)

// ParseSortOrder validates a --sort value
func ParseSortOrder(s string) (SortOrder, bool) {
	switch order := SortOrder(strings.ToLower(strings.TrimSpace(s))); order {
	case SortByDate, SortByTitle, SortByAdded:
		return order, true
	case "":
		return SortByDate, true
	default:
		return "", false
	}
}

// sortEvents sorts a slice of events based on the specified sort order
func sortEvents(events []ingest.ListedEvent, sortOrder SortOrder) {
	switch sortOrder {
	case SortByDate:
		sort.SliceStable(events, func(i, j int) bool {
			return compareForDisplay(events[i], events[j])
		})
	case SortByTitle:
		sort.SliceStable(events, func(i, j int) bool {
			ti, tj := strings.ToLower(events[i].Title), strings.ToLower(events[j].Title)
			if ti != tj {
				return ti < tj
			}
			// If titles are equal, sort by date
			return events[i].StartAt.Before(events[j].StartAt)
		})
	case SortByAdded:
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].AddedAt.After(events[j].AddedAt)
		})
	}
}

// compareForDisplay returns true if event i should come before event j:
// upcoming before past, upcoming ascending, past descending.
func compareForDisplay(i, j ingest.ListedEvent) bool {
	if i.IsUpcoming != j.IsUpcoming {
		return i.IsUpcoming
	}
	if i.StartAt.Equal(j.StartAt) {
		return strings.ToLower(i.Title) < strings.ToLower(j.Title)
	}
	if i.IsUpcoming {
		return i.StartAt.Before(j.StartAt)
	}
	return i.StartAt.After(j.StartAt)
}

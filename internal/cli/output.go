package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pfrederiksen/chapter-events/internal/event"
	"github.com/pfrederiksen/chapter-events/internal/ingest"
	"github.com/pfrederiksen/chapter-events/internal/scraper"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

const displayTimeLayout = "Mon Jan 2 2006 3:04 PM MST"

// ListResult contains the data printed by list
type ListResult struct {
	ListedAt   time.Time            `json:"listed_at"`
	Events     []ingest.ListedEvent `json:"events"`
	EventCount int                  `json:"event_count"`
	Upcoming   int                  `json:"upcoming"`
	Past       int                  `json:"past"`
}

// NewListResult counts upcoming and past events
func NewListResult(events []ingest.ListedEvent, now time.Time) *ListResult {
	result := &ListResult{ListedAt: now.UTC(), Events: events, EventCount: len(events)}
	for _, evt := range events {
		if evt.IsUpcoming {
			result.Upcoming++
		} else {
			result.Past++
		}
	}
	return result
}

// WriteList writes the result in the specified format
func WriteList(w io.Writer, result *ListResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeListText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteEvent writes a single stored event
func WriteEvent(w io.Writer, evt *event.Event, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, evt)
	case FormatText:
		writeEventText(w, "", evt, true)
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteEventData writes the parsed page data of a preview
func WriteEventData(w io.Writer, data *scraper.EventData, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, data)
	case FormatText:
		fmt.Fprintf(w, "Title:       %s\n", data.Title)
		fmt.Fprintf(w, "Start:       %s\n", orDash(data.StartAt))
		fmt.Fprintf(w, "End:         %s\n", orDash(data.EndAt))
		fmt.Fprintf(w, "Timezone:    %s\n", orDash(data.Timezone))
		fmt.Fprintf(w, "Location:    %s\n", orDash(data.Location))
		fmt.Fprintf(w, "Image:       %s\n", orDash(data.ImageURL))
		fmt.Fprintf(w, "Source:      %s\n", data.SourceURL)
		if data.Description != "" {
			fmt.Fprintf(w, "\n%s\n", data.Description)
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeListText outputs results as human-readable text, grouped into
// upcoming and past sections.
func writeListText(w io.Writer, result *ListResult, verbose bool) error {
	if result.EventCount == 0 {
		fmt.Fprintln(w, "No events found.")
		return nil
	}

	sections := []struct {
		label    string
		upcoming bool
		count    int
	}{
		{"Upcoming", true, result.Upcoming},
		{"Past", false, result.Past},
	}
	for _, section := range sections {
		if section.count == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s (%d):\n", section.label, section.count)
		for _, evt := range result.Events {
			if evt.IsUpcoming == section.upcoming {
				writeEventText(w, "  ", evt.Event, verbose)
			}
		}
	}

	fmt.Fprintf(w, "\nTotal: %d events (%d upcoming, %d past)\n", result.EventCount, result.Upcoming, result.Past)
	return nil
}

func writeEventText(w io.Writer, indent string, evt *event.Event, verbose bool) {
	start := evt.StartAt.In(evt.TimeLocation())
	fmt.Fprintf(w, "%s%s  %s [%s]\n", indent, start.Format(displayTimeLayout), evt.Title, evt.Type)
	if !verbose {
		return
	}
	fmt.Fprintf(w, "%s     ID: %s\n", indent, evt.ID)
	if evt.EndAt != nil {
		fmt.Fprintf(w, "%s     Ends: %s\n", indent, evt.EndAt.In(evt.TimeLocation()).Format(displayTimeLayout))
	}
	if evt.Location != "" {
		fmt.Fprintf(w, "%s     Location: %s\n", indent, evt.Location)
	}
	if evt.SourceURL != "" {
		fmt.Fprintf(w, "%s     URL: %s\n", indent, evt.SourceURL)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

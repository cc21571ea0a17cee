package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/chapter-events/internal/filter"
	"github.com/pfrederiksen/chapter-events/internal/ingest"
)

func urlInput(sourceURL, eventType string) ingest.URLInput {
	return ingest.URLInput{SourceURL: sourceURL, Type: eventType}
}

// manualFlags binds the add-manual flags
type manualFlags struct {
	title       string
	startAt     string
	endAt       string
	timezone    string
	location    string
	imageURL    string
	description string
	externalURL string
	eventType   string
}

func (f *manualFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Event title (required)")
	cmd.Flags().StringVar(&f.startAt, "start", "", "Start time, ISO 8601 (required)")
	cmd.Flags().StringVar(&f.endAt, "end", "", "End time, ISO 8601")
	cmd.Flags().StringVar(&f.timezone, "timezone", "", "IANA timezone for times without an offset")
	cmd.Flags().StringVar(&f.location, "location", "", "Venue or address")
	cmd.Flags().StringVar(&f.imageURL, "image", "", "Image URL")
	cmd.Flags().StringVar(&f.description, "description", "", "Description")
	cmd.Flags().StringVar(&f.externalURL, "url", "", "External event link")
	cmd.Flags().StringVar(&f.eventType, "type", "", "Event type (default Other)")

	cmd.MarkFlagRequired("title") // nolint:errcheck
	cmd.MarkFlagRequired("start") // nolint:errcheck
}

func (f *manualFlags) input() ingest.ManualInput {
	return ingest.ManualInput{
		Title:       f.title,
		StartAt:     f.startAt,
		EndAt:       f.endAt,
		Timezone:    f.timezone,
		Location:    f.location,
		ImageURL:    f.imageURL,
		Description: f.description,
		ExternalURL: f.externalURL,
		Type:        f.eventType,
	}
}

// filterFlags binds the list filter flags
type filterFlags struct {
	types        []string
	dateRange    string
	keywords     []string
	locations    []string
	weekendsOnly bool
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.types, "type", nil, "Only list these event types (repeatable or comma-separated)")
	cmd.Flags().StringVar(&f.dateRange, "range", "", "Date range, e.g. 'Mar 1-15', 'March', '2026-03-01..2026-03-31'")
	cmd.Flags().StringSliceVar(&f.keywords, "search", nil, "Keyword to match in title or description")
	cmd.Flags().StringSliceVar(&f.locations, "location", nil, "Substring to match in the location")
	cmd.Flags().BoolVar(&f.weekendsOnly, "weekends", false, "Only list events starting on a Saturday or Sunday")
}

func (f *filterFlags) build(now time.Time) (*filter.Filter, error) {
	types, err := filter.ParseTypes(f.types)
	if err != nil {
		return nil, err
	}

	flt := filter.NewFilter()
	flt.Types = types
	flt.Keywords = f.keywords
	flt.Locations = f.locations
	flt.WeekendsOnly = f.weekendsOnly

	if f.dateRange != "" {
		flt.DateFrom, flt.DateTo, err = filter.ParseDateRange(f.dateRange, now)
		if err != nil {
			return nil, err
		}
	}
	return flt, nil
}

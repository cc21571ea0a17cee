package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pfrederiksen/chapter-events/internal/event"
)

const backendSheet = "sheet"

// SheetStore reads events from a Google Sheet published as CSV. The first row
// names the columns (id, sourceUrl or lumaUrl, title, description, startAt,
// endAt, timezone, location, imageUrl, type, addedAt). Writes are rejected.
type SheetStore struct {
	csvURL          string
	httpClient      *http.Client
	defaultTimezone string
	now             func() time.Time
}

// NewSheetStore creates a read-only store for a published CSV URL
func NewSheetStore(csvURL, defaultTimezone string, timeout time.Duration) (*SheetStore, error) {
	if csvURL == "" {
		return nil, fmt.Errorf("sheet CSV URL is required")
	}
	if defaultTimezone == "" {
		defaultTimezone = event.DefaultTimezone
	}
	return &SheetStore{
		csvURL:          csvURL,
		httpClient:      newHTTPClient(timeout),
		defaultTimezone: defaultTimezone,
		now:             time.Now,
	}, nil
}

// Writable is always false: events are edited in the sheet itself.
func (s *SheetStore) Writable() bool {
	return false
}

// ReadAll downloads and parses the sheet
func (s *SheetStore) ReadAll(ctx context.Context) (*event.Collection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.csvURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindUnavailable, Backend: backendSheet, Op: "read", Err: fmt.Errorf("fetching sheet: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Kind: KindUnavailable, Backend: backendSheet, Op: "read", Err: fmt.Errorf("sheet returned status %d", resp.StatusCode)}
	}

	events, err := ParseSheetCSV(resp.Body, s.defaultTimezone, s.now())
	if err != nil {
		return nil, &Error{Kind: KindCorrupt, Backend: backendSheet, Op: "read", Err: err}
	}
	return &event.Collection{Events: events}, nil
}

// WriteAll always fails with KindReadOnlySource
func (s *SheetStore) WriteAll(ctx context.Context, c *event.Collection) error {
	return &Error{
		Kind:    KindReadOnlySource,
		Backend: backendSheet,
		Op:      "write",
		Err:     errors.New("events are managed in the Google Sheet"),
	}
}

// ParseSheetCSV converts CSV rows to events. Rows missing a source URL, a title
// or a parseable start time are skipped. Missing ids are derived from the
// source URL and title so they stay stable across reads.
func ParseSheetCSV(r io.Reader, defaultTimezone string, now time.Time) ([]*event.Event, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return make([]*event.Event, 0), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF"))] = i
	}
	field := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	events := make([]*event.Event, 0)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}

		sourceURL := field(row, "sourceUrl")
		if sourceURL == "" {
			sourceURL = field(row, "lumaUrl")
		}
		title := field(row, "title")
		if sourceURL == "" || title == "" || field(row, "startAt") == "" {
			continue
		}

		timezone := field(row, "timezone")
		if timezone == "" {
			timezone = defaultTimezone
		}
		loc := event.LoadLocation(timezone)

		startAt, err := event.ParseTimestamp(field(row, "startAt"), loc)
		if err != nil {
			continue
		}

		evt := &event.Event{
			ID:          field(row, "id"),
			SourceURL:   sourceURL,
			Title:       title,
			Description: field(row, "description"),
			StartAt:     startAt,
			Timezone:    timezone,
			Location:    field(row, "location"),
			ImageURL:    field(row, "imageUrl"),
			Type:        event.TypeMeetup,
			AddedAt:     now.UTC(),
		}
		if evt.ID == "" {
			evt.ID = uuid.NewSHA1(uuid.NameSpaceURL, []byte(sourceURL+"|"+title)).String()
		}
		if t, ok := event.ParseType(field(row, "type")); ok {
			evt.Type = t
		}
		if endAt, err := event.ParseTimestamp(field(row, "endAt"), loc); err == nil {
			evt.EndAt = &endAt
		}
		if addedAt, err := event.ParseTimestamp(field(row, "addedAt"), time.UTC); err == nil {
			evt.AddedAt = addedAt
		}

		events = append(events, evt)
	}

	return events, nil
}

package filter

import (
	"testing"
	"time"

	"github.com/pfrederiksen/chapter-events/internal/event"
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func testEvent(title string, start time.Time, typ event.Type, location string) *event.Event {
	return &event.Event{
		ID:       title,
		Title:    title,
		StartAt:  start,
		Timezone: "America/Los_Angeles",
		Type:     typ,
		Location: location,
	}
}

func TestFilter_IsEmpty(t *testing.T) {
	tests := []struct {
		name   string
		filter *Filter
		want   bool
	}{
		{
			name:   "empty filter",
			filter: NewFilter(),
			want:   true,
		},
		{
			name:   "nil filter",
			filter: nil,
			want:   true,
		},
		{
			name:   "filter with date from",
			filter: &Filter{DateFrom: timePtr(time.Now())},
			want:   false,
		},
		{
			name:   "filter with weekends only",
			filter: &Filter{WeekendsOnly: true},
			want:   false,
		},
		{
			name:   "filter with type",
			filter: &Filter{Types: []event.Type{event.TypeSummit}},
			want:   false,
		},
		{
			name:   "filter with keyword",
			filter: &Filter{Keywords: []string{"ai"}},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.IsEmpty(); got != tt.want {
				t.Errorf("Filter.IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_Matches(t *testing.T) {
	mar1 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	mar31 := time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)

	// 18:00 PDT on Saturday March 14 is 01:00 UTC on Sunday March 15
	saturdayEvening := time.Date(2026, 3, 15, 1, 0, 0, 0, time.UTC)
	// 17:00 PDT on Tuesday March 31 is 00:00 UTC on April 1
	lastDayOfMarch := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	wednesday := time.Date(2026, 3, 18, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		filter *Filter
		event  *event.Event
		want   bool
	}{
		{
			name:   "empty filter matches all",
			filter: NewFilter(),
			event:  testEvent("Anything", wednesday, event.TypeOther, ""),
			want:   true,
		},
		{
			name:   "type filter matches",
			filter: &Filter{Types: []event.Type{event.TypeWorkshop, event.TypeSummit}},
			event:  testEvent("Spring Summit", wednesday, event.TypeSummit, ""),
			want:   true,
		},
		{
			name:   "type filter does not match",
			filter: &Filter{Types: []event.Type{event.TypeWorkshop}},
			event:  testEvent("Spring Summit", wednesday, event.TypeSummit, ""),
			want:   false,
		},
		{
			name:   "keyword matches title case-insensitively",
			filter: &Filter{Keywords: []string{"SUMMIT"}},
			event:  testEvent("Spring Summit", wednesday, event.TypeSummit, ""),
			want:   true,
		},
		{
			name:   "keyword matches description",
			filter: &Filter{Keywords: []string{"governance"}},
			event: &event.Event{
				Title:       "Roundtable",
				Description: "AI Governance in practice",
				StartAt:     wednesday,
			},
			want: true,
		},
		{
			name:   "keyword does not match",
			filter: &Filter{Keywords: []string{"robotics"}},
			event:  testEvent("Spring Summit", wednesday, event.TypeSummit, ""),
			want:   false,
		},
		{
			name:   "location matches",
			filter: &Filter{Locations: []string{"seattle"}},
			event:  testEvent("Meetup", wednesday, event.TypeMeetup, "Pioneer Square, Seattle, WA"),
			want:   true,
		},
		{
			name:   "location does not match",
			filter: &Filter{Locations: []string{"portland"}},
			event:  testEvent("Meetup", wednesday, event.TypeMeetup, "Seattle, WA"),
			want:   false,
		},
		{
			name:   "date range filter matches",
			filter: &Filter{DateFrom: &mar1, DateTo: &mar31},
			event:  testEvent("Meetup", wednesday, event.TypeMeetup, ""),
			want:   true,
		},
		{
			name:   "date range uses the event's local day",
			filter: &Filter{DateFrom: &mar1, DateTo: &mar31},
			event:  testEvent("Meetup", lastDayOfMarch, event.TypeMeetup, ""),
			want:   true,
		},
		{
			name:   "date range filter does not match (before)",
			filter: &Filter{DateFrom: timePtr(time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC))},
			event:  testEvent("Meetup", wednesday, event.TypeMeetup, ""),
			want:   false,
		},
		{
			name:   "weekends only matches local Saturday",
			filter: &Filter{WeekendsOnly: true},
			event:  testEvent("Demo Night", saturdayEvening, event.TypeDemoNight, ""),
			want:   true,
		},
		{
			name:   "weekends only rejects weekday",
			filter: &Filter{WeekendsOnly: true},
			event:  testEvent("Demo Night", wednesday, event.TypeDemoNight, ""),
			want:   false,
		},
		{
			name:   "nil event never matches an active filter",
			filter: &Filter{WeekendsOnly: true},
			event:  nil,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(tt.event); got != tt.want {
				t.Errorf("Filter.Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_Apply(t *testing.T) {
	events := []*event.Event{
		testEvent("Spring Summit", time.Date(2026, 3, 18, 18, 0, 0, 0, time.UTC), event.TypeSummit, "Seattle"),
		testEvent("Policy Roundtable", time.Date(2026, 3, 20, 18, 0, 0, 0, time.UTC), event.TypeRoundtable, "Portland"),
		testEvent("Fall Summit", time.Date(2026, 10, 7, 18, 0, 0, 0, time.UTC), event.TypeSummit, "Portland"),
	}

	t.Run("empty filter returns input", func(t *testing.T) {
		got := NewFilter().Apply(events)
		if len(got) != len(events) {
			t.Errorf("Apply() returned %d events, want %d", len(got), len(events))
		}
	})

	t.Run("combined criteria", func(t *testing.T) {
		f := &Filter{
			Types:     []event.Type{event.TypeSummit},
			Locations: []string{"portland"},
		}
		got := f.Apply(events)
		if len(got) != 1 || got[0].Title != "Fall Summit" {
			t.Errorf("Apply() = %v, want only Fall Summit", got)
		}
	})

	t.Run("no matches", func(t *testing.T) {
		f := &Filter{Keywords: []string{"hackathon"}}
		if got := f.Apply(events); len(got) != 0 {
			t.Errorf("Apply() returned %d events, want 0", len(got))
		}
	})
}

func TestFilter_String(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)

	tests := []struct {
		name   string
		filter *Filter
		want   string
	}{
		{
			name:   "empty filter",
			filter: NewFilter(),
			want:   "No active filters",
		},
		{
			name:   "date range",
			filter: &Filter{DateFrom: &from, DateTo: &to},
			want:   "From: Mar 1, 2026 | To: Mar 31, 2026",
		},
		{
			name: "all criteria",
			filter: &Filter{
				Types:        []event.Type{event.TypeSummit, event.TypeDemoNight},
				Keywords:     []string{"ai"},
				Locations:    []string{"Seattle"},
				WeekendsOnly: true,
			},
			want: "Types: Summit, Demo Night | Keywords: ai | Locations: Seattle | Weekends only",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.String(); got != tt.want {
				t.Errorf("Filter.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

package event

import (
	"testing"
	"time"
)

func sampleCollection() *Collection {
	start := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	return &Collection{Events: []*Event{
		{ID: "1", SourceURL: "https://luma.com/first", Title: "First", StartAt: start},
		{ID: "2", Title: "Second", StartAt: start.Add(24 * time.Hour)},
		{ID: "3", SourceURL: "https://luma.com/third", Title: "Third", StartAt: start.Add(48 * time.Hour)},
	}}
}

func TestFindDuplicate(t *testing.T) {
	tests := []struct {
		name      string
		candidate *Event
		wantID    string
	}{
		{
			name:      "same source URL",
			candidate: &Event{SourceURL: "https://luma.com/first", Title: "Renamed"},
			wantID:    "1",
		},
		{
			name:      "alias host and trailing slash",
			candidate: &Event{SourceURL: "https://lu.ma/first/?utm_source=x", Title: "Other"},
			wantID:    "1",
		},
		{
			name:      "exact title",
			candidate: &Event{Title: "Second"},
			wantID:    "2",
		},
		{
			name:      "title match is case-sensitive",
			candidate: &Event{Title: "second"},
		},
		{
			name:      "empty source URL never matches",
			candidate: &Event{Title: "Brand New"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sampleCollection().FindDuplicate(tt.candidate)
			if tt.wantID == "" {
				if got != nil {
					t.Errorf("FindDuplicate() = %s, want nil", got.ID)
				}
				return
			}
			if got == nil || got.ID != tt.wantID {
				t.Errorf("FindDuplicate() = %v, want %s", got, tt.wantID)
			}
		})
	}
}

func TestRemove(t *testing.T) {
	c := sampleCollection()
	before := *c.Events[2]

	if !c.Remove("2") {
		t.Fatal("Remove(2) = false, want true")
	}
	if len(c.Events) != 2 {
		t.Fatalf("len = %d, want 2", len(c.Events))
	}
	if c.Get("2") != nil {
		t.Error("event 2 still present")
	}
	if *c.Get("3") != before {
		t.Error("remaining event changed")
	}

	if c.Remove("missing") {
		t.Error("Remove(missing) = true, want false")
	}
	if len(c.Events) != 2 {
		t.Errorf("len = %d after unknown id, want 2", len(c.Events))
	}
}

func TestNormalizeSourceURL(t *testing.T) {
	tests := map[string]string{
		"https://lu.ma/abc":           "luma.com/abc",
		"https://www.luma.com/abc/":   "luma.com/abc",
		"https://LUMA.com/abc?x=1#y":  "luma.com/abc",
		"":                            "",
		"https://example.org/e/event": "example.org/e/event",
	}
	for input, want := range tests {
		if got := NormalizeSourceURL(input); got != want {
			t.Errorf("NormalizeSourceURL(%q) = %q, want %q", input, got, want)
		}
	}
}

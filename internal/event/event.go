package event

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTimezone is the chapter's local zone, used when an event carries none.
const DefaultTimezone = "America/Los_Angeles"

// Type is the category shown next to an event
type Type string

const (
	TypeSummit     Type = "Summit"
	TypeRoundtable Type = "Roundtable"
	TypeWorkshop   Type = "Workshop"
	TypeForum      Type = "Forum"
	TypeDemoNight  Type = "Demo Night"
	TypeMeetup     Type = "Meetup"
	TypeOther      Type = "Other"
)

// Types lists every recognized event type in display order
var Types = []Type{TypeSummit, TypeRoundtable, TypeWorkshop, TypeForum, TypeDemoNight, TypeMeetup, TypeOther}

// ParseType matches s against the known types, ignoring case and surrounding space.
func ParseType(s string) (Type, bool) {
	s = strings.TrimSpace(s)
	for _, t := range Types {
		if strings.EqualFold(s, string(t)) {
			return t, true
		}
	}
	return "", false
}

// Event represents one community event
type Event struct {
	ID          string     `json:"id"`
	SourceURL   string     `json:"sourceUrl,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	StartAt     time.Time  `json:"startAt"`
	EndAt       *time.Time `json:"endAt,omitempty"`
	Timezone    string     `json:"timezone"`
	Location    string     `json:"location,omitempty"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	Type        Type       `json:"type"`
	AddedAt     time.Time  `json:"addedAt"`
}

// New creates an Event with a fresh ID, the default timezone and AddedAt set to now.
func New(title string, startAt, now time.Time) *Event {
	return &Event{
		ID:       uuid.NewString(),
		Title:    title,
		StartAt:  startAt,
		Timezone: DefaultTimezone,
		Type:     TypeOther,
		AddedAt:  now.UTC(),
	}
}

// IsUpcoming reports whether the event starts after now.
func (e *Event) IsUpcoming(now time.Time) bool {
	return e.StartAt.After(now)
}

// TimeLocation returns the event's zone, falling back to DefaultTimezone.
func (e *Event) TimeLocation() *time.Location {
	return LoadLocation(e.Timezone)
}

// UnmarshalJSON accepts the legacy lumaUrl field, an imageUrl given as a list,
// and any timestamp layout understood by ParseTimestamp.
func (e *Event) UnmarshalJSON(data []byte) error {
	type alias Event
	aux := struct {
		*alias
		LumaURL  string          `json:"lumaUrl"`
		StartAt  string          `json:"startAt"`
		EndAt    string          `json:"endAt"`
		AddedAt  string          `json:"addedAt"`
		ImageURL json.RawMessage `json:"imageUrl"`
	}{alias: (*alias)(e)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if e.SourceURL == "" {
		e.SourceURL = aux.LumaURL
	}
	e.ImageURL = firstImage(aux.ImageURL)

	loc := e.TimeLocation()
	if aux.StartAt != "" {
		t, err := ParseTimestamp(aux.StartAt, loc)
		if err != nil {
			return fmt.Errorf("event %s: startAt: %w", e.ID, err)
		}
		e.StartAt = t
	}
	if aux.EndAt != "" {
		t, err := ParseTimestamp(aux.EndAt, loc)
		if err != nil {
			return fmt.Errorf("event %s: endAt: %w", e.ID, err)
		}
		e.EndAt = &t
	}
	if aux.AddedAt != "" {
		t, err := ParseTimestamp(aux.AddedAt, time.UTC)
		if err != nil {
			return fmt.Errorf("event %s: addedAt: %w", e.ID, err)
		}
		e.AddedAt = t
	}
	return nil
}

func firstImage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list[0]
	}
	return ""
}

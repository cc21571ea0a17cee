package handler

import (
	"github.com/pfrederiksen/chapter-events/internal/event"
	"github.com/pfrederiksen/chapter-events/internal/ingest"
	"github.com/pfrederiksen/chapter-events/internal/scraper"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error    string `json:"error"`
	Guidance string `json:"guidance,omitempty"`
}

// AddEventRequest covers both submission paths: a page URL to scrape, or
// manual fields when Manual is set. LumaURL is the legacy name of SourceURL.
type AddEventRequest struct {
	Manual    bool   `json:"manual"`
	SourceURL string `json:"sourceUrl"`
	LumaURL   string `json:"lumaUrl"`
	Type      string `json:"type"`

	Title       string `json:"title"`
	StartAt     string `json:"startAt"`
	EndAt       string `json:"endAt"`
	Timezone    string `json:"timezone"`
	Location    string `json:"location"`
	ImageURL    string `json:"imageUrl"`
	Description string `json:"description"`
	ExternalURL string `json:"externalUrl"`
}

func (r *AddEventRequest) urlInput() ingest.URLInput {
	sourceURL := r.SourceURL
	if sourceURL == "" {
		sourceURL = r.LumaURL
	}
	return ingest.URLInput{SourceURL: sourceURL, Type: r.Type}
}

func (r *AddEventRequest) manualInput() ingest.ManualInput {
	return ingest.ManualInput{
		Title:       r.Title,
		StartAt:     r.StartAt,
		EndAt:       r.EndAt,
		Timezone:    r.Timezone,
		Location:    r.Location,
		ImageURL:    r.ImageURL,
		Description: r.Description,
		ExternalURL: r.ExternalURL,
		Type:        r.Type,
	}
}

// ListEventsResponse is the body of GET /api/events
type ListEventsResponse struct {
	Events []ingest.ListedEvent `json:"events"`
}

// AddEventResponse is the body of a successful POST /api/events
type AddEventResponse struct {
	Success bool         `json:"success"`
	Event   *event.Event `json:"event"`
}

// DeleteEventResponse is the body of a successful DELETE /api/events
type DeleteEventResponse struct {
	Success bool `json:"success"`
}

// FetchEventRequest asks for a preview of an event page
type FetchEventRequest struct {
	SourceURL string `json:"sourceUrl"`
	LumaURL   string `json:"lumaUrl"`
}

// FetchEventResponse carries the parsed page data of a preview
type FetchEventResponse struct {
	Event *scraper.EventData `json:"event"`
}

// AuthRequest is the body of POST /api/admin/auth
type AuthRequest struct {
	Password string `json:"password"`
}

// AuthResponse is the body of a successful admin password check
type AuthResponse struct {
	OK bool `json:"ok"`
}

package scraper

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// UntitledEvent is the title used when no source yields one.
const UntitledEvent = "Untitled Event"

var datetimeAttrPattern = regexp.MustCompile(`(?i)datetime="([^"]+)"`)

// EventData is the best-effort result of parsing an event page. Timestamps are
// kept as found on the page; callers decide how to interpret them.
type EventData struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	StartAt     string `json:"startAt,omitempty"`
	EndAt       string `json:"endAt,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
	Location    string `json:"location,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	SourceURL   string `json:"sourceUrl"`
}

// Parse extracts event data from an HTML page. Each field takes the first
// non-empty value from, in order: the JSON-LD Event node, Open Graph tags,
// plain meta tags, and finally a placeholder or default.
func Parse(doc, sourceURL, defaultTimezone string) *EventData {
	ld := structuredData(doc)

	data := &EventData{SourceURL: sourceURL}
	data.Title = firstNonEmpty(
		ld.Title,
		ExtractMetaContent(doc, `property="og:title"`),
		ExtractMetaContent(doc, `name="title"`),
		UntitledEvent,
	)
	data.Description = firstNonEmpty(
		ld.Description,
		ExtractMetaContent(doc, `property="og:description"`),
		ExtractMetaContent(doc, `name="description"`),
	)
	data.ImageURL = firstNonEmpty(
		ld.ImageURL,
		ExtractMetaContent(doc, `property="og:image"`),
	)
	data.StartAt = firstNonEmpty(ld.StartAt, scanDatetime(doc))
	data.EndAt = ld.EndAt
	data.Location = ld.Location
	data.Timezone = firstNonEmpty(ld.Timezone, defaultTimezone)

	return data
}

// structuredData reads the first JSON-LD script block. A missing block, invalid
// JSON or a non-Event node all yield empty data.
func structuredData(doc string) *EventData {
	empty := &EventData{}

	d, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		return empty
	}

	script := d.Find(`script[type="application/ld+json"]`).First()
	if script.Length() == 0 {
		return empty
	}

	node := findEventNode(script.Text())
	if node == nil {
		return empty
	}

	return &EventData{
		Title:       stringValue(node["name"]),
		Description: stringValue(node["description"]),
		StartAt:     stringValue(node["startDate"]),
		EndAt:       stringValue(node["endDate"]),
		ImageURL:    imageValue(node["image"]),
		Location:    locationValue(node["location"]),
	}
}

// findEventNode returns the Event-typed object of a JSON-LD payload: the first
// matching element of an array or of an @graph, or the object itself.
func findEventNode(payload string) map[string]any {
	var parsed any
	if err := json.Unmarshal([]byte(strings.TrimSpace(payload)), &parsed); err != nil {
		return nil
	}
	return eventNode(parsed)
}

func eventNode(v any) map[string]any {
	switch v := v.(type) {
	case []any:
		for _, item := range v {
			if node := eventNode(item); node != nil {
				return node
			}
		}
	case map[string]any:
		if isEventType(v["@type"]) {
			return v
		}
		if graph, ok := v["@graph"]; ok {
			return eventNode(graph)
		}
	}
	return nil
}

func isEventType(v any) bool {
	switch t := v.(type) {
	case string:
		return t == "Event"
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && s == "Event" {
				return true
			}
		}
	}
	return false
}

// locationValue handles "Venue" or {"name": "Venue", "address": {"streetAddress": "..."}}
func locationValue(v any) string {
	switch loc := v.(type) {
	case string:
		return strings.TrimSpace(loc)
	case map[string]any:
		name := stringValue(loc["name"])
		if name == "" {
			return ""
		}
		var street string
		switch addr := loc["address"].(type) {
		case map[string]any:
			street = stringValue(addr["streetAddress"])
		case string:
			street = strings.TrimSpace(addr)
		}
		if street != "" && street != name {
			return name + ", " + street
		}
		return name
	}
	return ""
}

// imageValue handles a URL, a list of URLs (first wins) or an ImageObject.
func imageValue(v any) string {
	switch img := v.(type) {
	case string:
		return strings.TrimSpace(img)
	case []any:
		for _, item := range img {
			if s := imageValue(item); s != "" {
				return s
			}
		}
	case map[string]any:
		return stringValue(img["url"])
	}
	return ""
}

func stringValue(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// scanDatetime is the last resort for a start time: the first datetime="..."
// attribute anywhere in the document.
func scanDatetime(doc string) string {
	if m := datetimeAttrPattern.FindStringSubmatch(doc); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

package event

import (
	"net/url"
	"strings"
)

// Collection is the persisted document: {"events": [...]}
type Collection struct {
	Events    []*Event `json:"events"`
	UpdatedAt string   `json:"updatedAt,omitempty"` // RFC3339 timestamp of the last write
}

// NewCollection creates an empty collection
func NewCollection() *Collection {
	return &Collection{Events: make([]*Event, 0)}
}

// Get returns the event with the given ID, or nil.
func (c *Collection) Get(id string) *Event {
	for _, evt := range c.Events {
		if evt.ID == id {
			return evt
		}
	}
	return nil
}

// Add appends an event to the collection
func (c *Collection) Add(evt *Event) {
	c.Events = append(c.Events, evt)
}

// Remove deletes the event with the given ID and reports whether it was present.
// Other events keep their order and values.
func (c *Collection) Remove(id string) bool {
	for i, evt := range c.Events {
		if evt.ID == id {
			c.Events = append(c.Events[:i:i], c.Events[i+1:]...)
			return true
		}
	}
	return false
}

// FindDuplicate returns the first stored event that shares candidate's non-empty
// source URL or its exact title.
func (c *Collection) FindDuplicate(candidate *Event) *Event {
	source := NormalizeSourceURL(candidate.SourceURL)
	for _, evt := range c.Events {
		if source != "" && NormalizeSourceURL(evt.SourceURL) == source {
			return evt
		}
		if evt.Title == candidate.Title {
			return evt
		}
	}
	return nil
}

// NormalizeSourceURL reduces a URL to a comparison key: lowercase host without
// "www.", no query or fragment, no trailing slash.
func NormalizeSourceURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return strings.TrimSuffix(raw, "/")
	}
	return CanonicalHost(u.Host) + strings.TrimSuffix(u.EscapedPath(), "/")
}

// hostAliases maps equivalent hosts of a source site to the one serving the
// rendered event page.
var hostAliases = map[string]string{
	"lu.ma": "luma.com",
}

// CanonicalHost lowercases host, drops a leading "www." and resolves known aliases.
func CanonicalHost(host string) string {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	if canonical, ok := hostAliases[host]; ok {
		return canonical
	}
	return host
}

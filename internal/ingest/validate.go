package ingest

import (
	"net/url"
	"strings"

	"github.com/pfrederiksen/chapter-events/internal/event"
)

// validateSourceURL checks that raw is an http(s) URL on an allowed host that
// names an event page, and returns it trimmed.
func (s *Service) validateSourceURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", validationError("sourceUrl is required")
	}

	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", validationError("sourceUrl must be an absolute http(s) URL")
	}
	if !s.allowedHosts[event.CanonicalHost(u.Hostname())] {
		return "", validationError("sourceUrl must be a %s event link", strings.Join(s.hostNames, " or "))
	}
	if strings.Trim(u.Path, "/") == "" {
		return "", validationError("sourceUrl must point to an event page")
	}
	return raw, nil
}

// parseType defaults an empty tag to def and rejects unknown tags
func parseType(raw string, def event.Type) (event.Type, error) {
	if strings.TrimSpace(raw) == "" {
		return def, nil
	}
	t, ok := event.ParseType(raw)
	if !ok {
		return "", validationError("unknown event type %q", raw)
	}
	return t, nil
}

// optionalHTTPURL accepts an empty value or an absolute http(s) URL
func optionalHTTPURL(field, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", validationError("%s must be an absolute http(s) URL", field)
	}
	return raw, nil
}

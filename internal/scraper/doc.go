// Package scraper provides HTTP fetching and HTML parsing for third-party event pages.
//
// The scraper package fetches a single event page (lu.ma / luma.com by default) and
// extracts best-effort event metadata. Extraction is layered: an embedded JSON-LD
// Event node first, then Open Graph tags, then plain meta tags, then a raw
// datetime attribute scan. Parsing never fails; at worst it yields a placeholder
// title. Only fetching can fail, with a typed FetchError.
package scraper

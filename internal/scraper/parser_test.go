package scraper

import (
	"strings"
	"testing"
)

const lumaPage = `<!DOCTYPE html>
<html>
<head>
<meta property="og:title" content="Bar">
<meta property="og:description" content="OG description">
<meta property="og:image" content="https://img.example.com/og.png">
<script type="application/ld+json">
[
  {"@type": "Organization", "name": "AI Collective"},
  {
    "@context": "https://schema.org",
    "@type": "Event",
    "name": "Foo",
    "description": "Structured description",
    "startDate": "2026-04-02T17:30:00.000-07:00",
    "endDate": "2026-04-02T20:00:00.000-07:00",
    "image": ["https://img.example.com/1.png", "https://img.example.com/2.png"],
    "location": {
      "@type": "Place",
      "name": "Amazon Spheres",
      "address": {"@type": "PostalAddress", "streetAddress": "2111 7th Ave"}
    }
  }
]
</script>
</head>
<body><time datetime="2020-01-01T00:00:00Z">ignored</time></body>
</html>`

func TestParse_JSONLDPrecedence(t *testing.T) {
	data := Parse(lumaPage, "https://luma.com/foo", "America/Los_Angeles")

	if data.Title != "Foo" {
		t.Errorf("Title = %q, want Foo", data.Title)
	}
	if data.Description != "Structured description" {
		t.Errorf("Description = %q", data.Description)
	}
	if data.StartAt != "2026-04-02T17:30:00.000-07:00" {
		t.Errorf("StartAt = %q", data.StartAt)
	}
	if data.EndAt != "2026-04-02T20:00:00.000-07:00" {
		t.Errorf("EndAt = %q", data.EndAt)
	}
	if data.ImageURL != "https://img.example.com/1.png" {
		t.Errorf("ImageURL = %q, want first list element", data.ImageURL)
	}
	if data.Location != "Amazon Spheres, 2111 7th Ave" {
		t.Errorf("Location = %q", data.Location)
	}
	if data.Timezone != "America/Los_Angeles" {
		t.Errorf("Timezone = %q", data.Timezone)
	}
	if data.SourceURL != "https://luma.com/foo" {
		t.Errorf("SourceURL = %q", data.SourceURL)
	}
}

func TestParse_MetaFallbackOrdering(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "og:title only",
			html: `<meta property="og:title" content="OG Title"><meta name="title" content="Meta Title">`,
			want: "OG Title",
		},
		{
			name: "name=title when og:title absent",
			html: `<meta name="title" content="Meta Title">`,
			want: "Meta Title",
		},
		{
			name: "placeholder when both absent",
			html: `<html><head><title>ignored</title></head></html>`,
			want: UntitledEvent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := Parse(tt.html, "https://luma.com/x", "UTC")
			if data.Title != tt.want {
				t.Errorf("Title = %q, want %q", data.Title, tt.want)
			}
		})
	}
}

func TestParse_MalformedJSONLD(t *testing.T) {
	html := `<head>
<script type="application/ld+json">{"@type": "Event", "name": "Broken",</script>
<meta property="og:title" content="Fallback Title">
<meta name="description" content="Plain description">
</head>
<body><time datetime="2026-07-01T18:00:00-07:00">July 1</time></body>`

	data := Parse(html, "https://luma.com/broken", "America/Los_Angeles")

	if data.Title != "Fallback Title" {
		t.Errorf("Title = %q, want og:title fallback", data.Title)
	}
	if data.Description != "Plain description" {
		t.Errorf("Description = %q, want name=description fallback", data.Description)
	}
	if data.StartAt != "2026-07-01T18:00:00-07:00" {
		t.Errorf("StartAt = %q, want datetime attribute scan", data.StartAt)
	}
}

func TestParse_SingleObject(t *testing.T) {
	tests := []struct {
		name         string
		jsonLD       string
		wantTitle    string
		wantLocation string
		wantImage    string
	}{
		{
			name:         "event object with string location",
			jsonLD:       `{"@type": "Event", "name": "Workshop", "location": "Online", "image": "https://img.example.com/w.png"}`,
			wantTitle:    "Workshop",
			wantLocation: "Online",
			wantImage:    "https://img.example.com/w.png",
		},
		{
			name:         "type list containing Event",
			jsonLD:       `{"@type": ["Event", "SocialEvent"], "name": "Social", "location": {"name": "Pier 66"}}`,
			wantTitle:    "Social",
			wantLocation: "Pier 66",
		},
		{
			name:      "image object",
			jsonLD:    `{"@type": "Event", "name": "Forum", "image": {"@type": "ImageObject", "url": "https://img.example.com/f.png"}}`,
			wantTitle: "Forum",
			wantImage: "https://img.example.com/f.png",
		},
		{
			name:      "non-event object ignored",
			jsonLD:    `{"@type": "Organization", "name": "Not An Event"}`,
			wantTitle: "OG",
		},
		{
			name:      "array without event ignored",
			jsonLD:    `[{"@type": "WebPage", "name": "Page"}]`,
			wantTitle: "OG",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := `<meta property="og:title" content="OG"><script type="application/ld+json">` + tt.jsonLD + `</script>`
			data := Parse(html, "https://luma.com/x", "UTC")

			if data.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", data.Title, tt.wantTitle)
			}
			if data.Location != tt.wantLocation {
				t.Errorf("Location = %q, want %q", data.Location, tt.wantLocation)
			}
			if data.ImageURL != tt.wantImage {
				t.Errorf("ImageURL = %q, want %q", data.ImageURL, tt.wantImage)
			}
		})
	}
}

func TestParse_Graph(t *testing.T) {
	html := `<script type="application/ld+json">
{
  "@context": "https://schema.org",
  "@graph": [
    {"@type": "WebPage", "name": "Page"},
    {"@type": ["Event", "SocialEvent"], "name": "Graph Meetup", "startDate": "2026-05-01T18:00:00Z", "location": "Pioneer Square"}
  ]
}
</script>`

	data := Parse(html, "https://lu.ma/graph", "UTC")

	if data.Title != "Graph Meetup" {
		t.Errorf("Title = %q, want Graph Meetup", data.Title)
	}
	if data.StartAt != "2026-05-01T18:00:00Z" {
		t.Errorf("StartAt = %q", data.StartAt)
	}
	if data.Location != "Pioneer Square" {
		t.Errorf("Location = %q", data.Location)
	}
}

func TestParse_OnlyFirstJSONLDBlock(t *testing.T) {
	html := `<script type="application/ld+json">{"@type": "WebSite", "name": "Site"}</script>
<script type="application/ld+json">{"@type": "Event", "name": "Second Block"}</script>`

	data := Parse(html, "https://luma.com/x", "UTC")
	if data.Title != UntitledEvent {
		t.Errorf("Title = %q, want placeholder (second block must not be read)", data.Title)
	}
}

func TestParse_NothingFound(t *testing.T) {
	data := Parse(strings.Repeat("<p>no metadata</p>", 10), "https://luma.com/empty", "America/Los_Angeles")

	if data.Title != UntitledEvent {
		t.Errorf("Title = %q, want %q", data.Title, UntitledEvent)
	}
	if data.StartAt != "" {
		t.Errorf("StartAt = %q, want empty", data.StartAt)
	}
	if data.Timezone != "America/Los_Angeles" {
		t.Errorf("Timezone = %q, want default", data.Timezone)
	}
}

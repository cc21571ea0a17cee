package scraper

import "testing"

func TestExtractMetaContent(t *testing.T) {
	tests := []struct {
		name      string
		html      string
		attribute string
		want      string
	}{
		{
			name:      "attribute before content",
			html:      `<head><meta property="og:title" content="Seattle AI Summit"></head>`,
			attribute: `property="og:title"`,
			want:      "Seattle AI Summit",
		},
		{
			name:      "content before attribute",
			html:      `<head><meta content="Demo Night" property="og:title" /></head>`,
			attribute: `property="og:title"`,
			want:      "Demo Night",
		},
		{
			name:      "case-insensitive tag",
			html:      `<META NAME="description" CONTENT="Talks and pizza">`,
			attribute: `name="description"`,
			want:      "Talks and pizza",
		},
		{
			name:      "first match wins",
			html:      `<meta name="title" content="One"><meta name="title" content="Two">`,
			attribute: `name="title"`,
			want:      "One",
		},
		{
			name:      "entities are decoded",
			html:      `<meta property="og:title" content="Agents &amp; Evals">`,
			attribute: `property="og:title"`,
			want:      "Agents & Evals",
		},
		{
			name:      "no match",
			html:      `<meta property="og:image" content="https://img.example.com/a.png">`,
			attribute: `property="og:title"`,
			want:      "",
		},
		{
			name:      "empty document",
			html:      "",
			attribute: `name="title"`,
			want:      "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractMetaContent(tt.html, tt.attribute); got != tt.want {
				t.Errorf("ExtractMetaContent() = %q, want %q", got, tt.want)
			}
		})
	}
}

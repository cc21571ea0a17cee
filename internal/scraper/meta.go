package scraper

import (
	"html"
	"regexp"
	"sync"
)

var metaPatterns sync.Map // attribute -> [2]*regexp.Regexp

// ExtractMetaContent returns the content of the first <meta> tag carrying
// attribute (for example `property="og:title"`), accepting the attribute either
// before or after content="...". Returns "" when no tag matches.
func ExtractMetaContent(doc, attribute string) string {
	for _, re := range metaRegexps(attribute) {
		if m := re.FindStringSubmatch(doc); m != nil {
			return html.UnescapeString(m[1])
		}
	}
	return ""
}

func metaRegexps(attribute string) [2]*regexp.Regexp {
	if cached, ok := metaPatterns.Load(attribute); ok {
		return cached.([2]*regexp.Regexp)
	}
	quoted := regexp.QuoteMeta(attribute)
	pair := [2]*regexp.Regexp{
		regexp.MustCompile(`(?i)<meta[^>]*` + quoted + `[^>]*content="([^"]*)"`),
		regexp.MustCompile(`(?i)<meta[^>]*content="([^"]*)"[^>]*` + quoted),
	}
	metaPatterns.Store(attribute, pair)
	return pair
}

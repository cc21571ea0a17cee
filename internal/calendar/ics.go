// Package calendar renders events as RFC 5545 iCalendar documents.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/chapter-events/internal/event"
)

const (
	prodID    = "-//Chapter Events//chapter-events//EN"
	uidDomain = "chapter-events"

	// DefaultDuration is used for events without an end time.
	DefaultDuration = 2 * time.Hour
	// DefaultCalendarName names the feed when no name is given.
	DefaultCalendarName = "Chapter Events"

	maxLineOctets = 75
)

// GenerateICS generates an iCalendar (.ics) file for a single event
func GenerateICS(evt *event.Event, now time.Time) string {
	var ics strings.Builder
	writeHeader(&ics, "")
	writeEvent(&ics, evt, now)
	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String()
}

// GenerateBulkICS generates one calendar holding every event
func GenerateBulkICS(events []*event.Event, calendarName string, now time.Time) string {
	if calendarName == "" {
		calendarName = DefaultCalendarName
	}

	var ics strings.Builder
	writeHeader(&ics, calendarName)
	for _, evt := range events {
		writeEvent(&ics, evt, now)
	}
	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String()
}

func writeHeader(ics *strings.Builder, calendarName string) {
	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:" + prodID + "\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")
	if calendarName != "" {
		writeLine(ics, "X-WR-CALNAME:"+escapeICS(calendarName))
		writeLine(ics, "X-WR-TIMEZONE:"+event.DefaultTimezone)
	}
}

func writeEvent(ics *strings.Builder, evt *event.Event, now time.Time) {
	ics.WriteString("BEGIN:VEVENT\r\n")
	writeLine(ics, fmt.Sprintf("UID:%s@%s", evt.ID, uidDomain))
	ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", formatICSTime(now)))

	end := evt.StartAt.Add(DefaultDuration)
	if evt.EndAt != nil {
		end = *evt.EndAt
	}
	ics.WriteString(fmt.Sprintf("DTSTART:%s\r\n", formatICSTime(evt.StartAt)))
	ics.WriteString(fmt.Sprintf("DTEND:%s\r\n", formatICSTime(end)))

	writeLine(ics, "SUMMARY:"+escapeICS(evt.Title))

	description := evt.Description
	if evt.SourceURL != "" {
		if description != "" {
			description += "\n\n"
		}
		description += "Details: " + evt.SourceURL
	}
	if description != "" {
		writeLine(ics, "DESCRIPTION:"+escapeICS(description))
	}
	if evt.Location != "" {
		writeLine(ics, "LOCATION:"+escapeICS(evt.Location))
	}
	if evt.SourceURL != "" {
		writeLine(ics, "URL:"+evt.SourceURL)
	}
	if evt.Type != "" {
		writeLine(ics, "CATEGORIES:"+escapeICS(string(evt.Type)))
	}

	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("SEQUENCE:0\r\n")
	ics.WriteString("TRANSP:OPAQUE\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

// writeLine folds content lines longer than 75 octets without splitting a
// UTF-8 sequence.
func writeLine(ics *strings.Builder, line string) {
	limit := maxLineOctets
	for len(line) > limit {
		cut := limit
		for cut > 0 && !isRuneStart(line[cut]) {
			cut--
		}
		ics.WriteString(line[:cut])
		ics.WriteString("\r\n ")
		line = line[cut:]
		// continuation lines lose one octet to the leading space
		limit = maxLineOctets - 1
	}
	ics.WriteString(line)
	ics.WriteString("\r\n")
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

package util

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	calendarBaseURL = "https://calendar.google.com/calendar/render"

	// DefaultMeetingDuration is the meeting length, in minutes, used for follow-up invites
	DefaultMeetingDuration = 60
)

// BuildCalendarLink returns a Google Calendar "create event" URL prefilled with
// title, description and duration. Duration is passed through as given.
func BuildCalendarLink(title, description string, durationMinutes int) string {
	var b strings.Builder
	b.WriteString(calendarBaseURL)
	b.WriteString("?action=TEMPLATE")
	b.WriteString("&text=")
	b.WriteString(escapeQuery(title))
	b.WriteString("&details=")
	b.WriteString(escapeQuery(description))
	b.WriteString("&duration=")
	b.WriteString(strconv.Itoa(durationMinutes))
	return b.String()
}

// escapeQuery percent-encodes s for a query value, encoding spaces as %20.
// A literal '+' is already escaped to %2B by QueryEscape.
func escapeQuery(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

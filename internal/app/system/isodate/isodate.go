// Package isodate parses and formats the ISO-8601 timestamp strings used
// by the announcements API.
//
// Announcement dates are persisted verbatim as strings and the active
// window is evaluated by lexicographic comparison against a "now" stamp,
// so parsing is only needed for validation (expiration in the future,
// start before expiration). Inputs may carry a numeric UTC offset, a
// trailing "Z" designator, or no offset at all; naive timestamps are
// interpreted in server-local time.
package isodate

import (
	"fmt"
	"strings"
	"time"
)

// Stamp is the layout for server-generated timestamps (created_at,
// updated_at, and the "now" bound of the active-window query). The
// fractional part is zero-padded so stamps compare correctly as strings.
const Stamp = "2006-01-02T15:04:05.000000"

// Layouts with a numeric offset. A trailing "Z" is rewritten to "+00:00"
// before these are tried.
var offsetLayouts = []string{
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02T15:04-07:00",
}

// Layouts without an offset, interpreted in local time.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Parse converts an ISO-8601 string to a time.Time. A trailing UTC "Z"
// designator is treated as equivalent to a "+00:00" numeric offset.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}
	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("not a recognized ISO-8601 timestamp: %q", s)
}

// FormatStamp renders t in the Stamp layout (local time, no offset).
func FormatStamp(t time.Time) string {
	return t.Format(Stamp)
}

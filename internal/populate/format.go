package populate

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Sentinels rendered in place of missing data.
const (
	NotAvailable  = "N/A"
	ToBeAnnounced = "TBA"
)

var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	dateLayout,
}

const dateLayout = "2006-01-02"

var clockLayouts = []string{"15:04:05", "15:04"}

// FormatDateTime renders an ISO-8601 date or date-time as "2006-01-02 03:04 PM".
// Empty input renders as TBA; anything unparseable is returned unchanged.
func FormatDateTime(s string) string {
	if s == "" {
		return ToBeAnnounced
	}
	if t, _, ok := ParseDateTime(s, time.UTC); ok {
		return t.Format("2006-01-02 03:04 PM")
	}
	return s
}

// ParseDateTime parses the ISO-8601 forms FormatDateTime accepts. Values
// without an offset are read in loc. dateOnly reports a bare YYYY-MM-DD.
func ParseDateTime(s string, loc *time.Location) (t time.Time, dateOnly bool, ok bool) {
	v := strings.TrimSpace(s)
	for _, layout := range isoLayouts {
		if parsed, err := time.ParseInLocation(layout, v, loc); err == nil {
			return parsed, layout == dateLayout, true
		}
	}
	return time.Time{}, false, false
}

// FormatMeetingTime renders a 24-hour start/end pair as "03:30 PM - 04:50 PM".
// If either side is missing it renders TBA; if either fails to parse the raw
// values are joined with a hyphen.
func FormatMeetingTime(start, end string) string {
	if start == "" || end == "" {
		return ToBeAnnounced
	}
	s, okStart := ParseClock(start)
	e, okEnd := ParseClock(end)
	if !okStart || !okEnd {
		return start + " - " + end
	}
	return s.Format("03:04 PM") + " - " + e.Format("03:04 PM")
}

// ParseClock parses a 24-hour "15:04:05" or "15:04" time of day.
func ParseClock(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDay title-cases a day name ("tuesday" -> "Tuesday").
func FormatDay(day string) string {
	day = strings.TrimSpace(day)
	if day == "" {
		return NotAvailable
	}
	// Casers keep state between calls, so each call gets its own.
	return cases.Title(language.English).String(day)
}

var cellReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "|", "/")

// cell normalizes a value for use inside a single markdown table cell.
func cell(s string) string {
	s = strings.TrimSpace(cellReplacer.Replace(s))
	if s == "" {
		return NotAvailable
	}
	return s
}

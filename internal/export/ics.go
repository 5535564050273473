package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/dgallion1/syllaboss/internal/course"
	"github.com/dgallion1/syllaboss/internal/populate"
)

// ICS writes homework due dates and important dates as calendar events.
// Entries whose dates cannot be parsed are skipped. Times without an offset
// are read in loc. It returns the number of events written.
func ICS(w io.Writer, rec *course.Record, loc *time.Location, now time.Time) (int, error) {
	if loc == nil {
		loc = time.Local
	}
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//syllaboss//course calendar//EN")
	cal.SetXWRCalName(rec.PageTitle())

	code := rec.Info.Code
	n := 0
	for i, hw := range rec.Info.Homework {
		due, dateOnly, ok := populate.ParseDateTime(hw.DueDate, loc)
		if !ok {
			continue
		}
		event := cal.AddEvent(eventID("hw", i, due))
		stamp(event, now)
		event.SetSummary(summary(code, "Due: "+hw.Name))
		if dateOnly {
			event.SetAllDayStartAt(due)
			event.SetAllDayEndAt(due.AddDate(0, 0, 1))
		} else {
			event.SetStartAt(due)
			event.SetEndAt(due)
		}
		if hw.Links != "" {
			event.SetDescription(hw.Links)
		}
		n++
	}

	for i, d := range rec.Info.ImportantDates {
		day, _, ok := populate.ParseDateTime(d.Date, loc)
		if !ok {
			continue
		}
		event := cal.AddEvent(eventID("date", i, day))
		stamp(event, now)
		event.SetSummary(summary(code, d.Name))

		start, okStart := populate.ParseClock(d.StartTime)
		end, okEnd := populate.ParseClock(d.EndTime)
		if okStart && okEnd {
			event.SetStartAt(atClock(day, start, loc))
			event.SetEndAt(atClock(day, end, loc))
		} else {
			event.SetAllDayStartAt(day)
			event.SetAllDayEndAt(day.AddDate(0, 0, 1))
		}
		if where := firstNonEmpty(d.Location, d.Notes); where != "" {
			event.SetLocation(where)
		}
		n++
	}

	if err := cal.SerializeTo(w); err != nil {
		return 0, fmt.Errorf("write ics: %w", err)
	}
	return n, nil
}

func stamp(event *ics.VEvent, now time.Time) {
	event.SetCreatedTime(now)
	event.SetDtStampTime(now)
}

func eventID(kind string, i int, t time.Time) string {
	return fmt.Sprintf("%s-%d-%s@syllaboss", kind, i, t.UTC().Format("20060102T150405Z"))
}

func summary(code, name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Untitled"
	}
	if code == "" {
		return name
	}
	return code + ": " + name
}

func atClock(day, clock time.Time, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), clock.Second(), 0, loc)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

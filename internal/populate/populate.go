package populate

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dgallion1/syllaboss/internal/course"
)

// EmptySectionPolicy controls what happens to a placeholder row whose
// section has no data.
type EmptySectionPolicy string

const (
	// KeepPlaceholder leaves the sample placeholder row in the output.
	KeepPlaceholder EmptySectionPolicy = "keep"
	// RemovePlaceholder drops the placeholder row.
	RemovePlaceholder EmptySectionPolicy = "remove"
	// FillNA replaces the placeholder row with a single row of N/A cells.
	FillNA EmptySectionPolicy = "na"
)

// ParsePolicy maps a configuration string to a policy.
func ParsePolicy(s string) (EmptySectionPolicy, error) {
	switch p := EmptySectionPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "", KeepPlaceholder:
		return KeepPlaceholder, nil
	case RemovePlaceholder, FillNA:
		return p, nil
	}
	return "", fmt.Errorf("unknown empty section policy %q", s)
}

// Options tune a single Populate call.
type Options struct {
	EmptySection EmptySectionPolicy
}

const (
	tokenOpen  = "<placeholder-"
	tokenClose = ">"
)

// section describes one repeatable table: the placeholder names that make up
// its pattern row, in column order, and how to render a record into rows.
type section struct {
	name   string
	tokens []string
	rows   func(info *course.Info) [][]string
}

var sections = []section{
	{
		name:   "meetings",
		tokens: []string{"class-time-type", "class-time-lead", "class-time-date", "class-time-time", "class-time-location"},
		rows:   meetingRows,
	},
	{
		name:   "homework",
		tokens: []string{"assignment-name", "assignment-due-date", "assignment-due-link"},
		rows:   homeworkRows,
	},
	{
		name:   "important-dates",
		tokens: []string{"important-dates-name", "important-dates-date", "important-dates-location"},
		rows:   importantDateRows,
	},
	{
		name:   "contacts",
		tokens: []string{"contacts-name", "contacts-position", "contacts-email"},
		rows:   contactRows,
	},
	{
		name:   "resources",
		tokens: []string{"link-name", "link-link"},
		rows:   resourceRows,
	},
}

// Populate fills a template with data from rec.
//
// The template is scanned once, line by line. A line whose cells are exactly
// one section's placeholder tokens is replaced by one row per list entry.
// Every other line has its scalar tokens substituted in a single
// left-to-right pass; substituted text is never rescanned, and unknown tokens
// are copied through.
func Populate(rec *course.Record, template string, opts Options) string {
	if rec == nil {
		rec = &course.Record{}
	}
	scalars := scalarValues(&rec.Info)

	var out strings.Builder
	out.Grow(len(template))

	for _, line := range strings.SplitAfter(template, "\n") {
		if line == "" {
			continue
		}
		content := strings.TrimRight(line, "\r\n")
		ending := line[len(content):]

		sec, ok := matchSection(content)
		if !ok {
			out.WriteString(substituteScalars(content, scalars))
			out.WriteString(ending)
			continue
		}

		rows := sec.rows(&rec.Info)
		if len(rows) == 0 {
			switch opts.EmptySection {
			case RemovePlaceholder:
				continue
			case FillNA:
				na := make([]string, len(sec.tokens))
				for i := range na {
					na[i] = NotAvailable
				}
				out.WriteString(formatRow(na))
			default:
				out.WriteString(content)
			}
			out.WriteString(ending)
			continue
		}

		for i, row := range rows {
			if i > 0 {
				out.WriteString("\n")
			}
			out.WriteString(formatRow(row))
		}
		out.WriteString(ending)
	}
	return out.String()
}

// matchSection reports which section, if any, the line is the placeholder row for.
func matchSection(line string) (section, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "|") || !strings.HasSuffix(trimmed, "|") || len(trimmed) < 2 {
		return section{}, false
	}
	parts := strings.Split(trimmed[1:len(trimmed)-1], "|")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		name, ok := tokenName(strings.TrimSpace(p))
		if !ok {
			return section{}, false
		}
		names = append(names, name)
	}
	for _, sec := range sections {
		if slices.Equal(names, sec.tokens) {
			return sec, true
		}
	}
	return section{}, false
}

// PlaceholderSections lists the repeatable sections that have a placeholder
// row in template, in the order they appear.
func PlaceholderSections(template string) []string {
	var found []string
	for _, line := range strings.Split(template, "\n") {
		if sec, ok := matchSection(strings.TrimRight(line, "\r")); ok && !slices.Contains(found, sec.name) {
			found = append(found, sec.name)
		}
	}
	return found
}

// tokenName returns NAME for a cell that is exactly "<placeholder-NAME>".
func tokenName(s string) (string, bool) {
	if !strings.HasPrefix(s, tokenOpen) || !strings.HasSuffix(s, tokenClose) {
		return "", false
	}
	name := s[len(tokenOpen) : len(s)-len(tokenClose)]
	if name == "" || strings.ContainsAny(name, "<>") {
		return "", false
	}
	return name, true
}

func substituteScalars(line string, scalars map[string]string) string {
	if !strings.Contains(line, tokenOpen) {
		return line
	}
	var b strings.Builder
	rest := line
	for {
		i := strings.Index(rest, tokenOpen)
		if i < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:i])
		rest = rest[i:]
		j := strings.Index(rest[len(tokenOpen):], tokenClose)
		if j < 0 {
			b.WriteString(rest)
			break
		}
		end := len(tokenOpen) + j + len(tokenClose)
		token := rest[:end]
		if v, ok := scalars[token[len(tokenOpen):len(token)-len(tokenClose)]]; ok {
			b.WriteString(v)
		} else {
			b.WriteString(token)
		}
		rest = rest[end:]
	}
	return b.String()
}

func scalarValues(info *course.Info) map[string]string {
	return map[string]string{
		"course-code":     orNA(info.Code),
		"course-name":     orNA(info.Title),
		"course-location": orNA(info.Location),
	}
}

func formatRow(cells []string) string {
	return "| " + strings.Join(cells, " | ") + " |"
}

func meetingRows(info *course.Info) [][]string {
	rows := make([][]string, 0, len(info.Meetings))
	for _, m := range info.Meetings {
		rows = append(rows, []string{
			cell(m.Type),
			cell(m.Lead),
			cell(FormatDay(m.Day)),
			cell(FormatMeetingTime(m.StartTime, m.EndTime)),
			cell(m.Location),
		})
	}
	return rows
}

func homeworkRows(info *course.Info) [][]string {
	rows := make([][]string, 0, len(info.Homework))
	for _, hw := range info.Homework {
		rows = append(rows, []string{
			cell(hw.Name),
			cell(FormatDateTime(hw.DueDate)),
			cell(hw.Links),
		})
	}
	return rows
}

func importantDateRows(info *course.Info) [][]string {
	rows := make([][]string, 0, len(info.ImportantDates))
	for _, d := range info.ImportantDates {
		when := firstNonEmpty(d.Date, d.Day)
		switch {
		case when == "":
			when = NotAvailable
		case strings.Contains(when, "T"):
			when = FormatDateTime(when)
		}
		rows = append(rows, []string{
			cell(d.Name),
			cell(when),
			cell(firstNonEmpty(d.Location, d.Notes)),
		})
	}
	return rows
}

func contactRows(info *course.Info) [][]string {
	rows := make([][]string, 0, len(info.Contacts))
	for _, c := range info.Contacts {
		rows = append(rows, []string{cell(c.Name), cell(c.Position), cell(c.Email)})
	}
	return rows
}

func resourceRows(info *course.Info) [][]string {
	rows := make([][]string, 0, len(info.Resources))
	for _, r := range info.Resources {
		rows = append(rows, []string{cell(r.Name), cell(r.Link)})
	}
	return rows
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

package blocks

import (
	"errors"
	"regexp"
	"strings"
)

// Kind identifies the type of a Block.
type Kind string

const (
	KindHeading   Kind = "heading"
	KindParagraph Kind = "paragraph"
	KindDivider   Kind = "divider"
	KindTable     Kind = "table"
)

// Block is one typed unit of document content. Only the fields relevant to
// Kind are set: Level and Text for headings, Text for paragraphs, Header and
// Rows for tables.
type Block struct {
	Kind   Kind       `json:"type"`
	Level  int        `json:"level,omitempty"`
	Text   string     `json:"text,omitempty"`
	Header []string   `json:"header,omitempty"`
	Rows   [][]string `json:"rows,omitempty"`
}

func Heading(level int, text string) Block { return Block{Kind: KindHeading, Level: level, Text: text} }
func Paragraph(text string) Block          { return Block{Kind: KindParagraph, Text: text} }
func Divider() Block                       { return Block{Kind: KindDivider} }

var separatorRe = regexp.MustCompile(`^\|\s*:?-{3,}`)

var errNoCells = errors.New("table row has no cells")

// Convert parses markdown into an ordered block sequence.
//
// Only headings (levels 1-3), dividers, pipe tables and plain paragraphs are
// recognized. Convert never fails: anything it does not understand becomes a
// paragraph.
func Convert(markdown string) []Block {
	lines := strings.Split(strings.ReplaceAll(markdown, "\r\n", "\n"), "\n")
	var out []Block

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "# "):
			out = append(out, Heading(1, strings.TrimSpace(line[2:])))
		case strings.HasPrefix(line, "## "):
			out = append(out, Heading(2, strings.TrimSpace(line[3:])))
		case strings.HasPrefix(line, "### "):
			out = append(out, Heading(3, strings.TrimSpace(line[4:])))
		case strings.HasPrefix(line, "|") && i+1 < len(lines) && isSeparator(lines[i+1]):
			tbl, next, ok := parseTable(lines, i)
			if ok {
				out = append(out, tbl)
			}
			i = next - 1
		case line == "---":
			out = append(out, Divider())
		default:
			out = append(out, Paragraph(line))
		}
	}
	return out
}

func isSeparator(line string) bool {
	return separatorRe.MatchString(strings.TrimSpace(line))
}

// parseTable reads a table whose header is lines[start] and whose separator
// is lines[start+1]. It returns the table, the index of the first line after
// it, and false if the header could not be split.
func parseTable(lines []string, start int) (Block, int, bool) {
	header, err := splitRow(lines[start])
	if err != nil {
		return Block{}, start + 2, false
	}
	tbl := Block{Kind: KindTable, Header: header, Rows: [][]string{}}

	i := start + 2
	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, "|") {
			break
		}
		cells, err := splitRow(line)
		if err != nil || len(cells) != len(header) {
			continue
		}
		tbl.Rows = append(tbl.Rows, cells)
	}
	return tbl, i, true
}

// splitRow splits a pipe-delimited row into trimmed cells, dropping the empty
// segments produced by the leading and trailing pipes.
func splitRow(line string) ([]string, error) {
	parts := strings.Split(strings.TrimSpace(line), "|")
	if len(parts) > 0 && strings.TrimSpace(parts[0]) == "" {
		parts = parts[1:]
	}
	if len(parts) > 0 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}
	if len(parts) == 0 {
		return nil, errNoCells
	}
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells, nil
}

// Truncate returns at most limit blocks and the number dropped. A
// non-positive limit disables the cap.
func Truncate(bs []Block, limit int) ([]Block, int) {
	if limit <= 0 || len(bs) <= limit {
		return bs, 0
	}
	return bs[:limit], len(bs) - limit
}

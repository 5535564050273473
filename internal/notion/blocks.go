package notion

import (
	"github.com/dgallion1/syllaboss/internal/blocks"
)

// maxTextLen is the longest content Notion accepts in one rich text object.
const maxTextLen = 2000

// maxTableRows bounds the table_row children of one table, header included.
const maxTableRows = 100

// Block is the wire form of a Notion block. Exactly one of the typed fields is set.
type Block struct {
	Object    string     `json:"object"`
	Type      string     `json:"type"`
	Heading1  *TextBlock `json:"heading_1,omitempty"`
	Heading2  *TextBlock `json:"heading_2,omitempty"`
	Heading3  *TextBlock `json:"heading_3,omitempty"`
	Paragraph *TextBlock `json:"paragraph,omitempty"`
	Divider   *struct{}  `json:"divider,omitempty"`
	Table     *Table     `json:"table,omitempty"`
	TableRow  *TableRow  `json:"table_row,omitempty"`
}

type TextBlock struct {
	RichText []RichText `json:"rich_text"`
}

type Table struct {
	TableWidth      int     `json:"table_width"`
	HasColumnHeader bool    `json:"has_column_header"`
	HasRowHeader    bool    `json:"has_row_header"`
	Children        []Block `json:"children"`
}

type TableRow struct {
	Cells [][]RichText `json:"cells"`
}

type RichText struct {
	Type string      `json:"type"`
	Text TextContent `json:"text"`
}

type TextContent struct {
	Content string `json:"content"`
}

// Children maps converted blocks to Notion block objects, preserving order.
func Children(bs []blocks.Block) []Block {
	out := make([]Block, 0, len(bs))
	for _, b := range bs {
		switch b.Kind {
		case blocks.KindHeading:
			tb := &TextBlock{RichText: richText(b.Text)}
			switch b.Level {
			case 1:
				out = append(out, Block{Object: "block", Type: "heading_1", Heading1: tb})
			case 2:
				out = append(out, Block{Object: "block", Type: "heading_2", Heading2: tb})
			default:
				out = append(out, Block{Object: "block", Type: "heading_3", Heading3: tb})
			}
		case blocks.KindParagraph:
			out = append(out, Block{Object: "block", Type: "paragraph", Paragraph: &TextBlock{RichText: richText(b.Text)}})
		case blocks.KindDivider:
			out = append(out, Block{Object: "block", Type: "divider", Divider: &struct{}{}})
		case blocks.KindTable:
			out = append(out, tableBlock(b))
		}
	}
	return out
}

func tableBlock(b blocks.Block) Block {
	rows := make([]Block, 0, len(b.Rows)+1)
	rows = append(rows, tableRow(b.Header))
	for _, r := range b.Rows {
		if len(rows) == maxTableRows {
			break
		}
		rows = append(rows, tableRow(r))
	}
	return Block{
		Object: "block",
		Type:   "table",
		Table: &Table{
			TableWidth:      len(b.Header),
			HasColumnHeader: true,
			Children:        rows,
		},
	}
}

func tableRow(cells []string) Block {
	row := &TableRow{Cells: make([][]RichText, len(cells))}
	for i, c := range cells {
		row.Cells[i] = richText(c)
	}
	return Block{Object: "block", Type: "table_row", TableRow: row}
}

// richText splits s into text objects no longer than maxTextLen runes.
func richText(s string) []RichText {
	out := []RichText{}
	runes := []rune(s)
	for len(runes) > 0 {
		n := min(len(runes), maxTextLen)
		out = append(out, RichText{Type: "text", Text: TextContent{Content: string(runes[:n])}})
		runes = runes[n:]
	}
	return out
}

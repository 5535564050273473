package export

import (
	"fmt"
	"io"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/syllaboss/internal/blocks"
)

// Font sizes are in half-points.
var headingSizes = map[int]string{1: "36", 2: "30", 3: "26"}

const bodySize = "22"

// DOCX writes the block sequence as a Word document.
func DOCX(w io.Writer, bs []blocks.Block) error {
	doc := docx.New().WithDefaultTheme()

	for _, b := range bs {
		switch b.Kind {
		case blocks.KindHeading:
			size, ok := headingSizes[b.Level]
			if !ok {
				size = headingSizes[3]
			}
			doc.AddParagraph().AddText(b.Text).Bold().Size(size)
		case blocks.KindParagraph:
			doc.AddParagraph().AddText(b.Text).Size(bodySize)
		case blocks.KindDivider:
			doc.AddParagraph()
		case blocks.KindTable:
			addTable(doc, b)
		}
	}

	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}

func addTable(doc *docx.Docx, b blocks.Block) {
	if len(b.Header) == 0 {
		return
	}
	tbl := doc.AddTable(len(b.Rows)+1, len(b.Header), 0, nil)
	for y, h := range b.Header {
		tbl.TableRows[0].TableCells[y].AddParagraph().AddText(h).Bold().Size(bodySize)
	}
	for x, row := range b.Rows {
		for y, c := range row {
			tbl.TableRows[x+1].TableCells[y].AddParagraph().AddText(c).Size(bodySize)
		}
	}
}

package blocks

import (
	"reflect"
	"strings"
	"testing"
)

func TestConvert_HeadingAndParagraph(t *testing.T) {
	got := Convert("# Title\n\nBody text")
	want := []Block{Heading(1, "Title"), Paragraph("Body text")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestConvert_BlankInput(t *testing.T) {
	for _, in := range []string{"", "\n\n", "   \n\t\n"} {
		if got := Convert(in); len(got) != 0 {
			t.Errorf("Convert(%q): expected no blocks, got %+v", in, got)
		}
	}
}

func TestConvert_HeadingLevels(t *testing.T) {
	got := Convert("# One\n## Two\n### Three\n#### Four\n#NoSpace")
	want := []Block{
		Heading(1, "One"),
		Heading(2, "Two"),
		Heading(3, "Three"),
		Paragraph("#### Four"),
		Paragraph("#NoSpace"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestConvert_Divider(t *testing.T) {
	got := Convert("above\n---\nbelow\n----")
	want := []Block{Paragraph("above"), Divider(), Paragraph("below"), Paragraph("----")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestConvert_TableDropsMismatchedRows(t *testing.T) {
	in := strings.Join([]string{
		"| Name | Link |",
		"| --- | --- |",
		"| Piazza | piazza.com |",
		"| broken |",
		"| too | many | cells |",
		"| Canvas | canvas.edu |",
		"after",
	}, "\n")
	got := Convert(in)
	if len(got) != 2 {
		t.Fatalf("expected table + paragraph, got %+v", got)
	}
	tbl := got[0]
	if tbl.Kind != KindTable {
		t.Fatalf("expected table block, got %q", tbl.Kind)
	}
	if len(tbl.Header) != 2 {
		t.Errorf("expected 2 header cells, got %d", len(tbl.Header))
	}
	wantRows := [][]string{{"Piazza", "piazza.com"}, {"Canvas", "canvas.edu"}}
	if !reflect.DeepEqual(tbl.Rows, wantRows) {
		t.Errorf("got rows %v, want %v", tbl.Rows, wantRows)
	}
	if !reflect.DeepEqual(got[1], Paragraph("after")) {
		t.Errorf("expected trailing paragraph, got %+v", got[1])
	}
}

func TestConvert_TableWithoutSeparatorIsParagraph(t *testing.T) {
	got := Convert("| a | b |\nnot a separator")
	want := []Block{Paragraph("| a | b |"), Paragraph("not a separator")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestConvert_SeparatorMustBeImmediatelyNext(t *testing.T) {
	got := Convert("| a | b |\n\n| --- | --- |")
	if len(got) != 2 || got[0].Kind != KindParagraph || got[1].Kind != KindParagraph {
		t.Errorf("expected two paragraphs, got %+v", got)
	}
}

func TestConvert_TableEndsAtBlankLine(t *testing.T) {
	in := "| A |\n| --- |\n| 1 |\n\n| 2 |"
	got := Convert(in)
	if len(got) != 2 {
		t.Fatalf("expected table and paragraph, got %+v", got)
	}
	if !reflect.DeepEqual(got[0].Rows, [][]string{{"1"}}) {
		t.Errorf("expected one row, got %v", got[0].Rows)
	}
	if !reflect.DeepEqual(got[1], Paragraph("| 2 |")) {
		t.Errorf("expected row after blank line to be a paragraph, got %+v", got[1])
	}
}

func TestConvert_TableAtEndOfInput(t *testing.T) {
	got := Convert("| A | B |\n|:---|---:|")
	if len(got) != 1 || got[0].Kind != KindTable {
		t.Fatalf("expected single table, got %+v", got)
	}
	if len(got[0].Rows) != 0 {
		t.Errorf("expected no rows, got %v", got[0].Rows)
	}
}

func TestConvert_EmptyHeaderSkipped(t *testing.T) {
	got := Convert("|\n| --- |\n# Next")
	want := []Block{Heading(1, "Next")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestConvert_CRLFAndIndentation(t *testing.T) {
	got := Convert("  # Title  \r\n\r\n   body  \r\n")
	want := []Block{Heading(1, "Title"), Paragraph("body")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestConvert_PopulatedDocument(t *testing.T) {
	in := `# CPSC 330: Applied ML

---

## Assignments

| Assignment | Due | Link |
| --- | --- | --- |
| Hw1 | 2025-09-09 11:59 PM | Gradescope |
| Hw2 | TBA | N/A |
`
	got := Convert(in)
	kinds := make([]Kind, len(got))
	for i, b := range got {
		kinds[i] = b.Kind
	}
	want := []Kind{KindHeading, KindDivider, KindHeading, KindTable}
	if !reflect.DeepEqual(kinds, want) {
		t.Fatalf("got kinds %v, want %v", kinds, want)
	}
	if len(got[3].Rows) != 2 {
		t.Errorf("expected 2 assignment rows, got %d", len(got[3].Rows))
	}
}

func TestSplitRow(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"| a | b |", []string{"a", "b"}},
		{"|a|b", []string{"a", "b"}},
		{"| a |  | c |", []string{"a", "", "c"}},
	}
	for _, tc := range tests {
		got, err := splitRow(tc.in)
		if err != nil {
			t.Errorf("splitRow(%q): unexpected error %v", tc.in, err)
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("splitRow(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if _, err := splitRow("|"); err == nil {
		t.Error("expected error for row with no cells")
	}
}

func TestTruncate(t *testing.T) {
	bs := make([]Block, 150)
	got, dropped := Truncate(bs, 100)
	if len(got) != 100 || dropped != 50 {
		t.Errorf("expected 100 kept / 50 dropped, got %d / %d", len(got), dropped)
	}
	got, dropped = Truncate(bs[:10], 100)
	if len(got) != 10 || dropped != 0 {
		t.Errorf("expected no truncation, got %d / %d", len(got), dropped)
	}
	got, _ = Truncate(bs, 0)
	if len(got) != 150 {
		t.Errorf("expected cap disabled, got %d", len(got))
	}
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/syllaboss/internal/blocks"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("syllaboss %s: %v\n%s", strings.Join(args, " "), err, out.String())
	}
	return out.String()
}

func TestPopulateCommand(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "info.json")
	body := `{"course-info":{"code":"MATH 101","title":"Calculus","homework":[{"name":"Hw1","due-date":"2025-09-09"}]}}`
	if err := os.WriteFile(data, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "page.md")

	execute(t, "populate", "--data", data, "--template", "basic", "--out", out, "--empty-section", "na")

	md, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(md), "MATH 101") || !strings.Contains(string(md), "Hw1") {
		t.Errorf("populated markdown missing course data:\n%s", md)
	}
}

func TestConvertCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.md")
	if err := os.WriteFile(path, []byte("# Title\n\nBody\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out := execute(t, "convert", path)
	if !strings.Contains(out, `"type": "heading"`) || !strings.Contains(out, `"text": "Body"`) {
		t.Errorf("unexpected convert output:\n%s", out)
	}
}

func TestFirstHeading(t *testing.T) {
	bs := []blocks.Block{blocks.Paragraph("intro"), blocks.Heading(2, "CPSC 330"), blocks.Heading(1, "Later")}
	if got := firstHeading(bs); got != "CPSC 330" {
		t.Errorf("firstHeading = %q", got)
	}
	if got := firstHeading(nil); got != "Course Syllabus" {
		t.Errorf("firstHeading(nil) = %q", got)
	}
}

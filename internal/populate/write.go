package populate

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgallion1/syllaboss/internal/course"
)

// WriteFile writes markdown to path, creating parent directories. The content
// lands in a temp file in the same directory first and is renamed into place,
// so readers see either the old file or the complete new one.
func WriteFile(path, markdown string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".populate-*.md")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(markdown); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}

// PopulateFile reads a JSON record and a template from disk, populates the
// template, and writes the result to outPath.
func PopulateFile(dataPath, templatePath, outPath string, opts Options) (string, error) {
	rec, err := course.LoadFile(dataPath)
	if err != nil {
		return "", err
	}
	tmpl, err := os.ReadFile(templatePath)
	if err != nil {
		return "", fmt.Errorf("%w: read template: %w", ErrTemplate, err)
	}
	md := Populate(rec, string(tmpl), opts)
	if err := WriteFile(outPath, md); err != nil {
		return "", err
	}
	return md, nil
}

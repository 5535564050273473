package course

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrDataFormat is returned when extracted data cannot be decoded into a Record.
var ErrDataFormat = errors.New("data format error")

// Record is the structured form of one syllabus, as produced by the extraction service.
type Record struct {
	Info Info `json:"course-info"`
}

// Info holds the course-level fields. Missing strings decode to "".
type Info struct {
	Code           string          `json:"code"`
	Title          string          `json:"title"`
	Location       string          `json:"location"`
	Resources      []Resource      `json:"resources"`
	Contacts       []Contact       `json:"contacts"`
	Homework       []Homework      `json:"homework"`
	Meetings       []Meeting       `json:"meetings"`
	ImportantDates []ImportantDate `json:"Important-dates"`
}

type Resource struct {
	Name string `json:"name"`
	Link string `json:"link"`
}

type Contact struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Email    string `json:"email"`
}

type Homework struct {
	Name    string `json:"name"`
	DueDate string `json:"due-date"`
	Links   string `json:"links"`
}

type Meeting struct {
	Type      string `json:"type"`
	Lead      string `json:"lead"`
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Location  string `json:"location"`
}

// ImportantDate carries both the date/location and day/notes shapes the
// extraction prompt has used over time.
type ImportantDate struct {
	Name      string `json:"name"`
	Date      string `json:"date"`
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Location  string `json:"location"`
	Notes     string `json:"notes"`
}

// PageTitle returns a human title for the course, falling back to a fixed label.
func (r *Record) PageTitle() string {
	switch {
	case r.Info.Code != "" && r.Info.Title != "":
		return r.Info.Code + " " + r.Info.Title
	case r.Info.Title != "":
		return r.Info.Title
	case r.Info.Code != "":
		return r.Info.Code
	}
	return "Course Syllabus"
}

// Decode parses extracted JSON into a Record. Any shape mismatch (for example
// a list where an object is expected) is reported as ErrDataFormat.
func Decode(data []byte) (*Record, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrDataFormat)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataFormat, err)
	}
	if _, ok := raw["course-info"]; !ok {
		return nil, fmt.Errorf("%w: missing course-info object", ErrDataFormat)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataFormat, err)
	}
	return &rec, nil
}

// LoadFile reads and decodes a JSON snapshot from disk.
func LoadFile(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}
	return Decode(data)
}

// WriteSnapshot writes the record as indented JSON, creating parent directories.
func WriteSnapshot(path string, rec *Record) error {
	data, err := json.MarshalIndent(rec, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

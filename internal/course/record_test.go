package course

import (
	"errors"
	"path/filepath"
	"testing"
)

const sampleJSON = `{
  "course-info": {
    "code": "CPSC 330",
    "title": "Applied Machine Learning",
    "location": null,
    "resources": [{"name": "Piazza", "link": "piazza.com"}],
    "contacts": [{"name": "Prof. Steph", "position": "instructor", "email": null}],
    "homework": [
      {"name": "Hw1", "due-date": "2025-09-09T23:59:00", "links": "Gradescope"},
      {"name": "Hw2", "due-date": "", "links": null}
    ],
    "meetings": [{"type": "lecture", "lead": "Prof. Steph", "day": "tuesday",
      "start_time": "15:30:00", "end_time": "16:50:00", "location": "DMP 310"}],
    "Important-dates": [{"name": "Midterm 1", "day": "tuesday", "notes": "TBA"}]
  }
}`

func TestDecode_FullRecord(t *testing.T) {
	rec, err := Decode([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Info.Code != "CPSC 330" {
		t.Errorf("expected code %q, got %q", "CPSC 330", rec.Info.Code)
	}
	if rec.Info.Location != "" {
		t.Errorf("expected null location to decode as empty, got %q", rec.Info.Location)
	}
	if len(rec.Info.Homework) != 2 {
		t.Fatalf("expected 2 homework entries, got %d", len(rec.Info.Homework))
	}
	if rec.Info.Homework[1].Links != "" {
		t.Errorf("expected null link to decode as empty, got %q", rec.Info.Homework[1].Links)
	}
	if len(rec.Info.ImportantDates) != 1 || rec.Info.ImportantDates[0].Notes != "TBA" {
		t.Errorf("expected important date notes to decode, got %+v", rec.Info.ImportantDates)
	}
}

func TestDecode_FormatErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"not json", "hello"},
		{"array root", `[1, 2]`},
		{"missing course-info", `{"course": {}}`},
		{"homework not a list", `{"course-info": {"homework": {"name": "x"}}}`},
		{"code not a string", `{"course-info": {"code": 330}}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.input))
			if !errors.Is(err, ErrDataFormat) {
				t.Errorf("expected ErrDataFormat, got %v", err)
			}
		})
	}
}

func TestPageTitle(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Code: "CPSC 330", Title: "Applied ML"}, "CPSC 330 Applied ML"},
		{Info{Title: "Applied ML"}, "Applied ML"},
		{Info{Code: "CPSC 330"}, "CPSC 330"},
		{Info{}, "Course Syllabus"},
	}
	for _, tc := range tests {
		r := &Record{Info: tc.info}
		if got := r.PageTitle(); got != tc.want {
			t.Errorf("PageTitle(%+v) = %q, want %q", tc.info, got, tc.want)
		}
	}
}

func TestWriteSnapshot_RoundTrip(t *testing.T) {
	rec, err := Decode([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	path := filepath.Join(t.TempDir(), "nested", "syllabus-info.json")
	if err := WriteSnapshot(path, rec); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if got.Info.Title != rec.Info.Title || len(got.Info.Meetings) != 1 {
		t.Errorf("snapshot did not round-trip: %+v", got.Info)
	}
}

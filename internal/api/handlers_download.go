package api

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/syllaboss/internal/blocks"
	"github.com/dgallion1/syllaboss/internal/export"
	"github.com/dgallion1/syllaboss/internal/pipeline"
)

const (
	formatMarkdown = "md"
	formatHTML     = "html"
	formatDOCX     = "docx"
	formatICS      = "ics"
	formatJSON     = "json"
)

var formats = []string{formatMarkdown, formatHTML, formatDOCX, formatICS, formatJSON}

var contentTypes = map[string]string{
	formatMarkdown: "text/markdown; charset=utf-8",
	formatHTML:     "text/html; charset=utf-8",
	formatDOCX:     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	formatICS:      "text/calendar; charset=utf-8",
	formatJSON:     "application/json",
}

func downloadName(format string) string {
	switch format {
	case formatMarkdown:
		return pipeline.MarkdownFile
	case formatJSON:
		return pipeline.SnapshotFile
	case formatICS:
		return "syllabus.ics"
	}
	return "filled-in-template." + format
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	job := s.runner.Store().Get(id)
	if job == nil {
		jsonError(w, "download not found", http.StatusNotFound)
		return
	}

	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = formatMarkdown
	}
	if _, ok := contentTypes[format]; !ok {
		jsonError(w, fmt.Sprintf("unsupported format %q", format), http.StatusBadRequest)
		return
	}

	if err := s.writeArtifact(w, job, format); err != nil {
		s.log.Error("write artifact", "request_id", id, "format", format, "error", err)
		jsonError(w, "failed to render "+format, http.StatusInternalServerError)
	}
}

// writeArtifact renders job in format and sends it as an attachment. Nothing
// is written to w on error.
func (s *Server) writeArtifact(w http.ResponseWriter, job *pipeline.Job, format string) error {
	body, err := s.render(job, format)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", downloadName(format)))
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(body)
	return err
}

func (s *Server) render(job *pipeline.Job, format string) ([]byte, error) {
	switch format {
	case formatMarkdown:
		return os.ReadFile(job.MarkdownPath())
	case formatJSON:
		return os.ReadFile(job.SnapshotPath())
	case formatHTML:
		return export.HTML(job.Record().PageTitle(), job.Markdown())
	case formatDOCX:
		var buf bytes.Buffer
		if err := export.DOCX(&buf, blocks.Convert(job.Markdown())); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case formatICS:
		var buf bytes.Buffer
		n, err := export.ICS(&buf, job.Record(), s.loc, time.Now())
		if err != nil {
			return nil, err
		}
		s.log.Debug("calendar exported", "request_id", job.ID, "events", n)
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

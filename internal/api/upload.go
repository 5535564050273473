package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/dgallion1/syllaboss/internal/course"
	"github.com/dgallion1/syllaboss/internal/extract"
	"github.com/dgallion1/syllaboss/internal/notion"
	"github.com/dgallion1/syllaboss/internal/parser"
	"github.com/dgallion1/syllaboss/internal/pipeline"
	"github.com/dgallion1/syllaboss/internal/populate"
)

const defaultTemplate = "modern"

// upload is a parsed syllabus submission.
type upload struct {
	Filename    string `json:"pdf_file"`
	Template    string `json:"template"`
	Format      string `json:"format"`
	NotionToken string `json:"notion_api_key"`
	Data        []byte `json:"file"`
}

func (u upload) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Filename, validation.Required),
		validation.Field(&u.Template, validation.Required, validation.In(anySlice(populate.Selectors())...)),
		validation.Field(&u.Format, validation.In(anySlice(formats)...)),
		validation.Field(&u.Data, validation.Required.Error("file is empty")),
	)
}

func anySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// httpError carries the status a request failure should be reported with.
type httpError struct {
	status int
	msg    string
}

func (e *httpError) Error() string { return e.msg }

// readUpload parses the multipart form shared by the HTML and JSON endpoints.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*upload, error) {
	// Extra 1MB for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1<<20)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &httpError{http.StatusRequestEntityTooLarge, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes)}
		}
		return nil, &httpError{http.StatusBadRequest, "invalid multipart form: " + err.Error()}
	}

	file, header, err := r.FormFile("pdf_file")
	if err != nil {
		return nil, &httpError{http.StatusBadRequest, "No file uploaded"}
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, &httpError{http.StatusInternalServerError, "failed to read file"}
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, &httpError{http.StatusRequestEntityTooLarge, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes)}
	}

	u := &upload{
		Filename:    sanitizeFilename(header.Filename),
		Template:    strings.ToLower(strings.TrimSpace(r.FormValue("template"))),
		Format:      strings.ToLower(strings.TrimSpace(r.FormValue("format"))),
		NotionToken: strings.TrimSpace(r.FormValue("notion_api_key")),
		Data:        data,
	}
	if u.Template == "" {
		u.Template = defaultTemplate
	}
	if u.Format == "" {
		u.Format = formatMarkdown
	}
	if !parser.IsSupportedExtension(u.Filename) {
		return nil, &httpError{http.StatusBadRequest, "File must be a PDF"}
	}
	if err := u.Validate(); err != nil {
		return nil, &httpError{http.StatusBadRequest, err.Error()}
	}
	return u, nil
}

func (s *Server) process(ctx context.Context, u *upload) (*pipeline.Job, error) {
	return s.runner.Run(ctx, pipeline.Request{
		Filename:    u.Filename,
		PDF:         u.Data,
		Template:    u.Template,
		NotionToken: u.NotionToken,
	})
}

// errorStatus maps a request failure to an HTTP status.
func errorStatus(err error) int {
	var he *httpError
	if errors.As(err, &he) {
		return he.status
	}
	var nerr *notion.Error
	switch {
	case errors.Is(err, parser.ErrUnsupportedType),
		errors.Is(err, parser.ErrNotPDF),
		errors.Is(err, parser.ErrUnreadablePDF):
		return http.StatusBadRequest
	case errors.Is(err, populate.ErrTemplate):
		if errors.Is(err, fs.ErrNotExist) {
			return http.StatusInternalServerError
		}
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, extract.ErrExtraction),
		errors.Is(err, course.ErrDataFormat),
		errors.As(err, &nerr):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// errorMessage renders a failure for end users.
func errorMessage(err error) string {
	var se *pipeline.StageError
	if errors.As(err, &se) {
		switch se.Stage {
		case pipeline.StageExtract:
			return "Failed to process PDF: " + se.Err.Error()
		case pipeline.StagePublish:
			return "Notion import failed: " + se.Err.Error()
		}
	}
	return err.Error()
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}

package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

type templateOption struct {
	Value string
	Label string
}

type pageData struct {
	Templates []templateOption
	Selected  string
	Success   bool
	NotionURL string
	Dropped   int
	Error     string
}

func (s *Server) renderPage(w http.ResponseWriter, status int, data pageData) {
	data.Templates = pageTemplates
	if data.Selected == "" {
		data.Selected = defaultTemplate
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := indexPage.Execute(w, data); err != nil {
		s.log.Error("render page", "error", err)
	}
}

// pageTemplates are the choices offered on the upload form.
var pageTemplates = []templateOption{
	{"modern", "Modern"},
	{"classic", "Classic"},
	{"basic", "Basic"},
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, pageData{})
}

// handleFormSubmit processes an upload from the HTML form. Without a Notion
// token the populated document is returned as a download. With one, the page
// is re-rendered with a link to the new Notion page.
func (s *Server) handleFormSubmit(w http.ResponseWriter, r *http.Request) {
	u, err := s.readUpload(w, r)
	if err != nil {
		s.renderPage(w, errorStatus(err), pageData{Selected: r.FormValue("template"), Error: errorMessage(err)})
		return
	}

	job, err := s.process(r.Context(), u)
	if err != nil {
		s.renderPage(w, errorStatus(err), pageData{Selected: u.Template, Error: errorMessage(err)})
		return
	}

	if job.NotionURL != "" {
		s.renderPage(w, http.StatusOK, pageData{
			Selected:  u.Template,
			Success:   true,
			NotionURL: job.NotionURL,
			Dropped:   job.Dropped,
		})
		return
	}

	// Direct downloads are one-shot.
	defer func() {
		if err := s.runner.Store().Remove(job.ID); err != nil {
			s.log.Warn("remove artifacts", "request_id", job.ID, "error", err)
		}
	}()
	if err := s.writeArtifact(w, job, u.Format); err != nil {
		s.log.Error("write artifact", "request_id", job.ID, "format", u.Format, "error", err)
		s.renderPage(w, http.StatusInternalServerError, pageData{Selected: u.Template, Error: "failed to render " + u.Format})
	}
}

type syllabusResponse struct {
	Success     bool   `json:"success"`
	RequestID   string `json:"request_id,omitempty"`
	Template    string `json:"template,omitempty"`
	Pages       int    `json:"pages,omitempty"`
	NotionURL   string `json:"notion_url,omitempty"`
	DownloadURL string `json:"download_url,omitempty"`
	Dropped     int    `json:"dropped_blocks,omitempty"`
	Error       string `json:"error,omitempty"`
}

// handleSyllabus is the JSON counterpart of the form. Artifacts stay on disk
// until downloaded or expired.
func (s *Server) handleSyllabus(w http.ResponseWriter, r *http.Request) {
	u, err := s.readUpload(w, r)
	if err != nil {
		writeJSON(w, errorStatus(err), syllabusResponse{Error: errorMessage(err)})
		return
	}

	job, err := s.process(r.Context(), u)
	if err != nil {
		s.log.Warn("syllabus request failed", "chi_request_id", middleware.GetReqID(r.Context()), "error", err)
		writeJSON(w, errorStatus(err), syllabusResponse{Template: u.Template, Error: errorMessage(err)})
		return
	}

	snap := job.Snapshot()
	writeJSON(w, http.StatusOK, syllabusResponse{
		Success:     true,
		RequestID:   snap.ID,
		Template:    snap.Template,
		Pages:       snap.Pages,
		NotionURL:   snap.NotionURL,
		DownloadURL: "/api/downloads/" + snap.ID,
		Dropped:     snap.Dropped,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

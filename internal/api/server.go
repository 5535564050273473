package api

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/syllaboss/internal/config"
	"github.com/dgallion1/syllaboss/internal/extract"
	"github.com/dgallion1/syllaboss/internal/pipeline"
)

//go:embed templates/index.html
var pageFS embed.FS

var indexPage = template.Must(template.ParseFS(pageFS, "templates/index.html"))

// Server is the HTTP front end for syllabus processing.
type Server struct {
	router chi.Router
	runner *pipeline.Runner
	stats  *extract.LLMStats
	log    *slog.Logger
	cfg    config.Config
	loc    *time.Location
}

// NewServer creates and configures the HTTP server. loc is the timezone for
// calendar exports.
func NewServer(runner *pipeline.Runner, stats *extract.LLMStats, log *slog.Logger, cfg config.Config, loc *time.Location) *Server {
	if loc == nil {
		loc = time.Local
	}
	s := &Server{
		runner: runner,
		stats:  stats,
		log:    log,
		cfg:    cfg,
		loc:    loc,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleForm)
	r.Post("/", s.handleFormSubmit)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/syllabus", s.handleSyllabus)
		r.Get("/api/downloads/{id}", s.handleDownload)
		r.Post("/api/convert", s.handleConvert)
		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/syllaboss/internal/blocks"
	"github.com/dgallion1/syllaboss/internal/course"
	"github.com/dgallion1/syllaboss/internal/extract"
	"github.com/dgallion1/syllaboss/internal/notion"
	"github.com/dgallion1/syllaboss/internal/parser"
	"github.com/dgallion1/syllaboss/internal/populate"
)

// Stage names one step of a syllabus request.
type Stage string

const (
	StageValidate Stage = "validate"
	StageTemplate Stage = "template"
	StageExtract  Stage = "extract"
	StagePopulate Stage = "populate"
	StagePublish  Stage = "publish"
)

// StageError records which stage of a request failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// Publisher creates a page from converted blocks.
type Publisher interface {
	Publish(ctx context.Context, token, title string, bs []blocks.Block) (*notion.Result, error)
}

// Templates resolves a selector to template text.
type Templates interface {
	Load(selector string) (string, error)
}

type Options struct {
	OutputDir      string
	ExtractTimeout time.Duration
	PublishTimeout time.Duration
	EmptySection   populate.EmptySectionPolicy
}

type Request struct {
	Filename    string
	PDF         []byte
	Template    string
	NotionToken string
}

// Runner processes a syllabus upload synchronously: validate, extract,
// populate, then publish when a token is supplied.
type Runner struct {
	extractor extract.Extractor
	templates Templates
	publisher Publisher
	store     *Store
	opts      Options
	log       *slog.Logger
}

func NewRunner(ex extract.Extractor, templates Templates, pub Publisher, store *Store, opts Options, log *slog.Logger) *Runner {
	return &Runner{
		extractor: ex,
		templates: templates,
		publisher: pub,
		store:     store,
		opts:      opts,
		log:       log,
	}
}

// Store returns the artifact store completed jobs are registered in.
func (r *Runner) Store() *Store {
	return r.store
}

// Run executes every stage for req. On success the job is registered in the
// store and its artifacts are on disk. On failure nothing is left behind and
// the error is a *StageError.
func (r *Runner) Run(ctx context.Context, req Request) (*Job, error) {
	id := uuid.NewString()
	job := newJob(id, req.Filename, req.Template, filepath.Join(r.opts.OutputDir, id))
	job.ContentHash = ContentHashHex(req.PDF)
	log := r.log.With("request_id", id, "template", req.Template, "filename", req.Filename)

	start := time.Now()
	if err := r.run(ctx, job, req, log); err != nil {
		job.SetStatus(StatusFailed)
		if rmErr := os.RemoveAll(job.Dir); rmErr != nil {
			log.Warn("remove failed request artifacts", "error", rmErr)
		}
		var se *StageError
		if errors.As(err, &se) {
			log.Error("request failed", "stage", se.Stage, "error", se.Err, "duration_ms", time.Since(start).Milliseconds())
		}
		return nil, err
	}

	job.SetStatus(StatusCompleted)
	r.store.Put(job)
	log.Info("request completed",
		"duration_ms", time.Since(start).Milliseconds(),
		"published", job.NotionURL != "",
		"content_hash", job.ContentHash,
	)
	return job, nil
}

func (r *Runner) run(ctx context.Context, job *Job, req Request, log *slog.Logger) error {
	info, err := parser.Inspect(req.Filename, req.PDF)
	if err != nil {
		return &StageError{Stage: StageValidate, Err: err}
	}
	job.Pages = info.Pages

	// Resolve the template before paying for an extraction call.
	tmpl, err := r.templates.Load(req.Template)
	if err != nil {
		return &StageError{Stage: StageTemplate, Err: err}
	}

	job.SetStatus(StatusExtracting)
	log.Info("extracting", "pages", info.Pages, "text_chars", info.TextChars)
	rec, err := r.extract(ctx, req)
	if err != nil {
		return &StageError{Stage: StageExtract, Err: err}
	}
	if err := course.WriteSnapshot(job.SnapshotPath(), rec); err != nil {
		return &StageError{Stage: StageExtract, Err: err}
	}

	job.SetStatus(StatusPopulating)
	md := populate.Populate(rec, tmpl, populate.Options{EmptySection: r.opts.EmptySection})
	if err := populate.WriteFile(job.MarkdownPath(), md); err != nil {
		return &StageError{Stage: StagePopulate, Err: err}
	}
	job.setOutput(rec, md)

	if req.NotionToken == "" {
		return nil
	}

	job.SetStatus(StatusPublishing)
	res, err := r.publish(ctx, req.NotionToken, rec.PageTitle(), md)
	if err != nil {
		return &StageError{Stage: StagePublish, Err: err}
	}
	job.NotionURL = res.URL
	job.Dropped = res.Dropped
	if res.Dropped > 0 {
		log.Warn("notion block limit reached", "kept", res.Blocks, "dropped", res.Dropped)
	}
	return nil
}

func (r *Runner) extract(ctx context.Context, req Request) (*course.Record, error) {
	if r.opts.ExtractTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.ExtractTimeout)
		defer cancel()
	}
	return r.extractor.Extract(ctx, req.Filename, req.PDF)
}

func (r *Runner) publish(ctx context.Context, token, title, md string) (*notion.Result, error) {
	if r.opts.PublishTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.PublishTimeout)
		defer cancel()
	}
	return r.publisher.Publish(ctx, token, title, blocks.Convert(md))
}

package pipeline

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dgallion1/syllaboss/internal/course"
)

// JobStatus represents the state of one syllabus request.
type JobStatus string

const (
	StatusReceived   JobStatus = "received"
	StatusExtracting JobStatus = "extracting"
	StatusPopulating JobStatus = "populating"
	StatusPublishing JobStatus = "publishing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Artifact file names inside a job directory.
const (
	SnapshotFile = "syllabus-info.json"
	MarkdownFile = "filled-in-template.md"
)

// Job tracks one upload from receipt to its artifacts.
type Job struct {
	mu sync.Mutex

	ID       string
	Filename string
	Template string
	Dir      string

	Status    JobStatus
	Pages     int
	NotionURL string
	Dropped   int

	ContentHash string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	record   *course.Record
	markdown string
}

func newJob(id, filename, template, dir string) *Job {
	now := time.Now()
	return &Job{
		ID:        id,
		Filename:  filename,
		Template:  template,
		Dir:       dir,
		Status:    StatusReceived,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.UpdatedAt = time.Now()
}

func (j *Job) setOutput(rec *course.Record, markdown string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.record = rec
	j.markdown = markdown
	j.UpdatedAt = time.Now()
}

// Record returns the extracted record, nil until extraction succeeds.
func (j *Job) Record() *course.Record {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.record
}

// Markdown returns the populated markdown.
func (j *Job) Markdown() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.markdown
}

func (j *Job) SnapshotPath() string { return filepath.Join(j.Dir, SnapshotFile) }
func (j *Job) MarkdownPath() string { return filepath.Join(j.Dir, MarkdownFile) }

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string    `json:"request_id"`
	Filename  string    `json:"filename"`
	Template  string    `json:"template"`
	Status    JobStatus `json:"status"`
	Pages     int       `json:"pages"`
	NotionURL string    `json:"notion_url,omitempty"`
	Dropped   int       `json:"dropped_blocks,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	return JobSnapshot{
		ID:        j.ID,
		Filename:  j.Filename,
		Template:  j.Template,
		Status:    j.Status,
		Pages:     j.Pages,
		NotionURL: j.NotionURL,
		Dropped:   j.Dropped,
		CreatedAt: j.CreatedAt,
	}
}

// Store is a thread-safe registry of completed jobs whose artifacts are
// still on disk. Removing a job deletes its directory.
type Store struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
	log  *slog.Logger
}

func NewStore(ttl time.Duration, log *slog.Logger) *Store {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Store{
		jobs: make(map[string]*Job),
		ttl:  ttl,
		log:  log,
	}
}

func (s *Store) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *Store) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Remove forgets the job and deletes its artifacts. Unknown ids are ignored.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	job, ok := s.jobs[id]
	delete(s.jobs, id)
	s.mu.Unlock()
	if !ok {
		return nil
	}
	if err := os.RemoveAll(job.Dir); err != nil {
		return fmt.Errorf("remove artifacts for %s: %w", id, err)
	}
	return nil
}

// Cleanup removes jobs not updated within the TTL and returns how many it removed.
func (s *Store) Cleanup() int {
	s.mu.Lock()
	now := time.Now()
	var expired []*Job
	for id, job := range s.jobs {
		job.mu.Lock()
		age := now.Sub(job.UpdatedAt)
		job.mu.Unlock()
		if age > s.ttl {
			expired = append(expired, job)
			delete(s.jobs, id)
		}
	}
	s.mu.Unlock()

	for _, job := range expired {
		if err := os.RemoveAll(job.Dir); err != nil {
			s.log.Warn("artifact cleanup failed", "request_id", job.ID, "error", err)
		}
	}
	return len(expired)
}

// Sweep runs Cleanup every interval until ctx is cancelled.
func (s *Store) Sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Cleanup(); n > 0 {
				s.log.Info("expired artifacts removed", "count", n)
			}
		}
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}

package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the state of a site build job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusImporting  JobStatus = "importing"
	StatusExtracting JobStatus = "extracting"
	StatusBinding    JobStatus = "binding"
	StatusGenerating JobStatus = "generating"
	StatusRendering  JobStatus = "rendering"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusPartial    JobStatus = "partial"
)

// Job tracks the state of a single course build.
type Job struct {
	mu sync.Mutex

	ID         string `json:"job_id"`
	CourseName string `json:"course_name"`
	SourceDir  string `json:"source_dir"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	errors []string
}

// Progress tracks build progress.
type Progress struct {
	TotalChapters     int      `json:"total_chapters"`
	ChaptersGenerated int      `json:"chapters_generated"`
	Errors            []string `json:"errors"`
}

// NewJob creates a queued build job for a course.
func NewJob(courseName, sourceDir string) *Job {
	now := time.Now()
	return &Job{
		ID:         uuid.NewString(),
		CourseName: courseName,
		SourceDir:  sourceDir,
		Status:     StatusQueued,
		Phase:      "queued",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetTotalChapters records how many chapters this build will produce.
func (j *Job) SetTotalChapters(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalChapters = n
	j.UpdatedAt = time.Now()
}

// IncrChaptersGenerated atomically increments the generated-chapter count.
func (j *Job) IncrChaptersGenerated() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.ChaptersGenerated++
	j.UpdatedAt = time.Now()
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID         string    `json:"job_id"`
	CourseName string    `json:"course_name"`
	Status     JobStatus `json:"status"`
	Phase      string    `json:"phase"`
	Progress   Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:         j.ID,
		CourseName: j.CourseName,
		Status:     j.Status,
		Phase:      j.Phase,
		Progress: Progress{
			TotalChapters:     j.Progress.TotalChapters,
			ChaptersGenerated: j.Progress.ChaptersGenerated,
			Errors:            errs,
		},
	}
}

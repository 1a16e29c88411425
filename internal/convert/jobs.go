package convert

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// JobStatus represents the state of a conversion job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusExtracting JobStatus = "extracting"
	StatusSegmenting JobStatus = "segmenting"
	StatusAssembling JobStatus = "assembling"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Job tracks the state of a single conversion.
type Job struct {
	mu sync.Mutex

	ID         string `json:"job_id"`
	Filename   string `json:"filename"`
	OutputName string `json:"output_name"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`
	Error  string    `json:"error,omitempty"`

	Progress Progress `json:"progress"`

	// PageBreaks inserts a page break between consecutive source pages.
	PageBreaks bool `json:"page_breaks"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	result   []byte
}

// Progress tracks extraction and segmentation progress.
type Progress struct {
	Page       int `json:"page"`
	TotalPages int `json:"total_pages"`
	Paragraphs int `json:"paragraphs"`
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

// Cleanup removes expired jobs along with their buffered result bytes.
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

// SetExtracting records per-page extraction progress.
func (j *Job) SetExtracting(page, total int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = StatusExtracting
	j.Phase = fmt.Sprintf("extracting page %d of %d", page, total)
	j.Progress.Page = page
	j.Progress.TotalPages = total
	j.UpdatedAt = time.Now()
}

// SetParagraphs records the segmented paragraph count.
func (j *Job) SetParagraphs(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Paragraphs = n
	j.UpdatedAt = time.Now()
}

// Fail marks the job failed with a terminal message. The message is surfaced
// verbatim as the user-visible status.
func (j *Job) Fail(msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = StatusFailed
	j.Phase = "failed"
	j.Error = msg
	j.result = nil
	j.UpdatedAt = time.Now()
}

// SetFileData sets the raw source bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw source bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// SetResult stores the assembled document and releases the source bytes,
// which are no longer needed.
func (j *Job) SetResult(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = data
	j.fileData = nil
	j.UpdatedAt = time.Now()
}

// Result returns the assembled document bytes, or nil if not completed.
func (j *Job) Result() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID         string    `json:"job_id"`
	Filename   string    `json:"filename"`
	OutputName string    `json:"output_name"`
	Status     JobStatus `json:"status"`
	Phase      string    `json:"phase"`
	Error      string    `json:"error,omitempty"`
	Progress   Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	return JobSnapshot{
		ID:         j.ID,
		Filename:   j.Filename,
		OutputName: j.OutputName,
		Status:     j.Status,
		Phase:      j.Phase,
		Error:      j.Error,
		Progress:   j.Progress,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}

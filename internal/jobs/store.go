package jobs

import "sync"

// Store is the process-wide registry of grading jobs. Multiple job
// goroutines write concurrently, but each job id has a single writer (the
// scheduler goroutine that owns it), so the lock only guards the map itself.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

func NewStore() *Store {
	return &Store{jobs: make(map[string]*Job)}
}

// Create registers a new pending job. The caller guarantees id uniqueness
// (ids are freshly generated UUIDs).
func (s *Store) Create(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[jobID] = &Job{ID: jobID, Status: StatusPending}
}

// SetStudentResult completes a single-student job. Unknown ids and jobs
// already in a terminal state are left untouched.
func (s *Store) SetStudentResult(jobID string, result StudentResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok || job.Status.Terminal() {
		return
	}
	job.Status = StatusCompleted
	job.Single = &result
}

// SetBatchResult completes a batch job with one entry per graded student.
func (s *Store) SetBatchResult(jobID string, results []StudentResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok || job.Status.Terminal() {
		return
	}
	job.Status = StatusCompleted
	job.Batch = results
}

// SetError moves a job to the error state with a client-visible message.
func (s *Store) SetError(jobID string, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok || job.Status.Terminal() {
		return
	}
	job.Status = StatusError
	job.Message = message
}

// Get returns a point-in-time snapshot of the job. The job may still be
// running; callers poll until the status is terminal.
func (s *Store) Get(jobID string) (Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return Job{ID: jobID, Status: StatusNotFound}, false
	}
	return *job, true
}

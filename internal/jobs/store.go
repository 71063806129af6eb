// Package jobs tracks extraction jobs from upload to result. Two stores are
// provided: an in-memory map for single-process runs and a sqlite-backed
// store that survives restarts.
package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mcatarino/order-extractor/constants"
	"github.com/mcatarino/order-extractor/internal/common"
	"github.com/mcatarino/order-extractor/internal/entity"
)

// Job is one document extraction run.
type Job struct {
	ID        string                   `json:"job_id"`
	Filename  string                   `json:"filename"`
	FilePath  string                   `json:"-"`
	Status    constants.JobStatus      `json:"status"`
	Progress  float64                  `json:"progress"`
	Error     string                   `json:"error,omitempty"`
	Result    *entity.ExtractionResult `json:"result,omitempty"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt time.Time                `json:"updated_at"`
}

// Summary is the listing shape: everything but the result payload.
type Summary struct {
	ID        string              `json:"job_id"`
	Filename  string              `json:"filename"`
	Status    constants.JobStatus `json:"status"`
	Progress  float64             `json:"progress"`
	CreatedAt time.Time           `json:"created_at"`
}

// Store persists jobs.
type Store interface {
	Create(ctx context.Context, job Job) error
	Get(ctx context.Context, id string) (Job, error)
	Update(ctx context.Context, job Job) error
	List(ctx context.Context) ([]Summary, error)
}

// NewJob builds a queued job with a fresh ID.
func NewJob(filePath, filename string) Job {
	now := time.Now().UTC()
	return Job{
		ID:        uuid.NewString(),
		Filename:  filename,
		FilePath:  filePath,
		Status:    constants.JobStatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MemoryStore keeps jobs in a mutex-guarded map.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]Job
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]Job)}
}

func (s *MemoryStore) Create(_ context.Context, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.jobs[job.ID]; exists {
		return common.NewAppError("JOB_EXISTS", "job already exists: "+job.ID, common.ErrInvalidInput)
	}
	s.jobs[job.ID] = job
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return Job{}, common.NewAppError("JOB_NOT_FOUND", "job not found: "+id, common.ErrNotFound)
	}
	return job, nil
}

func (s *MemoryStore) Update(_ context.Context, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[job.ID]; !ok {
		return common.NewAppError("JOB_NOT_FOUND", "job not found: "+job.ID, common.ErrNotFound)
	}
	job.UpdatedAt = time.Now().UTC()
	s.jobs[job.ID] = job
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summaries := make([]Summary, 0, len(s.jobs))
	for _, job := range s.jobs {
		summaries = append(summaries, Summary{
			ID:        job.ID,
			Filename:  job.Filename,
			Status:    job.Status,
			Progress:  job.Progress,
			CreatedAt: job.CreatedAt,
		})
	}
	return summaries, nil
}

// Package repository defines the conversion result store interface and
// errors.
package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/gandula/internal/domain/model"
	"github.com/okian/gandula/pkg/metrics"
)

// Default store configuration constants.
const (
	defaultCapacity = 128
)

// Store holds conversion outcomes keyed by job id.
type Store interface {
	// Create registers a pending job. Returns ErrAlreadyExists when the id
	// is taken.
	Create(ctx context.Context, jobID string) error

	// Complete records the outcome of a job: a dataset on success or the
	// conversion error on failure.
	Complete(ctx context.Context, jobID string, ds *model.Dataset, convErr error) error

	// Get returns the conversion for a job id.
	// Returns ErrNotFound if the job is unknown.
	Get(ctx context.Context, jobID string) (model.Conversion, error)

	// Delete removes a job, e.g. to roll back a submission that could not
	// be enqueued.
	Delete(ctx context.Context, jobID string)

	// Count returns the number of tracked jobs.
	Count(ctx context.Context) int

	// Close releases store resources.
	Close() error
}

// MemoryStore implements Store with a bounded in-memory map. When the
// bound is reached the oldest completed conversion is evicted; pending
// jobs are never evicted.
type MemoryStore struct {
	mu       sync.RWMutex
	byID     map[string]*model.Conversion
	order    []string // insertion order, for eviction
	capacity int
}

// NewMemoryStore creates a new in-memory store with configuration options.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		byID:     make(map[string]*model.Conversion),
		capacity: defaultCapacity,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create registers a pending job.
func (s *MemoryStore) Create(ctx context.Context, jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[jobID]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, jobID)
	}

	if len(s.byID) >= s.capacity {
		s.evictOldestCompleted()
	}

	s.byID[jobID] = &model.Conversion{
		JobID:  jobID,
		Status: model.ConversionPending,
	}
	s.order = append(s.order, jobID)
	metrics.UpdateStoredConversions(len(s.byID))
	return nil
}

// Complete records the outcome of a job.
func (s *MemoryStore) Complete(ctx context.Context, jobID string, ds *model.Dataset, convErr error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, exists := s.byID[jobID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, jobID)
	}

	c.CompletedAt = time.Now()
	if convErr != nil {
		c.Status = model.ConversionFailed
		c.Err = convErr.Error()
		return nil
	}
	c.Status = model.ConversionDone
	c.Dataset = ds
	return nil
}

// Get returns the conversion for a job id.
func (s *MemoryStore) Get(ctx context.Context, jobID string) (model.Conversion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, exists := s.byID[jobID]
	if !exists {
		return model.Conversion{}, fmt.Errorf("%w: %s", ErrNotFound, jobID)
	}
	return *c, nil
}

// Delete removes a job.
func (s *MemoryStore) Delete(ctx context.Context, jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[jobID]; !exists {
		return
	}
	delete(s.byID, jobID)
	for i, id := range s.order {
		if id == jobID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	metrics.UpdateStoredConversions(len(s.byID))
}

// Count returns the number of tracked jobs.
func (s *MemoryStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Close releases store resources.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID = make(map[string]*model.Conversion)
	s.order = nil
	return nil
}

// evictOldestCompleted drops the oldest non-pending conversion.
// Must be called with s.mu held.
func (s *MemoryStore) evictOldestCompleted() {
	for i, id := range s.order {
		c, exists := s.byID[id]
		if !exists || c.Status == model.ConversionPending {
			continue
		}
		delete(s.byID, id)
		s.order = append(s.order[:i], s.order[i+1:]...)
		return
	}
}

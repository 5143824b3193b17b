// Package service provides the core business service that implements
// the dependencies required by the HTTP API: parallel conversion of
// independent matches.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	jobqueue "github.com/okian/gandula/internal/adapters/mq/queue"
	workerpool "github.com/okian/gandula/internal/adapters/mq/worker"
	repository "github.com/okian/gandula/internal/adapters/repository"
	"github.com/okian/gandula/internal/domain/coordinates"
	"github.com/okian/gandula/internal/domain/model"
	pff "github.com/okian/gandula/internal/serializer/pff"
	"github.com/okian/gandula/pkg/logger"
	"github.com/okian/gandula/pkg/metrics"
)

// ErrBackpressure is returned when the job queue rejects a submission.
var ErrBackpressure = errors.New("conversion queue full")

// pipelineConverter adapts the pff deserializer to the worker.Converter
// interface. A fresh deserializer is built per job because the target
// coordinate system is caller-chosen.
type pipelineConverter struct {
	defaultSystem coordinates.System
	logger        logger.Logger
}

func (c *pipelineConverter) Convert(ctx context.Context, j workerpool.Job) (*model.Dataset, error) {
	system := c.defaultSystem
	if j.CoordinateSystem != "" {
		parsed, err := coordinates.ParseSystem(j.CoordinateSystem)
		if err != nil {
			return nil, err
		}
		system = parsed
	}

	d := pff.New(
		pff.WithCoordinateSystem(system),
		pff.WithLogger(c.logger),
	)
	return d.Deserialize(ctx, pff.Input{
		EventData:  bytes.NewReader(j.EventData),
		MetaData:   bytes.NewReader(j.MetaData),
		RosterData: bytes.NewReader(j.RosterData),
	})
}

// storeSink adapts the repository store to the worker.Sink interface.
type storeSink struct {
	store repository.Store
}

func (s *storeSink) Complete(ctx context.Context, jobID string, ds *model.Dataset, convErr error) error {
	return s.store.Complete(ctx, jobID, ds, convErr)
}

// Service implements the API dependencies for the conversion system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	queue      jobqueue.Queue
	workerPool *workerpool.Pool

	// Configuration
	workerCount   int
	queueSize     int
	storeCapacity int
	defaultSystem coordinates.System

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of conversion workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithStoreCapacity bounds the number of conversion results kept in
// memory.
func WithStoreCapacity(capacity int) Option {
	return func(s *Service) {
		if capacity > 0 {
			s.storeCapacity = capacity
		}
	}
}

// WithCoordinateSystem sets the default target coordinate system for jobs
// that do not choose one.
func WithCoordinateSystem(system coordinates.System) Option {
	return func(s *Service) {
		if system != "" {
			s.defaultSystem = system
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:   runtime.NumCPU(),
		queueSize:     64,
		storeCapacity: 128,
		defaultSystem: coordinates.SystemPFF,
		logger:        logger.Noop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting conversion service...")

	s.store = repository.NewMemoryStore(
		repository.WithCapacity(s.storeCapacity),
	)
	s.queue = jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(s.queueSize),
	)

	converter := &pipelineConverter{
		defaultSystem: s.defaultSystem,
		logger:        s.logger.Named("pipeline"),
	}
	s.workerPool = workerpool.NewPool(s.workerCount, s.queue, converter, &storeSink{store: s.store})
	s.workerPool.SetLogger(s.logger)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "conversion service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("storeCapacity", s.storeCapacity),
		logger.String("coordinateSystem", string(s.defaultSystem)),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping conversion service...")

	// Close the queue first so workers drain and exit.
	if s.queue != nil {
		_ = s.queue.Close()
	}
	if s.workerPool != nil {
		s.workerPool.Stop()
	}
	if s.store != nil {
		_ = s.store.Close()
	}

	s.started = false
	s.logger.Info(context.Background(), "conversion service stopped")
}

// Submit registers a conversion job for the three provider documents and
// enqueues it. Returns the job id, or ErrBackpressure when the queue is
// full.
func (s *Service) Submit(ctx context.Context, eventData, metaData, rosterData []byte, coordinateSystem string) (string, error) {
	if len(eventData) == 0 || len(metaData) == 0 || len(rosterData) == 0 {
		return "", errors.New("all three documents are required")
	}
	if coordinateSystem != "" {
		if _, err := coordinates.ParseSystem(coordinateSystem); err != nil {
			return "", err
		}
	}

	jobID := uuid.New().String()
	if err := s.store.Create(ctx, jobID); err != nil {
		return "", fmt.Errorf("register job: %w", err)
	}

	job := model.Job{
		ID:               jobID,
		CoordinateSystem: coordinateSystem,
		EventData:        eventData,
		MetaData:         metaData,
		RosterData:       rosterData,
		SubmittedAt:      time.Now(),
	}
	if !s.queue.Enqueue(ctx, job) {
		// Roll back the pending record; the job never entered the queue.
		s.store.Delete(ctx, jobID)
		return "", ErrBackpressure
	}

	s.logger.Debug(ctx, "job submitted",
		logger.String("jobID", jobID),
		logger.String("coordinateSystem", coordinateSystem),
	)
	return jobID, nil
}

// Conversion returns the stored outcome for a job id.
func (s *Service) Conversion(ctx context.Context, jobID string) (model.Conversion, error) {
	return s.store.Get(ctx, jobID)
}

// Stats returns service statistics for monitoring.
func (s *Service) Stats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":       s.started,
		"workerCount":   s.workerCount,
		"queueSize":     s.queueSize,
		"storeCapacity": s.storeCapacity,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		stored := s.store.Count(ctx)

		stats["queueLength"] = queueLen
		stats["storedConversions"] = stored

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateStoredConversions(stored)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}

// Package worker defines worker contracts for asynchronous match
// conversion.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/gandula/internal/domain/model"
	"github.com/okian/gandula/pkg/logger"
	"github.com/okian/gandula/pkg/metrics"
)

// Default worker configuration constants.
const (
	workerShutdownTimeout = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// Job abstracts what workers read off the queue.
type Job = model.Job

// Converter runs one match conversion. Matches are independent, so
// conversions may run concurrently without shared state.
type Converter interface {
	Convert(ctx context.Context, j Job) (*model.Dataset, error)
}

// Sink records the outcome of one job.
type Sink interface {
	Complete(ctx context.Context, jobID string, ds *model.Dataset, convErr error) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes jobs and records outcomes using the provided
// interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing conversion jobs.
type InMemoryWorker struct {
	queue     Queue
	converter Converter
	sink      Sink
	name      string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, converter Converter, sink Sink, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     queue,
		converter: converter,
		sink:      sink,
		name:      "worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Noop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobChan:
			if !ok {
				// Channel closed, worker should stop
				return
			}
			if err := w.processJob(ctx, job); err != nil {
				w.logger.Error(ctx, "error processing job", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processJob runs one conversion and records its outcome. A failed
// conversion is an outcome, not a worker error: it is stored for the
// caller to retrieve.
func (w *InMemoryWorker) processJob(ctx context.Context, job Job) error {
	start := time.Now()
	ds, convErr := w.converter.Convert(ctx, job)
	elapsed := time.Since(start)

	metrics.RecordConversionDuration(elapsed.Seconds())
	if convErr != nil {
		metrics.RecordConversion("failed")
		w.logger.Warn(ctx, "conversion failed",
			logger.String("jobID", job.ID),
			logger.Duration("elapsed", elapsed),
			logger.Error(convErr),
		)
	} else {
		metrics.RecordConversion("done")
		w.logger.Info(ctx, "conversion finished",
			logger.String("jobID", job.ID),
			logger.Int("events", len(ds.Events)),
			logger.Duration("elapsed", elapsed),
		)
	}

	if err := w.sink.Complete(ctx, job.ID, ds, convErr); err != nil {
		return fmt.Errorf("record outcome for job %s: %w", job.ID, err)
	}
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers   []*InMemoryWorker
	queue     Queue
	converter Converter
	sink      Sink

	// Shutdown control
	shutdown chan struct{}

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, queue Queue, converter Converter, sink Sink) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers:   make([]*InMemoryWorker, workerCount),
		queue:     queue,
		converter: converter,
		sink:      sink,
		shutdown:  make(chan struct{}),
		logger:    logger.Noop(),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue,
			converter,
			sink,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerCount(workerCount)

	return pool
}

// SetLogger sets the pool logger and propagates it to all workers.
func (p *Pool) SetLogger(l logger.Logger) {
	if l == nil {
		return
	}
	p.logger = l.Named("worker-pool")
	for _, w := range p.workers {
		w.logger = l.Named(w.name)
	}
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	close(p.shutdown)

	for _, w := range p.workers {
		select {
		case <-w.done:
			// Worker finished
		case <-time.After(workerShutdownTimeout):
			// Worker timeout
		}
	}
}

// Shutdown gracefully shuts down the entire worker pool.
func (p *Pool) Shutdown(ctx context.Context) error {
	// First close the queue to stop new jobs
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	close(p.shutdown)

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	return nil
}

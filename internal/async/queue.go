// Package async provides a bounded worker queue over the extraction
// coordinator for processing many documents concurrently. Per-document
// extraction is independent; the learning tracker is the only shared state
// and serializes its own updates.
package async

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/devfolarin/payslip-extractor/constants"
	"github.com/devfolarin/payslip-extractor/internal/entity"
	"github.com/devfolarin/payslip-extractor/internal/extractor"
)

// Job is one document to extract.
type Job struct {
	Path        string
	Data        []byte
	Hint        constants.PayslipFormat
	SubmittedAt time.Time
}

// Result pairs a job with its outcome. Record is nil when Err is set.
type Result struct {
	Job    Job
	Record *entity.PayslipRecord
	Err    error
}

type ExtractorQueue struct {
	coordinator *extractor.Coordinator
	logger      *slog.Logger
	workers     int
	timeout     time.Duration

	ch      chan Job
	results chan Result
	wg      sync.WaitGroup
	once    sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*ExtractorQueue)

func WithWorkers(n int) Option {
	return func(q *ExtractorQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(q *ExtractorQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}

func WithExtractTimeout(d time.Duration) Option {
	return func(q *ExtractorQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewExtractorQueue(coordinator *extractor.Coordinator, logger *slog.Logger, opts ...Option) *ExtractorQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &ExtractorQueue{
		coordinator: coordinator,
		logger:      logger,
		workers:     4,
		timeout:     2 * time.Minute,
		ch:          make(chan Job, 64),
	}
	for _, o := range opts {
		o(q)
	}
	q.results = make(chan Result, cap(q.ch))
	q.start()
	return q
}

// Results delivers one Result per enqueued job. The channel closes once the
// queue has been shut down and drained.
func (q *ExtractorQueue) Results() <-chan Result {
	return q.results
}

func (q *ExtractorQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Info("worker started", "worker_id", workerID)

				for job := range q.ch {
					ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
					record, err := q.coordinator.ExtractRecord(ctx, job.Data, job.Hint)
					cancel()

					if err != nil {
						q.logger.Error("extraction failed", "worker_id", workerID, "path", job.Path, "error", err)
					} else {
						q.logger.Info("extracted document", "worker_id", workerID, "path", job.Path, "confidence", record.Confidence)
					}
					q.results <- Result{Job: job, Record: record, Err: err}
				}

				q.logger.Info("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *ExtractorQueue) Enqueue(_ context.Context, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "path", job.Path)
		return nil
	}
	select {
	case q.ch <- job:
		q.logger.Info("queued document for extraction", "path", job.Path)
	default:
		q.logger.Warn("queue full, applying backpressure", "path", job.Path)
		q.ch <- job
	}
	return nil
}

// Shutdown stops intake, waits for workers to drain, and closes Results.
func (q *ExtractorQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		q.wg.Wait()
		close(q.results)
	}()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}

package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/kochan17/recruitment-app/internal/common"
	"github.com/kochan17/recruitment-app/internal/entity"
)

// ErrQueueClosed is returned by Enqueue after Shutdown.
var ErrQueueClosed = errors.New("queue is shutting down")

// Job names one document to load and process.
type Job struct {
	Ref         string // local path or gs:// URL
	SubmittedAt time.Time
}

// Loader resolves a Job reference into a Document.
type Loader interface {
	Load(ctx context.Context, ref string) (entity.Document, error)
}

// ProcessFunc handles one loaded document.
type ProcessFunc func(ctx context.Context, doc entity.Document) entity.Report

// ResultFunc receives every finished report. It is called from worker
// goroutines and must be safe for concurrent use.
type ResultFunc func(job Job, report entity.Report)

type Queue struct {
	process ProcessFunc
	loader  Loader
	logger  *slog.Logger
	workers int
	timeout time.Duration
	limiter *rate.Limiter
	onDone  ResultFunc

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*Queue)

func WithWorkers(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}

func WithProcessTimeout(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

// WithRateLimit caps how many documents per second start processing.
// Zero or negative leaves the queue unthrottled.
func WithRateLimit(perSecond float64) Option {
	return func(q *Queue) {
		if perSecond > 0 {
			q.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

func WithResultHandler(fn ResultFunc) Option {
	return func(q *Queue) {
		if fn != nil {
			q.onDone = fn
		}
	}
}

func NewQueue(process ProcessFunc, loader Loader, logger *slog.Logger, opts ...Option) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &Queue{
		process: process,
		loader:  loader,
		logger:  logger,
		workers: 2,
		timeout: 3 * time.Minute,
		ch:      make(chan Job, 64),
		onDone:  func(Job, entity.Report) {},
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *Queue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Debug("queue.worker.started", "worker_id", workerID)

				for job := range q.ch {
					report := q.handle(workerID, job)
					q.onDone(job, report)
				}

				q.logger.Debug("queue.worker.stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *Queue) handle(workerID int, job Job) entity.Report {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()

	failed := func(err error) entity.Report {
		return entity.Report{
			Document: job.Ref,
			Faces:    []entity.FaceCandidate{},
			Error:    err.Error(),
			Code:     common.ToStatus(err).Code().String(),
		}
	}

	if q.limiter != nil {
		if err := q.limiter.Wait(ctx); err != nil {
			q.logger.Error("queue.job.throttle_failed", "worker_id", workerID, "ref", job.Ref, "error", err)
			return failed(err)
		}
	}

	doc, err := q.loader.Load(ctx, job.Ref)
	if err != nil {
		q.logger.Error("queue.job.load_failed", "worker_id", workerID, "ref", job.Ref, "error", err)
		return failed(err)
	}

	report := q.process(ctx, doc)
	if report.Error != "" {
		q.logger.Error("queue.job.failed", "worker_id", workerID, "ref", job.Ref, "error", report.Error,
			"elapsed_ms", time.Since(start).Milliseconds())
	} else {
		q.logger.Info("queue.job.ok", "worker_id", workerID, "ref", job.Ref, "faces", len(report.Faces),
			"queued_ms", start.Sub(job.SubmittedAt).Milliseconds(),
			"elapsed_ms", time.Since(start).Milliseconds())
	}
	return report
}

// Enqueue blocks while the buffer is full, until ctx is done.
func (q *Queue) Enqueue(ctx context.Context, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("queue.enqueue.closed", "ref", job.Ref)
		return ErrQueueClosed
	}
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now()
	}
	select {
	case q.ch <- job:
		q.logger.Debug("queue.enqueue.ok", "ref", job.Ref)
		return nil
	default:
	}
	q.logger.Warn("queue.enqueue.backpressure", "ref", job.Ref)
	select {
	case q.ch <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting jobs and waits for queued ones to drain or for ctx.
func (q *Queue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("queue.shutdown.interrupted")
	case <-done:
		q.logger.Info("queue.shutdown.drained")
	}
}

package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	jobTracer          = otel.Tracer("finance/scheduler")
	jobMeter           = otel.Meter("finance/scheduler")
	jobDuration, _     = jobMeter.Float64Histogram("scheduler.job.duration", metric.WithDescription("Job execution duration in seconds"), metric.WithUnit("s"))
	jobTotal, _        = jobMeter.Int64Counter("scheduler.job.total", metric.WithDescription("Total jobs executed by status"))
	jobQueueDropped, _ = jobMeter.Int64Counter("scheduler.job.queue_dropped", metric.WithDescription("Jobs dropped due to full queue"))
)

// WorkerPool manages a pool of concurrent workers that process jobs
// from a bounded queue.
type WorkerPool struct {
	workerCount int
	jobDelay    time.Duration
	jobs        chan Job
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewWorkerPool creates a new worker pool.
// workerCount: number of concurrent workers (goroutines)
// jobDelay: delay between processing jobs (for rate limiting)
// queueSize: buffer size for the job channel
func NewWorkerPool(workerCount int, jobDelay time.Duration, queueSize int) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		workerCount: workerCount,
		jobDelay:    jobDelay,
		jobs:        make(chan Job, queueSize),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start() {
	log.Info().Int("workers", wp.workerCount).Msg("starting worker pool")

	for i := 1; i <= wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// worker processes jobs from the channel until shutdown.
func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			log.Debug().Int("worker", id).Msg("worker shutting down")
			return

		case job, ok := <-wp.jobs:
			if !ok {
				log.Debug().Int("worker", id).Msg("job channel closed")
				return
			}

			wp.processJob(id, job)

			if wp.jobDelay > 0 {
				select {
				case <-time.After(wp.jobDelay):
				case <-wp.ctx.Done():
					return
				}
			}
		}
	}
}

// processJob executes a single job with error handling, logging, and telemetry.
func (wp *WorkerPool) processJob(workerID int, job Job) {
	// Per-job timeout so one stuck user cannot stall the whole batch.
	ctx, cancel := context.WithTimeout(wp.ctx, 120*time.Second)
	defer cancel()

	ctx, span := jobTracer.Start(ctx, "job.execute",
		trace.WithAttributes(
			attribute.Int("worker.id", workerID),
			attribute.String("job.description", job.Description()),
			attribute.String("job.user_id", job.UserID()),
		),
	)
	defer span.End()

	start := time.Now()

	if err := job.Execute(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		jobTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "error")))
		jobDuration.Record(ctx, time.Since(start).Seconds())
		log.Error().Err(err).
			Int("worker", workerID).
			Str("job", job.Description()).
			Str("user_id", job.UserID()).
			Msg("job failed")
		return
	}

	jobTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "success")))
	jobDuration.Record(ctx, time.Since(start).Seconds())
	log.Info().
		Int("worker", workerID).
		Str("job", job.Description()).
		Str("user_id", job.UserID()).
		Dur("duration", time.Since(start)).
		Msg("job completed")
}

// Submit adds a job to the queue. Returns an error when the pool is
// shutting down or the queue is full; a full queue drops the job rather
// than blocking the caller.
func (wp *WorkerPool) Submit(job Job) error {
	select {
	case <-wp.ctx.Done():
		return wp.ctx.Err()
	case wp.jobs <- job:
		return nil
	default:
		jobQueueDropped.Add(context.Background(), 1)
		log.Warn().Str("user_id", job.UserID()).Msg("job queue full, dropping job")
		return fmt.Errorf("job queue full, dropping job for user %s", job.UserID())
	}
}

// SubmitBatch adds multiple jobs to the queue, skipping the ones that
// do not fit.
func (wp *WorkerPool) SubmitBatch(jobs []Job) {
	submitted := 0
	for _, job := range jobs {
		if err := wp.Submit(job); err != nil {
			continue
		}
		submitted++
	}
	log.Info().Int("submitted", submitted).Int("total", len(jobs)).Msg("jobs submitted to worker pool")
}

// ShutdownWithTimeout closes the queue and waits for in-flight jobs. If
// workers do not finish within the timeout the context is cancelled out
// from under them.
func (wp *WorkerPool) ShutdownWithTimeout(timeout time.Duration) {
	close(wp.jobs)

	done := make(chan struct{})
	go func() {
		wp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info().Msg("worker pool drained")
	case <-time.After(timeout):
		log.Warn().Msg("worker pool shutdown timeout, cancelling in-flight jobs")
	}

	wp.cancel()
}

// Package runner plays a batch of simulation jobs to completion, a bounded
// number at a time, with graceful shutdown on SIGINT or SIGTERM.
package runner

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Job is one unit of batch work. Run must return promptly once ctx is done.
type Job interface {
	Run(ctx context.Context) error
}

// JobFunc adapts a function into the Job interface.
type JobFunc func(ctx context.Context) error

// Run calls f.
func (f JobFunc) Run(ctx context.Context) error { return f(ctx) }

// Runner executes named jobs with at most a fixed number in flight.
// Jobs start in the order they are added.
type Runner struct {
	logger  *zap.Logger
	workers int
	jobs    []namedJob
	mu      sync.Mutex
}

type namedJob struct {
	name string
	job  Job
}

// New creates a Runner.
//
// Precondition: logger must be non-nil.
// Postcondition: workers below 1 are raised to 1.
func New(logger *zap.Logger, workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		logger:  logger,
		workers: workers,
	}
}

// Add registers a named job.
//
// Precondition: name must be non-empty; job must be non-nil.
func (r *Runner) Add(name string, job Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, namedJob{name: name, job: job})
}

// Run executes every job and blocks until all have returned. The first job
// error cancels the jobs still running and skips those not yet started, as
// does a termination signal or cancellation of ctx.
//
// Postcondition: No job is running when Run returns. The result is the first
// job error, else ctx's error if the batch was interrupted, else nil.
func (r *Runner) Run(ctx context.Context) error {
	start := time.Now()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.mu.Lock()
	jobs := append([]namedJob(nil), r.jobs...)
	r.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	started := 0
	for _, nj := range jobs {
		if gctx.Err() != nil {
			break
		}
		started++
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return nil
			}
			jobStart := time.Now()
			r.logger.Debug("starting job", zap.String("job", nj.name))
			if err := nj.job.Run(gctx); err != nil {
				r.logger.Error("job failed",
					zap.String("job", nj.name),
					zap.Error(err),
					zap.Duration("elapsed", time.Since(jobStart)),
				)
				return fmt.Errorf("job %s: %w", nj.name, err)
			}
			r.logger.Debug("job finished",
				zap.String("job", nj.name),
				zap.Duration("elapsed", time.Since(jobStart)),
			)
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	r.logger.Info("batch finished",
		zap.Int("jobs", len(jobs)),
		zap.Int("started", started),
		zap.Bool("interrupted", ctx.Err() != nil),
		zap.Duration("elapsed", time.Since(start)),
	)
	return err
}

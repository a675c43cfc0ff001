// Package tasks runs background jobs: fixed-interval maintenance jobs
// and cron-scheduled ones (the nightly backup).
package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron"
	"go.uber.org/zap"
)

// Job is one unit of background work. Exactly one of Interval or
// Schedule must be set: Interval runs on a ticker, Schedule is a
// six-field cron spec with seconds first (e.g. "0 0 2 * * *" for
// 2 AM daily).
type Job struct {
	Name     string
	Interval time.Duration
	Schedule string
	Run      func(ctx context.Context) error
}

// Runner owns the goroutines and cron entries for a set of jobs.
type Runner struct {
	log  *zap.Logger
	cron *cron.Cron

	mu       sync.Mutex
	interval []Job
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	started  bool
}

// NewRunner builds an empty Runner.
func NewRunner(log *zap.Logger) *Runner {
	return &Runner{log: log, cron: cron.New()}
}

// Add registers a job. Must be called before Start.
func (r *Runner) Add(j Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return fmt.Errorf("runner already started")
	}
	switch {
	case j.Schedule != "" && j.Interval > 0:
		return fmt.Errorf("job %s: set Interval or Schedule, not both", j.Name)
	case j.Schedule != "":
		job := j
		return r.cron.AddFunc(j.Schedule, func() { r.runOnce(context.Background(), job) })
	case j.Interval > 0:
		r.interval = append(r.interval, j)
		return nil
	default:
		return fmt.Errorf("job %s: no Interval or Schedule", j.Name)
	}
}

// Start launches every registered job. Interval jobs fire first after
// one full interval, not immediately.
func (r *Runner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return
	}
	r.started = true

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	r.cron.Start()
	for _, j := range r.interval {
		j := j
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			t := time.NewTicker(j.Interval)
			defer t.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-t.C:
					r.runOnce(ctx, j)
				}
			}
		}()
	}
	r.log.Info("background jobs started",
		zap.Int("interval_jobs", len(r.interval)),
		zap.Int("cron_jobs", len(r.cron.Entries())))
}

// Stop halts the cron scheduler and interval tickers and waits for
// in-flight runs started by tickers to finish.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.started {
		return
	}
	r.cron.Stop()
	r.cancel()
	r.wg.Wait()
	r.started = false
	r.log.Info("background jobs stopped")
}

// runOnce executes a job, recovering panics so one bad job can't take
// the process down.
func (r *Runner) runOnce(ctx context.Context, j Job) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("job panicked", zap.String("job", j.Name), zap.Any("panic", rec))
		}
	}()
	start := time.Now()
	if err := j.Run(ctx); err != nil {
		r.log.Error("job failed", zap.String("job", j.Name), zap.Error(err))
		return
	}
	r.log.Debug("job ran", zap.String("job", j.Name), zap.String("took", time.Since(start).Round(time.Millisecond).String()))
}

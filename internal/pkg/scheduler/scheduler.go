// Package scheduler runs named background jobs on cron schedules.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/atomic"
)

// ErrDuplicateJob is returned when a job name is registered twice.
var ErrDuplicateJob = errors.New("scheduler: job already registered")

// Job is a unit of periodic work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// JobFunc adapts a function to Job.
type JobFunc struct {
	JobName string
	Fn      func(ctx context.Context) error
}

func (j JobFunc) Name() string                  { return j.JobName }
func (j JobFunc) Run(ctx context.Context) error { return j.Fn(ctx) }

// Cron runs jobs on standard five-field cron specs (minute hour dom month dow).
// A tick that arrives while the previous run of the same job is still going
// is skipped.
type Cron struct {
	cron    *cron.Cron
	mu      sync.Mutex
	entries map[string]cron.EntryID
	ctx     context.Context
	cancel  context.CancelFunc
}

func New() *Cron {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	ctx, cancel := context.WithCancel(context.Background())

	return &Cron{
		cron:    cron.New(cron.WithParser(parser)),
		entries: make(map[string]cron.EntryID),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// AddJob registers job under spec.
func (c *Cron) AddJob(job Job, spec string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[job.Name()]; ok {
		return ErrDuplicateJob
	}

	id, err := c.cron.AddFunc(spec, c.wrap(job, spec))
	if err != nil {
		slog.Error("failed to schedule job", "job", job.Name(), "spec", spec, "error", err)
		return err
	}

	c.entries[job.Name()] = id
	slog.Info("job scheduled", "job", job.Name(), "spec", spec)
	return nil
}

// Jobs returns the registered job names.
func (c *Cron) Jobs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	return names
}

// Start begins firing jobs in the background.
func (c *Cron) Start() {
	c.cron.Start()
}

// Stop cancels the context handed to running jobs and waits for them to
// return, or for ctx to end.
func (c *Cron) Stop(ctx context.Context) error {
	c.cancel()
	done := c.cron.Stop()

	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Cron) wrap(job Job, spec string) func() {
	running := atomic.NewBool(false)
	return func() {
		c.runOnce(job, spec, running)
	}
}

func (c *Cron) runOnce(job Job, spec string, running *atomic.Bool) {
	if !running.CompareAndSwap(false, true) {
		slog.Info("job skipped: still running", "job", job.Name(), "spec", spec)
		return
	}
	defer running.Store(false)

	start := time.Now()
	if err := job.Run(c.ctx); err != nil {
		slog.ErrorContext(c.ctx, "job finished", "job", job.Name(), "duration", time.Since(start), "error", err)
		return
	}
	slog.DebugContext(c.ctx, "job finished", "job", job.Name(), "duration", time.Since(start))
}

// Package schedule runs sync jobs on a cron schedule inside the process.
package schedule

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is a named unit of work the scheduler can run repeatedly.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler registers jobs against cron specs and drives them.
type Scheduler interface {
	AddJob(job Job, spec string) error
	Start(ctx context.Context)
	Stop()
}

// CronScheduler runs jobs with the standard five-field cron syntax.
// A job whose previous run has not finished is skipped for that tick.
type CronScheduler struct {
	cron    *cron.Cron
	entries map[string]cron.EntryID
	out     io.Writer
	ctx     context.Context
}

// NewCronScheduler creates a scheduler that reports job activity to out.
func NewCronScheduler(out io.Writer) *CronScheduler {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	return &CronScheduler{
		cron:    cron.New(cron.WithParser(parser)),
		entries: make(map[string]cron.EntryID),
		out:     out,
	}
}

func (c *CronScheduler) AddJob(job Job, spec string) error {
	name := job.Name()
	entryID, err := c.cron.AddFunc(spec, c.wrap(job))
	if err != nil {
		return fmt.Errorf("schedule %q with spec %q: %w", name, spec, err)
	}
	c.entries[name] = entryID
	fmt.Fprintf(c.out, "[%s] scheduled with spec %q\n", name, spec)
	return nil
}

func (c *CronScheduler) Start(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	c.ctx = ctx
	c.cron.Start()
}

// Stop halts scheduling and waits for a running job to finish.
func (c *CronScheduler) Stop() {
	ctx := c.cron.Stop()
	<-ctx.Done()
}

func (c *CronScheduler) wrap(job Job) func() {
	var running atomic.Bool
	return func() {
		if !running.CompareAndSwap(false, true) {
			fmt.Fprintf(c.out, "[%s] previous run still in progress, skipping\n", job.Name())
			return
		}
		defer running.Store(false)

		ctx := c.ctx
		if ctx == nil {
			ctx = context.Background()
		}
		start := time.Now()
		fmt.Fprintf(c.out, "[%s] run started\n", job.Name())
		err := job.Run(ctx)
		elapsed := time.Since(start).Round(time.Millisecond)
		if err != nil {
			fmt.Fprintf(c.out, "[%s] run failed after %s: %v\n", job.Name(), elapsed, err)
			return
		}
		fmt.Fprintf(c.out, "[%s] run finished in %s\n", job.Name(), elapsed)
	}
}

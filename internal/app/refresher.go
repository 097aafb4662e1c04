package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	appLog "github.com/franeklasinski/ai-mentors-llms/internal/log"
)

// Loader reloads one cached collection.
type Loader interface {
	Load(ctx context.Context) error
}

// Job is a named Loader run by the Refresher.
type Job struct {
	Name   string
	Loader Loader
}

// Refresher reloads every page cache on a cron schedule so views opened
// without user interaction (the snapshot, the ICS feed) stay current.
type Refresher struct {
	spec    string
	loc     *time.Location
	timeout time.Duration
	jobs    []Job

	mu   sync.Mutex
	cron *cron.Cron
}

// NewRefresher schedules jobs on spec (standard 5-field cron or a
// descriptor such as "@every 5m"). Each cycle is bounded by timeout when
// it is positive.
func NewRefresher(spec string, loc *time.Location, timeout time.Duration, jobs ...Job) *Refresher {
	if loc == nil {
		loc = time.Local
	}
	return &Refresher{spec: spec, loc: loc, timeout: timeout, jobs: jobs}
}

// RefreshNow runs every job once, in order, and joins their errors.
func (r *Refresher) RefreshNow(ctx context.Context) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	var errs []error
	for _, j := range r.jobs {
		if err := j.Loader.Load(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", j.Name, err))
		}
	}
	err := errors.Join(errs...)
	if err != nil {
		appLog.Error("refresh cycle incomplete", err, "jobs", len(r.jobs), "failed", len(errs))
	} else {
		appLog.Info("refresh cycle done", "jobs", len(r.jobs), "took", time.Since(start))
	}
	return err
}

// Start schedules the refresh. Overlapping runs are skipped. The jobs use
// ctx, so cancelling it aborts in-flight requests.
func (r *Refresher) Start(ctx context.Context) error {
	c := cron.New(
		cron.WithLocation(r.loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if _, err := c.AddFunc(r.spec, func() { _ = r.RefreshNow(ctx) }); err != nil {
		return fmt.Errorf("refresh schedule %q: %w", r.spec, err)
	}

	r.mu.Lock()
	r.cron = c
	r.mu.Unlock()

	c.Start()
	appLog.Info("refresher started", "spec", r.spec, "jobs", len(r.jobs))
	return nil
}

// Stop halts the schedule and waits for a running cycle to finish.
func (r *Refresher) Stop() {
	r.mu.Lock()
	c := r.cron
	r.cron = nil
	r.mu.Unlock()
	if c == nil {
		return
	}
	<-c.Stop().Done()
	appLog.Info("refresher stopped")
}

package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var (
	mTicks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lms_scheduler_ticks_total", Help: "Cron-triggered runs",
	})
	mTickErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lms_scheduler_tick_errors_total", Help: "Cron-triggered runs that failed",
	})
)

// Job is one full notifier run. Every invocation is independent and
// stateless; a failed run waits for the next tick.
type Job func(ctx context.Context) error

// Runner fires the job on cron specs for deployments without an external
// scheduler. One-shot mode bypasses it entirely. Specs are evaluated in
// loc so the notification windows stay aligned with portal-local time.
type Runner struct {
	Log   *zap.Logger
	Specs []string
	Job   Job

	loc *time.Location
}

func New(log *zap.Logger, specs []string, loc *time.Location, job Job) *Runner {
	return &Runner{
		Log:   log.With(zap.String("component", "scheduler")),
		Specs: specs,
		Job:   job,
		loc:   loc,
	}
}

func (r *Runner) Run(ctx context.Context) error {
	c := cron.New(cron.WithLocation(r.loc))
	for _, spec := range r.Specs {
		spec := spec
		if _, err := c.AddFunc(spec, func() {
			mTicks.Inc()
			if err := r.Job(ctx); err != nil {
				mTickErrors.Inc()
				r.Log.Warn("scheduled run failed", zap.String("spec", spec), zap.Error(err))
			}
		}); err != nil {
			return fmt.Errorf("add cron spec %q: %w", spec, err)
		}
	}

	c.Start()
	r.Log.Info("scheduler started", zap.Strings("specs", r.Specs))

	<-ctx.Done()
	<-c.Stop().Done()
	return ctx.Err()
}

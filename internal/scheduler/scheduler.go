// Package scheduler provides interval-based repeated execution for the
// watch command. Point lists drift as controllers are commissioned and
// renamed, so a run can be re-executed on a fixed interval to keep the
// sink snapshot current.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/birdlab-tech/building-analytics/internal/logger"
	"github.com/birdlab-tech/building-analytics/internal/runtime"
	"github.com/birdlab-tech/building-analytics/pkg/filterrun"
)

// MinInterval guards against accidental tight polling loops against a
// BMS controller.
const MinInterval = time.Second

// ErrNoSchedule is returned when Run is called for a spec without a
// schedule and no interval override.
var ErrNoSchedule = errors.New("run has no schedule and no interval was given")

// Scheduler repeatedly executes one run spec.
type Scheduler struct {
	spec     *filterrun.Spec
	interval time.Duration
	opts     runtime.Options

	// OnResult, when set, receives every cycle's result. Used by the
	// watch command for per-cycle reporting.
	OnResult func(*filterrun.Result)
}

// New creates a scheduler for the spec. The interval override wins over
// the spec's own schedule; pass 0 to use the schedule.
func New(spec *filterrun.Spec, interval time.Duration, opts runtime.Options) (*Scheduler, error) {
	if interval == 0 && spec.Schedule != nil {
		interval = spec.Schedule.Interval
	}
	if interval == 0 {
		return nil, ErrNoSchedule
	}
	if interval < MinInterval {
		interval = MinInterval
	}
	return &Scheduler{spec: spec, interval: interval, opts: opts}, nil
}

// Interval returns the effective cycle interval.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Run executes the spec immediately and then once per interval until
// the context is canceled. Failed cycles are logged and do not stop the
// loop; the next tick runs normally. Returns the context's error on
// shutdown.
func (s *Scheduler) Run(ctx context.Context) error {
	logger.Info("watch started",
		"run_name", s.spec.Name,
		"interval", s.interval,
	)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.cycle(ctx)
	for {
		select {
		case <-ctx.Done():
			logger.Info("watch stopped", "run_name", s.spec.Name)
			return ctx.Err()
		case <-ticker.C:
			s.cycle(ctx)
		}
	}
}

func (s *Scheduler) cycle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	result, err := runtime.Execute(ctx, s.spec, s.opts)
	if err != nil {
		logger.Error("watch cycle failed",
			"run_name", s.spec.Name,
			"error", err.Error(),
		)
	}
	if s.OnResult != nil && result != nil {
		s.OnResult(result)
	}
}

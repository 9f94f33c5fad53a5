package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/birdlab-tech/building-analytics/internal/runtime"
	"github.com/birdlab-tech/building-analytics/pkg/filterrun"
	"github.com/birdlab-tech/building-analytics/pkg/labelfilter"
)

func watchSpec() *filterrun.Spec {
	p := labelfilter.New()
	p.SetSourceLabels([]string{"Zone 3 Temperature", "Lobby Lighting"})
	p.AddBlockerStage("Drop lighting").AddFilter("*Lighting*", labelfilter.ActionBlock, true)
	return &filterrun.Spec{Name: "watched", Pipeline: p}
}

func TestNewIntervalResolution(t *testing.T) {
	spec := watchSpec()

	t.Run("no schedule and no override", func(t *testing.T) {
		if _, err := New(spec, 0, runtime.Options{}); !errors.Is(err, ErrNoSchedule) {
			t.Errorf("error = %v, want ErrNoSchedule", err)
		}
	})

	t.Run("schedule interval", func(t *testing.T) {
		spec := watchSpec()
		spec.Schedule = &filterrun.Schedule{Interval: 5 * time.Minute}
		s, err := New(spec, 0, runtime.Options{})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if s.Interval() != 5*time.Minute {
			t.Errorf("Interval() = %v, want 5m", s.Interval())
		}
	})

	t.Run("override wins over schedule", func(t *testing.T) {
		spec := watchSpec()
		spec.Schedule = &filterrun.Schedule{Interval: 5 * time.Minute}
		s, err := New(spec, time.Minute, runtime.Options{})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if s.Interval() != time.Minute {
			t.Errorf("Interval() = %v, want 1m", s.Interval())
		}
	})

	t.Run("tight interval is clamped", func(t *testing.T) {
		s, err := New(watchSpec(), time.Millisecond, runtime.Options{})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if s.Interval() != MinInterval {
			t.Errorf("Interval() = %v, want %v", s.Interval(), MinInterval)
		}
	})
}

func TestRunExecutesImmediatelyAndStopsOnCancel(t *testing.T) {
	s, err := New(watchSpec(), time.Hour, runtime.Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var cycles atomic.Int32
	s.OnResult = func(r *filterrun.Result) {
		if r.Status != filterrun.StatusSuccess {
			t.Errorf("cycle status = %q", r.Status)
		}
		cycles.Add(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for cycles.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("first cycle did not run")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not stop after cancel")
	}

	if cycles.Load() != 1 {
		t.Errorf("cycles = %d, want 1 (hour interval)", cycles.Load())
	}
}

package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/danielmalvaez/WaterAnalysis-MexicoCity/internal/dataset"
)

// Refresher reloads a cached dataset.
type Refresher interface {
	Refresh(ctx context.Context, ref dataset.Ref) error
}

// Scheduler periodically refreshes cached datasets so requests rarely pay for
// a cold load.
type Scheduler struct {
	scheduler *gocron.Scheduler
	cache     Refresher
	refs      []dataset.Ref
	interval  time.Duration
	timeout   time.Duration
}

// New creates a new Scheduler. Nothing runs until Start.
func New(cache Refresher, refs []dataset.Ref, interval time.Duration) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		cache:     cache,
		refs:      refs,
		interval:  interval,
		timeout:   5 * time.Minute,
	}
}

// Start schedules the refresh job, first run immediately, and returns. A
// non-positive interval disables refreshing.
func (s *Scheduler) Start() error {
	if s.interval <= 0 || len(s.refs) == 0 {
		slog.Info("dataset refresh disabled", "interval", s.interval, "datasets", len(s.refs))
		return nil
	}

	_, err := s.scheduler.Every(s.interval).SingletonMode().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.RunOnce(ctx)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	slog.Info("dataset refresh scheduled", "interval", s.interval, "datasets", len(s.refs))
	return nil
}

// RunOnce refreshes every dataset and returns the number that failed.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	failed := 0
	for _, ref := range s.refs {
		if err := s.cache.Refresh(ctx, ref); err != nil {
			failed++
			slog.ErrorContext(ctx, "dataset refresh failed", "dataset", ref.Key(), "error", err)
		}
	}
	return failed
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

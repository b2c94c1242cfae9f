package usecase

import (
	"context"
	"log/slog"
	"time"

	"WeeklyWatch/internal/ports"
)

// Scheduler wires the recurring driver with the pipeline use case.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	logger   *slog.Logger
}

// NewScheduler returns a helper that runs the pipeline on every trigger.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{driver: driver, pipeline: pipeline, logger: logger}
}

// Run blocks until ctx is cancelled. A failed or panicking run is logged and
// the driver keeps waiting for the next trigger.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	return s.driver.Run(ctx, s.runOnce)
}

func (s *Scheduler) runOnce(ctx context.Context, at time.Time) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("weekly run panicked", "panic", r)
		}
	}()

	if _, err := s.pipeline.Run(ctx, at); err != nil {
		s.logger.Error("weekly run failed", "error", err)
	}
}

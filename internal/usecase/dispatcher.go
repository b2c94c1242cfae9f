package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"WeeklyWatch/internal/domain"
	"WeeklyWatch/internal/metrics"
	"WeeklyWatch/internal/ports"
)

// DefaultDispatchTimeout bounds a single channel delivery.
const DefaultDispatchTimeout = 2 * time.Minute

// DispatchResult lists which channels delivered the report and which failed.
type DispatchResult struct {
	Delivered []string
	Failed    []string
	Failures  map[string]error
}

// Err joins every channel failure in dispatch order, or nil.
func (r DispatchResult) Err() error {
	var errs []error
	for _, name := range r.Failed {
		errs = append(errs, fmt.Errorf("%s: %w", name, r.Failures[name]))
	}
	return errors.Join(errs...)
}

// Dispatcher fans a compiled report out to its channels, one after another.
type Dispatcher struct {
	channels []ports.Channel
	timeout  time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewDispatcher(channels []ports.Channel, timeout time.Duration, logger *slog.Logger, m *metrics.Metrics) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultDispatchTimeout
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher{channels: channels, timeout: timeout, logger: logger, metrics: m}
}

// Dispatch tries every channel exactly once in order. A failing channel does
// not prevent the next one from being attempted.
func (d *Dispatcher) Dispatch(ctx context.Context, report domain.Report) DispatchResult {
	result := DispatchResult{Failures: map[string]error{}}

	for _, ch := range d.channels {
		name := ch.Name()

		err := d.send(ctx, ch, report)
		d.metrics.ObserveDispatch(name, err)
		if err != nil {
			d.logger.Error("alert failed", "channel", name, "error", err)
			result.Failed = append(result.Failed, name)
			result.Failures[name] = err
			continue
		}

		d.logger.Info("alert sent", "channel", name, "report", report.Path)
		result.Delivered = append(result.Delivered, name)
	}

	return result
}

func (d *Dispatcher) send(ctx context.Context, ch ports.Channel, report domain.Report) (err error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("channel panicked: %v", r)
		}
	}()

	return ch.Send(ctx, report)
}

package scheduler

import (
	"context"
	"log/slog"
	"time"

	"WeeklyWatch/internal/ports"
)

// DefaultPollInterval is how often the loop re-checks its trigger.
const DefaultPollInterval = time.Minute

// Ticker is the part of time.Ticker the loop needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type stdTicker struct{ *time.Ticker }

func (t stdTicker) C() <-chan time.Time { return t.Ticker.C }

// Loop polls a Trigger and runs the job inline whenever it is due, so two
// runs never overlap. A run that outlasts the poll interval only delays the
// next check.
type Loop struct {
	trigger   *Trigger
	poll      time.Duration
	now       func() time.Time
	newTicker func(time.Duration) Ticker
	logger    *slog.Logger
}

var _ ports.Scheduler = (*Loop)(nil)

// Option customises a Loop.
type Option func(*Loop)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Loop) { l.now = now }
}

// WithTicker replaces the poll ticker factory.
func WithTicker(factory func(time.Duration) Ticker) Option {
	return func(l *Loop) { l.newTicker = factory }
}

func NewLoop(trigger *Trigger, poll time.Duration, logger *slog.Logger, opts ...Option) *Loop {
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	l := &Loop{
		trigger: trigger,
		poll:    poll,
		now:     time.Now,
		newTicker: func(d time.Duration) Ticker {
			return stdTicker{time.NewTicker(d)}
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run blocks until ctx is cancelled. The trigger is checked immediately and
// then on every tick.
func (l *Loop) Run(ctx context.Context, job func(context.Context, time.Time)) error {
	if job == nil || l.trigger == nil {
		return nil
	}

	l.logger.Info("scheduler started", "next", l.trigger.Next())

	ticker := l.newTicker(l.poll)
	defer ticker.Stop()

	l.check(ctx, job)
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("scheduler stopped")
			return nil
		case <-ticker.C():
			l.check(ctx, job)
		}
	}
}

func (l *Loop) check(ctx context.Context, job func(context.Context, time.Time)) {
	now := l.now()
	if !l.trigger.Due(now) {
		return
	}

	job(ctx, now)

	l.trigger.Advance(l.now())
	l.logger.Info("next run scheduled", "at", l.trigger.Next())
}

package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultSpec fires every Monday at 09:00.
const DefaultSpec = "0 9 * * 1"

// Trigger tracks the next instant a cron expression fires. Instants that
// pass while nobody checks are skipped, not queued.
type Trigger struct {
	schedule cron.Schedule
	loc      *time.Location
	next     time.Time
}

// NewTrigger parses a standard five-field spec (descriptors like @weekly are
// accepted) and arms it relative to now.
func NewTrigger(spec string, loc *time.Location, now time.Time) (*Trigger, error) {
	if spec == "" {
		spec = DefaultSpec
	}
	if loc == nil {
		loc = time.Local
	}

	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", spec, err)
	}

	t := &Trigger{schedule: schedule, loc: loc}
	t.Advance(now)
	return t, nil
}

// Due reports whether the armed instant has been reached.
func (t *Trigger) Due(now time.Time) bool {
	return !now.Before(t.next)
}

// Advance re-arms the trigger to the first instant strictly after now.
func (t *Trigger) Advance(now time.Time) {
	t.next = t.schedule.Next(now.In(t.loc))
}

// Next returns the armed instant.
func (t *Trigger) Next() time.Time {
	return t.next
}

// Package conflict finds scheduled events whose time range overlaps a
// proposed one on the same date.
//
// Conflicts are advisory. Detect is pure and reports bad input as an error;
// Checker wraps it with the store read and never fails, so callers can show
// a warning and carry on with the write.
package conflict

import (
	"context"

	"github.com/alexdunne/not-so-smart-cal/scheduler"
	"github.com/alexdunne/not-so-smart-cal/scheduler/dateutil"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Candidate is the interval being proposed. ExcludeEventID is set when an
// existing event is being edited so that it does not collide with itself.
type Candidate struct {
	Date           string `json:"date"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	ExcludeEventID string `json:"excludeEventId"`
}

// Overlaps reports whether [s1,e1) and [s2,e2) intersect. Ranges that only
// touch do not overlap.
func Overlaps(s1, e1, s2, e2 int) bool {
	return s1 < e2 && s2 < e1
}

// Detect returns the events in pool that conflict with c, in pool order.
// Only scheduled events on c.Date are considered. Pool events whose own
// times cannot be parsed are skipped.
func Detect(c Candidate, pool []*scheduler.Event) ([]*scheduler.Event, error) {
	date, start, end, err := c.interval()
	if err != nil {
		return nil, err
	}

	conflicts := make([]*scheduler.Event, 0)
	for _, e := range pool {
		if e.Status != scheduler.StatusScheduled || e.EventDate != date {
			continue
		}
		if c.ExcludeEventID != "" && e.ID == c.ExcludeEventID {
			continue
		}

		s, en, err := e.Interval()
		if err != nil {
			continue
		}
		if Overlaps(start, end, s, en) {
			conflicts = append(conflicts, e)
		}
	}

	return conflicts, nil
}

func (c Candidate) interval() (date string, start, end int, err error) {
	if date, err = dateutil.NormalizeDate(c.Date); err != nil {
		return "", 0, 0, err
	}
	if start, err = dateutil.ToMinutes(c.StartTime); err != nil {
		return "", 0, 0, err
	}
	if end, err = dateutil.ToMinutes(c.EndTime); err != nil {
		return "", 0, 0, err
	}
	if start >= end {
		return "", 0, 0, errors.Wrapf(scheduler.ErrInvalidRange, "%s-%s", c.StartTime, c.EndTime)
	}
	return date, start, end, nil
}

// Report is the outcome of an advisory check. Err is set when the check
// could not be carried out; Conflicts is then empty.
type Report struct {
	Conflicts    []*scheduler.Event `json:"conflicts"`
	HasConflicts bool               `json:"hasConflicts"`
	Err          error              `json:"-"`
}

const (
	ConflictWarning = "Another event exists at this time. This event will still be saved."
	FailedWarning   = "Conflicts could not be checked. This event will still be saved."
)

// Warning is the message shown next to a write, or "" when there is nothing
// to say.
func (r Report) Warning() string {
	switch {
	case r.Err != nil:
		return FailedWarning
	case r.HasConflicts:
		return ConflictWarning
	}
	return ""
}

// EventReader is the read the checker needs from the event store.
type EventReader interface {
	FindScheduledEventsByDate(ctx context.Context, date string) ([]*scheduler.Event, error)
}

type Checker struct {
	events EventReader
	logger *zap.Logger
}

func NewChecker(events EventReader, logger *zap.Logger) *Checker {
	return &Checker{
		events: events,
		logger: logger,
	}
}

// Check loads the scheduled events of c.Date and runs Detect over them. It
// fails open: a store error produces an empty report carrying
// ErrUpstreamUnavailable.
func (ch *Checker) Check(ctx context.Context, c Candidate) Report {
	date, _, _, err := c.interval()
	if err != nil {
		return Report{Conflicts: []*scheduler.Event{}, Err: err}
	}

	pool, err := ch.events.FindScheduledEventsByDate(ctx, date)
	if err != nil {
		ch.logger.Warn("conflict check failed, continuing without it",
			zap.String("date", date),
			zap.Error(err),
		)
		return Report{
			Conflicts: []*scheduler.Event{},
			Err:       errors.Wrapf(scheduler.ErrUpstreamUnavailable, "reading events for %s: %v", date, err),
		}
	}

	conflicts, err := Detect(c, pool)
	if err != nil {
		return Report{Conflicts: []*scheduler.Event{}, Err: err}
	}

	if len(conflicts) > 0 {
		ch.logger.Info("conflicts detected",
			zap.String("date", date),
			zap.String("start", c.StartTime),
			zap.String("end", c.EndTime),
			zap.Int("count", len(conflicts)),
		)
	}

	return Report{
		Conflicts:    conflicts,
		HasConflicts: len(conflicts) > 0,
	}
}

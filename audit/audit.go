// Package audit recomputes the conflicts between stored events and records
// them so that event views can show a conflict badge without running a
// check per request.
package audit

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/alexdunne/not-so-smart-cal/scheduler"
	"github.com/alexdunne/not-so-smart-cal/scheduler/conflict"
	"github.com/alexdunne/not-so-smart-cal/scheduler/dateutil"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type EventReader interface {
	FindEventsBetween(ctx context.Context, from, to string) ([]*scheduler.Event, error)
}

type Auditor struct {
	Events EventReader
	Store  scheduler.ConflictStore
	Logger *zap.Logger
}

// Result describes one audited date.
type Result struct {
	Date        string
	Events      int
	Conflicting int
}

// AuditDate records, for every scheduled event on date, the ids of the
// scheduled events it overlaps. Entries of events that are not scheduled or
// have no conflicts are cleared.
func (a *Auditor) AuditDate(ctx context.Context, date string) (Result, error) {
	date, err := dateutil.NormalizeDate(date)
	if err != nil {
		return Result{}, err
	}

	events, err := a.Events.FindEventsBetween(ctx, date, date)
	if err != nil {
		return Result{}, errors.Wrapf(err, "error fetching events for %s", date)
	}

	result := Result{Date: date, Events: len(events)}
	stale := make([]string, 0)

	for _, e := range events {
		if e.Status != scheduler.StatusScheduled {
			stale = append(stale, e.ID)
			continue
		}

		found, err := conflict.Detect(conflict.Candidate{
			Date:           e.EventDate,
			StartTime:      e.StartTime,
			EndTime:        e.EndTime,
			ExcludeEventID: e.ID,
		}, events)
		if err != nil {
			a.Logger.Warn("skipping event with unusable times", zap.String("eventId", e.ID), zap.Error(err))
			stale = append(stale, e.ID)
			continue
		}
		if len(found) == 0 {
			stale = append(stale, e.ID)
			continue
		}

		ids := make([]string, 0, len(found))
		for _, c := range found {
			ids = append(ids, c.ID)
		}
		if err := a.Store.SetConflicts(ctx, e.ID, ids); err != nil {
			return result, errors.Wrapf(err, "error storing conflicts for event %s", e.ID)
		}
		result.Conflicting++
	}

	if err := a.Store.ClearConflicts(ctx, stale...); err != nil {
		return result, errors.Wrapf(err, "error clearing conflicts for %s", date)
	}

	return result, nil
}

// Summary totals an AuditRange run.
type Summary struct {
	Dates       int
	Events      int
	Conflicting int
	Failed      int
}

// AuditRange audits days consecutive dates starting at from, spread across
// workers goroutines. Dates that fail are logged and counted; the run
// stops early only when ctx is cancelled.
func (a *Auditor) AuditRange(ctx context.Context, from time.Time, days, workers int) (Summary, error) {
	if days <= 0 {
		return Summary{}, nil
	}
	if workers <= 0 {
		workers = 1
	}

	pending, complete := make(chan string), make(chan workerResult)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		w := &worker{
			id:      uuid.NewString(),
			logger:  a.Logger,
			auditor: a,
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Run(ctx, pending, complete)
		}()
	}

	go func() {
		defer close(pending)
		for i := 0; i < days; i++ {
			select {
			case pending <- dateutil.FormatDate(dateutil.AddDays(from, i)):
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(complete)
	}()

	var summary Summary
	for r := range complete {
		summary.Dates++
		if r.err != nil {
			summary.Failed++
			continue
		}
		summary.Events += r.Events
		summary.Conflicting += r.Conflicting
	}

	a.Logger.Info("audit finished",
		zap.Int("dates", summary.Dates),
		zap.Int("events", summary.Events),
		zap.Int("conflicting", summary.Conflicting),
		zap.Int("failed", summary.Failed),
	)

	return summary, ctx.Err()
}

// HandleMessage audits the dates touched by a lifecycle message. It has the
// shape of a rabbitmq.Handler.
func (a *Auditor) HandleMessage(ctx context.Context, routingKey string, body []byte) error {
	var msg scheduler.EventMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return errors.Wrap(err, "error unmarshaling event message")
	}
	if msg.Event == nil {
		return errors.New("event message without an event")
	}

	a.Logger.Info("auditing event change",
		zap.String("routingKey", routingKey),
		zap.String("eventId", msg.Event.ID),
		zap.Strings("dates", msg.Dates()),
	)

	if routingKey == scheduler.EventDeleted {
		if err := a.Store.ClearConflicts(ctx, msg.Event.ID); err != nil {
			return err
		}
	}

	for _, date := range msg.Dates() {
		if _, err := a.AuditDate(ctx, date); err != nil {
			return err
		}
	}

	return nil
}

type workerResult struct {
	Result
	err error
}

type worker struct {
	id      string
	logger  *zap.Logger
	auditor *Auditor
}

func (w *worker) Run(ctx context.Context, in <-chan string, out chan<- workerResult) {
	w.logger.Debug("starting worker", zap.String("workerId", w.id))

	for date := range in {
		result, err := w.auditor.AuditDate(ctx, date)
		if err != nil {
			w.logger.Error("error auditing date", zap.String("workerId", w.id), zap.String("date", date), zap.Error(err))
		} else {
			w.logger.Debug("finished auditing date",
				zap.String("workerId", w.id),
				zap.String("date", date),
				zap.Int("conflicting", result.Conflicting),
			)
		}

		out <- workerResult{Result: result, err: err}
	}
}

package scheduler

import (
	"github.com/alexdunne/not-so-smart-cal/scheduler/dateutil"
)

// StatusChange is a requested status together with the fields that only
// exist under that status. Scheduled, Postponed and Cancelled implement it.
type StatusChange interface {
	Status() Status
	Validate() error
	apply(e *Event)
}

type Scheduled struct{}

func (Scheduled) Status() Status  { return StatusScheduled }
func (Scheduled) Validate() error { return nil }

func (Scheduled) apply(e *Event) {
	e.Status = StatusScheduled
	e.OriginalDate = ""
	e.PostponedReason = ""
}

// Postponed moves an event out of the schedule. OriginalDate, when empty,
// defaults to the event's date at the time of the first postponement.
type Postponed struct {
	Reason       string
	OriginalDate string
}

func (Postponed) Status() Status { return StatusPostponed }

func (p Postponed) Validate() error {
	if p.OriginalDate == "" {
		return nil
	}
	_, err := dateutil.ParseDate(p.OriginalDate)
	return err
}

func (p Postponed) apply(e *Event) {
	if e.OriginalDate == "" {
		e.OriginalDate = p.OriginalDate
		if e.OriginalDate == "" {
			e.OriginalDate = e.EventDate
		}
	}
	e.Status = StatusPostponed
	e.PostponedReason = p.Reason
}

type Cancelled struct{}

func (Cancelled) Status() Status  { return StatusCancelled }
func (Cancelled) Validate() error { return nil }

func (Cancelled) apply(e *Event) {
	e.Status = StatusCancelled
	e.PostponedReason = ""
}

// NewStatusChange builds the variant for status from wire input. The reason
// and original date are ignored for statuses other than postponed.
func NewStatusChange(status Status, reason, originalDate string) (StatusChange, error) {
	var change StatusChange
	switch status {
	case StatusScheduled:
		change = Scheduled{}
	case StatusPostponed:
		change = Postponed{Reason: reason, OriginalDate: originalDate}
	case StatusCancelled:
		change = Cancelled{}
	default:
		_, err := ParseStatus(string(status))
		return nil, err
	}
	if err := change.Validate(); err != nil {
		return nil, err
	}
	return change, nil
}

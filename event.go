package scheduler

import (
	"strings"
	"time"

	"github.com/alexdunne/not-so-smart-cal/scheduler/dateutil"
	"github.com/pkg/errors"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusPostponed Status = "postponed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusPostponed, StatusCancelled:
		return true
	}
	return false
}

func ParseStatus(value string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(value)))
	if !s.Valid() {
		return "", errors.Wrapf(ErrValidation, "unknown status %q", value)
	}
	return s, nil
}

type Event struct {
	ID              string    `json:"id"`
	Title           string    `json:"title" validate:"required,max=200"`
	EventDate       string    `json:"eventDate" validate:"required,datetime=2006-01-02"`
	StartTime       string    `json:"startTime" validate:"required"`
	EndTime         string    `json:"endTime" validate:"required"`
	Status          Status    `json:"status" validate:"required,oneof=scheduled postponed cancelled"`
	Location        string    `json:"location"`
	Description     string    `json:"description"`
	Facilitator     string    `json:"facilitator"`
	CreatedBy       string    `json:"createdBy" validate:"required"`
	OriginalDate    string    `json:"originalDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	PostponedReason string    `json:"postponedReason,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Interval returns the event's start and end as minutes since midnight.
func (e *Event) Interval() (start, end int, err error) {
	if start, err = dateutil.ToMinutes(e.StartTime); err != nil {
		return 0, 0, err
	}
	if end, err = dateutil.ToMinutes(e.EndTime); err != nil {
		return 0, 0, err
	}
	if start >= end {
		return 0, 0, errors.Wrapf(ErrInvalidRange, "%s-%s", e.StartTime, e.EndTime)
	}
	return start, end, nil
}

// Validate enforces the rules the struct tags cannot express. It is run
// before every write.
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return errors.Wrap(ErrValidation, "title is required")
	}
	if _, err := dateutil.ParseDate(e.EventDate); err != nil {
		return err
	}
	if _, _, err := e.Interval(); err != nil {
		return err
	}
	if !e.Status.Valid() {
		return errors.Wrapf(ErrValidation, "unknown status %q", e.Status)
	}
	if e.OriginalDate != "" {
		if _, err := dateutil.ParseDate(e.OriginalDate); err != nil {
			return err
		}
	}
	return nil
}

// Normalize rewrites dates and times into canonical form so that string
// comparisons on them behave. Malformed values are left for Validate.
func (e *Event) Normalize() {
	e.Title = strings.TrimSpace(e.Title)
	if v, err := dateutil.NormalizeDate(e.EventDate); err == nil {
		e.EventDate = v
	}
	if v, err := dateutil.NormalizeTime(e.StartTime); err == nil {
		e.StartTime = v
	}
	if v, err := dateutil.NormalizeTime(e.EndTime); err == nil {
		e.EndTime = v
	}
	if e.Status == "" {
		e.Status = StatusScheduled
	}
}

// EventUpdate is a partial update. Nil fields are left unchanged.
type EventUpdate struct {
	Title       *string
	EventDate   *string
	StartTime   *string
	EndTime     *string
	Location    *string
	Description *string
	Facilitator *string
	Status      StatusChange
}

// Apply mutates e. The status change is applied first so that a postponement
// records the date the event had before this update moved it.
func (u EventUpdate) Apply(e *Event) {
	if u.Status != nil {
		u.Status.apply(e)
	}
	if u.Title != nil {
		e.Title = *u.Title
	}
	if u.EventDate != nil {
		e.EventDate = *u.EventDate
	}
	if u.StartTime != nil {
		e.StartTime = *u.StartTime
	}
	if u.EndTime != nil {
		e.EndTime = *u.EndTime
	}
	if u.Location != nil {
		e.Location = *u.Location
	}
	if u.Description != nil {
		e.Description = *u.Description
	}
	if u.Facilitator != nil {
		e.Facilitator = *u.Facilitator
	}
}

// FilterEvents returns the events whose status is one of statuses, keeping
// their order.
func FilterEvents(events []*Event, statuses ...Status) []*Event {
	out := make([]*Event, 0, len(events))
	for _, e := range events {
		for _, s := range statuses {
			if e.Status == s {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

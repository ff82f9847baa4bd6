// Package ical exports events as an iCalendar feed.
package ical

import (
	"io"
	"time"

	"github.com/alexdunne/not-so-smart-cal/scheduler"
	"github.com/alexdunne/not-so-smart-cal/scheduler/dateutil"
	"github.com/emersion/go-ical"
	"github.com/pkg/errors"
)

const ProductID = "-//not-so-smart-cal//scheduler//EN"

// Status maps an event status onto the VEVENT STATUS values.
func Status(s scheduler.Status) string {
	switch s {
	case scheduler.StatusPostponed:
		return "TENTATIVE"
	case scheduler.StatusCancelled:
		return "CANCELLED"
	}
	return "CONFIRMED"
}

// Encode writes events as a single VCALENDAR. Event dates and times are
// wall-clock values in loc. Events whose date or times cannot be read are
// left out.
func Encode(w io.Writer, events []*scheduler.Event, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, ProductID)

	for _, e := range events {
		ve, ok := toICal(e, loc)
		if !ok {
			continue
		}
		cal.Children = append(cal.Children, ve)
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return errors.Wrap(err, "failed to encode calendar")
	}
	return nil
}

func toICal(e *scheduler.Event, loc *time.Location) (*ical.Component, bool) {
	day, err := dateutil.ParseDateIn(e.EventDate, loc)
	if err != nil {
		return nil, false
	}
	start, end, err := e.Interval()
	if err != nil {
		return nil, false
	}

	stamp := e.UpdatedAt
	if stamp.IsZero() {
		stamp = time.Now()
	}

	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, e.ID)
	ve.Props.SetText(ical.PropSummary, e.Title)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, at(day, start))
	ve.Props.SetDateTime(ical.PropDateTimeEnd, at(day, end))
	ve.Props.SetText(ical.PropStatus, Status(e.Status))

	if e.Location != "" {
		ve.Props.SetText(ical.PropLocation, e.Location)
	}
	if e.Description != "" {
		ve.Props.SetText(ical.PropDescription, e.Description)
	}

	return ve, true
}

func at(day time.Time, minutes int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, minutes/60, minutes%60, 0, 0, day.Location())
}

package ical_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/alexdunne/not-so-smart-cal/scheduler"
	schedIcal "github.com/alexdunne/not-so-smart-cal/scheduler/ical"
	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	events := []*scheduler.Event{
		{
			ID: "a", Title: "Standup", EventDate: "2024-06-10", StartTime: "09:00", EndTime: "09:15",
			Status: scheduler.StatusScheduled, Location: "Room 1", Description: "Daily",
			UpdatedAt: time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC),
		},
		{ID: "b", Title: "Offsite", EventDate: "2024-06-11", StartTime: "13:30", EndTime: "17:00", Status: scheduler.StatusPostponed},
		{ID: "c", Title: "Retro", EventDate: "2024-06-12", StartTime: "16:00", EndTime: "17:00", Status: scheduler.StatusCancelled},
		{ID: "broken", Title: "Broken", EventDate: "2024-06-12", StartTime: "17:00", EndTime: "16:00", Status: scheduler.StatusScheduled},
	}

	var buf bytes.Buffer
	require.NoError(t, schedIcal.Encode(&buf, events, time.UTC))

	cal, err := ical.NewDecoder(&buf).Decode()
	require.NoError(t, err)

	prodID, err := cal.Props.Text(ical.PropProductID)
	require.NoError(t, err)
	assert.Equal(t, schedIcal.ProductID, prodID)

	require.Len(t, cal.Children, 3)

	byUID := make(map[string]*ical.Component)
	for _, comp := range cal.Children {
		assert.Equal(t, ical.CompEvent, comp.Name)
		uid, err := comp.Props.Text(ical.PropUID)
		require.NoError(t, err)
		byUID[uid] = comp
	}

	standup := byUID["a"]
	require.NotNil(t, standup)

	start, err := standup.Props.DateTime(ical.PropDateTimeStart, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC), start)

	end, err := standup.Props.DateTime(ical.PropDateTimeEnd, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.June, 10, 9, 15, 0, 0, time.UTC), end)

	stamp, err := standup.Props.DateTime(ical.PropDateTimeStamp, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, events[0].UpdatedAt, stamp)

	summary, _ := standup.Props.Text(ical.PropSummary)
	location, _ := standup.Props.Text(ical.PropLocation)
	assert.Equal(t, "Standup", summary)
	assert.Equal(t, "Room 1", location)

	for uid, want := range map[string]string{"a": "CONFIRMED", "b": "TENTATIVE", "c": "CANCELLED"} {
		status, err := byUID[uid].Props.Text(ical.PropStatus)
		require.NoError(t, err)
		assert.Equal(t, want, status, uid)
	}

	assert.Nil(t, byUID["b"].Props.Get(ical.PropLocation))
}

func TestEncodeEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, schedIcal.Encode(&buf, nil, nil))
	assert.Contains(t, buf.String(), "BEGIN:VCALENDAR")
}

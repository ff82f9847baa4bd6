package scheduler_test

import (
	"context"
	"testing"

	"github.com/alexdunne/not-so-smart-cal/scheduler"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEvent() *scheduler.Event {
	return &scheduler.Event{
		ID:        "evt-1",
		Title:     "Planning",
		EventDate: "2024-06-10",
		StartTime: "09:00",
		EndTime:   "10:00",
		Status:    scheduler.StatusScheduled,
		CreatedBy: "user-1",
	}
}

func TestEventValidate(t *testing.T) {
	require.NoError(t, validEvent().Validate())

	tests := []struct {
		name   string
		mutate func(e *scheduler.Event)
		want   error
	}{
		{"blank title", func(e *scheduler.Event) { e.Title = "   " }, scheduler.ErrValidation},
		{"bad date", func(e *scheduler.Event) { e.EventDate = "2024-13-01" }, scheduler.ErrInvalidDate},
		{"bad time", func(e *scheduler.Event) { e.StartTime = "9am" }, scheduler.ErrInvalidFormat},
		{"equal times", func(e *scheduler.Event) { e.EndTime = "09:00" }, scheduler.ErrInvalidRange},
		{"reversed times", func(e *scheduler.Event) { e.StartTime = "11:00" }, scheduler.ErrInvalidRange},
		{"unknown status", func(e *scheduler.Event) { e.Status = "done" }, scheduler.ErrValidation},
		{"bad original date", func(e *scheduler.Event) { e.OriginalDate = "yesterday" }, scheduler.ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEvent()
			tt.mutate(e)
			err := e.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestEventNormalize(t *testing.T) {
	e := &scheduler.Event{Title: " Standup ", EventDate: "2024-06-10", StartTime: "9:00", EndTime: "09:15:00"}
	e.Normalize()

	assert.Equal(t, "Standup", e.Title)
	assert.Equal(t, "09:00", e.StartTime)
	assert.Equal(t, "09:15", e.EndTime)
	assert.Equal(t, scheduler.StatusScheduled, e.Status)
}

func TestPostponeKeepsFirstOriginalDate(t *testing.T) {
	e := validEvent()

	newDate := "2024-06-20"
	scheduler.EventUpdate{
		EventDate: &newDate,
		Status:    scheduler.Postponed{Reason: "speaker ill"},
	}.Apply(e)

	assert.Equal(t, scheduler.StatusPostponed, e.Status)
	assert.Equal(t, "2024-06-10", e.OriginalDate)
	assert.Equal(t, "2024-06-20", e.EventDate)
	assert.Equal(t, "speaker ill", e.PostponedReason)

	later := "2024-06-27"
	scheduler.EventUpdate{EventDate: &later, Status: scheduler.Postponed{Reason: "again"}}.Apply(e)
	assert.Equal(t, "2024-06-10", e.OriginalDate, "original date is only recorded once")
	assert.Equal(t, "again", e.PostponedReason)

	scheduler.EventUpdate{Status: scheduler.Scheduled{}}.Apply(e)
	assert.Equal(t, scheduler.StatusScheduled, e.Status)
	assert.Empty(t, e.OriginalDate)
	assert.Empty(t, e.PostponedReason)
}

func TestCancelClearsReason(t *testing.T) {
	e := validEvent()
	scheduler.EventUpdate{Status: scheduler.Postponed{Reason: "weather"}}.Apply(e)
	scheduler.EventUpdate{Status: scheduler.Cancelled{}}.Apply(e)

	assert.Equal(t, scheduler.StatusCancelled, e.Status)
	assert.Empty(t, e.PostponedReason)
	assert.Equal(t, "2024-06-10", e.OriginalDate)
}

func TestNewStatusChange(t *testing.T) {
	change, err := scheduler.NewStatusChange(scheduler.StatusPostponed, "rain", "2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, scheduler.Postponed{Reason: "rain", OriginalDate: "2024-06-01"}, change)

	change, err = scheduler.NewStatusChange(scheduler.StatusCancelled, "ignored", "")
	require.NoError(t, err)
	assert.Equal(t, scheduler.Cancelled{}, change)

	_, err = scheduler.NewStatusChange(scheduler.StatusPostponed, "", "01/06/2024")
	assert.True(t, errors.Is(err, scheduler.ErrInvalidDate))

	_, err = scheduler.NewStatusChange("archived", "", "")
	assert.True(t, errors.Is(err, scheduler.ErrValidation))
}

func TestFilterEvents(t *testing.T) {
	a, b, c := validEvent(), validEvent(), validEvent()
	b.Status = scheduler.StatusCancelled
	c.Status = scheduler.StatusPostponed

	got := scheduler.FilterEvents([]*scheduler.Event{a, b, c}, scheduler.StatusScheduled, scheduler.StatusPostponed)
	assert.Equal(t, []*scheduler.Event{a, c}, got)
}

func TestUserContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, scheduler.UserFromContext(ctx))
	assert.Empty(t, scheduler.UserIDFromContext(ctx))

	u := &scheduler.User{ID: "u1", Role: scheduler.RoleAdmin}
	ctx = scheduler.NewContextWithUser(ctx, u)
	assert.Same(t, u, scheduler.UserFromContext(ctx))
	assert.Equal(t, "u1", scheduler.UserIDFromContext(ctx))
	assert.True(t, u.IsAdmin())
}

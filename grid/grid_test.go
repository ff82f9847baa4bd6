package grid_test

import (
	"testing"
	"time"

	"github.com/alexdunne/not-so-smart-cal/scheduler"
	"github.com/alexdunne/not-so-smart-cal/scheduler/dateutil"
	"github.com/alexdunne/not-so-smart-cal/scheduler/grid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func builderAt(now time.Time) *grid.Builder {
	b := grid.NewBuilder(time.UTC)
	b.Now = func() time.Time { return now }
	return b
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthFebruaryLeapYear(t *testing.T) {
	cells, err := builderAt(date(2024, time.February, 14)).Month(date(2024, time.February, 1), nil)
	require.NoError(t, err)
	require.Len(t, cells, grid.MonthCells)

	assert.Equal(t, date(2024, time.January, 28), cells[0].Date)
	assert.Equal(t, date(2024, time.March, 9), cells[41].Date)

	for i := 0; i < 4; i++ {
		assert.False(t, cells[i].IsCurrentPeriod)
		assert.Equal(t, time.January, cells[i].Date.Month())
	}
	// 4 January days + 29 February days leave 9 trailing March days.
	for i := 33; i < 42; i++ {
		assert.False(t, cells[i].IsCurrentPeriod)
		assert.Equal(t, time.March, cells[i].Date.Month())
	}

	var current []time.Time
	for _, c := range cells {
		if c.IsCurrentPeriod {
			current = append(current, c.Date)
		}
	}
	require.Len(t, current, 29)
	for i, d := range current {
		assert.Equal(t, date(2024, time.February, i+1), d)
	}
}

func TestMonthAlwaysStartsOnSunday(t *testing.T) {
	b := builderAt(date(2024, time.June, 1))
	for m := time.January; m <= time.December; m++ {
		cells, err := b.Month(date(2025, m, 17), nil)
		require.NoError(t, err)
		require.Len(t, cells, grid.MonthCells)
		assert.Equal(t, time.Sunday, cells[0].Date.Weekday(), m.String())

		var n int
		for _, c := range cells {
			if c.IsCurrentPeriod {
				n++
			}
		}
		assert.Equal(t, dateutil.DaysInMonth(2025, m), n, m.String())
	}
}

func TestTodayMarker(t *testing.T) {
	now := time.Date(2024, time.March, 2, 15, 30, 0, 0, time.UTC)
	b := builderAt(now)

	// March 2 appears as trailing padding of the February grid.
	cells, err := b.Month(date(2024, time.February, 1), nil)
	require.NoError(t, err)
	var marked []time.Time
	for _, c := range cells {
		if c.IsToday {
			marked = append(marked, c.Date)
		}
	}
	assert.Equal(t, []time.Time{date(2024, time.March, 2)}, marked)

	cells, err = b.Month(date(2024, time.May, 1), nil)
	require.NoError(t, err)
	for _, c := range cells {
		assert.False(t, c.IsToday)
	}
}

func TestTodayUsesBuilderLocation(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	b := grid.NewBuilder(loc)
	// 20:00 UTC on the 9th is already the 10th at UTC+9.
	b.Now = func() time.Time { return time.Date(2024, time.June, 9, 20, 0, 0, 0, time.UTC) }

	cells, err := b.Week(date(2024, time.June, 10), nil)
	require.NoError(t, err)
	for _, c := range cells {
		assert.Equal(t, c.Date.Day() == 10, c.IsToday, c.Date.String())
	}
}

func TestEventsBucketedAndSorted(t *testing.T) {
	long := &scheduler.Event{ID: "long", EventDate: "2024-06-10", StartTime: "09:00", EndTime: "09:30"}
	short := &scheduler.Event{ID: "short", EventDate: "2024-06-10", StartTime: "09:00", EndTime: "09:15"}
	early := &scheduler.Event{ID: "early", EventDate: "2024-06-10", StartTime: "08:00", EndTime: "08:30"}
	other := &scheduler.Event{ID: "other", EventDate: "2024-06-11", StartTime: "12:00", EndTime: "13:00"}

	cells, err := builderAt(date(2024, time.June, 1)).Month(date(2024, time.June, 1), []*scheduler.Event{long, other, short, early})
	require.NoError(t, err)

	for _, c := range cells {
		switch dateutil.FormatDate(c.Date) {
		case "2024-06-10":
			assert.Equal(t, []*scheduler.Event{early, long, short}, c.Events)
		case "2024-06-11":
			assert.Equal(t, []*scheduler.Event{other}, c.Events)
		default:
			assert.Empty(t, c.Events)
		}
	}
}

func TestEventsNonDecreasingInEveryCell(t *testing.T) {
	times := []string{"13:00", "08:30", "08:30", "17:45", "00:00", "12:15"}
	var events []*scheduler.Event
	for i, st := range times {
		events = append(events, &scheduler.Event{
			ID:        string(rune('a' + i)),
			EventDate: "2024-06-" + []string{"03", "04"}[i%2],
			StartTime: st,
			EndTime:   "23:59",
		})
	}

	cells, err := builderAt(date(2024, time.June, 1)).Month(date(2024, time.June, 1), events)
	require.NoError(t, err)
	for _, c := range cells {
		for i := 1; i < len(c.Events); i++ {
			prev, _ := dateutil.ToMinutes(c.Events[i-1].StartTime)
			cur, _ := dateutil.ToMinutes(c.Events[i].StartTime)
			assert.LessOrEqual(t, prev, cur)
		}
	}
}

func TestWeek(t *testing.T) {
	cells, err := builderAt(date(2024, time.June, 12)).Week(date(2024, time.June, 12), nil)
	require.NoError(t, err)
	require.Len(t, cells, grid.WeekCells)

	assert.Equal(t, date(2024, time.June, 9), cells[0].Date)
	assert.Equal(t, date(2024, time.June, 15), cells[6].Date)
	assert.True(t, cells[3].IsToday)
	for _, c := range cells {
		assert.True(t, c.IsCurrentPeriod)
	}
}

func TestWeekAcrossYearEnd(t *testing.T) {
	cells, err := builderAt(date(2024, time.June, 1)).Week(date(2025, time.January, 1), nil)
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.December, 29), cells[0].Date)
	assert.Equal(t, date(2025, time.January, 4), cells[6].Date)
}

func TestZeroReference(t *testing.T) {
	b := builderAt(date(2024, time.June, 1))

	_, err := b.Month(time.Time{}, nil)
	assert.True(t, errors.Is(err, scheduler.ErrInvalidDate))

	_, err = b.Week(time.Time{}, nil)
	assert.True(t, errors.Is(err, scheduler.ErrInvalidDate))
}

func TestRows(t *testing.T) {
	cells, err := builderAt(date(2024, time.June, 1)).Month(date(2024, time.June, 1), nil)
	require.NoError(t, err)

	rows := grid.Rows(cells)
	require.Len(t, rows, 6)
	for _, row := range rows {
		require.Len(t, row, 7)
		assert.Equal(t, time.Sunday, row[0].Date.Weekday())
	}
}

func TestRanges(t *testing.T) {
	b := builderAt(date(2024, time.June, 1))

	from, to, err := b.MonthRange(date(2024, time.February, 20))
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.January, 28), from)
	assert.Equal(t, date(2024, time.March, 9), to)

	from, to, err = b.WeekRange(date(2024, time.June, 15))
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.June, 9), from)
	assert.Equal(t, date(2024, time.June, 15), to)

	_, _, err = b.MonthRange(time.Time{})
	assert.True(t, errors.Is(err, scheduler.ErrInvalidDate))
}

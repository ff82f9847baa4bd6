// Package grid lays events out on month and week calendars.
package grid

import (
	"math"
	"sort"
	"time"

	"github.com/alexdunne/not-so-smart-cal/scheduler"
	"github.com/alexdunne/not-so-smart-cal/scheduler/dateutil"
	"github.com/pkg/errors"
)

const (
	MonthCells = 42
	WeekCells  = 7
)

// Cell is one day slot. IsCurrentPeriod is false for the padding days a
// month grid borrows from its neighbours.
type Cell struct {
	Date            time.Time
	IsCurrentPeriod bool
	IsToday         bool
	Events          []*scheduler.Event
}

type Builder struct {
	// Now returns the current time. "Today" is read once per build.
	Now func() time.Time

	// Location is the zone cell dates are built in and today is judged in.
	Location *time.Location
}

func NewBuilder(loc *time.Location) *Builder {
	if loc == nil {
		loc = time.Local
	}
	return &Builder{
		Now:      time.Now,
		Location: loc,
	}
}

// Month returns the 42 cells, Sunday first, covering ref's month. Only the
// calendar date of ref is used.
func (b *Builder) Month(ref time.Time, events []*scheduler.Event) ([]Cell, error) {
	start, _, err := b.MonthRange(ref)
	if err != nil {
		return nil, err
	}

	year, month, _ := ref.Date()
	return b.build(start, MonthCells, events, func(d time.Time) bool {
		return d.Year() == year && d.Month() == month
	}), nil
}

// MonthRange returns the first and last day shown by Month(ref).
func (b *Builder) MonthRange(ref time.Time) (from, to time.Time, err error) {
	if ref.IsZero() {
		return time.Time{}, time.Time{}, errors.Wrap(scheduler.ErrInvalidDate, "reference date required")
	}

	year, month, _ := ref.Date()
	first := time.Date(year, month, 1, 0, 0, 0, 0, b.Location)
	from = dateutil.AddDays(first, -dateutil.FirstWeekdayOfMonth(year, month))
	return from, dateutil.AddDays(from, MonthCells-1), nil
}

// Week returns the seven cells from the Sunday on or before ref.
func (b *Builder) Week(ref time.Time, events []*scheduler.Event) ([]Cell, error) {
	start, _, err := b.WeekRange(ref)
	if err != nil {
		return nil, err
	}

	return b.build(start, WeekCells, events, func(time.Time) bool { return true }), nil
}

// WeekRange returns the Sunday and Saturday of ref's week.
func (b *Builder) WeekRange(ref time.Time) (from, to time.Time, err error) {
	if ref.IsZero() {
		return time.Time{}, time.Time{}, errors.Wrap(scheduler.ErrInvalidDate, "reference date required")
	}

	year, month, day := ref.Date()
	from = dateutil.StartOfWeek(time.Date(year, month, day, 0, 0, 0, 0, b.Location))
	return from, dateutil.AddDays(from, WeekCells-1), nil
}

func (b *Builder) build(start time.Time, n int, events []*scheduler.Event, current func(time.Time) bool) []Cell {
	today := b.Now().In(b.Location)
	byDate := Bucket(events)

	cells := make([]Cell, n)
	for i := range cells {
		d := dateutil.AddDays(start, i)
		cells[i] = Cell{
			Date:            d,
			IsCurrentPeriod: current(d),
			IsToday:         dateutil.IsSameDay(d, today),
			Events:          SortByStartTime(byDate[dateutil.FormatDate(d)]),
		}
	}
	return cells
}

// Bucket groups events by EventDate, keeping input order within each day.
func Bucket(events []*scheduler.Event) map[string][]*scheduler.Event {
	out := make(map[string][]*scheduler.Event)
	for _, e := range events {
		out[e.EventDate] = append(out[e.EventDate], e)
	}
	return out
}

// SortByStartTime returns a copy of events ordered by start time. Equal
// start times keep their input order; unparseable ones sort last.
func SortByStartTime(events []*scheduler.Event) []*scheduler.Event {
	out := make([]*scheduler.Event, len(events))
	copy(out, events)

	key := func(e *scheduler.Event) int {
		m, err := dateutil.ToMinutes(e.StartTime)
		if err != nil {
			return math.MaxInt32
		}
		return m
	}
	sort.SliceStable(out, func(i, j int) bool {
		return key(out[i]) < key(out[j])
	})
	return out
}

// Rows splits cells into weeks of seven.
func Rows(cells []Cell) [][]Cell {
	rows := make([][]Cell, 0, (len(cells)+WeekCells-1)/WeekCells)
	for i := 0; i < len(cells); i += WeekCells {
		end := i + WeekCells
		if end > len(cells) {
			end = len(cells)
		}
		rows = append(rows, cells[i:end])
	}
	return rows
}

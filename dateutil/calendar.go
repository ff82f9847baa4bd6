package dateutil

import (
	"time"

	"github.com/pkg/errors"
)

// ParseDate parses a "YYYY-MM-DD" date at midnight UTC.
func ParseDate(value string) (time.Time, error) {
	return ParseDateIn(value, time.UTC)
}

// ParseDateIn parses a "YYYY-MM-DD" date at midnight in loc.
func ParseDateIn(value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return time.Time{}, errors.Wrapf(ErrInvalidDate, "date %q", value)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// NormalizeDate validates value and returns it in canonical form.
func NormalizeDate(value string) (string, error) {
	t, err := ParseDate(value)
	if err != nil {
		return "", err
	}
	return FormatDate(t), nil
}

func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekdayOfMonth returns the weekday of the 1st, 0 being Sunday.
func FirstWeekdayOfMonth(year int, month time.Month) int {
	return int(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday())
}

// IsSameDay compares the calendar date components of a and b, ignoring the
// time of day.
func IsSameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

func AddWeeks(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, 7*n)
}

// AddMonths moves t by n months. Overflowing days roll into the following
// month, so Jan 31 plus one month lands in early March.
func AddMonths(t time.Time, n int) time.Time {
	return t.AddDate(0, n, 0)
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// StartOfWeek returns midnight of the Sunday on or before t.
func StartOfWeek(t time.Time) time.Time {
	return AddDays(StartOfDay(t), -int(t.Weekday()))
}

// WeekDays returns the seven days, Sunday first, of the week containing t.
func WeekDays(t time.Time) []time.Time {
	start := StartOfWeek(t)
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = AddDays(start, i)
	}
	return days
}

// FormatWeekRange renders the week containing t as "Jun 9 - Jun 15". The
// year is appended when the week crosses into a new one.
func FormatWeekRange(t time.Time) string {
	start := StartOfWeek(t)
	end := AddDays(start, 6)

	endLayout := "Jan 2"
	if start.Year() != end.Year() {
		endLayout = "Jan 2, 2006"
	}
	return start.Format("Jan 2") + " - " + end.Format(endLayout)
}

func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

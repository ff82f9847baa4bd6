// Package dateutil holds the date and time-of-day helpers shared by the
// conflict detector, the calendar grids and the dashboards.
//
// Dates travel as "YYYY-MM-DD" strings and times of day as "HH:MM" strings,
// the same shape the event store returns them in.
package dateutil

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/pkg/errors"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var (
	ErrInvalidFormat = errors.New("invalid time format")
	ErrInvalidDate   = errors.New("invalid date")
)

// SQL time columns come back with seconds, so a trailing ":SS" is tolerated.
var timeOfDay = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)

// ToMinutes converts an "HH:MM" time of day into minutes since midnight.
func ToMinutes(value string) (int, error) {
	m := timeOfDay.FindStringSubmatch(value)
	if m == nil {
		return 0, errors.Wrapf(ErrInvalidFormat, "time %q", value)
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return 0, errors.Wrapf(ErrInvalidFormat, "time %q out of range", value)
	}
	if m[3] != "" {
		if second, _ := strconv.Atoi(m[3]); second > 59 {
			return 0, errors.Wrapf(ErrInvalidFormat, "time %q out of range", value)
		}
	}

	return hour*60 + minute, nil
}

// FormatMinutes is the inverse of ToMinutes.
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// NormalizeTime rewrites a valid time of day as zero padded "HH:MM".
func NormalizeTime(value string) (string, error) {
	minutes, err := ToMinutes(value)
	if err != nil {
		return "", err
	}
	return FormatMinutes(minutes), nil
}

// FormatTime12h renders "13:05" as "1:05 PM". Midnight is 12 AM, noon 12 PM.
func FormatTime12h(value string) (string, error) {
	minutes, err := ToMinutes(value)
	if err != nil {
		return "", err
	}

	hour, minute := minutes/60, minutes%60
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	hour %= 12
	if hour == 0 {
		hour = 12
	}

	return fmt.Sprintf("%d:%02d %s", hour, minute, period), nil
}

// Duration returns the number of minutes between two times of day.
func Duration(start, end string) (int, error) {
	s, err := ToMinutes(start)
	if err != nil {
		return 0, err
	}
	e, err := ToMinutes(end)
	if err != nil {
		return 0, err
	}
	return e - s, nil
}

// FormatDuration renders a minute count as "45m", "2h" or "1h 30m".
func FormatDuration(minutes int) string {
	switch {
	case minutes < 60:
		return fmt.Sprintf("%dm", minutes)
	case minutes%60 == 0:
		return fmt.Sprintf("%dh", minutes/60)
	default:
		return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
	}
}

// IsTimeBetween reports whether value falls in the half-open range [start, end).
func IsTimeBetween(value, start, end string) (bool, error) {
	v, err := ToMinutes(value)
	if err != nil {
		return false, err
	}
	s, err := ToMinutes(start)
	if err != nil {
		return false, err
	}
	e, err := ToMinutes(end)
	if err != nil {
		return false, err
	}
	return v >= s && v < e, nil
}

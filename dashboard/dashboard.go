// Package dashboard computes the summary figures shown on the landing
// pages. All functions are pure; dates are compared as YYYY-MM-DD strings.
package dashboard

import (
	"sort"
	"time"

	"github.com/alexdunne/not-so-smart-cal/scheduler"
	"github.com/alexdunne/not-so-smart-cal/scheduler/dateutil"
	"github.com/alexdunne/not-so-smart-cal/scheduler/grid"
)

const (
	UpcomingLimit = 5
	RecentLimit   = 3
	WeekAhead     = 7
)

type Summary struct {
	Today    int `json:"today"`
	ThisWeek int `json:"thisWeek"`
	Upcoming int `json:"upcoming"`

	TodayEvents    []*scheduler.Event       `json:"todayEvents"`
	UpcomingEvents []*scheduler.Event       `json:"upcomingEvents"`
	RecentEvents   []*scheduler.Event       `json:"recentEvents"`
	ByStatus       map[scheduler.Status]int `json:"byStatus"`
}

// Summarize builds the user dashboard for the day today. Today, ThisWeek and
// Upcoming count scheduled events only; ThisWeek spans today and the
// following WeekAhead days. Recent events are past events of any status,
// newest first.
func Summarize(events []*scheduler.Event, today time.Time) Summary {
	todayStr := dateutil.FormatDate(today)
	weekEnd := dateutil.FormatDate(dateutil.AddDays(today, WeekAhead))

	s := Summary{
		TodayEvents:    make([]*scheduler.Event, 0),
		UpcomingEvents: make([]*scheduler.Event, 0),
		RecentEvents:   make([]*scheduler.Event, 0),
		ByStatus: map[scheduler.Status]int{
			scheduler.StatusScheduled: 0,
			scheduler.StatusPostponed: 0,
			scheduler.StatusCancelled: 0,
		},
	}

	for _, e := range events {
		s.ByStatus[e.Status]++

		if e.EventDate < todayStr {
			s.RecentEvents = append(s.RecentEvents, e)
			continue
		}
		if e.Status != scheduler.StatusScheduled {
			continue
		}

		if e.EventDate == todayStr {
			s.Today++
			s.TodayEvents = append(s.TodayEvents, e)
		} else {
			s.Upcoming++
			s.UpcomingEvents = append(s.UpcomingEvents, e)
		}
		if e.EventDate <= weekEnd {
			s.ThisWeek++
		}
	}

	s.TodayEvents = grid.SortByStartTime(s.TodayEvents)

	sort.SliceStable(s.UpcomingEvents, func(i, j int) bool {
		return s.UpcomingEvents[i].EventDate < s.UpcomingEvents[j].EventDate
	})
	if len(s.UpcomingEvents) > UpcomingLimit {
		s.UpcomingEvents = s.UpcomingEvents[:UpcomingLimit]
	}

	sort.SliceStable(s.RecentEvents, func(i, j int) bool {
		return s.RecentEvents[i].EventDate > s.RecentEvents[j].EventDate
	})
	if len(s.RecentEvents) > RecentLimit {
		s.RecentEvents = s.RecentEvents[:RecentLimit]
	}

	return s
}

type CreatorCount struct {
	CreatedBy string `json:"createdBy"`
	Events    int    `json:"events"`
}

type AdminSummary struct {
	Summary
	Total     int            `json:"total"`
	ByCreator []CreatorCount `json:"byCreator"`
}

// SummarizeAdmin adds totals per creator, busiest first.
func SummarizeAdmin(events []*scheduler.Event, today time.Time) AdminSummary {
	counts := make(map[string]int)
	for _, e := range events {
		counts[e.CreatedBy]++
	}

	byCreator := make([]CreatorCount, 0, len(counts))
	for id, n := range counts {
		byCreator = append(byCreator, CreatorCount{CreatedBy: id, Events: n})
	}
	sort.Slice(byCreator, func(i, j int) bool {
		if byCreator[i].Events != byCreator[j].Events {
			return byCreator[i].Events > byCreator[j].Events
		}
		return byCreator[i].CreatedBy < byCreator[j].CreatedBy
	})

	return AdminSummary{
		Summary:   Summarize(events, today),
		Total:     len(events),
		ByCreator: byCreator,
	}
}

type MonthStats struct {
	Total     int `json:"total"`
	Upcoming  int `json:"upcoming"`
	Postponed int `json:"postponed"`
	Cancelled int `json:"cancelled"`
}

// Month counts the events dated in ref's month. The status counts only
// include events on or after today.
func Month(events []*scheduler.Event, ref, today time.Time) MonthStats {
	prefix := ref.Format("2006-01-")
	todayStr := dateutil.FormatDate(today)

	var stats MonthStats
	for _, e := range events {
		if len(e.EventDate) != len(dateutil.DateLayout) || e.EventDate[:len(prefix)] != prefix {
			continue
		}
		stats.Total++

		if e.EventDate < todayStr {
			continue
		}
		switch e.Status {
		case scheduler.StatusScheduled:
			stats.Upcoming++
		case scheduler.StatusPostponed:
			stats.Postponed++
		case scheduler.StatusCancelled:
			stats.Cancelled++
		}
	}

	return stats
}

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alexdunne/not-so-smart-cal/scheduler"
	"github.com/alexdunne/not-so-smart-cal/scheduler/audit"
	"github.com/alexdunne/not-so-smart-cal/scheduler/conflict"
	"github.com/alexdunne/not-so-smart-cal/scheduler/dateutil"
	"github.com/alexdunne/not-so-smart-cal/scheduler/grid"
)

var weekdayHeader = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// renderGrid prints cells as weeks of seven columns. Each day shows its
// number and event count; today is starred and days outside the period
// are dotted.
func renderGrid(w io.Writer, title string, cells []grid.Cell) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Join(pad(weekdayHeader), " "))

	for _, row := range grid.Rows(cells) {
		cols := make([]string, len(row))
		for i, cell := range row {
			cols[i] = cellLabel(cell)
		}
		fmt.Fprintln(w, strings.Join(pad(cols), " "))
	}
}

func cellLabel(cell grid.Cell) string {
	if !cell.IsCurrentPeriod {
		return "."
	}

	label := fmt.Sprintf("%d", cell.Date.Day())
	if cell.IsToday {
		label += "*"
	}
	if n := len(cell.Events); n > 0 {
		label += fmt.Sprintf("(%d)", n)
	}
	return label
}

func pad(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = fmt.Sprintf("%-6s", c)
	}
	return out
}

// renderAgenda lists the events of the in-period days that have any.
func renderAgenda(w io.Writer, cells []grid.Cell) {
	for _, cell := range cells {
		if !cell.IsCurrentPeriod || len(cell.Events) == 0 {
			continue
		}

		fmt.Fprintf(w, "\n%s\n", cell.Date.Format("Mon Jan 2"))
		for _, e := range cell.Events {
			fmt.Fprintf(w, "  %s\n", eventLine(e))
		}
	}
}

func eventLine(e *scheduler.Event) string {
	start, err := dateutil.FormatTime12h(e.StartTime)
	if err != nil {
		start = e.StartTime
	}
	end, err := dateutil.FormatTime12h(e.EndTime)
	if err != nil {
		end = e.EndTime
	}

	line := fmt.Sprintf("%s - %s  %s", start, end, e.Title)
	if e.Status != scheduler.StatusScheduled {
		line += fmt.Sprintf(" [%s]", e.Status)
	}
	if e.Location != "" {
		line += " @ " + e.Location
	}
	return line
}

func renderReport(w io.Writer, report conflict.Report) {
	if warning := report.Warning(); warning != "" {
		fmt.Fprintln(w, warning)
	}
	if !report.HasConflicts {
		if report.Err == nil {
			fmt.Fprintln(w, "no conflicts")
		}
		return
	}

	for _, e := range report.Conflicts {
		fmt.Fprintf(w, "  %s  %s\n", e.ID, eventLine(e))
	}
}

func renderSummary(w io.Writer, s audit.Summary) {
	fmt.Fprintf(w, "audited %d dates: %d events, %d with conflicts, %d failed\n",
		s.Dates, s.Events, s.Conflicting, s.Failed)
}

package main

import (
	"net/http"
	"time"

	"github.com/alexdunne/not-so-smart-cal/scheduler"
	"github.com/alexdunne/not-so-smart-cal/scheduler/dashboard"
	"github.com/alexdunne/not-so-smart-cal/scheduler/dateutil"
	"github.com/alexdunne/not-so-smart-cal/scheduler/grid"
	"github.com/alexdunne/not-so-smart-cal/scheduler/ical"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CellResponse struct {
	Date            string             `json:"date"`
	IsCurrentPeriod bool               `json:"isCurrentPeriod"`
	IsToday         bool               `json:"isToday"`
	Events          []*scheduler.Event `json:"events"`
}

func cellResponses(cells []grid.Cell) []CellResponse {
	out := make([]CellResponse, len(cells))
	for i, cell := range cells {
		events := cell.Events
		if events == nil {
			events = []*scheduler.Event{}
		}
		out[i] = CellResponse{
			Date:            dateutil.FormatDate(cell.Date),
			IsCurrentPeriod: cell.IsCurrentPeriod,
			IsToday:         cell.IsToday,
			Events:          events,
		}
	}
	return out
}

// referenceDate reads ?date=, defaulting to today.
func (s *Server) referenceDate(c *gin.Context) (time.Time, error) {
	value := c.Query("date")
	if value == "" {
		return s.today(), nil
	}
	return dateutil.ParseDateIn(value, s.location)
}

// viewEvents loads every event dated from..to, along with the subset the
// calendar cells show: scheduled and postponed unless ?status= says otherwise.
func (s *Server) viewEvents(c *gin.Context, from, to time.Time) (all, shown []*scheduler.Event, err error) {
	statuses, err := parseStatuses(c.Query("status"), scheduler.StatusScheduled, scheduler.StatusPostponed)
	if err != nil {
		return nil, nil, err
	}

	all, err = s.eventService.FindEventsBetween(c.Request.Context(), dateutil.FormatDate(from), dateutil.FormatDate(to))
	if err != nil {
		return nil, nil, err
	}
	return all, scheduler.FilterEvents(all, statuses...), nil
}

func (s *Server) monthView(c *gin.Context) {
	ref, err := s.referenceDate(c)
	if err != nil {
		s.ErrorResponse(c, err)
		return
	}

	from, to, err := s.grid.MonthRange(ref)
	if err != nil {
		s.ErrorResponse(c, err)
		return
	}

	all, shown, err := s.viewEvents(c, from, to)
	if err != nil {
		s.ErrorResponse(c, err)
		return
	}

	cells, err := s.grid.Month(ref, shown)
	if err != nil {
		s.ErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"title": ref.Format("January 2006"),
		"cells": cellResponses(cells),
		// stats count the whole month whatever the cell filter
		"stats": dashboard.Month(all, ref, s.today()),
	}})
}

func (s *Server) weekView(c *gin.Context) {
	ref, err := s.referenceDate(c)
	if err != nil {
		s.ErrorResponse(c, err)
		return
	}

	from, to, err := s.grid.WeekRange(ref)
	if err != nil {
		s.ErrorResponse(c, err)
		return
	}

	_, shown, err := s.viewEvents(c, from, to)
	if err != nil {
		s.ErrorResponse(c, err)
		return
	}

	cells, err := s.grid.Week(ref, shown)
	if err != nil {
		s.ErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"title": dateutil.FormatWeekRange(ref),
		"cells": cellResponses(cells),
	}})
}

func (s *Server) icsFeed(c *gin.Context) {
	events, err := s.eventService.ListEvents(c.Request.Context())
	if err != nil {
		s.ErrorResponse(c, err)
		return
	}

	c.Header("Content-Type", "text/calendar; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="calendar.ics"`)
	c.Status(http.StatusOK)

	if err := ical.Encode(c.Writer, events, s.location); err != nil {
		s.logger.Error("error writing calendar feed", zap.Error(err))
	}
}

func (s *Server) dashboard(c *gin.Context) {
	events, err := s.eventService.ListEvents(c.Request.Context())
	if err != nil {
		s.ErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dashboard.Summarize(events, s.today())})
}

func (s *Server) adminDashboard(c *gin.Context) {
	events, err := s.eventService.ListEvents(c.Request.Context())
	if err != nil {
		s.ErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dashboard.SummarizeAdmin(events, s.today())})
}
